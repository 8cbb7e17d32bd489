// Package workspace manages the per-user working directory where
// extracted books, credentials, and outputs live.
package workspace

import (
	"fmt"
	"os"
	"path/filepath"
)

const dirName = ".epub_ai_translator"

// Dir returns the workspace root, creating it if needed. Respects
// ERST_WORKSPACE for test and container overrides.
func Dir() (string, error) {
	if p := os.Getenv("ERST_WORKSPACE"); p != "" {
		if err := os.MkdirAll(p, 0755); err != nil {
			return "", fmt.Errorf("create workspace: %w", err)
		}
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	root := filepath.Join(home, dirName)
	if err := os.MkdirAll(root, 0755); err != nil {
		return "", fmt.Errorf("create workspace: %w", err)
	}
	return root, nil
}

// ExtractionDir allocates a fresh directory for one book extraction
// under <workspace>/extracted_epubs/<stem>, suffixing "(1)", "(2)" …
// when the name is taken.
func ExtractionDir(root, stem string) (string, error) {
	base := filepath.Join(root, "extracted_epubs")
	candidate := filepath.Join(base, stem)
	for i := 1; ; i++ {
		if _, err := os.Stat(candidate); os.IsNotExist(err) {
			break
		}
		candidate = filepath.Join(base, fmt.Sprintf("%s(%d)", stem, i))
	}
	if err := os.MkdirAll(candidate, 0755); err != nil {
		return "", fmt.Errorf("create extraction dir: %w", err)
	}
	return candidate, nil
}
