package workspace

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDir_EnvOverride(t *testing.T) {
	override := filepath.Join(t.TempDir(), "ws")
	t.Setenv("ERST_WORKSPACE", override)

	got, err := Dir()
	if err != nil {
		t.Fatalf("dir: %v", err)
	}
	if got != override {
		t.Errorf("got %q, want %q", got, override)
	}
	if info, err := os.Stat(got); err != nil || !info.IsDir() {
		t.Errorf("workspace dir should exist, stat err=%v", err)
	}
}

func TestExtractionDir_CollisionSuffixes(t *testing.T) {
	root := t.TempDir()

	first, err := ExtractionDir(root, "novel")
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	if filepath.Base(first) != "novel" {
		t.Errorf("first dir = %q", first)
	}

	second, err := ExtractionDir(root, "novel")
	if err != nil {
		t.Fatalf("second: %v", err)
	}
	if filepath.Base(second) != "novel(1)" {
		t.Errorf("second dir = %q", second)
	}

	third, err := ExtractionDir(root, "novel")
	if err != nil {
		t.Fatalf("third: %v", err)
	}
	if filepath.Base(third) != "novel(2)" {
		t.Errorf("third dir = %q", third)
	}

	for _, d := range []string{first, second, third} {
		if info, err := os.Stat(d); err != nil || !info.IsDir() {
			t.Errorf("%s should exist as a directory, err=%v", d, err)
		}
	}
}
