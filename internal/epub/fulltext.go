package epub

import (
	"fmt"
	"strings"

	"github.com/shwan6160/EPUB-AI-Translator/internal/markup"
)

// FullText loads every content document in reading order, simplifies
// it, and concatenates its visible body text. Used as the input for
// character-dictionary generation.
func FullText(b *Book, cfg markup.SimplifyConfig) (string, error) {
	var sb strings.Builder
	for _, rel := range b.ContentFiles {
		doc, err := b.LoadDocument(rel)
		if err != nil {
			return "", err
		}
		if err := markup.Simplify(doc, cfg); err != nil {
			// A content file without a body contributes nothing.
			continue
		}
		body := markup.FindBody(doc)
		text := strings.TrimSpace(markup.Text(body))
		if text == "" {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(text)
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("no text extracted from book")
	}
	return sb.String(), nil
}
