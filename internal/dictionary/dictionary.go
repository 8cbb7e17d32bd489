// Package dictionary generates and validates the per-book character
// dictionary that keeps names consistent across translation chunks.
package dictionary

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/shwan6160/EPUB-AI-Translator/internal/prompts"
	"github.com/shwan6160/EPUB-AI-Translator/internal/provider"
)

// Entry maps one source-language name to its target rendering.
type Entry struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Notes  string `json:"notes,omitempty"`
}

// Dictionary holds character and group name mappings for one book.
type Dictionary struct {
	Characters []Entry `json:"characters"`
	Groups     []Entry `json:"groups"`
}

// Parse validates and decodes a model response. The response must be a
// JSON object with "characters" and "groups" arrays; anything else is
// rejected so a malformed dictionary never reaches translation.
func Parse(raw string) (*Dictionary, error) {
	raw = provider.StripCodeBlock(raw)

	var top map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &top); err != nil {
		return nil, fmt.Errorf("dictionary response is not a JSON object: %w", err)
	}
	chars, ok := top["characters"]
	if !ok {
		return nil, fmt.Errorf("dictionary response missing %q key", "characters")
	}
	groups, ok := top["groups"]
	if !ok {
		return nil, fmt.Errorf("dictionary response missing %q key", "groups")
	}

	var d Dictionary
	if err := json.Unmarshal(chars, &d.Characters); err != nil {
		return nil, fmt.Errorf("%q must be an array: %w", "characters", err)
	}
	if err := json.Unmarshal(groups, &d.Groups); err != nil {
		return nil, fmt.Errorf("%q must be an array: %w", "groups", err)
	}
	return &d, nil
}

// Generate asks a provider to build the dictionary from a book's full
// text.
func Generate(ctx context.Context, p provider.Provider, fullText string) (*Dictionary, error) {
	if strings.TrimSpace(fullText) == "" {
		return nil, fmt.Errorf("book text is empty")
	}
	resp, err := p.GenerateContent(ctx, prompts.BuildDictionaryUser(fullText))
	if err != nil {
		return nil, fmt.Errorf("generate dictionary: %w", err)
	}
	return Parse(resp)
}

// Render formats the dictionary for embedding into the translation
// system prompt.
func (d *Dictionary) Render() string {
	var sb strings.Builder
	writeEntries := func(title string, entries []Entry) {
		if len(entries) == 0 {
			return
		}
		sb.WriteString(title)
		sb.WriteString(":\n")
		for _, e := range entries {
			sb.WriteString("- ")
			sb.WriteString(e.Source)
			sb.WriteString(" => ")
			sb.WriteString(e.Target)
			if e.Notes != "" {
				sb.WriteString(" (")
				sb.WriteString(e.Notes)
				sb.WriteString(")")
			}
			sb.WriteString("\n")
		}
	}
	writeEntries("Characters", d.Characters)
	writeEntries("Groups", d.Groups)
	return sb.String()
}

// PathFor returns the dictionary file path stored beside an EPUB.
func PathFor(epubPath string) string {
	stem := strings.TrimSuffix(filepath.Base(epubPath), filepath.Ext(epubPath))
	return filepath.Join(filepath.Dir(epubPath), stem+"_character_dictionary.json")
}

// Load reads a previously saved dictionary.
func Load(path string) (*Dictionary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dictionary: %w", err)
	}
	return Parse(string(data))
}

// Save writes the dictionary as indented JSON.
func (d *Dictionary) Save(path string) error {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal dictionary: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write dictionary: %w", err)
	}
	return nil
}
