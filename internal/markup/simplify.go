package markup

import (
	"fmt"

	"golang.org/x/net/html"
)

// SimplifyConfig controls which constructs the simplifier strips.
type SimplifyConfig struct {
	// DropTags are removed together with their subtree. Defaults cover
	// ruby reading annotations and their bracket fallbacks.
	DropTags map[string]bool
	// UnwrapTags are replaced by their children, keeping contained text.
	UnwrapTags map[string]bool
	// UnwrapClasses unwraps any element carrying one of these class
	// tokens. Used for viewer-specific inline wrappers.
	UnwrapClasses map[string]bool
}

// DefaultSimplifyConfig returns the stock simplification rules.
func DefaultSimplifyConfig() SimplifyConfig {
	return SimplifyConfig{
		DropTags:   map[string]bool{"rt": true, "rp": true},
		UnwrapTags: map[string]bool{"ruby": true, "rb": true},
		UnwrapClasses: map[string]bool{
			"koboSpan": true,
		},
	}
}

// Simplify strips decorative constructs from a document in place: ruby
// annotations lose their reading sub-nodes (base text survives), viewer
// wrapper elements are unwrapped, and adjacent text nodes are merged.
// Returns an error only when the document has no <body>.
func Simplify(doc *html.Node, cfg SimplifyConfig) error {
	body := FindBody(doc)
	if body == nil {
		return fmt.Errorf("simplify: document has no body element")
	}

	for _, n := range Nodes(body) {
		if n.Type != html.ElementNode {
			continue
		}
		switch {
		case cfg.DropTags[n.Data]:
			Remove(n)
		case cfg.UnwrapTags[n.Data]:
			Unwrap(n)
		case HasClass(n, cfg.UnwrapClasses):
			Unwrap(n)
		}
	}

	CoalesceText(body)
	return nil
}
