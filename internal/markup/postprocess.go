package markup

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// PostProcessConfig controls target-language presentation normalization.
type PostProcessConfig struct {
	// VerticalClass is rewritten to HorizontalClass wherever it appears
	// in the root element's class list.
	VerticalClass   string
	HorizontalClass string
	// ViewerAssetPattern matches the src/href/id/class of vendor script
	// and style nodes that must not survive into the output.
	ViewerAssetPattern *regexp.Regexp
}

// DefaultPostProcessConfig returns the stock normalization rules.
func DefaultPostProcessConfig() PostProcessConfig {
	return PostProcessConfig{
		VerticalClass:      "vrtl",
		HorizontalClass:    "hltr",
		ViewerAssetPattern: regexp.MustCompile(`(?i)kobo|ibooks|amzn`),
	}
}

// PostProcess normalizes a translated document for the target language:
// sets the root language attributes, rewrites the vertical-writing class
// to its horizontal equivalent, and removes viewer-vendor script/style
// nodes. Pure in-place mutation.
func PostProcess(doc *html.Node, targetLang string, cfg PostProcessConfig) {
	root := FindRoot(doc)
	if root != nil {
		SetAttr(root, "lang", targetLang)
		SetAttr(root, "xml:lang", targetLang)

		if cfg.VerticalClass != "" {
			if cls := Classes(root); len(cls) > 0 {
				changed := false
				for i, c := range cls {
					if c == cfg.VerticalClass {
						cls[i] = cfg.HorizontalClass
						changed = true
					}
				}
				if changed {
					SetAttr(root, "class", strings.Join(cls, " "))
				}
			}
		}
	}

	if cfg.ViewerAssetPattern == nil {
		return
	}
	for _, n := range Nodes(doc) {
		if n.Type != html.ElementNode {
			continue
		}
		switch n.Data {
		case "script", "style", "link":
			for _, key := range []string{"src", "href", "id", "class"} {
				if v := Attr(n, key); v != "" && cfg.ViewerAssetPattern.MatchString(v) {
					Remove(n)
					break
				}
			}
		}
	}
}
