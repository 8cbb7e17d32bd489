// Package segment decomposes simplified documents into translatable
// units and reinjects translated text into the original structure.
//
// A Segment is the minimal translatable block: a block-tagged node with
// no block-tagged descendant whose extracted text is non-empty. The
// extractor replaces each such node's content with a positional
// placeholder, leaving a structural skeleton; the reinjector later
// rebuilds the node's children from translated text.
package segment

import (
	"fmt"
	"strings"

	"github.com/shwan6160/EPUB-AI-Translator/internal/markup"
	"golang.org/x/net/html"
)

// Segment is one translatable leaf text unit.
type Segment struct {
	// Index is dense and zero-based, assigned in document order.
	Index int
	// Node anchors the segment to the tree node whose content it
	// replaced. Node identity is stable across child mutation, so the
	// anchor stays valid for the whole file run.
	Node *html.Node

	// SourceText is the extracted text with inline markers embedded.
	SourceText string
	// TranslatedText is set once a chunk covering this segment
	// completes; Translated distinguishes "empty" from "absent".
	TranslatedText string
	Translated     bool
}

// ExtractConfig controls which nodes qualify as translatable blocks and
// which inline classes survive as markers.
type ExtractConfig struct {
	BlockTags       map[string]bool
	PreserveClasses map[string]bool
}

// DefaultExtractConfig returns the stock block and preserve sets.
func DefaultExtractConfig() ExtractConfig {
	return ExtractConfig{
		BlockTags: map[string]bool{
			"p": true, "h1": true, "h2": true, "h3": true,
			"h4": true, "h5": true, "h6": true,
			"li": true, "dt": true, "dd": true,
			"td": true, "th": true, "caption": true,
			"blockquote": true, "figcaption": true, "div": true,
		},
		PreserveClasses: map[string]bool{
			"em-sesame": true, "em-dot": true, "em-circle": true,
			"em-line": true, "tcy": true,
		},
	}
}

// Placeholder returns the positional token written into the skeleton
// for a segment index.
func Placeholder(index int) string {
	return fmt.Sprintf("[[tr:%d]]", index)
}

// Extract walks the document in pre-order, captures every minimal
// translatable block as a Segment, and replaces each block's content
// with its placeholder. Container blocks that wrap other blocks are
// never extracted. Returns an error only when the document has no body.
func Extract(doc *html.Node, cfg ExtractConfig) ([]*Segment, error) {
	body := markup.FindBody(doc)
	if body == nil {
		return nil, fmt.Errorf("extract: document has no body element")
	}

	var segs []*Segment
	// Snapshot before mutating so placeholder writes cannot change
	// traversal order or cause revisits.
	for _, n := range markup.Nodes(body) {
		if n.Type != html.ElementNode || !cfg.BlockTags[n.Data] {
			continue
		}
		if hasBlockDescendant(n, cfg.BlockTags) {
			continue
		}
		text := strings.TrimSpace(collectText(n, cfg))
		if text == "" {
			// A block with no visible text (a paragraph holding only
			// a line break, say) keeps its structure untouched.
			continue
		}
		seg := &Segment{
			Index:      len(segs),
			Node:       n,
			SourceText: text,
		}
		segs = append(segs, seg)
		markup.ClearChildren(n)
		markup.AppendText(n, Placeholder(seg.Index))
	}
	return segs, nil
}

func hasBlockDescendant(n *html.Node, blockTags map[string]bool) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && blockTags[c.Data] {
			return true
		}
		if hasBlockDescendant(c, blockTags) {
			return true
		}
	}
	return false
}

// collectText flattens a block's children into marker-bearing text:
// text nodes pass through, hyperlinks and preserve-class spans become
// markers, everything else contributes its visible text only.
func collectText(n *html.Node, cfg ExtractConfig) string {
	var buf strings.Builder
	var walk func(*html.Node)
	walk = func(c *html.Node) {
		switch {
		case c.Type == html.TextNode:
			buf.WriteString(c.Data)
		case c.Type == html.ElementNode && c.Data == LinkTag:
			buf.WriteString(EncodeLink(LinkAttrs{
				Href:  markup.Attr(c, "href"),
				ID:    markup.Attr(c, "id"),
				Class: markup.Attr(c, "class"),
				Text:  markup.Text(c),
			}))
		case c.Type == html.ElementNode:
			if cls := markup.MatchClass(c, cfg.PreserveClasses); cls != "" {
				buf.WriteString(EncodeInline(cls, markup.Text(c)))
				return
			}
			for cc := c.FirstChild; cc != nil; cc = cc.NextSibling {
				walk(cc)
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c)
	}
	return buf.String()
}
