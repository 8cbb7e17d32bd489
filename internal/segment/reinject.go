package segment

import (
	"github.com/shwan6160/EPUB-AI-Translator/internal/markup"
	"golang.org/x/net/html"
)

// Reinject replaces every segment's placeholder with its translated
// text, rebuilding inline markers as structural nodes. A segment that
// never received a translation falls back to its source text, so the
// skeleton is always fully resolved.
func Reinject(segs []*Segment) {
	for _, seg := range segs {
		text := seg.SourceText
		if seg.Translated {
			text = seg.TranslatedText
		}
		rebuild(seg.Node, text)
	}
}

// rebuild clears a node and repopulates it from marker-bearing text.
func rebuild(n *html.Node, text string) {
	markup.ClearChildren(n)
	for _, part := range SplitMarkers(text) {
		switch part.Kind {
		case PartText:
			markup.AppendText(n, part.Text)
		case PartLink:
			n.AppendChild(linkNode(part.Link))
		case PartInline:
			span := &html.Node{
				Type: html.ElementNode,
				Data: "span",
				Attr: []html.Attribute{{Key: "class", Val: part.Class}},
			}
			markup.AppendText(span, part.Text)
			n.AppendChild(span)
		}
	}
}

func linkNode(l LinkAttrs) *html.Node {
	a := &html.Node{Type: html.ElementNode, Data: LinkTag}
	if l.Href != "" {
		markup.SetAttr(a, "href", l.Href)
	}
	if l.ID != "" {
		markup.SetAttr(a, "id", l.ID)
	}
	if l.Class != "" {
		markup.SetAttr(a, "class", l.Class)
	}
	if l.Text != "" {
		markup.AppendText(a, l.Text)
	}
	return a
}
