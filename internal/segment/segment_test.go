package segment

import (
	"strings"
	"testing"

	"golang.org/x/net/html"
)

func parseDoc(t *testing.T, s string) *html.Node {
	t.Helper()
	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return doc
}

func render(t *testing.T, n *html.Node) string {
	t.Helper()
	var sb strings.Builder
	if err := html.Render(&sb, n); err != nil {
		t.Fatalf("render: %v", err)
	}
	return sb.String()
}

func TestExtract_SimpleParagraph(t *testing.T) {
	doc := parseDoc(t, `<html><body><p>Hello <b class="em-sesame">world</b></p></body></html>`)
	segs, err := Extract(doc, DefaultExtractConfig())
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if len(segs) != 1 {
		t.Fatalf("expected 1 segment, got %d", len(segs))
	}
	if got := segs[0].SourceText; got != "Hello <<em-sesame:world>>" {
		t.Errorf("source text = %q", got)
	}
	if !strings.Contains(render(t, doc), Placeholder(0)) {
		t.Error("block content should be replaced with a placeholder")
	}
}

func TestExtract_LinkBecomesMarker(t *testing.T) {
	doc := parseDoc(t, `<html><body><p>see <a href="ch2.xhtml" id="r1">chapter 2</a> now</p></body></html>`)
	segs, err := Extract(doc, DefaultExtractConfig())
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if len(segs) != 1 {
		t.Fatalf("expected 1 segment, got %d", len(segs))
	}

	parts := SplitMarkers(segs[0].SourceText)
	if len(parts) != 3 {
		t.Fatalf("expected text+link+text, got %+v", parts)
	}
	link := parts[1]
	if link.Kind != PartLink {
		t.Fatalf("middle part should be a link, got %+v", link)
	}
	want := LinkAttrs{Href: "ch2.xhtml", ID: "r1", Text: "chapter 2"}
	if link.Link != want {
		t.Errorf("link attrs = %+v, want %+v", link.Link, want)
	}
}

func TestExtract_ContainerBlockSkipped(t *testing.T) {
	doc := parseDoc(t, `<html><body><div><p>inner</p></div></body></html>`)
	segs, err := Extract(doc, DefaultExtractConfig())
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if len(segs) != 1 {
		t.Fatalf("expected only the inner paragraph, got %d segments", len(segs))
	}
	if segs[0].Node.Data != "p" {
		t.Errorf("segment should anchor to <p>, got <%s>", segs[0].Node.Data)
	}
}

func TestExtract_EmptyBlockSkipped(t *testing.T) {
	doc := parseDoc(t, `<html><body><p><br/></p><p>   </p><p>real</p></body></html>`)
	segs, err := Extract(doc, DefaultExtractConfig())
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if len(segs) != 1 || segs[0].SourceText != "real" {
		t.Fatalf("expected a single segment for the non-empty block, got %+v", segs)
	}
	if segs[0].Index != 0 {
		t.Errorf("indices must stay dense, got %d", segs[0].Index)
	}
}

func TestExtract_IndicesAreDocumentOrder(t *testing.T) {
	doc := parseDoc(t, `<html><body><h1>one</h1><p>two</p><ul><li>three</li><li>four</li></ul></body></html>`)
	segs, err := Extract(doc, DefaultExtractConfig())
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	want := []string{"one", "two", "three", "four"}
	if len(segs) != len(want) {
		t.Fatalf("expected %d segments, got %d", len(want), len(segs))
	}
	for i, s := range segs {
		if s.Index != i {
			t.Errorf("segment %d has index %d", i, s.Index)
		}
		if s.SourceText != want[i] {
			t.Errorf("segment %d text = %q, want %q", i, s.SourceText, want[i])
		}
	}
}

func TestExtract_NoBodyIsError(t *testing.T) {
	n := &html.Node{Type: html.ElementNode, Data: "div"}
	if _, err := Extract(n, DefaultExtractConfig()); err == nil {
		t.Error("expected error for tree without body")
	}
}

func TestReinject_RebuildsInlineStructure(t *testing.T) {
	doc := parseDoc(t, `<html><body><p>Hello <b class="em-sesame">world</b></p></body></html>`)
	segs, err := Extract(doc, DefaultExtractConfig())
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	segs[0].TranslatedText = "안녕 <<em-sesame:세계>>"
	segs[0].Translated = true
	Reinject(segs)

	out := render(t, doc)
	if !strings.Contains(out, `<span class="em-sesame">세계</span>`) {
		t.Errorf("inline marker should become a styled span, got %s", out)
	}
	if !strings.Contains(out, "안녕 ") {
		t.Errorf("plain text should survive, got %s", out)
	}
	if strings.Contains(out, "[[tr:") {
		t.Errorf("placeholder must not remain, got %s", out)
	}
}

func TestReinject_RebuildsLink(t *testing.T) {
	doc := parseDoc(t, `<html><body><p>see <a href="ch2.xhtml">chapter 2</a></p></body></html>`)
	segs, err := Extract(doc, DefaultExtractConfig())
	if err != nil {
		t.Fatalf("extract: %v", err)
	}

	// Translate only the surrounding text, leaving the marker intact.
	segs[0].TranslatedText = strings.Replace(segs[0].SourceText, "see ", "참조: ", 1)
	segs[0].Translated = true
	Reinject(segs)

	out := render(t, doc)
	if !strings.Contains(out, `<a href="ch2.xhtml">chapter 2</a>`) {
		t.Errorf("link should be rebuilt with original attributes, got %s", out)
	}
}

func TestReinject_FallsBackToSourceText(t *testing.T) {
	doc := parseDoc(t, `<html><body><p>untranslated</p></body></html>`)
	segs, err := Extract(doc, DefaultExtractConfig())
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	Reinject(segs)

	out := render(t, doc)
	if !strings.Contains(out, "untranslated") {
		t.Errorf("untranslated segment should fall back to source, got %s", out)
	}
	if strings.Contains(out, "[[tr:") {
		t.Errorf("placeholder must not remain, got %s", out)
	}
}
