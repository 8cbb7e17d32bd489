package segment

import (
	"testing"
)

func TestLinkMarkerRoundTrip(t *testing.T) {
	cases := []struct {
		name string
		link LinkAttrs
	}{
		{"all attrs", LinkAttrs{Href: "ch2.xhtml", ID: "ref1", Class: "noteref", Text: "chapter 2"}},
		{"href only", LinkAttrs{Href: "../text/ch03.xhtml#p12"}},
		{"hostile values", LinkAttrs{Href: "a?b=c&d=e|f", ID: "x:y", Text: "see >> here: 100%"}},
		{"unicode", LinkAttrs{Href: "注釈.xhtml", Text: "注１"}},
		{"empty", LinkAttrs{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			parts := SplitMarkers(EncodeLink(tc.link))
			if len(parts) != 1 {
				t.Fatalf("expected 1 part, got %d", len(parts))
			}
			if parts[0].Kind != PartLink {
				t.Fatalf("expected link part, got kind %d", parts[0].Kind)
			}
			if parts[0].Link != tc.link {
				t.Errorf("round trip mismatch: got %+v, want %+v", parts[0].Link, tc.link)
			}
		})
	}
}

func TestInlineMarkerRoundTrip(t *testing.T) {
	enc := EncodeInline("em-sesame", "world")
	if enc != "<<em-sesame:world>>" {
		t.Fatalf("unexpected encoding %q", enc)
	}
	parts := SplitMarkers(enc)
	if len(parts) != 1 || parts[0].Kind != PartInline {
		t.Fatalf("expected single inline part, got %+v", parts)
	}
	if parts[0].Class != "em-sesame" || parts[0].Text != "world" {
		t.Errorf("got class=%q text=%q", parts[0].Class, parts[0].Text)
	}
}

func TestSplitMarkers_MixedText(t *testing.T) {
	s := "Hello " + EncodeInline("em-dot", "brave") + " new " + EncodeLink(LinkAttrs{Href: "x.xhtml", Text: "world"}) + "!"
	parts := SplitMarkers(s)
	if len(parts) != 5 {
		t.Fatalf("expected 5 parts, got %d: %+v", len(parts), parts)
	}
	wantKinds := []PartKind{PartText, PartInline, PartText, PartLink, PartText}
	for i, k := range wantKinds {
		if parts[i].Kind != k {
			t.Errorf("part %d: kind %d, want %d", i, parts[i].Kind, k)
		}
	}
	if parts[0].Text != "Hello " || parts[2].Text != " new " || parts[4].Text != "!" {
		t.Errorf("plain text parts wrong: %+v", parts)
	}
}

func TestSplitMarkers_PlainTextOnly(t *testing.T) {
	parts := SplitMarkers("no markers here")
	if len(parts) != 1 || parts[0].Kind != PartText || parts[0].Text != "no markers here" {
		t.Errorf("got %+v", parts)
	}
}

func TestSplitMarkers_EmptyString(t *testing.T) {
	if parts := SplitMarkers(""); len(parts) != 0 {
		t.Errorf("expected no parts for empty string, got %+v", parts)
	}
}

func TestSplitMarkers_MalformedLinkPayloadKeptAsText(t *testing.T) {
	raw := "<<a:href=%ZZ>>"
	parts := SplitMarkers(raw)
	if len(parts) != 1 || parts[0].Kind != PartText || parts[0].Text != raw {
		t.Errorf("malformed link should fall back to text, got %+v", parts)
	}
}
