package segment

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// Inline markers carry formatting spans and hyperlinks through the flat
// text handed to the translation model: <<name:payload>>. A marker for
// the link tag packs its attributes as percent-encoded key=value pairs
// so any attribute value survives the flat representation.

// LinkTag is the marker name used for hyperlinks.
const LinkTag = "a"

const attrSep = "|"

var markerRe = regexp.MustCompile(`(?s)<<([A-Za-z0-9_-]+):(.*?)>>`)

// LinkAttrs holds the attributes captured from a hyperlink.
type LinkAttrs struct {
	Href  string
	ID    string
	Class string
	Text  string
}

// PartKind discriminates the pieces of a marker-bearing string.
type PartKind int

const (
	PartText PartKind = iota
	PartLink
	PartInline
)

// Part is one decoded piece of a segment's text: plain text, a link
// marker, or an inline class marker.
type Part struct {
	Kind PartKind

	Text string // PartText: literal text; PartInline: inner text

	Class string    // PartInline: class name to reconstruct
	Link  LinkAttrs // PartLink: decoded link attributes
}

// EncodeInline encodes a formatting span as a marker.
func EncodeInline(class, text string) string {
	return fmt.Sprintf("<<%s:%s>>", class, text)
}

// EncodeLink encodes a hyperlink as a marker. Absent attributes are
// omitted from the payload.
func EncodeLink(l LinkAttrs) string {
	var parts []string
	if l.Href != "" {
		parts = append(parts, "href="+url.QueryEscape(l.Href))
	}
	if l.ID != "" {
		parts = append(parts, "id="+url.QueryEscape(l.ID))
	}
	if l.Class != "" {
		parts = append(parts, "class="+url.QueryEscape(l.Class))
	}
	if l.Text != "" {
		parts = append(parts, "text="+url.QueryEscape(l.Text))
	}
	return fmt.Sprintf("<<%s:%s>>", LinkTag, strings.Join(parts, attrSep))
}

// decodeLink inverts EncodeLink. Unknown keys are ignored; a payload
// that cannot be percent-decoded is an error.
func decodeLink(payload string) (LinkAttrs, error) {
	var l LinkAttrs
	if payload == "" {
		return l, nil
	}
	for _, kv := range strings.Split(payload, attrSep) {
		key, enc, ok := strings.Cut(kv, "=")
		if !ok {
			return l, fmt.Errorf("malformed link attribute %q", kv)
		}
		val, err := url.QueryUnescape(enc)
		if err != nil {
			return l, fmt.Errorf("decode link attribute %q: %w", key, err)
		}
		switch key {
		case "href":
			l.Href = val
		case "id":
			l.ID = val
		case "class":
			l.Class = val
		case "text":
			l.Text = val
		}
	}
	return l, nil
}

// SplitMarkers splits a marker-bearing string into its parts, in order.
// A link marker whose payload fails to decode is kept as plain text so
// reinjection never loses content.
func SplitMarkers(s string) []Part {
	var parts []Part
	last := 0
	for _, m := range markerRe.FindAllStringSubmatchIndex(s, -1) {
		if m[0] > last {
			parts = append(parts, Part{Kind: PartText, Text: s[last:m[0]]})
		}
		name := s[m[2]:m[3]]
		payload := s[m[4]:m[5]]
		if name == LinkTag {
			link, err := decodeLink(payload)
			if err != nil {
				parts = append(parts, Part{Kind: PartText, Text: s[m[0]:m[1]]})
			} else {
				parts = append(parts, Part{Kind: PartLink, Link: link})
			}
		} else {
			parts = append(parts, Part{Kind: PartInline, Class: name, Text: payload})
		}
		last = m[1]
	}
	if last < len(s) {
		parts = append(parts, Part{Kind: PartText, Text: s[last:]})
	}
	return parts
}
