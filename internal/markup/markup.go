// Package markup provides the document-tree operations shared by the
// translation pipeline: node helpers over golang.org/x/net/html, the
// pre-translation simplifier and the post-translation normalizer.
//
// All functions mutate trees in place; a tree is owned by exactly one
// file's processing run at a time.
package markup

import (
	"strings"

	"golang.org/x/net/html"
)

// FindBody returns the <body> element of a parsed document, or nil.
func FindBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := FindBody(c); b != nil {
			return b
		}
	}
	return nil
}

// FindRoot returns the root <html> element, or nil.
func FindRoot(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "html" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if r := FindRoot(c); r != nil {
			return r
		}
	}
	return nil
}

// Text returns the concatenated text content of a subtree.
func Text(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return buf.String()
}

// Attr returns the value of the named attribute, or "".
func Attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// SetAttr sets or replaces the named attribute.
func SetAttr(n *html.Node, key, val string) {
	for i := range n.Attr {
		if n.Attr[i].Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

// Classes returns the whitespace-split class list of an element.
func Classes(n *html.Node) []string {
	return strings.Fields(Attr(n, "class"))
}

// HasClass reports whether any class token of n is present in set.
func HasClass(n *html.Node, set map[string]bool) bool {
	return MatchClass(n, set) != ""
}

// MatchClass returns the first class token of n present in set, or "".
func MatchClass(n *html.Node, set map[string]bool) string {
	for _, c := range Classes(n) {
		if set[c] {
			return c
		}
	}
	return ""
}

// Remove detaches a node (and its subtree) from its parent.
func Remove(n *html.Node) {
	if n.Parent != nil {
		n.Parent.RemoveChild(n)
	}
}

// Unwrap replaces a node with its own children, preserving order.
func Unwrap(n *html.Node) {
	parent := n.Parent
	if parent == nil {
		return
	}
	for n.FirstChild != nil {
		c := n.FirstChild
		n.RemoveChild(c)
		parent.InsertBefore(c, n)
	}
	parent.RemoveChild(n)
}

// ClearChildren removes every child of a node.
func ClearChildren(n *html.Node) {
	for n.FirstChild != nil {
		n.RemoveChild(n.FirstChild)
	}
}

// AppendText appends a text node child.
func AppendText(n *html.Node, text string) {
	n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
}

// Nodes returns a pre-order snapshot of the subtree rooted at n.
// Mutating children during iteration over the snapshot does not
// affect traversal order.
func Nodes(n *html.Node) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		out = append(out, n)
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return out
}

// CoalesceText merges runs of adjacent text-node children throughout a
// subtree, so later extraction sees contiguous strings.
func CoalesceText(n *html.Node) {
	for c := n.FirstChild; c != nil; {
		if c.Type == html.TextNode {
			for c.NextSibling != nil && c.NextSibling.Type == html.TextNode {
				sib := c.NextSibling
				c.Data += sib.Data
				n.RemoveChild(sib)
			}
		} else {
			CoalesceText(c)
		}
		c = c.NextSibling
	}
}
