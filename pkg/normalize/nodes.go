package normalize

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// unwrap promotes a node's children into its parent and removes the node.
// Nodes without a parent are left alone (malformed input tolerance).
func unwrap(n *html.Node) {
	parent := n.Parent
	if parent == nil {
		return
	}
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		n.RemoveChild(c)
		parent.InsertBefore(c, n)
		c = next
	}
	parent.RemoveChild(n)
}

// retype changes an element's tag in place, keeping children and position.
func retype(n *html.Node, a atom.Atom) {
	n.Data = a.String()
	n.DataAtom = a
}

func removeAttr(n *html.Node, key string) {
	attrs := n.Attr[:0]
	for _, a := range n.Attr {
		if a.Key != key {
			attrs = append(attrs, a)
		}
	}
	n.Attr = attrs
}

// replaceWithText swaps a node for a text node. If the new text node ends up
// immediately before another text node the two are merged, so downstream
// whitespace collapsing behaves as if the replaced node were inline text.
func replaceWithText(n *html.Node, text string) {
	parent := n.Parent
	if parent == nil {
		return
	}
	t := &html.Node{Type: html.TextNode, Data: text}
	parent.InsertBefore(t, n)
	parent.RemoveChild(n)
	if next := t.NextSibling; next != nil && next.Type == html.TextNode {
		t.Data += next.Data
		parent.RemoveChild(next)
	}
}

// replaceNode swaps old for repl in old's parent.
func replaceNode(old, repl *html.Node) {
	parent := old.Parent
	if parent == nil {
		return
	}
	parent.InsertBefore(repl, old)
	parent.RemoveChild(old)
}

// insertAfter places n directly after ref.
func insertAfter(n, ref *html.Node) {
	if ref.Parent == nil {
		return
	}
	ref.Parent.InsertBefore(n, ref.NextSibling)
}

// extractText collects the node's descendant text in document order. Each
// fragment is trimmed, empty fragments are dropped, and the survivors are
// joined with sep. A newline separator preserves the line structure built
// up by the poem and song rewrites.
func extractText(n *html.Node, sep string) string {
	var parts []string
	var walk func(*html.Node)
	walk = func(c *html.Node) {
		if c.Type == html.TextNode {
			if t := strings.TrimSpace(c.Data); t != "" {
				parts = append(parts, t)
			}
			return
		}
		for child := c.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(n)
	return strings.Join(parts, sep)
}
