package dom

import (
	"bytes"
	"fmt"
	"io"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Render writes n as HTML. Attributes are emitted in name order; event
// handlers are not serialised.
func Render(w io.Writer, n *Node) error {
	if n == nil {
		return nil
	}
	if err := html.Render(w, toHTML(n)); err != nil {
		return fmt.Errorf("dom: render: %w", err)
	}
	return nil
}

// RenderString renders n to a string.
func RenderString(n *Node) (string, error) {
	var buf bytes.Buffer
	if err := Render(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// InnerHTML renders the children of n, without n itself.
func InnerHTML(n *Node) (string, error) {
	var buf bytes.Buffer
	for _, child := range n.Children() {
		if err := Render(&buf, child); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}

func toHTML(n *Node) *html.Node {
	if n.Type == TextNode {
		return &html.Node{Type: html.TextNode, Data: n.Data}
	}
	out := &html.Node{
		Type:     html.ElementNode,
		Data:     n.Tag,
		DataAtom: atom.Lookup([]byte(n.Tag)),
	}
	for _, name := range n.AttributeNames() {
		out.Attr = append(out.Attr, html.Attribute{Key: name, Val: n.attrs[name]})
	}
	for _, child := range n.children {
		out.AppendChild(toHTML(child))
	}
	return out
}
