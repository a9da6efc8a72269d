package tree

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ParseFragment parses markup in a <body> context into a fragment
func ParseFragment(markup string) (*Node, error) {
	nodes, err := ParseNodes(markup)
	if err != nil {
		return nil, err
	}
	return NewFragment(nodes...), nil
}

// ParseNodes parses markup in a <body> context into detached top-level nodes
func ParseNodes(markup string) ([]*Node, error) {
	context := &html.Node{
		Type:     html.ElementNode,
		Data:     "body",
		DataAtom: atom.Body,
	}
	parsed, err := html.ParseFragment(strings.NewReader(markup), context)
	if err != nil {
		return nil, fmt.Errorf("failed to parse markup: %w", err)
	}

	out := make([]*Node, 0, len(parsed))
	for _, p := range parsed {
		if n := fromHTML(p); n != nil {
			out = append(out, n)
		}
	}
	return out, nil
}

// Markup serializes n. A fragment serializes as its children.
func Markup(n *Node) (string, error) {
	if n.Type == FragmentNode {
		return InnerMarkup(n)
	}
	var buf bytes.Buffer
	if err := html.Render(&buf, toHTML(n)); err != nil {
		return "", fmt.Errorf("failed to render markup: %w", err)
	}
	return buf.String(), nil
}

// InnerMarkup serializes the children of n
func InnerMarkup(n *Node) (string, error) {
	var buf bytes.Buffer
	// Children are rendered under a copy of n so raw-text parents such as
	// <script> keep their contents unescaped.
	holder := toHTML(n)
	for c := holder.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return "", fmt.Errorf("failed to render markup: %w", err)
		}
	}
	return buf.String(), nil
}

func fromHTML(h *html.Node) *Node {
	var n *Node
	switch h.Type {
	case html.ElementNode:
		n = &Node{Type: ElementNode, Tag: h.Data}
		for _, a := range h.Attr {
			key := a.Key
			if a.Namespace != "" {
				key = a.Namespace + ":" + a.Key
			}
			n.attrs = append(n.attrs, Attr{Key: key, Val: a.Val})
		}
	case html.TextNode:
		return NewText(h.Data)
	case html.CommentNode:
		return NewComment(h.Data)
	case html.DocumentNode:
		n = &Node{Type: FragmentNode}
	default:
		return nil
	}

	for c := h.FirstChild; c != nil; c = c.NextSibling {
		if child := fromHTML(c); child != nil {
			n.AppendChild(child)
		}
	}
	return n
}

func toHTML(n *Node) *html.Node {
	var h *html.Node
	switch n.Type {
	case ElementNode:
		h = &html.Node{
			Type:     html.ElementNode,
			Data:     n.Tag,
			DataAtom: atom.Lookup([]byte(n.Tag)),
		}
		for _, a := range n.attrs {
			h.Attr = append(h.Attr, html.Attribute{Key: a.Key, Val: a.Val})
		}
	case TextNode:
		return &html.Node{Type: html.TextNode, Data: n.Data}
	case CommentNode:
		return &html.Node{Type: html.CommentNode, Data: n.Data}
	default:
		h = &html.Node{Type: html.DocumentNode}
	}

	for _, c := range n.children {
		h.AppendChild(toHTML(c))
	}
	return h
}
