package tmpl

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// NodeKind identifies the variant of a [Node].
type NodeKind int

const (
	// NodeText is literal passthrough text.
	NodeText NodeKind = iota

	// NodeValue is an HTML-escaped scalar substitution.
	NodeValue

	// NodeUnescaped is a raw scalar substitution.
	NodeUnescaped

	// NodeSection is a conditional or repeated block.
	NodeSection

	// NodePartial is a named sub-template inclusion point.
	NodePartial
)

// String returns a string representation of the node kind.
func (k NodeKind) String() string {
	switch k {
	case NodeText:
		return "StaticText"
	case NodeValue:
		return "Value"
	case NodeUnescaped:
		return "UnescapedValue"
	case NodeSection:
		return "Section"
	case NodePartial:
		return "Partial"
	default:
		return "Unknown"
	}
}

// Node is one element of a parsed template tree.
//
// Text holds the literal for [NodeText] and the verbatim tag for [NodeValue],
// [NodeUnescaped] and [NodePartial]. Sections carry their verbatim open and
// close tags instead. Children are held by value, so every section owns its
// subtree exclusively.
type Node struct {
	Kind     NodeKind
	Key      string
	Text     string
	Children []Node
	Inverted bool
	OpenTag  string
	CloseTag string
}

// TextNode returns a static text node.
func TextNode(text string) Node {
	return Node{Kind: NodeText, Text: text}
}

// ValueNode returns an escaped value node.
func ValueNode(key, rawTag string) Node {
	return Node{Kind: NodeValue, Key: key, Text: rawTag}
}

// UnescapedNode returns an unescaped value node.
func UnescapedNode(key, rawTag string) Node {
	return Node{Kind: NodeUnescaped, Key: key, Text: rawTag}
}

// SectionNode returns a section node owning children.
func SectionNode(
	key string,
	children []Node,
	inverted bool,
	openTag, closeTag string,
) Node {
	return Node{
		Kind:     NodeSection,
		Key:      key,
		Children: children,
		Inverted: inverted,
		OpenTag:  openTag,
		CloseTag: closeTag,
	}
}

// PartialNode returns a partial inclusion node.
func PartialNode(key, rawTag string) Node {
	return Node{Kind: NodePartial, Key: key, Text: rawTag}
}

// Source reconstructs the template text that n was parsed from.
// Desugared dotted paths reconstruct as their explicit section form.
func (n Node) Source() string {
	var b strings.Builder

	n.writeSource(&b)

	return b.String()
}

// Inner returns the template text enclosed by a section's open and close
// tags. It is the argument passed to a lambda bound to the section.
func (n Node) Inner() string {
	return sourceOf(n.Children)
}

func (n Node) writeSource(b *strings.Builder) {
	if n.Kind != NodeSection {
		b.WriteString(n.Text)

		return
	}

	b.WriteString(n.OpenTag)

	for _, c := range n.Children {
		c.writeSource(b)
	}

	b.WriteString(n.CloseTag)
}

func sourceOf(nodes []Node) string {
	var b strings.Builder

	for _, n := range nodes {
		n.writeSource(&b)
	}

	return b.String()
}

// ToMap returns a map representation of n suitable for JSON and YAML
// encoding.
func (n Node) ToMap() map[string]any {
	m := map[string]any{
		"kind": n.Kind.String(),
	}

	switch n.Kind {
	case NodeText:
		m["text"] = n.Text

	case NodeValue, NodeUnescaped, NodePartial:
		m["key"] = n.Key
		m["tag"] = n.Text

	case NodeSection:
		m["key"] = n.Key
		m["inverted"] = n.Inverted
		m["open"] = n.OpenTag
		m["close"] = n.CloseTag
		m["children"] = nodesToList(n.Children)
	}

	return m
}

func nodesToList(nodes []Node) []any {
	list := make([]any, len(nodes))
	for i, n := range nodes {
		list[i] = n.ToMap()
	}

	return list
}

// Print writes an indented tree representation of n to w.
func (n Node) Print(ctx context.Context, w io.Writer, indent int) {
	prefix := strings.Repeat("  ", indent)

	switch n.Kind {
	case NodeText:
		fmt.Fprintf(w, "%s%s %s\n", prefix, n.Kind, strconv.Quote(n.Text))

	case NodeSection:
		mark := "#"
		if n.Inverted {
			mark = "^"
		}

		fmt.Fprintf(w, "%s%s %s %s (%d children)\n",
			prefix, n.Kind, mark, strconv.Quote(n.Key), len(n.Children))

		for _, c := range n.Children {
			c.Print(ctx, w, indent+1)
		}

	default:
		fmt.Fprintf(w, "%s%s %s %s\n",
			prefix, n.Kind, strconv.Quote(n.Key), n.Text)
	}
}
