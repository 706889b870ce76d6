package tmpl

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/klauspost/readahead"
)

// pathSep separates the segments of a dotted variable path.
const pathSep = "."

// Parse tokenizes and parses src into a [Template].
// Parsing never fails: malformed nesting degrades to dropped content.
func Parse(ctx context.Context, src string, opts ...Option) *Template {
	t := New(nil, opts...)

	t.logger.TraceContext(ctx, "parse start",
		slog.Int("source_length", len(src)))

	tokens := Tokenize(src)
	t.Nodes = ParseTokens(tokens)

	t.logger.TraceContext(ctx, "parse complete",
		slog.Int("token_count", len(tokens)),
		slog.Int("node_count", len(t.Nodes)))

	return t
}

// ParseReader reads all of r and parses it with [Parse].
// A read failure returns an error matching [ErrResourceAccess].
func ParseReader(
	ctx context.Context,
	r io.Reader,
	opts ...Option,
) (*Template, error) {
	// Wrap reader with async read-ahead for concurrent I/O.
	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return nil, ErrResourceAccess.Wrap(err)
	}

	return Parse(ctx, string(data), opts...), nil
}

// ParseTokens builds a node tree from a flat token sequence.
//
// Each section-open is matched with the first same-name close that balances
// the same-name opens between them; everything in between becomes the
// section's children. A close with no open is dropped. An open with no
// matching close is dropped together with every token after it in the same
// sequence. Variable references with a dotted key are rewritten into a
// single-child section keyed on the first path segment, whose child is keyed
// on the last segment.
//
// The result is never nil.
func ParseTokens(tokens []Token) []Node {
	nodes := make([]Node, 0, len(tokens))

	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]

		switch tok.Kind {
		case TokenText:
			nodes = append(nodes, TextNode(tok.Raw))

		case TokenPartial:
			nodes = append(nodes, PartialNode(tok.Name, tok.Raw))

		case TokenVariable:
			nodes = append(nodes, variableNode(tok, false))

		case TokenRaw:
			nodes = append(nodes, variableNode(tok, true))

		case TokenSectionOpen:
			end, ok := matchClose(tokens, i)
			if !ok {
				return nodes
			}

			nodes = append(nodes, SectionNode(
				tok.Name,
				ParseTokens(tokens[i+1:end]),
				tok.Inverted,
				tok.Raw,
				tokens[end].Raw,
			))

			i = end

		case TokenSectionClose:
			// dangling
		}
	}

	return nodes
}

// matchClose returns the index of the close token matching the open token at
// index open.
func matchClose(tokens []Token, open int) (int, bool) {
	name := tokens[open].Name
	depth := 1

	for j := open + 1; j < len(tokens); j++ {
		if tokens[j].Name != name {
			continue
		}

		switch tokens[j].Kind {
		case TokenSectionOpen:
			depth++

		case TokenSectionClose:
			depth--
			if depth == 0 {
				return j, true
			}
		}
	}

	return 0, false
}

// variableNode returns the node for a variable or raw token, desugaring a
// dotted key. Only the first and last path segments are kept.
func variableNode(tok Token, raw bool) Node {
	first, rest, dotted := strings.Cut(tok.Name, pathSep)
	if !dotted {
		if raw {
			return UnescapedNode(tok.Name, tok.Raw)
		}

		return ValueNode(tok.Name, tok.Raw)
	}

	last := rest[strings.LastIndex(rest, pathSep)+1:]

	var child Node

	switch {
	case !raw:
		child = ValueNode(last, openDelim+last+closeDelim)
	case strings.Contains(tok.Raw, "&"):
		child = UnescapedNode(last, openDelim+"&"+last+closeDelim)
	default:
		child = UnescapedNode(last, openTriple+last+closeTriple)
	}

	return SectionNode(
		first,
		[]Node{child},
		false,
		openDelim+"#"+first+closeDelim,
		openDelim+"/"+first+closeDelim,
	)
}
