package tmpl

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
)

// htmlEscaper replaces exactly the four characters with special meaning in
// HTML text and attribute values. Each input byte is replaced at most once.
var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
)

// EscapeHTML escapes &, <, > and " in s. Other characters, including the
// single quote, are left untouched.
func EscapeHTML(s string) string {
	return htmlEscaper.Replace(s)
}

// renderer holds the state of a single render call.
type renderer struct {
	t     *Template
	buf   *bytes.Buffer
	data  *Context
	depth int
}

func (t *Template) render(ctx context.Context, buf *bytes.Buffer, data *Context) error {
	if data == nil {
		data = NewContext(nil)
	}

	t.logger.TraceContext(ctx, "render start",
		slog.Int("node_count", len(t.Nodes)),
		slog.Int("scope_depth", data.Depth()))

	r := &renderer{t: t, buf: buf, data: data}

	err := r.renderNodes(ctx, t.Nodes)
	if err != nil {
		t.logger.TraceContext(ctx, "render failed", slog.Any("error", err))

		return err
	}

	t.logger.TraceContext(ctx, "render complete",
		slog.Int("output_length", buf.Len()))

	return nil
}

func (r *renderer) renderNodes(ctx context.Context, nodes []Node) error {
	for _, n := range nodes {
		err := r.renderNode(ctx, n)
		if err != nil {
			return err
		}
	}

	return nil
}

func (r *renderer) renderNode(ctx context.Context, n Node) error {
	switch n.Kind {
	case NodeText:
		r.buf.WriteString(n.Text)

		return nil

	case NodeValue:
		return r.renderValue(n, true)

	case NodeUnescaped:
		return r.renderValue(n, false)

	case NodeSection:
		return r.renderSection(ctx, n)

	case NodePartial:
		return r.renderPartial(ctx, n)

	default:
		return nil
	}
}

func (r *renderer) renderValue(n Node, escape bool) error {
	v, ok := r.data.Lookup(n.Key)
	if !ok {
		return nil
	}

	text, ok := v.Text()
	if !ok {
		return ErrRenderType.With(
			slog.String("key", n.Key),
			slog.String("kind", v.Kind().String()),
			slog.String("tag", n.Text),
		)
	}

	if escape {
		text = EscapeHTML(text)
	}

	r.buf.WriteString(text)

	return nil
}

func (r *renderer) renderSection(ctx context.Context, n Node) error {
	v, ok := r.data.Lookup(n.Key)
	if !ok {
		if n.Inverted {
			return r.renderNodes(ctx, n.Children)
		}

		return nil
	}

	switch v.Kind() {
	case KindList:
		items := v.Items()

		if n.Inverted {
			if len(items) == 0 {
				return r.renderNodes(ctx, n.Children)
			}

			return nil
		}

		for _, item := range items {
			err := r.renderScoped(ctx, item.Fields(), n.Children)
			if err != nil {
				return err
			}
		}

		return nil

	case KindMap:
		if n.Inverted {
			return nil
		}

		return r.renderScoped(ctx, v.Fields(), n.Children)

	case KindLambda:
		fn := v.Lambda()
		if n.Inverted || fn == nil {
			return nil
		}

		inner := n.Inner()

		r.t.logger.TraceContext(ctx, "render lambda",
			slog.String("key", n.Key),
			slog.Int("input_length", len(inner)))

		r.buf.WriteString(fn.Call(inner))

		return nil

	default:
		if v.truthy() != n.Inverted {
			return r.renderNodes(ctx, n.Children)
		}

		return nil
	}
}

// renderScoped renders nodes with scope pushed as the innermost scope.
func (r *renderer) renderScoped(
	ctx context.Context,
	scope map[string]Value,
	nodes []Node,
) error {
	r.data.Push(scope)
	defer r.data.Pop()

	return r.renderNodes(ctx, nodes)
}

func (r *renderer) renderPartial(ctx context.Context, n Node) error {
	if r.t.partials == nil {
		return nil
	}

	if r.t.maxDepth > 0 && r.depth >= r.t.maxDepth {
		return ErrMaxDepthExceeded.With(
			slog.String("partial", n.Key),
			slog.Int("max_depth", r.t.maxDepth),
		)
	}

	nodes, ok, err := r.t.partials.Lookup(ctx, n.Key)
	if err != nil {
		return err
	}

	if !ok {
		r.t.logger.TraceContext(ctx, "partial not found",
			slog.String("partial", n.Key))

		return nil
	}

	r.depth++
	defer func() { r.depth-- }()

	return r.renderNodes(ctx, nodes)
}
