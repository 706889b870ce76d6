package tmpl

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/stache/log"
)

// DefaultMaxDepth is the default maximum nesting depth of partials.
const DefaultMaxDepth = 100

// Template is a parsed template tree together with its render options.
//
// The node tree is read-only after parsing and may be rendered concurrently
// against independent contexts, provided those contexts do not share
// [Lambda] instances.
type Template struct {
	Nodes []Node

	partials PartialResolver
	maxDepth int
	logger   log.Logger
}

// Option configures parsing and rendering behavior.
type Option func(*Template)

// WithPartials sets the resolver consulted for partial tags.
// Without one, partial tags render nothing.
func WithPartials(r PartialResolver) Option {
	return func(t *Template) {
		t.partials = r
	}
}

// WithMaxDepth sets the maximum nesting depth of partials.
// A depth of zero or less disables the limit.
func WithMaxDepth(depth int) Option {
	return func(t *Template) {
		t.maxDepth = depth
	}
}

// WithLogger sets the structured logger for trace-level debugging.
func WithLogger(logger log.Logger) Option {
	return func(t *Template) {
		t.logger = logger
	}
}

// applyDefaults sets default option values on a Template.
func applyDefaults(t *Template) {
	t.maxDepth = DefaultMaxDepth
}

// applyOptions applies functional options to a Template.
func applyOptions(t *Template, opts ...Option) {
	for _, opt := range opts {
		opt(t)
	}
}

// New returns a Template over an already-parsed node tree.
func New(nodes []Node, opts ...Option) *Template {
	t := &Template{Nodes: nodes}

	applyDefaults(t)
	applyOptions(t, opts...)

	return t
}

// Render writes the template rendered against data to w.
//
// Output is buffered and written only if rendering succeeds, so a failed
// render writes nothing. A nil data renders against an empty context.
func (t *Template) Render(ctx context.Context, w io.Writer, data *Context) error {
	var buf bytes.Buffer

	err := t.render(ctx, &buf, data)
	if err != nil {
		return err
	}

	_, err = buf.WriteTo(w)
	if err != nil {
		return ErrWrite.Wrap(err)
	}

	return nil
}

// RenderString renders the template against data and returns the output.
func (t *Template) RenderString(ctx context.Context, data *Context) (string, error) {
	var buf bytes.Buffer

	err := t.render(ctx, &buf, data)
	if err != nil {
		return "", err
	}

	return buf.String(), nil
}

// Source reconstructs the template text from the node tree.
func (t *Template) Source() string {
	return sourceOf(t.Nodes)
}

// Print writes an indented tree representation of the template to w.
func (t *Template) Print(ctx context.Context, w io.Writer) {
	for _, n := range t.Nodes {
		n.Print(ctx, w, 0)
	}
}

// ToList returns the node tree as nested maps and lists.
func (t *Template) ToList() []any {
	return nodesToList(t.Nodes)
}

// FormatJSON writes the node tree as JSON to w.
func (t *Template) FormatJSON(_ context.Context, w io.Writer, indent int) error {
	var (
		jsonData []byte
		err      error
	)

	if indent > 0 {
		jsonData, err = json.MarshalIndent(t.ToList(), "", strings.Repeat(" ", indent))
	} else {
		jsonData, err = json.Marshal(t.ToList())
	}

	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(jsonData))

	return err
}

// FormatYAML writes the node tree as YAML to w.
func (t *Template) FormatYAML(ctx context.Context, w io.Writer, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	yamlData, err := yaml.MarshalContext(ctx, t.ToList(), opts...)
	if err != nil {
		return err
	}

	_, err = fmt.Fprint(w, string(yamlData))

	return err
}

// Render renders an already-parsed node tree against data.
// It is shorthand for New(nodes, opts...).Render(ctx, w, data).
func Render(
	ctx context.Context,
	w io.Writer,
	nodes []Node,
	data *Context,
	opts ...Option,
) error {
	return New(nodes, opts...).Render(ctx, w, data)
}

// RenderText parses src and renders it against data.
func RenderText(
	ctx context.Context,
	src string,
	data *Context,
	opts ...Option,
) (string, error) {
	return Parse(ctx, src, opts...).RenderString(ctx, data)
}

// RenderFile parses the template file at path and renders it against data.
// A read failure returns an error matching [ErrResourceAccess].
func RenderFile(
	ctx context.Context,
	path string,
	data *Context,
	opts ...Option,
) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", ErrResourceAccess.Wrap(err).With(slog.String("path", path))
	}
	defer file.Close()

	t, err := ParseReader(ctx, file, opts...)
	if err != nil {
		return "", WrapError(err).With(slog.String("path", path))
	}

	return t.RenderString(ctx, data)
}
