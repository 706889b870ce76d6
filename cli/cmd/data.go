package cmd

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"github.com/expr-lang/expr"

	"github.com/ardnew/stache/log"
	"github.com/ardnew/stache/tmpl"
)

// Data holds the flags shared by commands that render templates: where the
// data context comes from and where partials are found.
type Data struct {
	Data     []string `help:"Data file (.json, .yaml, .yml, .toml) merged into the context, in order." placeholder:"FILE" short:"d" type:"existingfile"`
	Set      []string `help:"Assign KEY=VALUE in the context after data files. VALUE is an expression; dotted keys nest." placeholder:"KEY=VALUE" short:"D"`
	Partials []string `help:"Directory searched for partials, ahead of those listed in STACHE_PATH." placeholder:"DIR" short:"P" type:"path"`
	Ext      string   `default:".mustache" help:"File extension of partial templates."`
	MaxDepth int      `default:"100" help:"Maximum nesting depth of partials (0 for unlimited)."`
}

// Context returns the data context built from the data files and
// assignments, applied in command-line order.
func (d *Data) Context(ctx context.Context) (*tmpl.Context, error) {
	root := map[string]tmpl.Value{}

	for _, path := range d.Data {
		m, err := tmpl.LoadData(ctx, path)
		if err != nil {
			return nil, ErrLoadData.Wrap(err).With(slog.String("file", path))
		}

		tmpl.Merge(root, m)

		log.TraceContext(ctx, "data loaded",
			slog.String("file", path), slog.Int("keys", len(m)))
	}

	for _, assign := range d.Set {
		m, err := parseAssignment(assign)
		if err != nil {
			return nil, err
		}

		tmpl.Merge(root, m)
	}

	return tmpl.NewContext(root), nil
}

// Options returns the template options selecting partial lookup, depth
// limit and logger.
func (d *Data) Options() []tmpl.Option {
	dirs := tmpl.SearchPath(d.Partials, os.Getenv(tmpl.EnvSearchPath))

	return []tmpl.Option{
		tmpl.WithLogger(log.Default()),
		tmpl.WithMaxDepth(d.MaxDepth),
		tmpl.WithPartials(tmpl.NewDirResolver(dirs, d.Ext, tmpl.WithLogger(log.Default()))),
	}
}

// parseAssignment converts KEY=VALUE into a data map. VALUE is evaluated as
// an expression, so numbers, booleans, lists and maps keep their type; input
// that does not evaluate is kept as a literal string. A dotted KEY produces
// nested maps.
func parseAssignment(assign string) (map[string]tmpl.Value, error) {
	key, raw, ok := strings.Cut(assign, "=")

	key = strings.TrimSpace(key)
	if !ok || key == "" {
		return nil, ErrSetValue.With(slog.String("assignment", assign))
	}

	var native any = raw

	if out, err := expr.Eval(raw, nil); err == nil && out != nil {
		native = out
	}

	val, err := tmpl.FromNative(native)
	if err != nil {
		return nil, ErrSetValue.Wrap(err).With(slog.String("assignment", assign))
	}

	path := strings.Split(key, ".")
	for i := len(path) - 1; i > 0; i-- {
		val = tmpl.Map(map[string]tmpl.Value{path[i]: val})
	}

	return map[string]tmpl.Value{path[0]: val}, nil
}
