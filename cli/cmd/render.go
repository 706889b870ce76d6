package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/ardnew/stache/log"
	"github.com/ardnew/stache/tmpl"
)

// Render renders templates against a data context.
type Render struct {
	Data `embed:""`

	Output string `default:"-" help:"Output file or '-' for stdout." placeholder:"FILE" short:"o" type:"path"`

	Templates []string `arg:"" default:"-" help:"Template files or '-' for stdin, concatenated in order." name:"template"`
}

// Run executes the render command.
func (r *Render) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	src, err := readSources(ctx, r.Templates)
	if err != nil {
		return err
	}

	data, err := r.Context(ctx)
	if err != nil {
		return err
	}

	t := tmpl.Parse(ctx, src, r.Options()...)

	log.DebugContext(ctx, "template parsed",
		slog.Int("nodes", len(t.Nodes)),
		slog.Int("sources", len(r.Templates)),
	)

	out, err := t.RenderString(ctx, data)
	if err != nil {
		return err
	}

	return writeOutput(ctx, r.Output, out)
}

// writeOutput writes s to the file at path, or to stdout when path is "-"
// or empty. The file is only created once rendering succeeded.
func writeOutput(ctx context.Context, path, s string) error {
	var w io.Writer = outputFrom(ctx)

	if path != "" && path != stdio {
		file, err := os.Create(path)
		if err != nil {
			return ErrWriteOutput.Wrap(err).With(slog.String("file", path))
		}
		defer file.Close()

		w = file
	}

	_, err := io.WriteString(w, s)
	if err != nil {
		return ErrWriteOutput.Wrap(err).With(slog.String("file", path))
	}

	return nil
}

type stdoutKey struct{}

// WithStdout returns a copy of ctx whose commands write "-" outputs to w
// instead of [os.Stdout].
func WithStdout(ctx context.Context, w io.Writer) context.Context {
	return context.WithValue(ctx, stdoutKey{}, w)
}

func outputFrom(ctx context.Context) io.Writer {
	if w, ok := ctx.Value(stdoutKey{}).(io.Writer); ok {
		return w
	}

	return os.Stdout
}
