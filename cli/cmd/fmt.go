package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ardnew/stache/log"
	"github.com/ardnew/stache/tmpl"
)

// Fmt reads templates, parses them, and writes the result in the chosen
// format without rendering.
type Fmt struct {
	Tree   Tree   `cmd:"" default:"withargs" help:"Print the node tree (default)."`
	JSON   JSON   `cmd:""                    help:"Format the node tree as JSON."`
	YAML   YAML   `cmd:""                    help:"Format the node tree as YAML."`
	Tokens Tokens `cmd:""                    help:"Print the token stream."`
	Source Source `cmd:""                    help:"Print the template reconstructed from its node tree."`
}

// Sources is the positional argument shared by the fmt subcommands.
type Sources struct {
	Templates []string `arg:"" default:"-" help:"Template files or '-' for stdin, concatenated in order." name:"template"`
}

func (s Sources) parse(ctx context.Context, format string) (*tmpl.Template, error) {
	src, err := readSources(ctx, s.Templates)
	if err != nil {
		return nil, err
	}

	t := tmpl.Parse(ctx, src, tmpl.WithLogger(log.Default()))

	log.DebugContext(ctx, "template parsed",
		slog.String("format", format),
		slog.Int("nodes", len(t.Nodes)),
	)

	return t, nil
}

// Tree prints the node tree.
type Tree struct {
	Sources
}

// Run executes the tree command.
func (f *Tree) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	t, err := f.parse(ctx, "tree")
	if err != nil {
		return err
	}

	t.Print(ctx, outputFrom(ctx))

	return nil
}

// JSON formats the node tree as JSON.
type JSON struct {
	Indent int `default:"2" help:"Indent width for JSON output (0 for compact)." short:"i"`

	Sources
}

// Run executes the json command.
func (j *JSON) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	t, err := j.parse(ctx, "json")
	if err != nil {
		return err
	}

	err = t.FormatJSON(ctx, outputFrom(ctx), j.Indent)
	if err != nil {
		return ErrJSONMarshal.Wrap(err)
	}

	return nil
}

// YAML formats the node tree as YAML.
type YAML struct {
	Indent int `default:"2" help:"Indent width for YAML output (0 for flow style)." short:"i"`

	Sources
}

// Run executes the yaml command.
func (y *YAML) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	t, err := y.parse(ctx, "yaml")
	if err != nil {
		return err
	}

	err = t.FormatYAML(ctx, outputFrom(ctx), y.Indent)
	if err != nil {
		return ErrYAMLMarshal.Wrap(err)
	}

	return nil
}

// Tokens prints the token stream, one token per line.
type Tokens struct {
	Sources
}

// Run executes the tokens command.
func (k *Tokens) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	src, err := readSources(ctx, k.Templates)
	if err != nil {
		return err
	}

	w := outputFrom(ctx)

	for _, tok := range tmpl.Tokenize(src) {
		_, err = fmt.Fprintln(w, tok)
		if err != nil {
			return ErrWriteOutput.Wrap(err)
		}
	}

	return nil
}

// Source prints the template text reconstructed from the parsed tree.
// Comments are dropped and dotted names appear as nested sections.
type Source struct {
	Sources
}

// Run executes the source command.
func (s *Source) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	t, err := s.parse(ctx, "source")
	if err != nil {
		return err
	}

	return writeOutput(ctx, stdio, t.Source())
}
