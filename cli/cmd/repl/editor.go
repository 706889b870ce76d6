package repl

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/stache/log"
	"github.com/ardnew/stache/tmpl"
)

const defaultEditor = "vi"

// editDataCommand implements [tea.ExecCommand] for the edit-decode-retry
// loop over the data context. The root scope is written as YAML to a temp
// file and opened in the user's editor. On a decode error the user is
// prompted to re-edit; declining returns [ErrEditDeclined].
type editDataCommand struct {
	data    map[string]tmpl.Value
	ctxFunc func() context.Context
	newData map[string]tmpl.Value
	logger  log.Logger
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer
}

func (c *editDataCommand) SetStdin(r io.Reader)  { c.stdin = r }
func (c *editDataCommand) SetStdout(w io.Writer) { c.stdout = w }
func (c *editDataCommand) SetStderr(w io.Writer) { c.stderr = w }

// Run executes the edit loop. An emptied file cancels the edit and leaves
// newData nil.
func (c *editDataCommand) Run() error {
	ctx := c.ctxFunc()

	content, err := yaml.MarshalContext(ctx, tmpl.MapToNative(c.data), yaml.Indent(2))
	if err != nil {
		return err
	}

	f, err := os.CreateTemp("", "stache-repl-*.yaml")
	if err != nil {
		return err
	}

	path := f.Name()
	f.Close()

	defer os.Remove(path)

	for {
		err = os.WriteFile(path, content, 0o600)
		if err != nil {
			return err
		}

		err = runEditor(ctx, c.stdin, c.stdout, c.stderr, path)
		if err != nil {
			return err
		}

		content, err = os.ReadFile(path)
		if err != nil {
			return err
		}

		if len(bytes.TrimSpace(content)) == 0 {
			return nil
		}

		data, decodeErr := tmpl.DecodeYAML(ctx, bytes.NewReader(content))

		c.logger.TraceContext(ctx, "editor decode attempt",
			slog.Int("content_length", len(content)),
			slog.Bool("success", decodeErr == nil),
		)

		if decodeErr == nil {
			c.newData = data

			return nil
		}

		fmt.Fprintf(c.stderr, "\nData error: %s\n", decodeErr)
		fmt.Fprint(c.stdout, "Re-edit? [Y/n] ")

		scanner := bufio.NewScanner(c.stdin)
		if !scanner.Scan() {
			return ErrEditDeclined
		}

		switch strings.ToLower(strings.TrimSpace(scanner.Text())) {
		case "n", "no":
			return ErrEditDeclined
		}
	}
}

// runEditor opens path in $EDITOR, or vi when unset, and waits for it to
// exit.
func runEditor(
	ctx context.Context,
	stdin io.Reader,
	stdout io.Writer,
	stderr io.Writer,
	path string,
) error {
	args := strings.Fields(os.Getenv("EDITOR"))
	if len(args) == 0 {
		args = []string{defaultEditor}
	}

	cmd := exec.CommandContext(ctx, args[0], append(args[1:], path)...)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	return cmd.Run()
}
