package repl

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ardnew/stache/log"
	"github.com/ardnew/stache/tmpl"
)

// fakeEditor installs a shell script as $EDITOR that runs body with the file
// path in $1.
func fakeEditor(t *testing.T, body string) {
	t.Helper()

	script := filepath.Join(t.TempDir(), "editor.sh")

	err := os.WriteFile(script, []byte("#!/bin/sh\n"+body+"\n"), 0o700)
	if err != nil {
		t.Fatal(err)
	}

	t.Setenv("EDITOR", script)
}

func runEdit(t *testing.T, stdin string) (*editDataCommand, error) {
	t.Helper()

	ctx := t.Context()

	c := &editDataCommand{
		data: map[string]tmpl.Value{
			"name": tmpl.String("Ann"),
			"tags": tmpl.List(tmpl.String("a"), tmpl.String("b")),
		},
		ctxFunc: func() context.Context { return ctx },
		logger:  log.Make(nil),
	}

	var out bytes.Buffer

	c.SetStdin(strings.NewReader(stdin))
	c.SetStdout(&out)
	c.SetStderr(&out)

	return c, c.Run()
}

func TestEditData_Unchanged(t *testing.T) {
	fakeEditor(t, "true")

	c, err := runEdit(t, "")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if name, _ := c.newData["name"].Text(); name != "Ann" {
		t.Errorf("name = %q, want Ann", name)
	}

	if n := len(c.newData["tags"].Items()); n != 2 {
		t.Errorf("len(tags) = %d, want 2", n)
	}
}

func TestEditData_Replaced(t *testing.T) {
	fakeEditor(t, `printf 'name: Bob\nage: 4\n' > "$1"`)

	c, err := runEdit(t, "")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	got, err := tmpl.RenderText(t.Context(), "{{name}} {{age}}", tmpl.NewContext(c.newData))
	if err != nil {
		t.Fatal(err)
	}

	if got != "Bob 4" {
		t.Errorf("render = %q, want %q", got, "Bob 4")
	}

	if _, ok := c.newData["tags"]; ok {
		t.Error("tags survived the edit")
	}
}

func TestEditData_Cleared(t *testing.T) {
	fakeEditor(t, `: > "$1"`)

	c, err := runEdit(t, "")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if c.newData != nil {
		t.Errorf("newData = %v, want nil", c.newData)
	}
}

func TestEditData_Declined(t *testing.T) {
	fakeEditor(t, `echo '- not a map' > "$1"`)

	for _, answer := range []string{"n\n", "no\n", ""} {
		_, err := runEdit(t, answer)
		if !errors.Is(err, ErrEditDeclined) {
			t.Errorf("answer %q: Run() error = %v, want %v", answer, err, ErrEditDeclined)
		}
	}
}

func TestEditData_EditorFails(t *testing.T) {
	fakeEditor(t, "exit 3")

	_, err := runEdit(t, "")
	if err == nil {
		t.Fatal("Run() error = nil, want editor failure")
	}
}
