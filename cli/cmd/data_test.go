package cmd

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/ardnew/stache/tmpl"
)

func TestParseAssignment(t *testing.T) {
	tests := []struct {
		name   string
		assign string
		want   tmpl.Value
		key    string
	}{
		{"string_literal", "name=Chris", tmpl.String("Chris"), "name"},
		{"quoted_string", `name="Chris"`, tmpl.String("Chris"), "name"},
		{"int", "count=3", tmpl.Int(3), "count"},
		{"float", "ratio=0.5", tmpl.Float(0.5), "ratio"},
		{"bool", "enabled=false", tmpl.Bool(false), "enabled"},
		{"expression", "total=2*21", tmpl.Int(42), "total"},
		{"list", "items=[1, 2]", tmpl.List(tmpl.Int(1), tmpl.Int(2)), "items"},
		{"empty", "blank=", tmpl.String(""), "blank"},
		{"spaces_in_key", " name =x", tmpl.String("x"), "name"},
		{
			"dotted",
			"person.name=Ann",
			tmpl.Map(map[string]tmpl.Value{"name": tmpl.String("Ann")}),
			"person",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseAssignment(tt.assign)
			if err != nil {
				t.Fatalf("parseAssignment(%q) error = %v", tt.assign, err)
			}

			if len(got) != 1 {
				t.Fatalf("parseAssignment(%q) = %d keys, want 1", tt.assign, len(got))
			}

			eq, err := got[tt.key].Equal(tt.want)
			if err != nil {
				t.Fatal(err)
			}

			if !eq {
				t.Errorf("parseAssignment(%q)[%q] = %v, want %v",
					tt.assign, tt.key, got[tt.key].ToNative(), tt.want.ToNative())
			}
		})
	}
}

func TestParseAssignment_Errors(t *testing.T) {
	for _, assign := range []string{"novalue", "=3", " =3"} {
		t.Run(assign, func(t *testing.T) {
			_, err := parseAssignment(assign)
			if !errors.Is(err, ErrSetValue) {
				t.Errorf("parseAssignment(%q) error = %v, want %v", assign, err, ErrSetValue)
			}
		})
	}
}

func TestDataContext(t *testing.T) {
	dir := t.TempDir()
	base := writeTemp(t, dir, "base.yaml", "name: base\nperson:\n  first: Ann\n  last: Lee\n")
	over := writeTemp(t, dir, "over.json", `{"person": {"last": "Kim"}}`)

	d := &Data{
		Data: []string{base, over},
		Set:  []string{"name=cli", "person.age=30"},
	}

	data, err := d.Context(t.Context())
	if err != nil {
		t.Fatalf("Context() error = %v", err)
	}

	got, err := tmpl.RenderText(t.Context(),
		"{{name}} {{person.first}} {{person.last}} {{person.age}}", data)
	if err != nil {
		t.Fatal(err)
	}

	if want := "cli Ann Kim 30"; got != want {
		t.Errorf("render = %q, want %q", got, want)
	}
}

func TestDataContext_Errors(t *testing.T) {
	dir := t.TempDir()
	bad := writeTemp(t, dir, "bad.json", "{")

	tests := []struct {
		name string
		data Data
		want error
	}{
		{"bad_data", Data{Data: []string{bad}}, ErrLoadData},
		{"missing_data", Data{Data: []string{filepath.Join(dir, "none.yaml")}}, ErrLoadData},
		{"bad_set", Data{Set: []string{"oops"}}, ErrSetValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.data.Context(t.Context())
			if !errors.Is(err, tt.want) {
				t.Errorf("Context() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestDataOptions_Partials(t *testing.T) {
	dir := t.TempDir()
	writeTemp(t, dir, "greet.tpl", "hi {{name}}")

	t.Setenv(tmpl.EnvSearchPath, "")

	d := &Data{Partials: []string{dir}, Ext: ".tpl", MaxDepth: 10}

	data := tmpl.NewContext(map[string]tmpl.Value{"name": tmpl.String("Bo")})

	got, err := tmpl.RenderText(t.Context(), "<{{> greet}}>", data, d.Options()...)
	if err != nil {
		t.Fatal(err)
	}

	if want := "<hi Bo>"; got != want {
		t.Errorf("render = %q, want %q", got, want)
	}
}
