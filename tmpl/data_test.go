package tmpl

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0o600)
}

func TestDecodeData(t *testing.T) {
	want := Map(map[string]Value{
		"name":  String("Ann"),
		"age":   Int(30),
		"ratio": Float(0.5),
		"admin": Bool(true),
		"tags":  List(String("a"), String("b")),
		"home":  Map(map[string]Value{"city": String("Paris")}),
	})

	tests := []struct {
		ext  string
		data string
	}{
		{
			ext: ".json",
			data: `{"name": "Ann", "age": 30, "ratio": 0.5, "admin": true,
				"tags": ["a", "b"], "home": {"city": "Paris"}}`,
		},
		{
			ext: ".yaml",
			data: strings.Join([]string{
				"name: Ann",
				"age: 30",
				"ratio: 0.5",
				"admin: true",
				"tags: [a, b]",
				"home:",
				"  city: Paris",
			}, "\n"),
		},
		{
			ext: ".toml",
			data: strings.Join([]string{
				`name = "Ann"`,
				`age = 30`,
				`ratio = 0.5`,
				`admin = true`,
				`tags = ["a", "b"]`,
				`[home]`,
				`city = "Paris"`,
			}, "\n"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.ext, func(t *testing.T) {
			root, err := DecodeData(t.Context(), strings.NewReader(tt.data), tt.ext)
			if err != nil {
				t.Fatalf("decode error: %v", err)
			}

			eq, err := Map(root).Equal(want)
			if err != nil || !eq {
				t.Errorf("decoded %#v", root)
			}
		})
	}
}

func TestDecodeData_Errors(t *testing.T) {
	tests := []struct {
		name string
		ext  string
		data string
	}{
		{"json syntax", ".json", `{"a": `},
		{"json trailing", ".json", `{"a": 1} {"b": 2}`},
		{"json array root", ".json", `[1, 2]`},
		{"yaml scalar root", ".yaml", `just a string`},
		{"yaml syntax", ".yml", "a: [1, 2"},
		{"toml syntax", ".toml", `a = `},
		{"unknown ext", ".ini", `a=1`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeData(t.Context(), strings.NewReader(tt.data), tt.ext)
			if !errors.Is(err, ErrDataFormat) {
				t.Errorf("expected ErrDataFormat, got %v", err)
			}
		})
	}
}

func TestDecodeYAML_Empty(t *testing.T) {
	root, err := DecodeYAML(t.Context(), strings.NewReader(""))
	if err != nil {
		t.Fatalf("decode error: %v", err)
	}

	if len(root) != 0 {
		t.Errorf("expected empty root, got %v", root)
	}
}

func TestLoadData(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "data.yaml")
	if err := writeFile(path, "greeting: hello\n"); err != nil {
		t.Fatal(err)
	}

	root, err := LoadData(t.Context(), path)
	if err != nil {
		t.Fatalf("load error: %v", err)
	}

	if v, ok := root["greeting"]; !ok || v.str != "hello" {
		t.Errorf("greeting = %#v", v)
	}

	_, err = LoadData(t.Context(), filepath.Join(dir, "missing.json"))
	if !errors.Is(err, ErrResourceAccess) {
		t.Errorf("missing file: expected ErrResourceAccess, got %v", err)
	}

	_, err = LoadData(t.Context(), filepath.Join(dir, "data.txt"))
	if !errors.Is(err, ErrDataFormat) {
		t.Errorf("unknown extension: expected ErrDataFormat, got %v", err)
	}
}
