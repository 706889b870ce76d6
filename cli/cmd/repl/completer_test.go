package repl

import (
	"slices"
	"testing"

	"github.com/ardnew/stache/tmpl"
)

func TestWordBounds(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		cursor    int
		wantWord  string
		wantStart int
		wantEnd   int
	}{
		{"simple", "foo", 3, "foo", 0, 3},
		{"in_tag", "{{na", 4, "na", 2, 4},
		{"after_section_sigil", "{{#it", 5, "it", 3, 5},
		{"after_inverted_sigil", "{{^it", 5, "it", 3, 5},
		{"after_triple", "{{{ra", 5, "ra", 3, 5},
		{"after_ampersand", "{{& ra", 6, "ra", 4, 6},
		{"dotted", "{{user.na", 9, "na", 7, 9},
		{"mid_word", "{{name}}", 4, "name", 2, 6},
		{"hyphenated", "{{first-name", 12, "first-name", 2, 12},
		{"empty_after_dot", "{{user.", 7, "", 7, 7},
		{"cursor_past_end", "ab", 9, "ab", 0, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			word, start, end := wordBounds(tt.input, tt.cursor)
			if word != tt.wantWord || start != tt.wantStart || end != tt.wantEnd {
				t.Errorf("wordBounds(%q, %d) = (%q, %d, %d), want (%q, %d, %d)",
					tt.input, tt.cursor, word, start, end,
					tt.wantWord, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestOpenTag(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		cursor int
		want   int
		ok     bool
	}{
		{"no_tag", "hello", 5, 0, false},
		{"open", "hi {{na", 7, 5, true},
		{"closed", "hi {{name}} x", 13, 0, false},
		{"second_open", "{{a}} {{b", 9, 8, true},
		{"cursor_inside_closed", "{{name}}", 4, 2, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := openTag(tt.input, tt.cursor)
			if got != tt.want || ok != tt.ok {
				t.Errorf("openTag(%q, %d) = (%d, %v), want (%d, %v)",
					tt.input, tt.cursor, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestParentPath(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wordStart int
		want      string
	}{
		{"top_level", "{{fo", 2, ""},
		{"simple_chain", "{{user.", 7, "user"},
		{"deep_chain", "{{#user.address.", 16, "user.address"},
		{"after_triple", "{{{a.b.", 7, "a.b"},
		{"not_after_dot", "{{a b", 4, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parentPath(tt.input, tt.wordStart)
			if got != tt.want {
				t.Errorf("parentPath(%q, %d) = %q, want %q",
					tt.input, tt.wordStart, got, tt.want)
			}
		})
	}
}

func testData(t *testing.T) *tmpl.Context {
	t.Helper()

	h := tmpl.NewHash().
		String("name", "Ann").
		Int("age", 30).
		Hash("user", func(h *tmpl.HashBuilder) *tmpl.HashBuilder {
			return h.String("first", "Ann").
				Hash("address", func(h *tmpl.HashBuilder) *tmpl.HashBuilder {
					return h.String("city", "Oslo").String("zip", "0150")
				})
		}).
		List("items", func(l *tmpl.ListBuilder) *tmpl.ListBuilder {
			return l.Hash(func(h *tmpl.HashBuilder) *tmpl.HashBuilder {
				return h.String("sku", "a1").Float("price", 2.5)
			})
		})

	if err := h.Err(); err != nil {
		t.Fatal(err)
	}

	return h.Context()
}

func TestChildCandidates(t *testing.T) {
	data := testData(t)

	tests := []struct {
		parent string
		want   []string
	}{
		{"", []string{"age", "items", "name", "user"}},
		{"user", []string{"address", "first"}},
		{"user.address", []string{"city", "zip"}},
		{"items", []string{"price", "sku"}},
		{"name", nil},
		{"missing", nil},
		{"user.missing", nil},
	}

	for _, tt := range tests {
		t.Run(tt.parent, func(t *testing.T) {
			got := childCandidates(data, tt.parent)
			if !slices.Equal(got, tt.want) {
				t.Errorf("childCandidates(%q) = %q, want %q", tt.parent, got, tt.want)
			}
		})
	}
}

func TestFormatPreview(t *testing.T) {
	tests := []struct {
		name string
		v    tmpl.Value
		want string
	}{
		{"string", tmpl.String("hi"), `"hi"`},
		{"int", tmpl.Int(7), "7"},
		{"bool", tmpl.Bool(true), "true"},
		{"list", tmpl.List(tmpl.Int(1), tmpl.Int(2)), "[ 2 items ]"},
		{"map", tmpl.Map(map[string]tmpl.Value{"a": tmpl.Int(1)}), "{ 1 keys }"},
		{"lambda", tmpl.Func(tmpl.LambdaFunc(func(s string) string { return s })), "<lambda>"},
		{
			"long",
			tmpl.Int(1234567890123456789),
			"1234567890123456789",
		},
		{
			"truncated",
			tmpl.String("abcdefghijklmnopqrstuvwxyzabcdefghijklmnopqrstuvwxyz"),
			`"abcdefghijklmnopqrstuvwxyzabcdefghij...`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatPreview(tt.v); got != tt.want {
				t.Errorf("formatPreview() = %q, want %q", got, tt.want)
			}
		})
	}
}
