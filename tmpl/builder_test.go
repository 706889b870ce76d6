package tmpl

import (
	"errors"
	"testing"
)

func TestHashBuilder(t *testing.T) {
	root := NewHash().
		String("s", "x").
		Bool("b", true).
		Int("i", 1).
		Float("f", 1.5).
		Insert("native", map[string]any{"k": []any{1, "two"}}).
		Hash("h", func(h *HashBuilder) *HashBuilder {
			return h.String("inner", "y")
		}).
		List("l", func(l *ListBuilder) *ListBuilder {
			return l.String("a").Push(2).List(func(l *ListBuilder) *ListBuilder {
				return l.Bool(false)
			})
		}).
		Build()

	want := Map(map[string]Value{
		"s":      String("x"),
		"b":      Bool(true),
		"i":      Int(1),
		"f":      Float(1.5),
		"native": Map(map[string]Value{"k": List(Int(1), String("two"))}),
		"h":      Map(map[string]Value{"inner": String("y")}),
		"l":      List(String("a"), Int(2), List(Bool(false))),
	})

	eq, err := Map(root).Equal(want)
	if err != nil || !eq {
		t.Errorf("Build() = %#v", root)
	}
}

func TestHashBuilder_Err(t *testing.T) {
	h := NewHash().
		String("ok", "x").
		Insert("bad", struct{}{}).
		Insert("worse", make(chan int))

	if !errors.Is(h.Err(), ErrDataFormat) {
		t.Fatalf("expected ErrDataFormat, got %v", h.Err())
	}

	var e *Error
	if !errors.As(h.Err(), &e) {
		t.Fatalf("expected *Error")
	}

	found := false

	for _, a := range e.Attrs() {
		if a.Key == "key" && a.Value.String() == "bad" {
			found = true
		}
	}

	if !found {
		t.Errorf("first error should name key %q, attrs = %v", "bad", e.Attrs())
	}

	if _, ok := h.Build()["bad"]; ok {
		t.Errorf("failed entry should be skipped")
	}

	if _, ok := h.Build()["ok"]; !ok {
		t.Errorf("valid entry should be kept")
	}
}

func TestListBuilder_ErrPropagates(t *testing.T) {
	h := NewHash().List("l", func(l *ListBuilder) *ListBuilder {
		return l.Push(nil)
	})

	if !errors.Is(h.Err(), ErrDataFormat) {
		t.Errorf("expected nested list error to propagate, got %v", h.Err())
	}
}
