package tmpl

import (
	"log/slog"
	"maps"
	"slices"
	"strconv"
)

// Kind identifies the variant held by a [Value].
type Kind int

const (
	KindString Kind = iota
	KindBool
	KindInt
	KindFloat
	KindList
	KindMap
	KindLambda
)

// String returns a string representation of the value kind.
func (k Kind) String() string {
	switch k {
	case KindString:
		return "String"
	case KindBool:
		return "Boolean"
	case KindInt:
		return "Integer"
	case KindFloat:
		return "Float"
	case KindList:
		return "List"
	case KindMap:
		return "Map"
	case KindLambda:
		return "Lambda"
	default:
		return "Unknown"
	}
}

// Lambda is a host-supplied callback bound to a section key. It receives the
// unrendered template text enclosed by the section tags and returns text that
// is written to the output verbatim.
//
// A Lambda may carry mutable state. Templates rendered concurrently must not
// share a Lambda instance.
type Lambda interface {
	Call(text string) string
}

// LambdaFunc adapts an ordinary function to the [Lambda] interface.
type LambdaFunc func(string) string

// Call implements [Lambda].
func (f LambdaFunc) Call(text string) string { return f(text) }

// Value is a single value in a data context. The zero Value is the empty
// string.
type Value struct {
	kind Kind
	str  string
	b    bool
	i    int64
	f    float64
	list []Value
	m    map[string]Value
	fn   Lambda
}

// String returns a string value.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Int returns an integer value.
func Int(i int64) Value { return Value{kind: KindInt, i: i} }

// Float returns a floating-point value.
func Float(f float64) Value { return Value{kind: KindFloat, f: f} }

// List returns a list value holding items in order.
func List(items ...Value) Value { return Value{kind: KindList, list: items} }

// Map returns a map value. A nil map is treated as empty.
func Map(m map[string]Value) Value {
	if m == nil {
		m = map[string]Value{}
	}

	return Value{kind: KindMap, m: m}
}

// Func returns a lambda value.
func Func(fn Lambda) Value { return Value{kind: KindLambda, fn: fn} }

// Kind returns the variant held by v.
func (v Value) Kind() Kind { return v.kind }

// Text returns the textual form of a scalar value: strings verbatim, booleans
// as "true" or "false", integers in base 10, and floats in their shortest
// decimal form. The second result is false for lists, maps and lambdas.
func (v Value) Text() (string, bool) {
	switch v.kind {
	case KindString:
		return v.str, true
	case KindBool:
		return strconv.FormatBool(v.b), true
	case KindInt:
		return strconv.FormatInt(v.i, 10), true
	case KindFloat:
		return strconv.FormatFloat(v.f, 'f', -1, 64), true
	default:
		return "", false
	}
}

// Items returns the elements of a list value, or nil.
func (v Value) Items() []Value {
	if v.kind != KindList {
		return nil
	}

	return v.list
}

// Fields returns the entries of a map value, or nil.
func (v Value) Fields() map[string]Value {
	if v.kind != KindMap {
		return nil
	}

	return v.m
}

// Lambda returns the callback of a lambda value, or nil.
func (v Value) Lambda() Lambda {
	if v.kind != KindLambda {
		return nil
	}

	return v.fn
}

// truthy reports whether a non-boolean scalar opens a section.
func (v Value) truthy() bool {
	switch v.kind {
	case KindString:
		return v.str != ""
	case KindBool:
		return v.b
	default:
		return true
	}
}

// Equal reports whether v and o hold structurally equal values.
//
// Lambdas have no defined equality: if the comparison reaches a lambda on
// either side, Equal returns an error matching [ErrRenderType].
func (v Value) Equal(o Value) (bool, error) {
	if v.kind == KindLambda || o.kind == KindLambda {
		return false, ErrRenderType.With(
			slog.String("op", "equal"),
			slog.String("kind", KindLambda.String()),
		)
	}

	if v.kind != o.kind {
		return false, nil
	}

	switch v.kind {
	case KindString:
		return v.str == o.str, nil

	case KindBool:
		return v.b == o.b, nil

	case KindInt:
		return v.i == o.i, nil

	case KindFloat:
		return v.f == o.f, nil

	case KindList:
		if len(v.list) != len(o.list) {
			return false, nil
		}

		for i := range v.list {
			eq, err := v.list[i].Equal(o.list[i])
			if err != nil || !eq {
				return false, err
			}
		}

		return true, nil

	case KindMap:
		if len(v.m) != len(o.m) {
			return false, nil
		}

		for _, k := range slices.Sorted(maps.Keys(v.m)) {
			ov, ok := o.m[k]
			if !ok {
				return false, nil
			}

			eq, err := v.m[k].Equal(ov)
			if err != nil || !eq {
				return false, err
			}
		}

		return true, nil
	}

	return false, nil
}

// ToNative converts v to plain Go values: string, bool, int64, float64,
// []any, map[string]any. Lambdas convert to their [Lambda] value.
func (v Value) ToNative() any {
	switch v.kind {
	case KindString:
		return v.str
	case KindBool:
		return v.b
	case KindInt:
		return v.i
	case KindFloat:
		return v.f
	case KindList:
		list := make([]any, len(v.list))
		for i, item := range v.list {
			list[i] = item.ToNative()
		}

		return list
	case KindMap:
		return MapToNative(v.m)
	case KindLambda:
		return v.fn
	default:
		return nil
	}
}

// MapToNative converts a map of values with [Value.ToNative].
func MapToNative(m map[string]Value) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v.ToNative()
	}

	return out
}
