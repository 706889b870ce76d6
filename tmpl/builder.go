package tmpl

import "log/slog"

// HashBuilder incrementally constructs a root scope or nested map value.
//
//	data := tmpl.NewHash().
//		String("name", "Bob").
//		Int("age", 30).
//		List("pets", func(l *tmpl.ListBuilder) *tmpl.ListBuilder {
//			return l.String("cat").String("dog")
//		}).
//		Context()
//
// The first conversion error is retained and reported by [HashBuilder.Err];
// entries that fail to convert are skipped.
type HashBuilder struct {
	data map[string]Value
	err  error
}

// NewHash returns an empty HashBuilder.
func NewHash() *HashBuilder {
	return &HashBuilder{data: map[string]Value{}}
}

// Insert converts value with [FromNative] and binds it to key.
func (h *HashBuilder) Insert(key string, value any) *HashBuilder {
	v, err := FromNative(value)
	if err != nil {
		if h.err == nil {
			h.err = WrapError(err).With(slog.String("key", key))
		}

		return h
	}

	h.data[key] = v

	return h
}

// Set binds key to a prebuilt value.
func (h *HashBuilder) Set(key string, value Value) *HashBuilder {
	h.data[key] = value

	return h
}

// String binds key to a string value.
func (h *HashBuilder) String(key, value string) *HashBuilder {
	return h.Set(key, String(value))
}

// Bool binds key to a boolean value.
func (h *HashBuilder) Bool(key string, value bool) *HashBuilder {
	return h.Set(key, Bool(value))
}

// Int binds key to an integer value.
func (h *HashBuilder) Int(key string, value int64) *HashBuilder {
	return h.Set(key, Int(value))
}

// Float binds key to a floating-point value.
func (h *HashBuilder) Float(key string, value float64) *HashBuilder {
	return h.Set(key, Float(value))
}

// Lambda binds key to a lambda.
func (h *HashBuilder) Lambda(key string, fn func(string) string) *HashBuilder {
	return h.Set(key, Func(LambdaFunc(fn)))
}

// Hash binds key to a nested map built by fill.
func (h *HashBuilder) Hash(
	key string,
	fill func(*HashBuilder) *HashBuilder,
) *HashBuilder {
	sub := fill(NewHash())
	if sub.err != nil && h.err == nil {
		h.err = sub.err
	}

	return h.Set(key, Map(sub.data))
}

// List binds key to a list built by fill.
func (h *HashBuilder) List(
	key string,
	fill func(*ListBuilder) *ListBuilder,
) *HashBuilder {
	sub := fill(NewList())
	if sub.err != nil && h.err == nil {
		h.err = sub.err
	}

	return h.Set(key, List(sub.data...))
}

// Err returns the first conversion error encountered, if any.
func (h *HashBuilder) Err() error { return h.err }

// Build returns the constructed map.
func (h *HashBuilder) Build() map[string]Value { return h.data }

// Context returns a new [Context] rooted at the constructed map.
func (h *HashBuilder) Context() *Context { return NewContext(h.data) }

// ListBuilder incrementally constructs a list value.
type ListBuilder struct {
	data []Value
	err  error
}

// NewList returns an empty ListBuilder.
func NewList() *ListBuilder {
	return &ListBuilder{}
}

// Push converts value with [FromNative] and appends it.
func (l *ListBuilder) Push(value any) *ListBuilder {
	v, err := FromNative(value)
	if err != nil {
		if l.err == nil {
			l.err = WrapError(err).With(slog.Int("index", len(l.data)))
		}

		return l
	}

	l.data = append(l.data, v)

	return l
}

// Append appends a prebuilt value.
func (l *ListBuilder) Append(value Value) *ListBuilder {
	l.data = append(l.data, value)

	return l
}

// String appends a string value.
func (l *ListBuilder) String(value string) *ListBuilder {
	return l.Append(String(value))
}

// Bool appends a boolean value.
func (l *ListBuilder) Bool(value bool) *ListBuilder {
	return l.Append(Bool(value))
}

// Int appends an integer value.
func (l *ListBuilder) Int(value int64) *ListBuilder {
	return l.Append(Int(value))
}

// Float appends a floating-point value.
func (l *ListBuilder) Float(value float64) *ListBuilder {
	return l.Append(Float(value))
}

// Lambda appends a lambda.
func (l *ListBuilder) Lambda(fn func(string) string) *ListBuilder {
	return l.Append(Func(LambdaFunc(fn)))
}

// Hash appends a map built by fill.
func (l *ListBuilder) Hash(fill func(*HashBuilder) *HashBuilder) *ListBuilder {
	sub := fill(NewHash())
	if sub.err != nil && l.err == nil {
		l.err = sub.err
	}

	return l.Append(Map(sub.data))
}

// List appends a nested list built by fill.
func (l *ListBuilder) List(fill func(*ListBuilder) *ListBuilder) *ListBuilder {
	sub := fill(NewList())
	if sub.err != nil && l.err == nil {
		l.err = sub.err
	}

	return l.Append(List(sub.data...))
}

// Err returns the first conversion error encountered, if any.
func (l *ListBuilder) Err() error { return l.err }

// Build returns the constructed elements.
func (l *ListBuilder) Build() []Value { return l.data }
