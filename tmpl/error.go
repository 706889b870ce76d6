package tmpl

import (
	"errors"
	"log/slog"
	"slices"
)

// Error kinds reported by the engine and its data loaders.
var (
	// ErrDataFormat reports external data that cannot become a [Value].
	ErrDataFormat = NewError("malformed data")
	// ErrResourceAccess reports a template, partial or data file that could
	// not be read.
	ErrResourceAccess = NewError("resource access failed")
	// ErrRenderType reports a value tag bound to a list, map or lambda, or an
	// equality test that reached a lambda.
	ErrRenderType = NewError("render type mismatch")
	// ErrMaxDepthExceeded reports partials nested deeper than the limit set
	// with [WithMaxDepth].
	ErrMaxDepthExceeded = NewError("maximum partial depth exceeded")
	// ErrWrite reports a failed write to the output sink.
	ErrWrite = NewError("failed to write output")
)

// Error is an engine error carrying structured attributes for slog.
//
// Errors derived from one of the package sentinels with [Error.Wrap] or
// [Error.With] still match that sentinel under [errors.Is].
type Error struct {
	msg   string
	err   error
	attrs []slog.Attr
}

// NewError returns an Error with the given message.
func NewError(msg string) *Error { return &Error{msg: msg} }

// WrapError returns err as an *Error. An err that already is or wraps an
// *Error yields that error; any other err is wrapped without a message.
func WrapError(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}

	return &Error{err: err}
}

func (e *Error) Error() string {
	switch {
	case e.err == nil:
		return e.msg
	case e.msg == "":
		return e.err.Error()
	default:
		return e.msg + ": " + e.err.Error()
	}
}

func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is an *Error with the same non-empty message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)

	return ok && t != nil && e.msg != "" && e.msg == t.msg
}

// LogValue groups the message, the cause and every attached attribute.
func (e *Error) LogValue() slog.Value {
	var head []slog.Attr

	if e.msg != "" {
		head = append(head, slog.String("error", e.msg))
	}

	if e.err != nil {
		head = append(head, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(slices.Concat(head, e.attrs)...)
}

// Wrap returns a copy of e caused by err.
func (e *Error) Wrap(err error) *Error {
	c := *e
	c.err = err

	return &c
}

// With returns a copy of e with attrs appended. The receiver is unchanged.
func (e *Error) With(attrs ...slog.Attr) *Error {
	c := *e
	c.attrs = slices.Concat(e.attrs, attrs)

	return &c
}

// Attrs returns a copy of the attributes attached to e.
func (e *Error) Attrs() []slog.Attr { return slices.Clone(e.attrs) }
