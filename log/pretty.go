package log

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// prettyStyles holds the terminal styles of each field class.
type prettyStyles struct {
	key, str, num, time, dur, yes, no, null lipgloss.Style
	levels                                 map[slog.Level]lipgloss.Style
}

// makePrettyStyles returns styles bound to a renderer for w, so that color is
// only emitted when w supports it.
func makePrettyStyles(w io.Writer) prettyStyles {
	r := lipgloss.NewRenderer(w)
	color := func(c string) lipgloss.Style {
		return r.NewStyle().Foreground(lipgloss.Color(c))
	}

	return prettyStyles{
		key:   color("8"),
		str:   color("6"),
		num:   color("3"),
		time:  color("4"),
		dur:   color("5"),
		yes:   color("2"),
		no:    color("1"),
		null:  color("8"),
		levels: map[slog.Level]lipgloss.Style{
			slog.Level(LevelTrace): color("8"),
			slog.LevelDebug:        color("4"),
			slog.LevelInfo:         color("2"),
			slog.LevelWarn:         color("3").Bold(true),
			slog.LevelError:        color("1").Bold(true),
		},
	}
}

// levelStyle returns the style of the nearest named level at or below l.
func (s prettyStyles) levelStyle(l slog.Level) lipgloss.Style {
	for _, n := range levelOrder {
		if l >= n {
			return s.levels[n]
		}
	}

	return s.levels[slog.Level(LevelTrace)]
}

var levelOrder = []slog.Level{
	slog.LevelError,
	slog.LevelWarn,
	slog.LevelInfo,
	slog.LevelDebug,
	slog.Level(LevelTrace),
}

// prettyHandler is a [slog.Handler] writing colorized records for a
// terminal. [FormatText] records are written on a single line of key=value
// pairs; [FormatJSON] records are written as an indented object, one field
// per line.
type prettyHandler struct {
	opts   slog.HandlerOptions
	format Format
	styles prettyStyles
	mu     *sync.Mutex
	w      io.Writer
	attrs  []slog.Attr
	group  string
}

func newPrettyHandler(
	w io.Writer,
	opts *slog.HandlerOptions,
	format Format,
) *prettyHandler {
	return &prettyHandler{
		opts:   *opts,
		format: format,
		styles: makePrettyStyles(w),
		mu:     &sync.Mutex{},
		w:      w,
	}
}

func (h *prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	minLevel := slog.LevelInfo
	if h.opts.Level != nil {
		minLevel = h.opts.Level.Level()
	}

	return level >= minLevel
}

func (h *prettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := *h
	c.attrs = append(h.attrs[:len(h.attrs):len(h.attrs)], h.qualify(attrs)...)

	return &c
}

func (h *prettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	c := *h
	c.group = h.group + name + "."

	return &c
}

// qualify prefixes attribute keys with the open group path.
func (h *prettyHandler) qualify(attrs []slog.Attr) []slog.Attr {
	if h.group == "" {
		return attrs
	}

	out := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		out[i] = slog.Attr{Key: h.group + a.Key, Value: a.Value}
	}

	return out
}

func (h *prettyHandler) replace(a slog.Attr) slog.Attr {
	if h.opts.ReplaceAttr == nil {
		return a
	}

	return h.opts.ReplaceAttr(nil, a)
}

func (h *prettyHandler) Handle(_ context.Context, r slog.Record) error {
	fields := make([]slog.Attr, 0, 4+len(h.attrs)+r.NumAttrs())

	if !r.Time.IsZero() {
		fields = append(fields, h.replace(slog.Time(slog.TimeKey, r.Time)))
	}

	level := h.replace(slog.Any(slog.LevelKey, r.Level))

	fields = append(fields, level)

	if h.opts.AddSource {
		if src := r.Source(); src != nil {
			fields = append(fields,
				slog.String(slog.SourceKey, src.File+":"+strconv.Itoa(src.Line)))
		}
	}

	fields = append(fields, slog.String(slog.MessageKey, r.Message))
	fields = append(fields, h.attrs...)

	r.Attrs(func(a slog.Attr) bool {
		fields = append(fields, h.qualify([]slog.Attr{a})...)

		return true
	})

	var buf bytes.Buffer

	open, sep, indent, end := "", " ", "", "\n"
	if h.format == FormatJSON {
		open, sep, indent, end = "{\n", ",\n", "  ", "\n}\n"
	}

	buf.WriteString(open)

	first := true

	for _, a := range fields {
		if a.Key == "" {
			continue
		}

		if !first {
			buf.WriteString(sep)
		}

		first = false

		buf.WriteString(indent)
		h.writeAttr(&buf, a, r.Level)
	}

	buf.WriteString(end)

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(buf.Bytes())

	return err
}

func (h *prettyHandler) writeAttr(buf *bytes.Buffer, a slog.Attr, level slog.Level) {
	buf.WriteString(h.styles.key.Render(a.Key))

	if h.format == FormatJSON {
		buf.WriteString(": ")
	} else {
		buf.WriteByte('=')
	}

	if a.Key == slog.LevelKey {
		buf.WriteString(h.styles.levelStyle(level).Render(a.Value.String()))

		return
	}

	buf.WriteString(h.renderValue(a.Value.Resolve()))
}

func (h *prettyHandler) renderValue(v slog.Value) string {
	s := h.styles

	switch v.Kind() {
	case slog.KindString:
		return s.str.Render(v.String())
	case slog.KindInt64, slog.KindUint64, slog.KindFloat64:
		return s.num.Render(v.String())
	case slog.KindBool:
		if v.Bool() {
			return s.yes.Render("true")
		}

		return s.no.Render("false")
	case slog.KindDuration:
		return s.dur.Render(v.Duration().String())
	case slog.KindTime:
		return s.time.Render(v.Time().String())
	case slog.KindGroup:
		parts := make([]string, 0, len(v.Group()))
		for _, a := range v.Group() {
			parts = append(parts,
				s.key.Render(a.Key)+"="+h.renderValue(a.Value.Resolve()))
		}

		return "{" + strings.Join(parts, " ") + "}"
	default:
		if v.Any() == nil {
			return s.null.Render("null")
		}

		return s.str.Render(fmt.Sprint(v.Any()))
	}
}
