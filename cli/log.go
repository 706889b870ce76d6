package cli

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/stache/log"
)

// logFormat configures the logger format as a side effect of parsing, so
// that errors reported during parsing already use it.
type logFormat string

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *logFormat) UnmarshalText(text []byte) error {
	*f = logFormat(text)
	log.Config(log.WithFormat(log.ParseFormat(string(*f))))

	return nil
}

// logLevel configures the logger level as a side effect of parsing.
type logLevel string

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *logLevel) UnmarshalText(text []byte) error {
	*l = logLevel(text)
	log.Config(log.WithLevel(log.ParseLevel(string(*l))))

	return nil
}

type logConfig struct {
	Level      logLevel  `default:"info"    enum:"${logLevelEnum}"  help:"Set log level."`
	Format     logFormat `default:"text"    enum:"${logFormatEnum}" help:"Set log format."`
	TimeLayout string    `default:"RFC3339"                         help:"Set timestamp format ('none' to omit)."`
	Caller     bool      `default:"false"                           help:"Include caller information."       negatable:""`
	Pretty     bool      `default:"true"                            help:"Enable colorized pretty printing." negatable:""`
}

func (*logConfig) vars() kong.Vars {
	var levels, formats []string

	for l := range log.Levels() {
		levels = append(levels, l)
	}

	for f := range log.Formats() {
		formats = append(formats, f)
	}

	return kong.Vars{
		"logLevelEnum":  strings.Join(levels, ","),
		"logFormatEnum": strings.Join(formats, ","),
	}
}

func (*logConfig) group() kong.Group {
	return kong.Group{Key: "log", Title: "Logging options"}
}

// start applies every logger setting once parsing is complete. The returned
// function logs the end of the run.
func (f *logConfig) start(ctx context.Context) (stop func()) {
	log.Config(
		log.WithLevel(log.ParseLevel(string(f.Level))),
		log.WithFormat(log.ParseFormat(string(f.Format))),
		log.WithTimeLayout(f.TimeLayout),
		log.WithCaller(f.Caller),
		log.WithPretty(f.Pretty),
	)

	log.DebugContext(ctx, "logger initialized",
		slog.String("level", string(f.Level)),
		slog.String("format", string(f.Format)),
		slog.String("time", f.TimeLayout),
		slog.Bool("caller", f.Caller),
		slog.Bool("pretty", f.Pretty),
	)

	return func() {
		log.TraceContext(ctx, "run complete")
	}
}

// scan applies logger flags found in args before kong parses them, so that
// the logger is configured regardless of flag position. Boolean flags do not
// pass through [encoding.TextUnmarshaler] during parsing and are only
// applied here.
func (f *logConfig) scan(args []string) {
	const prefix, negated = "--log-", "--no-log-"

	for i := 0; i < len(args); i++ {
		arg := args[i]

		name, value, assigned := strings.Cut(arg, "=")

		neg := strings.HasPrefix(name, negated)
		if !neg && !strings.HasPrefix(name, prefix) {
			continue
		}

		name = strings.TrimPrefix(strings.TrimPrefix(name, negated), prefix)

		// next consumes the following argument as the value of a flag given
		// without "=".
		next := func() string {
			if !assigned && i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
				i++

				return args[i]
			}

			return value
		}

		// enable reports the state selected by a boolean flag.
		enable := func() (bool, bool) {
			on := true

			if assigned {
				v, err := strconv.ParseBool(value)
				if err != nil {
					return false, false
				}

				on = v
			}

			return on != neg, true
		}

		switch {
		case name == "level" && !neg:
			_ = f.Level.UnmarshalText([]byte(next()))

		case name == "format" && !neg:
			_ = f.Format.UnmarshalText([]byte(next()))

		case name == "pretty":
			if on, ok := enable(); ok {
				f.Pretty = on
				log.Config(log.WithPretty(on))
			}

		case name == "caller":
			if on, ok := enable(); ok {
				f.Caller = on
				log.Config(log.WithCaller(on))
			}
		}
	}
}
