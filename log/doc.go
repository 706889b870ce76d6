// Package log wraps [log/slog] with leveled methods that take [slog.Attr]
// arguments, a trace level below debug, and a colorized terminal handler.
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelDebug),
//		log.WithFormat(log.FormatJSON),
//		log.WithTimeLayout("RFC3339Nano"))
//
//	logger.Info("template rendered", slog.String("path", path))
//
// Each level has a variant taking a [context.Context]; the variants without
// one use [DefaultContextProvider].
//
// The package-level functions write through a default logger on
// [os.Stderr], reconfigured with [Config].
package log
