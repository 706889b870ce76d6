package log_test

import (
	"log/slog"
	"os"

	"github.com/ardnew/stache/log"
)

func ExampleMake() {
	logger := log.Make(os.Stdout,
		log.WithPretty(false),
		log.WithTimeLayout("none"))

	logger.Info("template parsed", slog.Int("nodes", 3))
	logger.Debug("not shown")
	// Output: level=INFO msg="template parsed" nodes=3
}

func ExampleLogger_With() {
	logger := log.Make(os.Stdout,
		log.WithFormat(log.FormatJSON),
		log.WithPretty(false),
		log.WithTimeLayout("none")).
		With(slog.String("template", "page.mustache"))

	logger.Warn("partial not found", slog.String("partial", "footer"))
	// Output: {"level":"WARN","msg":"partial not found","template":"page.mustache","partial":"footer"}
}
