// Package cli contains the command line interface for stache.
//
// # Commands
//
//	stache [render] [flags] TEMPLATE...   render templates (default)
//	stache fmt [tree|json|yaml|tokens|source] TEMPLATE...
//	stache repl [flags]                   preview templates interactively
//	stache init [--force]                 write the configuration file
//
// A template argument of "-" reads standard input. Multiple templates are
// concatenated in order; a file named more than once is read once, and
// standard input is always read last.
//
// # Data
//
// The render and repl commands build their data context from data files and
// assignments, merged in order:
//
//	stache -d site.yaml -d page.json -D title='"Home"' -D nav.open=true page.mustache
//
// Partials are looked up as <name>.mustache in the --partials directories,
// then in the directories listed in STACHE_PATH.
//
// # Configuration
//
// Flag defaults are read from config.yaml (and config.json) in the user
// configuration directory, e.g. ~/.config/stache/config.yaml. The file maps
// flag names to values:
//
//	log-level: debug
//	partials: [./partials]
//
// Command-line flags override configuration file values. The init command
// writes the current flag values to this file.
//
// # Logging Options
//
//   - --log-level: trace, debug, info, warn, error
//   - --log-format: text, json
//   - --log-time-layout: RFC3339, RFC3339Nano, Kitchen, ..., or none
//   - --[no-]log-caller, --[no-]log-pretty
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof .
//
//   - --pprof-mode: allocs, block, clock, cpu, goroutine, heap, mem, mutex,
//     thread, trace
//   - --pprof-dir: profile output directory (default ~/.cache/stache/pprof)
package cli
