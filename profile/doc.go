// Package profile starts and stops runtime profiling of the stache command
// with [github.com/pkg/profile].
//
// Profiling is compiled in only with the "pprof" build tag:
//
//	go build -tags pprof .
//	stache --pprof-mode=cpu --pprof-dir=/tmp/stache page.mustache
//	go tool pprof -http=: /tmp/stache/cpu.pprof
//
// Without the tag, [Modes] is empty and [Profiler.Start] does nothing. With
// the tag, the [net/http/pprof] handlers are also registered on
// [net/http.DefaultServeMux].
package profile

// Tag is the build tag that enables profiling.
const Tag = `pprof`
