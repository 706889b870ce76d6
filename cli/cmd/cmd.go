package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/klauspost/readahead"
)

type contextKey struct{}

// WithContext returns a copy of ctx carrying ktx.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, _ := ctx.Value(contextKey{}).(*kong.Context)

	return ktx
}

type stdinKey struct{}

// WithStdin returns a copy of ctx whose commands read "-" sources from r
// instead of [os.Stdin].
func WithStdin(ctx context.Context, r io.Reader) context.Context {
	return context.WithValue(ctx, stdinKey{}, r)
}

func stdinFrom(ctx context.Context) io.Reader {
	if r, ok := ctx.Value(stdinKey{}).(io.Reader); ok {
		return r
	}

	return os.Stdin
}

// stdio names standard input or output on the command line.
const stdio = "-"

// fileKey identifies a file by device and inode, so that a file named
// through different paths or links is read once.
type fileKey struct {
	dev uint64
	ino uint64
}

func makeFileKey(info os.FileInfo) (fileKey, bool) {
	if info == nil {
		return fileKey{}, false
	}

	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return fileKey{}, false
	}

	return fileKey{dev: uint64(stat.Dev), ino: uint64(stat.Ino)}, true //nolint:unconvert
}

// uniqueSources returns names with repeated files removed, keeping first
// occurrences in order. Every "-" collapses into a single stdin entry placed
// last, after all regular files.
func uniqueSources(names []string) []string {
	seen := make(map[fileKey]struct{}, len(names))
	out := make([]string, 0, len(names))
	stdin := false

	for _, name := range names {
		if name == stdio {
			stdin = true

			continue
		}

		path, err := filepath.Abs(name)
		if err == nil {
			if resolved, err := filepath.EvalSymlinks(path); err == nil {
				path = resolved
			}
		} else {
			path = name
		}

		if info, err := os.Stat(path); err == nil {
			if key, ok := makeFileKey(info); ok {
				if _, dup := seen[key]; dup {
					continue
				}

				seen[key] = struct{}{}
			}
		}

		out = append(out, name)
	}

	if stdin {
		out = append(out, stdio)
	}

	return out
}

// readSources reads and concatenates the template sources named by names,
// deduplicated with [uniqueSources].
func readSources(ctx context.Context, names []string) (string, error) {
	names = uniqueSources(names)
	if len(names) == 0 {
		return "", ErrNoTemplate
	}

	var sb strings.Builder

	for _, name := range names {
		err := readSource(ctx, &sb, name)
		if err != nil {
			return "", ErrReadTemplate.Wrap(err).With(slog.String("source", name))
		}
	}

	return sb.String(), nil
}

func readSource(ctx context.Context, w io.Writer, name string) error {
	var r io.Reader

	if name == stdio {
		r = stdinFrom(ctx)
	} else {
		file, err := os.Open(name)
		if err != nil {
			return err
		}
		defer file.Close()

		r = file
	}

	ra := readahead.NewReader(r)
	defer ra.Close()

	_, err := io.Copy(w, ra)

	return err
}

// Var returns the value of the kong variable name, looked up in the parsed
// command line carried by ctx.
func Var(ctx context.Context, name string) (string, bool) {
	ktx := kongContextFrom(ctx)
	if ktx == nil {
		return "", false
	}

	v, ok := ktx.Model.Vars()[name]

	return v, ok
}
