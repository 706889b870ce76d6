package tmpl

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/ardnew/mung"
)

// PartialResolver supplies parsed node trees for partial tags.
//
// Lookup reports ok == false when no partial named name exists; the partial
// tag then renders nothing. A non-nil error aborts the render and is
// returned to the caller unchanged.
type PartialResolver interface {
	Lookup(ctx context.Context, name string) (nodes []Node, ok bool, err error)
}

// Partials is an in-memory [PartialResolver].
type Partials map[string][]Node

// Lookup implements [PartialResolver].
func (p Partials) Lookup(_ context.Context, name string) ([]Node, bool, error) {
	nodes, ok := p[name]

	return nodes, ok, nil
}

// PartialsFromStrings parses each template source in src into a [Partials].
func PartialsFromStrings(ctx context.Context, src map[string]string) Partials {
	p := make(Partials, len(src))
	for name, text := range src {
		p[name] = Parse(ctx, text).Nodes
	}

	return p
}

// DefaultPartialExt is the file extension appended to partial names by
// [DirResolver] when none is configured.
const DefaultPartialExt = ".mustache"

// EnvSearchPath names the environment variable holding a list of additional
// partial directories, separated by [os.PathListSeparator].
const EnvSearchPath = "STACHE_PATH"

// DirResolver is a [PartialResolver] that loads partials from files named
// <name><ext> in an ordered list of directories. The first directory that
// contains the file wins. Each partial is parsed once and memoized.
//
// Names that are not local paths (absolute, empty, or escaping the directory
// with "..") are reported as not found.
type DirResolver struct {
	dirs  []string
	ext   string
	opts  []Option
	mu    sync.Mutex
	cache map[string][]Node
}

// NewDirResolver returns a resolver searching dirs in order. An empty ext
// selects [DefaultPartialExt]. The options are used when parsing partial
// files.
func NewDirResolver(dirs []string, ext string, opts ...Option) *DirResolver {
	if ext == "" {
		ext = DefaultPartialExt
	}

	return &DirResolver{
		dirs:  dirs,
		ext:   ext,
		opts:  opts,
		cache: make(map[string][]Node),
	}
}

// Dirs returns the directories searched, in order.
func (d *DirResolver) Dirs() []string { return d.dirs }

// Lookup implements [PartialResolver].
// A file that exists but cannot be read returns an error matching
// [ErrResourceAccess].
func (d *DirResolver) Lookup(
	ctx context.Context,
	name string,
) ([]Node, bool, error) {
	if !filepath.IsLocal(name) {
		return nil, false, nil
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if nodes, ok := d.cache[name]; ok {
		return nodes, true, nil
	}

	for _, dir := range d.dirs {
		path := filepath.Join(dir, name+d.ext)

		file, err := os.Open(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}

		if err != nil {
			return nil, false, ErrResourceAccess.Wrap(err).With(
				slog.String("partial", name),
				slog.String("path", path),
			)
		}

		t, err := ParseReader(ctx, file, d.opts...)
		file.Close()

		if err != nil {
			return nil, false, WrapError(err).With(
				slog.String("partial", name),
				slog.String("path", path),
			)
		}

		d.cache[name] = t.Nodes

		return t.Nodes, true, nil
	}

	return nil, false, nil
}

// SearchPath composes the partial search path from dirs followed by the
// entries of env, a list separated by [os.PathListSeparator] (typically the
// value of [EnvSearchPath]). Entries of dirs that are not existing
// directories are removed.
func SearchPath(dirs []string, env string) []string {
	path := mung.Make(
		mung.WithSubjectItems(env),
		mung.WithDelim(string(os.PathListSeparator)),
		mung.WithPrefixItems(dirs...),
		mung.WithFilter(isDir),
	).String()

	return filepath.SplitList(path)
}

func isDir(path string) bool {
	info, err := os.Stat(path)

	return err == nil && info.IsDir()
}
