package tmpl

import (
	"context"
	"log/slog"
	"strconv"
	"sync"

	"github.com/zeebo/xxh3"
)

// Cache memoizes parsed node trees keyed by the hash of their source.
//
// Node trees are read-only after parsing, so a cached tree is shared by
// every [Template] returned for the same source. The zero value is ready
// to use and safe for concurrent use.
type Cache struct {
	entries sync.Map // uint64 -> *cacheEntry
}

type cacheEntry struct {
	once   sync.Once
	source string
	nodes  []Node
}

// Parse returns a [Template] over the node tree of src, parsing src only the
// first time it is seen. Options apply to the returned Template alone.
func (c *Cache) Parse(ctx context.Context, src string, opts ...Option) *Template {
	t := New(nil, opts...)

	hash := xxh3.HashString(src)

	value, hit := c.entries.LoadOrStore(hash, &cacheEntry{source: src})

	entry, _ := value.(*cacheEntry)
	if entry.source != src {
		// Hash collision: parse without caching.
		t.logger.TraceContext(ctx, "cache collision",
			slog.String("source_hash", strconv.FormatUint(hash, 16)))

		return Parse(ctx, src, opts...)
	}

	t.logger.TraceContext(ctx, "cache lookup",
		slog.String("source_hash", strconv.FormatUint(hash, 16)),
		slog.Bool("cache_hit", hit))

	entry.once.Do(func() {
		entry.nodes = Parse(ctx, src, opts...).Nodes
	})

	t.Nodes = entry.nodes

	return t
}

// Len returns the number of cached sources.
func (c *Cache) Len() int {
	n := 0

	c.entries.Range(func(_, _ any) bool {
		n++

		return true
	})

	return n
}

// Clear removes every cached node tree.
func (c *Cache) Clear() {
	c.entries.Clear()
}
