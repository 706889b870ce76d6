package tmpl

import (
	"maps"
	"slices"
)

// Context is a stack of scopes consulted innermost-first during key
// resolution. The outermost scope is the root map supplied to
// [NewContext]; sections push and pop scopes above it while rendering.
//
// A Context is not safe for concurrent use. Build one per render.
type Context struct {
	scopes []map[string]Value
}

// NewContext returns a Context whose only scope is root.
// A nil root is treated as empty.
func NewContext(root map[string]Value) *Context {
	if root == nil {
		root = map[string]Value{}
	}

	return &Context{scopes: []map[string]Value{root}}
}

// Push adds scope as the innermost scope.
func (c *Context) Push(scope map[string]Value) {
	if scope == nil {
		scope = map[string]Value{}
	}

	c.scopes = append(c.scopes, scope)
}

// Pop removes the innermost scope. The root scope is never removed.
func (c *Context) Pop() {
	if len(c.scopes) > 1 {
		c.scopes[len(c.scopes)-1] = nil
		c.scopes = c.scopes[:len(c.scopes)-1]
	}
}

// Depth returns the number of scopes on the stack, including the root.
func (c *Context) Depth() int {
	if c == nil {
		return 0
	}

	return len(c.scopes)
}

// Lookup resolves key by searching from the innermost scope outward.
// The second result is false when no scope defines key.
func (c *Context) Lookup(key string) (Value, bool) {
	if c == nil {
		return Value{}, false
	}

	for i := len(c.scopes) - 1; i >= 0; i-- {
		if v, ok := c.scopes[i][key]; ok {
			return v, true
		}
	}

	return Value{}, false
}

// Root returns the outermost scope.
func (c *Context) Root() map[string]Value {
	if c == nil {
		return nil
	}

	return c.scopes[0]
}

// Set binds key to v in the root scope.
func (c *Context) Set(key string, v Value) {
	c.scopes[0][key] = v
}

// Keys returns the sorted set of keys visible from the innermost scope.
func (c *Context) Keys() []string {
	if c == nil {
		return nil
	}

	seen := make(map[string]struct{})

	for _, scope := range c.scopes {
		for k := range scope {
			seen[k] = struct{}{}
		}
	}

	return slices.Sorted(maps.Keys(seen))
}

// Merge copies src into dst. Where both hold a map under the same key, the
// maps are merged recursively; otherwise the value from src wins.
// Maps held by dst are replaced, not modified, so values shared with other
// contexts are left intact.
func Merge(dst, src map[string]Value) {
	for k, sv := range src {
		dv, ok := dst[k]
		if ok && dv.kind == KindMap && sv.kind == KindMap {
			merged := maps.Clone(dv.m)
			Merge(merged, sv.m)
			dst[k] = Map(merged)

			continue
		}

		dst[k] = sv
	}
}
