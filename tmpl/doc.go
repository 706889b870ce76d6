// Package tmpl implements a logic-less template engine using the Mustache tag
// syntax.
//
// # Syntax
//
//	{{ name }}            HTML-escaped value
//	{{{ name }}}          unescaped value
//	{{& name }}           unescaped value
//	{{# name }}…{{/ name }} section
//	{{^ name }}…{{/ name }} inverted section
//	{{> name }}           partial
//	{{! comment }}        comment (discarded)
//
// A dotted key such as {{ a.b }} is shorthand for {{# a }}{{ b }}{{/ a }}.
// Only the first and last segments of a longer path are used.
//
// # Pipeline
//
// [Tokenize] splits template text into [Token]s. [ParseTokens] turns the flat
// token sequence into a tree of [Node]s, matching each section with its
// same-name close. Malformed nesting never fails: dangling closes are
// dropped, and an unclosed section is dropped along with everything after it
// in the same sequence. [Parse] and [ParseReader] run both steps and return a
// [Template].
//
// [Template.Render] walks the tree against a [Context], a stack of scopes
// built from [Value]s. Values are scalars (string, boolean, integer, float),
// lists, maps or [Lambda] callbacks. Sections iterate lists, push maps as
// scopes, test booleans, and pass their raw inner text to lambdas. Rendering
// a list, map or lambda through a value tag fails with [ErrRenderType].
//
// # Data
//
// Contexts are built with [NewHash] and [NewList], converted from plain Go
// values with [FromNative], or decoded from JSON, YAML and TOML with
// [LoadData].
//
// # Partials
//
// Partial tags are resolved through a [PartialResolver] supplied with
// [WithPartials]: [Partials] holds them in memory and [DirResolver] loads
// them from disk along a search path built by [SearchPath].
package tmpl
