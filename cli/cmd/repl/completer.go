package repl

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/stache/tmpl"
)

// ctrlCommands are the available control-mode commands.
var ctrlCommands = []string{"help", "keys", "edit", "clear", "quit"}

// isWordBoundary reports whether r delimits a key for completion purposes:
// whitespace, the path separator, braces, and the tag sigils.
func isWordBoundary(r rune) bool {
	switch r {
	case '.', ' ', '\t',
		'{', '}',
		'#', '^', '/', '&', '>', '!':
		return true
	}

	return false
}

// openTag returns the byte offset just past the last "{{" before cursor
// that has not been closed, and whether there is one.
func openTag(input string, cursor int) (int, bool) {
	if cursor > len(input) {
		cursor = len(input)
	}

	start := strings.LastIndex(input[:cursor], "{{")
	if start < 0 {
		return 0, false
	}

	start += len("{{")

	if strings.Contains(input[start:cursor], "}}") {
		return 0, false
	}

	return start, true
}

// wordBounds returns the word at the cursor position and its byte boundaries
// within input. An empty word is returned when the cursor sits on a
// boundary.
func wordBounds(input string, cursor int) (word string, start, end int) {
	if cursor > len(input) {
		cursor = len(input)
	}

	start = cursor

	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if isWordBoundary(r) {
			break
		}

		start -= size
	}

	end = cursor

	for end < len(input) {
		r, size := utf8.DecodeRuneInString(input[end:])
		if isWordBoundary(r) {
			break
		}

		end += size
	}

	return input[start:end], start, end
}

// parentPath returns the dotted key path leading up to the word starting at
// wordStart. For input "{{#user.address.ci" with the word "ci", the parent
// path is "user.address". Returns "" for a word that is not preceded by a
// dot.
func parentPath(input string, wordStart int) string {
	prefix := input[:wordStart]
	if !strings.HasSuffix(prefix, ".") {
		return ""
	}

	prefix = strings.TrimRight(prefix, ".")
	pos := len(prefix)

	for pos > 0 {
		r, size := utf8.DecodeLastRuneInString(prefix[:pos])
		if r != '.' && isWordBoundary(r) {
			break
		}

		pos -= size
	}

	return strings.Trim(prefix[pos:], ".")
}

// childCandidates returns the keys that complete a word under parent. An
// empty parent yields every key visible in data; otherwise each segment of
// parent is resolved through nested maps, or through the first element of a
// list.
func childCandidates(data *tmpl.Context, parent string) []string {
	if parent == "" {
		return data.Keys()
	}

	segments := strings.Split(parent, ".")

	v, ok := data.Lookup(segments[0])
	if !ok {
		return nil
	}

	for _, seg := range segments[1:] {
		v, ok = fieldsOf(v)[seg]
		if !ok {
			return nil
		}
	}

	return slices.Sorted(maps.Keys(fieldsOf(v)))
}

// fieldsOf returns the fields a section over v would push as scope.
func fieldsOf(v tmpl.Value) map[string]tmpl.Value {
	if v.Kind() == tmpl.KindList {
		if items := v.Items(); len(items) > 0 {
			return items[0].Fields()
		}
	}

	return v.Fields()
}

// computeMatches calculates the fuzzy matches for the word at the cursor.
// In render mode, keys are only offered inside an unclosed tag. An empty
// word right after a dot offers every child key.
func (m model) computeMatches() (
	matches fuzzy.Matches,
	wordStart, wordEnd int,
) {
	input := m.input.Value()
	cursor := m.input.Position()

	word, wordStart, wordEnd := wordBounds(input, cursor)

	var candidates []string

	switch m.mode {
	case modeCtrl:
		if word == "" {
			return nil, wordStart, wordEnd
		}

		candidates = ctrlCommands

	default:
		tagStart, ok := openTag(input, cursor)
		if !ok || wordStart < tagStart {
			return nil, wordStart, wordEnd
		}

		parent := parentPath(input, wordStart)
		candidates = childCandidates(m.data, parent)

		if word == "" {
			if parent == "" || len(candidates) == 0 {
				return nil, wordStart, wordEnd
			}

			matches = make(fuzzy.Matches, len(candidates))
			for i, c := range candidates {
				matches[i] = fuzzy.Match{Str: c, Index: i}
			}

			return matches, wordStart, wordEnd
		}
	}

	if len(candidates) == 0 {
		return nil, wordStart, wordEnd
	}

	return fuzzy.Find(word, candidates), wordStart, wordEnd
}

// renderCandidateBar builds the single-line completion bar, ellipsized to
// fit within width. Matched characters are highlighted; the selected
// candidate (when tabbing) uses the selected style.
func renderCandidateBar(
	matches fuzzy.Matches,
	suggIdx int,
	tabActive bool,
	width int,
) string {
	if len(matches) == 0 || width <= 0 {
		return ""
	}

	const sep = "  "

	sepWidth := lipgloss.Width(sep)
	ellipsis := hintStyle.Render("...")
	ellipsisWidth := lipgloss.Width(ellipsis)

	var b strings.Builder

	used := 0

	for i, match := range matches {
		rendered := renderCandidate(match, tabActive && i == suggIdx)

		entryWidth := lipgloss.Width(rendered)
		if i > 0 {
			entryWidth += sepWidth
		}

		if i > 0 && i < len(matches)-1 && used+entryWidth+ellipsisWidth > width {
			b.WriteString(sep)
			b.WriteString(ellipsis)

			break
		}

		if i > 0 {
			b.WriteString(sep)
		}

		b.WriteString(rendered)

		used += entryWidth
	}

	return b.String()
}

// renderCandidate renders a single candidate with matched characters
// highlighted.
func renderCandidate(match fuzzy.Match, selected bool) string {
	base, highlight := suggestionStyle, suggestionStyle.Bold(true)
	if selected {
		base, highlight = selectedStyle, selectedStyle.Bold(true)
	}

	matched := make(map[int]bool, len(match.MatchedIndexes))
	for _, idx := range match.MatchedIndexes {
		matched[idx] = true
	}

	var b strings.Builder

	for i, r := range match.Str {
		if matched[i] {
			b.WriteString(highlight.Render(string(r)))
		} else {
			b.WriteString(base.Render(string(r)))
		}
	}

	return b.String()
}

// maxPreview is the widest value preview shown by the keys command.
const maxPreview = 40

// formatPreview returns a short description of v for the keys command.
func formatPreview(v tmpl.Value) string {
	switch v.Kind() {
	case tmpl.KindList:
		return fmt.Sprintf("[ %d items ]", len(v.Items()))

	case tmpl.KindMap:
		return fmt.Sprintf("{ %d keys }", len(v.Fields()))

	case tmpl.KindLambda:
		return "<lambda>"

	default:
		s, _ := v.Text()
		if v.Kind() == tmpl.KindString {
			s = fmt.Sprintf("%q", s)
		}

		if len(s) > maxPreview {
			return s[:maxPreview-3] + "..."
		}

		return s
	}
}
