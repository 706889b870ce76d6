package tmpl

import (
	"strconv"
	"strings"
)

// TokenKind identifies the lexical class of a [Token].
type TokenKind int

const (
	// TokenText is literal template text.
	TokenText TokenKind = iota

	// TokenVariable is an escaped variable reference: {{ name }}.
	TokenVariable

	// TokenRaw is an unescaped variable reference: {{{ name }}} or {{& name }}.
	TokenRaw

	// TokenSectionOpen opens a section: {{# name }} or {{^ name }}.
	TokenSectionOpen

	// TokenSectionClose closes a section: {{/ name }}.
	TokenSectionClose

	// TokenPartial references a partial template: {{> name }}.
	TokenPartial

	// tokenComment is recognized by the tokenizer but never emitted.
	tokenComment
)

// String returns a string representation of the token kind.
func (k TokenKind) String() string {
	switch k {
	case TokenText:
		return "Text"
	case TokenVariable:
		return "Variable"
	case TokenRaw:
		return "Raw"
	case TokenSectionOpen:
		return "SectionOpen"
	case TokenSectionClose:
		return "SectionClose"
	case TokenPartial:
		return "Partial"
	default:
		return "Unknown"
	}
}

// Token is a single lexical element of a template.
//
// For [TokenText], Raw holds the literal text and Name is empty.
// For every tag token, Raw holds the verbatim tag including its delimiters.
type Token struct {
	Kind     TokenKind
	Name     string
	Raw      string
	Inverted bool
}

// String returns a compact human-readable representation of t.
func (t Token) String() string {
	var b strings.Builder

	b.WriteString(t.Kind.String())
	b.WriteByte('(')

	if t.Kind == TokenText {
		b.WriteString(strconv.Quote(t.Raw))
	} else {
		b.WriteString(strconv.Quote(t.Name))

		if t.Inverted {
			b.WriteString(", inverted")
		}

		b.WriteString(", ")
		b.WriteString(strconv.Quote(t.Raw))
	}

	b.WriteByte(')')

	return b.String()
}

// Tag delimiters.
const (
	openDelim   = "{{"
	closeDelim  = "}}"
	openTriple  = "{{{"
	closeTriple = "}}}"
)

// Tokenize splits template text into a token sequence.
//
// An opening delimiter with no matching closing delimiter, or a tag with an
// empty name, is kept as literal text. Comment tags are discarded. Adjacent
// literal runs are merged into a single [TokenText].
func Tokenize(src string) []Token {
	var (
		toks []Token
		text strings.Builder
	)

	flush := func() {
		if text.Len() > 0 {
			toks = append(toks, Token{Kind: TokenText, Raw: text.String()})
			text.Reset()
		}
	}

	for i := 0; i < len(src); {
		j := strings.Index(src[i:], openDelim)
		if j < 0 {
			text.WriteString(src[i:])

			break
		}

		text.WriteString(src[i : i+j])

		start := i + j

		tok, n, ok := scanTag(src[start:])
		if !ok {
			text.WriteString(openDelim)

			i = start + len(openDelim)

			continue
		}

		i = start + n

		if tok.Kind == tokenComment {
			continue
		}

		flush()

		toks = append(toks, tok)
	}

	flush()

	return toks
}

// scanTag scans one tag at the beginning of s, which must start with the
// opening delimiter. It returns the token, the number of bytes consumed, and
// whether s begins with a well-formed tag.
func scanTag(s string) (Token, int, bool) {
	if strings.HasPrefix(s, openTriple) {
		end := strings.Index(s[len(openTriple):], closeTriple)
		if end < 0 {
			return Token{}, 0, false
		}

		n := len(openTriple) + end + len(closeTriple)
		name := strings.TrimSpace(s[len(openTriple) : len(openTriple)+end])

		if name == "" {
			return Token{}, 0, false
		}

		return Token{Kind: TokenRaw, Name: name, Raw: s[:n]}, n, true
	}

	end := strings.Index(s[len(openDelim):], closeDelim)
	if end < 0 {
		return Token{}, 0, false
	}

	n := len(openDelim) + end + len(closeDelim)
	raw := s[:n]
	inner := strings.TrimSpace(s[len(openDelim) : len(openDelim)+end])

	if inner == "" {
		return Token{}, 0, false
	}

	tok := Token{Raw: raw}

	switch inner[0] {
	case '!':
		tok.Kind = tokenComment

		return tok, n, true

	case '&':
		tok.Kind = TokenRaw

	case '#':
		tok.Kind = TokenSectionOpen

	case '^':
		tok.Kind = TokenSectionOpen
		tok.Inverted = true

	case '/':
		tok.Kind = TokenSectionClose

	case '>':
		tok.Kind = TokenPartial

	default:
		tok.Kind = TokenVariable
		tok.Name = inner

		return tok, n, true
	}

	tok.Name = strings.TrimSpace(inner[1:])
	if tok.Name == "" {
		return Token{}, 0, false
	}

	return tok, n, true
}
