package rs

import (
	"strconv"
	"strings"

	"tlog.app/go/tlog/tlwire"
)

type (
	Kind uint8

	Token struct {
		Kind Kind
		Text string

		// Joint means no space after the token.
		Joint bool
	}

	// Stream is a not yet rendered sequence of rust tokens.
	Stream []Token
)

const (
	Ident Kind = iota
	Keyword
	Literal
	Punct
	Doc
)

var keywords = map[string]struct{}{
	"as": {}, "async": {}, "await": {}, "break": {}, "const": {}, "continue": {}, "crate": {},
	"dyn": {}, "else": {}, "enum": {}, "extern": {}, "false": {}, "fn": {}, "for": {}, "if": {},
	"impl": {}, "in": {}, "let": {}, "loop": {}, "match": {}, "mod": {}, "move": {}, "mut": {},
	"pub": {}, "ref": {}, "return": {}, "static": {}, "struct": {}, "trait": {},
	"true": {}, "type": {}, "unsafe": {}, "use": {}, "where": {}, "while": {},
	"abstract": {}, "become": {}, "box": {}, "do": {}, "final": {}, "macro": {}, "override": {},
	"priv": {}, "typeof": {}, "unsized": {}, "virtual": {}, "yield": {}, "try": {},
}

// reserved can't be raw identifiers.
var reserved = map[string]struct{}{
	"self": {}, "Self": {}, "super": {}, "crate": {}, "_": {},
}

// IsKeyword reports whether s is a rust keyword.
func IsKeyword(s string) bool {
	_, ok := keywords[s]
	return ok
}

// IdentName escapes s into a rust identifier.
// Keywords become raw identifiers, names which can't be raw get a trailing underscore.
func IdentName(s string) string {
	if _, ok := reserved[s]; ok {
		return s + "_"
	}

	if IsKeyword(s) {
		return "r#" + s
	}

	return s
}

func (s Stream) Ident(name string) Stream {
	return append(s, Token{Kind: Ident, Text: IdentName(name)})
}

// Path appends a::b::c.
func (s Stream) Path(parts ...string) Stream {
	for i, p := range parts {
		if i != 0 {
			s = s.Punct("::").Join()
		}

		s = s.Ident(p)

		if i+1 < len(parts) {
			s = s.Join()
		}
	}

	return s
}

func (s Stream) Keyword(kw string) Stream {
	return append(s, Token{Kind: Keyword, Text: kw})
}

func (s Stream) Punct(p string) Stream {
	return append(s, Token{Kind: Punct, Text: p})
}

func (s Stream) Literal(text string) Stream {
	return append(s, Token{Kind: Literal, Text: text})
}

// Str appends a string literal.
func (s Stream) Str(v string) Stream {
	return s.Literal(strconv.Quote(v))
}

func (s Stream) Doc(text string) Stream {
	return append(s, Token{Kind: Doc, Text: text})
}

// Join marks the last token as joint with the next one.
func (s Stream) Join() Stream {
	if len(s) != 0 {
		s[len(s)-1].Joint = true
	}

	return s
}

// Macro appends name! joint with the following delimiter.
func (s Stream) Macro(name string) Stream {
	s = s.Ident(name).Join()
	return s.Punct("!").Join()
}

// Group appends x enclosed in the open and close delimiters.
func (s Stream) Group(open, close string, x Stream) Stream {
	s = s.Punct(open)
	if open != "{" {
		s = s.Join()
	}

	s = append(s, x...)

	return s.Punct(close)
}

// Comma joins streams separated by commas.
func Comma(l []Stream) (s Stream) {
	for i, x := range l {
		if i != 0 {
			s = s.Punct(",")
		}

		s = append(s, x...)
	}

	return s
}

// String is the stream text with tokens separated by spaces,
// the way proc_macro token streams print. Use format package for pretty output.
func (s Stream) String() string {
	var b strings.Builder

	for i, t := range s {
		if i != 0 {
			b.WriteByte(' ')
		}

		if t.Kind == Doc {
			b.WriteString("#[doc = ")
			b.WriteString(strconv.Quote(t.Text))
			b.WriteString("]")

			continue
		}

		b.WriteString(t.Text)
	}

	return b.String()
}

func (s Stream) TlogAppend(b []byte) []byte {
	var e tlwire.Encoder

	return e.AppendString(b, s.String())
}

func (k Kind) String() string {
	switch k {
	case Ident:
		return "ident"
	case Keyword:
		return "keyword"
	case Literal:
		return "literal"
	case Punct:
		return "punct"
	case Doc:
		return "doc"
	default:
		return "invalid"
	}
}
