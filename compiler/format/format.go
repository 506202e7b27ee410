package format

import (
	"context"
	"strings"

	"github.com/nikandfor/hacked/hfmt"
	"tlog.app/go/errors"

	"github.com/slowlang/pyrs/compiler/rs"
)

type (
	printer struct {
		b []byte
		d int

		bol bool // at the beginning of a line
	}
)

func Format(ctx context.Context, b []byte, x any) ([]byte, error) {
	return format(ctx, b, x, 0)
}

func format(ctx context.Context, b []byte, x any, d int) ([]byte, error) {
	switch x := x.(type) {
	case rs.Stream:
		return formatStream(ctx, b, x, d)
	case []rs.Stream:
		var err error

		for i, s := range x {
			if i != 0 {
				b = append(b, '\n')
			}

			b, err = formatStream(ctx, b, s, d)
			if err != nil {
				return nil, errors.Wrap(err, "stream %d", i)
			}
		}

		return b, nil
	default:
		return nil, errors.New("unsupported type: %T", x)
	}
}

func formatStream(ctx context.Context, b []byte, s rs.Stream, d int) ([]byte, error) {
	p := printer{b: b, d: d, bol: true}

	for i := 0; i < len(s); i++ {
		t := s[i]

		switch {
		case t.Kind == rs.Doc:
			p.doc(t.Text)
		case t.Kind == rs.Punct && t.Text == "{":
			if !p.bol {
				p.b = append(p.b, ' ')
			}

			p.b = append(p.b, '{')
			p.newline()
			p.d++
		case t.Kind == rs.Punct && t.Text == "}":
			if p.d == 0 {
				return nil, errors.New("unbalanced } at token %d", i)
			}

			if !p.bol {
				p.newline()
			}

			p.d--
			p.b = app(p.b, p.d, "}")
			p.bol = false

			// `};` is an empty statement, `} else` stays on the line
			if i+1 < len(s) && s[i+1].Kind == rs.Punct && s[i+1].Text == ";" {
				i++
			}

			if i+1 < len(s) && s[i+1].Kind == rs.Keyword && s[i+1].Text == "else" {
				continue
			}

			p.newline()

			if p.d == 0 && i+1 < len(s) {
				p.newline()
			}
		case t.Kind == rs.Punct && t.Text == ";":
			if p.bol {
				p.b = app(p.b, p.d, "")
			}

			p.b = append(p.b, ';')
			p.newline()

			if p.d == 0 && i+1 < len(s) {
				p.newline()
			}
		default:
			if !p.bol && space(s[i-1], t) {
				p.b = append(p.b, ' ')
			}

			if p.bol {
				p.b = app(p.b, p.d, "")
			}

			p.b = append(p.b, t.Text...)
			p.bol = false
		}
	}

	if p.d != 0 {
		return nil, errors.New("unbalanced {: depth %d at the end", p.d)
	}

	if !p.bol {
		p.newline()
	}

	return p.b, nil
}

func (p *printer) newline() {
	p.b = append(p.b, '\n')
	p.bol = true
}

func (p *printer) doc(text string) {
	lines := docLines(text)

	for _, l := range lines {
		if l == "" {
			p.b = app(p.b, p.d, "///\n")
			continue
		}

		p.b = app(p.b, p.d, "/// %s\n", l)
	}

	p.bol = true
}

// space decides if tokens are separated by a space.
func space(prev, next rs.Token) bool {
	if prev.Joint {
		return false
	}

	if next.Kind == rs.Punct {
		switch next.Text {
		case ",", ";", ")", "]", ".", ":", "::", "?":
			return false
		case "(", "[":
			if prev.Kind == rs.Ident || prev.Kind == rs.Literal {
				return false
			}

			if prev.Kind == rs.Punct && (prev.Text == ")" || prev.Text == "]") {
				return false
			}
		}
	}

	if prev.Kind == rs.Punct {
		switch prev.Text {
		case "(", "[", ".", "::":
			return false
		}
	}

	return true
}

// docLines trims blank edges and the common indentation of a docstring.
func docLines(text string) []string {
	lines := strings.Split(text, "\n")

	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " \t\r")
	}

	for len(lines) != 0 && lines[0] == "" {
		lines = lines[1:]
	}

	for len(lines) != 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}

	indent := -1

	for i, l := range lines {
		if l == "" || i == 0 && !strings.HasPrefix(l, " ") {
			continue
		}

		n := len(l) - len(strings.TrimLeft(l, " \t"))
		if indent < 0 || n < indent {
			indent = n
		}
	}

	if indent > 0 {
		for i, l := range lines {
			if len(l) >= indent {
				lines[i] = l[indent:]
			}
		}
	}

	if len(lines) != 0 {
		lines[0] = strings.TrimLeft(lines[0], " \t")
	}

	return lines
}

func app(b []byte, d int, f string, args ...any) []byte {
	for i := 0; i < d; i++ {
		b = append(b, '\t')
	}

	b = hfmt.Appendf(b, f, args...)
	return b
}
