package tp

import (
	"strconv"

	"github.com/slowlang/pyrs/compiler/rs"
)

type (
	Type interface {
		Tokens(s rs.Stream) rs.Stream
	}

	// Name is a named type, possibly a path: Name("std::string::String").
	Name string

	Int struct {
		Bits   int16
		Signed bool
	}

	Float struct {
		Bits int16
	}

	Bool struct{}

	Str struct{}

	Unit struct{}

	// Object is the dynamic python value of the runtime crate.
	Object struct {
		Namespace string
	}

	Vec struct {
		X Type
	}

	Map struct {
		Key   Type
		Value Type
	}

	Set struct {
		X Type
	}

	Option struct {
		X Type
	}

	Tuple []Type

	Ref struct {
		X   Type
		Mut bool
	}

	Generic struct {
		Name Name
		Args []Type
	}
)

func (x Name) Tokens(s rs.Stream) rs.Stream {
	return s.Path(splitPath(string(x))...)
}

func (x Int) Tokens(s rs.Stream) rs.Stream {
	bits := x.Bits
	if bits == 0 {
		bits = 64
	}

	p := "u"
	if x.Signed {
		p = "i"
	}

	return s.Ident(p + strconv.Itoa(int(bits)))
}

func (x Float) Tokens(s rs.Stream) rs.Stream {
	if x.Bits == 32 {
		return s.Ident("f32")
	}

	return s.Ident("f64")
}

func (Bool) Tokens(s rs.Stream) rs.Stream {
	return s.Ident("bool")
}

func (Str) Tokens(s rs.Stream) rs.Stream {
	return s.Ident("String")
}

func (Unit) Tokens(s rs.Stream) rs.Stream {
	return s.Punct("(").Join().Punct(")")
}

func (x Object) Tokens(s rs.Stream) rs.Stream {
	if x.Namespace == "" {
		return s.Ident("PyObject")
	}

	return s.Path(x.Namespace, "PyObject")
}

func (x Vec) Tokens(s rs.Stream) rs.Stream {
	return generic(s, "Vec", x.X)
}

func (x Map) Tokens(s rs.Stream) rs.Stream {
	return generic(s, "std::collections::HashMap", x.Key, x.Value)
}

func (x Set) Tokens(s rs.Stream) rs.Stream {
	return generic(s, "std::collections::HashSet", x.X)
}

func (x Option) Tokens(s rs.Stream) rs.Stream {
	return generic(s, "Option", x.X)
}

func (x Tuple) Tokens(s rs.Stream) rs.Stream {
	s = s.Punct("(").Join()

	for i, t := range x {
		if i != 0 {
			s = s.Punct(",")
		}

		s = t.Tokens(s)
	}

	if len(x) == 1 {
		s = s.Punct(",")
	}

	return s.Join().Punct(")")
}

func (x Ref) Tokens(s rs.Stream) rs.Stream {
	s = s.Punct("&").Join()

	if x.Mut {
		s = s.Keyword("mut")
	}

	return x.X.Tokens(s)
}

func (x Generic) Tokens(s rs.Stream) rs.Stream {
	return generic(s, string(x.Name), x.Args...)
}

func generic(s rs.Stream, name string, args ...Type) rs.Stream {
	s = s.Path(splitPath(name)...).Join()
	s = s.Punct("<").Join()

	for i, a := range args {
		if i != 0 {
			s = s.Punct(",")
		}

		s = a.Tokens(s)
	}

	return s.Join().Punct(">")
}

func splitPath(p string) (l []string) {
	st := 0

	for i := 0; i+1 < len(p); i++ {
		if p[i] == ':' && p[i+1] == ':' {
			l = append(l, p[st:i])
			st = i + 2
			i++
		}
	}

	return append(l, p[st:])
}
