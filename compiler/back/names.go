package back

import (
	"strings"

	"github.com/slowlang/pyrs/compiler/rs"
)

type (
	Visibility uint8

	Qualifier uint8
)

const (
	Private Visibility = iota
	Internal
	Public
)

const (
	Blocking Qualifier = iota
	Asynchronous
)

// VisibilityOf follows python naming convention:
// _name is private, __name__ is crate internal, anything else is public.
func VisibilityOf(name string) Visibility {
	switch {
	case strings.HasPrefix(name, "_") && !strings.HasPrefix(name, "__"):
		return Private
	case strings.HasPrefix(name, "__") && strings.HasSuffix(name, "__"):
		return Internal
	default:
		return Public
	}
}

// QualifierOf depends on the context only, not on the definition.
func QualifierOf(cx Context) Qualifier {
	if cx.IsAsync() {
		return Asynchronous
	}

	return Blocking
}

func (v Visibility) Tokens(s rs.Stream) rs.Stream {
	switch v {
	case Public:
		return s.Keyword("pub")
	case Internal:
		s = s.Keyword("pub").Join()
		return s.Group("(", ")", rs.Stream{}.Keyword("crate").Join())
	default:
		return s
	}
}

func (q Qualifier) Tokens(s rs.Stream) rs.Stream {
	if q == Asynchronous {
		return s.Keyword("async")
	}

	return s
}

func (v Visibility) String() string {
	switch v {
	case Private:
		return "private"
	case Internal:
		return "internal"
	case Public:
		return "public"
	default:
		return "invalid"
	}
}

func (q Qualifier) String() string {
	if q == Asynchronous {
		return "async"
	}

	return "sync"
}
