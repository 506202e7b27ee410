package symbols

import (
	"io"
	"sort"

	"github.com/nikandfor/hacked/hfmt"
	"tlog.app/go/loc"

	"github.com/slowlang/pyrs/compiler/ast"
)

type (
	// Node is what a name refers to.
	Node interface {
		node()
	}

	FunctionDef struct {
		Def ast.FunctionDef
	}

	Variable struct {
		Name       string
		Annotation ast.Expr
	}

	Param struct {
		Param ast.Param
	}

	ScopeKind uint8

	// Table is a scope chain with value semantics.
	// Insert, Push and Pop return a new Table and never modify the receiver,
	// so a Table can be handed down a recursive translation and kept by the caller.
	Table struct {
		frames []*frame
	}

	// frame is never modified after it's reachable from a Table.
	frame struct {
		kind ScopeKind
		name string
		syms map[string]Node

		from loc.PC
	}
)

const (
	ScopeModule ScopeKind = iota
	ScopeFunction
	ScopeBlock
)

func (FunctionDef) node() {}
func (Variable) node()    {}
func (Param) node()       {}

// New creates a table with an empty module scope.
func New() Table {
	return Table{
		frames: []*frame{{
			kind: ScopeModule,
			from: loc.Caller(1),
		}},
	}
}

// Insert binds name to n in the innermost scope.
// An existing binding of the same scope is overwritten.
func (t Table) Insert(name string, n Node) Table {
	t = t.init()

	last := len(t.frames) - 1
	f := t.frames[last]

	syms := make(map[string]Node, len(f.syms)+1)
	for k, v := range f.syms {
		syms[k] = v
	}

	syms[name] = n

	frames := make([]*frame, len(t.frames))
	copy(frames, t.frames)

	frames[last] = &frame{
		kind: f.kind,
		name: f.name,
		syms: syms,
		from: f.from,
	}

	return Table{frames: frames}
}

// Lookup walks the scope chain from the innermost scope outwards.
func (t Table) Lookup(name string) (Node, bool) {
	for i := len(t.frames) - 1; i >= 0; i-- {
		if n, ok := t.frames[i].syms[name]; ok {
			return n, true
		}
	}

	return nil, false
}

// LookupLocal checks the innermost scope only.
func (t Table) LookupLocal(name string) (Node, bool) {
	if len(t.frames) == 0 {
		return nil, false
	}

	n, ok := t.frames[len(t.frames)-1].syms[name]

	return n, ok
}

func (t Table) Push(kind ScopeKind, name string) Table {
	t = t.init()

	frames := make([]*frame, len(t.frames), len(t.frames)+1)
	copy(frames, t.frames)

	frames = append(frames, &frame{
		kind: kind,
		name: name,
		from: loc.Caller(1),
	})

	return Table{frames: frames}
}

// Pop drops the innermost scope. The module scope is never dropped.
func (t Table) Pop() Table {
	if len(t.frames) <= 1 {
		return t
	}

	return Table{frames: t.frames[:len(t.frames)-1:len(t.frames)-1]}
}

// Depth is the number of scopes in the chain.
func (t Table) Depth() int {
	return len(t.frames)
}

// Scope returns the kind and name of the innermost scope.
func (t Table) Scope() (ScopeKind, string) {
	if len(t.frames) == 0 {
		return ScopeModule, ""
	}

	f := t.frames[len(t.frames)-1]

	return f.kind, f.name
}

// Names lists the innermost scope names sorted.
func (t Table) Names() []string {
	if len(t.frames) == 0 {
		return nil
	}

	syms := t.frames[len(t.frames)-1].syms

	l := make([]string, 0, len(syms))
	for k := range syms {
		l = append(l, k)
	}

	sort.Strings(l)

	return l
}

// Dump writes all scopes outermost first.
func (t Table) Dump(w io.Writer) error {
	var b []byte

	for d, f := range t.frames {
		b = indent(b, 2*d)
		b = hfmt.Appendf(b, "scope %v %q  (created at %v)\n", f.kind, f.name, f.from)

		names := make([]string, 0, len(f.syms))
		for k := range f.syms {
			names = append(names, k)
		}

		sort.Strings(names)

		for _, name := range names {
			b = indent(b, 2*d+2)
			b = hfmt.Appendf(b, "%-20s %v\n", name, Describe(f.syms[name]))
		}
	}

	_, err := w.Write(b)

	return err
}

// Describe is a short human readable form of a node.
func Describe(n Node) string {
	switch n := n.(type) {
	case FunctionDef:
		return "func " + ast.Dump(n.Def.Args)
	case Variable:
		if n.Annotation != nil {
			return "var " + ast.Dump(n.Annotation)
		}

		return "var"
	case Param:
		return "param " + n.Param.Kind.String()
	default:
		return "unknown"
	}
}

func indent(b []byte, n int) []byte {
	for i := 0; i < n; i++ {
		b = append(b, ' ')
	}

	return b
}

func (t Table) init() Table {
	if len(t.frames) != 0 {
		return t
	}

	return Table{frames: []*frame{{kind: ScopeModule}}}
}

func (k ScopeKind) String() string {
	switch k {
	case ScopeModule:
		return "module"
	case ScopeFunction:
		return "function"
	case ScopeBlock:
		return "block"
	default:
		return "invalid"
	}
}
