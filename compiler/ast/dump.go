package ast

import (
	"github.com/nikandfor/hacked/hfmt"
)

type (
	dumper struct {
		b []byte

		fields int
	}
)

// Dump describes a node the way python's ast.dump does.
// It's used for diagnostics.
func Dump(x Node) string {
	return string(AppendDump(nil, x))
}

func AppendDump(b []byte, x Node) []byte {
	d := dumper{b: b}
	d.node(x)

	return d.b
}

func (d *dumper) node(x Node) {
	switch x := x.(type) {
	case nil:
		d.b = append(d.b, "None"...)
	case *Module:
		d.open("Module")
		d.stmts("body", x.Body, true)
		d.close()
	case Module:
		d.node(&x)
	case FunctionDef:
		d.funcDef("FunctionDef", x)
	case AsyncFunctionDef:
		d.funcDef("AsyncFunctionDef", x.FunctionDef)
	case Arguments:
		d.arguments(x)
	case ExprStmt:
		d.open("Expr")
		d.expr("value", x.Value)
		d.close()
	case Assign:
		d.open("Assign")
		d.exprs("targets", x.Targets, true)
		d.expr("value", x.Value)
		d.close()
	case AugAssign:
		d.open("AugAssign")
		d.expr("target", x.Target)
		d.op("op", x.Op)
		d.expr("value", x.Value)
		d.close()
	case AnnAssign:
		d.open("AnnAssign")
		d.expr("target", x.Target)
		d.expr("annotation", x.Annotation)
		d.expr("value", x.Value)
		d.close()
	case Return:
		d.open("Return")
		d.expr("value", x.Value)
		d.close()
	case If:
		d.cond("If", x.Test, x.Body, x.Orelse)
	case While:
		d.cond("While", x.Test, x.Body, x.Orelse)
	case For:
		d.open("For")
		d.expr("target", x.Target)
		d.expr("iter", x.Iter)
		d.stmts("body", x.Body, true)
		d.stmts("orelse", x.Orelse, false)
		d.close()
	case Pass:
		d.b = append(d.b, "Pass()"...)
	case Break:
		d.b = append(d.b, "Break()"...)
	case Continue:
		d.b = append(d.b, "Continue()"...)
	case Raise:
		d.open("Raise")
		d.expr("exc", x.Exc)
		d.close()
	case Assert:
		d.open("Assert")
		d.expr("test", x.Test)
		d.expr("msg", x.Msg)
		d.close()
	case ClassDef:
		d.open("ClassDef")
		d.str("name", x.Name)
		d.stmts("body", x.Body, true)
		d.close()
	case Import:
		d.open("Import")
		d.aliases(x.Names)
		d.close()
	case ImportFrom:
		d.open("ImportFrom")
		d.str("module", x.Module)
		d.aliases(x.Names)
		d.close()
	case Global:
		d.open("Global")
		d.strs("names", x.Names)
		d.close()
	case Nonlocal:
		d.open("Nonlocal")
		d.strs("names", x.Names)
		d.close()
	case Delete:
		d.open("Delete")
		d.exprs("targets", x.Targets, true)
		d.close()
	case Try:
		d.open("Try")
		d.stmts("body", x.Body, true)
		d.stmts("orelse", x.Orelse, false)
		d.stmts("finalbody", x.Finalbody, false)
		d.close()
	case With:
		d.open("With")
		d.exprs("items", x.Items, true)
		d.stmts("body", x.Body, true)
		d.close()

	case Constant:
		d.open("Constant")
		d.field("value")
		d.constant(x)
		d.close()
	case Name:
		d.open("Name")
		d.str("id", x.ID)
		d.close()
	case BinOp:
		d.open("BinOp")
		d.expr("left", x.Left)
		d.op("op", x.Op)
		d.expr("right", x.Right)
		d.close()
	case UnaryOp:
		d.open("UnaryOp")
		d.op("op", x.Op)
		d.expr("operand", x.Operand)
		d.close()
	case BoolOp:
		d.open("BoolOp")
		d.op("op", x.Op)
		d.exprs("values", x.Values, true)
		d.close()
	case Compare:
		d.open("Compare")
		d.expr("left", x.Left)
		d.field("ops")
		d.b = append(d.b, '[')
		for i, op := range x.Ops {
			if i != 0 {
				d.b = append(d.b, ", "...)
			}

			d.b = hfmt.Appendf(d.b, "%s()", op)
		}
		d.b = append(d.b, ']')
		d.exprs("comparators", x.Comparators, true)
		d.close()
	case Call:
		d.open("Call")
		d.expr("func", x.Func)
		d.exprs("args", x.Args, true)
		if len(x.Keywords) != 0 {
			d.field("keywords")
			d.b = append(d.b, '[')
			for i, k := range x.Keywords {
				if i != 0 {
					d.b = append(d.b, ", "...)
				}

				d.b = hfmt.Appendf(d.b, "keyword(arg=%s, value=", quote(k.Arg))
				d.node(k.Value)
				d.b = append(d.b, ')')
			}
			d.b = append(d.b, ']')
		}
		d.close()
	case Attribute:
		d.open("Attribute")
		d.expr("value", x.Value)
		d.str("attr", x.Attr)
		d.close()
	case Subscript:
		d.open("Subscript")
		d.expr("value", x.Value)
		d.expr("slice", x.Slice)
		d.close()
	case List:
		d.open("List")
		d.exprs("elts", x.Elts, true)
		d.close()
	case Tuple:
		d.open("Tuple")
		d.exprs("elts", x.Elts, true)
		d.close()
	case Await:
		d.open("Await")
		d.expr("value", x.Value)
		d.close()
	case Lambda:
		d.open("Lambda")
		d.field("args")
		d.arguments(x.Args)
		d.expr("body", x.Body)
		d.close()
	case Dict:
		d.open("Dict")
		d.exprs("keys", x.Keys, true)
		d.exprs("values", x.Values, true)
		d.close()
	case JoinedStr:
		d.open("JoinedStr")
		d.exprs("values", x.Values, true)
		d.close()
	default:
		d.b = hfmt.Appendf(d.b, "%T(%+v)", x, x)
	}
}

func (d *dumper) funcDef(tp string, x FunctionDef) {
	d.open(tp)
	d.str("name", x.Name)
	d.field("args")
	d.arguments(x.Args)
	d.stmts("body", x.Body, true)
	d.strs("decorator_list", x.Decorators)
	d.expr("returns", x.Returns)
	d.close()
}

func (d *dumper) arguments(x Arguments) {
	d.b = append(d.b, "arguments("...)

	for i, p := range x.Params {
		if i != 0 {
			d.b = append(d.b, ", "...)
		}

		d.b = hfmt.Appendf(d.b, "arg(arg=%s", quote(p.Name))

		if p.Kind != ParamPositional {
			d.b = hfmt.Appendf(d.b, ", kind=%v", p.Kind)
		}

		if p.Annotation != nil {
			d.b = append(d.b, ", annotation="...)
			d.node(p.Annotation)
		}

		if p.Default != nil {
			d.b = append(d.b, ", default="...)
			d.node(p.Default)
		}

		d.b = append(d.b, ')')
	}

	d.b = append(d.b, ')')
}

func (d *dumper) cond(tp string, test Expr, body, orelse []Stmt) {
	d.open(tp)
	d.expr("test", test)
	d.stmts("body", body, true)
	d.stmts("orelse", orelse, false)
	d.close()
}

func (d *dumper) constant(c Constant) {
	switch c.Kind {
	case ConstStr:
		d.b = append(d.b, quote(c.Value)...)
	default:
		d.b = append(d.b, c.String()...)
	}
}

func (d *dumper) open(name string) {
	d.b = append(d.b, name...)
	d.b = append(d.b, '(')
	d.fields = 0
}

func (d *dumper) close() {
	d.b = append(d.b, ')')
	d.fields = 1
}

func (d *dumper) field(name string) {
	if d.fields != 0 {
		d.b = append(d.b, ", "...)
	}

	d.b = append(d.b, name...)
	d.b = append(d.b, '=')
	d.fields++
}

func (d *dumper) expr(name string, x Expr) {
	if x == nil {
		return
	}

	d.field(name)
	d.node(x)
}

func (d *dumper) exprs(name string, l []Expr, always bool) {
	if len(l) == 0 && !always {
		return
	}

	d.field(name)
	d.b = append(d.b, '[')

	for i, x := range l {
		if i != 0 {
			d.b = append(d.b, ", "...)
		}

		d.node(x)
	}

	d.b = append(d.b, ']')
}

func (d *dumper) stmts(name string, l []Stmt, always bool) {
	if len(l) == 0 && !always {
		return
	}

	d.field(name)
	d.b = append(d.b, '[')

	for i, x := range l {
		if i != 0 {
			d.b = append(d.b, ", "...)
		}

		d.node(x)
	}

	d.b = append(d.b, ']')
}

func (d *dumper) op(name string, op Op) {
	d.field(name)
	d.b = hfmt.Appendf(d.b, "%s()", op)
}

func (d *dumper) str(name, v string) {
	d.field(name)
	d.b = append(d.b, quote(v)...)
}

func (d *dumper) strs(name string, l []string) {
	d.field(name)
	d.b = append(d.b, '[')

	for i, s := range l {
		if i != 0 {
			d.b = append(d.b, ", "...)
		}

		d.b = append(d.b, quote(s)...)
	}

	d.b = append(d.b, ']')
}

func (d *dumper) aliases(l []Alias) {
	d.field("names")
	d.b = append(d.b, '[')

	for i, a := range l {
		if i != 0 {
			d.b = append(d.b, ", "...)
		}

		d.b = hfmt.Appendf(d.b, "alias(name=%s", quote(a.Name))
		if a.AsName != "" {
			d.b = hfmt.Appendf(d.b, ", asname=%s", quote(a.AsName))
		}
		d.b = append(d.b, ')')
	}

	d.b = append(d.b, ']')
}

// quote is python repr of a str.
func quote(s string) string {
	b := make([]byte, 0, len(s)+2)
	b = append(b, '\'')

	for _, r := range s {
		switch r {
		case '\\', '\'':
			b = append(b, '\\', byte(r))
		case '\n':
			b = append(b, `\n`...)
		case '\t':
			b = append(b, `\t`...)
		case '\r':
			b = append(b, `\r`...)
		default:
			b = append(b, string(r)...)
		}
	}

	b = append(b, '\'')

	return string(b)
}
