package ast

import (
	"fmt"

	"gopkg.in/yaml.v3"
	"tlog.app/go/errors"
)

type (
	decoder struct{}

	object struct {
		Type string

		n      *yaml.Node
		fields map[string]*yaml.Node
	}

	UnknownNodeError struct {
		Type string
		Line int
	}
)

// TypeKey is the discriminator key of serialized nodes.
const TypeKey = "_type"

// Decode reads a module serialized as JSON or YAML in the layout
// produced by python's ast module converted to plain objects:
//
//	{"_type": "Module", "body": [{"_type": "FunctionDef", "name": "f", ...}]}
//
// A single statement or a list of statements at the top level is accepted too.
func Decode(data []byte) (*Module, error) {
	var root yaml.Node

	err := yaml.Unmarshal(data, &root)
	if err != nil {
		return nil, errors.Wrap(err, "unmarshal")
	}

	n := &root
	if n.Kind == yaml.DocumentNode {
		if len(n.Content) == 0 {
			return nil, errors.New("empty document")
		}

		n = n.Content[0]
	}

	var d decoder

	if n.Kind == yaml.SequenceNode {
		body, err := d.stmts(n)
		if err != nil {
			return nil, err
		}

		return &Module{Body: body}, nil
	}

	o, err := d.object(n)
	if err != nil {
		return nil, err
	}

	if o.Type != "Module" {
		s, err := d.stmt(n)
		if err != nil {
			return nil, err
		}

		return &Module{Body: []Stmt{s}}, nil
	}

	body, err := d.stmts(o.fields["body"])
	if err != nil {
		return nil, errors.Wrap(err, "module body")
	}

	return &Module{Body: body}, nil
}

func (d decoder) object(n *yaml.Node) (o object, err error) {
	if n.Kind != yaml.MappingNode {
		return o, errors.New("line %d: object expected, got %v", n.Line, kindName(n.Kind))
	}

	o.n = n
	o.fields = make(map[string]*yaml.Node, len(n.Content)/2)

	for i := 0; i+1 < len(n.Content); i += 2 {
		o.fields[n.Content[i].Value] = n.Content[i+1]
	}

	t, ok := o.fields[TypeKey]
	if !ok {
		return o, errors.New("line %d: no %v key", n.Line, TypeKey)
	}

	o.Type = t.Value

	return o, nil
}

func (d decoder) stmts(n *yaml.Node) (l []Stmt, err error) {
	if isNull(n) {
		return nil, nil
	}

	if n.Kind != yaml.SequenceNode {
		return nil, errors.New("line %d: statement list expected, got %v", n.Line, kindName(n.Kind))
	}

	for i, x := range n.Content {
		s, err := d.stmt(x)
		if err != nil {
			return nil, errors.Wrap(err, "stmt %d", i)
		}

		l = append(l, s)
	}

	return l, nil
}

func (d decoder) stmt(n *yaml.Node) (_ Stmt, err error) {
	o, err := d.object(n)
	if err != nil {
		return nil, err
	}

	switch o.Type {
	case "FunctionDef":
		return d.funcDef(o)
	case "AsyncFunctionDef":
		f, err := d.funcDef(o)
		if err != nil {
			return nil, err
		}

		return AsyncFunctionDef{FunctionDef: f}, nil
	case "Expr":
		v, err := d.expr(o.fields["value"])
		if err != nil {
			return nil, errors.Wrap(err, "expr value")
		}

		return ExprStmt{Value: v}, nil
	case "Assign":
		var s Assign

		s.Targets, err = d.exprs(o.fields["targets"])
		if err != nil {
			return nil, errors.Wrap(err, "assign targets")
		}

		s.Value, err = d.expr(o.fields["value"])
		if err != nil {
			return nil, errors.Wrap(err, "assign value")
		}

		return s, nil
	case "AugAssign":
		var s AugAssign

		s.Target, err = d.expr(o.fields["target"])
		if err != nil {
			return nil, errors.Wrap(err, "augassign target")
		}

		s.Op, err = d.op(o.fields["op"])
		if err != nil {
			return nil, errors.Wrap(err, "augassign op")
		}

		s.Value, err = d.expr(o.fields["value"])
		if err != nil {
			return nil, errors.Wrap(err, "augassign value")
		}

		return s, nil
	case "AnnAssign":
		var s AnnAssign

		s.Target, err = d.expr(o.fields["target"])
		if err != nil {
			return nil, errors.Wrap(err, "annassign target")
		}

		s.Annotation, err = d.expr(o.fields["annotation"])
		if err != nil {
			return nil, errors.Wrap(err, "annassign annotation")
		}

		s.Value, err = d.optExpr(o.fields["value"])
		if err != nil {
			return nil, errors.Wrap(err, "annassign value")
		}

		return s, nil
	case "Return":
		v, err := d.optExpr(o.fields["value"])
		if err != nil {
			return nil, errors.Wrap(err, "return value")
		}

		return Return{Value: v}, nil
	case "If":
		var s If

		s.Test, s.Body, s.Orelse, err = d.cond(o)
		if err != nil {
			return nil, errors.Wrap(err, "if")
		}

		return s, nil
	case "While":
		var s While

		s.Test, s.Body, s.Orelse, err = d.cond(o)
		if err != nil {
			return nil, errors.Wrap(err, "while")
		}

		return s, nil
	case "For":
		var s For

		s.Target, err = d.expr(o.fields["target"])
		if err != nil {
			return nil, errors.Wrap(err, "for target")
		}

		s.Iter, err = d.expr(o.fields["iter"])
		if err != nil {
			return nil, errors.Wrap(err, "for iter")
		}

		s.Body, err = d.stmts(o.fields["body"])
		if err != nil {
			return nil, errors.Wrap(err, "for body")
		}

		s.Orelse, err = d.stmts(o.fields["orelse"])
		if err != nil {
			return nil, errors.Wrap(err, "for orelse")
		}

		return s, nil
	case "Pass":
		return Pass{}, nil
	case "Break":
		return Break{}, nil
	case "Continue":
		return Continue{}, nil
	case "Raise":
		v, err := d.optExpr(o.fields["exc"])
		if err != nil {
			return nil, errors.Wrap(err, "raise exc")
		}

		return Raise{Exc: v}, nil
	case "Assert":
		var s Assert

		s.Test, err = d.expr(o.fields["test"])
		if err != nil {
			return nil, errors.Wrap(err, "assert test")
		}

		s.Msg, err = d.optExpr(o.fields["msg"])
		if err != nil {
			return nil, errors.Wrap(err, "assert msg")
		}

		return s, nil
	case "ClassDef":
		var s ClassDef

		s.Name = d.str(o, "name")

		s.Body, err = d.stmts(o.fields["body"])
		if err != nil {
			return nil, errors.Wrap(err, "class %v body", s.Name)
		}

		return s, nil
	case "Import":
		l, err := d.aliases(o.fields["names"])
		if err != nil {
			return nil, errors.Wrap(err, "import")
		}

		return Import{Names: l}, nil
	case "ImportFrom":
		l, err := d.aliases(o.fields["names"])
		if err != nil {
			return nil, errors.Wrap(err, "import from")
		}

		return ImportFrom{Module: d.str(o, "module"), Names: l}, nil
	case "Global":
		l, err := d.strs(o.fields["names"])
		if err != nil {
			return nil, errors.Wrap(err, "global")
		}

		return Global{Names: l}, nil
	case "Nonlocal":
		l, err := d.strs(o.fields["names"])
		if err != nil {
			return nil, errors.Wrap(err, "nonlocal")
		}

		return Nonlocal{Names: l}, nil
	case "Delete":
		l, err := d.exprs(o.fields["targets"])
		if err != nil {
			return nil, errors.Wrap(err, "delete")
		}

		return Delete{Targets: l}, nil
	case "Try", "TryStar":
		var s Try

		s.Body, err = d.stmts(o.fields["body"])
		if err != nil {
			return nil, errors.Wrap(err, "try body")
		}

		s.Orelse, err = d.stmts(o.fields["orelse"])
		if err != nil {
			return nil, errors.Wrap(err, "try orelse")
		}

		s.Finalbody, err = d.stmts(o.fields["finalbody"])
		if err != nil {
			return nil, errors.Wrap(err, "try finalbody")
		}

		return s, nil
	case "With", "AsyncWith":
		var s With

		if items := o.fields["items"]; !isNull(items) {
			for _, it := range items.Content {
				io, err := d.object(it)
				if err != nil {
					return nil, errors.Wrap(err, "with item")
				}

				e, err := d.expr(io.fields["context_expr"])
				if err != nil {
					return nil, errors.Wrap(err, "with item")
				}

				s.Items = append(s.Items, e)
			}
		}

		s.Body, err = d.stmts(o.fields["body"])
		if err != nil {
			return nil, errors.Wrap(err, "with body")
		}

		return s, nil
	default:
		return nil, UnknownNodeError{Type: o.Type, Line: n.Line}
	}
}

func (d decoder) funcDef(o object) (f FunctionDef, err error) {
	f.Name = d.str(o, "name")

	if a := o.fields["args"]; !isNull(a) {
		f.Args, err = d.arguments(a)
		if err != nil {
			return f, errors.Wrap(err, "def %v: args", f.Name)
		}
	}

	f.Body, err = d.stmts(o.fields["body"])
	if err != nil {
		return f, errors.Wrap(err, "def %v: body", f.Name)
	}

	decs, err := d.exprs(o.fields["decorator_list"])
	if err != nil {
		return f, errors.Wrap(err, "def %v: decorators", f.Name)
	}

	for _, x := range decs {
		f.Decorators = append(f.Decorators, decoratorName(x))
	}

	f.Returns, err = d.optExpr(o.fields["returns"])
	if err != nil {
		return f, errors.Wrap(err, "def %v: returns", f.Name)
	}

	return f, nil
}

// arguments flattens python's arguments object into the parameter order
// of the signature. Defaults are aligned to the tail of positional parameters.
func (d decoder) arguments(n *yaml.Node) (a Arguments, err error) {
	o, err := d.object(n)
	if err != nil {
		return a, err
	}

	add := func(key string, kind ParamKind) error {
		x := o.fields[key]
		if isNull(x) {
			return nil
		}

		if x.Kind == yaml.MappingNode {
			p, err := d.param(x, kind)
			if err != nil {
				return errors.Wrap(err, "%v", key)
			}

			a.Params = append(a.Params, p)

			return nil
		}

		for i, pn := range x.Content {
			p, err := d.param(pn, kind)
			if err != nil {
				return errors.Wrap(err, "%v %d", key, i)
			}

			a.Params = append(a.Params, p)
		}

		return nil
	}

	err = add("posonlyargs", ParamPosOnly)
	if err != nil {
		return a, err
	}

	err = add("args", ParamPositional)
	if err != nil {
		return a, err
	}

	defs, err := d.exprs(o.fields["defaults"])
	if err != nil {
		return a, errors.Wrap(err, "defaults")
	}

	if len(defs) > len(a.Params) {
		return a, errors.New("%d defaults for %d parameters", len(defs), len(a.Params))
	}

	for i, x := range defs {
		a.Params[len(a.Params)-len(defs)+i].Default = x
	}

	err = add("vararg", ParamVarArgs)
	if err != nil {
		return a, err
	}

	kwst := len(a.Params)

	err = add("kwonlyargs", ParamKwOnly)
	if err != nil {
		return a, err
	}

	if kw := o.fields["kw_defaults"]; !isNull(kw) {
		for i, x := range kw.Content {
			if kwst+i >= len(a.Params) {
				return a, errors.New("too many kw_defaults")
			}

			a.Params[kwst+i].Default, err = d.optExpr(x)
			if err != nil {
				return a, errors.Wrap(err, "kw_defaults %d", i)
			}
		}
	}

	err = add("kwarg", ParamKwArgs)
	if err != nil {
		return a, err
	}

	return a, nil
}

func (d decoder) param(n *yaml.Node, kind ParamKind) (p Param, err error) {
	o, err := d.object(n)
	if err != nil {
		return p, err
	}

	p.Name = d.str(o, "arg")
	p.Kind = kind

	p.Annotation, err = d.optExpr(o.fields["annotation"])
	if err != nil {
		return p, errors.Wrap(err, "%v: annotation", p.Name)
	}

	return p, nil
}

func (d decoder) cond(o object) (test Expr, body, orelse []Stmt, err error) {
	test, err = d.expr(o.fields["test"])
	if err != nil {
		return nil, nil, nil, errors.Wrap(err, "test")
	}

	body, err = d.stmts(o.fields["body"])
	if err != nil {
		return nil, nil, nil, errors.Wrap(err, "body")
	}

	orelse, err = d.stmts(o.fields["orelse"])
	if err != nil {
		return nil, nil, nil, errors.Wrap(err, "orelse")
	}

	return
}

func (d decoder) optExpr(n *yaml.Node) (Expr, error) {
	if isNull(n) {
		return nil, nil
	}

	return d.expr(n)
}

func (d decoder) exprs(n *yaml.Node) (l []Expr, err error) {
	if isNull(n) {
		return nil, nil
	}

	if n.Kind != yaml.SequenceNode {
		return nil, errors.New("line %d: expression list expected, got %v", n.Line, kindName(n.Kind))
	}

	for i, x := range n.Content {
		e, err := d.optExpr(x)
		if err != nil {
			return nil, errors.Wrap(err, "expr %d", i)
		}

		l = append(l, e)
	}

	return l, nil
}

func (d decoder) expr(n *yaml.Node) (_ Expr, err error) {
	if isNull(n) {
		return nil, errors.New("expression expected")
	}

	o, err := d.object(n)
	if err != nil {
		return nil, err
	}

	switch o.Type {
	case "Constant":
		return d.constant(o.fields["value"])
	case "Name":
		return Name{ID: d.str(o, "id")}, nil
	case "BinOp":
		var x BinOp

		x.Left, err = d.expr(o.fields["left"])
		if err != nil {
			return nil, errors.Wrap(err, "binop left")
		}

		x.Op, err = d.op(o.fields["op"])
		if err != nil {
			return nil, errors.Wrap(err, "binop op")
		}

		x.Right, err = d.expr(o.fields["right"])
		if err != nil {
			return nil, errors.Wrap(err, "binop right")
		}

		return x, nil
	case "UnaryOp":
		var x UnaryOp

		x.Op, err = d.op(o.fields["op"])
		if err != nil {
			return nil, errors.Wrap(err, "unaryop op")
		}

		x.Operand, err = d.expr(o.fields["operand"])
		if err != nil {
			return nil, errors.Wrap(err, "unaryop operand")
		}

		return x, nil
	case "BoolOp":
		var x BoolOp

		x.Op, err = d.op(o.fields["op"])
		if err != nil {
			return nil, errors.Wrap(err, "boolop op")
		}

		x.Values, err = d.exprs(o.fields["values"])
		if err != nil {
			return nil, errors.Wrap(err, "boolop values")
		}

		return x, nil
	case "Compare":
		var x Compare

		x.Left, err = d.expr(o.fields["left"])
		if err != nil {
			return nil, errors.Wrap(err, "compare left")
		}

		if ops := o.fields["ops"]; !isNull(ops) {
			for _, n := range ops.Content {
				op, err := d.op(n)
				if err != nil {
					return nil, errors.Wrap(err, "compare op")
				}

				x.Ops = append(x.Ops, op)
			}
		}

		x.Comparators, err = d.exprs(o.fields["comparators"])
		if err != nil {
			return nil, errors.Wrap(err, "compare comparators")
		}

		if len(x.Ops) != len(x.Comparators) {
			return nil, errors.New("line %d: %d compare ops for %d comparators", n.Line, len(x.Ops), len(x.Comparators))
		}

		return x, nil
	case "Call":
		var x Call

		x.Func, err = d.expr(o.fields["func"])
		if err != nil {
			return nil, errors.Wrap(err, "call func")
		}

		x.Args, err = d.exprs(o.fields["args"])
		if err != nil {
			return nil, errors.Wrap(err, "call args")
		}

		if kws := o.fields["keywords"]; !isNull(kws) {
			for _, n := range kws.Content {
				ko, err := d.object(n)
				if err != nil {
					return nil, errors.Wrap(err, "call keyword")
				}

				v, err := d.expr(ko.fields["value"])
				if err != nil {
					return nil, errors.Wrap(err, "call keyword")
				}

				x.Keywords = append(x.Keywords, Keyword{Arg: d.str(ko, "arg"), Value: v})
			}
		}

		return x, nil
	case "Attribute":
		v, err := d.expr(o.fields["value"])
		if err != nil {
			return nil, errors.Wrap(err, "attribute value")
		}

		return Attribute{Value: v, Attr: d.str(o, "attr")}, nil
	case "Subscript":
		var x Subscript

		x.Value, err = d.expr(o.fields["value"])
		if err != nil {
			return nil, errors.Wrap(err, "subscript value")
		}

		x.Slice, err = d.expr(o.fields["slice"])
		if err != nil {
			return nil, errors.Wrap(err, "subscript slice")
		}

		return x, nil
	case "Index": // python < 3.9 wraps subscript slices
		return d.expr(o.fields["value"])
	case "List":
		l, err := d.exprs(o.fields["elts"])
		if err != nil {
			return nil, errors.Wrap(err, "list")
		}

		return List{Elts: l}, nil
	case "Tuple":
		l, err := d.exprs(o.fields["elts"])
		if err != nil {
			return nil, errors.Wrap(err, "tuple")
		}

		return Tuple{Elts: l}, nil
	case "Await":
		v, err := d.expr(o.fields["value"])
		if err != nil {
			return nil, errors.Wrap(err, "await")
		}

		return Await{Value: v}, nil
	case "Lambda":
		var x Lambda

		if a := o.fields["args"]; !isNull(a) {
			x.Args, err = d.arguments(a)
			if err != nil {
				return nil, errors.Wrap(err, "lambda args")
			}
		}

		x.Body, err = d.expr(o.fields["body"])
		if err != nil {
			return nil, errors.Wrap(err, "lambda body")
		}

		return x, nil
	case "Dict":
		var x Dict

		x.Keys, err = d.exprs(o.fields["keys"])
		if err != nil {
			return nil, errors.Wrap(err, "dict keys")
		}

		x.Values, err = d.exprs(o.fields["values"])
		if err != nil {
			return nil, errors.Wrap(err, "dict values")
		}

		return x, nil
	case "JoinedStr":
		l, err := d.exprs(o.fields["values"])
		if err != nil {
			return nil, errors.Wrap(err, "joinedstr")
		}

		return JoinedStr{Values: l}, nil
	default:
		return nil, UnknownNodeError{Type: o.Type, Line: n.Line}
	}
}

func (d decoder) constant(n *yaml.Node) (c Constant, err error) {
	if n == nil {
		return Constant{Kind: ConstNone}, nil
	}

	if n.Kind != yaml.ScalarNode {
		return c, errors.New("line %d: constant scalar expected, got %v", n.Line, kindName(n.Kind))
	}

	switch n.ShortTag() {
	case "!!null":
		c.Kind = ConstNone
	case "!!bool":
		var v bool

		err = n.Decode(&v)
		if err != nil {
			return c, errors.Wrap(err, "bool constant")
		}

		c.Kind = ConstBool
		c.Value = "False"

		if v {
			c.Value = "True"
		}
	case "!!int":
		c.Kind = ConstInt
		c.Value = n.Value
	case "!!float":
		c.Kind = ConstFloat
		c.Value = n.Value
	default:
		c.Kind = ConstStr
		c.Value = n.Value
	}

	return c, nil
}

func (d decoder) op(n *yaml.Node) (Op, error) {
	if isNull(n) {
		return "", errors.New("operator expected")
	}

	if n.Kind == yaml.ScalarNode {
		return Op(n.Value), nil
	}

	o, err := d.object(n)
	if err != nil {
		return "", err
	}

	return Op(o.Type), nil
}

func (d decoder) aliases(n *yaml.Node) (l []Alias, err error) {
	if isNull(n) {
		return nil, nil
	}

	for _, x := range n.Content {
		o, err := d.object(x)
		if err != nil {
			return nil, err
		}

		l = append(l, Alias{Name: d.str(o, "name"), AsName: d.str(o, "asname")})
	}

	return l, nil
}

func (d decoder) strs(n *yaml.Node) (l []string, err error) {
	if isNull(n) {
		return nil, nil
	}

	err = n.Decode(&l)
	if err != nil {
		return nil, errors.Wrap(err, "line %d", n.Line)
	}

	return l, nil
}

func (d decoder) str(o object, key string) string {
	n := o.fields[key]
	if isNull(n) {
		return ""
	}

	return n.Value
}

func decoratorName(x Expr) string {
	switch x := x.(type) {
	case Name:
		return x.ID
	case Attribute:
		return decoratorName(x.Value) + "." + x.Attr
	case Call:
		return decoratorName(x.Func)
	default:
		return Dump(x)
	}
}

func isNull(n *yaml.Node) bool {
	return n == nil || n.Kind == yaml.ScalarNode && n.ShortTag() == "!!null"
}

func kindName(k yaml.Kind) string {
	switch k {
	case yaml.DocumentNode:
		return "document"
	case yaml.SequenceNode:
		return "list"
	case yaml.MappingNode:
		return "object"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	default:
		return "unknown"
	}
}

func (e UnknownNodeError) Error() string {
	return fmt.Sprintf("line %d: unknown node type: %v", e.Line, e.Type)
}
