package back

import (
	"context"
	"strings"

	"tlog.app/go/errors"

	"github.com/slowlang/pyrs/compiler/ast"
	"github.com/slowlang/pyrs/compiler/rs"
	"github.com/slowlang/pyrs/compiler/symbols"
)

var binOps = map[ast.Op]string{
	ast.Add:    "+",
	ast.Sub:    "-",
	ast.Mult:   "*",
	ast.Div:    "/",
	ast.Mod:    "%",
	ast.LShift: "<<",
	ast.RShift: ">>",
	ast.BitOr:  "|",
	ast.BitXor: "^",
	ast.BitAnd: "&",
}

// binMethods are operators without a rust infix counterpart.
var binMethods = map[ast.Op]string{
	ast.Pow:      "pow",
	ast.FloorDiv: "div_euclid",
}

var cmpOps = map[ast.Op]string{
	ast.Eq:    "==",
	ast.NotEq: "!=",
	ast.Lt:    "<",
	ast.LtE:   "<=",
	ast.Gt:    ">",
	ast.GtE:   ">=",
	ast.Is:    "==",
	ast.IsNot: "!=",
}

// TranslateExpr renders an expression.
func TranslateExpr(ctx context.Context, x ast.Expr, cx Context, opts Options, syms symbols.Table) (s rs.Stream, err error) {
	switch x := x.(type) {
	case ast.Constant:
		return constant(s, x), nil
	case ast.Name:
		switch x.ID {
		case "True", "False", "None":
			return constant(s, nameConstant(x.ID)), nil
		}

		return s.Ident(x.ID), nil
	case ast.BinOp:
		return binOp(ctx, x, cx, opts, syms)
	case ast.UnaryOp:
		return unaryOp(ctx, x, cx, opts, syms)
	case ast.BoolOp:
		op := "&&"
		if x.Op == ast.Or {
			op = "||"
		} else if x.Op != ast.And {
			return nil, NewUnsupported(x, "bool operator "+string(x.Op))
		}

		for i, v := range x.Values {
			if i != 0 {
				s = s.Punct(op)
			}

			s, err = operand(ctx, s, v, cx, opts, syms)
			if err != nil {
				return nil, errors.Wrap(err, "value %d", i)
			}
		}

		return s, nil
	case ast.Compare:
		return compare(ctx, x, cx, opts, syms)
	case ast.Call:
		return call(ctx, x, cx, opts, syms)
	case ast.Attribute:
		s, err = operand(ctx, s, x.Value, cx, opts, syms)
		if err != nil {
			return nil, errors.Wrap(err, "attribute value")
		}

		s = s.Join().Punct(".").Join()

		return s.Ident(x.Attr), nil
	case ast.Subscript:
		s, err = operand(ctx, s, x.Value, cx, opts, syms)
		if err != nil {
			return nil, errors.Wrap(err, "subscript value")
		}

		idx, err := TranslateExpr(ctx, x.Slice, cx, opts, syms)
		if err != nil {
			return nil, errors.Wrap(err, "subscript index")
		}

		return s.Join().Group("[", "]", idx.Join()), nil
	case ast.List:
		l, err := exprList(ctx, x.Elts, cx, opts, syms)
		if err != nil {
			return nil, errors.Wrap(err, "list")
		}

		s = s.Macro("vec")

		return s.Group("[", "]", rs.Comma(l).Join()), nil
	case ast.Tuple:
		l, err := exprList(ctx, x.Elts, cx, opts, syms)
		if err != nil {
			return nil, errors.Wrap(err, "tuple")
		}

		in := rs.Comma(l)
		if len(l) == 1 {
			in = in.Punct(",")
		}

		return s.Group("(", ")", in.Join()), nil
	case ast.Await:
		if !cx.IsAsync() {
			return nil, NewUnsupported(x, "await outside of async function")
		}

		s, err = operand(ctx, s, x.Value, cx, opts, syms)
		if err != nil {
			return nil, errors.Wrap(err, "await")
		}

		s = s.Join().Punct(".").Join()

		return s.Keyword("await"), nil
	case ast.Lambda:
		return nil, NewUnsupported(x, "lambda")
	case ast.Dict:
		return nil, NewUnsupported(x, "dict display")
	case ast.JoinedStr:
		return nil, NewUnsupported(x, "f-string")
	case nil:
		return nil, errors.New("nil expression")
	default:
		return nil, NewUnsupported(x, "expression")
	}
}

// operand renders x parenthesized unless it's atomic.
func operand(ctx context.Context, s rs.Stream, x ast.Expr, cx Context, opts Options, syms symbols.Table) (rs.Stream, error) {
	xs, err := TranslateExpr(ctx, x, cx, opts, syms)
	if err != nil {
		return nil, err
	}

	switch x.(type) {
	case ast.BinOp, ast.BoolOp, ast.Compare, ast.UnaryOp:
		return s.Group("(", ")", xs.Join()), nil
	}

	return append(s, xs...), nil
}

func exprList(ctx context.Context, l []ast.Expr, cx Context, opts Options, syms symbols.Table) (r []rs.Stream, err error) {
	r = make([]rs.Stream, len(l))

	for i, x := range l {
		r[i], err = TranslateExpr(ctx, x, cx, opts, syms)
		if err != nil {
			return nil, errors.Wrap(err, "elem %d", i)
		}
	}

	return r, nil
}

func binOp(ctx context.Context, x ast.BinOp, cx Context, opts Options, syms symbols.Table) (s rs.Stream, err error) {
	if m, ok := binMethods[x.Op]; ok {
		s, err = operand(ctx, s, x.Left, cx, opts, syms)
		if err != nil {
			return nil, errors.Wrap(err, "left")
		}

		r, err := TranslateExpr(ctx, x.Right, cx, opts, syms)
		if err != nil {
			return nil, errors.Wrap(err, "right")
		}

		s = s.Join().Punct(".").Join()
		s = s.Ident(m).Join()

		return s.Group("(", ")", r.Join()), nil
	}

	op, ok := binOps[x.Op]
	if !ok {
		return nil, NewUnsupported(x, "binary operator "+string(x.Op))
	}

	s, err = operand(ctx, s, x.Left, cx, opts, syms)
	if err != nil {
		return nil, errors.Wrap(err, "left")
	}

	s = s.Punct(op)

	s, err = operand(ctx, s, x.Right, cx, opts, syms)
	if err != nil {
		return nil, errors.Wrap(err, "right")
	}

	return s, nil
}

func unaryOp(ctx context.Context, x ast.UnaryOp, cx Context, opts Options, syms symbols.Table) (s rs.Stream, err error) {
	switch x.Op {
	case ast.Not, ast.Invert:
		s = s.Punct("!").Join()
	case ast.USub:
		s = s.Punct("-").Join()
	case ast.UAdd:
	default:
		return nil, NewUnsupported(x, "unary operator "+string(x.Op))
	}

	s, err = operand(ctx, s, x.Operand, cx, opts, syms)
	if err != nil {
		return nil, errors.Wrap(err, "operand")
	}

	return s, nil
}

// compare expands chained comparisons: a < b < c is a < b && b < c.
func compare(ctx context.Context, x ast.Compare, cx Context, opts Options, syms symbols.Table) (s rs.Stream, err error) {
	if len(x.Ops) == 0 || len(x.Ops) != len(x.Comparators) {
		return nil, NewUnsupported(x, "malformed comparison")
	}

	left := x.Left

	for i, op := range x.Ops {
		right := x.Comparators[i]

		if i != 0 {
			s = s.Punct("&&")
		}

		var c rs.Stream

		c, err = compareOne(ctx, x, left, op, right, cx, opts, syms)
		if err != nil {
			return nil, errors.Wrap(err, "comparison %d", i)
		}

		if len(x.Ops) > 1 {
			s = s.Group("(", ")", c.Join())
		} else {
			s = append(s, c...)
		}

		left = right
	}

	return s, nil
}

func compareOne(ctx context.Context, x ast.Compare, left ast.Expr, op ast.Op, right ast.Expr, cx Context, opts Options, syms symbols.Table) (s rs.Stream, err error) {
	switch op {
	case ast.In, ast.NotIn:
		if op == ast.NotIn {
			s = s.Punct("!").Join()
		}

		s, err = operand(ctx, s, right, cx, opts, syms)
		if err != nil {
			return nil, err
		}

		l, err := TranslateExpr(ctx, left, cx, opts, syms)
		if err != nil {
			return nil, err
		}

		s = s.Join().Punct(".").Join()
		s = s.Ident("contains").Join()

		arg := rs.Stream{}.Punct("&").Join()
		arg = append(arg, l...)

		return s.Group("(", ")", arg.Join()), nil
	case ast.Is, ast.IsNot:
		if isNone(right) {
			s, err = operand(ctx, s, left, cx, opts, syms)
			if err != nil {
				return nil, err
			}

			m := "is_none"
			if op == ast.IsNot {
				m = "is_some"
			}

			s = s.Join().Punct(".").Join()
			s = s.Ident(m).Join()

			return s.Group("(", ")", nil), nil
		}
	}

	o, ok := cmpOps[op]
	if !ok {
		return nil, NewUnsupported(x, "comparison operator "+string(op))
	}

	s, err = operand(ctx, s, left, cx, opts, syms)
	if err != nil {
		return nil, err
	}

	s = s.Punct(o)

	return operand(ctx, s, right, cx, opts, syms)
}

func call(ctx context.Context, x ast.Call, cx Context, opts Options, syms symbols.Table) (s rs.Stream, err error) {
	if len(x.Keywords) != 0 {
		return nil, NewUnsupported(x, "keyword arguments")
	}

	args, err := exprList(ctx, x.Args, cx, opts, syms)
	if err != nil {
		return nil, errors.Wrap(err, "call args")
	}

	if n, ok := x.Func.(ast.Name); ok && !isUserFunc(n.ID, syms) {
		switch {
		case n.ID == "print":
			s = s.Macro("println")

			if len(args) == 0 {
				return s.Group("(", ")", nil), nil
			}

			f := strings.TrimSuffix(strings.Repeat("{} ", len(args)), " ")

			in := rs.Stream{}.Str(f).Punct(",")
			in = append(in, rs.Comma(args)...)

			return s.Group("(", ")", in.Join()), nil
		case n.ID == "len" && len(args) == 1:
			return method(ctx, x.Args[0], "len", cx, opts, syms)
		case n.ID == "str" && len(args) == 1:
			return method(ctx, x.Args[0], "to_string", cx, opts, syms)
		case n.ID == "range" && len(args) == 1:
			return rangeExpr(ctx, nil, x.Args[0], nil, cx, opts, syms)
		case n.ID == "range" && len(args) == 2:
			return rangeExpr(ctx, x.Args[0], x.Args[1], nil, cx, opts, syms)
		case n.ID == "range" && len(args) == 3:
			return rangeExpr(ctx, x.Args[0], x.Args[1], x.Args[2], cx, opts, syms)
		}
	}

	s, err = operand(ctx, s, x.Func, cx, opts, syms)
	if err != nil {
		return nil, errors.Wrap(err, "callee")
	}

	return s.Join().Group("(", ")", rs.Comma(args).Join()), nil
}

func method(ctx context.Context, recv ast.Expr, name string, cx Context, opts Options, syms symbols.Table) (s rs.Stream, err error) {
	s, err = operand(ctx, s, recv, cx, opts, syms)
	if err != nil {
		return nil, err
	}

	s = s.Join().Punct(".").Join()
	s = s.Ident(name).Join()

	return s.Group("(", ")", nil), nil
}

// rangeExpr renders python range as a rust range: (a..b).step_by(c).
func rangeExpr(ctx context.Context, from, to, step ast.Expr, cx Context, opts Options, syms symbols.Table) (s rs.Stream, err error) {
	var r rs.Stream

	if from == nil {
		r = r.Literal("0")
	} else {
		r, err = operand(ctx, r, from, cx, opts, syms)
		if err != nil {
			return nil, errors.Wrap(err, "range start")
		}
	}

	r = r.Join().Punct("..").Join()

	r, err = operand(ctx, r, to, cx, opts, syms)
	if err != nil {
		return nil, errors.Wrap(err, "range end")
	}

	if step == nil {
		return s.Group("(", ")", r.Join()), nil
	}

	st, err := operand(ctx, nil, step, cx, opts, syms)
	if err != nil {
		return nil, errors.Wrap(err, "range step")
	}

	s = s.Group("(", ")", r.Join())
	s = s.Join().Punct(".").Join()
	s = s.Ident("step_by").Join()

	st = st.Keyword("as").Ident("usize")

	return s.Group("(", ")", st.Join()), nil
}

func constant(s rs.Stream, c ast.Constant) rs.Stream {
	switch c.Kind {
	case ast.ConstNone:
		return s.Ident("None")
	case ast.ConstBool:
		return s.Keyword(strings.ToLower(c.String()))
	case ast.ConstStr:
		return s.Str(c.Value)
	case ast.ConstFloat:
		switch strings.ToLower(strings.TrimPrefix(c.Value, "+")) {
		case ".inf", "inf", "infinity":
			return s.Path("f64", "INFINITY")
		case "-.inf", "-inf", "-infinity":
			return s.Path("f64", "NEG_INFINITY")
		case ".nan", "nan":
			return s.Path("f64", "NAN")
		}

		if !strings.ContainsAny(c.Value, ".eE") {
			return s.Literal(c.Value + ".0")
		}

		return s.Literal(c.Value)
	default:
		return s.Literal(c.Value)
	}
}

func nameConstant(id string) ast.Constant {
	switch id {
	case "True", "False":
		return ast.Constant{Kind: ast.ConstBool, Value: id}
	default:
		return ast.Constant{Kind: ast.ConstNone}
	}
}

func isNone(x ast.Expr) bool {
	switch x := x.(type) {
	case ast.Constant:
		return x.Kind == ast.ConstNone
	case ast.Name:
		return x.ID == "None"
	}

	return false
}

// isUserFunc reports whether a builtin name is shadowed by a definition.
func isUserFunc(name string, syms symbols.Table) bool {
	_, ok := syms.Lookup(name)
	return ok
}
