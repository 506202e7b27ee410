package back

import (
	"context"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/slowlang/pyrs/compiler/ast"
	"github.com/slowlang/pyrs/compiler/rs"
	"github.com/slowlang/pyrs/compiler/symbols"
	"github.com/slowlang/pyrs/compiler/tp"
)

var augOps = map[ast.Op]string{
	ast.Add:    "+=",
	ast.Sub:    "-=",
	ast.Mult:   "*=",
	ast.Div:    "/=",
	ast.Mod:    "%=",
	ast.LShift: "<<=",
	ast.RShift: ">>=",
	ast.BitOr:  "|=",
	ast.BitXor: "^=",
	ast.BitAnd: "&=",
}

// TranslateStmt renders one statement without the terminating semicolon.
func TranslateStmt(ctx context.Context, st ast.Stmt, cx Context, opts Options, syms symbols.Table) (s rs.Stream, err error) {
	switch x := st.(type) {
	case ast.ExprStmt:
		return TranslateExpr(ctx, x.Value, cx, opts, syms)
	case ast.Assign:
		return assign(ctx, x, cx, opts, syms)
	case ast.AugAssign:
		return augAssign(ctx, x, cx, opts, syms)
	case ast.AnnAssign:
		return annAssign(ctx, x, cx, opts, syms)
	case ast.Return:
		s = s.Keyword("return")

		if x.Value == nil {
			return s, nil
		}

		v, err := TranslateExpr(ctx, x.Value, cx, opts, syms)
		if err != nil {
			return nil, errors.Wrap(err, "return value")
		}

		return append(s, v...), nil
	case ast.If:
		return ifStmt(ctx, x, cx, opts, syms)
	case ast.While:
		if len(x.Orelse) != 0 {
			return nil, NewUnsupported(x, "while-else")
		}

		body, err := translateBlock(ctx, x.Body, cx, opts, syms.Push(symbols.ScopeBlock, "while"))
		if err != nil {
			return nil, errors.Wrap(err, "while body")
		}

		if c, ok := x.Test.(ast.Constant); ok && c.Kind == ast.ConstBool && c.String() == "True" {
			return s.Keyword("loop").Group("{", "}", body), nil
		}

		test, err := TranslateExpr(ctx, x.Test, cx, opts, syms)
		if err != nil {
			return nil, errors.Wrap(err, "while test")
		}

		s = s.Keyword("while")
		s = append(s, test...)

		return s.Group("{", "}", body), nil
	case ast.For:
		return forStmt(ctx, x, cx, opts, syms)
	case ast.Pass:
		return rs.Stream{}, nil
	case ast.Break:
		return s.Keyword("break"), nil
	case ast.Continue:
		return s.Keyword("continue"), nil
	case ast.Raise:
		return raise(ctx, x, cx, opts, syms)
	case ast.Assert:
		test, err := TranslateExpr(ctx, x.Test, cx, opts, syms)
		if err != nil {
			return nil, errors.Wrap(err, "assert test")
		}

		in := test

		if x.Msg != nil {
			msg, err := TranslateExpr(ctx, x.Msg, cx, opts, syms)
			if err != nil {
				return nil, errors.Wrap(err, "assert msg")
			}

			in = in.Punct(",").Str("{}").Punct(",")
			in = append(in, msg...)
		}

		return s.Macro("assert").Group("(", ")", in.Join()), nil
	case ast.FunctionDef:
		return TranslateFunctionDef(ctx, x, cx, opts, syms)
	case ast.AsyncFunctionDef:
		return TranslateFunctionDef(ctx, x.FunctionDef, AsyncContext(x.Name), opts, syms)
	case ast.ClassDef:
		return nil, NewUnsupported(x, "class definition")
	case ast.Import, ast.ImportFrom:
		return nil, NewUnsupported(x, "import inside function")
	case ast.Global:
		return nil, NewUnsupported(x, "global declaration")
	case ast.Nonlocal:
		return nil, NewUnsupported(x, "nonlocal declaration")
	case ast.Delete:
		return nil, NewUnsupported(x, "del statement")
	case ast.Try:
		return nil, NewUnsupported(x, "try statement")
	case ast.With:
		return nil, NewUnsupported(x, "with statement")
	case nil:
		return nil, errors.New("nil statement")
	default:
		return nil, NewUnsupported(x, "statement")
	}
}

// FindSymbols registers names the statement binds in the innermost scope.
func FindSymbols(st ast.Stmt, syms symbols.Table) symbols.Table {
	switch x := st.(type) {
	case ast.FunctionDef:
		return Register(x, syms)
	case ast.AsyncFunctionDef:
		return Register(x.FunctionDef, syms)
	case ast.Assign:
		for _, t := range x.Targets {
			syms = bindTarget(t, nil, syms)
		}
	case ast.AnnAssign:
		syms = bindTarget(x.Target, x.Annotation, syms)
	case ast.AugAssign:
		syms = bindTarget(x.Target, nil, syms)
	}

	return syms
}

func bindTarget(t ast.Expr, ann ast.Expr, syms symbols.Table) symbols.Table {
	switch t := t.(type) {
	case ast.Name:
		if isBound(t.ID, syms) {
			return syms
		}

		return syms.Insert(t.ID, symbols.Variable{Name: t.ID, Annotation: ann})
	case ast.Tuple:
		for _, e := range t.Elts {
			syms = bindTarget(e, nil, syms)
		}
	}

	return syms
}

// isBound reports whether name is a variable or parameter visible from here.
func isBound(name string, syms symbols.Table) bool {
	n, ok := syms.Lookup(name)
	if !ok {
		return false
	}

	switch n.(type) {
	case symbols.Variable, symbols.Param:
		return true
	}

	return false
}

// translateBlock renders statements each followed by a semicolon.
// Bindings made by a statement are visible to the following ones.
func translateBlock(ctx context.Context, body []ast.Stmt, cx Context, opts Options, syms symbols.Table) (s rs.Stream, err error) {
	tr := tlog.SpanFromContext(ctx)

	for i, st := range body {
		ss, err := TranslateStmt(ctx, st, cx, opts, syms)
		if err != nil {
			return nil, errors.Wrap(err, "statement %d: %v", i, ast.Dump(st))
		}

		tr.V("stmt").Printw("statement", "i", i, "typ", tlog.NextAsType, st, "tokens", ss)

		s = append(s, ss...)
		s = s.Punct(";")

		syms = FindSymbols(st, syms)
	}

	return s, nil
}

func assign(ctx context.Context, x ast.Assign, cx Context, opts Options, syms symbols.Table) (s rs.Stream, err error) {
	if len(x.Targets) != 1 {
		return nil, NewUnsupported(x, "chained assignment")
	}

	v, err := TranslateExpr(ctx, x.Value, cx, opts, syms)
	if err != nil {
		return nil, errors.Wrap(err, "assign value")
	}

	s, err = target(ctx, x.Targets[0], nil, cx, opts, syms)
	if err != nil {
		return nil, errors.Wrap(err, "assign target")
	}

	s = s.Punct("=")

	return append(s, v...), nil
}

// target renders the left hand side of an assignment.
// Unbound names are declared with let.
func target(ctx context.Context, t ast.Expr, ann tp.Type, cx Context, opts Options, syms symbols.Table) (s rs.Stream, err error) {
	switch t := t.(type) {
	case ast.Name:
		if isBound(t.ID, syms) {
			return s.Ident(t.ID), nil
		}

		s = s.Keyword("let").Keyword("mut").Ident(t.ID)

		if ann != nil {
			s = s.Join().Punct(":")
			s = ann.Tokens(s)
		}

		return s, nil
	case ast.Tuple:
		var bound, free int

		l := make([]rs.Stream, len(t.Elts))

		for i, e := range t.Elts {
			n, ok := e.(ast.Name)
			if !ok {
				return nil, NewUnsupported(t, "nested unpacking target")
			}

			if isBound(n.ID, syms) {
				bound++
				l[i] = l[i].Ident(n.ID)
			} else {
				free++
				l[i] = l[i].Keyword("mut").Ident(n.ID)
			}
		}

		if bound != 0 && free != 0 {
			return nil, NewUnsupported(t, "unpacking into both new and existing names")
		}

		if free != 0 {
			s = s.Keyword("let")
		}

		return s.Group("(", ")", rs.Comma(l).Join()), nil
	case ast.Attribute, ast.Subscript:
		return TranslateExpr(ctx, t, cx, opts, syms)
	default:
		return nil, NewUnsupported(t, "assignment target")
	}
}

func augAssign(ctx context.Context, x ast.AugAssign, cx Context, opts Options, syms symbols.Table) (s rs.Stream, err error) {
	t, err := TranslateExpr(ctx, x.Target, cx, opts, syms)
	if err != nil {
		return nil, errors.Wrap(err, "target")
	}

	if op, ok := augOps[x.Op]; ok {
		v, err := TranslateExpr(ctx, x.Value, cx, opts, syms)
		if err != nil {
			return nil, errors.Wrap(err, "value")
		}

		s = append(s, t...)
		s = s.Punct(op)

		return append(s, v...), nil
	}

	if _, ok := binMethods[x.Op]; !ok {
		return nil, NewUnsupported(x, "augmented operator "+string(x.Op))
	}

	v, err := binOp(ctx, ast.BinOp{Left: x.Target, Op: x.Op, Right: x.Value}, cx, opts, syms)
	if err != nil {
		return nil, errors.Wrap(err, "value")
	}

	s = append(s, t...)
	s = s.Punct("=")

	return append(s, v...), nil
}

func annAssign(ctx context.Context, x ast.AnnAssign, cx Context, opts Options, syms symbols.Table) (s rs.Stream, err error) {
	ann, ok := tp.FromAnnotation(x.Annotation, opts.object())
	if !ok {
		return nil, NewUnsupported(x.Annotation, "annotation")
	}

	if x.Value == nil {
		if n, ok := x.Target.(ast.Name); ok && !isBound(n.ID, syms) {
			s = s.Keyword("let").Keyword("mut").Ident(n.ID).Join().Punct(":")

			return ann.Tokens(s), nil
		}

		return rs.Stream{}, nil
	}

	v, err := TranslateExpr(ctx, x.Value, cx, opts, syms)
	if err != nil {
		return nil, errors.Wrap(err, "value")
	}

	s, err = target(ctx, x.Target, ann, cx, opts, syms)
	if err != nil {
		return nil, errors.Wrap(err, "target")
	}

	s = s.Punct("=")

	return append(s, v...), nil
}

func ifStmt(ctx context.Context, x ast.If, cx Context, opts Options, syms symbols.Table) (s rs.Stream, err error) {
	test, err := TranslateExpr(ctx, x.Test, cx, opts, syms)
	if err != nil {
		return nil, errors.Wrap(err, "if test")
	}

	body, err := translateBlock(ctx, x.Body, cx, opts, syms.Push(symbols.ScopeBlock, "if"))
	if err != nil {
		return nil, errors.Wrap(err, "if body")
	}

	s = s.Keyword("if")
	s = append(s, test...)
	s = s.Group("{", "}", body)

	if len(x.Orelse) == 0 {
		return s, nil
	}

	s = s.Keyword("else")

	if elif, ok := x.Orelse[0].(ast.If); ok && len(x.Orelse) == 1 {
		e, err := ifStmt(ctx, elif, cx, opts, syms)
		if err != nil {
			return nil, errors.Wrap(err, "elif")
		}

		return append(s, e...), nil
	}

	orelse, err := translateBlock(ctx, x.Orelse, cx, opts, syms.Push(symbols.ScopeBlock, "else"))
	if err != nil {
		return nil, errors.Wrap(err, "else body")
	}

	return s.Group("{", "}", orelse), nil
}

func forStmt(ctx context.Context, x ast.For, cx Context, opts Options, syms symbols.Table) (s rs.Stream, err error) {
	if len(x.Orelse) != 0 {
		return nil, NewUnsupported(x, "for-else")
	}

	var tgt rs.Stream

	switch t := x.Target.(type) {
	case ast.Name:
		tgt = tgt.Ident(t.ID)
	case ast.Tuple:
		l := make([]rs.Stream, len(t.Elts))

		for i, e := range t.Elts {
			n, ok := e.(ast.Name)
			if !ok {
				return nil, NewUnsupported(t, "nested loop target")
			}

			l[i] = l[i].Ident(n.ID)
		}

		tgt = tgt.Group("(", ")", rs.Comma(l).Join())
	default:
		return nil, NewUnsupported(x.Target, "loop target")
	}

	iter, err := TranslateExpr(ctx, x.Iter, cx, opts, syms)
	if err != nil {
		return nil, errors.Wrap(err, "for iter")
	}

	inner := syms.Push(symbols.ScopeBlock, "for")
	inner = bindTarget(x.Target, nil, inner)

	body, err := translateBlock(ctx, x.Body, cx, opts, inner)
	if err != nil {
		return nil, errors.Wrap(err, "for body")
	}

	s = s.Keyword("for")
	s = append(s, tgt...)
	s = s.Keyword("in")
	s = append(s, iter...)

	return s.Group("{", "}", body), nil
}

// raise panics, there are no exceptions in rust.
func raise(ctx context.Context, x ast.Raise, cx Context, opts Options, syms symbols.Table) (s rs.Stream, err error) {
	s = s.Macro("panic")

	if x.Exc == nil {
		return s.Group("(", ")", nil), nil
	}

	if c, ok := x.Exc.(ast.Call); ok {
		if n, ok := c.Func.(ast.Name); ok && len(c.Args) <= 1 && len(c.Keywords) == 0 {
			if len(c.Args) == 0 {
				return s.Group("(", ")", rs.Stream{}.Str(n.ID).Join()), nil
			}

			msg, err := TranslateExpr(ctx, c.Args[0], cx, opts, syms)
			if err != nil {
				return nil, errors.Wrap(err, "raise message")
			}

			in := rs.Stream{}.Str(n.ID + ": {}").Punct(",")
			in = append(in, msg...)

			return s.Group("(", ")", in.Join()), nil
		}
	}

	exc, err := TranslateExpr(ctx, x.Exc, cx, opts, syms)
	if err != nil {
		return nil, errors.Wrap(err, "raise")
	}

	in := rs.Stream{}.Str("{:?}").Punct(",")
	in = append(in, exc...)

	return s.Group("(", ")", in.Join()), nil
}

type hoister struct {
	syms symbols.Table
	seen map[string]struct{}
	vars []symbols.Variable
}

// hoistDecls declares at the function level names first bound inside nested blocks.
// Python variables live until the function returns, rust ones until the block ends.
func hoistDecls(body []ast.Stmt, opts Options, syms symbols.Table) (s rs.Stream, _ symbols.Table) {
	h := hoister{
		syms: syms,
		seen: map[string]struct{}{},
	}

	h.block(body, false)

	for _, v := range h.vars {
		s = s.Keyword("let").Keyword("mut").Ident(v.Name)

		if t, ok := tp.FromAnnotation(v.Annotation, opts.object()); ok && v.Annotation != nil {
			s = t.Tokens(s.Join().Punct(":"))
		}

		s = s.Punct(";")

		syms = syms.Insert(v.Name, v)
	}

	return s, syms
}

func (h *hoister) block(body []ast.Stmt, nested bool) {
	for _, st := range body {
		switch x := st.(type) {
		case ast.Assign:
			for _, t := range x.Targets {
				h.target(t, nil, nested)
			}
		case ast.AnnAssign:
			h.target(x.Target, x.Annotation, nested)
		case ast.If:
			h.block(x.Body, true)
			h.block(x.Orelse, true)
		case ast.While:
			h.block(x.Body, true)
			h.block(x.Orelse, true)
		case ast.For:
			h.block(x.Body, true)
			h.block(x.Orelse, true)
		}
	}
}

func (h *hoister) target(t, ann ast.Expr, nested bool) {
	switch t := t.(type) {
	case ast.Name:
		if _, ok := h.seen[t.ID]; ok || isBound(t.ID, h.syms) {
			return
		}

		h.seen[t.ID] = struct{}{}

		if nested {
			h.vars = append(h.vars, symbols.Variable{Name: t.ID, Annotation: ann})
		}
	case ast.Tuple:
		for _, e := range t.Elts {
			h.target(e, nil, nested)
		}
	}
}
