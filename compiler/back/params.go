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

// TranslateParams renders the parameter clause without parentheses.
func TranslateParams(ctx context.Context, args ast.Arguments, cx Context, opts Options, syms symbols.Table) (s rs.Stream, err error) {
	l := make([]rs.Stream, 0, len(args.Params))

	for i, p := range args.Params {
		ps, err := translateParam(ctx, p, cx, opts, syms)
		if err != nil {
			return nil, errors.Wrap(err, "param %d", i)
		}

		l = append(l, ps)
	}

	s = rs.Comma(l)

	tlog.SpanFromContext(ctx).V("params").Printw("params", "ctx", cx, "n", len(args.Params), "tokens", s)

	return s, nil
}

func translateParam(ctx context.Context, p ast.Param, cx Context, opts Options, syms symbols.Table) (s rs.Stream, err error) {
	if p.Default != nil {
		return nil, NewUnsupported(p.Default, "default value of parameter "+p.Name)
	}

	if p.Kind == ast.ParamKwArgs {
		return nil, NewUnsupported(ast.Arguments{Params: []ast.Param{p}}, "keyword arguments collector")
	}

	t, ok := tp.FromAnnotation(p.Annotation, opts.object())
	if !ok {
		return nil, NewUnsupported(p.Annotation, "annotation of parameter "+p.Name)
	}

	if p.Kind == ast.ParamVarArgs {
		t = tp.Vec{X: t}
	}

	s = s.Ident(p.Name).Join()
	s = s.Punct(":")

	return t.Tokens(s), nil
}

// paramSymbols registers parameters in the function scope.
func paramSymbols(args ast.Arguments, syms symbols.Table) symbols.Table {
	for _, p := range args.Params {
		syms = syms.Insert(p.Name, symbols.Param{Param: p})
	}

	return syms
}
