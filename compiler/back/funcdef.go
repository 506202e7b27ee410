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

// Register binds the definition name so later code can refer to it
// before it's translated.
func Register(def ast.FunctionDef, syms symbols.Table) symbols.Table {
	return syms.Insert(def.Name, symbols.FunctionDef{Def: def.Clone()})
}

// TranslateFunctionDef renders def as a rust function.
//
// Visibility comes from the name, the async qualifier comes from cx.
// syms is not modified, the body is translated in a function scope derived from it.
// Translation is all or nothing: on error no tokens are returned.
func TranslateFunctionDef(ctx context.Context, def ast.FunctionDef, cx Context, opts Options, syms symbols.Table) (_ rs.Stream, err error) {
	tr, ctx := tlog.SpawnFromContextAndWrap(ctx, "translate function", "name", def.Name, "ctx", cx)
	defer tr.Finish("err", &err)

	if len(def.Body) == 0 {
		return nil, errors.Wrap(ErrEmptyBody, "def %v", def.Name)
	}

	vis := VisibilityOf(def.Name)
	q := QualifierOf(cx)

	params, err := TranslateParams(ctx, def.Args, cx, opts, syms)
	if err != nil {
		return nil, errors.Wrap(err, "params %v", ast.Dump(def.Args))
	}

	var ret rs.Stream

	if def.Returns != nil {
		t, ok := tp.FromAnnotation(def.Returns, opts.object())
		if !ok {
			return nil, NewUnsupported(def.Returns, "return annotation")
		}

		if _, unit := t.(tp.Unit); !unit {
			ret = t.Tokens(ret.Punct("->"))
		}
	}

	local := syms.Push(symbols.ScopeFunction, def.Name)
	local = paramSymbols(def.Args, local)

	decls, local := hoistDecls(def.Body, opts, local)

	body, err := translateBlock(ctx, def.Body, cx, opts, local)
	if err != nil {
		return nil, errors.Wrap(err, "def %v body", def.Name)
	}

	body = append(decls, body...)

	doc, _ := def.Docstring()

	if opts.NoDocstrings {
		doc = ""
	}

	var s rs.Stream

	s = s.Doc(doc)
	s = vis.Tokens(s)
	s = q.Tokens(s)
	s = s.Keyword("fn")
	s = s.Ident(def.Name).Join()
	s = s.Group("(", ")", params.Join())
	s = append(s, ret...)
	s = s.Group("{", "}", body)

	if len(def.Decorators) != 0 {
		tr.Printw("decorators ignored", "name", def.Name, "decorators", def.Decorators)
	}

	tr.Printw("function", "name", def.Name, "visibility", vis, "qualifier", q, "tokens", s)

	return s, nil
}
