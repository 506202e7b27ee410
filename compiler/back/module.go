package back

import (
	"context"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/slowlang/pyrs/compiler/ast"
	"github.com/slowlang/pyrs/compiler/rs"
	"github.com/slowlang/pyrs/compiler/symbols"
)

// MainFunc is where top level statements go.
const MainFunc = "main"

// TranslateModule renders all definitions of the module.
//
// All top level functions are registered first so they can refer to each other.
// Top level statements and `if __name__ == "__main__":` bodies
// are gathered into the main function.
func TranslateModule(ctx context.Context, m *ast.Module, opts Options, syms symbols.Table) (s rs.Stream, _ symbols.Table, err error) {
	tr, ctx := tlog.SpawnFromContextAndWrap(ctx, "translate module", "stmts", len(m.Body))
	defer tr.Finish("err", &err)

	for _, st := range m.Body {
		switch x := st.(type) {
		case ast.FunctionDef:
			syms = Register(x, syms)
		case ast.AsyncFunctionDef:
			syms = Register(x.FunctionDef, syms)
		}
	}

	if tr.If("dump_symbols") {
		tr.Printw("module symbols", "names", syms.Names())
	}

	if opts.WithStdPython {
		s = s.Keyword("use")
		s = s.Path(opts.namespace()).Join()
		s = s.Punct("::").Join()
		s = s.Punct("*").Join()
		s = s.Punct(";")
	}

	var main []ast.Stmt

	for i, st := range m.Body {
		var f rs.Stream

		switch x := st.(type) {
		case ast.FunctionDef:
			f, err = TranslateFunctionDef(ctx, x, ModuleContext(), opts, syms)
		case ast.AsyncFunctionDef:
			f, err = TranslateFunctionDef(ctx, x.FunctionDef, AsyncContext(x.Name), opts, syms)
		case ast.Import, ast.ImportFrom:
			tr.Printw("skip import", "stmt", ast.Dump(st))
			continue
		case ast.If:
			if isMainGuard(x.Test) {
				main = append(main, x.Body...)
				continue
			}

			main = append(main, st)
			continue
		default:
			main = append(main, st)
			continue
		}

		if err != nil {
			return nil, syms, errors.Wrap(err, "stmt %d", i)
		}

		s = append(s, f...)
	}

	if len(main) == 0 {
		return s, syms, nil
	}

	if _, ok := syms.LookupLocal(MainFunc); ok {
		return nil, syms, errors.New("module defines %v and has top level statements", MainFunc)
	}

	def := ast.FunctionDef{
		Name: MainFunc,
		Body: main,
	}

	syms = Register(def, syms)

	f, err := TranslateFunctionDef(ctx, def, SyncContext(MainFunc), opts, syms)
	if err != nil {
		return nil, syms, errors.Wrap(err, "top level statements")
	}

	s = append(s, f...)

	return s, syms, nil
}

// isMainGuard matches __name__ == "__main__".
func isMainGuard(x ast.Expr) bool {
	c, ok := x.(ast.Compare)
	if !ok || len(c.Ops) != 1 || len(c.Comparators) != 1 || c.Ops[0] != ast.Eq {
		return false
	}

	l, r := c.Left, c.Comparators[0]

	if isName(r, "__name__") {
		l, r = r, l
	}

	k, ok := r.(ast.Constant)

	return isName(l, "__name__") && ok && k.Kind == ast.ConstStr && k.Value == "__main__"
}

func isName(x ast.Expr, id string) bool {
	n, ok := x.(ast.Name)
	return ok && n.ID == id
}
