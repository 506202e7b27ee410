package compiler

import (
	"context"
	"os"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/slowlang/pyrs/compiler/ast"
	"github.com/slowlang/pyrs/compiler/back"
	"github.com/slowlang/pyrs/compiler/format"
	"github.com/slowlang/pyrs/compiler/symbols"
)

func TranslateFile(ctx context.Context, name string, opts back.Options) (text []byte, err error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, errors.Wrap(err, "read file")
	}

	tlog.SpanFromContext(ctx).Printw("read file", "size", len(data), "name", name)

	return Translate(ctx, name, data, opts)
}

func Translate(ctx context.Context, name string, data []byte, opts back.Options) (text []byte, err error) {
	m, err := ast.Decode(data)
	if err != nil {
		return nil, errors.Wrap(err, "decode %v", name)
	}

	text, _, err = TranslateModule(ctx, m, opts)
	if err != nil {
		return nil, errors.Wrap(err, "translate %v", name)
	}

	return text, nil
}

// TranslateModule renders the module and returns the module symbol table.
func TranslateModule(ctx context.Context, m *ast.Module, opts back.Options) (text []byte, syms symbols.Table, err error) {
	s, syms, err := back.TranslateModule(ctx, m, opts, symbols.New())
	if err != nil {
		return nil, syms, err
	}

	text, err = format.Format(ctx, nil, s)
	if err != nil {
		return nil, syms, errors.Wrap(err, "format")
	}

	return text, syms, nil
}
