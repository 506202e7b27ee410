package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"nikand.dev/go/cli"
	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/slowlang/pyrs/compiler"
	"github.com/slowlang/pyrs/compiler/ast"
	"github.com/slowlang/pyrs/compiler/back"
)

func main() {
	translateCmd := &cli.Command{
		Name:   "translate",
		Action: translateAct,
		Args:   cli.Args{},
		Flags: []*cli.Flag{
			cli.NewFlag("options", "", "options yaml file"),
			cli.NewFlag("std-python", false, "emit the python runtime prelude"),
			cli.NewFlag("namespace", "", "python runtime crate name"),
			cli.NewFlag("qualify", false, "qualify PyObject with the runtime namespace"),
			cli.NewFlag("no-docs", false, "do not emit docstrings"),
			cli.NewFlag("output,o", "-", "output file"),
		},
	}

	dumpCmd := &cli.Command{
		Name:        "dump",
		Description: "print decoded python ast",
		Action:      dumpAct,
		Args:        cli.Args{},
	}

	symbolsCmd := &cli.Command{
		Name:        "symbols",
		Description: "print module level symbols",
		Action:      symbolsAct,
		Args:        cli.Args{},
	}

	app := &cli.Command{
		Name:        "pyrs",
		Description: "pyrs translates python ast into rust source code",
		Commands: []*cli.Command{
			translateCmd,
			dumpCmd,
			symbolsCmd,
		},
	}

	cli.RunAndExit(app, os.Args, os.Environ())
}

func translateAct(c *cli.Command) (err error) {
	ctx := context.Background()
	ctx = tlog.ContextWithSpan(ctx, tlog.Root())

	opts, err := options(c)
	if err != nil {
		return err
	}

	var out []byte

	err = eachInput(c, func(name string, data []byte) error {
		text, err := compiler.Translate(ctx, name, data, opts)
		if err != nil {
			return err
		}

		out = append(out, text...)

		return nil
	})
	if err != nil {
		return err
	}

	if o := c.String("output"); o != "" && o != "-" {
		err = os.WriteFile(o, out, 0o644)
		if err != nil {
			return errors.Wrap(err, "write output")
		}

		return nil
	}

	_, err = os.Stdout.Write(out)

	return err
}

func dumpAct(c *cli.Command) (err error) {
	return eachInput(c, func(name string, data []byte) error {
		m, err := ast.Decode(data)
		if err != nil {
			return errors.Wrap(err, "decode %v", name)
		}

		fmt.Printf("%s\n", ast.Dump(m))

		return nil
	})
}

func symbolsAct(c *cli.Command) (err error) {
	ctx := context.Background()
	ctx = tlog.ContextWithSpan(ctx, tlog.Root())

	return eachInput(c, func(name string, data []byte) error {
		m, err := ast.Decode(data)
		if err != nil {
			return errors.Wrap(err, "decode %v", name)
		}

		_, syms, err := compiler.TranslateModule(ctx, m, back.Options{})
		if err != nil {
			return errors.Wrap(err, "translate %v", name)
		}

		return syms.Dump(os.Stdout)
	})
}

func options(c *cli.Command) (opts back.Options, err error) {
	if f := c.String("options"); f != "" {
		opts, err = back.LoadOptions(f)
		if err != nil {
			return opts, errors.Wrap(err, "load options")
		}
	}

	if c.Bool("std-python") {
		opts.WithStdPython = true
	}

	if ns := c.String("namespace"); ns != "" {
		opts.Namespace = ns
	}

	if c.Bool("qualify") {
		opts.QualifyObjects = true
	}

	if c.Bool("no-docs") {
		opts.NoDocstrings = true
	}

	return opts, nil
}

func eachInput(c *cli.Command, f func(name string, data []byte) error) error {
	if len(c.Args) == 0 {
		if isatty.IsTerminal(os.Stdin.Fd()) {
			return errors.New("no input files and stdin is a terminal")
		}

		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return errors.Wrap(err, "read stdin")
		}

		return f("<stdin>", data)
	}

	for _, a := range c.Args {
		data, err := os.ReadFile(a)
		if err != nil {
			return errors.Wrap(err, "read %v", a)
		}

		tlog.Printw("read file", "size", len(data), "name", a)

		err = f(a, data)
		if err != nil {
			return err
		}
	}

	return nil
}
