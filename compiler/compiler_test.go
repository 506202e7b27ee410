package compiler

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slowlang/pyrs/compiler/ast"
	"github.com/slowlang/pyrs/compiler/back"
)

const addModule = `{
  "_type": "Module",
  "body": [
    {
      "_type": "FunctionDef",
      "name": "add",
      "args": {
        "_type": "arguments",
        "posonlyargs": [],
        "args": [
          {"_type": "arg", "arg": "a", "annotation": {"_type": "Name", "id": "int"}},
          {"_type": "arg", "arg": "b", "annotation": {"_type": "Name", "id": "int"}}
        ],
        "kwonlyargs": [],
        "kw_defaults": [],
        "defaults": []
      },
      "body": [
        {"_type": "Expr", "value": {"_type": "Constant", "value": "Adds two numbers."}},
        {"_type": "Return", "value": {"_type": "BinOp", "left": {"_type": "Name", "id": "a"}, "op": {"_type": "Add"}, "right": {"_type": "Name", "id": "b"}}}
      ],
      "decorator_list": [],
      "returns": {"_type": "Name", "id": "int"}
    },
    {
      "_type": "If",
      "test": {"_type": "Compare", "left": {"_type": "Name", "id": "__name__"}, "ops": [{"_type": "Eq"}], "comparators": [{"_type": "Constant", "value": "__main__"}]},
      "body": [
        {"_type": "Expr", "value": {"_type": "Call", "func": {"_type": "Name", "id": "print"}, "args": [
          {"_type": "Call", "func": {"_type": "Name", "id": "add"}, "args": [{"_type": "Constant", "value": 1}, {"_type": "Constant", "value": 2}], "keywords": []}
        ], "keywords": []}}
      ],
      "orelse": []
    }
  ],
  "type_ignores": []
}`

const addRust = "/// Adds two numbers.\n" +
	"pub fn add(a: i64, b: i64) -> i64 {\n" +
	"\t\"Adds two numbers.\";\n" +
	"\treturn a + b;\n" +
	"}\n" +
	"\n" +
	"pub fn main() {\n" +
	"\tprintln!(\"{}\", add(1, 2));\n" +
	"}\n"

func TestTranslate(t *testing.T) {
	text, err := Translate(context.Background(), "add.json", []byte(addModule), back.Options{})
	require.NoError(t, err)

	assert.Equal(t, addRust, string(text))
}

func TestTranslateFile(t *testing.T) {
	name := filepath.Join(t.TempDir(), "add.json")

	err := os.WriteFile(name, []byte(addModule), 0o644)
	require.NoError(t, err)

	text, err := TranslateFile(context.Background(), name, back.Options{WithStdPython: true, Namespace: "pyrt"})
	require.NoError(t, err)

	assert.Equal(t, "use pyrt::*;\n\n"+addRust, string(text))

	_, err = TranslateFile(context.Background(), filepath.Join(t.TempDir(), "missing.json"), back.Options{})
	assert.Error(t, err)
}

func TestTranslateErrors(t *testing.T) {
	_, err := Translate(context.Background(), "bad.json", []byte(`{"_type": "Module", "body": [{"_type": "Match"}]}`), back.Options{})
	if assert.Error(t, err) {
		assert.Contains(t, err.Error(), "bad.json")
	}

	_, err = Translate(context.Background(), "class.json", []byte(`{"_type": "FunctionDef", "name": "f", "body": [{"_type": "ClassDef", "name": "C", "body": [{"_type": "Pass"}]}]}`), back.Options{})
	assert.Error(t, err)
}

func TestTranslateModuleSymbols(t *testing.T) {
	text, syms, err := TranslateModule(context.Background(), mustDecode(t, addModule), back.Options{NoDocstrings: true})
	require.NoError(t, err)

	assert.NotContains(t, string(text), "///")
	assert.Equal(t, []string{"add", "main"}, syms.Names())
}

func mustDecode(t *testing.T, data string) *ast.Module {
	t.Helper()

	m, err := ast.Decode([]byte(data))
	require.NoError(t, err)

	return m
}
