package ast

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeFile(t *testing.T) {
	data, err := os.ReadFile("testdata/add.json")
	require.NoError(t, err)

	m, err := Decode(data)
	require.NoError(t, err)
	require.Len(t, m.Body, 2)

	f, ok := m.Body[0].(FunctionDef)
	require.True(t, ok, "%T", m.Body[0])

	assert.Equal(t, "add", f.Name)
	assert.Equal(t, []string{"functools.cache"}, f.Decorators)
	assert.Nil(t, f.Returns)

	require.Len(t, f.Args.Params, 2)
	assert.Equal(t, Param{Name: "a", Annotation: Name{ID: "int"}}, f.Args.Params[0])
	assert.Equal(t, Param{Name: "b", Default: Constant{Kind: ConstInt, Value: "1"}}, f.Args.Params[1])

	doc, ok := f.Docstring()
	assert.True(t, ok)
	assert.Equal(t, "Adds numbers.", doc)

	assert.Equal(t, Return{Value: BinOp{Left: Name{ID: "a"}, Op: Add, Right: Name{ID: "b"}}}, f.Body[1])

	a, ok := m.Body[1].(AsyncFunctionDef)
	require.True(t, ok, "%T", m.Body[1])
	assert.Equal(t, "fetch", a.Name)
	assert.Equal(t, []Stmt{Pass{}}, a.Body)
}

func TestDecodeYAML(t *testing.T) {
	m, err := Decode([]byte(`
- _type: Assign
  targets: [{_type: Name, id: x}]
  value: {_type: Constant, value: 1.5}
- _type: Expr
  value:
    _type: Compare
    left: {_type: Name, id: x}
    ops: [{_type: Lt}, LtE]
    comparators: [{_type: Constant, value: 2}, {_type: Constant, value: null}]
- _type: If
  test: {_type: Constant, value: true}
  body: [{_type: Break}]
`))
	require.NoError(t, err)
	require.Len(t, m.Body, 3)

	assert.Equal(t, Assign{
		Targets: []Expr{Name{ID: "x"}},
		Value:   Constant{Kind: ConstFloat, Value: "1.5"},
	}, m.Body[0])

	assert.Equal(t, ExprStmt{Value: Compare{
		Left:        Name{ID: "x"},
		Ops:         []Op{Lt, LtE},
		Comparators: []Expr{Constant{Kind: ConstInt, Value: "2"}, Constant{Kind: ConstNone}},
	}}, m.Body[1])

	assert.Equal(t, If{
		Test: Constant{Kind: ConstBool, Value: "True"},
		Body: []Stmt{Break{}},
	}, m.Body[2])
}

func TestDecodeSingleStatement(t *testing.T) {
	m, err := Decode([]byte(`{"_type": "Return", "value": null}`))
	require.NoError(t, err)

	assert.Equal(t, []Stmt{Return{}}, m.Body)
}

func TestDecodeErrors(t *testing.T) {
	_, err := Decode([]byte(`{"_type": "Match", "subject": null}`))

	var unk UnknownNodeError
	require.ErrorAs(t, err, &unk)
	assert.Equal(t, "Match", unk.Type)

	_, err = Decode([]byte(`{"body": []}`))
	assert.Error(t, err)

	_, err = Decode([]byte(`{"_type": "Expr", "value": null}`))
	assert.Error(t, err)

	_, err = Decode([]byte(``))
	assert.Error(t, err)
}

func TestDocstring(t *testing.T) {
	f := FunctionDef{Name: "f", Body: []Stmt{
		ExprStmt{Value: Constant{Kind: ConstStr, Value: "hello"}},
		Pass{},
	}}

	doc, ok := f.Docstring()
	assert.True(t, ok)
	assert.Equal(t, "hello", doc)

	f.Body = []Stmt{Assign{Targets: []Expr{Name{ID: "x"}}, Value: Constant{Kind: ConstStr, Value: "hello"}}}

	doc, ok = f.Docstring()
	assert.False(t, ok)
	assert.Equal(t, "", doc)

	f.Body = nil

	doc, ok = f.Docstring()
	assert.False(t, ok)
	assert.Equal(t, "", doc)
}

func TestClone(t *testing.T) {
	f := FunctionDef{
		Name:       "f",
		Args:       Arguments{Params: []Param{{Name: "a"}}},
		Body:       []Stmt{Pass{}},
		Decorators: []string{"d"},
	}

	c := f.Clone()
	assert.Equal(t, f, c)

	c.Args.Params[0].Name = "b"
	c.Body[0] = Break{}
	c.Decorators[0] = "e"

	assert.Equal(t, "a", f.Args.Params[0].Name)
	assert.Equal(t, Pass{}, f.Body[0])
	assert.Equal(t, "d", f.Decorators[0])
}

func TestDump(t *testing.T) {
	for _, tc := range []struct {
		x   Node
		exp string
	}{
		{Name{ID: "x"}, "Name(id='x')"},
		{Constant{Kind: ConstStr, Value: "it's"}, `Constant(value='it\'s')`},
		{Constant{Kind: ConstNone}, "Constant(value=None)"},
		{BinOp{Left: Name{ID: "a"}, Op: Add, Right: Constant{Kind: ConstInt, Value: "1"}},
			"BinOp(left=Name(id='a'), op=Add(), right=Constant(value=1))"},
		{Return{}, "Return()"},
		{Pass{}, "Pass()"},
		{Arguments{Params: []Param{{Name: "a"}, {Name: "b", Kind: ParamVarArgs}}},
			"arguments(arg(arg='a'), arg(arg='b', kind=vararg))"},
		{FunctionDef{Name: "f", Body: []Stmt{Pass{}}},
			"FunctionDef(name='f', args=arguments(), body=[Pass()], decorator_list=[])"},
	} {
		assert.Equal(t, tc.exp, Dump(tc.x))
	}
}
