package symbols

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slowlang/pyrs/compiler/ast"
)

func TestInsertLookup(t *testing.T) {
	t0 := New()

	t1 := t0.Insert("f", FunctionDef{Def: ast.FunctionDef{Name: "f"}})
	t2 := t1.Insert("x", Variable{Name: "x"})

	_, ok := t0.Lookup("f")
	assert.False(t, ok, "receiver table modified")

	_, ok = t1.Lookup("x")
	assert.False(t, ok, "receiver table modified")

	n, ok := t2.Lookup("f")
	require.True(t, ok)
	assert.Equal(t, "f", n.(FunctionDef).Def.Name)

	assert.Equal(t, []string{"f", "x"}, t2.Names())
	assert.Equal(t, []string{"f"}, t1.Names())
}

func TestOverwrite(t *testing.T) {
	t1 := New().Insert("f", FunctionDef{Def: ast.FunctionDef{Name: "f", Decorators: []string{"a"}}})
	t2 := t1.Insert("f", FunctionDef{Def: ast.FunctionDef{Name: "f", Decorators: []string{"b"}}})

	n, ok := t2.Lookup("f")
	require.True(t, ok)
	assert.Equal(t, []string{"b"}, n.(FunctionDef).Def.Decorators)

	n, ok = t1.Lookup("f")
	require.True(t, ok)
	assert.Equal(t, []string{"a"}, n.(FunctionDef).Def.Decorators)

	assert.Len(t, t2.Names(), 1)
}

func TestScopeChain(t *testing.T) {
	mod := New().Insert("x", Variable{Name: "x"})

	fn := mod.Push(ScopeFunction, "f")
	assert.Equal(t, 2, fn.Depth())

	k, name := fn.Scope()
	assert.Equal(t, ScopeFunction, k)
	assert.Equal(t, "f", name)

	_, ok := fn.Lookup("x")
	assert.True(t, ok, "outer scope is visible")

	_, ok = fn.LookupLocal("x")
	assert.False(t, ok, "outer scope is not local")

	fn = fn.Insert("x", Param{Param: ast.Param{Name: "x"}})

	n, ok := fn.Lookup("x")
	require.True(t, ok)
	assert.IsType(t, Param{}, n, "inner binding shadows outer")

	n, ok = mod.Lookup("x")
	require.True(t, ok)
	assert.IsType(t, Variable{}, n)

	back := fn.Pop()
	assert.Equal(t, 1, back.Depth())

	n, ok = back.Lookup("x")
	require.True(t, ok)
	assert.IsType(t, Variable{}, n)

	assert.Equal(t, 1, back.Pop().Depth(), "module scope is never dropped")
}

func TestPushDoesNotAlias(t *testing.T) {
	mod := New().Push(ScopeFunction, "f")

	a := mod.Push(ScopeBlock, "if").Insert("a", Variable{Name: "a"})
	b := mod.Push(ScopeBlock, "else").Insert("b", Variable{Name: "b"})

	_, ok := a.Lookup("b")
	assert.False(t, ok)

	_, ok = b.Lookup("a")
	assert.False(t, ok)
}

func TestZeroTable(t *testing.T) {
	var tb Table

	_, ok := tb.Lookup("x")
	assert.False(t, ok)

	tb = tb.Insert("x", Variable{Name: "x"})

	_, ok = tb.Lookup("x")
	assert.True(t, ok)
	assert.Equal(t, 1, tb.Depth())
}

func TestDump(t *testing.T) {
	tb := New().
		Insert("f", FunctionDef{Def: ast.FunctionDef{Name: "f"}}).
		Push(ScopeFunction, "f").
		Insert("a", Param{Param: ast.Param{Name: "a"}})

	var buf bytes.Buffer

	err := tb.Dump(&buf)
	require.NoError(t, err)

	assert.Contains(t, buf.String(), `scope module ""`)
	assert.Contains(t, buf.String(), `  scope function "f"`)
	assert.Contains(t, buf.String(), "param positional")
	assert.Contains(t, buf.String(), "func arguments(")
}
