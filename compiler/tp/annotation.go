package tp

import (
	"github.com/slowlang/pyrs/compiler/ast"
)

// FromAnnotation maps a python type annotation to a rust type.
// obj is used wherever python leaves the type dynamic.
func FromAnnotation(x ast.Expr, obj Object) (Type, bool) {
	switch x := x.(type) {
	case nil:
		return obj, true
	case ast.Constant:
		switch x.Kind {
		case ast.ConstNone:
			return Unit{}, true
		case ast.ConstStr: // forward reference
			return Name(x.Value), true
		}
	case ast.Name, ast.Attribute:
		return named(typeName(x), obj)
	case ast.Subscript:
		return subscript(x, obj)
	case ast.BinOp:
		if x.Op != ast.BitOr {
			break
		}

		if isNone(x.Right) {
			t, ok := FromAnnotation(x.Left, obj)
			return Option{X: t}, ok
		}

		if isNone(x.Left) {
			t, ok := FromAnnotation(x.Right, obj)
			return Option{X: t}, ok
		}
	}

	return nil, false
}

func named(name string, obj Object) (Type, bool) {
	switch name {
	case "int":
		return Int{Bits: 64, Signed: true}, true
	case "float":
		return Float{Bits: 64}, true
	case "str":
		return Str{}, true
	case "bool":
		return Bool{}, true
	case "None":
		return Unit{}, true
	case "bytes", "bytearray":
		return Vec{X: Int{Bits: 8}}, true
	case "object", "Any":
		return obj, true
	case "list", "List":
		return Vec{X: obj}, true
	case "dict", "Dict":
		return Map{Key: obj, Value: obj}, true
	case "set", "Set", "frozenset":
		return Set{X: obj}, true
	case "tuple", "Tuple", "Union", "Callable":
		return nil, false
	case "":
		return nil, false
	}

	return Name(name), true
}

func subscript(x ast.Subscript, obj Object) (Type, bool) {
	args := []ast.Expr{x.Slice}
	if t, ok := x.Slice.(ast.Tuple); ok {
		args = t.Elts
	}

	ts := make([]Type, len(args))
	for i, a := range args {
		t, ok := FromAnnotation(a, obj)
		if !ok {
			return nil, false
		}

		ts[i] = t
	}

	switch typeName(x.Value) {
	case "list", "List", "Sequence", "Iterable":
		if len(ts) == 1 {
			return Vec{X: ts[0]}, true
		}
	case "dict", "Dict", "Mapping":
		if len(ts) == 2 {
			return Map{Key: ts[0], Value: ts[1]}, true
		}
	case "set", "Set", "frozenset":
		if len(ts) == 1 {
			return Set{X: ts[0]}, true
		}
	case "Optional":
		if len(ts) == 1 {
			return Option{X: ts[0]}, true
		}
	case "tuple", "Tuple":
		return Tuple(ts), true
	}

	return nil, false
}

func typeName(x ast.Expr) string {
	switch x := x.(type) {
	case ast.Name:
		return x.ID
	case ast.Attribute: // typing.List
		return x.Attr
	default:
		return ""
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
