package ast

type (
	Node interface {
	}

	// Stmt is implemented by statement nodes only.
	Stmt interface {
		Node
		stmt()
	}

	// Expr is implemented by expression nodes only.
	Expr interface {
		Node
		expr()
	}

	Module struct {
		Body []Stmt
	}

	FunctionDef struct {
		Name       string
		Args       Arguments
		Body       []Stmt
		Decorators []string
		Returns    Expr
	}

	// AsyncFunctionDef is an `async def`. The definition itself is the same,
	// the async qualifier comes from the context it's translated in.
	AsyncFunctionDef struct {
		FunctionDef
	}

	Arguments struct {
		Params []Param
	}

	Param struct {
		Name       string
		Annotation Expr
		Default    Expr
		Kind       ParamKind
	}

	ParamKind int

	ExprStmt struct {
		Value Expr
	}

	Assign struct {
		Targets []Expr
		Value   Expr
	}

	AugAssign struct {
		Target Expr
		Op     Op
		Value  Expr
	}

	AnnAssign struct {
		Target     Expr
		Annotation Expr
		Value      Expr
	}

	Return struct {
		Value Expr
	}

	If struct {
		Test   Expr
		Body   []Stmt
		Orelse []Stmt
	}

	While struct {
		Test   Expr
		Body   []Stmt
		Orelse []Stmt
	}

	For struct {
		Target Expr
		Iter   Expr
		Body   []Stmt
		Orelse []Stmt
	}

	Pass     struct{}
	Break    struct{}
	Continue struct{}

	Raise struct {
		Exc Expr
	}

	Assert struct {
		Test Expr
		Msg  Expr
	}

	ClassDef struct {
		Name string
		Body []Stmt
	}

	Import struct {
		Names []Alias
	}

	ImportFrom struct {
		Module string
		Names  []Alias
	}

	Alias struct {
		Name   string
		AsName string
	}

	Global struct {
		Names []string
	}

	Nonlocal struct {
		Names []string
	}

	Delete struct {
		Targets []Expr
	}

	Try struct {
		Body      []Stmt
		Orelse    []Stmt
		Finalbody []Stmt
	}

	With struct {
		Items []Expr
		Body  []Stmt
	}

	Constant struct {
		Kind  ConstKind
		Value string
	}

	ConstKind int

	Name struct {
		ID string
	}

	BinOp struct {
		Left  Expr
		Op    Op
		Right Expr
	}

	UnaryOp struct {
		Op      Op
		Operand Expr
	}

	BoolOp struct {
		Op     Op
		Values []Expr
	}

	Compare struct {
		Left        Expr
		Ops         []Op
		Comparators []Expr
	}

	Call struct {
		Func     Expr
		Args     []Expr
		Keywords []Keyword
	}

	Keyword struct {
		Arg   string
		Value Expr
	}

	Attribute struct {
		Value Expr
		Attr  string
	}

	Subscript struct {
		Value Expr
		Slice Expr
	}

	List struct {
		Elts []Expr
	}

	Tuple struct {
		Elts []Expr
	}

	Await struct {
		Value Expr
	}

	Lambda struct {
		Args Arguments
		Body Expr
	}

	Dict struct {
		Keys   []Expr
		Values []Expr
	}

	JoinedStr struct {
		Values []Expr
	}

	// Op is an operator named after its python ast class.
	Op string
)

const (
	ParamPositional ParamKind = iota
	ParamPosOnly
	ParamVarArgs
	ParamKwOnly
	ParamKwArgs
)

const (
	ConstNone ConstKind = iota
	ConstBool
	ConstInt
	ConstFloat
	ConstStr
)

const (
	Add      Op = "Add"
	Sub      Op = "Sub"
	Mult     Op = "Mult"
	MatMult  Op = "MatMult"
	Div      Op = "Div"
	FloorDiv Op = "FloorDiv"
	Mod      Op = "Mod"
	Pow      Op = "Pow"
	LShift   Op = "LShift"
	RShift   Op = "RShift"
	BitOr    Op = "BitOr"
	BitXor   Op = "BitXor"
	BitAnd   Op = "BitAnd"

	And Op = "And"
	Or  Op = "Or"

	Not    Op = "Not"
	Invert Op = "Invert"
	UAdd   Op = "UAdd"
	USub   Op = "USub"

	Eq    Op = "Eq"
	NotEq Op = "NotEq"
	Lt    Op = "Lt"
	LtE   Op = "LtE"
	Gt    Op = "Gt"
	GtE   Op = "GtE"
	Is    Op = "Is"
	IsNot Op = "IsNot"
	In    Op = "In"
	NotIn Op = "NotIn"
)

func (FunctionDef) stmt()      {}
func (AsyncFunctionDef) stmt() {}
func (ExprStmt) stmt()         {}
func (Assign) stmt()           {}
func (AugAssign) stmt()        {}
func (AnnAssign) stmt()        {}
func (Return) stmt()           {}
func (If) stmt()               {}
func (While) stmt()            {}
func (For) stmt()              {}
func (Pass) stmt()             {}
func (Break) stmt()            {}
func (Continue) stmt()         {}
func (Raise) stmt()            {}
func (Assert) stmt()           {}
func (ClassDef) stmt()         {}
func (Import) stmt()           {}
func (ImportFrom) stmt()       {}
func (Global) stmt()           {}
func (Nonlocal) stmt()         {}
func (Delete) stmt()           {}
func (Try) stmt()              {}
func (With) stmt()             {}

func (Constant) expr()  {}
func (Name) expr()      {}
func (BinOp) expr()     {}
func (UnaryOp) expr()   {}
func (BoolOp) expr()    {}
func (Compare) expr()   {}
func (Call) expr()      {}
func (Attribute) expr() {}
func (Subscript) expr() {}
func (List) expr()      {}
func (Tuple) expr()     {}
func (Await) expr()     {}
func (Lambda) expr()    {}
func (Dict) expr()      {}
func (JoinedStr) expr() {}

// Clone returns a copy of the definition sharing no slices with f.
// Statements themselves are immutable values and are shared.
func (f FunctionDef) Clone() FunctionDef {
	c := f

	c.Args.Params = append([]Param(nil), f.Args.Params...)
	c.Body = append([]Stmt(nil), f.Body...)
	c.Decorators = append([]string(nil), f.Decorators...)

	return c
}

// Docstring returns the leading string constant of the body if there is one.
func (f FunctionDef) Docstring() (string, bool) {
	if len(f.Body) == 0 {
		return "", false
	}

	s, ok := f.Body[0].(ExprStmt)
	if !ok {
		return "", false
	}

	c, ok := s.Value.(Constant)
	if !ok {
		return "", false
	}

	return c.String(), true
}

// String is the textual form of the constant value.
// Strings are not quoted.
func (c Constant) String() string {
	switch c.Kind {
	case ConstNone:
		return "None"
	case ConstBool:
		if c.Value == "True" || c.Value == "true" {
			return "True"
		}

		return "False"
	default:
		return c.Value
	}
}

func (k ParamKind) String() string {
	switch k {
	case ParamPositional:
		return "positional"
	case ParamPosOnly:
		return "posonly"
	case ParamVarArgs:
		return "vararg"
	case ParamKwOnly:
		return "kwonly"
	case ParamKwArgs:
		return "kwarg"
	default:
		return "invalid"
	}
}
