package back

type (
	ContextKind uint8

	// Context is the environment a node is translated in.
	// It's passed by value and never stored on the tree.
	Context struct {
		Kind ContextKind
		Func string
	}
)

const (
	Module ContextKind = iota
	Sync
	Async
)

func ModuleContext() Context {
	return Context{Kind: Module}
}

func SyncContext(fn string) Context {
	return Context{Kind: Sync, Func: fn}
}

func AsyncContext(fn string) Context {
	return Context{Kind: Async, Func: fn}
}

func (c Context) IsAsync() bool {
	return c.Kind == Async
}

func (c Context) String() string {
	switch c.Kind {
	case Module:
		return "module"
	case Sync:
		return "sync(" + c.Func + ")"
	case Async:
		return "async(" + c.Func + ")"
	default:
		return "invalid"
	}
}
