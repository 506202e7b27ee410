package back

import (
	"fmt"

	"tlog.app/go/errors"

	"github.com/slowlang/pyrs/compiler/ast"
)

type (
	// UnsupportedError is returned for nodes having no rust counterpart.
	UnsupportedError struct {
		Node   ast.Node
		Reason string
	}
)

var ErrEmptyBody = errors.New("function body is empty")

func NewUnsupported(x ast.Node, reason string) UnsupportedError {
	return UnsupportedError{
		Node:   x,
		Reason: reason,
	}
}

func (e UnsupportedError) Error() string {
	return fmt.Sprintf("unsupported %v: %v", e.Reason, ast.Dump(e.Node))
}
