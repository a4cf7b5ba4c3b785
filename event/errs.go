package event

import (
	"errors"
	"fmt"

	"github.com/signadot/hyperlambda/ir"
)

var (
	ErrNoEvaluator = errors.New("context has no evaluator")
	ErrDepth       = errors.New("maximum invocation depth exceeded")
	ErrCycle       = errors.New("override cycle")
)

// LambdaError reports a syntax or semantic error in lambda code, at the node
// being executed.
type LambdaError struct {
	Msg  string
	Node *ir.Node
	Err  error
}

func NewLambdaError(n *ir.Node, format string, args ...any) *LambdaError {
	return &LambdaError{Msg: fmt.Sprintf(format, args...), Node: n}
}

// WrapError attaches n to err unless err already carries a node or is a
// security error.
func WrapError(n *ir.Node, err error) error {
	if err == nil {
		return nil
	}
	var le *LambdaError
	if errors.As(err, &le) {
		return err
	}
	var se *SecurityError
	if errors.As(err, &se) {
		return err
	}
	return &LambdaError{Msg: err.Error(), Node: n, Err: err}
}

func (e *LambdaError) Error() string {
	if e.Node == nil {
		return e.Msg
	}
	return fmt.Sprintf("[%s] at %s: %s", e.Node.Name, e.Node.Path(), e.Msg)
}

func (e *LambdaError) Unwrap() error {
	return e.Err
}

// SecurityError reports an attempt to change a protected event.
type SecurityError struct {
	Msg  string
	Name string
}

func (e *SecurityError) Error() string {
	return fmt.Sprintf("security violation on event %q: %s", e.Name, e.Msg)
}

// IsSecurity reports whether err is or wraps a *SecurityError.
func IsSecurity(err error) bool {
	var se *SecurityError
	return errors.As(err, &se)
}
