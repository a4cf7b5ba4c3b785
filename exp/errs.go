package exp

import (
	"errors"
	"fmt"
)

var (
	ErrSyntax   = errors.New("expression syntax error")
	ErrReadOnly = errors.New("read only match")
	ErrSource   = errors.New("bad node source")
)

// Error reports a problem with a specific expression.
type Error struct {
	Expr string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %q", e.Err.Error(), e.Expr)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func syntaxErr(expr, format string, args ...any) error {
	return &Error{Expr: expr, Err: fmt.Errorf("%w: %s", ErrSyntax, fmt.Sprintf(format, args...))}
}
