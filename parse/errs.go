package parse

import (
	"errors"
	"fmt"

	"github.com/signadot/hyperlambda/token"
)

var (
	ErrParse  = errors.New("parse error")
	ErrIndent = fmt.Errorf("%w: bad indentation", ErrParse)
	ErrLine   = fmt.Errorf("%w: malformed line", ErrParse)
)

func posErr(e error, p *token.Pos) error {
	if p == nil {
		return e
	}
	return fmt.Errorf("%w at %s", e, p.String())
}
