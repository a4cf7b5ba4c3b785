package parse

import (
	"github.com/signadot/hyperlambda/ir"
	"github.com/signadot/hyperlambda/token"
)

type parseOpts struct {
	positions map[*ir.Node]*token.Pos
	strict    bool
}

type ParseOption func(*parseOpts)

// ParsePositions records the position of the line of every parsed node in m.
func ParsePositions(m map[*ir.Node]*token.Pos) ParseOption {
	return func(o *parseOpts) { o.positions = m }
}

// ParseStrictTypes makes an unregistered type segment an error instead of
// part of a string value.
func ParseStrictTypes(v bool) ParseOption {
	return func(o *parseOpts) { o.strict = v }
}
