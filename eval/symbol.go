package eval

import (
	"github.com/signadot/hyperlambda/event"
	"github.com/signadot/hyperlambda/ir"
)

// Symbol is a native event implemented in Go. Handle reads its arguments
// from args and leaves its result there.
type Symbol interface {
	String() string
	Handle(ctx *event.Context, args *ir.Node) error
}

type name string

func (s name) String() string {
	return string(s)
}
