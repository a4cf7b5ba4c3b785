// Package hyperlambda wires the interpreter, its keywords and the native
// events into ready to use contexts.
//
//	ctx := hyperlambda.New()
//	root, err := hyperlambda.Run(ctx, []byte("calc:1 + 2"))
package hyperlambda

import (
	"fmt"

	"github.com/signadot/hyperlambda/eval"
	"github.com/signadot/hyperlambda/event"
	"github.com/signadot/hyperlambda/ir"
	"github.com/signadot/hyperlambda/lambda"
	"github.com/signadot/hyperlambda/libdiff"
	"github.com/signadot/hyperlambda/parse"
)

// NewRegistry returns a registry holding the keywords and every native
// event.
func NewRegistry() *event.Registry {
	reg := event.NewRegistry()
	lambda.Register(reg)
	eval.Register(reg)
	libdiff.Register(reg)
	return reg
}

// New returns a context on a new registry from NewRegistry, evaluating
// with the lambda interpreter.
func New(opts ...event.ContextOption) *event.Context {
	opts = append([]event.ContextOption{event.WithEvaluator(lambda.Interpreter{})}, opts...)
	return event.NewContext(NewRegistry(), opts...)
}

// Run parses src and executes it in ctx. The executed tree is returned
// even when execution fails.
func Run(ctx *event.Context, src []byte) (*ir.Node, error) {
	root, err := parse.Parse(src)
	if err != nil {
		return nil, err
	}
	if err := ctx.Exec(root, 0); err != nil {
		return root, fmt.Errorf("error executing: %w", err)
	}
	return root, nil
}

// Diff returns the operations turning the children of a into those of b,
// or nil.
func Diff(a, b *ir.Node) *ir.Node {
	return libdiff.Diff(a, b)
}
