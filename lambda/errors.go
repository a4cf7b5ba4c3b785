package lambda

import (
	"context"
	"errors"

	"github.com/signadot/hyperlambda/event"
	"github.com/signadot/hyperlambda/exp"
	"github.com/signadot/hyperlambda/ir"
)

// throw fails with the value of args as message.
func throw(_ *event.Context, args *ir.Node) error {
	v, err := exp.Value(args)
	if err != nil {
		return event.WrapError(args, err)
	}
	msg := "no message"
	if v != nil {
		msg = ir.MustString(v)
	}
	return event.NewLambdaError(args, "%s", msg)
}

// try executes its children. When they fail and a "catch" sibling follows,
// the catch block runs with "message" and "type" children describing the
// error, which are removed afterwards; a "finally" sibling after either runs
// in every case. Security errors and cancellation are never caught.
func try(ctx *event.Context, args *ir.Node) error {
	err := run(ctx, args, 0)
	next := args.Next()
	if next != nil && next.Name == "catch" {
		if caught(err) {
			err = catchBlock(ctx, next, err)
		}
		next = next.Next()
	}
	if next != nil && next.Name == "finally" {
		if ferr := run(ctx, next, 0); ferr != nil {
			return ferr
		}
	}
	return err
}

func caught(err error) bool {
	if err == nil || event.IsSecurity(err) {
		return false
	}
	if _, ok := asSignal(err); ok {
		return false
	}
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

func catchBlock(ctx *event.Context, c *ir.Node, cause error) error {
	kind, text := "error", cause.Error()
	var le *event.LambdaError
	if errors.As(cause, &le) {
		kind, text = "lambda", le.Msg
	}
	msg := c.Insert(0, ir.New("message", text))
	typ := c.Insert(1, ir.New("type", kind))
	defer func() {
		msg.Untie()
		typ.Untie()
	}()
	return run(ctx, c, 2)
}

// tryFollower is reached after try ran its catch and finally siblings.
func tryFollower(_ *event.Context, args *ir.Node) error {
	p := args.Prev()
	if p != nil && p.Name == "catch" && args.Name == "finally" {
		p = p.Prev()
	}
	if p == nil || p.Name != "try" {
		return event.NewLambdaError(args, "%s must follow try", args.Name)
	}
	return nil
}
