package lambda

import (
	"time"

	"github.com/google/uuid"
	"github.com/signadot/hyperlambda/debug"
	"github.com/signadot/hyperlambda/event"
	"github.com/signadot/hyperlambda/exp"
	"github.com/signadot/hyperlambda/ir"
	"github.com/signadot/hyperlambda/thread"
)

// fork runs its code on a new goroutine and returns at once. Without a
// value the code is a copy of its children, in which data children holding
// node expressions are given references to the nodes they select, so the
// goroutine shares exactly those. With a value, each block it denotes runs
// where it is on a goroutine of its own.
//
// A fork directly inside a wait joins the wait; other forks are tracked by
// the context. Errors and panics of a fork are logged with the id of the
// fork and end only that goroutine.
func fork(ctx *event.Context, args *ir.Node) error {
	g := ctx.Group(args.Parent)
	if args.Value != nil {
		bs, err := blocks(args)
		if err != nil {
			return err
		}
		for _, b := range bs {
			spawn(ctx, g, b)
		}
		return nil
	}
	body, err := forkCopy(args)
	if err != nil {
		return err
	}
	spawn(ctx, g, body)
	return nil
}

// forkCopy copies the children of args, binding node expressions of data
// children to references.
func forkCopy(args *ir.Node) (*ir.Node, error) {
	body := ir.New(args.Name, nil)
	for _, c := range args.Children {
		cp := body.AddNode(c.Clone())
		if Executable(c.Name) {
			continue
		}
		e, ok := c.Value.(*exp.Expression)
		if !ok || e.Kind() != exp.KindNode {
			continue
		}
		m, err := e.Evaluate(c)
		if err != nil {
			return nil, event.WrapError(c, err)
		}
		cp.Value = nil
		switch len(m.Nodes) {
		case 0:
		case 1:
			cp.Value = ir.Ref{N: m.Nodes[0]}
		default:
			for _, n := range m.Nodes {
				cp.Add("", ir.Ref{N: n})
			}
		}
	}
	return body, nil
}

func spawn(ctx *event.Context, g *thread.Group, body *ir.Node) {
	id := uuid.NewString()
	fctx := ctx.Fork()
	log := ctx.Log.With("fork", id)
	g.Go(func() {
		if debug.Thread() {
			debug.Logf("fork %s started", id)
		}
		if err := isolated(fctx, body); err != nil {
			log.Error("fork failed", "error", err)
		}
		if debug.Thread() {
			debug.Logf("fork %s done", id)
		}
	}, func(err error) {
		log.Error("fork panicked", "error", err)
	})
}

// wait executes its children, then waits for the forks among them to
// finish, at most the number of milliseconds in its value when it has one.
// Forks still running after the timeout go on.
func wait(ctx *event.Context, args *ir.Node) error {
	var timeout time.Duration
	if args.Value != nil {
		d, err := duration(args)
		if err != nil {
			return err
		}
		timeout = d
	}
	g := &thread.Group{}
	defer ctx.Join(args, g)()
	err := run(ctx, args, 0)
	if !g.Wait(ctx.Std(), timeout) && debug.Thread() {
		debug.Logf("wait at %s stopped before its forks finished", args.Path())
	}
	return err
}

// lock executes its children holding the locks named by its value. Locks
// are re-entrant for the goroutine holding them.
func lock(ctx *event.Context, args *ir.Node) error {
	ns, err := names(args)
	if err != nil {
		return event.WrapError(args, err)
	}
	if len(ns) == 0 {
		return event.NewLambdaError(args, "no lock name given")
	}
	release, err := ctx.Locks().Lock(ctx.Std(), ctx.Owner(), ns...)
	if err != nil {
		return event.WrapError(args, err)
	}
	defer release()
	return run(ctx, args, 0)
}

// sleep pauses the calling goroutine for the number of milliseconds in its
// value.
func sleep(ctx *event.Context, args *ir.Node) error {
	d, err := duration(args)
	if err != nil {
		return err
	}
	if err := thread.Sleep(ctx.Std(), d); err != nil {
		return event.WrapError(args, err)
	}
	return nil
}

// duration reads a time value, or an integer number of milliseconds, from
// the value of n.
func duration(n *ir.Node) (time.Duration, error) {
	v, err := exp.Value(n)
	if err != nil {
		return 0, event.WrapError(n, err)
	}
	if d, ok := v.(time.Duration); ok {
		return d, nil
	}
	ms, err := ir.Convert[int](v)
	if err != nil {
		return 0, event.WrapError(n, err)
	}
	if ms < 0 {
		return 0, event.NewLambdaError(n, "negative duration %d", ms)
	}
	return time.Duration(ms) * time.Millisecond, nil
}
