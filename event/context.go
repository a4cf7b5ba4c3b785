package event

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"time"

	"github.com/signadot/hyperlambda/debug"
	"github.com/signadot/hyperlambda/exp"
	"github.com/signadot/hyperlambda/ir"
	"github.com/signadot/hyperlambda/thread"
)

// DefaultMaxDepth bounds nested invocations in one context.
const DefaultMaxDepth = 512

// Evaluator executes lambda code. Exec runs the children of root starting
// at index from.
type Evaluator interface {
	Exec(ctx *Context, root *ir.Node, from int) error
}

// Context is the environment lambda code runs in. A Context belongs to one
// goroutine; Fork derives the context of a new one.
type Context struct {
	Registry *Registry
	Log      *slog.Logger
	// Ticket identifies the caller; it is not interpreted here.
	Ticket any
	Eval   Evaluator

	std      context.Context
	locks    *thread.Locks
	detached *thread.Group
	owner    thread.Owner
	maxDepth int

	depth int
	// base chains of the invocations in progress, innermost last
	chains [][]string
	// wait blocks in progress, innermost last
	joins []join
}

type join struct {
	node  *ir.Node
	group *thread.Group
}

type ContextOption func(*Context)

func WithLogger(l *slog.Logger) ContextOption {
	return func(c *Context) { c.Log = l }
}

func WithTicket(t any) ContextOption {
	return func(c *Context) { c.Ticket = t }
}

func WithEvaluator(e Evaluator) ContextOption {
	return func(c *Context) { c.Eval = e }
}

// WithStd sets the context.Context whose cancellation stops sleeps and
// waits.
func WithStd(std context.Context) ContextOption {
	return func(c *Context) { c.std = std }
}

func WithMaxDepth(n int) ContextOption {
	return func(c *Context) { c.maxDepth = n }
}

// NewContext creates a context raising events from reg.
func NewContext(reg *Registry, opts ...ContextOption) *Context {
	c := &Context{
		Registry: reg,
		std:      context.Background(),
		locks:    thread.NewLocks(),
		detached: &thread.Group{},
		owner:    thread.NewOwner(),
		maxDepth: DefaultMaxDepth,
	}
	for _, o := range opts {
		o(c)
	}
	if c.Log == nil {
		c.Log = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
				if a.Key == slog.TimeKey {
					return slog.Attr{}
				}
				return a
			},
		}))
	}
	return c
}

// Fork returns a context for another goroutine. It shares the registry,
// locks, logger, ticket and evaluator of c but has its own lock owner.
func (c *Context) Fork() *Context {
	return c.ForkContext(c.std)
}

// ForkContext is Fork with std replacing the context.Context of c.
func (c *Context) ForkContext(std context.Context) *Context {
	return &Context{
		Registry: c.Registry,
		Log:      c.Log,
		Ticket:   c.Ticket,
		Eval:     c.Eval,
		std:      std,
		locks:    c.locks,
		detached: c.detached,
		owner:    thread.NewOwner(),
		maxDepth: c.maxDepth,
	}
}

func (c *Context) Std() context.Context    { return c.std }
func (c *Context) Locks() *thread.Locks     { return c.locks }
func (c *Context) Owner() thread.Owner      { return c.owner }
func (c *Context) Detached() *thread.Group { return c.detached }

// Join makes g the group of forks raised directly under node until the
// returned function is called.
func (c *Context) Join(node *ir.Node, g *thread.Group) func() {
	c.joins = append(c.joins, join{node: node, group: g})
	n := len(c.joins)
	return func() { c.joins = c.joins[:n-1] }
}

// Group returns the group a fork raised directly under parent goes to: the
// group joined at parent, or the detached group of c.
func (c *Context) Group(parent *ir.Node) *thread.Group {
	for i := len(c.joins) - 1; i >= 0; i-- {
		if c.joins[i].node == parent {
			return c.joins[i].group
		}
	}
	return c.detached
}

// Wait waits for forks not joined by a wait block, at most timeout when
// positive.
func (c *Context) Wait(timeout time.Duration) bool {
	return c.detached.Wait(c.std, timeout)
}

// Raise invokes the event name with args and returns args. A nil args is
// replaced by a new node named name.
func (c *Context) Raise(name string, args *ir.Node) (*ir.Node, error) {
	if args == nil {
		args = ir.New(name, nil)
	}
	if kw := c.Registry.keyword(name); kw != nil {
		if err := c.enter(name, args); err != nil {
			return args, err
		}
		defer c.leave()
		return args, kw(c, args)
	}
	return args, c.raise(name, args, nil)
}

// enter counts one nested invocation, failing once the depth limit of c is
// reached. Each successful enter is paired with a leave.
func (c *Context) enter(name string, args *ir.Node) error {
	if c.depth >= c.maxDepth {
		return &LambdaError{Msg: fmt.Sprintf("raising %q", name), Node: args, Err: ErrDepth}
	}
	c.depth++
	return nil
}

func (c *Context) leave() { c.depth-- }

// raise resolves overrides recursively; chain holds the bases overridden on
// the way to name.
func (c *Context) raise(name string, args *ir.Node, chain []string) error {
	supers := c.Registry.Supers(name)
	if len(supers) == 0 {
		return c.raiseDirect(name, args, chain)
	}
	if slices.Contains(chain, name) {
		return &LambdaError{Msg: fmt.Sprintf("%q overrides itself", name), Node: args, Err: ErrCycle}
	}
	next := append(slices.Clone(chain), name)
	for _, s := range supers {
		if debug.Event() {
			debug.Logf("%q overridden by %q", name, s)
		}
		if err := c.raise(s, args, next); err != nil {
			return err
		}
	}
	return nil
}

// raiseDirect invokes the handlers of name without looking at overrides.
func (c *Context) raiseDirect(name string, args *ir.Node, chain []string) error {
	natives, bodies := c.Registry.handlers(name)
	if len(natives) == 0 && len(bodies) == 0 {
		if debug.Event() {
			debug.Logf("no handler for %q", name)
		}
		return nil
	}
	if err := c.enter(name, args); err != nil {
		return err
	}
	c.chains = append(c.chains, chain)
	defer func() {
		c.leave()
		c.chains = c.chains[:len(c.chains)-1]
	}()
	for _, f := range natives {
		if err := f(c, args); err != nil {
			return WrapError(args, err)
		}
	}
	for _, b := range bodies {
		if err := c.invokeLambda(b, args); err != nil {
			return err
		}
	}
	return nil
}

// Base returns the event the current handler overrides, if any.
func (c *Context) Base() string {
	if len(c.chains) == 0 {
		return ""
	}
	chain := c.chains[len(c.chains)-1]
	if len(chain) == 0 {
		return ""
	}
	return chain[len(chain)-1]
}

// CallBase invokes the handlers of the event the current handler overrides,
// bypassing the overrides which led here. It does nothing outside an
// overriding handler.
func (c *Context) CallBase(args *ir.Node) error {
	if len(c.chains) == 0 {
		return nil
	}
	chain := c.chains[len(c.chains)-1]
	if len(chain) == 0 {
		return nil
	}
	base := chain[len(chain)-1]
	return c.raiseDirect(base, args, chain[:len(chain)-1])
}

// Exec runs the children of root from index from with the context's
// evaluator.
func (c *Context) Exec(root *ir.Node, from int) error {
	if c.Eval == nil {
		return ErrNoEvaluator
	}
	return c.Eval.Exec(c, root, from)
}

// invokeLambda runs a copy of body on a detached root holding the children
// of args. Expression values of args are passed as "_arg" children. When
// the body is done, the children left on the root go back to args, and a
// value left on the root becomes the value of args.
func (c *Context) invokeLambda(body, args *ir.Node) error {
	root := ir.New(args.Name, args.Value)
	var scratch []*ir.Node
	switch v := args.Value.(type) {
	case *exp.Expression:
		m, err := v.Evaluate(args)
		if err != nil {
			return WrapError(args, err)
		}
		vals, err := m.Values()
		if err != nil {
			return WrapError(args, err)
		}
		root.Value = nil
		for _, x := range vals {
			scratch = append(scratch, ir.New("_arg", x))
		}
	case string:
		if exp.HasFormat(args) {
			s, err := exp.FormatNode(args)
			if err != nil {
				return WrapError(args, err)
			}
			root.Value = s
		}
	}
	kids := args.Children
	args.Clear()
	root.AddNodes(kids...)
	root.AddNodes(scratch...)
	from := root.Len()
	code := body.CloneChildren()
	scratch = append(scratch, code...)
	root.AddNodes(code...)

	if debug.Eval() {
		debug.Logf("invoke %q with\n%s", args.Name, root)
	}
	err := c.Exec(root, from)

	for _, n := range scratch {
		if n.Parent == root {
			n.Untie()
		}
	}
	kids = root.Children
	root.Clear()
	args.AddNodes(kids...)
	if root.Value != nil {
		args.Value = root.Value
	}
	return err
}
