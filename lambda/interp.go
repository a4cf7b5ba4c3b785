package lambda

import (
	"errors"
	"maps"
	"slices"
	"strings"

	"github.com/signadot/hyperlambda/debug"
	"github.com/signadot/hyperlambda/event"
	"github.com/signadot/hyperlambda/ir"
)

// signal interrupts the execution of a block. Signals travel as errors up
// to the construct which consumes them and are never wrapped.
type signal int

const (
	sigBreak signal = iota + 1
	sigContinue
	sigReturn
)

func (s signal) Error() string {
	switch s {
	case sigBreak:
		return "break outside of a loop"
	case sigContinue:
		return "continue outside of a loop"
	}
	return "return"
}

func asSignal(err error) (signal, bool) {
	var s signal
	if errors.As(err, &s) {
		return s, true
	}
	return 0, false
}

// Interpreter executes lambda code. The zero value is ready to use.
type Interpreter struct{}

// Exec runs the children of root from index from. A return, break or
// continue not consumed by a loop ends the execution without error.
func (Interpreter) Exec(ctx *event.Context, root *ir.Node, from int) error {
	err := run(ctx, root, from)
	if _, ok := asSignal(err); ok {
		return nil
	}
	return err
}

// Executable reports whether a child named name is executed rather than
// skipped as data.
func Executable(name string) bool {
	return name != "" && !strings.HasPrefix(name, "_")
}

// run executes the children of parent from index from. The cursor follows
// the executed node, so a statement may remove itself or any other node and
// nodes appended while running are executed in turn.
func run(ctx *event.Context, parent *ir.Node, from int) error {
	i := from
	for i < parent.Len() {
		if err := ctx.Std().Err(); err != nil {
			return event.WrapError(parent, err)
		}
		n := parent.Children[i]
		if !Executable(n.Name) {
			i++
			continue
		}
		if debug.Eval() {
			debug.Logf("exec %s %s", n.Path(), n.Name)
		}
		if _, err := ctx.Raise(n.Name, n); err != nil {
			if _, ok := asSignal(err); ok {
				return err
			}
			return event.WrapError(n, err)
		}
		if n.Parent == parent {
			i = n.ParentIndex + 1
		}
	}
	return nil
}

// statement raises n regardless of its name.
func statement(ctx *event.Context, n *ir.Node) error {
	if _, err := ctx.Raise(n.Name, n); err != nil {
		if _, ok := asSignal(err); ok {
			return err
		}
		return event.WrapError(n, err)
	}
	return nil
}

var keywords = map[string]event.Func{}

func keyword(f event.Func, names ...string) {
	for _, name := range names {
		keywords[name] = f
	}
}

func init() {
	keyword(set, "set")
	keyword(add, "add", "append")
	keyword(insertBefore, "insert-before")
	keyword(insertAfter, "insert-after")
	keyword(nop, "src", "source", "rel-src", "rel-source", "with")

	keyword(ifKeyword, "if")
	keyword(elseKeyword, "else-if", "else")
	keyword(switchKeyword, "switch")
	keyword(caseKeyword, "case", "default")

	keyword(while, "while")
	keyword(forEach, "for-each")
	keyword(breakKeyword, "break")
	keyword(continueKeyword, "continue")
	keyword(returnKeyword, "return")

	keyword(lambdaKeyword, "lambda")
	keyword(lambdaCopy, "lambda.copy")
	keyword(lambdaImmutable, "lambda.immutable")
	keyword(lambdaSingle, "lambda.single")
	keyword(fetch, "fetch", "retrieve")

	keyword(setEvent, "event", "set-event")
	keyword(removeEvent, "remove-event", "delete-event")
	keyword(getEvent, "get-event")
	keyword(listEvents, "list-events")
	keyword(override, "override")
	keyword(removeOverride, "remove-override", "delete-override")
	keyword(listOverrides, "list-overrides")
	keyword(callBase, "call-base")

	keyword(throw, "throw")
	keyword(try, "try")
	keyword(tryFollower, "catch", "finally")

	keyword(fork, "fork", "lambda.fork")
	keyword(wait, "wait")
	keyword(lock, "lock")
	keyword(sleep, "sleep")
}

// Register installs the keywords in reg.
func Register(reg *event.Registry) {
	for name, f := range keywords {
		reg.Keyword(name, f)
	}
}

// Keywords returns the sorted keyword names.
func Keywords() []string {
	return slices.Sorted(maps.Keys(keywords))
}

// nop is the handler of argument nodes which the keyword owning them reads.
func nop(*event.Context, *ir.Node) error { return nil }
