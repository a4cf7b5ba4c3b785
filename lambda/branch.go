package lambda

import (
	"strings"

	"github.com/signadot/hyperlambda/event"
	"github.com/signadot/hyperlambda/exp"
	"github.com/signadot/hyperlambda/ir"
)

var comparisons = map[string]func(c int, ok bool) bool{
	"=":      func(c int, ok bool) bool { return ok && c == 0 },
	"equals": func(c int, ok bool) bool { return ok && c == 0 },
	"!=":     func(c int, ok bool) bool { return !ok || c != 0 },
	"<":      func(c int, ok bool) bool { return ok && c < 0 },
	">":      func(c int, ok bool) bool { return ok && c > 0 },
	"<=":     func(c int, ok bool) bool { return ok && c <= 0 },
	">=":     func(c int, ok bool) bool { return ok && c >= 0 },
}

func isOperator(name string) bool {
	if _, ok := comparisons[name]; ok {
		return true
	}
	switch name {
	case "~", "!~", "and", "or", "not":
		return true
	}
	return false
}

// exists is the truth of a list of values: no values are false, one value
// has its own truth and several values are true.
func exists(vs []any) bool {
	switch len(vs) {
	case 0:
		return false
	case 1:
		return ir.Truth(vs[0])
	}
	return true
}

// compareValues orders two lists of values. Lists of nulls are equal,
// shorter lists come first and otherwise the first differing items decide.
// ok is false when items of different types meet.
func compareValues(lhs, rhs []any) (int, bool) {
	if allNil(lhs) && allNil(rhs) {
		return 0, true
	}
	if len(lhs) != len(rhs) {
		if len(lhs) < len(rhs) {
			return -1, true
		}
		return 1, true
	}
	for i := range lhs {
		c, ok := ir.Compare(lhs[i], rhs[i])
		if !ok || c != 0 {
			return c, ok
		}
	}
	return 0, true
}

func allNil(vs []any) bool {
	for _, v := range vs {
		if v != nil {
			return false
		}
	}
	return true
}

func joined(vs []any) (string, error) {
	v, err := ir.Concat(vs)
	if err != nil {
		return "", err
	}
	return ir.ToString(v)
}

// condition evaluates the condition of a branching or looping node and
// returns the index of its first body child.
//
// The left hand side is the value of n or, when n has no value, the result
// of raising its first child. Operator children follow: comparisons of the
// left hand side with their own value, "and" and "or" with a nested
// condition of their own, and "not". Each operator combines with the result
// so far, left to right, and all operands are evaluated.
func condition(ctx *event.Context, n *ir.Node) (bool, int, error) {
	var (
		lhs []any
		i   int
		err error
	)
	if n.Value == nil {
		for i < n.Len() && n.Children[i].Name == "" {
			i++
		}
		if i == n.Len() {
			return false, 0, event.NewLambdaError(n, "nothing to use as a condition")
		}
		v, kids, err := raiseSource(ctx, n.Children[i])
		if err != nil {
			return false, 0, err
		}
		if v == nil && len(kids) > 0 {
			v = kids[0]
		}
		lhs = []any{v}
		i++
	} else if lhs, err = exp.Values(n); err != nil {
		return false, 0, event.WrapError(n, err)
	}
	res := exists(lhs)
	for ; i < n.Len(); i++ {
		c := n.Children[i]
		if c.Name == "" {
			continue
		}
		if !isOperator(c.Name) {
			break
		}
		if res, err = operator(ctx, c, lhs, res); err != nil {
			return false, 0, err
		}
	}
	return res, i, nil
}

func operator(ctx *event.Context, c *ir.Node, lhs []any, res bool) (bool, error) {
	switch c.Name {
	case "and", "or":
		sub, _, err := condition(ctx, c)
		if err != nil {
			return false, err
		}
		if c.Name == "and" {
			return res && sub, nil
		}
		return res || sub, nil
	case "not":
		if c.Value != nil || c.Len() > 0 {
			return false, event.NewLambdaError(c, "not takes no arguments")
		}
		return !res, nil
	}
	rhs, err := exp.Values(c)
	if err != nil {
		return false, event.WrapError(c, err)
	}
	if cmp, ok := comparisons[c.Name]; ok {
		return cmp(compareValues(lhs, rhs)), nil
	}
	l, err := joined(lhs)
	if err != nil {
		return false, err
	}
	r, err := joined(rhs)
	if err != nil {
		return false, err
	}
	found := strings.Contains(l, r)
	if c.Name == "!~" {
		return !found, nil
	}
	return found, nil
}

// ifKeyword evaluates the chain of conditions starting at args, made of
// args and the "else-if" and "else" siblings following it, and executes the
// body of the first one which holds.
func ifKeyword(ctx *event.Context, args *ir.Node) error {
	for n := args; n != nil; n = n.Next() {
		if n != args && n.Name != "else-if" && n.Name != "else" {
			return nil
		}
		if n.Name == "else" {
			if n.Value != nil {
				return event.NewLambdaError(n, "else takes no condition")
			}
			return run(ctx, n, 0)
		}
		ok, start, err := condition(ctx, n)
		if err != nil {
			return err
		}
		if ok {
			return run(ctx, n, start)
		}
	}
	return nil
}

// elseKeyword is reached once the preceding "if" has run the chain; it only
// checks that there is one.
func elseKeyword(_ *event.Context, args *ir.Node) error {
	prev := args.Prev()
	if prev == nil || (prev.Name != "if" && prev.Name != "else-if") {
		return event.NewLambdaError(args, "%s must follow if or else-if", args.Name)
	}
	return nil
}

// switchKeyword executes the first "case" whose value equals its own, or
// its "default". A matching case without children falls through to the
// next one with children.
func switchKeyword(ctx *event.Context, args *ir.Node) error {
	var def *ir.Node
	for _, c := range args.Children {
		switch c.Name {
		case "", "case":
		case "default":
			if def != nil {
				return event.NewLambdaError(args, "more than one default")
			}
			def = c
		default:
			return event.NewLambdaError(c, "only case and default may be children of switch")
		}
	}
	v, err := exp.Value(args)
	if err != nil {
		return event.WrapError(args, err)
	}
	match := def
	for _, c := range args.Children {
		if c.Name != "case" {
			continue
		}
		cv, err := exp.Value(c)
		if err != nil {
			return event.WrapError(c, err)
		}
		if ir.Equal(v, cv) {
			match = c
			break
		}
	}
	for match != nil && match.Len() == 0 {
		match = match.Next()
	}
	if match == nil {
		return nil
	}
	return run(ctx, match, 0)
}

// caseKeyword checks that a case or default sits in a switch.
func caseKeyword(_ *event.Context, args *ir.Node) error {
	if args.Parent == nil || args.Parent.Name != "switch" {
		return event.NewLambdaError(args, "%s outside of switch", args.Name)
	}
	return nil
}
