package lambda

import (
	"slices"
	"strings"

	"github.com/signadot/hyperlambda/event"
	"github.com/signadot/hyperlambda/ir"
)

// eventNames returns the names in the value of args, requiring at least
// one.
func eventNames(args *ir.Node) ([]string, error) {
	ns, err := names(args)
	if err != nil {
		return nil, event.WrapError(args, err)
	}
	if len(ns) == 0 {
		return nil, event.NewLambdaError(args, "no event name given")
	}
	return ns, nil
}

// setEvent declares its children as the lambda handler of each event named
// by its value. An "overrides" child makes the event override the events
// it names and a true "protected" child closes the event to changes. An
// event without code is removed.
func setEvent(ctx *event.Context, args *ir.Node) error {
	evs, err := eventNames(args)
	if err != nil {
		return err
	}
	prot := event.LambdaOpen
	var bases []string
	body := ir.New("", nil)
	for _, c := range args.Children {
		switch c.Name {
		case "protected":
			p, err := ir.Get[bool](c)
			if err != nil {
				return event.WrapError(c, err)
			}
			if p {
				prot = event.LambdaClosed
			}
		case "overrides":
			ns, err := names(c)
			if err != nil {
				return event.WrapError(c, err)
			}
			bases = append(bases, ns...)
		default:
			body.AddNode(c.Clone())
		}
	}
	reg := ctx.Registry
	for _, name := range evs {
		if body.Len() == 0 {
			if _, err := reg.RemoveLambda(name); err != nil {
				return err
			}
			continue
		}
		if err := reg.SetLambda(name, []*ir.Node{body}, prot); err != nil {
			return err
		}
		for _, b := range bases {
			if err := reg.Override(b, name); err != nil {
				return err
			}
		}
	}
	return nil
}

// removeEvent removes the lambda handlers of the events named by its value.
func removeEvent(ctx *event.Context, args *ir.Node) error {
	evs, err := eventNames(args)
	if err != nil {
		return err
	}
	for _, name := range evs {
		if _, err := ctx.Registry.RemoveLambda(name); err != nil {
			return err
		}
	}
	return nil
}

// getEvent replaces its children with one child per lambda handler of the
// events named by its value, holding a copy of the handler's code.
func getEvent(ctx *event.Context, args *ir.Node) error {
	evs, err := eventNames(args)
	if err != nil {
		return err
	}
	args.Clear()
	for _, name := range evs {
		for _, b := range ctx.Registry.Lambda(name) {
			args.Add(name, nil).AddNodes(b.Children...)
		}
	}
	return nil
}

// listEvents replaces its children with the events whose names contain one
// of the filters in its value, named by kind: "keyword", "native" or
// "lambda". Names starting with '_' are private and not listed. A value
// denoting no filter lists nothing.
func listEvents(ctx *event.Context, args *ir.Node) error {
	filters, err := names(args)
	if err != nil {
		return event.WrapError(args, err)
	}
	args.Clear()
	if args.Value != nil && len(filters) == 0 {
		return nil
	}
	reg := ctx.Registry
	list := func(kind string, ns []string) {
		for _, n := range ns {
			if strings.HasPrefix(n, "_") {
				continue
			}
			if len(filters) > 0 && !slices.ContainsFunc(filters, func(f string) bool {
				return strings.Contains(n, f)
			}) {
				continue
			}
			args.Add(kind, n)
		}
	}
	list("keyword", reg.Keywords())
	list("native", reg.NativeNames())
	list("lambda", reg.LambdaNames())
	return nil
}

// overridePairs returns the bases named by the value of args and the
// supers named by its "with" children.
func overridePairs(args *ir.Node) ([]string, []string, error) {
	bases, err := eventNames(args)
	if err != nil {
		return nil, nil, err
	}
	var supers []string
	for _, c := range args.Children {
		if c.Name != "with" {
			continue
		}
		ns, err := names(c)
		if err != nil {
			return nil, nil, event.WrapError(c, err)
		}
		supers = append(supers, ns...)
	}
	if len(supers) == 0 {
		return nil, nil, event.NewLambdaError(args, "no event given to override with")
	}
	return bases, supers, nil
}

// override makes every base named by its value invoke every super named by
// its "with" children instead.
func override(ctx *event.Context, args *ir.Node) error {
	bases, supers, err := overridePairs(args)
	if err != nil {
		return err
	}
	for _, b := range bases {
		for _, s := range supers {
			if err := ctx.Registry.Override(b, s); err != nil {
				return err
			}
		}
	}
	return nil
}

func removeOverride(ctx *event.Context, args *ir.Node) error {
	bases, supers, err := overridePairs(args)
	if err != nil {
		return err
	}
	for _, b := range bases {
		for _, s := range supers {
			if err := ctx.Registry.RemoveOverride(b, s); err != nil {
				return err
			}
		}
	}
	return nil
}

// listOverrides replaces its children with one child per overridden event
// whose name contains a filter from its value, holding a "with" child per
// super.
func listOverrides(ctx *event.Context, args *ir.Node) error {
	filters, err := names(args)
	if err != nil {
		return event.WrapError(args, err)
	}
	args.Clear()
	ovs := ctx.Registry.Overrides()
	bases := make([]string, 0, len(ovs))
	for b := range ovs {
		if len(filters) == 0 || slices.ContainsFunc(filters, func(f string) bool {
			return strings.Contains(b, f)
		}) {
			bases = append(bases, b)
		}
	}
	slices.Sort(bases)
	for _, b := range bases {
		n := args.Add(b, nil)
		for _, s := range ovs[b] {
			n.Add("with", s)
		}
	}
	return nil
}

// callBase invokes the event overridden by the handler being executed,
// with args as arguments.
func callBase(ctx *event.Context, args *ir.Node) error {
	return ctx.CallBase(args)
}
