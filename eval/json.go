package eval

import (
	"bytes"
	"encoding/json"

	"github.com/signadot/hyperlambda/debug"
	"github.com/signadot/hyperlambda/event"
	"github.com/signadot/hyperlambda/exp"
	"github.com/signadot/hyperlambda/ir"

	jsonpatch "github.com/evanphx/json-patch"
)

// content returns the plain data an encoder writes for args: the content of
// the nodes its expression denotes, a list of them when there are several,
// the content of the nodes parsed from its text value, or else the content
// of args itself.
func content(args *ir.Node) (any, error) {
	switch args.Value.(type) {
	case nil:
		return ToJSONAny(args), nil
	case *exp.Expression:
		ns, err := inputNodes(args)
		if err != nil {
			return nil, err
		}
		if len(ns) == 1 {
			return ToJSONAny(ns[0]), nil
		}
		res := make([]any, len(ns))
		for i, n := range ns {
			res[i] = ToJSONAny(n)
		}
		return res, nil
	}
	v, err := exp.Value(args)
	if err != nil {
		return nil, err
	}
	n, err := ir.ToNode(v)
	if err != nil {
		return nil, err
	}
	return ToJSONAny(n), nil
}

// jsonText returns the JSON document held by n: JSON text in its value or
// the content of the nodes it denotes.
func jsonText(n *ir.Node) ([]byte, error) {
	switch x := n.Value.(type) {
	case nil:
	case *exp.Expression:
		if x.Kind() != exp.KindNode {
			s, err := text(n)
			return []byte(s), err
		}
	default:
		s, err := text(n)
		return []byte(s), err
	}
	v, err := content(n)
	if err != nil {
		return nil, err
	}
	buf := bytes.NewBuffer(nil)
	if err := writeJSON(buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

var lambdaToJSONSym = &lambdaToJSONSymbol{name: lambdaToJSONName}

// LambdaToJSON encodes nodes as JSON. Named children become object fields
// and anonymous children array elements, in order. A true "indent" child
// indents the output.
func LambdaToJSON() Symbol {
	return lambdaToJSONSym
}

const (
	lambdaToJSONName name = "lambda2json"
)

type lambdaToJSONSymbol struct {
	name
}

func (s lambdaToJSONSymbol) Handle(_ *event.Context, args *ir.Node) error {
	if debug.Native() {
		debug.Logf("lambda2json on %s", args.Path())
	}
	indent := ir.ChildValue(args, "indent", false)
	if c := args.Child("indent"); c != nil {
		c.Untie()
	}
	v, err := content(args)
	if err != nil {
		return err
	}
	buf := bytes.NewBuffer(nil)
	if err := writeJSON(buf, v); err != nil {
		return err
	}
	out := buf.String()
	if indent {
		ind := bytes.NewBuffer(nil)
		if err := json.Indent(ind, buf.Bytes(), "", "  "); err != nil {
			return err
		}
		out = ind.String()
	}
	setResult(args, out)
	return nil
}

var jsonToLambdaSym = &jsonToLambdaSymbol{name: jsonToLambdaName}

// JSONToLambda decodes the JSON text in its value into its children.
func JSONToLambda() Symbol {
	return jsonToLambdaSym
}

const (
	jsonToLambdaName name = "json2lambda"
)

type jsonToLambdaSymbol struct {
	name
}

func (s jsonToLambdaSymbol) Handle(_ *event.Context, args *ir.Node) error {
	return decodeInto(args, s.String())
}

// decodeInto replaces the arguments of args with the nodes decoded from the
// JSON or YAML text in its value.
func decodeInto(args *ir.Node, op string) error {
	if debug.Native() {
		debug.Logf("%s on %s", op, args.Path())
	}
	src, err := text(args)
	if err != nil {
		return err
	}
	v, err := unmarshal([]byte(src))
	if err != nil {
		return event.WrapError(args, err)
	}
	n, err := FromAny(v)
	if err != nil {
		return err
	}
	if n.Len() == 0 {
		setResult(args, n.Value)
		return nil
	}
	setNodes(args, n.Children)
	return nil
}

var jPatchSym = &jPatchSymbol{name: jPatchName}

// JSONPatch applies the RFC 6902 patch of its "patch" child to the JSON
// document in its value and leaves the patched document as its value.
// Either may be JSON text or nodes.
func JSONPatch() Symbol {
	return jPatchSym
}

const (
	jPatchName name = "json-patch"
)

type jPatchSymbol struct {
	name
}

func (s jPatchSymbol) Handle(_ *event.Context, args *ir.Node) error {
	if debug.Native() {
		debug.Logf("json-patch on %s", args.Path())
	}
	p := args.Child("patch")
	if p == nil {
		return event.NewLambdaError(args, "%s needs a patch child", s)
	}
	pd, err := jsonText(p)
	if err != nil {
		return event.WrapError(p, err)
	}
	ops, err := jsonpatch.DecodePatch(pd)
	if err != nil {
		return event.WrapError(p, err)
	}
	p.Untie()
	d, err := jsonText(args)
	if err != nil {
		return err
	}
	out, err := ops.Apply(d)
	if err != nil {
		return event.WrapError(args, err)
	}
	setResult(args, string(out))
	return nil
}
