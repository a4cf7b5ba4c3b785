package eval

import (
	"bytes"
	"strings"

	"github.com/signadot/hyperlambda/debug"
	"github.com/signadot/hyperlambda/encode"
	"github.com/signadot/hyperlambda/event"
	"github.com/signadot/hyperlambda/ir"
	"github.com/signadot/hyperlambda/parse"
)

var hyperToLambdaSym = &hyperToLambdaSymbol{name: hyperToLambdaName}

// HyperToLambda parses the hyperlambda text in its value into its
// children.
func HyperToLambda() Symbol {
	return hyperToLambdaSym
}

const (
	hyperToLambdaName name = "hyper2lambda"
)

type hyperToLambdaSymbol struct {
	name
}

func (s hyperToLambdaSymbol) Handle(_ *event.Context, args *ir.Node) error {
	if debug.Native() {
		debug.Logf("hyper2lambda on %s", args.Path())
	}
	src, err := text(args)
	if err != nil {
		return err
	}
	root, err := parse.Parse([]byte(src))
	if err != nil {
		return event.WrapError(args, err)
	}
	ns := make([]*ir.Node, 0, root.Len())
	for root.Len() > 0 {
		ns = append(ns, root.Children[0].Untie())
	}
	setNodes(args, ns)
	return nil
}

var lambdaToHyperSym = &lambdaToHyperSymbol{name: lambdaToHyperName}

// LambdaToHyper encodes the nodes its value denotes, or its children, as
// hyperlambda text.
func LambdaToHyper() Symbol {
	return lambdaToHyperSym
}

const (
	lambdaToHyperName name = "lambda2hyper"
)

type lambdaToHyperSymbol struct {
	name
}

func (s lambdaToHyperSymbol) Handle(_ *event.Context, args *ir.Node) error {
	if debug.Native() {
		debug.Logf("lambda2hyper on %s", args.Path())
	}
	ns, err := inputNodes(args)
	if err != nil {
		return event.WrapError(args, err)
	}
	buf := bytes.NewBuffer(nil)
	if err := encode.EncodeNodes(ns, buf); err != nil {
		return err
	}
	setResult(args, strings.TrimRight(buf.String(), "\r\n"))
	return nil
}
