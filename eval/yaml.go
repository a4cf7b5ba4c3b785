package eval

import (
	"strings"

	"github.com/signadot/hyperlambda/debug"
	"github.com/signadot/hyperlambda/event"
	"github.com/signadot/hyperlambda/ir"

	"github.com/goccy/go-yaml"
)

var lambdaToYAMLSym = &lambdaToYAMLSymbol{name: lambdaToYAMLName}

// LambdaToYAML encodes nodes as YAML, with the mapping of LambdaToJSON.
func LambdaToYAML() Symbol {
	return lambdaToYAMLSym
}

const (
	lambdaToYAMLName name = "lambda2yaml"
)

type lambdaToYAMLSymbol struct {
	name
}

func (s lambdaToYAMLSymbol) Handle(_ *event.Context, args *ir.Node) error {
	if debug.Native() {
		debug.Logf("lambda2yaml on %s", args.Path())
	}
	v, err := content(args)
	if err != nil {
		return err
	}
	d, err := yaml.Marshal(v)
	if err != nil {
		return err
	}
	setResult(args, strings.TrimRight(string(d), "\n"))
	return nil
}

var yamlToLambdaSym = &yamlToLambdaSymbol{name: yamlToLambdaName}

// YAMLToLambda decodes the YAML text in its value into its children.
func YAMLToLambda() Symbol {
	return yamlToLambdaSym
}

const (
	yamlToLambdaName name = "yaml2lambda"
)

type yamlToLambdaSymbol struct {
	name
}

func (s yamlToLambdaSymbol) Handle(_ *event.Context, args *ir.Node) error {
	return decodeInto(args, s.String())
}
