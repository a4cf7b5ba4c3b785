package eval

import (
	"os"
	"strings"

	"github.com/signadot/hyperlambda/debug"
	"github.com/signadot/hyperlambda/event"
	"github.com/signadot/hyperlambda/ir"
)

var osenvSym = &osenvSymbol{name: osenvName}

// OSEnv sets its value to the environment variable named by its value, or
// to the value of its "default" child when the variable is not set.
func OSEnv() Symbol {
	return osenvSym
}

const (
	osenvName name = "os-env"
)

type osenvSymbol struct {
	name
}

func (s osenvSymbol) Handle(_ *event.Context, args *ir.Node) error {
	if debug.Native() {
		debug.Logf("os-env on %s", args.Path())
	}
	key, err := text(args)
	if err != nil {
		return err
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return event.NewLambdaError(args, "%s needs a variable name", s)
	}
	v, ok := os.LookupEnv(key)
	if !ok {
		def := args.Child("default")
		if def == nil {
			setResult(args, nil)
			return nil
		}
		setResult(args, def.Value)
		return nil
	}
	setResult(args, v)
	return nil
}
