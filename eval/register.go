package eval

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/signadot/hyperlambda/event"
)

var (
	mu sync.RWMutex
	d  = map[string]Symbol{}
)

var ErrSymbolExists = errors.New("symbol exists")

// Define adds s to the symbols installed by Register.
func Define(s Symbol) error {
	mu.Lock()
	defer mu.Unlock()
	_, present := d[s.String()]
	if present {
		return fmt.Errorf("%s: %w", s, ErrSymbolExists)
	}
	d[s.String()] = s
	return nil
}

func init() {
	Define(Calc())
	Define(HyperToLambda())
	Define(LambdaToHyper())
	Define(LambdaToJSON())
	Define(JSONToLambda())
	Define(JSONPatch())
	Define(LambdaToYAML())
	Define(YAMLToLambda())
	Define(ToString())
	Define(ToInt())
	Define(B64Enc())
	Define(B64Dec())
	Define(OSEnv())
	Define(NewGUID())
}

func Lookup(s string) Symbol {
	mu.RLock()
	defer mu.RUnlock()
	return d[s]
}

// Symbols returns the defined symbols sorted by name.
func Symbols() []Symbol {
	mu.RLock()
	defer mu.RUnlock()
	res := make([]Symbol, 0, len(d))
	for _, s := range d {
		res = append(res, s)
	}
	slices.SortFunc(res, func(a, b Symbol) int {
		return strings.Compare(a.String(), b.String())
	})
	return res
}

// Register installs every defined symbol in reg as an open native event,
// so lambda code may override it.
func Register(reg *event.Registry) {
	for _, s := range Symbols() {
		reg.Native(s.String(), s.Handle, event.NativeOpen)
	}
}
