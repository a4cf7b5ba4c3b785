package main

import (
	"fmt"
	"slices"
	"strings"

	"github.com/signadot/hyperlambda"

	"github.com/scott-cotton/cli"
)

func events(cfg *EventsConfig, cc *cli.Context, args []string) error {
	filters, err := cfg.Events.Parse(cc, args)
	if err != nil {
		return err
	}
	ctx := hyperlambda.New()
	if _, err := loadStartup(ctx, cfg.Dir, nil); err != nil {
		return err
	}
	reg := ctx.Registry
	list := func(kind string, names []string) {
		for _, n := range names {
			if strings.HasPrefix(n, "_") {
				continue
			}
			fmt.Fprintf(cc.Out, "%-8s %s\n", kind, n)
		}
	}
	keywords := slices.DeleteFunc(reg.Keywords(), func(n string) bool {
		return len(filters) != 0 && !slices.ContainsFunc(filters, func(f string) bool {
			return strings.Contains(n, f)
		})
	})
	list("keyword", keywords)
	list("native", reg.NativeNames(filters...))
	list("lambda", reg.LambdaNames(filters...))
	return nil
}
