package main

import (
	"fmt"
	"io"

	"github.com/signadot/hyperlambda"
	"github.com/signadot/hyperlambda/dirbuild"
	"github.com/signadot/hyperlambda/encode"
	"github.com/signadot/hyperlambda/event"
	"github.com/signadot/hyperlambda/gomap"
	"github.com/signadot/hyperlambda/parse"

	"github.com/scott-cotton/cli"
)

func run(cfg *RunConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Run.Parse(cc, args)
	if err != nil {
		return err
	}
	ctx := hyperlambda.New()
	env, err := loadStartup(ctx, cfg.Dir, cfg.Env)
	if err != nil {
		return err
	}
	for i, file := range inputs(args) {
		if err := runFile(cfg, cc, ctx, env, file); err != nil {
			return err
		}
		if i < len(args)-1 && !cfg.Quiet {
			io.WriteString(cc.Out, "---\n")
		}
	}
	ctx.Wait(0)
	return nil
}

// loadStartup merges $HL_ENV and flags into an environment and, when dir is
// set, loads the directory with it.
func loadStartup(ctx *event.Context, dir string, flags map[string]any) (map[string]any, error) {
	env, err := dirbuild.LoadEnv()
	if err != nil {
		return nil, err
	}
	if env == nil {
		env = map[string]any{}
	}
	for k, v := range flags {
		env[k] = v
	}
	if dir == "" {
		return env, nil
	}
	d, err := dirbuild.OpenDir(dir, env)
	if err != nil {
		return nil, err
	}
	if err := d.Load(ctx); err != nil {
		return nil, err
	}
	return d.Env, nil
}

func runFile(cfg *RunConfig, cc *cli.Context, ctx *event.Context, env map[string]any, file string) error {
	d, err := readFile(cc, file)
	if err != nil {
		return err
	}
	root, err := parse.Parse(d)
	if err != nil {
		return fmt.Errorf("could not parse %s: %w", file, err)
	}
	if len(env) != 0 {
		envNode, err := gomap.Encode(dirbuild.EnvNode, env)
		if err != nil {
			return err
		}
		root.Insert(0, envNode)
	}
	if err := ctx.Exec(root, 0); err != nil {
		return fmt.Errorf("error executing %s: %w", file, err)
	}
	if cfg.Quiet {
		return nil
	}
	return encode.EncodeNodes(root.Children, cc.Out, cfg.encOpts(cc.Out)...)
}
