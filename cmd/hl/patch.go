package main

import (
	"fmt"
	"io"

	"github.com/signadot/hyperlambda/encode"
	"github.com/signadot/hyperlambda/ir"
	"github.com/signadot/hyperlambda/libdiff"
	"github.com/signadot/hyperlambda/parse"

	"github.com/scott-cotton/cli"
)

func patch(cfg *PatchConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Patch.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return fmt.Errorf("%w: patch requires a diff", cli.ErrUsage)
	}
	var d *ir.Node
	if cfg.String {
		d, err = parse.Parse([]byte(args[0]))
	} else {
		d, err = getLambdaFile(cc, args[0])
	}
	if err != nil {
		return fmt.Errorf("error reading diff: %w", err)
	}
	if cfg.Reverse {
		if d, err = libdiff.Reverse(d); err != nil {
			return fmt.Errorf("error reversing: %w", err)
		}
	}
	files := inputs(args[1:])
	for i, file := range files {
		doc, err := getLambdaFile(cc, file)
		if err != nil {
			return fmt.Errorf("error processing %s: %w", file, err)
		}
		if err := libdiff.Patch(doc, d); err != nil {
			return fmt.Errorf("error patching %s: %w", file, err)
		}
		if err := encode.EncodeNodes(doc.Children, cc.Out, cfg.encOpts(cc.Out)...); err != nil {
			return err
		}
		if i < len(files)-1 {
			io.WriteString(cc.Out, "---\n")
		}
	}
	return nil
}
