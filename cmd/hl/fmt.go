package main

import (
	"fmt"
	"io"

	"github.com/signadot/hyperlambda/encode"

	"github.com/scott-cotton/cli"
)

func format(cfg *FmtConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Fmt.Parse(cc, args)
	if err != nil {
		return err
	}
	files := inputs(args)
	for i, file := range files {
		root, err := getLambdaFile(cc, file)
		if err != nil {
			return fmt.Errorf("error processing %s: %w", file, err)
		}
		if err := encode.EncodeNodes(root.Children, cc.Out, cfg.encOpts(cc.Out)...); err != nil {
			return fmt.Errorf("error encoding %s: %w", file, err)
		}
		if i < len(files)-1 {
			io.WriteString(cc.Out, "---\n")
		}
	}
	return nil
}
