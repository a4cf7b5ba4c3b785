package main

import (
	"io"
	"os"

	"github.com/signadot/hyperlambda/encode"

	"github.com/mattn/go-isatty"
	"github.com/scott-cotton/cli"
)

type MainConfig struct {
	Color bool `cli:"name=color desc='encode with color'"`
	CRLF  bool `cli:"name=crlf desc='end lines with CRLF'"`

	Out      string
	CloseOut func() error

	Main *cli.Command
}

func (cfg *MainConfig) encOpts(w io.Writer) []encode.EncodeOption {
	res := []encode.EncodeOption{
		encode.EncodeCRLF(cfg.CRLF),
	}
	if cfg.Color {
		return append(res, encode.EncodeColors(encode.NewColors()))
	}
	colorsSet := false
	for _, opt := range cfg.Main.Opts {
		if opt.Name != "color" {
			continue
		}
		colorsSet = opt.Value != nil
		break
	}
	if colorsSet {
		return res
	}
	f, ok := w.(*os.File)
	if !ok {
		return res
	}
	if isatty.IsTerminal(f.Fd()) {
		res = append(res, encode.EncodeColors(encode.NewColors()))
	}
	return res
}

type RunConfig struct {
	*MainConfig
	Env   map[string]any
	Dir   string `cli:"name=dir desc='startup directory loaded before the files'"`
	Quiet bool   `cli:"name=q desc='do not print the resulting trees'"`

	Run *cli.Command
}

type FmtConfig struct {
	*MainConfig

	Fmt *cli.Command
}

type QueryConfig struct {
	*MainConfig
	Values bool `cli:"name=v desc='print values only'"`

	Query *cli.Command
}

type MatchConfig struct {
	*cli.Command
	*MainConfig

	String bool `cli:"name=s desc='consider pattern a string argument'"`
	Print  bool `cli:"name=p desc='print matching trees instead of file names'"`
}

type DiffConfig struct {
	*MainConfig
	Reverse bool `cli:"name=r desc='reverse the diff'"`
	Lines   bool `cli:"name=lines desc='show a line diff of the texts'"`

	Diff *cli.Command
}

type PatchConfig struct {
	*MainConfig
	Reverse bool `cli:"name=r desc='apply diff reversed'"`
	String  bool `cli:"name=s desc='patch arg as string'"`

	Patch *cli.Command
}

type EventsConfig struct {
	*MainConfig
	Dir string `cli:"name=dir desc='startup directory loaded before listing'"`

	Events *cli.Command
}

type ServeConfig struct {
	*MainConfig
	ConfigFile string `cli:"name=config desc='configuration file (hyperlambda or yaml)'"`
	Addr       string `cli:"name=addr desc='TCP listen address'"`
	Stdio      bool   `cli:"name=stdio desc='serve on standard input and output'"`
	Startup    string `cli:"name=dir desc='startup directory'"`
	Storage    string `cli:"name=data desc='directory for stored events'"`
	Gops       bool   `cli:"name=gops desc='start a gops agent'"`

	Serve *cli.Command
}
