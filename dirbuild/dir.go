// Package dirbuild loads a directory of startup lambda files into a context.
//
// A directory may hold a manifest, build.hl or build.yaml, naming the
// sources to load and an environment given to every file as an _env node:
//
//	suffix:.hl
//	sources
//	  :modules
//	  :startup
//	env
//	  greeting:hello
//
// Without a manifest every file ending in .hl under the directory is loaded.
// Files are executed in lexical order of their paths within each source.
package dirbuild

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/signadot/hyperlambda/debug"
	"github.com/signadot/hyperlambda/event"
	"github.com/signadot/hyperlambda/gomap"
	"github.com/signadot/hyperlambda/parse"

	"github.com/goccy/go-yaml"
)

const (
	DefaultSuffix = ".hl"
	EnvNode       = "_env"
)

var ErrNoDir = errors.New("not a directory")

type Dir struct {
	Root    string         `hl:"-" yaml:"-"`
	Suffix  string         `hl:"suffix,omitempty" yaml:"suffix,omitempty"`
	Sources []string       `hl:"sources,omitempty" yaml:"sources,omitempty"`
	Env     map[string]any `hl:"env,omitempty" yaml:"env,omitempty"`
}

// OpenDir reads the manifest of the directory at path, if any, and merges
// env over the environment it declares.
func OpenDir(path string, env map[string]any) (*Dir, error) {
	if debug.LoadEnv() {
		debug.Logf("OpenDir input env: %s", debug.JSON(env))
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNoDir, path)
	}
	dir := &Dir{Root: path}
	if err := dir.readManifest(); err != nil {
		return nil, err
	}
	if dir.Suffix == "" {
		dir.Suffix = DefaultSuffix
	}
	if len(dir.Sources) == 0 {
		dir.Sources = []string{"."}
	}
	if env != nil {
		merged, err := mergeEnv(dir.Env, env)
		if err != nil {
			return nil, err
		}
		dir.Env = merged
	}
	if debug.LoadEnv() {
		debug.Logf("loaded env %s", debug.JSON(dir.Env))
	}
	return dir, nil
}

func (dir *Dir) readManifest() error {
	for _, ext := range []string{".hl", ".yaml"} {
		p := filepath.Join(dir.Root, "build"+ext)
		d, err := os.ReadFile(p)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return fmt.Errorf("could not read %q: %w", p, err)
		}
		if ext == ".yaml" {
			err = yaml.Unmarshal(d, dir)
		} else {
			err = gomap.Load(d, dir)
		}
		if err != nil {
			return fmt.Errorf("could not decode %s: %w", p, err)
		}
		return nil
	}
	return nil
}

// Files returns the files to load, in load order.
func (dir *Dir) Files() ([]string, error) {
	var res []string
	for _, src := range dir.Sources {
		var files []string
		err := filepath.WalkDir(filepath.Join(dir.Root, src), func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || !strings.HasSuffix(p, dir.Suffix) {
				return nil
			}
			if filepath.Base(p) == "build"+DefaultSuffix {
				return nil
			}
			files = append(files, p)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("could not list source %q: %w", src, err)
		}
		slices.Sort(files)
		res = append(res, files...)
	}
	return res, nil
}

// Load executes every file of dir in ctx. The first failing file stops
// the load.
func (dir *Dir) Load(ctx *event.Context) error {
	files, err := dir.Files()
	if err != nil {
		return err
	}
	for _, p := range files {
		if err := dir.loadFile(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

func (dir *Dir) loadFile(ctx *event.Context, p string) error {
	d, err := os.ReadFile(p)
	if err != nil {
		return err
	}
	root, err := parse.Parse(d)
	if err != nil {
		return fmt.Errorf("could not parse %s: %w", p, err)
	}
	if len(dir.Env) != 0 {
		env, err := gomap.Encode(EnvNode, dir.Env)
		if err != nil {
			return err
		}
		root.Insert(0, env)
	}
	if debug.Load() {
		debug.Logf("loading %s", p)
	}
	if err := ctx.Exec(root, 0); err != nil {
		return fmt.Errorf("error loading %s: %w", p, err)
	}
	return nil
}
