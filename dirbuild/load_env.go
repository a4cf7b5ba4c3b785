package dirbuild

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/signadot/hyperlambda/debug"
	"github.com/signadot/hyperlambda/gomap"
	"github.com/signadot/hyperlambda/parse"

	jsonpatch "github.com/evanphx/json-patch"
)

const (
	EnvEnv = "HL_ENV"
)

// LoadEnv reads an environment given as hyperlambda in $HL_ENV.
func LoadEnv() (map[string]any, error) {
	envEnv := os.Getenv(EnvEnv)
	if envEnv == "" {
		return nil, nil
	}
	node, err := parse.Parse([]byte(envEnv))
	if err != nil {
		return nil, fmt.Errorf("error decoding env $%s: %w", EnvEnv, err)
	}
	env := map[string]any{}
	if node.Len() != 0 {
		m, ok := gomap.ToAny(node).(map[string]any)
		if !ok {
			return nil, fmt.Errorf("error decoding env $%s: not a map", EnvEnv)
		}
		env = m
	}
	if debug.LoadEnv() {
		debug.Logf("loaded env from env: %s", debug.JSON(env))
	}
	return env, nil
}

// mergeEnv merges p over dst as a JSON merge patch.
func mergeEnv(dst, p map[string]any) (map[string]any, error) {
	if dst == nil {
		dst = map[string]any{}
	}
	doc, err := json.Marshal(dst)
	if err != nil {
		return nil, err
	}
	patch, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	merged, err := jsonpatch.MergePatch(doc, patch)
	if err != nil {
		return nil, fmt.Errorf("error merging env: %w", err)
	}
	res := map[string]any{}
	if err := json.Unmarshal(merged, &res); err != nil {
		return nil, err
	}
	return res, nil
}
