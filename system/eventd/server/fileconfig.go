package server

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/signadot/hyperlambda/gomap"

	"github.com/goccy/go-yaml"
)

var ErrConfig = errors.New("invalid configuration")

// Config represents the server configuration file, in hyperlambda or, for
// files ending in .yaml or .yml, YAML.
type Config struct {
	// Addr is the TCP address to listen on; empty means stdio only.
	Addr string `hl:"addr,omitempty" yaml:"addr,omitempty"`

	// Startup names a directory of lambda files loaded on start.
	Startup string `hl:"startup,omitempty" yaml:"startup,omitempty"`

	// Storage names the directory events declared at runtime persist in.
	Storage string `hl:"storage,omitempty" yaml:"storage,omitempty"`

	// MaxDepth bounds nested invocations.
	MaxDepth int `hl:"max-depth,omitempty" yaml:"max-depth,omitempty"`

	// Timeout bounds each request. Zero means no bound.
	Timeout time.Duration `hl:"timeout,omitempty" yaml:"timeout,omitempty"`
}

// LoadConfig loads a configuration file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg := DefaultConfig()
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	default:
		err = gomap.Load(data, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Timeout: time.Minute,
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.MaxDepth < 0 {
		return fmt.Errorf("%w: negative max-depth %d", ErrConfig, c.MaxDepth)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("%w: negative timeout %s", ErrConfig, c.Timeout)
	}
	return nil
}
