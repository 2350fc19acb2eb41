// Package config provides the front end's process-wide settings, loadable
// from JSON or YAML.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-logr/logr"
	"go.yaml.in/yaml/v3"

	"github.com/sarchlab/rv64front/block"
	"github.com/sarchlab/rv64front/frontend"
)

// Config holds front-end, block-driver and emulator settings.
type Config struct {
	// TraceFrontEnd enables per-instruction trace lines.
	TraceFrontEnd bool `json:"trace_front_end" yaml:"trace_front_end"`

	// SigillDiag enables diagnostics for instructions that fail to decode.
	SigillDiag bool `json:"sigill_diag" yaml:"sigill_diag"`

	// MaxBlockInsns caps the instructions per translated block.
	MaxBlockInsns int `json:"max_block_insns" yaml:"max_block_insns"`

	// GuardWindow is the number of bytes fetched per instruction.
	GuardWindow int `json:"guard_window" yaml:"guard_window"`

	// CacheSets and CacheWays size the translation cache.
	CacheSets int `json:"cache_sets" yaml:"cache_sets"`
	CacheWays int `json:"cache_ways" yaml:"cache_ways"`

	// MaxInstructions stops the emulator after this many guest
	// instructions. 0 means no limit.
	MaxInstructions uint64 `json:"max_instructions" yaml:"max_instructions"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		TraceFrontEnd:   false,
		SigillDiag:      true,
		MaxBlockInsns:   block.DefaultMaxInsns,
		GuardWindow:     block.DefaultGuardWindow,
		CacheSets:       block.DefaultCacheSets,
		CacheWays:       block.DefaultCacheWays,
		MaxInstructions: 0,
	}
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	default:
		return false
	}
}

// Load reads a configuration file. Fields missing from the file keep their
// defaults. Files ending in .yaml or .yml are YAML; anything else is JSON.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	c := Default()
	if isYAML(path) {
		err = yaml.Unmarshal(data, c)
	} else {
		err = json.Unmarshal(data, c)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	return c, nil
}

// Save writes the configuration in the format implied by path.
func (c *Config) Save(path string) error {
	var data []byte
	var err error
	if isYAML(path) {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.MaxBlockInsns < 1 {
		return fmt.Errorf("max_block_insns must be > 0")
	}
	if c.GuardWindow < 4 {
		return fmt.Errorf("guard_window must be >= 4")
	}
	if c.CacheSets < 1 {
		return fmt.Errorf("cache_sets must be > 0")
	}
	if c.CacheWays < 1 {
		return fmt.Errorf("cache_ways must be > 0")
	}
	return nil
}

// Clone returns a copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// NewFrontEnd builds a front end with these diagnostics settings.
func (c *Config) NewFrontEnd(log logr.Logger) *frontend.FrontEnd {
	return frontend.New(
		frontend.WithLogger(log),
		frontend.WithTrace(c.TraceFrontEnd),
		frontend.WithSigillDiag(c.SigillDiag),
	)
}

// NewDriver builds a caching block driver around a new front end.
func (c *Config) NewDriver(log logr.Logger) *block.Driver {
	return block.NewDriver(
		c.NewFrontEnd(log),
		block.WithMaxInsns(c.MaxBlockInsns),
		block.WithGuardWindow(c.GuardWindow),
		block.WithCache(block.NewCache(c.CacheSets, c.CacheWays)),
		block.WithLogger(log),
	)
}
