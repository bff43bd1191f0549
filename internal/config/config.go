// Package config loads interpreter settings from YAML.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/you-not-fish/nerve/internal/debug"
	"github.com/you-not-fish/nerve/internal/interp"
	"github.com/you-not-fish/nerve/internal/value"
)

// Precedence names accepted by the precedence key.
const (
	Flat   = "flat"
	Tiered = "tiered"
)

// Config is the document read from a configuration file.
type Config struct {
	Debug        []string       `yaml:"debug"`
	NumericTruth bool           `yaml:"numeric_truth"`
	StrictAssign bool           `yaml:"strict_assign"`
	Precedence   string         `yaml:"precedence"`
	MaxDepth     int            `yaml:"max_depth"`
	Globals      map[string]any `yaml:"globals"`
}

// Default returns the settings used when no file is given.
func Default() *Config {
	return &Config{
		Precedence: Flat,
		MaxDepth:   interp.DefaultMaxDepth,
	}
}

// Load reads the file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Parse decodes a YAML document over the defaults. Unknown keys are
// errors. An empty document yields the defaults.
func Parse(r io.Reader) (*Config, error) {
	c := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks the values yaml cannot check by itself.
func (c *Config) Validate() error {
	switch c.Precedence {
	case "", Flat, Tiered:
	default:
		return fmt.Errorf("precedence must be %q or %q, got %q", Flat, Tiered, c.Precedence)
	}
	if c.MaxDepth < 0 {
		return fmt.Errorf("max_depth must not be negative, got %d", c.MaxDepth)
	}
	if _, err := c.DebugSet(); err != nil {
		return err
	}
	if _, err := c.GlobalValues(); err != nil {
		return err
	}
	return nil
}

// DebugSet returns the debug flags.
func (c *Config) DebugSet() (debug.Set, error) {
	var s debug.Set
	for _, name := range c.Debug {
		if err := s.Set(name); err != nil {
			return 0, err
		}
	}
	return s, nil
}

// GlobalValues converts the globals to script values.
func (c *Config) GlobalValues() (map[string]value.Value, error) {
	if len(c.Globals) == 0 {
		return nil, nil
	}
	globals := make(map[string]value.Value, len(c.Globals))
	for _, name := range slices.Sorted(maps.Keys(c.Globals)) {
		v, err := value.FromGo(c.Globals[name])
		if err != nil {
			return nil, fmt.Errorf("global %s: %w", name, err)
		}
		globals[name] = v
	}
	return globals, nil
}

// Options converts c to interpreter options. The output sink and logger
// are left for the host to fill in.
func (c *Config) Options() (interp.Options, error) {
	flags, err := c.DebugSet()
	if err != nil {
		return interp.Options{}, err
	}
	globals, err := c.GlobalValues()
	if err != nil {
		return interp.Options{}, err
	}
	return interp.Options{
		Debug:        flags,
		Globals:      globals,
		NumericTruth: c.NumericTruth,
		StrictAssign: c.StrictAssign,
		Tiered:       c.Precedence == Tiered,
		MaxDepth:     c.MaxDepth,
	}, nil
}
