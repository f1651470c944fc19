// Package config handles ls8.toml emulator configuration.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FILENAME is the configuration file looked up by default.
const FILENAME = "ls8.toml"

// Config represents an ls8.toml configuration.
type Config struct {
	Emulator  Emulator  `toml:"emulator"`
	Assembler Assembler `toml:"assembler"`
}

// Emulator configures program execution.
type Emulator struct {
	Verbose  bool `toml:"verbose"`
	MaxTicks int  `toml:"max_ticks"`
}

// Assembler configures the mnemonic assembler.
type Assembler struct {
	Verbose bool              `toml:"verbose"`
	Defines map[string]string `toml:"defines"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Assembler: Assembler{
			Defines: map[string]string{},
		},
	}
}

// Load parses a configuration file. A missing file at the default
// location is not an error, and yields the default configuration.
func Load(path string) (*Config, error) {
	cfg := Default()

	if len(path) == 0 {
		path = FILENAME
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return cfg, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}

	if cfg.Emulator.MaxTicks < 0 {
		return nil, fmt.Errorf("%s: max_ticks must not be negative", path)
	}

	if cfg.Assembler.Defines == nil {
		cfg.Assembler.Defines = map[string]string{}
	}

	return cfg, nil
}
