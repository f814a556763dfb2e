// Copyright 2024 Richard Kelsey. All rights reserved.
// See file LICENSE for notices and license.

// Driver configuration, read from a 'ket.toml' next to the program or
// named with -config.  Command-line flags override whatever the file
// says.

package ket

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml"
)

type ConfigT struct {
	Run  RunConfigT  `toml:"run"`
	Dump DumpConfigT `toml:"dump"`
}

type RunConfigT struct {
	Seed      int64 `toml:"seed"`
	MaxQubits int   `toml:"max_qubits"`
	Execute   bool  `toml:"execute"`
}

type DumpConfigT struct {
	Format string `toml:"format"` // "text" or "json"
}

func DefaultConfig() ConfigT {
	return ConfigT{
		Run:  RunConfigT{Seed: 0, MaxQubits: 0, Execute: true},
		Dump: DumpConfigT{Format: "text"},
	}
}

func LoadConfig(path string) (ConfigT, error) {
	config := DefaultConfig()
	text, err := os.ReadFile(path)
	if err != nil {
		return config, err
	}
	if err := toml.Unmarshal(text, &config); err != nil {
		return config, fmt.Errorf("%s: %w", path, err)
	}
	if config.Dump.Format != "text" && config.Dump.Format != "json" {
		return config, fmt.Errorf("%s: dump format must be 'text' or 'json', not '%s'",
			path, config.Dump.Format)
	}
	return config, nil
}

// FindConfig looks for a ket.toml beside the program file.  A missing
// file is not an error; the defaults come back instead.
func FindConfig(programPath string) (ConfigT, error) {
	path := filepath.Join(filepath.Dir(programPath), "ket.toml")
	if _, err := os.Stat(path); err != nil {
		return DefaultConfig(), nil
	}
	return LoadConfig(path)
}

// Options translates a config into run options.
func (config *ConfigT) Options() *OptionsT {
	return &OptionsT{
		Seed:      config.Run.Seed,
		MaxQubits: config.Run.MaxQubits,
		Execute:   config.Run.Execute,
	}
}
