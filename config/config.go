// Package config holds the run configuration of the disassembler.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Policy names accepted for decode error handling.
const (
	PolicySkip  = "skip"
	PolicyAbort = "abort"
)

// RunConfig controls a decode run.
type RunConfig struct {
	// Simulate applies register effects and adds trace comments.
	// Default: false.
	Simulate bool `json:"simulate" yaml:"simulate"`

	// UnknownBytePolicy is "skip" or "abort" for bytes that start no
	// supported instruction. Default: "skip".
	UnknownBytePolicy string `json:"unknown_byte_policy" yaml:"unknown_byte_policy"`

	// MalformedPolicy is "skip" or "abort" for instructions with an
	// undefined sub-field. Default: "abort".
	MalformedPolicy string `json:"malformed_policy" yaml:"malformed_policy"`

	// MaxInstructions stops the run after this many instructions.
	// Default: 0 (no limit).
	MaxInstructions uint64 `json:"max_instructions" yaml:"max_instructions"`

	// SignExtendImm8 reads a single sign-extended byte for word-sized
	// arithmetic immediates with S=1. Default: false.
	SignExtendImm8 bool `json:"sign_extend_imm8" yaml:"sign_extend_imm8"`

	// PrintFinalState prints the register table after a simulated run.
	// Default: true.
	PrintFinalState bool `json:"print_final_state" yaml:"print_final_state"`
}

// DefaultRunConfig returns a RunConfig with default values.
func DefaultRunConfig() *RunConfig {
	return &RunConfig{
		Simulate:          false,
		UnknownBytePolicy: PolicySkip,
		MalformedPolicy:   PolicyAbort,
		MaxInstructions:   0,
		SignExtendImm8:    false,
		PrintFinalState:   true,
	}
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// LoadConfig loads a RunConfig from a JSON or YAML file. Fields missing from
// the file keep their defaults.
func LoadConfig(path string) (*RunConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read run config file: %w", err)
	}

	config := DefaultRunConfig()
	if isYAML(path) {
		err = yaml.Unmarshal(data, config)
	} else {
		err = json.Unmarshal(data, config)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse run config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid run config: %w", err)
	}

	return config, nil
}

// SaveConfig writes a RunConfig to a JSON or YAML file.
func (c *RunConfig) SaveConfig(path string) error {
	var (
		data []byte
		err  error
	)

	if isYAML(path) {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("failed to serialize run config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write run config file: %w", err)
	}

	return nil
}

// Validate checks that the policy names are known.
func (c *RunConfig) Validate() error {
	if !validPolicy(c.UnknownBytePolicy) {
		return fmt.Errorf("unknown_byte_policy must be %q or %q, got %q",
			PolicySkip, PolicyAbort, c.UnknownBytePolicy)
	}
	if !validPolicy(c.MalformedPolicy) {
		return fmt.Errorf("malformed_policy must be %q or %q, got %q",
			PolicySkip, PolicyAbort, c.MalformedPolicy)
	}
	return nil
}

func validPolicy(p string) bool {
	return p == PolicySkip || p == PolicyAbort
}

// Clone returns a copy of the RunConfig.
func (c *RunConfig) Clone() *RunConfig {
	clone := *c
	return &clone
}
