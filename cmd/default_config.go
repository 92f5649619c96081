package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/inference-sim/effindex/audit"
	"github.com/inference-sim/effindex/audit/batch"
	"github.com/inference-sim/effindex/audit/grid"
)

// Config represents the full defaults.yaml structure.
// All top-level sections must be listed to satisfy KnownFields(true) strict parsing.
type Config struct {
	Version  string                      `yaml:"version"`
	Profiles map[string]audit.Guardrails `yaml:"guardrail_profiles"`
	Defaults DefaultConfig               `yaml:"defaults"`
	Grid     grid.Config                 `yaml:"grid"`
}

// DefaultConfig holds the values used when the matching CLI flag is not set.
type DefaultConfig struct {
	GuardrailProfile string  `yaml:"guardrail_profile"`
	Mode             string  `yaml:"mode"`
	FlagPolicy       string  `yaml:"flag_policy"`
	TimeDefault      float64 `yaml:"time_default"`
	GridOut          string  `yaml:"grid_out"`
	PlotOut          string  `yaml:"plot_out"`
}

// builtinConfig mirrors the shipped defaults.yaml so the CLI works without it.
func builtinConfig() Config {
	return Config{
		Version: "1",
		Defaults: DefaultConfig{
			GuardrailProfile: audit.ProfileAudit,
			Mode:             string(audit.ModeExecute),
			FlagPolicy:       audit.PolicyThresholdLadder,
			TimeDefault:      batch.DefaultTimeDefault,
			GridOut:          "data/efficiency_grid.csv",
			PlotOut:          "diagrams/energy_vs_output_curve.png",
		},
		Grid: grid.DefaultConfig(),
	}
}

// Validate checks names and ranges that would otherwise surface as confusing
// failures later. Mode is not checked: unknown modes fall back to execute.
func (c *Config) Validate() error {
	if !audit.IsValidFlagPolicy(c.Defaults.FlagPolicy) {
		return fmt.Errorf("defaults.flag_policy: unknown flag policy %q", c.Defaults.FlagPolicy)
	}
	if _, err := audit.LookupProfile(c.Profiles, c.Defaults.GuardrailProfile); err != nil {
		return fmt.Errorf("defaults.guardrail_profile: %w", err)
	}
	if c.Defaults.TimeDefault <= 0 {
		return fmt.Errorf("defaults.time_default must be positive, got %f", c.Defaults.TimeDefault)
	}
	if err := c.Grid.Validate(); err != nil {
		return fmt.Errorf("grid: %w", err)
	}
	return nil
}

// loadDefaultsConfig parses a defaults file over the built-in configuration.
// Uses strict field checking: typos in keys are errors. A missing file is only
// an error when required is true (the user named it explicitly).
func loadDefaultsConfig(path string, required bool) (Config, error) {
	cfg := builtinConfig()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) && !required {
		logrus.Debugf("defaults file %s not found; using built-in defaults", path)
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("reading defaults file %s: %w", path, err)
	}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("parsing defaults YAML %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid defaults file %s: %w", path, err)
	}
	logrus.Debugf("loaded defaults from %s (version %s)", path, cfg.Version)
	return cfg, nil
}
