// Package config loads pipeline definitions for the pipeit command from a
// YAML file, an optional .env file, PIPEIT_* environment variables and
// command line flags, in increasing order of precedence.
package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/KasperOmsK/pipeit/internal/logger"
)

// Config is the top-level configuration of the pipeit command.
type Config struct {
	Log      logger.Config  `mapstructure:"log"`
	Pipeline PipelineConfig `mapstructure:"pipeline"`
}

// PipelineConfig describes one pipeline: the value fed to the first stage
// and the stages, in order.
type PipelineConfig struct {
	Name   string        `mapstructure:"name" validate:"required"`
	Input  any           `mapstructure:"input" validate:"required"`
	Stages []StageConfig `mapstructure:"stages" validate:"required,min=1,dive"`
}

// StageConfig names a catalogue stage and the arguments bound to it.
//
// An argument or keyword value of the form {helper: name, with: [args]} is
// replaced by the callable the named helper builds.
type StageConfig struct {
	Fn     string         `mapstructure:"fn" validate:"required"`
	Args   []any          `mapstructure:"args"`
	Kwargs map[string]any `mapstructure:"kwargs"`
}

// ApplyDefaults applies default values to the configuration.
func (c *Config) ApplyDefaults() {
	c.Log.ApplyDefaults()
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.Log.Validate(); err != nil {
		return err
	}
	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(c.Pipeline); err != nil {
		return fmt.Errorf("pipeline: %w", err)
	}
	return nil
}
