// Package logger configures the zerolog logger used by the pipeit command.
package logger

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Standard field keys for structured logging.
const (
	FieldComponent = "component"
	FieldRunID     = "run_id"
	FieldPipeline  = "pipeline"
	FieldStage     = "stage"
	FieldIndex     = "index"
	FieldPolicy    = "policy"
	FieldDuration  = "duration_ms"
)

// Config contains logging configuration.
type Config struct {
	Level   string `mapstructure:"level"`
	Format  string `mapstructure:"format"`
	Output  string `mapstructure:"output"`
	NoColor bool   `mapstructure:"no_color"`
	Caller  bool   `mapstructure:"caller"`
}

// ApplyDefaults applies default values to logging configuration.
func (c *Config) ApplyDefaults() {
	if c.Level == "" {
		c.Level = "info"
	}
	if c.Format == "" {
		c.Format = "console"
	}
	if c.Output == "" {
		c.Output = "stderr"
	}
}

// Validate validates logging configuration.
func (c *Config) Validate() error {
	validLevels := []string{"trace", "debug", "info", "warn", "error", "disabled"}
	if !slices.Contains(validLevels, c.Level) {
		return fmt.Errorf("log.level must be one of %v (got: %s)", validLevels, c.Level)
	}
	validFormats := []string{"console", "json"}
	if !slices.Contains(validFormats, c.Format) {
		return fmt.Errorf("log.format must be one of %v (got: %s)", validFormats, c.Format)
	}
	validOutputs := []string{"stdout", "stderr"}
	if !slices.Contains(validOutputs, c.Output) {
		return fmt.Errorf("log.output must be one of %v (got: %s)", validOutputs, c.Output)
	}
	return nil
}

// Outputs are the writers Config.Output chooses between. Nil fields fall
// back to os.Stdout and os.Stderr.
type Outputs struct {
	Stdout io.Writer
	Stderr io.Writer
}

// New creates a logger writing to the output cfg selects.
func New(cfg Config, out Outputs) zerolog.Logger {
	cfg.ApplyDefaults()
	return NewWithWriter(cfg, out.writer(cfg.Output))
}

// NewWithWriter creates a logger writing to w, ignoring cfg.Output.
func NewWithWriter(cfg Config, w io.Writer) zerolog.Logger {
	cfg.ApplyDefaults()

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	if strings.ToLower(cfg.Format) == "console" {
		w = zerolog.ConsoleWriter{
			Out:        w,
			NoColor:    cfg.NoColor,
			TimeFormat: time.TimeOnly,
		}
	}

	zc := zerolog.New(w).Level(level).With().Timestamp()
	if cfg.Caller {
		zc = zc.Caller()
	}
	return zc.Logger()
}

func (o Outputs) writer(output string) io.Writer {
	if output == "stdout" {
		if o.Stdout != nil {
			return o.Stdout
		}
		return os.Stdout
	}
	if o.Stderr != nil {
		return o.Stderr
	}
	return os.Stderr
}
