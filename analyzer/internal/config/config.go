package config

import (
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// Default values applied when fields are absent from the config file.
// They match the rules of the bench test tool the analyzer replaces.
const (
	DefaultTemperatureDrift    = 5.0
	DefaultVibration           = 10.0
	DefaultVoltageDrop         = 4.5
	DefaultSustainedRunMinimum = 10
	DefaultDriftWindow         = 60.0
	DefaultFormat              = FormatText
)

// Drift modes.
const (
	// DriftDelta compares each temperature with the previous reading.
	DriftDelta = "delta"
	// DriftWindow compares the spread of temperatures within a rolling
	// time window ending at each reading.
	DriftWindow = "window"
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// ErrInvalidThresholds is wrapped by every threshold validation failure.
var ErrInvalidThresholds = errors.New("invalid thresholds")

// Config is the top-level analyzer configuration.
// Fields map 1:1 to analyzer.example.yaml.
type Config struct {
	Thresholds Thresholds   `yaml:"thresholds"`
	Output     OutputConfig `yaml:"output"`
	Export     ExportConfig `yaml:"export"`
}

// Thresholds configures the three detectors.
type Thresholds struct {
	// TemperatureDrift is the temperature change (°C) that must be exceeded
	// for a reading to count as drifting.
	TemperatureDrift float64 `yaml:"temperature_drift_threshold"`

	// Vibration is the vibration magnitude that must be exceeded for a
	// reading to count as excessive.
	Vibration float64 `yaml:"vibration_threshold"`

	// VoltageDrop is the voltage below which a reading counts as low.
	VoltageDrop float64 `yaml:"voltage_drop_threshold"`

	// SustainedRunMinimum is the run length a low-voltage run must strictly
	// exceed to count as a sustained drop.
	SustainedRunMinimum int `yaml:"sustained_run_minimum"`

	// DriftMode is one of: delta | window.
	DriftMode string `yaml:"drift_mode"`

	// DriftWindow is the rolling window length in seconds. Used only when
	// DriftMode == "window".
	DriftWindow float64 `yaml:"drift_window"`
}

// OutputConfig controls how the report is rendered.
type OutputConfig struct {
	// Format is one of: text | json | yaml.
	Format string `yaml:"format"`

	// Events includes per-anomaly detail in the report.
	Events bool `yaml:"events"`
}

// ExportConfig configures the optional Prometheus textfile output.
type ExportConfig struct {
	// Textfile is the path the metrics file is written to. Empty disables export.
	Textfile string `yaml:"textfile"`
}

// Load reads and parses the YAML config file at path.
// Missing optional fields are filled with defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse yaml: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	return cfg, nil
}

// Default returns a Config pre-populated with default values.
func Default() *Config {
	return &Config{
		Thresholds: DefaultThresholds(),
		Output:     OutputConfig{Format: DefaultFormat},
	}
}

// DefaultThresholds returns the default detector thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{
		TemperatureDrift:    DefaultTemperatureDrift,
		Vibration:           DefaultVibration,
		VoltageDrop:         DefaultVoltageDrop,
		SustainedRunMinimum: DefaultSustainedRunMinimum,
		DriftMode:           DriftDelta,
		DriftWindow:         DefaultDriftWindow,
	}
}

// Validate checks thresholds and enums.
func (c *Config) Validate() error {
	if err := c.Thresholds.Validate(); err != nil {
		return err
	}
	switch c.Output.Format {
	case FormatText, FormatJSON, FormatYAML:
	default:
		return fmt.Errorf("output.format: unknown format %q", c.Output.Format)
	}
	return nil
}

// Validate rejects thresholds the detectors cannot evaluate. The returned
// error wraps ErrInvalidThresholds.
func (t Thresholds) Validate() error {
	for _, f := range []struct {
		key string
		v   float64
	}{
		{"temperature_drift_threshold", t.TemperatureDrift},
		{"vibration_threshold", t.Vibration},
		{"voltage_drop_threshold", t.VoltageDrop},
	} {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return fmt.Errorf("%w: %s must be a finite number", ErrInvalidThresholds, f.key)
		}
	}
	if t.SustainedRunMinimum < 1 {
		return fmt.Errorf("%w: sustained_run_minimum must be at least 1, got %d",
			ErrInvalidThresholds, t.SustainedRunMinimum)
	}
	switch t.DriftMode {
	case DriftDelta:
	case DriftWindow:
		if math.IsNaN(t.DriftWindow) || math.IsInf(t.DriftWindow, 0) || t.DriftWindow <= 0 {
			return fmt.Errorf("%w: drift_window must be a positive number of seconds", ErrInvalidThresholds)
		}
	default:
		return fmt.Errorf("%w: unknown drift_mode %q", ErrInvalidThresholds, t.DriftMode)
	}
	return nil
}
