// Package config loads and watches the analyzer configuration file.
//
// Top-level types:
//   - Config{Thresholds, Output, Export}: full config tree parsed from YAML
//   - Thresholds: temperature_drift_threshold, vibration_threshold,
//     voltage_drop_threshold, sustained_run_minimum, drift_mode, drift_window
//   - OutputConfig: format (text|json|yaml), events
//   - ExportConfig: textfile path for the Prometheus textfile collector
//
// Load(path) reads the YAML file, applies defaults (5.0 °C drift, 10.0
// vibration, 4.5 V, 10 readings, delta drift), then validates. Threshold
// failures wrap ErrInvalidThresholds so callers can tell configuration
// errors apart from I/O errors.
//
// Watch(ctx, path, onChange) watches the file's directory with fsnotify and
// calls onChange with each successfully reloaded Config. Watching the
// directory keeps reloads working after editors replace the file by rename.
package config
