package cli

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/obsidianstack/sensorscan/analyzer/internal/analysis"
	"github.com/obsidianstack/sensorscan/analyzer/internal/config"
	"github.com/obsidianstack/sensorscan/analyzer/internal/export"
	"github.com/obsidianstack/sensorscan/analyzer/internal/reading"
	"github.com/obsidianstack/sensorscan/analyzer/internal/report"
	"github.com/obsidianstack/sensorscan/pkg/types"
)

// analyzeOptions holds the analyze flags. Threshold and output flags only
// override the config file when set explicitly.
type analyzeOptions struct {
	configPath string
	watch      bool

	over config.Config
}

func newAnalyzeCmd(a *app) *cobra.Command {
	o := &analyzeOptions{over: *config.Default()}

	cmd := &cobra.Command{
		Use:   "analyze [flags] <readings.json>",
		Short: "Analyze a recorded test run and print anomaly counts",
		Long: `Analyze a JSON file of sensor readings and report how many temperature
drift, excessive vibration and sustained voltage drop anomalies it contains.

A stretch of consecutive anomalous readings counts once. A voltage drop
counts only when more than --sustained-min consecutive readings are low.

Examples:

  analyzer analyze test_data.json
  analyzer analyze --config analyzer.yaml --format json --events test_data.json
  analyzer analyze --config analyzer.yaml --watch --textfile /var/lib/node_exporter/sensorscan.prom test_data.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runAnalyze(cmd, o, args[0])
		},
	}

	f := cmd.Flags()
	f.StringVarP(&o.configPath, "config", "c", "", "path to analyzer.yaml (defaults apply when empty)")
	f.BoolVar(&o.watch, "watch", false, "re-analyze whenever the config file changes (requires --config)")

	th := &o.over.Thresholds
	f.Float64Var(&th.TemperatureDrift, "drift-threshold", th.TemperatureDrift, "temperature change (°C) that counts as drift")
	f.Float64Var(&th.Vibration, "vibration-threshold", th.Vibration, "vibration magnitude that counts as excessive")
	f.Float64Var(&th.VoltageDrop, "voltage-threshold", th.VoltageDrop, "voltage below which a reading is low")
	f.IntVar(&th.SustainedRunMinimum, "sustained-min", th.SustainedRunMinimum, "low-voltage run length that must be exceeded")
	f.StringVar(&th.DriftMode, "drift-mode", th.DriftMode, "drift rule: delta | window")
	f.Float64Var(&th.DriftWindow, "drift-window", th.DriftWindow, "rolling window in seconds for --drift-mode window")

	f.StringVarP(&o.over.Output.Format, "format", "o", o.over.Output.Format, "report format: text | json | yaml")
	f.BoolVar(&o.over.Output.Events, "events", false, "include every counted anomaly in the report")
	f.StringVar(&o.over.Export.Textfile, "textfile", "", "also write a Prometheus textfile to this path")

	return cmd
}

func (a *app) runAnalyze(cmd *cobra.Command, o *analyzeOptions, path string) error {
	if o.watch && o.configPath == "" {
		return errors.New("--watch requires --config")
	}

	cfg, err := o.load(cmd.Flags())
	if err != nil {
		return err
	}

	seq, err := reading.Load(path)
	if err != nil {
		return err
	}
	slog.Info("readings loaded", "path", path, "readings", seq.Len())

	if err := a.analyzeOnce(cfg, seq); err != nil {
		return err
	}
	if !o.watch {
		return nil
	}

	return config.Watch(cmd.Context(), o.configPath, func(updated *config.Config) {
		applyOverrides(cmd.Flags(), updated, &o.over)
		if err := updated.Validate(); err != nil {
			slog.Error("flag overrides invalid for reloaded config", "err", err)
			return
		}
		if err := a.analyzeOnce(updated, seq); err != nil {
			slog.Error("re-analysis failed", "err", err)
		}
	})
}

// load returns the config file (or defaults) with explicit flags applied.
func (o *analyzeOptions) load(flags *pflag.FlagSet) (*config.Config, error) {
	cfg := config.Default()
	if o.configPath != "" {
		loaded, err := config.Load(o.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	applyOverrides(flags, cfg, &o.over)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// applyOverrides copies every explicitly set flag from over into cfg.
func applyOverrides(flags *pflag.FlagSet, cfg *config.Config, over *config.Config) {
	set := func(name string, apply func()) {
		if flags.Changed(name) {
			apply()
		}
	}
	set("drift-threshold", func() { cfg.Thresholds.TemperatureDrift = over.Thresholds.TemperatureDrift })
	set("vibration-threshold", func() { cfg.Thresholds.Vibration = over.Thresholds.Vibration })
	set("voltage-threshold", func() { cfg.Thresholds.VoltageDrop = over.Thresholds.VoltageDrop })
	set("sustained-min", func() { cfg.Thresholds.SustainedRunMinimum = over.Thresholds.SustainedRunMinimum })
	set("drift-mode", func() { cfg.Thresholds.DriftMode = over.Thresholds.DriftMode })
	set("drift-window", func() { cfg.Thresholds.DriftWindow = over.Thresholds.DriftWindow })
	set("format", func() { cfg.Output.Format = over.Output.Format })
	set("events", func() { cfg.Output.Events = over.Output.Events })
	set("textfile", func() { cfg.Export.Textfile = over.Export.Textfile })
}

// analyzeOnce runs the engine and writes every configured output.
func (a *app) analyzeOnce(cfg *config.Config, seq types.Sequence) error {
	engine, err := analysis.New(cfg.Thresholds)
	if err != nil {
		return err
	}
	rep, err := engine.Analyze(seq)
	if err != nil {
		return err
	}

	slog.Info("analysis complete",
		types.KindTemperatureDrift, rep.TemperatureDriftCount,
		types.KindExcessiveVibration, rep.ExcessiveVibrationCount,
		types.KindVoltageDrop, rep.VoltageDropCount,
		"drift_mode", cfg.Thresholds.DriftMode,
	)

	if err := report.Write(a.stdout, rep, cfg.Output.Format, cfg.Output.Events); err != nil {
		return err
	}

	if cfg.Export.Textfile != "" {
		if err := export.Write(cfg.Export.Textfile, rep, a.now()); err != nil {
			return err
		}
		slog.Debug("textfile written", "path", cfg.Export.Textfile)
	}
	return nil
}
