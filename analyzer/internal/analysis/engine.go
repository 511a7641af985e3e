package analysis

import (
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/obsidianstack/sensorscan/analyzer/internal/config"
	"github.com/obsidianstack/sensorscan/analyzer/internal/detect"
	"github.com/obsidianstack/sensorscan/pkg/types"
)

// ParallelThreshold is the sequence length from which the three detectors
// run on separate goroutines.
const ParallelThreshold = 4096

// ErrInvalidSequence is wrapped by errors for sequences the engine refuses
// to analyze.
var ErrInvalidSequence = errors.New("invalid reading sequence")

// detector is one named detection pass over a sequence.
type detector struct {
	kind string
	run  func([]types.Reading) []types.Event
}

// Engine runs the drift, vibration and voltage detectors over a sequence.
// It holds only validated thresholds and is safe for concurrent use.
type Engine struct {
	th        config.Thresholds
	detectors []detector
}

// New validates th and returns an Engine for it. Invalid thresholds are
// rejected here, before any sequence is scanned; the error wraps
// config.ErrInvalidThresholds.
func New(th config.Thresholds) (*Engine, error) {
	if err := th.Validate(); err != nil {
		return nil, fmt.Errorf("analysis: %w", err)
	}

	drift := func(rs []types.Reading) []types.Event {
		return detect.TemperatureDrift(rs, th.TemperatureDrift)
	}
	if th.DriftMode == config.DriftWindow {
		drift = func(rs []types.Reading) []types.Event {
			return detect.TemperatureDriftWindow(rs, th.TemperatureDrift, th.DriftWindow)
		}
	}

	return &Engine{
		th: th,
		detectors: []detector{
			{kind: types.KindTemperatureDrift, run: drift},
			{kind: types.KindExcessiveVibration, run: func(rs []types.Reading) []types.Event {
				return detect.ExcessiveVibration(rs, th.Vibration)
			}},
			{kind: types.KindVoltageDrop, run: func(rs []types.Reading) []types.Event {
				return detect.VoltageDrop(rs, th.VoltageDrop, th.SustainedRunMinimum)
			}},
		},
	}, nil
}

// Thresholds returns the thresholds the engine was built with.
func (e *Engine) Thresholds() config.Thresholds { return e.th }

// Analyze runs every detector over seq to completion and returns a fresh
// Report. The sequence is checked before any detector runs; on error no
// report is returned.
func (e *Engine) Analyze(seq types.Sequence) (*types.Report, error) {
	if err := e.check(seq); err != nil {
		return nil, fmt.Errorf("analysis: %w", err)
	}

	rep := e.report(seq, e.run(seq, seq.Len() >= ParallelThreshold))
	slog.Debug("analysis: completed",
		"readings", rep.Readings,
		types.KindTemperatureDrift, rep.TemperatureDriftCount,
		types.KindExcessiveVibration, rep.ExcessiveVibrationCount,
		types.KindVoltageDrop, rep.VoltageDropCount,
	)
	return rep, nil
}

// report assembles detector results into a Report, events in detector order.
func (e *Engine) report(seq types.Sequence, results [][]types.Event) *types.Report {
	rep := &types.Report{Readings: seq.Len()}
	for idx, d := range e.detectors {
		events := results[idx]
		switch d.kind {
		case types.KindTemperatureDrift:
			rep.TemperatureDriftCount = len(events)
		case types.KindExcessiveVibration:
			rep.ExcessiveVibrationCount = len(events)
		case types.KindVoltageDrop:
			rep.VoltageDropCount = len(events)
		}
		rep.Events = append(rep.Events, events...)
	}
	return rep
}

// run returns the events of every detector, indexed like e.detectors.
func (e *Engine) run(seq types.Sequence, parallel bool) [][]types.Event {
	results := make([][]types.Event, len(e.detectors))
	if !parallel {
		for idx, d := range e.detectors {
			results[idx] = d.run(seq.Readings)
		}
		return results
	}

	var g errgroup.Group
	for idx := range e.detectors {
		idx := idx
		g.Go(func() error {
			results[idx] = e.detectors[idx].run(seq.Readings)
			return nil
		})
	}
	_ = g.Wait() // detectors cannot fail
	return results
}

// Analyze is a convenience wrapper that builds an Engine for th and runs it once.
func Analyze(seq types.Sequence, th config.Thresholds) (*types.Report, error) {
	e, err := New(th)
	if err != nil {
		return nil, err
	}
	return e.Analyze(seq)
}

// check enforces the sequence invariants the detectors rely on.
func (e *Engine) check(seq types.Sequence) error {
	if !seq.Valid() {
		return fmt.Errorf("%w: reading indices must be contiguous from 0", ErrInvalidSequence)
	}
	if e.th.DriftMode != config.DriftWindow || seq.Len() == 0 {
		return nil
	}
	if !seq.HasTimestamps {
		return fmt.Errorf("%w: drift_mode %q requires a timestamp on every reading",
			ErrInvalidSequence, config.DriftWindow)
	}
	for i := 1; i < seq.Len(); i++ {
		if seq.Readings[i].Timestamp < seq.Readings[i-1].Timestamp {
			return fmt.Errorf("%w: reading %d: timestamp goes backwards", ErrInvalidSequence, i)
		}
	}
	return nil
}
