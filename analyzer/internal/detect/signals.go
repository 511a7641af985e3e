package detect

import (
	"math"

	"github.com/obsidianstack/sensorscan/pkg/types"
)

// TemperatureDrift reports one event per stretch of readings whose
// temperature differs from the previous reading by more than threshold.
// The first reading has no predecessor and never drifts.
func TemperatureDrift(readings []types.Reading, threshold float64) []types.Event {
	delta := func(i int) float64 {
		return math.Abs(readings[i].Temperature - readings[i-1].Temperature)
	}

	var events []types.Event
	Edges(len(readings),
		func(i int) bool { return i > 0 && delta(i) > threshold },
		func(start, end int) {
			events = append(events, newEvent(types.KindTemperatureDrift, readings, start, end,
				peakOver(start, end, delta, greater)))
		})
	return events
}

// TemperatureDriftWindow reports one event per stretch of readings where the
// spread between the highest and lowest temperature seen in the trailing
// window (timestamps within [t-window, t]) exceeds threshold.
//
// Timestamps must be non-decreasing.
func TemperatureDriftWindow(readings []types.Reading, threshold, window float64) []types.Event {
	// Monotonic deques of indices: maxQ has decreasing temperatures, minQ
	// increasing, so the fronts hold the window extremes.
	var maxQ, minQ []int
	var peak float64

	spread := func(i int) float64 {
		r := readings[i]
		for len(maxQ) > 0 && readings[maxQ[len(maxQ)-1]].Temperature <= r.Temperature {
			maxQ = maxQ[:len(maxQ)-1]
		}
		maxQ = append(maxQ, i)
		for len(minQ) > 0 && readings[minQ[len(minQ)-1]].Temperature >= r.Temperature {
			minQ = minQ[:len(minQ)-1]
		}
		minQ = append(minQ, i)

		cutoff := r.Timestamp - window
		for readings[maxQ[0]].Timestamp < cutoff {
			maxQ = maxQ[1:]
		}
		for readings[minQ[0]].Timestamp < cutoff {
			minQ = minQ[1:]
		}
		return readings[maxQ[0]].Temperature - readings[minQ[0]].Temperature
	}

	var events []types.Event
	Edges(len(readings),
		func(i int) bool {
			s := spread(i)
			if s <= threshold {
				return false
			}
			if s > peak {
				peak = s
			}
			return true
		},
		func(start, end int) {
			events = append(events, newEvent(types.KindTemperatureDrift, readings, start, end, peak))
			peak = 0
		})
	return events
}

// ExcessiveVibration reports one event per stretch of readings whose
// vibration exceeds threshold.
func ExcessiveVibration(readings []types.Reading, threshold float64) []types.Event {
	vibration := func(i int) float64 { return readings[i].Vibration }

	var events []types.Event
	Edges(len(readings),
		func(i int) bool { return vibration(i) > threshold },
		func(start, end int) {
			events = append(events, newEvent(types.KindExcessiveVibration, readings, start, end,
				peakOver(start, end, vibration, greater)))
		})
	return events
}

// VoltageDrop reports one event per run of consecutive readings with
// voltage below threshold that is longer than minimum readings.
func VoltageDrop(readings []types.Reading, threshold float64, minimum int) []types.Event {
	voltage := func(i int) float64 { return readings[i].Voltage }

	var events []types.Event
	Runs(len(readings),
		func(i int) bool { return voltage(i) < threshold },
		minimum,
		func(start, end int) {
			events = append(events, newEvent(types.KindVoltageDrop, readings, start, end,
				peakOver(start, end, voltage, less)))
		})
	return events
}

func newEvent(kind string, readings []types.Reading, start, end int, peak float64) types.Event {
	return types.Event{
		Kind:      kind,
		Start:     start,
		End:       end,
		Timestamp: readings[start].Timestamp,
		Peak:      peak,
	}
}

func greater(a, b float64) bool { return a > b }
func less(a, b float64) bool    { return a < b }

// peakOver returns the most extreme value of f over [start, end] under better.
func peakOver(start, end int, f func(int) float64, better func(a, b float64) bool) float64 {
	peak := f(start)
	for i := start + 1; i <= end; i++ {
		if v := f(i); better(v, peak) {
			peak = v
		}
	}
	return peak
}
