package detect

import (
	"testing"

	"github.com/obsidianstack/sensorscan/pkg/types"
)

// series builds readings one second apart. Missing columns default to
// nominal values: 25 °C, 1.0 vibration, 5.0 V.
func series(n int, set func(i int, r *types.Reading)) []types.Reading {
	out := make([]types.Reading, n)
	for i := range out {
		out[i] = types.Reading{Index: i, Timestamp: float64(i), Temperature: 25, Vibration: 1, Voltage: 5}
		if set != nil {
			set(i, &out[i])
		}
	}
	return out
}

func temps(vs ...float64) []types.Reading {
	return series(len(vs), func(i int, r *types.Reading) { r.Temperature = vs[i] })
}

func vibrations(vs ...float64) []types.Reading {
	return series(len(vs), func(i int, r *types.Reading) { r.Vibration = vs[i] })
}

// lowRun returns n readings with a run of length low-voltage samples
// starting at index 1.
func lowRun(n, length int) []types.Reading {
	return series(n, func(i int, r *types.Reading) {
		if i >= 1 && i <= length {
			r.Voltage = 4.0
		}
	})
}

// --- Temperature drift (delta) ---

func TestTemperatureDrift(t *testing.T) {
	tests := []struct {
		name string
		in   []types.Reading
		want int
	}{
		{"empty", nil, 0},
		{"single reading never drifts", temps(100), 0},
		{"stable", temps(25, 25.5, 26, 25, 24.5), 0},
		{"change equal to threshold is not drift", temps(20, 25, 30), 0},
		{"one jump", temps(20, 20, 30, 30), 1},
		{"sustained ramp counts once", temps(20, 20, 26, 32, 38, 44, 50, 50), 1},
		{"jump up then back down is one excursion", temps(20, 30, 20, 20), 1},
		{"two excursions separated by a stable delta", temps(20, 30, 30, 40, 40), 2},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := TemperatureDrift(tc.in, 5)
			if len(got) != tc.want {
				t.Errorf("TemperatureDrift = %d events (%+v), want %d", len(got), got, tc.want)
			}
		})
	}
}

func TestTemperatureDrift_EventDetail(t *testing.T) {
	got := TemperatureDrift(temps(20, 20, 27, 35, 41, 41), 5)
	if len(got) != 1 {
		t.Fatalf("got %d events, want 1", len(got))
	}
	ev := got[0]
	if ev.Kind != types.KindTemperatureDrift {
		t.Errorf("Kind = %q", ev.Kind)
	}
	if ev.Start != 2 || ev.End != 4 {
		t.Errorf("span = [%d, %d], want [2, 4]", ev.Start, ev.End)
	}
	if ev.Timestamp != 2 {
		t.Errorf("Timestamp = %v, want 2", ev.Timestamp)
	}
	if ev.Peak != 8 {
		t.Errorf("Peak = %v, want 8", ev.Peak)
	}
	if ev.Length() != 3 {
		t.Errorf("Length = %d, want 3", ev.Length())
	}
}

// --- Temperature drift (rolling window) ---

func TestTemperatureDriftWindow(t *testing.T) {
	// Slow climb of 1 °C per second: no single delta exceeds 5, but the
	// spread within a 60 s window does once 6 °C has accumulated.
	climb := series(20, func(i int, r *types.Reading) { r.Temperature = 20 + float64(i) })

	if got := TemperatureDrift(climb, 5); len(got) != 0 {
		t.Fatalf("delta mode: got %d events, want 0", len(got))
	}

	got := TemperatureDriftWindow(climb, 5, 60)
	if len(got) != 1 {
		t.Fatalf("window mode: got %d events (%+v), want 1", len(got), got)
	}
	if got[0].Start != 6 || got[0].End != 19 {
		t.Errorf("span = [%d, %d], want [6, 19]", got[0].Start, got[0].End)
	}
	if got[0].Peak != 19 {
		t.Errorf("Peak = %v, want 19", got[0].Peak)
	}
}

func TestTemperatureDriftWindow_ExtremesExpire(t *testing.T) {
	// A spike at t=0 drops out of a 3 s window, re-arming detection.
	in := series(10, func(i int, r *types.Reading) {
		switch i {
		case 0, 7:
			r.Temperature = 40
		}
	})
	got := TemperatureDriftWindow(in, 5, 3)
	if len(got) != 2 {
		t.Fatalf("got %d events (%+v), want 2", len(got), got)
	}
	if got[0].Start != 1 || got[0].End != 3 {
		t.Errorf("first span = [%d, %d], want [1, 3]", got[0].Start, got[0].End)
	}
	if got[1].Start != 7 || got[1].End != 9 {
		t.Errorf("second span = [%d, %d], want [7, 9]", got[1].Start, got[1].End)
	}
}

func TestTemperatureDriftWindow_Empty(t *testing.T) {
	if got := TemperatureDriftWindow(nil, 5, 60); len(got) != 0 {
		t.Errorf("empty: got %d events, want 0", len(got))
	}
	if got := TemperatureDriftWindow(temps(80), 5, 60); len(got) != 0 {
		t.Errorf("single reading: got %d events, want 0", len(got))
	}
}

// --- Excessive vibration ---

func TestExcessiveVibration(t *testing.T) {
	tests := []struct {
		name string
		in   []types.Reading
		want int
	}{
		{"empty", nil, 0},
		{"below threshold", vibrations(1, 5, 9.9), 0},
		{"equal to threshold is not excessive", vibrations(10, 10, 10), 0},
		{"single spike", vibrations(1, 12, 1), 1},
		{"sustained stretch counts once", vibrations(1, 11, 12, 13, 14, 15, 16, 1), 1},
		{"stretch to end", vibrations(1, 11, 11), 1},
		{"three discrete spikes", vibrations(11, 1, 11, 1, 11), 3},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := ExcessiveVibration(tc.in, 10)
			if len(got) != tc.want {
				t.Errorf("ExcessiveVibration = %d events, want %d", len(got), tc.want)
			}
		})
	}
}

func TestExcessiveVibration_Peak(t *testing.T) {
	got := ExcessiveVibration(vibrations(1, 11, 17.5, 12, 1), 10)
	if len(got) != 1 || got[0].Peak != 17.5 {
		t.Fatalf("got %+v, want one event with Peak 17.5", got)
	}
}

// --- Voltage drop ---

func TestVoltageDrop_Boundary(t *testing.T) {
	if got := VoltageDrop(lowRun(15, 10), 4.5, 10); len(got) != 0 {
		t.Errorf("run of 10: got %d events, want 0", len(got))
	}
	got := VoltageDrop(lowRun(15, 11), 4.5, 10)
	if len(got) != 1 {
		t.Fatalf("run of 11: got %d events, want 1", len(got))
	}
	if got[0].Start != 1 || got[0].End != 11 {
		t.Errorf("span = [%d, %d], want [1, 11]", got[0].Start, got[0].End)
	}
	if got[0].Peak != 4.0 {
		t.Errorf("Peak = %v, want 4.0", got[0].Peak)
	}
}

func TestVoltageDrop(t *testing.T) {
	twoRuns := series(30, func(i int, r *types.Reading) {
		if (i >= 0 && i < 12) || (i >= 14 && i < 30) {
			r.Voltage = 3.9
		}
	})
	tests := []struct {
		name string
		in   []types.Reading
		want int
	}{
		{"empty", nil, 0},
		{"nominal", series(20, nil), 0},
		{"voltage equal to threshold is not low", series(20, func(_ int, r *types.Reading) { r.Voltage = 4.5 }), 0},
		{"long run counts once", lowRun(60, 50), 1},
		{"run reaching end of sequence", lowRun(12, 11), 1},
		{"two separated long runs", twoRuns, 2},
		{"blips are not drops", series(20, func(i int, r *types.Reading) {
			if i%3 == 0 {
				r.Voltage = 1
			}
		}), 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := VoltageDrop(tc.in, 4.5, 10)
			if len(got) != tc.want {
				t.Errorf("VoltageDrop = %d events, want %d", len(got), tc.want)
			}
		})
	}
}

func TestPeakOver(t *testing.T) {
	vals := []float64{3, -1, 7, 2}
	f := func(i int) float64 { return vals[i] }
	if got := peakOver(0, 3, f, greater); got != 7 {
		t.Errorf("max = %v, want 7", got)
	}
	if got := peakOver(0, 3, f, less); got != -1 {
		t.Errorf("min = %v, want -1", got)
	}
	if got := peakOver(2, 2, f, less); got != 7 {
		t.Errorf("single = %v, want 7", got)
	}
}
