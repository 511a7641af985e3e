package types

// Anomaly kinds reported by the engine.
const (
	KindTemperatureDrift   = "temperature_drift"
	KindExcessiveVibration = "excessive_vibration"
	KindVoltageDrop        = "voltage_drop"
)

// Kinds is the ordered set of anomaly kinds the engine reports.
var Kinds = []string{KindTemperatureDrift, KindExcessiveVibration, KindVoltageDrop}

// Reading is one sensor sample. Index is the position of the reading in its
// Sequence; it is the only notion of time the detectors rely on.
type Reading struct {
	Index       int     `json:"index" yaml:"index"`
	Timestamp   float64 `json:"timestamp" yaml:"timestamp"` // seconds since the start of the test
	Temperature float64 `json:"temperature" yaml:"temperature"`
	Vibration   float64 `json:"vibration" yaml:"vibration"`
	Voltage     float64 `json:"voltage" yaml:"voltage"`
}

// Sequence is an ordered, immutable list of readings.
type Sequence struct {
	Readings []Reading

	// HasTimestamps is true when every reading carried a timestamp.
	HasTimestamps bool
}

// Len returns the number of readings.
func (s Sequence) Len() int { return len(s.Readings) }

// Valid reports whether indices are contiguous from 0 and match positions.
func (s Sequence) Valid() bool {
	for i, r := range s.Readings {
		if r.Index != i {
			return false
		}
	}
	return true
}

// Event is one counted anomaly. Start and End are inclusive reading indices.
type Event struct {
	Kind      string  `json:"type" yaml:"type"`
	Start     int     `json:"start" yaml:"start"`
	End       int     `json:"end" yaml:"end"`
	Timestamp float64 `json:"timestamp" yaml:"timestamp"`

	// Peak is the most extreme value seen inside the event: the largest
	// temperature change, the largest vibration magnitude, or the lowest
	// voltage.
	Peak float64 `json:"peak" yaml:"peak"`
}

// Length returns the number of readings the event spans.
func (e Event) Length() int { return e.End - e.Start + 1 }

// Report is the result of one analysis run.
type Report struct {
	TemperatureDriftCount   int `json:"temperature_drift_count" yaml:"temperature_drift_count"`
	ExcessiveVibrationCount int `json:"excessive_vibration_count" yaml:"excessive_vibration_count"`
	VoltageDropCount        int `json:"voltage_drop_count" yaml:"voltage_drop_count"`

	// Readings is the number of readings analyzed.
	Readings int `json:"readings" yaml:"readings"`

	// Events lists every counted anomaly ordered by kind, then by Start.
	Events []Event `json:"anomalies,omitempty" yaml:"anomalies,omitempty"`
}

// Count returns the count for kind, or 0 for an unknown kind.
func (r *Report) Count(kind string) int {
	switch kind {
	case KindTemperatureDrift:
		return r.TemperatureDriftCount
	case KindExcessiveVibration:
		return r.ExcessiveVibrationCount
	case KindVoltageDrop:
		return r.VoltageDropCount
	default:
		return 0
	}
}
