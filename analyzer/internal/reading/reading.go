package reading

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"

	"github.com/obsidianstack/sensorscan/pkg/types"
)

// Input field names.
const (
	FieldTimestamp   = "timestamp"
	FieldTemperature = "temperature"
	FieldVibration   = "vibration"
	FieldVibrationX  = "vibration_x"
	FieldVibrationY  = "vibration_y"
	FieldVoltage     = "voltage"
)

// ValidationError reports a reading that cannot be analyzed.
type ValidationError struct {
	Index  int    // position of the offending reading
	Field  string // field name, empty when the reading itself is malformed
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("reading %d: %s", e.Index, e.Reason)
	}
	return fmt.Sprintf("reading %d: %s: %s", e.Index, e.Field, e.Reason)
}

// document is the wrapped input form: {"readings": [...]}.
type document struct {
	Readings []json.RawMessage `json:"readings"`
}

// Load reads and validates the JSON readings file at path.
func Load(path string) (types.Sequence, error) {
	f, err := os.Open(path)
	if err != nil {
		return types.Sequence{}, fmt.Errorf("reading: open file: %w", err)
	}
	defer f.Close()

	seq, err := Decode(f)
	if err != nil {
		return types.Sequence{}, err
	}
	slog.Debug("reading: loaded", "path", path, "readings", seq.Len(),
		"timestamps", seq.HasTimestamps)
	return seq, nil
}

// Decode parses a JSON array of reading objects, or an object whose
// "readings" key holds that array, and validates every reading.
// The first invalid reading aborts decoding with a *ValidationError.
func Decode(r io.Reader) (types.Sequence, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return types.Sequence{}, fmt.Errorf("reading: read input: %w", err)
	}

	raw, err := splitReadings(data)
	if err != nil {
		return types.Sequence{}, fmt.Errorf("reading: parse json: %w", err)
	}

	seq := types.Sequence{
		Readings:      make([]types.Reading, 0, len(raw)),
		HasTimestamps: true,
	}
	for i, msg := range raw {
		rd, hasTS, err := decodeOne(i, msg)
		if err != nil {
			return types.Sequence{}, fmt.Errorf("reading: %w", err)
		}
		if !hasTS {
			seq.HasTimestamps = false
		}
		seq.Readings = append(seq.Readings, rd)
	}
	if len(raw) == 0 {
		seq.HasTimestamps = false
	}
	return seq, nil
}

// splitReadings accepts either a bare array or the wrapped document form.
func splitReadings(data []byte) ([]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, errors.New("empty input")
	}

	if trimmed[0] == '{' {
		var doc document
		if err := json.Unmarshal(trimmed, &doc); err != nil {
			return nil, err
		}
		if doc.Readings == nil {
			return nil, errors.New(`object input must contain a "readings" array`)
		}
		return doc.Readings, nil
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

func decodeOne(i int, msg json.RawMessage) (types.Reading, bool, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(msg, &fields); err != nil || fields == nil {
		return types.Reading{}, false, &ValidationError{Index: i, Reason: "not a JSON object"}
	}

	rd := types.Reading{Index: i}
	var err error

	if rd.Temperature, err = required(i, fields, FieldTemperature); err != nil {
		return types.Reading{}, false, err
	}
	if rd.Voltage, err = required(i, fields, FieldVoltage); err != nil {
		return types.Reading{}, false, err
	}
	if rd.Vibration, err = vibration(i, fields); err != nil {
		return types.Reading{}, false, err
	}

	ts, hasTS, err := optional(i, fields, FieldTimestamp)
	if err != nil {
		return types.Reading{}, false, err
	}
	rd.Timestamp = ts

	return rd, hasTS, nil
}

// vibration returns the "vibration" field when present, otherwise the
// combined magnitude sqrt(x² + y²) of the two axis readings.
func vibration(i int, fields map[string]json.RawMessage) (float64, error) {
	if v, ok, err := optional(i, fields, FieldVibration); err != nil || ok {
		return v, err
	}

	_, hasX := fields[FieldVibrationX]
	_, hasY := fields[FieldVibrationY]
	if !hasX && !hasY {
		return 0, &ValidationError{Index: i, Field: FieldVibration,
			Reason: "missing (expected vibration or vibration_x and vibration_y)"}
	}

	x, err := required(i, fields, FieldVibrationX)
	if err != nil {
		return 0, err
	}
	y, err := required(i, fields, FieldVibrationY)
	if err != nil {
		return 0, err
	}
	return math.Hypot(x, y), nil
}

func required(i int, fields map[string]json.RawMessage, name string) (float64, error) {
	v, ok, err := optional(i, fields, name)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, &ValidationError{Index: i, Field: name, Reason: "missing"}
	}
	return v, nil
}

// optional decodes a numeric field. A present field that is null or not a
// number is an error; it is never defaulted.
func optional(i int, fields map[string]json.RawMessage, name string) (float64, bool, error) {
	msg, ok := fields[name]
	if !ok {
		return 0, false, nil
	}
	if bytes.Equal(bytes.TrimSpace(msg), []byte("null")) {
		return 0, false, &ValidationError{Index: i, Field: name, Reason: "null is not a number"}
	}
	var v float64
	if err := json.Unmarshal(msg, &v); err != nil {
		return 0, false, &ValidationError{Index: i, Field: name,
			Reason: fmt.Sprintf("not a number: %s", bytes.TrimSpace(msg))}
	}
	return v, true, nil
}
