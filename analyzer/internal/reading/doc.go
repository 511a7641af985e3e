// Package reading loads sensor readings from the JSON format written by the
// bench test rig and validates them before analysis.
//
// Accepted input is an array of objects, or {"readings": [...]}:
//
//	{"timestamp": 0.0, "temperature": 25.0, "vibration_x": 1.0, "vibration_y": 1.0, "voltage": 5.0}
//
// temperature and voltage are required. Vibration is taken from "vibration"
// when present, otherwise from the magnitude of vibration_x and vibration_y.
// timestamp is optional; Sequence.HasTimestamps records whether every
// reading had one. Missing or non-numeric fields fail the whole load with a
// *ValidationError; nothing is defaulted.
package reading
