// Package detect implements the two counting algorithms behind the anomaly
// report and binds them to sensor signals.
//
// edge.go: Edges counts transitions into an anomalous state. A stretch of
// consecutive anomalous readings is one event no matter how long it lasts;
// detection re-arms after the first normal reading.
//
// runlength.go: Runs counts maximal runs of readings satisfying a predicate
// whose length is strictly greater than a minimum. Short runs are ignored.
//
// Runs with a minimum of zero agrees with Edges, but voltage drops are
// qualified by duration and must never be counted as plain edges.
//
// signals.go binds the algorithms to temperature drift, excessive vibration
// and voltage drop and turns each counted stretch into a types.Event.
//
// All scan state is local to a single call; every function here is safe for
// concurrent use on the same input.
package detect
