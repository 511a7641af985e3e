// Package analysis assembles the anomaly report for a reading sequence.
//
// New(thresholds) validates the detector thresholds and returns an Engine;
// Engine.Analyze(seq) runs the temperature drift, excessive vibration and
// voltage drop detectors over the whole sequence and returns a fresh
// types.Report. All three always run to completion: there is no partial
// report, and any error means no report at all.
//
// Sequences of ParallelThreshold readings or more are scanned by the three
// detectors concurrently through an errgroup. The detectors share only the
// read-only sequence, so the result is identical to the sequential path.
package analysis
