// Package export writes an anomaly report as a Prometheus text exposition
// file for node_exporter's textfile collector, and reads such files back.
//
// Write(path, report, now) builds a private registry holding:
//
//	sensorscan_anomaly_events{kind}        events counted per anomaly kind
//	sensorscan_readings_analyzed           readings in the analyzed run
//	sensorscan_last_run_timestamp_seconds  when the analysis finished
//
// and replaces path atomically (temp file + rename) so the collector never
// sees a partial file. Read(path) parses a textfile and returns the
// per-kind counts.
package export
