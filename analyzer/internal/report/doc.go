// Package report renders an anomaly report for humans or downstream tools.
// Formats: text (summary lines), json, yaml.
package report
