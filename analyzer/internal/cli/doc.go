// Package cli builds the analyzer command tree.
//
//	analyzer analyze [flags] <readings.json>   analyze one recorded test run
//	analyzer version                           print the build version
//
// Logs go to stderr (tint console handler by default, JSON with
// --log-format json); the report goes to stdout so it can be piped.
package cli
