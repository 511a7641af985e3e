// Package types defines the Go types shared by the loader, the detection
// engine and the report renderers. These are the canonical in-memory
// representations of a test run, separate from the JSON input format.
package types
