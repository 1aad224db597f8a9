// Package output renders fleetdeck command results as tables, JSON or YAML.
//
// Table output is kubectl-style: borderless, tab-padded columns with optional
// color. Any value implementing Tabular renders as a table; JSON and YAML
// encode the value itself, so a named slice type such as
//
//	type snapshotList []cluster.Snapshot
//
// with Headers and Rows methods prints the same data in all three formats.
//
// Colors are enabled only for terminals and can be turned off with
// WithNoColor. A STATUS column is colored by value: healthy states green,
// failed states red.
package output
