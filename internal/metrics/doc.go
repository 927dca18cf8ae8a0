// Package metrics provides observability hooks for README generation runs.
//
// The package implements the Null Object pattern: components receive a
// Recorder through dependency injection and default to NoopRecorder, so no
// call site needs a nil check. The watch daemon swaps in PrometheusRecorder
// and serves the registry over HTTP; one-shot CLI runs keep the noop.
package metrics
