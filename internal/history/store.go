// Package history persists one row per generated readme artifact, giving the
// watch daemon and inspection tooling a queryable record of what was produced
// when, from which source state.
package history

import (
	"context"
	"time"
)

// Entry is one recorded generation.
type Entry struct {
	ID          int64
	RunID       string
	Plugin      string
	Format      string
	Filename    string
	Location    string
	Phase       string
	Trigger     string
	Bytes       int
	Fingerprint string
	Commit      string
	Tag         string
	CreatedAt   time.Time
}

// ArtifactSummary is a read model: the latest generation per artifact
// filename, with a total count.
type ArtifactSummary struct {
	Filename    string
	Format      string
	Generations int
	LastRunID   string
	LastTrigger string
	LastBytes   int
	Fingerprint string
	LastAt      time.Time
}

// Store defines the interface for persisting and querying generation history.
type Store interface {
	// Record appends one generation entry.
	Record(ctx context.Context, e Entry) error

	// ByRun retrieves all entries for a specific run, oldest first.
	ByRun(ctx context.Context, runID string) ([]Entry, error)

	// Recent retrieves the newest entries, newest first.
	Recent(ctx context.Context, limit int) ([]Entry, error)

	// LastFingerprint returns the fingerprint of the most recent generation
	// for filename, or "" when the artifact has never been generated.
	LastFingerprint(ctx context.Context, filename string) (string, error)

	// Summaries returns the latest generation per artifact filename.
	Summaries(ctx context.Context) ([]ArtifactSummary, error)

	// Close closes the store and releases resources.
	Close() error
}
