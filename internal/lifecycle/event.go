package lifecycle

import (
	"context"
	"time"
)

// GenerationEvent describes one README artifact having been (re)generated.
type GenerationEvent struct {
	RunID       string
	Plugin      string
	Format      string
	Filename    string
	Location    string
	Phase       string
	Trigger     string // build | setup | watch | release
	Bytes       int
	Fingerprint string
	Commit      string
	Tag         string
	At          time.Time
}

// GenerationListener observes generation events. This is the subset of the
// history and notification sinks the run needs, declared here to avoid
// circular dependencies.
type GenerationListener interface {
	OnGeneration(ctx context.Context, ev GenerationEvent) error
}
