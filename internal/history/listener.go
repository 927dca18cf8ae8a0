package history

import (
	"context"

	"git.home.luguber.info/inful/readmegen/internal/lifecycle"
)

// Listener records every generation event into a Store. It is subscribed to
// a run when history is enabled in configuration.
type Listener struct {
	store Store
}

// NewListener wraps a store as a run subscriber.
func NewListener(store Store) *Listener {
	return &Listener{store: store}
}

// OnGeneration implements lifecycle.GenerationListener.
func (l *Listener) OnGeneration(ctx context.Context, ev lifecycle.GenerationEvent) error {
	return l.store.Record(ctx, Entry{
		RunID:       ev.RunID,
		Plugin:      ev.Plugin,
		Format:      ev.Format,
		Filename:    ev.Filename,
		Location:    ev.Location,
		Phase:       ev.Phase,
		Trigger:     ev.Trigger,
		Bytes:       ev.Bytes,
		Fingerprint: ev.Fingerprint,
		Commit:      ev.Commit,
		Tag:         ev.Tag,
		CreatedAt:   ev.At,
	})
}
