package history

import (
	"testing"
	"time"

	"git.home.luguber.info/inful/readmegen/internal/lifecycle"
)

func TestListenerRecordsGenerationEvents(t *testing.T) {
	store := newMemoryStore(t)
	ctx := t.Context()

	ev := lifecycle.GenerationEvent{
		RunID:       "run-9",
		Plugin:      "Readme",
		Format:      "markdown",
		Filename:    "README.mkdn",
		Location:    "root",
		Phase:       "build",
		Trigger:     "watch",
		Bytes:       17,
		Fingerprint: "fp-1",
		Commit:      "c0ffee",
		Tag:         "v2.0.0",
		At:          time.Now(),
	}
	if err := NewListener(store).OnGeneration(ctx, ev); err != nil {
		t.Fatalf("failed to handle event: %v", err)
	}

	entries, err := store.ByRun(ctx, "run-9")
	if err != nil {
		t.Fatalf("failed to query entries: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}

	e := entries[0]
	if e.Plugin != ev.Plugin || e.Format != ev.Format || e.Filename != ev.Filename {
		t.Errorf("unexpected identity fields: %+v", e)
	}
	if e.Location != ev.Location || e.Phase != ev.Phase || e.Trigger != ev.Trigger {
		t.Errorf("unexpected lifecycle fields: %+v", e)
	}
	if e.Bytes != ev.Bytes || e.Fingerprint != ev.Fingerprint || e.Commit != ev.Commit || e.Tag != ev.Tag {
		t.Errorf("unexpected payload fields: %+v", e)
	}
}
