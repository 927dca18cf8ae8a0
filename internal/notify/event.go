package notify

import (
	"time"

	"git.home.luguber.info/inful/readmegen/internal/lifecycle"
)

// GenerationMessage is the wire form of a generation event, published to NATS
// for downstream processing (chat hooks, registry badges, release tooling).
type GenerationMessage struct {
	RunID       string    `json:"run_id"`
	Plugin      string    `json:"plugin"`
	Format      string    `json:"format"`
	Filename    string    `json:"filename"`
	Location    string    `json:"location"`
	Phase       string    `json:"phase"`
	Trigger     string    `json:"trigger"`
	Bytes       int       `json:"bytes"`
	Fingerprint string    `json:"fingerprint,omitempty"`
	Commit      string    `json:"commit,omitempty"`
	Tag         string    `json:"tag,omitempty"`
	At          time.Time `json:"at"`
}

func newMessage(ev lifecycle.GenerationEvent) GenerationMessage {
	return GenerationMessage{
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
		At:          ev.At,
	}
}
