package notify

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/nats-io/nats.go/jetstream"

	"git.home.luguber.info/inful/readmegen/internal/config"
	"git.home.luguber.info/inful/readmegen/internal/lifecycle"
	"git.home.luguber.info/inful/readmegen/internal/retry"
)

type fakeJetStream struct {
	subjects []string
	payloads [][]byte
	err      error
}

func (f *fakeJetStream) Publish(_ context.Context, subject string, payload []byte, _ ...jetstream.PublishOpt) (*jetstream.PubAck, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.subjects = append(f.subjects, subject)
	f.payloads = append(f.payloads, payload)
	return &jetstream.PubAck{}, nil
}

func TestNewPublisherRequiresEnabled(t *testing.T) {
	_, err := NewPublisher(config.NotifyConfig{Enabled: false})
	if err == nil {
		t.Fatal("expected error for disabled notifications")
	}
}

func TestOnGenerationPublishesWireMessage(t *testing.T) {
	js := &fakeJetStream{}
	p := &Publisher{js: js, subject: DefaultSubject}

	ev := lifecycle.GenerationEvent{
		RunID:       "run-1",
		Plugin:      "Readme",
		Format:      "gfm",
		Filename:    "README.md",
		Location:    "build",
		Phase:       "build",
		Trigger:     "watch",
		Bytes:       99,
		Fingerprint: "fp",
		Commit:      "abc",
		Tag:         "v1.2.3",
		At:          time.Now(),
	}
	if err := p.OnGeneration(t.Context(), ev); err != nil {
		t.Fatalf("failed to publish: %v", err)
	}

	if len(js.subjects) != 1 || js.subjects[0] != DefaultSubject {
		t.Fatalf("expected one publish on %s, got %v", DefaultSubject, js.subjects)
	}

	var msg GenerationMessage
	if err := json.Unmarshal(js.payloads[0], &msg); err != nil {
		t.Fatalf("failed to unmarshal payload: %v", err)
	}
	if msg.RunID != ev.RunID || msg.Filename != ev.Filename || msg.Trigger != ev.Trigger {
		t.Errorf("unexpected message fields: %+v", msg)
	}
	if msg.Bytes != ev.Bytes || msg.Fingerprint != ev.Fingerprint || msg.Tag != ev.Tag {
		t.Errorf("unexpected payload fields: %+v", msg)
	}
}

func TestOnGenerationWireFormatUsesSnakeCaseKeys(t *testing.T) {
	js := &fakeJetStream{}
	p := &Publisher{js: js, subject: "readmes"}

	err := p.OnGeneration(t.Context(), lifecycle.GenerationEvent{RunID: "run-2", Filename: "README"})
	if err != nil {
		t.Fatalf("failed to publish: %v", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(js.payloads[0], &raw); err != nil {
		t.Fatalf("failed to unmarshal payload: %v", err)
	}
	if _, ok := raw["run_id"]; !ok {
		t.Errorf("expected run_id key, got %v", raw)
	}
	if _, ok := raw["filename"]; !ok {
		t.Errorf("expected filename key, got %v", raw)
	}
}

// flakyJetStream fails the first N publishes, then delegates to the fake.
type flakyJetStream struct {
	fakeJetStream
	failures int
	calls    int
}

func (f *flakyJetStream) Publish(ctx context.Context, subject string, payload []byte, opts ...jetstream.PublishOpt) (*jetstream.PubAck, error) {
	f.calls++
	if f.calls <= f.failures {
		return nil, errors.New("nats: no responders available for request")
	}
	return f.fakeJetStream.Publish(ctx, subject, payload, opts...)
}

func TestOnGenerationRetriesTransientPublishFailures(t *testing.T) {
	js := &flakyJetStream{failures: 2}
	p := &Publisher{
		js:      js,
		subject: DefaultSubject,
		policy:  retry.NewPolicy(retry.BackoffFixed, time.Millisecond, time.Millisecond, 2),
	}

	if err := p.OnGeneration(t.Context(), lifecycle.GenerationEvent{RunID: "run-3", Filename: "README"}); err != nil {
		t.Fatalf("expected publish to succeed after retries: %v", err)
	}
	if js.calls != 3 {
		t.Fatalf("expected 3 attempts got %d", js.calls)
	}
	if len(js.subjects) != 1 {
		t.Fatalf("expected exactly one delivered message, got %d", len(js.subjects))
	}
}

func TestOnGenerationGivesUpWhenRetriesExhaust(t *testing.T) {
	js := &fakeJetStream{err: errors.New("nats: timeout")}
	p := &Publisher{
		js:      js,
		subject: DefaultSubject,
		policy:  retry.NewPolicy(retry.BackoffFixed, time.Millisecond, time.Millisecond, 1),
	}

	if err := p.OnGeneration(t.Context(), lifecycle.GenerationEvent{RunID: "run-4"}); err == nil {
		t.Fatal("expected error when publishing keeps failing")
	}
}
