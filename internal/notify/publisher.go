// Package notify publishes readme generation events to NATS JetStream when
// enabled in configuration. Consumers outside this process decide what a
// regenerated readme means for them; the publisher only reports facts.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"git.home.luguber.info/inful/readmegen/internal/config"
	rgerrors "git.home.luguber.info/inful/readmegen/internal/errors"
	"git.home.luguber.info/inful/readmegen/internal/lifecycle"
	"git.home.luguber.info/inful/readmegen/internal/logfields"
	"git.home.luguber.info/inful/readmegen/internal/retry"
)

// DefaultSubject is used when notify.subject is not configured.
const DefaultSubject = "readmegen.generations"

const publishTimeout = 5 * time.Second

// jetStreamPublisher is the subset of jetstream.JetStream the publisher
// needs, so tests can substitute an in-memory fake.
type jetStreamPublisher interface {
	Publish(ctx context.Context, subject string, payload []byte, opts ...jetstream.PublishOpt) (*jetstream.PubAck, error)
}

// Publisher sends generation events to NATS JetStream.
type Publisher struct {
	conn    *nats.Conn
	js      jetStreamPublisher
	subject string
	policy  retry.Policy
}

// NewPublisher connects to NATS and creates a JetStream context.
func NewPublisher(cfg config.NotifyConfig) (*Publisher, error) {
	if !cfg.Enabled {
		return nil, fmt.Errorf("notifications are disabled")
	}

	url := cfg.URL
	if url == "" {
		url = nats.DefaultURL
	}
	subject := cfg.Subject
	if subject == "" {
		subject = DefaultSubject
	}

	conn, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := jetstream.New(conn)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	slog.Info("NATS publisher initialized",
		slog.String("url", url), slog.String("subject", subject))

	return &Publisher{conn: conn, js: js, subject: subject, policy: retry.DefaultPolicy()}, nil
}

// OnGeneration implements lifecycle.GenerationListener by publishing the
// event to the configured subject. Transient publish failures are retried
// within the publish timeout budget.
func (p *Publisher) OnGeneration(ctx context.Context, ev lifecycle.GenerationEvent) error {
	data, err := json.Marshal(newMessage(ev))
	if err != nil {
		return rgerrors.InternalError("marshal generation event", err)
	}

	pubCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	err = p.policy.Do(pubCtx, func() error {
		_, err := p.js.Publish(pubCtx, p.subject, data)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	slog.Debug("Published generation event",
		logfields.Filename(ev.Filename), logfields.Format(ev.Format), logfields.Trigger(ev.Trigger))
	return nil
}

// Close closes the NATS connection.
func (p *Publisher) Close() error {
	if p.conn != nil {
		p.conn.Close()
	}
	return nil
}
