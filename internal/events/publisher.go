// Package events provides a fire-and-forget NATS publisher for catalog
// change notifications. Downstream consumers (recommendation jobs, cache
// invalidation) subscribe to the catalog.* subjects.
package events

import (
	"context"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/example/filmora/internal/platform/auth"
)

// Envelope is the canonical message sent on every catalog.* subject.
type Envelope struct {
	EventID    string    `json:"event_id"`
	EventName  string    `json:"event_name"`
	OwnerID    string    `json:"owner_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    any       `json:"payload,omitempty"`
}

// Publisher publishes catalog events to NATS JetStream.
// The zero value and a nil pointer are both safe no-op stubs.
type Publisher struct {
	js  nats.JetStreamContext
	log *zap.Logger
}

// New creates a Publisher using an existing JetStream context.
// Pass js=nil to get a no-op stub (useful in tests and runs without NATS).
func New(js nats.JetStreamContext, log *zap.Logger) *Publisher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Publisher{js: js, log: log}
}

// Emit sends one event asynchronously. The event name doubles as the NATS
// subject. Failures are logged as warnings and never surface to the
// caller; a publish must not fail a request that already committed.
func (p *Publisher) Emit(ctx context.Context, event string, payload any) {
	if p == nil || p.js == nil {
		return
	}
	ownerID, _ := auth.OwnerIDFromContext(ctx)
	env := Envelope{
		EventID:    uuid.NewString(),
		EventName:  event,
		OwnerID:    ownerID,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	}
	data, err := json.Marshal(env)
	if err != nil {
		p.log.Warn("events: marshal failed", zap.String("event", event), zap.Error(err))
		return
	}
	if _, err := p.js.PublishAsync(event, data); err != nil {
		p.log.Warn("events: publish failed", zap.String("subject", event), zap.Error(err))
	}
}
