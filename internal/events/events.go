// Package events publishes domain events for downstream consumers such as notification services.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Event types.
const (
	ContactCreated    = "contact.created"
	ContactDeleted    = "contact.deleted"
	UserBlocked       = "user.blocked"
	UserUnblocked     = "user.unblocked"
	PropertyFlagged   = "property.flagged"
	PropertyUnflagged = "property.unflagged"
	PropertyDeleted   = "property.deleted"
)

// Event is the envelope written to the bus. Key groups related events on one partition.
type Event struct {
	ID         string                 `json:"id"`
	Type       string                 `json:"type"`
	Key        string                 `json:"key"`
	ActorID    string                 `json:"actorId,omitempty"`
	Payload    map[string]interface{} `json:"payload,omitempty"`
	OccurredAt time.Time              `json:"occurredAt"`
}

// New builds an event keyed by the id of the aggregate it concerns.
func New(eventType string, key, actor uuid.UUID, payload map[string]interface{}) Event {
	e := Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		Key:        key.String(),
		Payload:    payload,
		OccurredAt: time.Now().UTC(),
	}
	if actor != uuid.Nil {
		e.ActorID = actor.String()
	}
	return e
}

// Publisher delivers events. Implementations must be safe for concurrent use.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
func (NopPublisher) Close() error                         { return nil }

// Emit publishes e and logs a failure instead of returning it. Domain operations have already
// committed when they emit, so a broken bus must not fail the request.
func Emit(ctx context.Context, p Publisher, log *zap.Logger, e Event) {
	if p == nil {
		return
	}
	if err := p.Publish(ctx, e); err != nil && log != nil {
		log.Warn("publish event failed",
			zap.String("type", e.Type),
			zap.String("key", e.Key),
			zap.Error(err),
		)
	}
}
