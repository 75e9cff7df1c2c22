package services

import (
	"context"
	"time"

	"productapi/internal/dto"
)

// Product lifecycle event types.
const (
	EventProductCreated = "product.created"
	EventProductUpdated = "product.updated"
	EventProductDeleted = "product.deleted"
)

// ProductEvent is published after a successful write.
type ProductEvent struct {
	EventID    string           `json:"event_id"`
	Type       string           `json:"type"`
	ProductID  uint             `json:"product_id"`
	OccurredAt time.Time        `json:"occurred_at"`
	Product    *dto.ProductView `json:"product,omitempty"` // Nil for deletions
}

// EventPublisher delivers product events to a broker.
type EventPublisher interface {
	Publish(ctx context.Context, eventID, eventType string, payload interface{}) error
}

// Clock supplies the current time so release dates can be controlled in tests.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

// Now is truncated to microseconds, the finest precision every supported store keeps.
func (realClock) Now() time.Time { return time.Now().UTC().Truncate(time.Microsecond) }
