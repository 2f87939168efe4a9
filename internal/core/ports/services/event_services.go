package services

import (
	"context"

	"github.com/SscSPs/hifzmaal_backend/internal/core/domain"
)

// EventPublisher delivers domain events to the notification layer.
// Callers publish only after the state change has committed and never fail a
// request because delivery failed.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.Event) error
	Close() error
}
