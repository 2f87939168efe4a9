package events

import (
	"context"
	"log/slog"

	"github.com/SscSPs/hifzmaal_backend/internal/core/domain"
	portssvc "github.com/SscSPs/hifzmaal_backend/internal/core/ports/services"
)

// LogPublisher writes events to the log. It is used when no broker is configured.
type LogPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

var _ portssvc.EventPublisher = (*LogPublisher)(nil)

func (p *LogPublisher) Publish(ctx context.Context, event domain.Event) error {
	p.logger.InfoContext(ctx, "Domain event",
		slog.String("event_id", event.EventID),
		slog.String("event_type", string(event.Type)),
		slog.String("family_id", event.FamilyID),
		slog.Any("payload", event.Payload))
	return nil
}

func (p *LogPublisher) Close() error { return nil }

// New returns an AMQP publisher when url is set and falls back to logging when it is
// empty or the broker cannot be reached.
func New(url, exchange string, logger *slog.Logger) portssvc.EventPublisher {
	if url == "" {
		logger.Info("AMQP disabled, domain events will be logged")
		return NewLogPublisher(logger)
	}
	publisher, err := NewAMQPPublisher(url, exchange, logger)
	if err != nil {
		logger.Warn("Failed to initialize AMQP publisher, falling back to log publisher", slog.String("error", err.Error()))
		return NewLogPublisher(logger)
	}
	logger.Info("AMQP publisher initialized", slog.String("exchange", exchange))
	return publisher
}
