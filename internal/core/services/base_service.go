package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/SscSPs/hifzmaal_backend/internal/core/domain"
	portssvc "github.com/SscSPs/hifzmaal_backend/internal/core/ports/services"
	"github.com/SscSPs/hifzmaal_backend/internal/metrics"
	"github.com/SscSPs/hifzmaal_backend/internal/middleware"
	"github.com/SscSPs/hifzmaal_backend/internal/platform/clock"
	"github.com/google/uuid"
)

// BaseService provides common functionality for all services
type BaseService struct {
	FamilyAuthorizer portssvc.FamilyAuthorizerSvc
	Clock            clock.Clock
	Events           portssvc.EventPublisher
	Metrics          *metrics.Collector
}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	logger := middleware.GetLoggerFromCtx(ctx)
	if logger == nil {
		return slog.Default()
	}
	return logger
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	args := make([]any, 0, len(keyvals)+1)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	logger.Error(msg, args...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Info(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Debug(msg, keyvals...)
}

// Now returns the injected clock's time, falling back to the system clock.
func (s *BaseService) Now() time.Time {
	if s.Clock == nil {
		return clock.New().Now()
	}
	return s.Clock.Now()
}

// Today is Now truncated to its UTC calendar date.
func (s *BaseService) Today() time.Time {
	return clock.DateOf(s.Now())
}

// Authorize checks that userID holds perm in familyID and returns the membership.
func (s *BaseService) Authorize(ctx context.Context, userID, familyID string, perm domain.FamilyPermission) (*domain.FamilyMember, error) {
	member, err := s.FamilyAuthorizer.AuthorizeMember(ctx, userID, familyID, perm)
	if err != nil {
		s.LogDebug(ctx, "Family authorization denied",
			slog.String("user_id", userID),
			slog.String("family_id", familyID),
			slog.String("permission", string(perm)),
			slog.String("reason", err.Error()))
		return nil, err
	}
	return member, nil
}

// publish sends an event after a commit. Delivery failures are logged and never returned.
func (s *BaseService) publish(ctx context.Context, eventType domain.EventType, familyID, actorID string, payload map[string]any) {
	if s.Events == nil {
		return
	}
	event := domain.Event{
		EventID:    uuid.NewString(),
		Type:       eventType,
		FamilyID:   familyID,
		ActorID:    actorID,
		OccurredAt: s.Now(),
		Payload:    payload,
	}
	err := s.Events.Publish(ctx, event)
	s.Metrics.RecordEventPublished(string(eventType), err)
	if err != nil {
		s.LogError(ctx, err, "Failed to publish event",
			slog.String("event_type", string(eventType)),
			slog.String("family_id", familyID))
	}
}

// auditFields stamps creation and update metadata.
func auditFields(userID string, now time.Time) domain.AuditFields {
	return domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     userID,
		LastUpdatedAt: now,
		LastUpdatedBy: userID,
	}
}
