package services

import (
	portssvc "github.com/SscSPs/hifzmaal_backend/internal/core/ports/services"
	"github.com/SscSPs/hifzmaal_backend/internal/metrics"
	"github.com/SscSPs/hifzmaal_backend/internal/platform/clock"
)

// ServiceOption configures the shared dependencies of a service.
type ServiceOption func(*BaseService)

// WithFamilyAuthorizer adds the family authorizer dependency
func WithFamilyAuthorizer(authorizer portssvc.FamilyAuthorizerSvc) ServiceOption {
	return func(s *BaseService) {
		s.FamilyAuthorizer = authorizer
	}
}

// WithClock injects the time source.
func WithClock(c clock.Clock) ServiceOption {
	return func(s *BaseService) {
		s.Clock = c
	}
}

// WithEventPublisher adds the publisher used after commits.
func WithEventPublisher(p portssvc.EventPublisher) ServiceOption {
	return func(s *BaseService) {
		s.Events = p
	}
}

// WithMetrics adds the Prometheus collector.
func WithMetrics(m *metrics.Collector) ServiceOption {
	return func(s *BaseService) {
		s.Metrics = m
	}
}

func newBase(options []ServiceOption) BaseService {
	base := BaseService{Clock: clock.New()}
	for _, option := range options {
		option(&base)
	}
	return base
}
