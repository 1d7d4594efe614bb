package service

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/adminsuite/adminctl/internal/core/domain"
	"github.com/adminsuite/adminctl/internal/core/ports"
)

// HealthService polls the backend health probe and keeps the last result.
// A transport failure is folded into a synthetic unhealthy report rather
// than an error, so the dashboard always has something to show.
type HealthService struct {
	mu      sync.Mutex
	gateway ports.Gateway
	logger  zerolog.Logger

	last      *domain.Health
	lastCheck time.Time
}

func NewHealthService(gateway ports.Gateway, logger zerolog.Logger) *HealthService {
	return &HealthService{gateway: gateway, logger: logger}
}

// CheckHealth queries GET /health and records the result.
func (s *HealthService) CheckHealth(ctx context.Context) *domain.Health {
	health, err := s.gateway.Health(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("health check failed")
		health = &domain.Health{
			Status:      domain.HealthStatusUnhealthy,
			Environment: "unknown",
			Database:    domain.DatabaseDisconnected,
			Error:       err.Error(),
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.last = health
	s.lastCheck = time.Now()

	result := *health
	return &result
}

// Last returns the most recent health report and when it was taken.
// Returns nil before the first check.
func (s *HealthService) Last() (*domain.Health, time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.last == nil {
		return nil, time.Time{}
	}
	result := *s.last
	return &result, s.lastCheck
}

// IsHealthy reports whether the last check found the backend healthy with
// its database connected.
func (s *HealthService) IsHealthy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last != nil && s.last.Healthy()
}
