package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/leadbook/user-directory/internal/pkg/metrics"
	"github.com/leadbook/user-directory/internal/core/domain"
	"github.com/leadbook/user-directory/internal/core/ports"
)

type auditService struct {
	repo ports.AuditRepository
	log  zerolog.Logger
}

// NewAuditService returns an AuditService implementation.
func NewAuditService(repo ports.AuditRepository, log zerolog.Logger) ports.AuditService {
	return &auditService{repo: repo, log: log}
}

// Record persists a single user event to the audit trail.
func (s *auditService) Record(ctx context.Context, event domain.UserEvent) error {
	if event.Type == "" {
		return fmt.Errorf("record audit event: missing type")
	}

	if err := s.repo.InsertEvent(ctx, &event); err != nil {
		metrics.AuditEventsTotal.WithLabelValues(string(event.Type), "failed").Inc()
		return fmt.Errorf("record audit event: %w", err)
	}

	metrics.AuditEventsTotal.WithLabelValues(string(event.Type), "stored").Inc()
	s.log.Debug().
		Str("type", string(event.Type)).
		Str("user_id", event.UserID).
		Str("actor", event.Actor).
		Msg("audit event recorded")

	return nil
}
