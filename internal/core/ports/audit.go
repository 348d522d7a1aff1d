package ports

import (
	"context"

	"github.com/leadbook/user-directory/internal/core/domain"
)

// AuditRepository persists user events to the audit trail.
type AuditRepository interface {
	InsertEvent(ctx context.Context, event *domain.UserEvent) error
}

// AuditService records a single user event.
type AuditService interface {
	Record(ctx context.Context, event domain.UserEvent) error
}

// EventPublisher hands events to the audit pipeline without blocking the caller.
type EventPublisher interface {
	Publish(event domain.UserEvent)
}
