package ports

import (
	"context"

	"github.com/leadbook/user-directory/internal/core/domain"
)

// LeadRepository is a read-only view over the leads collection.
type LeadRepository interface {
	// FindActiveByEmployee returns non-archived leads allocated to employeeID.
	FindActiveByEmployee(ctx context.Context, employeeID string) ([]domain.Lead, error)
	// FindByClientPhones returns every lead whose client phone is in phones.
	FindByClientPhones(ctx context.Context, phones []string) ([]domain.Lead, error)
}
