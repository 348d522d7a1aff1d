package ports

import (
	"context"

	"github.com/leadbook/user-directory/internal/core/domain"
)

// PasswordHasher turns a plaintext password into an irreversible digest.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
}

// UniqueClaim is a unique field value a creation wants to hold exclusively.
type UniqueClaim struct {
	Field domain.UniqueField
	Value string
}

// CreationGuard serialises concurrent creations that share a unique value.
type CreationGuard interface {
	// Reserve claims each value in order. When a value is already held by
	// another creation, it releases what it took and returns that field.
	Reserve(ctx context.Context, claims []UniqueClaim) (held domain.UniqueField, err error)
	Release(ctx context.Context, claims []UniqueClaim) error
}
