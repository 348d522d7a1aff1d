package ports

import (
	"context"
	"time"

	"github.com/leadbook/user-directory/internal/core/domain"
)

// UserFilter narrows a user query. Fields holds equality criteria keyed by
// the stored attribute name; zero CreatedFrom/CreatedTo mean "unbounded".
type UserFilter struct {
	Fields      map[string]string
	CreatedFrom time.Time
	CreatedTo   time.Time
}

// UserPatch is a partial update. Nil fields are left untouched. It has no
// identifier field: the id of a stored user never changes.
type UserPatch struct {
	FirstName *string
	LastName  *string
	Username  *string
	Password  *string // already hashed by the service
	Phone     *string
	Email     *string
	Role      *string
}

// UserRepository defines persistence operations for users.
type UserRepository interface {
	List(ctx context.Context) ([]*domain.User, error)
	// FindByID returns domain.ErrUserNotFound for unknown or malformed ids.
	FindByID(ctx context.Context, id string) (*domain.User, error)
	Find(ctx context.Context, filter UserFilter) ([]*domain.User, error)
	FindByRole(ctx context.Context, role string) ([]*domain.User, error)
	// FindConflicts returns the users whose username or phone equals the
	// given values, or whose email equals email when email is non-empty.
	FindConflicts(ctx context.Context, username, phone, email string) ([]*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	Update(ctx context.Context, id string, patch UserPatch, updatedAt time.Time) (*domain.User, error)
	// Delete removes the user and returns its last stored state.
	Delete(ctx context.Context, id string) (*domain.User, error)
	// DeleteAll removes every user and returns how many were removed.
	DeleteAll(ctx context.Context) (int64, error)
}
