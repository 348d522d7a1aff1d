package ports

import (
	"context"

	"github.com/leadbook/user-directory/internal/core/domain"
)

// CreateUserInput is the DTO passed from the transport layer on creation.
type CreateUserInput struct {
	FirstName string
	LastName  string
	Username  string
	Password  string
	Phone     string
	Email     string
	Role      string
}

// UpdateUserInput carries the fields of a partial update. Password is plaintext.
type UpdateUserInput struct {
	FirstName *string
	LastName  *string
	Username  *string
	Password  *string
	Phone     *string
	Email     *string
	Role      *string
}

// FilterUsersInput carries raw query values; dates are parsed leniently.
type FilterUsersInput struct {
	Criteria     map[string]string
	StartingDate string
	EndingDate   string
}

// UserService defines the user directory use cases.
type UserService interface {
	ListUsers(ctx context.Context) ([]*domain.User, error)
	GetUser(ctx context.Context, id string) (*domain.User, error)
	FilterUsers(ctx context.Context, input FilterUsersInput) ([]*domain.User, error)
	ListClients(ctx context.Context) ([]*domain.User, error)
	ListEmployeeClients(ctx context.Context, employeeID string) ([]*domain.User, error)
	ListEmployees(ctx context.Context) ([]*domain.User, error)
	CreateClient(ctx context.Context, input CreateUserInput) (*domain.User, error)
	CreateEmployee(ctx context.Context, input CreateUserInput) (*domain.User, error)
	UpdateRole(ctx context.Context, id, role string) (*domain.User, error)
	UpdateUser(ctx context.Context, id string, input UpdateUserInput) (*domain.User, error)
	DeleteUser(ctx context.Context, id string) (*domain.User, error)
	DeleteAllUsers(ctx context.Context) (int64, error)
}
