package domain

import "time"

const (
	RoleAdmin    = "admin"
	RoleEmployee = "employee"
	RoleClient   = "client"
)

// DefaultRoles is the role set accepted when none is configured.
var DefaultRoles = []string{RoleAdmin, RoleEmployee, RoleClient}

// User is a single persisted account: an employee, a client or an admin.
type User struct {
	ID        string    `json:"_id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Username  string    `json:"username"`
	Password  string    `json:"-"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email,omitempty"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Leads is only populated by filter queries and is never persisted.
	Leads []Lead `json:"leads,omitempty"`
}

// UniqueField names a user attribute that must be unique across the collection.
type UniqueField string

const (
	FieldUsername UniqueField = "username"
	FieldPhone    UniqueField = "phone"
	FieldEmail    UniqueField = "email"
)
