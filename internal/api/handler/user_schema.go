package handler

import "github.com/leadbook/user-directory/internal/core/ports"

// --- Request types ---

type createClientRequest struct {
	FirstName string `json:"firstName" validate:"required,min=2"`
	LastName  string `json:"lastName"  validate:"required,min=2"`
	Username  string `json:"username"  validate:"required,min=2"`
	Password  string `json:"password"  validate:"omitempty,strongpassword"`
	Phone     string `json:"phone"     validate:"required,phone"`
	Email     string `json:"email"     validate:"omitempty,email"`
	Role      string `json:"role"`
}

type createEmployeeRequest struct {
	FirstName string `json:"firstName" validate:"required,min=2"`
	LastName  string `json:"lastName"  validate:"required,min=2"`
	Username  string `json:"username"  validate:"required,min=2"`
	Password  string `json:"password"  validate:"required,strongpassword"`
	Phone     string `json:"phone"     validate:"required,phone"`
	Email     string `json:"email"     validate:"omitempty,email"`
}

// updateUserRequest has no id field: an "_id" in the body is ignored.
type updateUserRequest struct {
	FirstName *string `json:"firstName" validate:"omitempty,min=2"`
	LastName  *string `json:"lastName"  validate:"omitempty,min=2"`
	Username  *string `json:"username"  validate:"omitempty,min=2"`
	Password  *string `json:"password"  validate:"omitempty,strongpassword"`
	Phone     *string `json:"phone"     validate:"omitempty,phone"`
	Email     *string `json:"email"     validate:"omitempty,email"`
	Role      *string `json:"role"`
}

type updateRoleRequest struct {
	Role string `json:"role" validate:"required"`
}

// --- Response types ---

type deleteAllResult struct {
	DeletedCount int64 `json:"deletedCount"`
}

// --- Mapping ---

func (r createClientRequest) toInput() ports.CreateUserInput {
	return ports.CreateUserInput{
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Username:  r.Username,
		Password:  r.Password,
		Phone:     r.Phone,
		Email:     r.Email,
		Role:      r.Role,
	}
}

func (r createEmployeeRequest) toInput() ports.CreateUserInput {
	return ports.CreateUserInput{
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Username:  r.Username,
		Password:  r.Password,
		Phone:     r.Phone,
		Email:     r.Email,
	}
}

func (r updateUserRequest) toInput() ports.UpdateUserInput {
	return ports.UpdateUserInput{
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Username:  r.Username,
		Password:  r.Password,
		Phone:     r.Phone,
		Email:     r.Email,
		Role:      r.Role,
	}
}
