package domain

import (
	"errors"
	"strings"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrUserExists   = errors.New("user already exists")
	ErrInvalidRole  = errors.New("invalid role")
)

// ConflictError reports which unique field a new or updated user collides on.
// Every ConflictError matches ErrUserExists under errors.Is.
type ConflictError struct {
	Field UniqueField
}

func (e *ConflictError) Error() string {
	switch e.Field {
	case FieldUsername:
		return "Username already exists."
	case FieldPhone:
		return "Phone number already exists."
	case FieldEmail:
		return "Email already exists."
	default:
		return ErrUserExists.Error()
	}
}

func (e *ConflictError) Is(target error) bool {
	return target == ErrUserExists
}

var (
	ErrUsernameTaken = &ConflictError{Field: FieldUsername}
	ErrPhoneTaken    = &ConflictError{Field: FieldPhone}
	ErrEmailTaken    = &ConflictError{Field: FieldEmail}
)

// ConflictFor returns the conflict sentinel for field.
func ConflictFor(field UniqueField) error {
	switch field {
	case FieldUsername:
		return ErrUsernameTaken
	case FieldPhone:
		return ErrPhoneTaken
	case FieldEmail:
		return ErrEmailTaken
	default:
		return ErrUserExists
	}
}

// ValidationError carries one message per rejected input field.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Problems, "; ")
}

// NewValidationError builds a ValidationError from the given messages.
func NewValidationError(problems ...string) *ValidationError {
	return &ValidationError{Problems: problems}
}
