package user

import (
	"errors"
	"time"
)

var (
	ErrNotFound           = errors.New("user not found")
	ErrEmailAlreadyUsed   = errors.New("email already used")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInactiveUser       = errors.New("user is inactive")
	ErrEmailRequired      = errors.New("email is required")
	ErrNameRequired       = errors.New("first and last name are required")
	ErrPasswordTooShort   = errors.New("password is too short")
	ErrPasswordTooLong    = errors.New("password is too long")
	ErrPasswordMismatch   = errors.New("password and confirmed password do not match")
)

// User represents a guest account in the system.
type User struct {
	ID            string // UUID
	Email         string
	PasswordHash  string
	FirstName     string
	LastName      string
	CreatedAt     time.Time
	LastLoginAt   *time.Time
	IsActive      bool
	IsSystemAdmin bool
}

// FullName returns the guest's display name.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// Filter defines filter options for listing users.
type Filter struct {
	Email    string
	Name     string
	IsActive *bool // Use pointer to distinguish between false and nil (not set)

	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
