package staff

import (
	"errors"
	"time"
)

var (
	ErrNotFound   = errors.New("staff member not found")
	ErrEmailTaken = errors.New("staff email already exists")
	ErrEmptyName  = errors.New("name cannot be empty")
	ErrEmptyEmail = errors.New("email cannot be empty")
)

// Member represents a crew member who can be booked for a time window,
// for example a massage therapist or a private guide. A member is a
// singleton booking subject like a cabin.
type Member struct {
	ID        string
	Name      string
	Role      string
	Email     string
	Shift     string
	CreatedAt time.Time
}

// Filter defines parameters for listing staff members.
type Filter struct {
	Role     string
	Shift    string
	Name     string
	Page     int
	PageSize int
}
