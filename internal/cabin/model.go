package cabin

import (
	"errors"
	"time"
)

var (
	ErrNotFound      = errors.New("cabin not found")
	ErrNumberTaken   = errors.New("cabin number already exists")
	ErrEmptyNumber   = errors.New("cabin number cannot be empty")
	ErrInvalidDeck   = errors.New("deck must be a positive number")
	ErrInvalidStatus = errors.New("invalid cabin status")
)

// ValidStatuses are the accepted values for a cabin's status column.
var ValidStatuses = []string{"available", "maintenance", "out_of_service"}

// Cabin represents a fixed stateroom on the ship.
// A cabin is a singleton booking subject: it cannot be split, so it has no
// quantity counter and availability is decided purely by time overlap.
type Cabin struct {
	ID          string
	CabinNumber string
	Deck        int
	Type        string
	Capacity    int
	Status      string
	PhotoID     *string
	CreatedAt   time.Time
}

// Filter defines parameters for listing cabins.
type Filter struct {
	Deck     int
	Type     string
	Status   string
	Page     int
	PageSize int
}
