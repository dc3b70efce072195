package inventory

import (
	"errors"
	"time"
)

var (
	ErrNotFound        = errors.New("inventory item not found")
	ErrNameTaken       = errors.New("inventory item name already exists")
	ErrEmptyName       = errors.New("name cannot be empty")
	ErrInvalidQuantity = errors.New("quantity must be zero or greater")
	ErrReservedBounds  = errors.New("reserved count would fall outside valid bounds")
)

// Item represents a countable piece of onboard inventory, such as snorkel
// gear or a beach umbrella set.
//
// Quantity is the total capacity of the item and only changes through admin
// edits. Reserved is a live counter of how many units are held by active
// reservations; the booking engine adjusts it inside the same transaction
// that writes the reservation row. Admission itself is decided by summing
// overlapping reservations against Quantity, never by Reserved alone, so
// bookings in disjoint time windows do not starve each other.
type Item struct {
	ID        string
	Name      string
	Category  string
	Quantity  int
	Reserved  int
	Status    string
	PhotoID   *string
	CreatedAt time.Time
}

// Available returns how many units are not currently held by a reservation.
func (i *Item) Available() int {
	return i.Quantity - i.Reserved
}

// Filter defines parameters for listing inventory items.
type Filter struct {
	Category string
	Status   string
	Name     string
	Page     int
	PageSize int
}
