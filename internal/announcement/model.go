package announcement

import (
	"errors"
	"time"
)

var (
	ErrNotFound        = errors.New("notice not found")
	ErrTitleRequired   = errors.New("title is required")
	ErrContentRequired = errors.New("content is required")
	ErrInvalidPriority = errors.New("priority must be normal or urgent")
)

// Notice priorities. Urgent notices sort before normal ones in listings.
const (
	PriorityNormal = "normal"
	PriorityUrgent = "urgent"
)

// Announcement is a voyage notice shown to guests, such as itinerary
// changes, muster drill times or shore excursion updates.
type Announcement struct {
	ID        string
	Title     string
	Content   string
	Priority  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Filter defines parameters for listing announcements.
type Filter struct {
	Keyword   string
	Priority  string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
