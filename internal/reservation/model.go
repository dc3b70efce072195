package reservation

import (
	"net/http"
	"time"

	"github.com/harborlane/cruise-reservation-backend/internal/pkg/apperror"
)

var (
	ErrNotFound             = apperror.New(http.StatusNotFound, "reservation not found")
	ErrCabinNotFound        = apperror.New(http.StatusNotFound, "cabin not found")
	ErrItemNotFound         = apperror.New(http.StatusNotFound, "inventory item not found")
	ErrStaffNotFound        = apperror.New(http.StatusNotFound, "staff member not found")
	ErrTimeConflict         = apperror.New(http.StatusConflict, "time window already booked")
	ErrInsufficientQuantity = apperror.New(http.StatusConflict, "not enough quantity available for the requested window")
	ErrInvalidTimeRange     = apperror.New(http.StatusBadRequest, "start time must be before end time")
	ErrInvalidSubject       = apperror.New(http.StatusBadRequest, "exactly one of cabin_id, item_id or staff_id must be set")
	ErrInvalidQuantity      = apperror.New(http.StatusBadRequest, "quantity must be at least 1 and is only valid for inventory items")
	ErrInvalidStatus        = apperror.New(http.StatusBadRequest, "invalid reservation status")
	ErrCancelledTerminal    = apperror.New(http.StatusBadRequest, "a cancelled reservation cannot change status")
	ErrPermissionDenied     = apperror.New(http.StatusForbidden, "permission denied")
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
)

// Reservation is one booking of a single subject for a half-open time
// window [StartTime, EndTime). Exactly one of CabinID, ItemID and StaffID
// is set; the other two stay nil. Quantity is the number of units held and
// is always 1 for cabin and staff bookings.
type Reservation struct {
	ID          string
	UserID      string
	UserName    string
	CabinID     *string
	CabinNumber string
	ItemID      *string
	ItemName    string
	StaffID     *string
	StaffName   string
	StartTime   time.Time
	EndTime     time.Time
	Status      Status
	Quantity    int
	CreatedAt   time.Time
}

// Subject returns the single non-nil subject reference, or nil if the row
// is malformed.
func (r *Reservation) Subject() *string {
	switch {
	case r.CabinID != nil:
		return r.CabinID
	case r.ItemID != nil:
		return r.ItemID
	case r.StaffID != nil:
		return r.StaffID
	}
	return nil
}

// Filter defines parameters for listing reservations.
type Filter struct {
	UserID   string
	CabinID  string
	ItemID   string
	StaffID  string
	Status   string
	Page     int
	PageSize int
}
