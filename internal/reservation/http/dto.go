package http

import (
	"time"

	cabinHttp "github.com/harborlane/cruise-reservation-backend/internal/cabin/http"
	invHttp "github.com/harborlane/cruise-reservation-backend/internal/inventory/http"
	"github.com/harborlane/cruise-reservation-backend/internal/pkg/request"
	"github.com/harborlane/cruise-reservation-backend/internal/reservation"
	staffHttp "github.com/harborlane/cruise-reservation-backend/internal/staff/http"
	userHttp "github.com/harborlane/cruise-reservation-backend/internal/user/http"
)

// ListReservationsRequest defines query parameters for listing reservations.
type ListReservationsRequest struct {
	request.ListParams
	CabinID string `form:"cabin_id" binding:"omitempty,uuid"`
	ItemID  string `form:"item_id" binding:"omitempty,uuid"`
	StaffID string `form:"staff_id" binding:"omitempty,uuid"`
	UserID  string `form:"user_id" binding:"omitempty,uuid"`
	Status  string `form:"status" binding:"omitempty,oneof=pending confirmed cancelled"`
}

type CreateReservationRequest struct {
	CabinID   *string   `json:"cabin_id" binding:"omitempty,uuid"`
	ItemID    *string   `json:"item_id" binding:"omitempty,uuid"`
	StaffID   *string   `json:"staff_id" binding:"omitempty,uuid"`
	StartTime time.Time `json:"start_time" binding:"required"`
	EndTime   time.Time `json:"end_time" binding:"required"`
	Quantity  int       `json:"quantity" binding:"omitempty,min=1"`
}

type UpdateReservationStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=pending confirmed cancelled"`
}

type ReservationResponse struct {
	ID        string               `json:"id"`
	User      userHttp.UserTag     `json:"user"`
	Cabin     *cabinHttp.CabinTag  `json:"cabin,omitempty"`
	Item      *invHttp.ItemTag     `json:"item,omitempty"`
	Staff     *staffHttp.MemberTag `json:"staff,omitempty"`
	StartTime time.Time            `json:"start_time"`
	EndTime   time.Time            `json:"end_time"`
	Status    string               `json:"status"`
	Quantity  int                  `json:"quantity"`
	CreatedAt time.Time            `json:"created_at"`
}

func NewReservationResponse(r *reservation.Reservation) ReservationResponse {
	resp := ReservationResponse{
		ID:        r.ID,
		User:      userHttp.UserTag{ID: r.UserID, Name: r.UserName},
		StartTime: r.StartTime,
		EndTime:   r.EndTime,
		Status:    string(r.Status),
		Quantity:  r.Quantity,
		CreatedAt: r.CreatedAt,
	}
	if r.CabinID != nil {
		resp.Cabin = &cabinHttp.CabinTag{ID: *r.CabinID, CabinNumber: r.CabinNumber}
	}
	if r.ItemID != nil {
		resp.Item = &invHttp.ItemTag{ID: *r.ItemID, Name: r.ItemName}
	}
	if r.StaffID != nil {
		resp.Staff = &staffHttp.MemberTag{ID: *r.StaffID, Name: r.StaffName}
	}
	return resp
}
