package http

import (
	"time"

	"github.com/harborlane/cruise-reservation-backend/internal/pkg/request"
	"github.com/harborlane/cruise-reservation-backend/internal/staff"
)

// ListStaffRequest defines query parameters for listing staff members.
type ListStaffRequest struct {
	request.ListParams
	Role  string `form:"role"`
	Shift string `form:"shift"`
	Name  string `form:"name"`
}

// Validate performs custom validation for ListStaffRequest.
func (r *ListStaffRequest) Validate() error {
	return nil
}

type MemberResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	Email     string    `json:"email"`
	Shift     string    `json:"shift"`
	CreatedAt time.Time `json:"created_at"`
}

// MemberTag is a brief representation of a staff member.
type MemberTag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func NewMemberResponse(m *staff.Member) MemberResponse {
	return MemberResponse{
		ID:        m.ID,
		Name:      m.Name,
		Role:      m.Role,
		Email:     m.Email,
		Shift:     m.Shift,
		CreatedAt: m.CreatedAt,
	}
}

type CreateMemberBody struct {
	Name  string `json:"name" binding:"required"`
	Role  string `json:"role" binding:"required"`
	Email string `json:"email" binding:"required,email"`
	Shift string `json:"shift"`
}

type UpdateMemberBody struct {
	Name  *string `json:"name"`
	Role  *string `json:"role"`
	Email *string `json:"email" binding:"omitempty,email"`
	Shift *string `json:"shift"`
}
