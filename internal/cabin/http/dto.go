package http

import (
	"time"

	"github.com/harborlane/cruise-reservation-backend/internal/cabin"
	"github.com/harborlane/cruise-reservation-backend/internal/file"
	"github.com/harborlane/cruise-reservation-backend/internal/pkg/request"
)

// ListCabinsRequest defines query parameters for listing cabins.
type ListCabinsRequest struct {
	request.ListParams
	Deck   int    `form:"deck" binding:"omitempty,min=1"`
	Type   string `form:"type"`
	Status string `form:"status" binding:"omitempty,oneof=available maintenance out_of_service"`
}

// Validate performs custom validation for ListCabinsRequest.
func (r *ListCabinsRequest) Validate() error {
	return nil
}

type CabinResponse struct {
	ID          string    `json:"id"`
	CabinNumber string    `json:"cabin_number"`
	Deck        int       `json:"deck"`
	Type        string    `json:"type"`
	Capacity    int       `json:"capacity"`
	Status      string    `json:"status"`
	PhotoURL    *string   `json:"photo_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// CabinTag is a brief representation of a cabin.
type CabinTag struct {
	ID          string `json:"id"`
	CabinNumber string `json:"cabin_number"`
}

func NewCabinResponse(c *cabin.Cabin) CabinResponse {
	resp := CabinResponse{
		ID:          c.ID,
		CabinNumber: c.CabinNumber,
		Deck:        c.Deck,
		Type:        c.Type,
		Capacity:    c.Capacity,
		Status:      c.Status,
		CreatedAt:   c.CreatedAt,
	}
	if c.PhotoID != nil {
		u := file.FileURL(*c.PhotoID)
		resp.PhotoURL = &u
	}
	return resp
}

type CreateCabinBody struct {
	CabinNumber string `json:"cabin_number" binding:"required"`
	Deck        int    `json:"deck" binding:"required,min=1"`
	Type        string `json:"type" binding:"required"`
	Capacity    int    `json:"capacity" binding:"required,min=1"`
	Status      string `json:"status" binding:"omitempty,oneof=available maintenance out_of_service"`
}

type UpdateCabinBody struct {
	CabinNumber *string `json:"cabin_number"`
	Deck        *int    `json:"deck"`
	Type        *string `json:"type"`
	Capacity    *int    `json:"capacity"`
	Status      *string `json:"status" binding:"omitempty,oneof=available maintenance out_of_service"`
}
