package http

import (
	"time"

	"github.com/harborlane/cruise-reservation-backend/internal/file"
	"github.com/harborlane/cruise-reservation-backend/internal/inventory"
	"github.com/harborlane/cruise-reservation-backend/internal/pkg/request"
)

// ListItemsRequest defines query parameters for listing inventory items.
type ListItemsRequest struct {
	request.ListParams
	Category string `form:"category"`
	Status   string `form:"status"`
	Name     string `form:"name"`
}

// Validate performs custom validation for ListItemsRequest.
func (r *ListItemsRequest) Validate() error {
	return nil
}

type ItemResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	Quantity  int       `json:"quantity"`
	Reserved  int       `json:"reserved"`
	Available int       `json:"available"`
	Status    string    `json:"status"`
	PhotoURL  *string   `json:"photo_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ItemTag is a brief representation of an inventory item.
type ItemTag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func NewItemResponse(i *inventory.Item) ItemResponse {
	resp := ItemResponse{
		ID:        i.ID,
		Name:      i.Name,
		Category:  i.Category,
		Quantity:  i.Quantity,
		Reserved:  i.Reserved,
		Available: i.Available(),
		Status:    i.Status,
		CreatedAt: i.CreatedAt,
	}
	if i.PhotoID != nil {
		u := file.FileURL(*i.PhotoID)
		resp.PhotoURL = &u
	}
	return resp
}

type CreateItemBody struct {
	Name     string `json:"name" binding:"required"`
	Category string `json:"category" binding:"required"`
	Quantity int    `json:"quantity" binding:"required,min=0"`
	Status   string `json:"status"`
}

type UpdateItemBody struct {
	Name     *string `json:"name"`
	Category *string `json:"category"`
	Quantity *int    `json:"quantity"`
	Status   *string `json:"status"`
}
