package http

import (
	"time"

	"github.com/harborlane/cruise-reservation-backend/internal/announcement"
	"github.com/harborlane/cruise-reservation-backend/internal/pkg/request"
)

// ListAnnouncementsRequest defines query parameters for listing notices.
type ListAnnouncementsRequest struct {
	request.ListParams
	Keyword  string `form:"keyword"`
	Priority string `form:"priority" binding:"omitempty,oneof=normal urgent"`
	SortBy   string `form:"sort_by" binding:"omitempty,oneof=created_at updated_at title"`
}

type AnnouncementResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Priority  string    `json:"priority"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewResponse(a *announcement.Announcement) AnnouncementResponse {
	return AnnouncementResponse{
		ID:        a.ID,
		Title:     a.Title,
		Content:   a.Content,
		Priority:  a.Priority,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

type CreateRequest struct {
	Title    string `json:"title" binding:"required"`
	Content  string `json:"content" binding:"required"`
	Priority string `json:"priority" binding:"omitempty,oneof=normal urgent"`
}

type UpdateRequest struct {
	Title    *string `json:"title"`
	Content  *string `json:"content"`
	Priority *string `json:"priority" binding:"omitempty,oneof=normal urgent"`
}
