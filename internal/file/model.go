package file

import (
	"net/http"
	"time"

	"github.com/harborlane/cruise-reservation-backend/internal/pkg/apperror"
)

var (
	ErrNotFound    = apperror.New(http.StatusNotFound, "file not found")
	ErrTooLarge    = apperror.New(http.StatusBadRequest, "file exceeds the maximum allowed size")
	ErrInvalidType = apperror.New(http.StatusBadRequest, "file type is not allowed")
	ErrNoThumbnail = apperror.New(http.StatusNotFound, "thumbnail not available for this file")
)

// File is a stored upload, typically a cabin or inventory photo.
type File struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	Filename      string    `json:"filename"`
	StoragePath   string    `json:"-"` // Internal path
	ThumbnailPath *string   `json:"-"` // Internal path
	ContentType   string    `json:"content_type"`
	Size          int64     `json:"size"`
	CreatedAt     time.Time `json:"created_at"`
}

// FileURL returns the public URL for accessing a file by its ID.
func FileURL(id string) string {
	return "/v1/files/" + id
}

// ThumbnailURL returns the public URL for accessing a file's thumbnail by its ID.
func ThumbnailURL(id string) string {
	return "/v1/files/" + id + "/thumbnail"
}
