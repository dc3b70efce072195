package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/harborlane/cruise-reservation-backend/internal/cabin"
	"github.com/harborlane/cruise-reservation-backend/internal/pkg/request"
	"github.com/harborlane/cruise-reservation-backend/internal/pkg/response"
)

type Handler struct {
	service cabin.Service
}

func NewHandler(service cabin.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) List(c *gin.Context) {
	var req ListCabinsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": err.Error()})
		return
	}

	filter := cabin.Filter{
		Deck:     req.Deck,
		Type:     req.Type,
		Status:   req.Status,
		Page:     req.Page,
		PageSize: req.PageSize,
	}

	cabins, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list cabins"})
		return
	}

	items := make([]CabinResponse, len(cabins))
	for i, cb := range cabins {
		items[i] = NewCabinResponse(cb)
	}

	c.JSON(http.StatusOK, response.NewPageResponse(items, req.Page, req.PageSize, total))
}

func (h *Handler) Get(c *gin.Context) {
	var params request.ByIDRequest
	if err := c.ShouldBindUri(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	cb, err := h.service.GetByID(c.Request.Context(), params.ID)
	if err != nil {
		if errors.Is(err, cabin.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get cabin"})
		return
	}

	c.JSON(http.StatusOK, NewCabinResponse(cb))
}

func (h *Handler) Create(c *gin.Context) {
	var body CreateCabinBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	cb, err := h.service.Create(c.Request.Context(), cabin.CreateRequest{
		CabinNumber: body.CabinNumber,
		Deck:        body.Deck,
		Type:        body.Type,
		Capacity:    body.Capacity,
		Status:      body.Status,
	})
	if err != nil {
		switch {
		case errors.Is(err, cabin.ErrNumberTaken):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, cabin.ErrEmptyNumber),
			errors.Is(err, cabin.ErrInvalidDeck),
			errors.Is(err, cabin.ErrInvalidStatus):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create cabin"})
		}
		return
	}

	c.JSON(http.StatusCreated, NewCabinResponse(cb))
}

func (h *Handler) Update(c *gin.Context) {
	var params request.ByIDRequest
	if err := c.ShouldBindUri(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	var body UpdateCabinBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	cb, err := h.service.Update(c.Request.Context(), params.ID, cabin.UpdateRequest{
		CabinNumber: body.CabinNumber,
		Deck:        body.Deck,
		Type:        body.Type,
		Capacity:    body.Capacity,
		Status:      body.Status,
	})
	if err != nil {
		switch {
		case errors.Is(err, cabin.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, cabin.ErrNumberTaken):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, cabin.ErrEmptyNumber),
			errors.Is(err, cabin.ErrInvalidDeck),
			errors.Is(err, cabin.ErrInvalidStatus):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update cabin"})
		}
		return
	}

	c.JSON(http.StatusOK, NewCabinResponse(cb))
}

func (h *Handler) Delete(c *gin.Context) {
	var params request.ByIDRequest
	if err := c.ShouldBindUri(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	if err := h.service.Delete(c.Request.Context(), params.ID); err != nil {
		if errors.Is(err, cabin.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete cabin"})
		return
	}

	c.Status(http.StatusNoContent)
}
