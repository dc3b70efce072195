package cabin

import (
	"context"
	"strings"
)

type CreateRequest struct {
	CabinNumber string
	Deck        int
	Type        string
	Capacity    int
	Status      string
}

type UpdateRequest struct {
	CabinNumber *string
	Deck        *int
	Type        *string
	Capacity    *int
	Status      *string
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Cabin, error)
	GetByID(ctx context.Context, id string) (*Cabin, error)
	List(ctx context.Context, filter Filter) ([]*Cabin, int, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*Cabin, error)
	Delete(ctx context.Context, id string) error
	SetPhoto(ctx context.Context, id, fileID string) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func validStatus(s string) bool {
	for _, v := range ValidStatuses {
		if s == v {
			return true
		}
	}
	return false
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Cabin, error) {
	if strings.TrimSpace(req.CabinNumber) == "" {
		return nil, ErrEmptyNumber
	}
	if req.Deck < 1 {
		return nil, ErrInvalidDeck
	}

	status := req.Status
	if status == "" {
		status = "available"
	}
	if !validStatus(status) {
		return nil, ErrInvalidStatus
	}

	c := &Cabin{
		CabinNumber: strings.TrimSpace(req.CabinNumber),
		Deck:        req.Deck,
		Type:        req.Type,
		Capacity:    req.Capacity,
		Status:      status,
	}

	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Cabin, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Cabin, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) Update(ctx context.Context, id string, req UpdateRequest) (*Cabin, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.CabinNumber != nil {
		if strings.TrimSpace(*req.CabinNumber) == "" {
			return nil, ErrEmptyNumber
		}
		c.CabinNumber = strings.TrimSpace(*req.CabinNumber)
	}
	if req.Deck != nil {
		if *req.Deck < 1 {
			return nil, ErrInvalidDeck
		}
		c.Deck = *req.Deck
	}
	if req.Type != nil {
		c.Type = *req.Type
	}
	if req.Capacity != nil {
		c.Capacity = *req.Capacity
	}
	if req.Status != nil {
		if !validStatus(*req.Status) {
			return nil, ErrInvalidStatus
		}
		c.Status = *req.Status
	}

	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *service) SetPhoto(ctx context.Context, id, fileID string) error {
	return s.repo.SetPhoto(ctx, id, fileID)
}
