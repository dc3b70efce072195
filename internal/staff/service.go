package staff

import (
	"context"
	"strings"
)

type CreateRequest struct {
	Name  string
	Role  string
	Email string
	Shift string
}

type UpdateRequest struct {
	Name  *string
	Role  *string
	Email *string
	Shift *string
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Member, error)
	GetByID(ctx context.Context, id string) (*Member, error)
	List(ctx context.Context, filter Filter) ([]*Member, int, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*Member, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Member, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, ErrEmptyName
	}
	if strings.TrimSpace(req.Email) == "" {
		return nil, ErrEmptyEmail
	}

	m := &Member{
		Name:  strings.TrimSpace(req.Name),
		Role:  req.Role,
		Email: strings.ToLower(strings.TrimSpace(req.Email)),
		Shift: req.Shift,
	}

	if err := s.repo.Create(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Member, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Member, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) Update(ctx context.Context, id string, req UpdateRequest) (*Member, error) {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, ErrEmptyName
		}
		m.Name = strings.TrimSpace(*req.Name)
	}
	if req.Role != nil {
		m.Role = *req.Role
	}
	if req.Email != nil {
		if strings.TrimSpace(*req.Email) == "" {
			return nil, ErrEmptyEmail
		}
		m.Email = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if req.Shift != nil {
		m.Shift = *req.Shift
	}

	if err := s.repo.Update(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
