package customers

import (
	"context"
	"fmt"
	"strings"

	"github.com/elektra-pos/elektra-pos/internal/shared"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) validate(c Customer) error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("customer name is required: %w", shared.ErrValidation)
	}
	if !c.Category.Valid() {
		return fmt.Errorf("unknown customer category %q: %w", c.Category, shared.ErrValidation)
	}
	return nil
}

func (s *Service) List(ctx context.Context, filters ListFilters) ([]Customer, int, error) {
	return s.repo.List(ctx, filters)
}

func (s *Service) Get(ctx context.Context, id string) (*Customer, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, c Customer) (*Customer, error) {
	c.Name = strings.TrimSpace(c.Name)
	if c.Category == "" {
		c.Category = CategoryRetail
	}
	if err := s.validate(c); err != nil {
		return nil, err
	}
	id, err := s.repo.Create(ctx, c)
	if err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Update(ctx context.Context, id string, c Customer) error {
	c.Name = strings.TrimSpace(c.Name)
	if err := s.validate(c); err != nil {
		return err
	}
	return s.repo.Update(ctx, id, c)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
