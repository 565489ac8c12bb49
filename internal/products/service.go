package products

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

func (s *Service) validate(p Product) error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: product name is required", shared.ErrValidation)
	}
	if p.SellPrice < 0 || p.CostPrice < 0 {
		return fmt.Errorf("%w: prices must not be negative", shared.ErrValidation)
	}
	if p.Stock < 0 || p.MinStock < 0 {
		return fmt.Errorf("%w: stock must not be negative", shared.ErrValidation)
	}
	return nil
}

func (s *Service) List(ctx context.Context, filters ListFilters) ([]Product, int, error) {
	return s.repo.List(ctx, filters)
}

func (s *Service) Get(ctx context.Context, id int64) (*Product, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: invalid product id", shared.ErrValidation)
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, p Product) (*Product, error) {
	if err := s.validate(p); err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, p)
}

func (s *Service) Update(ctx context.Context, id int64, p Product) error {
	if id <= 0 {
		return fmt.Errorf("%w: invalid product id", shared.ErrValidation)
	}
	if err := s.validate(p); err != nil {
		return err
	}
	return s.repo.Update(ctx, id, p)
}

// Deactivate hides a product from sale without deleting its history.
func (s *Service) Deactivate(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: invalid product id", shared.ErrValidation)
	}
	return s.repo.Deactivate(ctx, id)
}

// AdjustStock receives or removes stock outside of a sale (stock opname,
// goods receipt). Negative adjustments use the guarded decrement.
func (s *Service) AdjustStock(ctx context.Context, id int64, delta int) error {
	if id <= 0 {
		return fmt.Errorf("%w: invalid product id", shared.ErrValidation)
	}
	switch {
	case delta > 0:
		return s.repo.IncrementStock(ctx, id, delta)
	case delta < 0:
		return s.repo.DecrementStock(ctx, id, -delta)
	default:
		return nil
	}
}
