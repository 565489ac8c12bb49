package employees

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

func (s *Service) List(ctx context.Context) ([]Employee, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id int64) (*Employee, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, e Employee) (*Employee, error) {
	e.Name = strings.TrimSpace(e.Name)
	if e.Name == "" {
		return nil, fmt.Errorf("employee name is required: %w", shared.ErrValidation)
	}
	if e.MaxWorkload <= 0 {
		return nil, fmt.Errorf("max workload must be positive: %w", shared.ErrValidation)
	}
	if e.Status == "" {
		e.Status = StatusActive
	}
	id, err := s.repo.Create(ctx, e)
	if err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) SetAvailability(ctx context.Context, id int64, available bool) error {
	return s.repo.SetAvailability(ctx, id, available)
}

// LockQueue stops new assignments going to the technician. The reason is
// kept for display until the lock is released.
func (s *Service) LockQueue(ctx context.Context, id int64, reason string) error {
	return s.repo.LockQueue(ctx, id, strings.TrimSpace(reason))
}

func (s *Service) UnlockQueue(ctx context.Context, id int64) error {
	return s.repo.UnlockQueue(ctx, id)
}

// AdjustWorkload shifts the counter by delta. Assignments and completions
// move it as part of their own transactions; this entry point exists for
// manual corrections.
func (s *Service) AdjustWorkload(ctx context.Context, id int64, delta int) error {
	if delta == 0 {
		return fmt.Errorf("workload delta must not be zero: %w", shared.ErrValidation)
	}
	return s.repo.AdjustWorkload(ctx, id, delta)
}

// Recommended returns the technician the queue would assign next, or nil
// when nobody can take work.
func (s *Service) Recommended(ctx context.Context) (*Employee, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return RecommendedTechnician(list), nil
}

func (s *Service) Available(ctx context.Context) ([]Employee, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return AvailableTechnicians(list), nil
}
