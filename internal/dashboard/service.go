package dashboard

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

const cacheKey = "dashboard:metrics"

// Metrics is the storefront overview: money in today, money still owed,
// repairs in flight, and stock that needs reordering.
type Metrics struct {
	TodayRevenue      int64 `json:"today_revenue"`
	YesterdayRevenue  int64 `json:"yesterday_revenue"`
	TotalOutstanding  int64 `json:"total_outstanding"`
	PendingServices   int   `json:"pending_services"`
	LowStockCount     int   `json:"low_stock_count"`
	TodayTransactions int   `json:"today_transactions"`
}

type TransactionsPort interface {
	RevenueOn(ctx context.Context, day time.Time) (int64, error)
	CountOn(ctx context.Context, day time.Time) (int, error)
	OutstandingTotal(ctx context.Context) (int64, error)
}

type ServicesPort interface {
	CountPendingOrders(ctx context.Context) (int, error)
}

type ProductsPort interface {
	CountLowStock(ctx context.Context) (int, error)
}

type Service struct {
	cache        *redis.Client
	cacheTTL     time.Duration
	transactions TransactionsPort
	services     ServicesPort
	products     ProductsPort
	now          func() time.Time
}

func NewService(cache *redis.Client, cacheTTL time.Duration, transactions TransactionsPort, services ServicesPort, products ProductsPort) *Service {
	if cacheTTL <= 0 {
		cacheTTL = time.Minute
	}
	return &Service{
		cache:        cache,
		cacheTTL:     cacheTTL,
		transactions: transactions,
		services:     services,
		products:     products,
		now:          time.Now,
	}
}

// Metrics serves the cached snapshot when fresh, otherwise fans the six
// queries out concurrently and caches the result.
func (s *Service) Metrics(ctx context.Context) (*Metrics, error) {
	// any cache failure counts as a miss, the queries below are the truth
	if s.cache != nil {
		if raw, err := s.cache.Get(ctx, cacheKey).Bytes(); err == nil {
			var m Metrics
			if err := json.Unmarshal(raw, &m); err == nil {
				return &m, nil
			}
		}
	}

	m, err := s.gather(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if raw, err := json.Marshal(m); err == nil {
			_ = s.cache.Set(ctx, cacheKey, raw, s.cacheTTL).Err()
		}
	}
	return m, nil
}

func (s *Service) gather(ctx context.Context) (*Metrics, error) {
	today := s.now()
	yesterday := today.AddDate(0, 0, -1)

	var m Metrics
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		v, err := s.transactions.RevenueOn(ctx, today)
		m.TodayRevenue = v
		return err
	})
	g.Go(func() error {
		v, err := s.transactions.RevenueOn(ctx, yesterday)
		m.YesterdayRevenue = v
		return err
	})
	g.Go(func() error {
		v, err := s.transactions.CountOn(ctx, today)
		m.TodayTransactions = v
		return err
	})
	g.Go(func() error {
		v, err := s.transactions.OutstandingTotal(ctx)
		m.TotalOutstanding = v
		return err
	})
	g.Go(func() error {
		v, err := s.services.CountPendingOrders(ctx)
		m.PendingServices = v
		return err
	})
	g.Go(func() error {
		v, err := s.products.CountLowStock(ctx)
		m.LowStockCount = v
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Invalidate drops the cached snapshot so the next read recomputes.
func (s *Service) Invalidate(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Del(ctx, cacheKey).Err()
}
