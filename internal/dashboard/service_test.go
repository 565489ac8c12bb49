package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/elektra-pos/elektra-pos/testing"
)

type stubMetrics struct {
	revenue     map[string]int64
	counts      map[string]int
	outstanding int64
	pending     int
	lowStock    int
	calls       int
}

func day(t time.Time) string {
	return t.Format("2006-01-02")
}

func (s *stubMetrics) RevenueOn(ctx context.Context, d time.Time) (int64, error) {
	s.calls++
	return s.revenue[day(d)], nil
}

func (s *stubMetrics) CountOn(ctx context.Context, d time.Time) (int, error) {
	s.calls++
	return s.counts[day(d)], nil
}

func (s *stubMetrics) OutstandingTotal(ctx context.Context) (int64, error) {
	s.calls++
	return s.outstanding, nil
}

func (s *stubMetrics) CountPendingOrders(ctx context.Context) (int, error) {
	s.calls++
	return s.pending, nil
}

func (s *stubMetrics) CountLowStock(ctx context.Context) (int, error) {
	s.calls++
	return s.lowStock, nil
}

func TestMetricsFanOutAndCache(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	stub := &stubMetrics{
		revenue: map[string]int64{
			day(now):                  4500000,
			day(now.AddDate(0, 0, -1)): 3200000,
		},
		counts:      map[string]int{day(now): 12},
		outstanding: 1750000,
		pending:     4,
		lowStock:    7,
	}

	svc := NewService(client, time.Minute, stub, stub, stub)
	svc.now = func() time.Time { return now }

	m, err := svc.Metrics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(4500000), m.TodayRevenue)
	assert.Equal(t, int64(3200000), m.YesterdayRevenue)
	assert.Equal(t, int64(1750000), m.TotalOutstanding)
	assert.Equal(t, 12, m.TodayTransactions)
	assert.Equal(t, 4, m.PendingServices)
	assert.Equal(t, 7, m.LowStockCount)

	firstCalls := stub.calls
	again, err := svc.Metrics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, m, again)
	assert.Equal(t, firstCalls, stub.calls, "second read should come from cache")

	mr.FastForward(2 * time.Minute)
	_, err = svc.Metrics(context.Background())
	require.NoError(t, err)
	assert.Greater(t, stub.calls, firstCalls, "expired cache should recompute")
}

func TestInvalidateDropsCache(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	stub := &stubMetrics{revenue: map[string]int64{}, counts: map[string]int{}}
	svc := NewService(client, time.Minute, stub, stub, stub)

	_, err := svc.Metrics(context.Background())
	require.NoError(t, err)
	before := stub.calls

	require.NoError(t, svc.Invalidate(context.Background()))

	_, err = svc.Metrics(context.Background())
	require.NoError(t, err)
	assert.Greater(t, stub.calls, before)
}
