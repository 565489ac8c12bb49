package pos

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, ttl time.Duration) (*DraftStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewDraftStore(client, ttl), mr
}

func TestDraftStoreRoundTrip(t *testing.T) {
	store, _ := newTestStore(t, time.Hour)
	ctx := context.Background()

	d := NewDraft()
	require.NoError(t, d.AddItem(d.DefaultLocation().ID, 1, "MCB 10A", 60000, 45000, 2))
	require.NoError(t, store.Save(ctx, d))

	got, err := store.Load(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, d.ID, got.ID)
	require.Len(t, got.Locations, 1)
	require.Len(t, got.Locations[0].Items, 1)
	assert.Equal(t, int64(120000), got.Locations[0].Items[0].Subtotal)
}

func TestDraftStoreLoadMissing(t *testing.T) {
	store, _ := newTestStore(t, time.Hour)
	_, err := store.Load(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrDraftNotFound)
}

func TestDraftStoreDelete(t *testing.T) {
	store, _ := newTestStore(t, time.Hour)
	ctx := context.Background()

	d := NewDraft()
	require.NoError(t, store.Save(ctx, d))
	require.NoError(t, store.Delete(ctx, d.ID))

	_, err := store.Load(ctx, d.ID)
	assert.ErrorIs(t, err, ErrDraftNotFound)
}

func TestDraftStoreExpiry(t *testing.T) {
	store, mr := newTestStore(t, time.Minute)
	ctx := context.Background()

	d := NewDraft()
	require.NoError(t, store.Save(ctx, d))

	mr.FastForward(2 * time.Minute)

	_, err := store.Load(ctx, d.ID)
	assert.ErrorIs(t, err, ErrDraftNotFound)
}
