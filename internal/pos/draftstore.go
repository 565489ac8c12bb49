package pos

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrDraftNotFound indicates the draft expired or never existed.
var ErrDraftNotFound = errors.New("pos: draft not found")

// DraftStore keeps in-progress drafts in Redis so a cashier's cart survives
// across requests. Drafts expire after the TTL; abandonment needs no cleanup
// because nothing touches Postgres before submission.
type DraftStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewDraftStore builds a DraftStore.
func NewDraftStore(client *redis.Client, ttl time.Duration) *DraftStore {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &DraftStore{client: client, ttl: ttl}
}

func draftKey(id string) string {
	return "pos:draft:" + id
}

// Save writes the draft and refreshes its TTL.
func (s *DraftStore) Save(ctx context.Context, draft *TransactionDraft) error {
	data, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("pos: encode draft: %w", err)
	}
	if err := s.client.Set(ctx, draftKey(draft.ID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("pos: save draft: %w", err)
	}
	return nil
}

// Load fetches a draft by id.
func (s *DraftStore) Load(ctx context.Context, id string) (*TransactionDraft, error) {
	data, err := s.client.Get(ctx, draftKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrDraftNotFound
		}
		return nil, fmt.Errorf("pos: load draft: %w", err)
	}
	var draft TransactionDraft
	if err := json.Unmarshal(data, &draft); err != nil {
		return nil, fmt.Errorf("pos: decode draft: %w", err)
	}
	return &draft, nil
}

// Delete removes a draft, typically right after a successful submission.
func (s *DraftStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, draftKey(id)).Err(); err != nil {
		return fmt.Errorf("pos: delete draft: %w", err)
	}
	return nil
}
