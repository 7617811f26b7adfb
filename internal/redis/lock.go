package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// LockStore handles distributed locking in Redis. The booking service
// takes a per-offer lock so that multiple server processes serialize
// their seat mutations; within one process a keyed mutex already does.
type LockStore struct {
	client *redis.Client
}

// NewLockStore creates a new LockStore.
func NewLockStore(client *redis.Client) *LockStore {
	return &LockStore{client: client}
}

// AcquireOfferLock attempts to acquire a lock for the given offer.
// Returns true if the lock was acquired, false if already held.
func (s *LockStore) AcquireOfferLock(ctx context.Context, offerID int64, ttl time.Duration) (bool, error) {
	key := fmt.Sprintf("lock:offer:%d", offerID)

	ok, err := s.client.SetNX(ctx, key, "1", ttl).Result()
	if err != nil {
		return false, err
	}

	return ok, nil
}

// ReleaseOfferLock releases the lock for the given offer.
func (s *LockStore) ReleaseOfferLock(ctx context.Context, offerID int64) error {
	key := fmt.Sprintf("lock:offer:%d", offerID)

	return s.client.Del(ctx, key).Err()
}
