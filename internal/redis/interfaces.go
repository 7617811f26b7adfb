package redis

import (
	"context"
	"time"
)

// LockStoreInterface defines the interface for distributed offer locking.
type LockStoreInterface interface {
	AcquireOfferLock(ctx context.Context, offerID int64, ttl time.Duration) (bool, error)
	ReleaseOfferLock(ctx context.Context, offerID int64) error
}

// CacheStoreInterface defines the entity cache consulted by the offer,
// matching and account services.
type CacheStoreInterface interface {
	GetOffer(ctx context.Context, offerID int64) (*CachedOffer, error)
	SetOffer(ctx context.Context, offer *CachedOffer) error
	InvalidateOffer(ctx context.Context, offerID int64) error
	SetUser(ctx context.Context, user *CachedUser) error
	InvalidateUser(ctx context.Context, userID string) error
	GetUsersBatch(ctx context.Context, userIDs []string) (map[string]*CachedUser, []string, error)
}

// Ensure concrete types implement interfaces.
var (
	_ LockStoreInterface  = (*LockStore)(nil)
	_ CacheStoreInterface = (*CacheStore)(nil)
)
