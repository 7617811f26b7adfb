package redis

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// CacheStore handles entity caching in Redis.
type CacheStore struct {
	client *redis.Client
}

// NewCacheStore creates a new CacheStore.
func NewCacheStore(client *redis.Client) *CacheStore {
	return &CacheStore{client: client}
}

// Cache TTL constants
const (
	OfferCacheTTL = 10 * time.Second // Seat counts change during booking
	UserCacheTTL  = 60 * time.Second // Profile and rating change rarely
)

// Key prefixes
const (
	offerCachePrefix = "cache:offer:"
	userCachePrefix  = "cache:user:"
)

// CachedOffer represents a cached offer entity. It carries the full
// offer so a cache hit can serve an offer read without touching the
// database; booking invalidates the entry whenever seats change.
type CachedOffer struct {
	ID             int64     `json:"id"`
	DriverID       string    `json:"driver_id"`
	Origin         string    `json:"origin"`
	Destination    string    `json:"destination"`
	DepartureTime  time.Time `json:"departure_time"`
	SeatsAvailable int       `json:"seats_available"`
	PricePerSeat   float64   `json:"price_per_seat"`
	Notes          string    `json:"notes"`
	Passengers     []string  `json:"passengers"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
}

// CachedUser represents a cached user entity for rating lookups.
type CachedUser struct {
	ID          string  `json:"id"`
	DisplayName string  `json:"display_name"`
	Rating      float64 `json:"rating"`
}

// GetOffer retrieves an offer from cache. A nil result means cache miss.
func (s *CacheStore) GetOffer(ctx context.Context, offerID int64) (*CachedOffer, error) {
	key := offerCacheKey(offerID)
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var offer CachedOffer
	if err := json.Unmarshal(data, &offer); err != nil {
		return nil, err
	}
	return &offer, nil
}

// SetOffer stores an offer in cache.
func (s *CacheStore) SetOffer(ctx context.Context, offer *CachedOffer) error {
	data, err := json.Marshal(offer)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, offerCacheKey(offer.ID), data, OfferCacheTTL).Err()
}

// InvalidateOffer removes an offer from cache.
func (s *CacheStore) InvalidateOffer(ctx context.Context, offerID int64) error {
	return s.client.Del(ctx, offerCacheKey(offerID)).Err()
}

// SetUser stores a user in cache.
func (s *CacheStore) SetUser(ctx context.Context, user *CachedUser) error {
	data, err := json.Marshal(user)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, userCachePrefix+user.ID, data, UserCacheTTL).Err()
}

// InvalidateUser removes a user from cache.
func (s *CacheStore) InvalidateUser(ctx context.Context, userID string) error {
	return s.client.Del(ctx, userCachePrefix+userID).Err()
}

// GetUsersBatch retrieves multiple users from cache using a pipeline.
// Returns a map of userID -> CachedUser, and a slice of missing IDs.
func (s *CacheStore) GetUsersBatch(ctx context.Context, userIDs []string) (map[string]*CachedUser, []string, error) {
	if len(userIDs) == 0 {
		return make(map[string]*CachedUser), nil, nil
	}

	pipe := s.client.Pipeline()
	cmds := make(map[string]*redis.StringCmd, len(userIDs))

	for _, id := range userIDs {
		cmds[id] = pipe.Get(ctx, userCachePrefix+id)
	}

	// Pipeline returns redis.Nil when some keys are missing; those IDs
	// are reported back as misses instead of errors.
	if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
		return nil, userIDs, err
	}

	result := make(map[string]*CachedUser)
	var missing []string

	for id, cmd := range cmds {
		data, err := cmd.Bytes()
		if err != nil {
			missing = append(missing, id)
			continue
		}

		var user CachedUser
		if err := json.Unmarshal(data, &user); err != nil {
			missing = append(missing, id)
			continue
		}
		result[id] = &user
	}

	return result, missing, nil
}

func offerCacheKey(offerID int64) string {
	return offerCachePrefix + strconv.FormatInt(offerID, 10)
}
