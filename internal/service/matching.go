package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"carpool/internal/domain"
	"carpool/internal/observability"
	"carpool/internal/redis"
	"carpool/internal/repository"
)

// MatchConfig contains the ranking weights and the departure-time
// flexibility window. The weights must sum to 1.
type MatchConfig struct {
	PriceWeight       float64 // weight of price proximity
	TimeWeight        float64 // weight of departure-time proximity
	RatingWeight      float64 // weight of driver rating
	FlexibilityWindow time.Duration
}

// DefaultMatchConfig returns the default matching configuration.
func DefaultMatchConfig() MatchConfig {
	return MatchConfig{
		PriceWeight:       0.4,
		TimeWeight:        0.4,
		RatingWeight:      0.2,
		FlexibilityWindow: 45 * time.Minute,
	}
}

// MatchCandidate is one ranked offer for a request.
type MatchCandidate struct {
	OfferID int64
	Score   float64
	Offer   *domain.CarpoolOffer
}

// MatchingService ranks compatible active offers for a ride request.
type MatchingService struct {
	offerRepo  repository.OfferRepository
	userRepo   repository.UserRepository
	cacheStore redis.CacheStoreInterface // optional, for driver rating lookups
	config     MatchConfig
}

// NewMatchingService creates a new MatchingService.
func NewMatchingService(
	offerRepo repository.OfferRepository,
	userRepo repository.UserRepository,
	cacheStore redis.CacheStoreInterface,
	config MatchConfig,
) *MatchingService {
	return &MatchingService{
		offerRepo:  offerRepo,
		userRepo:   userRepo,
		cacheStore: cacheStore,
		config:     config,
	}
}

// Match returns the active offers compatible with the request, ranked
// by score descending. Ties are broken by earliest creation, then by
// ID, so the ordering is fully deterministic.
//
// An offer is compatible when origin and destination match exactly,
// it has a free seat, its price fits the request's budget and its
// departure lies within the flexibility window of the desired time.
// Fuzzy and geo-radius location matching is deliberately out of scope;
// locations are opaque keys.
func (s *MatchingService) Match(ctx context.Context, request *domain.CarpoolRequest) ([]MatchCandidate, error) {
	start := time.Now()
	defer func() {
		observability.MatchLatency.Observe(time.Since(start).Seconds())
	}()

	offers, err := s.offerRepo.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	var compatible []*domain.CarpoolOffer
	for _, offer := range offers {
		if s.isCompatible(offer, request) {
			compatible = append(compatible, offer)
		}
	}
	if len(compatible) == 0 {
		return nil, nil
	}

	ratings := s.driverRatings(ctx, compatible)

	candidates := make([]MatchCandidate, 0, len(compatible))
	for _, offer := range compatible {
		candidates = append(candidates, MatchCandidate{
			OfferID: offer.ID,
			Score:   s.score(offer, request, ratings[offer.DriverID]),
			Offer:   offer,
		})
	}

	sort.Slice(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if !a.Offer.CreatedAt.Equal(b.Offer.CreatedAt) {
			return a.Offer.CreatedAt.Before(b.Offer.CreatedAt)
		}
		return a.OfferID < b.OfferID
	})

	observability.MatchesTotal.Inc()
	return candidates, nil
}

func (s *MatchingService) isCompatible(offer *domain.CarpoolOffer, request *domain.CarpoolRequest) bool {
	if offer.Status != domain.OfferStatusActive {
		return false
	}
	if offer.IsFull() {
		return false
	}
	if offer.Origin != request.Origin || offer.Destination != request.Destination {
		return false
	}
	if offer.PricePerSeat > request.MaxPrice {
		return false
	}

	delta := offer.DepartureTime.Sub(request.DesiredTime)
	if delta < 0 {
		delta = -delta
	}
	return delta <= s.config.FlexibilityWindow
}

// score combines price fit, time fit and driver reputation, each
// normalized to [0,1], using the configured weights.
func (s *MatchingService) score(offer *domain.CarpoolOffer, request *domain.CarpoolRequest, driverRating float64) float64 {
	priceProximity := 1.0
	if request.MaxPrice > 0 {
		priceProximity = clamp01(1 - offer.PricePerSeat/request.MaxPrice)
	}

	delta := offer.DepartureTime.Sub(request.DesiredTime)
	if delta < 0 {
		delta = -delta
	}
	timeProximity := 1.0
	if s.config.FlexibilityWindow > 0 {
		timeProximity = clamp01(1 - float64(delta)/float64(s.config.FlexibilityWindow))
	}

	rating := clamp01(driverRating / 5.0)

	return s.config.PriceWeight*priceProximity +
		s.config.TimeWeight*timeProximity +
		s.config.RatingWeight*rating
}

// driverRatings resolves the rating of every distinct driver among the
// compatible offers, consulting the cache first and falling back to
// the user repository. A driver that cannot be resolved scores 0.
func (s *MatchingService) driverRatings(ctx context.Context, offers []*domain.CarpoolOffer) map[string]float64 {
	ratings := make(map[string]float64)

	seen := make(map[string]bool, len(offers))
	driverIDs := make([]string, 0, len(offers))
	for _, offer := range offers {
		if !seen[offer.DriverID] {
			seen[offer.DriverID] = true
			driverIDs = append(driverIDs, offer.DriverID)
		}
	}

	missing := driverIDs
	if s.cacheStore != nil {
		cached, miss, err := s.cacheStore.GetUsersBatch(ctx, driverIDs)
		if err == nil {
			for id, u := range cached {
				ratings[id] = u.Rating
			}
			missing = miss
		}
	}

	for _, id := range missing {
		user, err := s.userRepo.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				continue
			}
			continue
		}
		ratings[id] = user.Rating
		s.cacheUserAsync(user)
	}

	return ratings
}

// cacheUserAsync caches a user rating (fire and forget).
func (s *MatchingService) cacheUserAsync(user *domain.User) {
	if s.cacheStore == nil {
		return
	}
	go func() {
		cached := &redis.CachedUser{
			ID:          user.ID,
			DisplayName: user.DisplayName,
			Rating:      user.Rating,
		}
		_ = s.cacheStore.SetUser(context.Background(), cached)
	}()
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
