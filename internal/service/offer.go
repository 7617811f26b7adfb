package service

import (
	"context"
	"errors"
	"time"

	"carpool/internal/domain"
	"carpool/internal/observability"
	"carpool/internal/redis"
	"carpool/internal/repository"
)

// OfferFilter is a caller-supplied predicate applied to active offers.
type OfferFilter func(*domain.CarpoolOffer) bool

// OfferService handles publishing, listing and cancelling offers.
type OfferService struct {
	offerRepo  repository.OfferRepository
	userRepo   repository.UserRepository
	cacheStore redis.CacheStoreInterface // optional, read-through for offer lookups
	notifier   *NotificationService
}

// NewOfferService creates a new OfferService.
func NewOfferService(
	offerRepo repository.OfferRepository,
	userRepo repository.UserRepository,
	cacheStore redis.CacheStoreInterface,
	notifier *NotificationService,
) *OfferService {
	return &OfferService{
		offerRepo:  offerRepo,
		userRepo:   userRepo,
		cacheStore: cacheStore,
		notifier:   notifier,
	}
}

// CreateOfferRequest contains the parameters for publishing an offer.
type CreateOfferRequest struct {
	DriverID      string
	Origin        string
	Destination   string
	DepartureTime time.Time
	Seats         int
	PricePerSeat  float64
	Notes         string
}

// CreateOffer publishes a new offer in ACTIVE status.
func (s *OfferService) CreateOffer(ctx context.Context, req CreateOfferRequest) (int64, error) {
	if req.DriverID == "" {
		return 0, ErrInvalidUserID
	}
	if req.Origin == "" || req.Destination == "" {
		return 0, ErrInvalidLocation
	}
	if req.Seats <= 0 {
		return 0, ErrInvalidCapacity
	}
	if req.PricePerSeat < 0 {
		return 0, ErrInvalidPrice
	}

	driver, err := s.userRepo.GetByID(ctx, req.DriverID)
	if err != nil {
		return 0, err
	}
	if !driver.HasVehicle() {
		return 0, ErrDriverWithoutVehicle
	}

	offer := &domain.CarpoolOffer{
		DriverID:       req.DriverID,
		Origin:         req.Origin,
		Destination:    req.Destination,
		DepartureTime:  req.DepartureTime,
		SeatsAvailable: req.Seats,
		PricePerSeat:   req.PricePerSeat,
		Notes:          req.Notes,
		Passengers:     []string{},
		Status:         domain.OfferStatusActive,
		CreatedAt:      time.Now(),
	}

	return s.offerRepo.Create(ctx, offer)
}

// GetOffer retrieves an offer by ID, consulting the cache first. The
// short offer TTL plus booking-side invalidation keeps seat counts
// from going stale.
func (s *OfferService) GetOffer(ctx context.Context, offerID int64) (*domain.CarpoolOffer, error) {
	if s.cacheStore != nil {
		if cached, err := s.cacheStore.GetOffer(ctx, offerID); err == nil && cached != nil {
			return offerFromCached(cached), nil
		}
	}

	offer, err := s.offerRepo.GetByID(ctx, offerID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrOfferNotFound
	}
	if err != nil {
		return nil, err
	}

	if s.cacheStore != nil {
		_ = s.cacheStore.SetOffer(ctx, cachedFromOffer(offer))
	}
	return offer, nil
}

// ListActive returns active offers in creation order, departing at or
// after the caller-supplied now, narrowed by an optional predicate.
// Staleness is a pure function of the caller's clock; there is no
// background expiry.
func (s *OfferService) ListActive(ctx context.Context, now time.Time, filter OfferFilter) ([]*domain.CarpoolOffer, error) {
	offers, err := s.offerRepo.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	observability.OffersActive.Set(float64(len(offers)))

	result := make([]*domain.CarpoolOffer, 0, len(offers))
	for _, offer := range offers {
		if offer.DepartureTime.Before(now) {
			continue
		}
		if filter != nil && !filter(offer) {
			continue
		}
		result = append(result, offer)
	}
	return result, nil
}

// CancelOffer cancels an offer. Cancelling an already-cancelled or
// already-full offer is a no-op success so retries are always safe.
func (s *OfferService) CancelOffer(ctx context.Context, offerID int64) error {
	offer, err := s.offerRepo.GetByID(ctx, offerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrOfferNotFound
		}
		return err
	}

	if offer.Status != domain.OfferStatusActive {
		return nil
	}

	offer.Status = domain.OfferStatusCancelled
	if err := s.offerRepo.Update(ctx, offer); err != nil {
		return err
	}

	if s.cacheStore != nil {
		_ = s.cacheStore.InvalidateOffer(ctx, offerID)
	}
	if s.notifier != nil {
		_ = s.notifier.NotifyOfferCancelled(ctx, offer)
	}
	return nil
}

func cachedFromOffer(o *domain.CarpoolOffer) *redis.CachedOffer {
	return &redis.CachedOffer{
		ID:             o.ID,
		DriverID:       o.DriverID,
		Origin:         o.Origin,
		Destination:    o.Destination,
		DepartureTime:  o.DepartureTime,
		SeatsAvailable: o.SeatsAvailable,
		PricePerSeat:   o.PricePerSeat,
		Notes:          o.Notes,
		Passengers:     o.Passengers,
		Status:         string(o.Status),
		CreatedAt:      o.CreatedAt,
	}
}

func offerFromCached(c *redis.CachedOffer) *domain.CarpoolOffer {
	return &domain.CarpoolOffer{
		ID:             c.ID,
		DriverID:       c.DriverID,
		Origin:         c.Origin,
		Destination:    c.Destination,
		DepartureTime:  c.DepartureTime,
		SeatsAvailable: c.SeatsAvailable,
		PricePerSeat:   c.PricePerSeat,
		Notes:          c.Notes,
		Passengers:     c.Passengers,
		Status:         domain.OfferStatus(c.Status),
		CreatedAt:      c.CreatedAt,
	}
}
