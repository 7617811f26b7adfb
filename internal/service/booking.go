package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"carpool/internal/domain"
	"carpool/internal/observability"
	"carpool/internal/redis"
	"carpool/internal/repository"
)

const offerLockTTL = 10 * time.Second

// BookingService enforces the seat-capacity and no-duplicate-join
// invariants when riders join or leave offers. All check-and-append
// work for one offer happens inside a per-offer critical section, so
// racing joins for the last seat resolve to exactly one winner while
// unrelated offers book in parallel.
type BookingService struct {
	offerRepo  repository.OfferRepository
	userRepo   repository.UserRepository
	lockStore  redis.LockStoreInterface  // optional, serializes across processes
	cacheStore redis.CacheStoreInterface // optional
	notifier   *NotificationService

	mu    sync.Mutex
	locks map[int64]*sync.Mutex // per-offer in-process locks
}

// NewBookingService creates a new BookingService.
func NewBookingService(
	offerRepo repository.OfferRepository,
	userRepo repository.UserRepository,
	lockStore redis.LockStoreInterface,
	cacheStore redis.CacheStoreInterface,
	notifier *NotificationService,
) *BookingService {
	return &BookingService{
		offerRepo:  offerRepo,
		userRepo:   userRepo,
		lockStore:  lockStore,
		cacheStore: cacheStore,
		notifier:   notifier,
		locks:      make(map[int64]*sync.Mutex),
	}
}

// offerLock returns the in-process mutex for an offer, creating it on
// first use. Locks are scoped per offer so two offers never contend.
func (s *BookingService) offerLock(offerID int64) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[offerID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[offerID] = lock
	}
	return lock
}

// Join gives riderID a seat on the offer. Exactly one of several
// concurrent calls racing for the last seat succeeds; the rest observe
// ErrOfferFull. A failed join leaves the offer unchanged.
func (s *BookingService) Join(ctx context.Context, offerID int64, riderID string) (*domain.BookingConfirmation, error) {
	if riderID == "" {
		return nil, ErrInvalidUserID
	}

	if _, err := s.userRepo.GetByID(ctx, riderID); err != nil {
		return nil, err
	}

	lock := s.offerLock(offerID)
	lock.Lock()
	defer lock.Unlock()

	// Cross-process serialization when a distributed lock is wired.
	if s.lockStore != nil {
		locked, err := s.lockStore.AcquireOfferLock(ctx, offerID, offerLockTTL)
		if err != nil {
			return nil, err
		}
		if !locked {
			return nil, ErrOfferBusy
		}
		defer func() {
			_ = s.lockStore.ReleaseOfferLock(ctx, offerID)
		}()
	}

	offer, err := s.offerRepo.GetByID(ctx, offerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrOfferNotFound
		}
		return nil, err
	}

	if len(offer.Passengers) > offer.SeatsAvailable {
		// A stored offer over capacity is a programming bug, not a
		// recoverable domain error.
		return nil, ErrOfferCorrupted
	}

	if offer.HasPassenger(riderID) {
		return nil, ErrAlreadyJoined
	}
	if offer.Status != domain.OfferStatusActive {
		if offer.Status == domain.OfferStatusFull {
			return nil, ErrOfferFull
		}
		return nil, ErrOfferNotActive
	}
	if offer.IsFull() {
		return nil, ErrOfferFull
	}

	offer.Passengers = append(offer.Passengers, riderID)
	if offer.IsFull() {
		offer.Status = domain.OfferStatusFull
	}

	if err := s.offerRepo.Update(ctx, offer); err != nil {
		return nil, err
	}

	s.invalidateOffer(ctx, offerID)
	observability.BookingsTotal.Inc()

	confirmation := &domain.BookingConfirmation{
		ID:           uuid.New().String(),
		OfferID:      offer.ID,
		RiderID:      riderID,
		PricePerSeat: offer.PricePerSeat,
		JoinedAt:     time.Now(),
	}

	if s.notifier != nil {
		_ = s.notifier.NotifyRiderJoined(ctx, offer, riderID)
	}
	return confirmation, nil
}

// Leave removes riderID from the offer, reopening a FULL offer when a
// seat frees up. Leaving an offer the rider never joined fails with
// ErrNotJoined and changes nothing.
func (s *BookingService) Leave(ctx context.Context, offerID int64, riderID string) error {
	if riderID == "" {
		return ErrInvalidUserID
	}

	lock := s.offerLock(offerID)
	lock.Lock()
	defer lock.Unlock()

	if s.lockStore != nil {
		locked, err := s.lockStore.AcquireOfferLock(ctx, offerID, offerLockTTL)
		if err != nil {
			return err
		}
		if !locked {
			return ErrOfferBusy
		}
		defer func() {
			_ = s.lockStore.ReleaseOfferLock(ctx, offerID)
		}()
	}

	offer, err := s.offerRepo.GetByID(ctx, offerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrOfferNotFound
		}
		return err
	}

	if !offer.HasPassenger(riderID) {
		return ErrNotJoined
	}

	passengers := make([]string, 0, len(offer.Passengers)-1)
	for _, id := range offer.Passengers {
		if id != riderID {
			passengers = append(passengers, id)
		}
	}
	offer.Passengers = passengers

	if offer.Status == domain.OfferStatusFull && !offer.IsFull() {
		offer.Status = domain.OfferStatusActive
	}

	if err := s.offerRepo.Update(ctx, offer); err != nil {
		return err
	}

	s.invalidateOffer(ctx, offerID)

	if s.notifier != nil {
		_ = s.notifier.NotifyRiderLeft(ctx, offer, riderID)
	}
	return nil
}

func (s *BookingService) invalidateOffer(ctx context.Context, offerID int64) {
	if s.cacheStore == nil {
		return
	}
	_ = s.cacheStore.InvalidateOffer(ctx, offerID)
}
