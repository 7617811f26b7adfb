package tests

import (
	"context"
	"errors"
	"testing"
	"time"

	"carpool/internal/domain"
	"carpool/internal/redis"
	"carpool/internal/service"
)

func offerFixture() (*service.OfferService, *MockOfferRepository, *MockUserRepository) {
	offerRepo := NewMockOfferRepository()
	userRepo := NewMockUserRepository()
	svc := service.NewOfferService(offerRepo, userRepo, nil, nil)
	return svc, offerRepo, userRepo
}

func TestOffer_CreateAssignsIncreasingIDs(t *testing.T) {
	ctx := context.Background()
	svc, _, userRepo := offerFixture()
	addDriver(userRepo, "driver-1", 4.0)

	req := service.CreateOfferRequest{
		DriverID:      "driver-1",
		Origin:        "Downtown",
		Destination:   "Airport",
		DepartureTime: time.Now().Add(2 * time.Hour),
		Seats:         3,
		PricePerSeat:  12,
	}

	first, err := svc.CreateOffer(ctx, req)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	second, err := svc.CreateOffer(ctx, req)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if second <= first {
		t.Errorf("expected increasing IDs, got %d then %d", first, second)
	}
}

func TestOffer_CreateValidation(t *testing.T) {
	ctx := context.Background()
	svc, _, userRepo := offerFixture()
	addDriver(userRepo, "driver-1", 4.0)

	base := service.CreateOfferRequest{
		DriverID:      "driver-1",
		Origin:        "Downtown",
		Destination:   "Airport",
		DepartureTime: time.Now().Add(2 * time.Hour),
		Seats:         3,
		PricePerSeat:  12,
	}

	noSeats := base
	noSeats.Seats = 0
	if _, err := svc.CreateOffer(ctx, noSeats); !errors.Is(err, service.ErrInvalidCapacity) {
		t.Errorf("expected ErrInvalidCapacity, got %v", err)
	}

	negativePrice := base
	negativePrice.PricePerSeat = -1
	if _, err := svc.CreateOffer(ctx, negativePrice); !errors.Is(err, service.ErrInvalidPrice) {
		t.Errorf("expected ErrInvalidPrice, got %v", err)
	}

	noOrigin := base
	noOrigin.Origin = ""
	if _, err := svc.CreateOffer(ctx, noOrigin); !errors.Is(err, service.ErrInvalidLocation) {
		t.Errorf("expected ErrInvalidLocation, got %v", err)
	}
}

func TestOffer_CreateRequiresVehicle(t *testing.T) {
	ctx := context.Background()
	svc, _, userRepo := offerFixture()
	userRepo.AddUser(&domain.User{ID: "walker", Username: "walker"}) // no vehicle

	_, err := svc.CreateOffer(ctx, service.CreateOfferRequest{
		DriverID:      "walker",
		Origin:        "Downtown",
		Destination:   "Airport",
		DepartureTime: time.Now().Add(2 * time.Hour),
		Seats:         3,
		PricePerSeat:  12,
	})
	if !errors.Is(err, service.ErrDriverWithoutVehicle) {
		t.Fatalf("expected ErrDriverWithoutVehicle, got %v", err)
	}
}

func TestOffer_ListActiveSkipsDeparted(t *testing.T) {
	ctx := context.Background()
	svc, offerRepo, _ := offerFixture()

	now := time.Now()

	past := matchOffer("driver-1", 10, now.Add(-time.Hour))
	offerRepo.AddOffer(past)
	futureID := offerRepo.AddOffer(matchOffer("driver-1", 10, now.Add(time.Hour)))

	offers, err := svc.ListActive(ctx, now, nil)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(offers) != 1 {
		t.Fatalf("expected 1 upcoming offer, got %d", len(offers))
	}
	if offers[0].ID != futureID {
		t.Errorf("expected offer %d, got %d", futureID, offers[0].ID)
	}

	// Staleness depends only on the clock the caller passes in.
	offers, err = svc.ListActive(ctx, now.Add(-2*time.Hour), nil)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(offers) != 2 {
		t.Errorf("expected both offers with an earlier clock, got %d", len(offers))
	}
}

func TestOffer_ListActiveAppliesFilter(t *testing.T) {
	ctx := context.Background()
	svc, offerRepo, _ := offerFixture()

	now := time.Now()
	offerRepo.AddOffer(matchOffer("driver-1", 10, now.Add(time.Hour)))
	cheapID := offerRepo.AddOffer(matchOffer("driver-2", 5, now.Add(time.Hour)))

	offers, err := svc.ListActive(ctx, now, func(o *domain.CarpoolOffer) bool {
		return o.PricePerSeat <= 5
	})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(offers) != 1 || offers[0].ID != cheapID {
		t.Fatalf("expected only the cheap offer")
	}
}

func TestOffer_CancelIsIdempotent(t *testing.T) {
	ctx := context.Background()
	svc, offerRepo, _ := offerFixture()

	offerID := offerRepo.AddOffer(matchOffer("driver-1", 10, time.Now().Add(time.Hour)))

	if err := svc.CancelOffer(ctx, offerID); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if got := offerRepo.GetOffer(offerID).Status; got != domain.OfferStatusCancelled {
		t.Fatalf("expected CANCELLED, got %s", got)
	}

	// Retrying a cancel succeeds without touching the offer again.
	updates := offerRepo.UpdateCallCount
	if err := svc.CancelOffer(ctx, offerID); err != nil {
		t.Fatalf("repeat cancel failed: %v", err)
	}
	if offerRepo.UpdateCallCount != updates {
		t.Error("expected no repository write on repeated cancel")
	}
}

func TestOffer_GetOfferServedFromCache(t *testing.T) {
	ctx := context.Background()
	offerRepo := NewMockOfferRepository()
	userRepo := NewMockUserRepository()
	cacheStore := NewMockCacheStore()
	svc := service.NewOfferService(offerRepo, userRepo, cacheStore, nil)

	// The offer exists only in the cache; a repository lookup would fail.
	departure := time.Now().Add(time.Hour)
	if err := cacheStore.SetOffer(ctx, &redis.CachedOffer{
		ID:             77,
		DriverID:       "driver-1",
		Origin:         "Downtown",
		Destination:    "Airport",
		DepartureTime:  departure,
		SeatsAvailable: 3,
		PricePerSeat:   12,
		Status:         string(domain.OfferStatusActive),
	}); err != nil {
		t.Fatalf("seed cache failed: %v", err)
	}

	offer, err := svc.GetOffer(ctx, 77)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if offer.DriverID != "driver-1" || offer.SeatsAvailable != 3 {
		t.Errorf("unexpected offer from cache: %+v", offer)
	}
	if offer.Status != domain.OfferStatusActive {
		t.Errorf("expected ACTIVE, got %s", offer.Status)
	}
}

func TestOffer_GetOfferPopulatesCache(t *testing.T) {
	ctx := context.Background()
	offerRepo := NewMockOfferRepository()
	userRepo := NewMockUserRepository()
	cacheStore := NewMockCacheStore()
	svc := service.NewOfferService(offerRepo, userRepo, cacheStore, nil)

	offerID := offerRepo.AddOffer(matchOffer("driver-1", 10, time.Now().Add(time.Hour)))

	if _, err := svc.GetOffer(ctx, offerID); err != nil {
		t.Fatalf("get failed: %v", err)
	}

	cached := cacheStore.CachedOfferEntry(offerID)
	if cached == nil {
		t.Fatal("expected the offer to be cached after a repository read")
	}
	if cached.DriverID != "driver-1" {
		t.Errorf("expected cached driver driver-1, got %s", cached.DriverID)
	}
	if cacheStore.SetOfferCallCount != 1 {
		t.Errorf("expected one cache write, got %d", cacheStore.SetOfferCallCount)
	}
}

func TestOffer_CancelInvalidatesCache(t *testing.T) {
	ctx := context.Background()
	offerRepo := NewMockOfferRepository()
	userRepo := NewMockUserRepository()
	cacheStore := NewMockCacheStore()
	svc := service.NewOfferService(offerRepo, userRepo, cacheStore, nil)

	offerID := offerRepo.AddOffer(matchOffer("driver-1", 10, time.Now().Add(time.Hour)))
	if _, err := svc.GetOffer(ctx, offerID); err != nil {
		t.Fatalf("get failed: %v", err)
	}

	if err := svc.CancelOffer(ctx, offerID); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if cacheStore.CachedOfferEntry(offerID) != nil {
		t.Error("expected the cached offer to be invalidated after cancel")
	}
}

func TestOffer_CancelUnknownOffer(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := offerFixture()

	if err := svc.CancelOffer(ctx, 404); !errors.Is(err, service.ErrOfferNotFound) {
		t.Fatalf("expected ErrOfferNotFound, got %v", err)
	}
}

func TestRequest_LifecycleAndIdempotentCancel(t *testing.T) {
	ctx := context.Background()
	requestRepo := NewMockRequestRepository()
	svc := service.NewRequestService(requestRepo)

	requestID, err := svc.CreateRequest(ctx, service.CreateRequestRequest{
		RiderID:     "rider-1",
		Origin:      "Downtown",
		Destination: "Airport",
		DesiredTime: time.Now().Add(3 * time.Hour),
		MaxPrice:    20,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	request, err := svc.GetRequest(ctx, requestID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if request.Status != domain.RequestStatusOpen {
		t.Errorf("expected OPEN, got %s", request.Status)
	}

	if err := svc.FulfillForRider(ctx, requestID, "rider-1"); err != nil {
		t.Fatalf("fulfill failed: %v", err)
	}
	if got := requestRepo.GetRequest(requestID).Status; got != domain.RequestStatusFulfilled {
		t.Errorf("expected FULFILLED, got %s", got)
	}

	// Cancelling a fulfilled request is a safe no-op.
	if err := svc.CancelRequest(ctx, requestID); err != nil {
		t.Fatalf("cancel after fulfill failed: %v", err)
	}
	if got := requestRepo.GetRequest(requestID).Status; got != domain.RequestStatusFulfilled {
		t.Errorf("expected status unchanged by late cancel, got %s", got)
	}
}

func TestRequest_ListOpenFiltersTerminal(t *testing.T) {
	ctx := context.Background()
	requestRepo := NewMockRequestRepository()
	svc := service.NewRequestService(requestRepo)

	base := service.CreateRequestRequest{
		RiderID:     "rider-1",
		Origin:      "Downtown",
		Destination: "Airport",
		DesiredTime: time.Now().Add(3 * time.Hour),
		MaxPrice:    20,
	}
	openID, err := svc.CreateRequest(ctx, base)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	cancelledID, err := svc.CreateRequest(ctx, base)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := svc.CancelRequest(ctx, cancelledID); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}

	open, err := svc.ListOpen(ctx)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(open) != 1 {
		t.Fatalf("expected 1 open request, got %d", len(open))
	}
	if open[0].ID != openID {
		t.Errorf("expected request %d, got %d", openID, open[0].ID)
	}
}

func TestRequest_FulfillOnlyByOwner(t *testing.T) {
	ctx := context.Background()
	requestRepo := NewMockRequestRepository()
	svc := service.NewRequestService(requestRepo)

	requestID, err := svc.CreateRequest(ctx, service.CreateRequestRequest{
		RiderID:     "rider-1",
		Origin:      "Downtown",
		Destination: "Airport",
		DesiredTime: time.Now().Add(3 * time.Hour),
		MaxPrice:    20,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	// Another rider must not be able to fulfil, or even observe, the request.
	if err := svc.FulfillForRider(ctx, requestID, "rider-2"); !errors.Is(err, service.ErrRequestNotFound) {
		t.Fatalf("expected ErrRequestNotFound for a foreign rider, got %v", err)
	}
	if got := requestRepo.GetRequest(requestID).Status; got != domain.RequestStatusOpen {
		t.Errorf("expected request to stay OPEN, got %s", got)
	}

	if err := svc.FulfillForRider(ctx, requestID, "rider-1"); err != nil {
		t.Fatalf("fulfill failed: %v", err)
	}
	if got := requestRepo.GetRequest(requestID).Status; got != domain.RequestStatusFulfilled {
		t.Errorf("expected FULFILLED, got %s", got)
	}
}

func TestRequest_CreateValidation(t *testing.T) {
	ctx := context.Background()
	svc := service.NewRequestService(NewMockRequestRepository())

	if _, err := svc.CreateRequest(ctx, service.CreateRequestRequest{
		Origin: "A", Destination: "B",
	}); !errors.Is(err, service.ErrInvalidUserID) {
		t.Errorf("expected ErrInvalidUserID, got %v", err)
	}

	if _, err := svc.CreateRequest(ctx, service.CreateRequestRequest{
		RiderID: "rider-1", Origin: "A", Destination: "B", MaxPrice: -5,
	}); !errors.Is(err, service.ErrInvalidPrice) {
		t.Errorf("expected ErrInvalidPrice, got %v", err)
	}
}
