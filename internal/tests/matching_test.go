package tests

import (
	"context"
	"testing"
	"time"

	"carpool/internal/domain"
	"carpool/internal/service"
)

func matchFixture() (*service.MatchingService, *MockOfferRepository, *MockUserRepository) {
	offerRepo := NewMockOfferRepository()
	userRepo := NewMockUserRepository()
	svc := service.NewMatchingService(offerRepo, userRepo, nil, service.DefaultMatchConfig())
	return svc, offerRepo, userRepo
}

func addDriver(userRepo *MockUserRepository, id string, rating float64) {
	userRepo.AddUser(&domain.User{
		ID:       id,
		Username: id,
		Rating:   rating,
		Vehicle:  &domain.VehicleProfile{MakeModel: "Civic", TotalSeats: 4},
	})
}

func matchOffer(driverID string, price float64, departure time.Time) *domain.CarpoolOffer {
	return &domain.CarpoolOffer{
		DriverID:       driverID,
		Origin:         "Downtown",
		Destination:    "Airport",
		DepartureTime:  departure,
		SeatsAvailable: 3,
		PricePerSeat:   price,
		Passengers:     []string{},
		Status:         domain.OfferStatusActive,
		CreatedAt:      time.Now(),
	}
}

func airportRequest(maxPrice float64, desired time.Time) *domain.CarpoolRequest {
	return &domain.CarpoolRequest{
		RiderID:     "rider-1",
		Origin:      "Downtown",
		Destination: "Airport",
		DesiredTime: desired,
		MaxPrice:    maxPrice,
		Status:      domain.RequestStatusOpen,
	}
}

func TestMatching_FiltersIncompatibleOffers(t *testing.T) {
	ctx := context.Background()
	svc, offerRepo, userRepo := matchFixture()
	addDriver(userRepo, "driver-1", 4.5)

	desired := time.Now().Add(3 * time.Hour)

	goodID := offerRepo.AddOffer(matchOffer("driver-1", 10, desired))

	// Wrong destination.
	wrongDest := matchOffer("driver-1", 10, desired)
	wrongDest.Destination = "Stadium"
	offerRepo.AddOffer(wrongDest)

	// Over budget.
	offerRepo.AddOffer(matchOffer("driver-1", 50, desired))

	// Departs outside the flexibility window.
	offerRepo.AddOffer(matchOffer("driver-1", 10, desired.Add(2*time.Hour)))

	// Full.
	full := matchOffer("driver-1", 10, desired)
	full.SeatsAvailable = 1
	full.Passengers = []string{"someone"}
	offerRepo.AddOffer(full)

	// Cancelled.
	cancelled := matchOffer("driver-1", 10, desired)
	cancelled.Status = domain.OfferStatusCancelled
	offerRepo.AddOffer(cancelled)

	candidates, err := svc.Match(ctx, airportRequest(20, desired))
	if err != nil {
		t.Fatalf("match failed: %v", err)
	}
	if len(candidates) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(candidates))
	}
	if candidates[0].OfferID != goodID {
		t.Errorf("expected offer %d, got %d", goodID, candidates[0].OfferID)
	}
}

func TestMatching_RanksByScoreDescending(t *testing.T) {
	ctx := context.Background()
	svc, offerRepo, userRepo := matchFixture()
	addDriver(userRepo, "driver-cheap", 4.0)
	addDriver(userRepo, "driver-pricey", 4.0)

	desired := time.Now().Add(3 * time.Hour)

	// Same departure and rating; a cheaper offer must score higher.
	priceyID := offerRepo.AddOffer(matchOffer("driver-pricey", 18, desired))
	cheapID := offerRepo.AddOffer(matchOffer("driver-cheap", 5, desired))

	candidates, err := svc.Match(ctx, airportRequest(20, desired))
	if err != nil {
		t.Fatalf("match failed: %v", err)
	}
	if len(candidates) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(candidates))
	}
	if candidates[0].OfferID != cheapID {
		t.Errorf("expected cheap offer %d first, got %d", cheapID, candidates[0].OfferID)
	}
	if candidates[1].OfferID != priceyID {
		t.Errorf("expected pricey offer %d second, got %d", priceyID, candidates[1].OfferID)
	}
	if candidates[0].Score <= candidates[1].Score {
		t.Errorf("expected strictly descending scores, got %f then %f",
			candidates[0].Score, candidates[1].Score)
	}
}

func TestMatching_HigherRatedDriverWins(t *testing.T) {
	ctx := context.Background()
	svc, offerRepo, userRepo := matchFixture()
	addDriver(userRepo, "driver-good", 5.0)
	addDriver(userRepo, "driver-new", 0)

	desired := time.Now().Add(3 * time.Hour)

	// Identical offers except the driver behind them.
	offerRepo.AddOffer(matchOffer("driver-new", 10, desired))
	goodID := offerRepo.AddOffer(matchOffer("driver-good", 10, desired))

	candidates, err := svc.Match(ctx, airportRequest(20, desired))
	if err != nil {
		t.Fatalf("match failed: %v", err)
	}
	if len(candidates) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(candidates))
	}
	if candidates[0].OfferID != goodID {
		t.Errorf("expected higher-rated driver's offer %d first, got %d", goodID, candidates[0].OfferID)
	}
}

func TestMatching_TieBreaksByCreationOrder(t *testing.T) {
	ctx := context.Background()
	svc, offerRepo, userRepo := matchFixture()
	addDriver(userRepo, "driver-1", 4.0)
	addDriver(userRepo, "driver-2", 4.0)

	desired := time.Now().Add(3 * time.Hour)
	created := time.Now()

	// Identical in every scored dimension: the earlier offer wins.
	first := matchOffer("driver-1", 10, desired)
	first.CreatedAt = created
	firstID := offerRepo.AddOffer(first)

	second := matchOffer("driver-2", 10, desired)
	second.CreatedAt = created.Add(time.Minute)
	offerRepo.AddOffer(second)

	for i := 0; i < 5; i++ {
		candidates, err := svc.Match(ctx, airportRequest(20, desired))
		if err != nil {
			t.Fatalf("match failed: %v", err)
		}
		if len(candidates) != 2 {
			t.Fatalf("expected 2 candidates, got %d", len(candidates))
		}
		if candidates[0].OfferID != firstID {
			t.Fatalf("run %d: expected first-created offer %d to win the tie, got %d",
				i, firstID, candidates[0].OfferID)
		}
	}
}

func TestMatching_NoCompatibleOffers(t *testing.T) {
	ctx := context.Background()
	svc, offerRepo, userRepo := matchFixture()
	addDriver(userRepo, "driver-1", 4.0)

	desired := time.Now().Add(3 * time.Hour)
	offerRepo.AddOffer(matchOffer("driver-1", 30, desired))

	candidates, err := svc.Match(ctx, airportRequest(20, desired))
	if err != nil {
		t.Fatalf("match failed: %v", err)
	}
	if len(candidates) != 0 {
		t.Errorf("expected no candidates, got %d", len(candidates))
	}
}

func TestMatching_UnknownDriverScoresZeroRating(t *testing.T) {
	ctx := context.Background()
	svc, offerRepo, _ := matchFixture()

	desired := time.Now().Add(3 * time.Hour)
	// Driver not present in the user repository: the offer still
	// matches, with a zero rating component.
	id := offerRepo.AddOffer(matchOffer("driver-missing", 10, desired))

	candidates, err := svc.Match(ctx, airportRequest(20, desired))
	if err != nil {
		t.Fatalf("match failed: %v", err)
	}
	if len(candidates) != 1 || candidates[0].OfferID != id {
		t.Fatalf("expected the offer to match despite the missing driver")
	}
}
