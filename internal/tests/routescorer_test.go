package tests

import (
	"errors"
	"testing"

	"carpool/internal/domain"
	"carpool/internal/service"
)

func sampleRoutes() []domain.Route {
	return []domain.Route{
		{Name: "Highway", DistanceKm: 30, DurationMin: 25, FuelCost: 4.5, EcoRating: 6, Tolls: true, Highways: true},
		{Name: "Scenic", DistanceKm: 42, DurationMin: 50, FuelCost: 5.8, EcoRating: 9},
		{Name: "City", DistanceKm: 26, DurationMin: 40, FuelCost: 3.9, EcoRating: 7, Highways: false},
	}
}

func TestRouteScorer_RankByTime(t *testing.T) {
	scorer := service.NewRouteScorer()

	ranked := scorer.Rank(sampleRoutes(), domain.PreferTime)
	want := []string{"Highway", "City", "Scenic"}
	for i, name := range want {
		if ranked[i].Name != name {
			t.Errorf("position %d: expected %s, got %s", i, name, ranked[i].Name)
		}
	}
}

func TestRouteScorer_RankByDistance(t *testing.T) {
	scorer := service.NewRouteScorer()

	ranked := scorer.Rank(sampleRoutes(), domain.PreferDistance)
	if ranked[0].Name != "City" {
		t.Errorf("expected City shortest, got %s", ranked[0].Name)
	}
}

func TestRouteScorer_RankByEco(t *testing.T) {
	scorer := service.NewRouteScorer()

	ranked := scorer.Rank(sampleRoutes(), domain.PreferEco)
	if ranked[0].Name != "Scenic" {
		t.Errorf("expected Scenic greenest, got %s", ranked[0].Name)
	}
	if ranked[2].Name != "Highway" {
		t.Errorf("expected Highway last, got %s", ranked[2].Name)
	}
}

func TestRouteScorer_RankByCost(t *testing.T) {
	scorer := service.NewRouteScorer()

	ranked := scorer.Rank(sampleRoutes(), domain.PreferCost)
	if ranked[0].Name != "City" {
		t.Errorf("expected City cheapest, got %s", ranked[0].Name)
	}
}

func TestRouteScorer_RankIsStable(t *testing.T) {
	scorer := service.NewRouteScorer()

	// Equal durations: input order must be preserved, run after run.
	routes := []domain.Route{
		{Name: "A", DurationMin: 30},
		{Name: "B", DurationMin: 30},
		{Name: "C", DurationMin: 30},
	}
	for i := 0; i < 5; i++ {
		ranked := scorer.Rank(routes, domain.PreferTime)
		if ranked[0].Name != "A" || ranked[1].Name != "B" || ranked[2].Name != "C" {
			t.Fatalf("run %d: equal-key routes reordered: %s %s %s",
				i, ranked[0].Name, ranked[1].Name, ranked[2].Name)
		}
	}
}

func TestRouteScorer_RankDoesNotMutateInput(t *testing.T) {
	scorer := service.NewRouteScorer()

	routes := sampleRoutes()
	scorer.Rank(routes, domain.PreferDistance)
	if routes[0].Name != "Highway" {
		t.Error("expected Rank to leave its input untouched")
	}
}

func TestRouteScorer_Filters(t *testing.T) {
	scorer := service.NewRouteScorer()

	noTolls := scorer.Filter(sampleRoutes(), service.RouteFilters{AvoidTolls: true})
	if len(noTolls) != 2 {
		t.Fatalf("expected 2 toll-free routes, got %d", len(noTolls))
	}
	for _, r := range noTolls {
		if r.Tolls {
			t.Errorf("route %s has tolls", r.Name)
		}
	}

	noHighways := scorer.Filter(sampleRoutes(), service.RouteFilters{AvoidHighways: true})
	if len(noHighways) != 2 {
		t.Fatalf("expected 2 highway-free routes, got %d", len(noHighways))
	}

	all := scorer.Filter(sampleRoutes(), service.RouteFilters{})
	if len(all) != 3 {
		t.Fatalf("expected no routes dropped without filters, got %d", len(all))
	}
}

func TestRouteScorer_ValidatePreference(t *testing.T) {
	scorer := service.NewRouteScorer()

	for _, p := range []string{"TIME", "DISTANCE", "ECO", "COST"} {
		if _, err := scorer.ValidatePreference(p); err != nil {
			t.Errorf("expected %s to validate, got %v", p, err)
		}
	}
	if _, err := scorer.ValidatePreference("VIBES"); !errors.Is(err, service.ErrInvalidPreference) {
		t.Fatalf("expected ErrInvalidPreference, got %v", err)
	}
}
