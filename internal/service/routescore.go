package service

import (
	"sort"

	"carpool/internal/domain"
)

// RouteFilters are the optional route preferences the caller can apply
// before ranking (the directions UI exposes both as checkboxes).
type RouteFilters struct {
	AvoidTolls    bool
	AvoidHighways bool
}

// RouteScorer deterministically orders candidate routes from an
// external directions provider by an optimization preference.
type RouteScorer struct{}

// NewRouteScorer creates a new RouteScorer.
func NewRouteScorer() *RouteScorer {
	return &RouteScorer{}
}

// ValidatePreference checks a preference string.
func (s *RouteScorer) ValidatePreference(preference string) (domain.RoutePreference, error) {
	switch domain.RoutePreference(preference) {
	case domain.PreferTime, domain.PreferDistance, domain.PreferEco, domain.PreferCost:
		return domain.RoutePreference(preference), nil
	default:
		return "", ErrInvalidPreference
	}
}

// Filter drops routes the caller wants to avoid. The input order is
// preserved.
func (s *RouteScorer) Filter(routes []domain.Route, filters RouteFilters) []domain.Route {
	result := make([]domain.Route, 0, len(routes))
	for _, route := range routes {
		if filters.AvoidTolls && route.Tolls {
			continue
		}
		if filters.AvoidHighways && route.Highways {
			continue
		}
		result = append(result, route)
	}
	return result
}

// Rank returns the routes ordered by the preference: ascending
// duration, distance or fuel cost, descending eco rating. The sort is
// stable, so routes with equal keys keep their original relative
// order and the output is reproducible.
func (s *RouteScorer) Rank(routes []domain.Route, preference domain.RoutePreference) []domain.Route {
	ranked := make([]domain.Route, len(routes))
	copy(ranked, routes)

	var less func(i, j int) bool
	switch preference {
	case domain.PreferDistance:
		less = func(i, j int) bool { return ranked[i].DistanceKm < ranked[j].DistanceKm }
	case domain.PreferEco:
		less = func(i, j int) bool { return ranked[i].EcoRating > ranked[j].EcoRating }
	case domain.PreferCost:
		less = func(i, j int) bool { return ranked[i].FuelCost < ranked[j].FuelCost }
	default: // PreferTime
		less = func(i, j int) bool { return ranked[i].DurationMin < ranked[j].DurationMin }
	}

	sort.SliceStable(ranked, less)
	return ranked
}
