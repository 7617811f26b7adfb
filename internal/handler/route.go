package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"carpool/internal/domain"
	"carpool/internal/service"
)

// RouteHandler handles HTTP requests for route ranking. Routes come
// from an external directions provider already normalized; the core
// only orders them.
type RouteHandler struct {
	scorer *service.RouteScorer
}

// NewRouteHandler creates a new RouteHandler.
func NewRouteHandler(scorer *service.RouteScorer) *RouteHandler {
	return &RouteHandler{scorer: scorer}
}

// RouteRequest is one candidate route in a ranking request.
type RouteRequest struct {
	Name        string  `json:"name"`
	DistanceKm  float64 `json:"distance_km"`
	DurationMin float64 `json:"duration_min"`
	Congestion  float64 `json:"congestion"`
	Tolls       bool    `json:"tolls"`
	Highways    bool    `json:"highways"`
	FuelCost    float64 `json:"fuel_cost"`
	EcoRating   float64 `json:"eco_rating"`
}

// RankRequest is the HTTP request body for route ranking.
type RankRequest struct {
	Routes        []RouteRequest `json:"routes"`
	Preference    string         `json:"preference"`
	AvoidTolls    bool           `json:"avoid_tolls"`
	AvoidHighways bool           `json:"avoid_highways"`
}

// Rank handles POST /v1/routes/rank
func (h *RouteHandler) Rank(c *gin.Context) {
	var req RankRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	preference, err := h.scorer.ValidatePreference(req.Preference)
	if err != nil {
		respondError(c, err)
		return
	}

	routes := make([]domain.Route, 0, len(req.Routes))
	for _, r := range req.Routes {
		routes = append(routes, domain.Route{
			Name:        r.Name,
			DistanceKm:  r.DistanceKm,
			DurationMin: r.DurationMin,
			Congestion:  r.Congestion,
			Tolls:       r.Tolls,
			Highways:    r.Highways,
			FuelCost:    r.FuelCost,
			EcoRating:   r.EcoRating,
		})
	}

	routes = h.scorer.Filter(routes, service.RouteFilters{
		AvoidTolls:    req.AvoidTolls,
		AvoidHighways: req.AvoidHighways,
	})
	ranked := h.scorer.Rank(routes, preference)

	response := make([]RouteRequest, 0, len(ranked))
	for _, r := range ranked {
		response = append(response, RouteRequest{
			Name:        r.Name,
			DistanceKm:  r.DistanceKm,
			DurationMin: r.DurationMin,
			Congestion:  r.Congestion,
			Tolls:       r.Tolls,
			Highways:    r.Highways,
			FuelCost:    r.FuelCost,
			EcoRating:   r.EcoRating,
		})
	}
	c.JSON(http.StatusOK, response)
}
