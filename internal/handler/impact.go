package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"carpool/internal/service"
)

// ImpactHandler handles HTTP requests for impact reports.
type ImpactHandler struct {
	calculator *service.ImpactCalculator
}

// NewImpactHandler creates a new ImpactHandler.
func NewImpactHandler(calculator *service.ImpactCalculator) *ImpactHandler {
	return &ImpactHandler{calculator: calculator}
}

// ImpactRequest is the HTTP request body for an impact computation.
type ImpactRequest struct {
	DistanceKm float64 `json:"distance_km"`
	Mode       string  `json:"mode"`
	Passengers int     `json:"passengers"`
}

// ImpactResponse is the HTTP response for an impact report.
type ImpactResponse struct {
	SoloEmissionsKg      float64 `json:"solo_emissions_kg"`
	ModeEmissionsKg      float64 `json:"mode_emissions_kg"`
	CO2SavedKg           float64 `json:"co2_saved_kg"`
	MoneySaved           float64 `json:"money_saved"`
	TreesEquivalent      float64 `json:"trees_equivalent"`
	EquivalentDistanceKm float64 `json:"equivalent_distance_km"`
	GasSavedLiters       float64 `json:"gas_saved_liters"`
	CoalAvoidedKg        float64 `json:"coal_avoided_kg"`
}

// Compute handles POST /v1/impact
func (h *ImpactHandler) Compute(c *gin.Context) {
	var req ImpactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	mode, err := h.calculator.ValidateTransportMode(req.Mode)
	if err != nil {
		respondError(c, err)
		return
	}

	report, err := h.calculator.Impact(req.DistanceKm, mode, req.Passengers)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, ImpactResponse{
		SoloEmissionsKg:      report.SoloEmissionsKg,
		ModeEmissionsKg:      report.ModeEmissionsKg,
		CO2SavedKg:           report.CO2SavedKg,
		MoneySaved:           report.MoneySaved,
		TreesEquivalent:      report.TreesEquivalent,
		EquivalentDistanceKm: report.EquivalentDistanceKm,
		GasSavedLiters:       report.GasSavedLiters,
		CoalAvoidedKg:        report.CoalAvoidedKg,
	})
}
