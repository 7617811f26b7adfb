package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"carpool/internal/domain"
	"carpool/internal/service"
)

// RequestHandler handles HTTP requests for ride requests and matching.
type RequestHandler struct {
	requests *service.RequestService
	matching *service.MatchingService
}

// NewRequestHandler creates a new RequestHandler.
func NewRequestHandler(requests *service.RequestService, matching *service.MatchingService) *RequestHandler {
	return &RequestHandler{requests: requests, matching: matching}
}

// CreateRequestRequest is the HTTP request body for filing a ride request.
type CreateRequestRequest struct {
	RiderID     string    `json:"rider_id"`
	Origin      string    `json:"origin"`
	Destination string    `json:"destination"`
	DesiredTime time.Time `json:"desired_time"`
	MaxPrice    float64   `json:"max_price"`
	Notes       string    `json:"notes"`
}

// RequestResponse is the HTTP response for request data.
type RequestResponse struct {
	ID          int64     `json:"id"`
	RiderID     string    `json:"rider_id"`
	Origin      string    `json:"origin"`
	Destination string    `json:"destination"`
	DesiredTime time.Time `json:"desired_time"`
	MaxPrice    float64   `json:"max_price"`
	Notes       string    `json:"notes,omitempty"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

func toRequestResponse(r *domain.CarpoolRequest) RequestResponse {
	return RequestResponse{
		ID:          r.ID,
		RiderID:     r.RiderID,
		Origin:      r.Origin,
		Destination: r.Destination,
		DesiredTime: r.DesiredTime,
		MaxPrice:    r.MaxPrice,
		Notes:       r.Notes,
		Status:      string(r.Status),
		CreatedAt:   r.CreatedAt,
	}
}

// CreateRequest handles POST /v1/requests
func (h *RequestHandler) CreateRequest(c *gin.Context) {
	var req CreateRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	requestID, err := h.requests.CreateRequest(c.Request.Context(), service.CreateRequestRequest{
		RiderID:     req.RiderID,
		Origin:      req.Origin,
		Destination: req.Destination,
		DesiredTime: req.DesiredTime,
		MaxPrice:    req.MaxPrice,
		Notes:       req.Notes,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": requestID})
}

// ListOpen handles GET /v1/requests
func (h *RequestHandler) ListOpen(c *gin.Context) {
	requests, err := h.requests.ListOpen(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]RequestResponse, 0, len(requests))
	for _, r := range requests {
		response = append(response, toRequestResponse(r))
	}
	c.JSON(http.StatusOK, response)
}

// GetRequest handles GET /v1/requests/:id
func (h *RequestHandler) GetRequest(c *gin.Context) {
	requestID, ok := parseRequestID(c)
	if !ok {
		return
	}

	request, err := h.requests.GetRequest(c.Request.Context(), requestID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toRequestResponse(request))
}

// CancelRequest handles POST /v1/requests/:id/cancel
func (h *RequestHandler) CancelRequest(c *gin.Context) {
	requestID, ok := parseRequestID(c)
	if !ok {
		return
	}

	if err := h.requests.CancelRequest(c.Request.Context(), requestID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "cancelled"})
}

// MatchResponse is one ranked candidate offer for a request.
type MatchResponse struct {
	OfferID int64         `json:"offer_id"`
	Score   float64       `json:"score"`
	Offer   OfferResponse `json:"offer"`
}

// GetMatches handles GET /v1/requests/:id/matches
func (h *RequestHandler) GetMatches(c *gin.Context) {
	requestID, ok := parseRequestID(c)
	if !ok {
		return
	}

	request, err := h.requests.GetRequest(c.Request.Context(), requestID)
	if err != nil {
		respondError(c, err)
		return
	}

	candidates, err := h.matching.Match(c.Request.Context(), request)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]MatchResponse, 0, len(candidates))
	for _, candidate := range candidates {
		response = append(response, MatchResponse{
			OfferID: candidate.OfferID,
			Score:   candidate.Score,
			Offer:   toOfferResponse(candidate.Offer),
		})
	}
	c.JSON(http.StatusOK, response)
}

// parseRequestID parses the :id path param, responding with 400 on failure.
func parseRequestID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request id"})
		return 0, false
	}
	return id, true
}
