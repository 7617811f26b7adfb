package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"carpool/internal/domain"
	"carpool/internal/service"
)

// OfferHandler handles HTTP requests for carpool offers.
type OfferHandler struct {
	offers   *service.OfferService
	bookings *service.BookingService
	requests *service.RequestService
}

// NewOfferHandler creates a new OfferHandler.
func NewOfferHandler(offers *service.OfferService, bookings *service.BookingService, requests *service.RequestService) *OfferHandler {
	return &OfferHandler{offers: offers, bookings: bookings, requests: requests}
}

// CreateOfferRequest is the HTTP request body for publishing an offer.
type CreateOfferRequest struct {
	DriverID      string    `json:"driver_id"`
	Origin        string    `json:"origin"`
	Destination   string    `json:"destination"`
	DepartureTime time.Time `json:"departure_time"`
	Seats         int       `json:"seats"`
	PricePerSeat  float64   `json:"price_per_seat"`
	Notes         string    `json:"notes"`
}

// OfferResponse is the HTTP response for offer data.
type OfferResponse struct {
	ID             int64     `json:"id"`
	DriverID       string    `json:"driver_id"`
	Origin         string    `json:"origin"`
	Destination    string    `json:"destination"`
	DepartureTime  time.Time `json:"departure_time"`
	SeatsAvailable int       `json:"seats_available"`
	SeatsTaken     int       `json:"seats_taken"`
	PricePerSeat   float64   `json:"price_per_seat"`
	Notes          string    `json:"notes,omitempty"`
	Passengers     []string  `json:"passengers"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
}

func toOfferResponse(o *domain.CarpoolOffer) OfferResponse {
	return OfferResponse{
		ID:             o.ID,
		DriverID:       o.DriverID,
		Origin:         o.Origin,
		Destination:    o.Destination,
		DepartureTime:  o.DepartureTime,
		SeatsAvailable: o.SeatsAvailable,
		SeatsTaken:     o.SeatsTaken(),
		PricePerSeat:   o.PricePerSeat,
		Notes:          o.Notes,
		Passengers:     o.Passengers,
		Status:         string(o.Status),
		CreatedAt:      o.CreatedAt,
	}
}

// CreateOffer handles POST /v1/offers
func (h *OfferHandler) CreateOffer(c *gin.Context) {
	var req CreateOfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	offerID, err := h.offers.CreateOffer(c.Request.Context(), service.CreateOfferRequest{
		DriverID:      req.DriverID,
		Origin:        req.Origin,
		Destination:   req.Destination,
		DepartureTime: req.DepartureTime,
		Seats:         req.Seats,
		PricePerSeat:  req.PricePerSeat,
		Notes:         req.Notes,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": offerID})
}

// ListActive handles GET /v1/offers
// Optional query params: origin, destination, max_price. Staleness is
// judged against the server clock at request time.
func (h *OfferHandler) ListActive(c *gin.Context) {
	origin := c.Query("origin")
	destination := c.Query("destination")
	maxPriceStr := c.Query("max_price")

	var filter service.OfferFilter
	if origin != "" || destination != "" || maxPriceStr != "" {
		maxPrice := -1.0
		if maxPriceStr != "" {
			p, err := strconv.ParseFloat(maxPriceStr, 64)
			if err != nil {
				c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid max_price"})
				return
			}
			maxPrice = p
		}
		filter = func(o *domain.CarpoolOffer) bool {
			if origin != "" && o.Origin != origin {
				return false
			}
			if destination != "" && o.Destination != destination {
				return false
			}
			if maxPrice >= 0 && o.PricePerSeat > maxPrice {
				return false
			}
			return true
		}
	}

	offers, err := h.offers.ListActive(c.Request.Context(), time.Now(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]OfferResponse, 0, len(offers))
	for _, o := range offers {
		response = append(response, toOfferResponse(o))
	}
	c.JSON(http.StatusOK, response)
}

// GetOffer handles GET /v1/offers/:id
func (h *OfferHandler) GetOffer(c *gin.Context) {
	offerID, ok := parseOfferID(c)
	if !ok {
		return
	}

	offer, err := h.offers.GetOffer(c.Request.Context(), offerID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toOfferResponse(offer))
}

// CancelOffer handles POST /v1/offers/:id/cancel
func (h *OfferHandler) CancelOffer(c *gin.Context) {
	offerID, ok := parseOfferID(c)
	if !ok {
		return
	}

	if err := h.offers.CancelOffer(c.Request.Context(), offerID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "cancelled"})
}

// JoinRequest is the HTTP request body for joining or leaving an offer.
// RequestID optionally links the join to the rider's own open ride
// request, which gets marked fulfilled once the seat is booked.
type JoinRequest struct {
	RiderID   string `json:"rider_id"`
	RequestID int64  `json:"request_id"`
}

// BookingResponse is the HTTP response for a successful join.
type BookingResponse struct {
	BookingID    string    `json:"booking_id"`
	OfferID      int64     `json:"offer_id"`
	RiderID      string    `json:"rider_id"`
	PricePerSeat float64   `json:"price_per_seat"`
	JoinedAt     time.Time `json:"joined_at"`
}

// Join handles POST /v1/offers/:id/join
func (h *OfferHandler) Join(c *gin.Context) {
	offerID, ok := parseOfferID(c)
	if !ok {
		return
	}

	var req JoinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	confirmation, err := h.bookings.Join(c.Request.Context(), offerID, req.RiderID)
	if err != nil {
		respondError(c, err)
		return
	}

	// The seat is booked; fulfilling the linked request is best effort
	// and must not fail the join.
	if req.RequestID != 0 {
		_ = h.requests.FulfillForRider(c.Request.Context(), req.RequestID, req.RiderID)
	}

	c.JSON(http.StatusCreated, BookingResponse{
		BookingID:    confirmation.ID,
		OfferID:      confirmation.OfferID,
		RiderID:      confirmation.RiderID,
		PricePerSeat: confirmation.PricePerSeat,
		JoinedAt:     confirmation.JoinedAt,
	})
}

// Leave handles POST /v1/offers/:id/leave
func (h *OfferHandler) Leave(c *gin.Context) {
	offerID, ok := parseOfferID(c)
	if !ok {
		return
	}

	var req JoinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if err := h.bookings.Leave(c.Request.Context(), offerID, req.RiderID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "left"})
}

// parseOfferID parses the :id path param, responding with 400 on failure.
func parseOfferID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid offer id"})
		return 0, false
	}
	return id, true
}
