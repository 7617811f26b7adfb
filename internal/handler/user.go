package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"carpool/internal/domain"
	"carpool/internal/service"
)

// UserHandler handles HTTP requests for accounts.
type UserHandler struct {
	accounts *service.AccountService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(accounts *service.AccountService) *UserHandler {
	return &UserHandler{accounts: accounts}
}

// VehicleRequest is the vehicle part of a registration body.
type VehicleRequest struct {
	MakeModel  string `json:"make_model"`
	Year       int    `json:"year"`
	TotalSeats int    `json:"total_seats"`
}

// RegisterRequest is the HTTP request body for registration.
type RegisterRequest struct {
	Username    string          `json:"username"`
	DisplayName string          `json:"display_name"`
	Email       string          `json:"email"`
	Password    string          `json:"password"`
	Phone       string          `json:"phone"`
	Vehicle     *VehicleRequest `json:"vehicle,omitempty"`
}

// LoginRequest is the HTTP request body for authentication.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// UserResponse is the HTTP response for user data. The credential
// digest never leaves the service.
type UserResponse struct {
	ID             string          `json:"id"`
	Username       string          `json:"username"`
	DisplayName    string          `json:"display_name"`
	Phone          string          `json:"phone"`
	Vehicle        *VehicleRequest `json:"vehicle,omitempty"`
	Rating         float64         `json:"rating"`
	TripsCompleted int             `json:"trips_completed"`
}

func toUserResponse(u *domain.User) UserResponse {
	resp := UserResponse{
		ID:             u.ID,
		Username:       u.Username,
		DisplayName:    u.DisplayName,
		Phone:          u.Phone,
		Rating:         u.Rating,
		TripsCompleted: u.TripsCompleted,
	}
	if u.Vehicle != nil {
		resp.Vehicle = &VehicleRequest{
			MakeModel:  u.Vehicle.MakeModel,
			Year:       u.Vehicle.Year,
			TotalSeats: u.Vehicle.TotalSeats,
		}
	}
	return resp
}

// Register handles POST /v1/users/register
func (h *UserHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if req.Username == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "username and password are required"})
		return
	}

	var vehicle *domain.VehicleProfile
	if req.Vehicle != nil {
		vehicle = &domain.VehicleProfile{
			MakeModel:  req.Vehicle.MakeModel,
			Year:       req.Vehicle.Year,
			TotalSeats: req.Vehicle.TotalSeats,
		}
	}

	userID, err := h.accounts.Register(c.Request.Context(), service.RegisterRequest{
		Username:    req.Username,
		DisplayName: req.DisplayName,
		Email:       req.Email,
		Credential:  req.Password,
		Phone:       req.Phone,
		Vehicle:     vehicle,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": userID})
}

// Login handles POST /v1/users/login
func (h *UserHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	user, err := h.accounts.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toUserResponse(user))
}

// ListUsers handles GET /v1/users
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.accounts.ListAccounts(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]UserResponse, 0, len(users))
	for _, u := range users {
		response = append(response, toUserResponse(u))
	}
	c.JSON(http.StatusOK, response)
}

// GetProfile handles GET /v1/users/:id
func (h *UserHandler) GetProfile(c *gin.Context) {
	user, err := h.accounts.GetProfile(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toUserResponse(user))
}

// RatingRequest is the HTTP request body for submitting a rating.
type RatingRequest struct {
	Sample int `json:"sample"`
}

// RecordRating handles POST /v1/users/:id/rating
func (h *UserHandler) RecordRating(c *gin.Context) {
	var req RatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	newAverage, err := h.accounts.RecordRating(c.Request.Context(), c.Param("id"), req.Sample)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"rating": newAverage})
}
