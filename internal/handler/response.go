package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"carpool/internal/repository"
	"carpool/internal/service"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError sends an error response with the appropriate HTTP status code.
func respondError(c *gin.Context, err error) {
	code := mapErrorToHTTPStatus(err)
	c.JSON(code, ErrorResponse{Error: err.Error()})
}

// mapErrorToHTTPStatus maps service/repository errors to HTTP status codes.
func mapErrorToHTTPStatus(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, repository.ErrNotFound),
		errors.Is(err, service.ErrOfferNotFound),
		errors.Is(err, service.ErrRequestNotFound):
		return http.StatusNotFound

	// Validation errors - Bad Request
	case errors.Is(err, service.ErrInvalidUserID),
		errors.Is(err, service.ErrInvalidUsername),
		errors.Is(err, service.ErrInvalidRating),
		errors.Is(err, service.ErrInvalidLocation),
		errors.Is(err, service.ErrInvalidCapacity),
		errors.Is(err, service.ErrInvalidPrice),
		errors.Is(err, service.ErrInvalidTransportMode),
		errors.Is(err, service.ErrInvalidPreference):
		return http.StatusBadRequest

	// Authentication
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized

	// Conflict errors
	case errors.Is(err, service.ErrDuplicateAccount),
		errors.Is(err, service.ErrOfferFull),
		errors.Is(err, service.ErrOfferNotActive),
		errors.Is(err, service.ErrOfferBusy),
		errors.Is(err, service.ErrAlreadyJoined),
		errors.Is(err, service.ErrNotJoined):
		return http.StatusConflict

	// Business rule errors
	case errors.Is(err, service.ErrDriverWithoutVehicle):
		return http.StatusForbidden

	// Default to internal server error (includes ErrOfferCorrupted).
	default:
		return http.StatusInternalServerError
	}
}
