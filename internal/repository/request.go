package repository

import (
	"context"

	"carpool/internal/domain"
)

// RequestRepository defines the persistence operations for ride requests.
type RequestRepository interface {
	// Create persists a new request and fills in its ID. IDs are
	// monotonically increasing and never reused.
	Create(ctx context.Context, request *domain.CarpoolRequest) (int64, error)

	// GetByID retrieves a request by ID.
	GetByID(ctx context.Context, id int64) (*domain.CarpoolRequest, error)

	// ListOpen retrieves all requests in OPEN status in creation order.
	ListOpen(ctx context.Context) ([]*domain.CarpoolRequest, error)

	// Update replaces an existing request's mutable fields.
	Update(ctx context.Context, request *domain.CarpoolRequest) error
}
