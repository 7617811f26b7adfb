package repository

import (
	"context"

	"carpool/internal/domain"
)

// OfferRepository defines the persistence operations for carpool offers.
type OfferRepository interface {
	// Create persists a new offer and fills in its ID. IDs are
	// monotonically increasing and never reused.
	Create(ctx context.Context, offer *domain.CarpoolOffer) (int64, error)

	// GetByID retrieves an offer by ID.
	GetByID(ctx context.Context, id int64) (*domain.CarpoolOffer, error)

	// ListActive retrieves all offers in ACTIVE status, ordered by
	// creation (ascending ID). The ordering is stable so matching and
	// listing are deterministic.
	ListActive(ctx context.Context) ([]*domain.CarpoolOffer, error)

	// Update replaces an existing offer's mutable fields.
	Update(ctx context.Context, offer *domain.CarpoolOffer) error
}
