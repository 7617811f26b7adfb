package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"carpool/internal/domain"
	"carpool/internal/repository"
)

// OfferRepository is a PostgreSQL implementation of repository.OfferRepository.
// Offer IDs come from a BIGSERIAL column, so they are monotonically
// increasing and never reused.
type OfferRepository struct {
	q Querier
}

// NewOfferRepository creates a new PostgreSQL offer repository.
func NewOfferRepository(db *sql.DB) *OfferRepository {
	return &OfferRepository{q: db}
}

// NewOfferRepositoryWithTx creates an offer repository using a transaction.
func NewOfferRepositoryWithTx(tx *sql.Tx) *OfferRepository {
	return &OfferRepository{q: tx}
}

// Create persists a new offer and fills in its generated ID.
func (r *OfferRepository) Create(ctx context.Context, offer *domain.CarpoolOffer) (int64, error) {
	query := `
		INSERT INTO offers (driver_id, origin, destination, departure_time, seats_available, price_per_seat, notes, passengers, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`

	passengers := offer.Passengers
	if passengers == nil {
		passengers = []string{}
	}

	err := r.q.QueryRowContext(ctx, query,
		offer.DriverID,
		offer.Origin,
		offer.Destination,
		offer.DepartureTime,
		offer.SeatsAvailable,
		offer.PricePerSeat,
		offer.Notes,
		pq.Array(passengers),
		offer.Status,
		offer.CreatedAt,
	).Scan(&offer.ID)
	if err != nil {
		return 0, err
	}
	return offer.ID, nil
}

const offerColumns = `id, driver_id, origin, destination, departure_time, seats_available, price_per_seat, notes, passengers, status, created_at`

// GetByID retrieves an offer by ID.
func (r *OfferRepository) GetByID(ctx context.Context, id int64) (*domain.CarpoolOffer, error) {
	query := `SELECT ` + offerColumns + ` FROM offers WHERE id = $1`

	offer, err := scanOfferRow(r.q.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return offer, nil
}

// ListActive retrieves all ACTIVE offers in creation order.
func (r *OfferRepository) ListActive(ctx context.Context) ([]*domain.CarpoolOffer, error) {
	query := `SELECT ` + offerColumns + ` FROM offers WHERE status = $1 ORDER BY id ASC`

	rows, err := r.q.QueryContext(ctx, query, domain.OfferStatusActive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var offers []*domain.CarpoolOffer
	for rows.Next() {
		offer, err := scanOfferRow(rows)
		if err != nil {
			return nil, err
		}
		offers = append(offers, offer)
	}
	return offers, rows.Err()
}

// Update replaces an offer's mutable fields (passengers, status, notes).
func (r *OfferRepository) Update(ctx context.Context, offer *domain.CarpoolOffer) error {
	query := `
		UPDATE offers
		SET departure_time = $1, seats_available = $2, price_per_seat = $3, notes = $4, passengers = $5, status = $6
		WHERE id = $7
	`

	passengers := offer.Passengers
	if passengers == nil {
		passengers = []string{}
	}

	result, err := r.q.ExecContext(ctx, query,
		offer.DepartureTime,
		offer.SeatsAvailable,
		offer.PricePerSeat,
		offer.Notes,
		pq.Array(passengers),
		offer.Status,
		offer.ID,
	)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func scanOfferRow(row rowScanner) (*domain.CarpoolOffer, error) {
	var offer domain.CarpoolOffer
	var passengers pq.StringArray

	err := row.Scan(
		&offer.ID,
		&offer.DriverID,
		&offer.Origin,
		&offer.Destination,
		&offer.DepartureTime,
		&offer.SeatsAvailable,
		&offer.PricePerSeat,
		&offer.Notes,
		&passengers,
		&offer.Status,
		&offer.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	offer.Passengers = []string(passengers)
	return &offer, nil
}
