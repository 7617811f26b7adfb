package postgres

import (
	"context"
	"database/sql"
	"errors"

	"carpool/internal/domain"
	"carpool/internal/repository"
)

// RequestRepository is a PostgreSQL implementation of repository.RequestRepository.
type RequestRepository struct {
	q Querier
}

// NewRequestRepository creates a new PostgreSQL request repository.
func NewRequestRepository(db *sql.DB) *RequestRepository {
	return &RequestRepository{q: db}
}

// NewRequestRepositoryWithTx creates a request repository using a transaction.
func NewRequestRepositoryWithTx(tx *sql.Tx) *RequestRepository {
	return &RequestRepository{q: tx}
}

// Create persists a new request and fills in its generated ID.
func (r *RequestRepository) Create(ctx context.Context, request *domain.CarpoolRequest) (int64, error) {
	query := `
		INSERT INTO requests (rider_id, origin, destination, desired_time, max_price, notes, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`

	err := r.q.QueryRowContext(ctx, query,
		request.RiderID,
		request.Origin,
		request.Destination,
		request.DesiredTime,
		request.MaxPrice,
		request.Notes,
		request.Status,
		request.CreatedAt,
	).Scan(&request.ID)
	if err != nil {
		return 0, err
	}
	return request.ID, nil
}

const requestColumns = `id, rider_id, origin, destination, desired_time, max_price, notes, status, created_at`

// GetByID retrieves a request by ID.
func (r *RequestRepository) GetByID(ctx context.Context, id int64) (*domain.CarpoolRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM requests WHERE id = $1`

	request, err := scanRequestRow(r.q.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return request, nil
}

// ListOpen retrieves all OPEN requests in creation order.
func (r *RequestRepository) ListOpen(ctx context.Context) ([]*domain.CarpoolRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM requests WHERE status = $1 ORDER BY id ASC`

	rows, err := r.q.QueryContext(ctx, query, domain.RequestStatusOpen)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []*domain.CarpoolRequest
	for rows.Next() {
		request, err := scanRequestRow(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, request)
	}
	return requests, rows.Err()
}

// Update replaces a request's mutable fields.
func (r *RequestRepository) Update(ctx context.Context, request *domain.CarpoolRequest) error {
	query := `
		UPDATE requests
		SET desired_time = $1, max_price = $2, notes = $3, status = $4
		WHERE id = $5
	`

	result, err := r.q.ExecContext(ctx, query,
		request.DesiredTime,
		request.MaxPrice,
		request.Notes,
		request.Status,
		request.ID,
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

func scanRequestRow(row rowScanner) (*domain.CarpoolRequest, error) {
	var request domain.CarpoolRequest

	err := row.Scan(
		&request.ID,
		&request.RiderID,
		&request.Origin,
		&request.Destination,
		&request.DesiredTime,
		&request.MaxPrice,
		&request.Notes,
		&request.Status,
		&request.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &request, nil
}
