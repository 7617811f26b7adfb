package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"carpool/internal/domain"
	"carpool/internal/repository"
)

// uniqueViolation is the postgres error code for unique_violation.
const uniqueViolation = "23505"

// UserRepository implements repository.UserRepository using PostgreSQL.
type UserRepository struct {
	q Querier
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{q: db}
}

// Create adds a new user. The UNIQUE constraint on username makes the
// existence check and insert a single atomic step.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (id, username, display_name, email, phone, credential_hash, vehicle_make_model, vehicle_year, vehicle_total_seats, rating, rating_count, trips_completed, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	var makeModel sql.NullString
	var year, totalSeats sql.NullInt64
	if user.Vehicle != nil {
		makeModel = sql.NullString{String: user.Vehicle.MakeModel, Valid: true}
		year = sql.NullInt64{Int64: int64(user.Vehicle.Year), Valid: true}
		totalSeats = sql.NullInt64{Int64: int64(user.Vehicle.TotalSeats), Valid: true}
	}

	_, err := r.q.ExecContext(ctx, query,
		user.ID,
		user.Username,
		user.DisplayName,
		user.Email,
		user.Phone,
		user.CredentialHash,
		makeModel,
		year,
		totalSeats,
		user.Rating,
		user.RatingCount,
		user.TripsCompleted,
		user.CreatedAt,
	)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return repository.ErrDuplicate
	}
	return err
}

const userColumns = `id, username, display_name, email, phone, credential_hash, vehicle_make_model, vehicle_year, vehicle_total_seats, rating, rating_count, trips_completed, created_at`

// GetByID retrieves a user by ID.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.scanUser(r.q.QueryRowContext(ctx, query, id))
}

// GetByUsername retrieves a user by username.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	return r.scanUser(r.q.QueryRowContext(ctx, query, username))
}

// GetAll retrieves all users in registration order.
func (r *UserRepository) GetAll(ctx context.Context) ([]*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at ASC`
	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		user, err := scanUserRow(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// UpdateRating updates the running rating mean and sample count.
func (r *UserRepository) UpdateRating(ctx context.Context, id string, rating float64, ratingCount int) error {
	query := `UPDATE users SET rating = $1, rating_count = $2 WHERE id = $3`
	result, err := r.q.ExecContext(ctx, query, rating, ratingCount, id)
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

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func (r *UserRepository) scanUser(row *sql.Row) (*domain.User, error) {
	user, err := scanUserRow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func scanUserRow(row rowScanner) (*domain.User, error) {
	var user domain.User
	var makeModel sql.NullString
	var year, totalSeats sql.NullInt64

	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.DisplayName,
		&user.Email,
		&user.Phone,
		&user.CredentialHash,
		&makeModel,
		&year,
		&totalSeats,
		&user.Rating,
		&user.RatingCount,
		&user.TripsCompleted,
		&user.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if makeModel.Valid {
		user.Vehicle = &domain.VehicleProfile{
			MakeModel:  makeModel.String,
			Year:       int(year.Int64),
			TotalSeats: int(totalSeats.Int64),
		}
	}
	return &user, nil
}
