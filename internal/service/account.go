package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"carpool/internal/domain"
	"carpool/internal/redis"
	"carpool/internal/repository"
)

// AccountService handles registration, authentication and ratings.
type AccountService struct {
	userRepo   repository.UserRepository
	cacheStore redis.CacheStoreInterface // optional, invalidated on rating changes
}

// NewAccountService creates a new AccountService.
func NewAccountService(userRepo repository.UserRepository, cacheStore redis.CacheStoreInterface) *AccountService {
	return &AccountService{userRepo: userRepo, cacheStore: cacheStore}
}

// RegisterRequest contains the parameters for creating an account.
type RegisterRequest struct {
	Username    string
	DisplayName string
	Email       string
	Credential  string
	Phone       string
	Vehicle     *domain.VehicleProfile // optional
}

// Register creates a new account. The raw credential is hashed with
// bcrypt and never stored or logged. Duplicate usernames are rejected
// by the repository's atomic check-and-insert.
func (s *AccountService) Register(ctx context.Context, req RegisterRequest) (string, error) {
	if req.Username == "" {
		return "", ErrInvalidUsername
	}
	if req.Credential == "" {
		return "", ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Credential), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	user := &domain.User{
		ID:             uuid.New().String(),
		Username:       req.Username,
		DisplayName:    req.DisplayName,
		Email:          req.Email,
		Phone:          req.Phone,
		CredentialHash: string(hash),
		Vehicle:        req.Vehicle,
		CreatedAt:      time.Now(),
	}
	if user.DisplayName == "" {
		user.DisplayName = req.Username
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return "", ErrDuplicateAccount
		}
		return "", err
	}

	return user.ID, nil
}

// Authenticate verifies a username/credential pair against the stored
// bcrypt digest. A missing account and a wrong credential are
// indistinguishable to the caller.
func (s *AccountService) Authenticate(ctx context.Context, username, credential string) (*domain.User, error) {
	if username == "" || credential == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.CredentialHash), []byte(credential)) != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// GetProfile retrieves a user by ID.
func (s *AccountService) GetProfile(ctx context.Context, userID string) (*domain.User, error) {
	if userID == "" {
		return nil, ErrInvalidUserID
	}
	return s.userRepo.GetByID(ctx, userID)
}

// ListAccounts retrieves all registered users.
func (s *AccountService) ListAccounts(ctx context.Context) ([]*domain.User, error) {
	return s.userRepo.GetAll(ctx)
}

// RecordRating folds a 1..5 rating sample into the user's running
// mean and returns the new average. Nothing else about the user changes.
func (s *AccountService) RecordRating(ctx context.Context, userID string, sample int) (float64, error) {
	if userID == "" {
		return 0, ErrInvalidUserID
	}
	if sample < 1 || sample > 5 {
		return 0, ErrInvalidRating
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return 0, err
	}

	newCount := user.RatingCount + 1
	newAverage := (user.Rating*float64(user.RatingCount) + float64(sample)) / float64(newCount)

	if err := s.userRepo.UpdateRating(ctx, userID, newAverage, newCount); err != nil {
		return 0, err
	}

	// Matching caches driver ratings; drop the stale entry.
	if s.cacheStore != nil {
		_ = s.cacheStore.InvalidateUser(ctx, userID)
	}

	return newAverage, nil
}
