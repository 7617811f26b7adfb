package service

import (
	"context"
	"errors"
	"time"

	"carpool/internal/domain"
	"carpool/internal/repository"
)

// RequestService handles creating and cancelling ride requests.
type RequestService struct {
	requestRepo repository.RequestRepository
}

// NewRequestService creates a new RequestService.
func NewRequestService(requestRepo repository.RequestRepository) *RequestService {
	return &RequestService{requestRepo: requestRepo}
}

// CreateRequestRequest contains the parameters for filing a ride request.
type CreateRequestRequest struct {
	RiderID     string
	Origin      string
	Destination string
	DesiredTime time.Time
	MaxPrice    float64
	Notes       string
}

// CreateRequest files a new request in OPEN status.
func (s *RequestService) CreateRequest(ctx context.Context, req CreateRequestRequest) (int64, error) {
	if req.RiderID == "" {
		return 0, ErrInvalidUserID
	}
	if req.Origin == "" || req.Destination == "" {
		return 0, ErrInvalidLocation
	}
	if req.MaxPrice < 0 {
		return 0, ErrInvalidPrice
	}

	request := &domain.CarpoolRequest{
		RiderID:     req.RiderID,
		Origin:      req.Origin,
		Destination: req.Destination,
		DesiredTime: req.DesiredTime,
		MaxPrice:    req.MaxPrice,
		Notes:       req.Notes,
		Status:      domain.RequestStatusOpen,
		CreatedAt:   time.Now(),
	}

	return s.requestRepo.Create(ctx, request)
}

// GetRequest retrieves a request by ID.
func (s *RequestService) GetRequest(ctx context.Context, requestID int64) (*domain.CarpoolRequest, error) {
	request, err := s.requestRepo.GetByID(ctx, requestID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrRequestNotFound
	}
	return request, err
}

// ListOpen returns all OPEN requests in creation order, for drivers
// browsing unmet demand.
func (s *RequestService) ListOpen(ctx context.Context) ([]*domain.CarpoolRequest, error) {
	return s.requestRepo.ListOpen(ctx)
}

// FulfillForRider transitions an OPEN request to FULFILLED after its
// rider joins an offer. A request belonging to a different rider is
// reported as not found; fulfilling a non-open request is a no-op.
func (s *RequestService) FulfillForRider(ctx context.Context, requestID int64, riderID string) error {
	request, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrRequestNotFound
		}
		return err
	}
	if request.RiderID != riderID {
		return ErrRequestNotFound
	}

	if request.Status != domain.RequestStatusOpen {
		return nil
	}

	request.Status = domain.RequestStatusFulfilled
	return s.requestRepo.Update(ctx, request)
}

// CancelRequest cancels a request. Cancelling an already-cancelled or
// fulfilled request is a no-op success so retries are always safe.
func (s *RequestService) CancelRequest(ctx context.Context, requestID int64) error {
	request, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrRequestNotFound
		}
		return err
	}

	if request.Status != domain.RequestStatusOpen {
		return nil
	}

	request.Status = domain.RequestStatusCancelled
	return s.requestRepo.Update(ctx, request)
}
