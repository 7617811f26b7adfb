package domain

import "time"

// RequestStatus represents the current status of a ride request.
type RequestStatus string

const (
	RequestStatusOpen      RequestStatus = "OPEN"
	RequestStatusFulfilled RequestStatus = "FULFILLED"
	RequestStatusCancelled RequestStatus = "CANCELLED"
)

// CarpoolRequest is a rider's stated desire to travel a given
// origin→destination at a given time for at most a given price.
type CarpoolRequest struct {
	ID          int64
	RiderID     string
	Origin      string
	Destination string
	DesiredTime time.Time
	MaxPrice    float64
	Notes       string
	Status      RequestStatus
	CreatedAt   time.Time
}
