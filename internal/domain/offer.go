package domain

import "time"

// OfferStatus represents the current status of a carpool offer.
type OfferStatus string

const (
	OfferStatusActive    OfferStatus = "ACTIVE"
	OfferStatusFull      OfferStatus = "FULL"
	OfferStatusCancelled OfferStatus = "CANCELLED"
)

// CarpoolOffer is a driver-published ride with a fixed seat capacity
// and a price per seat. Passengers is an ordered, duplicate-free list
// of rider IDs; it is mutated only through the booking service.
type CarpoolOffer struct {
	ID             int64
	DriverID       string
	Origin         string
	Destination    string
	DepartureTime  time.Time
	SeatsAvailable int
	PricePerSeat   float64
	Notes          string
	Passengers     []string
	Status         OfferStatus
	CreatedAt      time.Time
}

// SeatsTaken returns the number of confirmed passengers.
func (o *CarpoolOffer) SeatsTaken() int {
	return len(o.Passengers)
}

// IsFull reports whether every seat is taken.
func (o *CarpoolOffer) IsFull() bool {
	return len(o.Passengers) >= o.SeatsAvailable
}

// HasPassenger reports whether the rider already holds a seat.
func (o *CarpoolOffer) HasPassenger(riderID string) bool {
	for _, id := range o.Passengers {
		if id == riderID {
			return true
		}
	}
	return false
}
