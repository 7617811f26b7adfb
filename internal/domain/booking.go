package domain

import "time"

// BookingConfirmation is returned when a rider successfully joins an
// offer. It is plain data for the caller; the offer itself carries the
// authoritative passenger list.
type BookingConfirmation struct {
	ID           string
	OfferID      int64
	RiderID      string
	PricePerSeat float64
	JoinedAt     time.Time
}
