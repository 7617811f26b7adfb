package service

import "errors"

var (
	// ErrDuplicateAccount is returned when the username is already registered.
	ErrDuplicateAccount = errors.New("account already exists")

	// ErrInvalidCredentials is returned when authentication fails.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrOfferNotFound is returned when the offer does not exist.
	ErrOfferNotFound = errors.New("offer not found")

	// ErrRequestNotFound is returned when the request does not exist.
	ErrRequestNotFound = errors.New("request not found")

	// ErrOfferFull is returned when every seat on the offer is taken.
	ErrOfferFull = errors.New("offer is full")

	// ErrOfferNotActive is returned when joining a cancelled or full offer.
	ErrOfferNotActive = errors.New("offer is not active")

	// ErrOfferBusy is returned when another process holds the offer's
	// booking lock. The condition is transient; callers may retry.
	ErrOfferBusy = errors.New("offer is being modified, retry")

	// ErrAlreadyJoined is returned when the rider already holds a seat.
	ErrAlreadyJoined = errors.New("rider already joined this offer")

	// ErrNotJoined is returned when leaving an offer the rider never joined.
	ErrNotJoined = errors.New("rider has not joined this offer")

	// ErrInvalidCapacity is returned when an offer is created with no seats.
	ErrInvalidCapacity = errors.New("seat capacity must be positive")

	// ErrInvalidPrice is returned when the price per seat is negative.
	ErrInvalidPrice = errors.New("price per seat must not be negative")

	// ErrInvalidUserID is returned when a user ID is empty.
	ErrInvalidUserID = errors.New("invalid user id")

	// ErrInvalidUsername is returned when a username is empty.
	ErrInvalidUsername = errors.New("invalid username")

	// ErrInvalidRating is returned when a rating sample is outside 1..5.
	ErrInvalidRating = errors.New("rating sample must be between 1 and 5")

	// ErrInvalidLocation is returned when origin or destination is empty.
	ErrInvalidLocation = errors.New("origin and destination are required")

	// ErrInvalidTransportMode is returned for an unknown transport mode.
	ErrInvalidTransportMode = errors.New("unknown transport mode")

	// ErrInvalidPreference is returned for an unknown route preference.
	ErrInvalidPreference = errors.New("unknown route preference")

	// ErrDriverWithoutVehicle is returned when a user without a vehicle
	// profile tries to publish an offer.
	ErrDriverWithoutVehicle = errors.New("driver has no vehicle profile")

	// ErrOfferCorrupted signals a stored offer with more passengers than
	// seats. This is an internal invariant breach, not a caller error.
	ErrOfferCorrupted = errors.New("offer passenger count exceeds seat capacity")
)
