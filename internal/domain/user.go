package domain

import "time"

// VehicleProfile describes the car a driver offers seats in.
// Immutable after creation; an update replaces the whole profile.
type VehicleProfile struct {
	MakeModel  string
	Year       int
	TotalSeats int
}

// User represents a registered account. A user with a vehicle profile
// can publish offers; every user can join offers as a rider.
type User struct {
	ID             string
	Username       string
	DisplayName    string
	Email          string
	Phone          string
	CredentialHash string
	Vehicle        *VehicleProfile // nil for riders without a car
	Rating         float64
	RatingCount    int
	TripsCompleted int
	CreatedAt      time.Time
}

// HasVehicle reports whether the user can act as a driver.
func (u *User) HasVehicle() bool {
	return u.Vehicle != nil
}
