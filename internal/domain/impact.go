package domain

// TransportMode keys the per-km emission factor table.
type TransportMode string

const (
	ModeSoloDriving     TransportMode = "solo_driving"
	ModeCarpool2        TransportMode = "carpool_2"
	ModeCarpool3        TransportMode = "carpool_3"
	ModeCarpool4        TransportMode = "carpool_4"
	ModePublicTransport TransportMode = "public_transport"
	ModeEcoRoute        TransportMode = "eco_route"
	ModeBike            TransportMode = "bike"
	ModeWalk            TransportMode = "walk"
)

// ImpactReport holds the derived emissions and cost savings for a
// trip of a given distance and transport mode, relative to driving
// alone. Reports are recomputed on demand and never stored.
type ImpactReport struct {
	SoloEmissionsKg      float64
	ModeEmissionsKg      float64
	CO2SavedKg           float64
	MoneySaved           float64
	TreesEquivalent      float64
	EquivalentDistanceKm float64
	GasSavedLiters       float64
	CoalAvoidedKg        float64
}
