package domain

// RoutePreference selects the key a route ranking optimizes for.
type RoutePreference string

const (
	PreferTime     RoutePreference = "TIME"
	PreferDistance RoutePreference = "DISTANCE"
	PreferEco      RoutePreference = "ECO"
	PreferCost     RoutePreference = "COST"
)

// Route is a candidate route as returned by an external directions
// provider. Routes are transient: the core ranks and reports on them
// but never persists them.
type Route struct {
	Name        string
	DistanceKm  float64
	DurationMin float64
	Congestion  float64 // 0..1
	Tolls       bool
	Highways    bool
	FuelCost    float64
	EcoRating   float64
}
