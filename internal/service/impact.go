package service

import (
	"strings"

	"carpool/internal/domain"
)

// ImpactFactors is the locale-specific constant table the calculator
// runs on. Keeping it injectable lets one calculator serve multiple
// locales and currencies instead of hard-coding one table per variant.
type ImpactFactors struct {
	// EmissionsPerKm maps transport mode to kg CO2 emitted per km.
	EmissionsPerKm map[domain.TransportMode]float64

	GasPricePerLiter     float64 // local currency per liter
	FuelConsumptionPerKm float64 // liters per km
	CostOverheadFactor   float64 // wear, insurance etc. on top of fuel
	PublicTransportPerKm float64 // flat fare rate per km
	TreeAbsorptionPerYr  float64 // kg CO2 one tree absorbs per year
	CoalKgPerKgCO2       float64 // kg CO2 released per kg of coal
}

// emissionTable builds the per-km factor map from a solo driving
// factor. Carpool factors are exact fractions of the solo factor so
// that an n-person carpool emits one nth per head.
func emissionTable(solo, publicTransport, ecoRoute float64) map[domain.TransportMode]float64 {
	return map[domain.TransportMode]float64{
		domain.ModeSoloDriving:     solo,
		domain.ModeCarpool2:        solo / 2,
		domain.ModeCarpool3:        solo / 3,
		domain.ModeCarpool4:        solo / 4,
		domain.ModePublicTransport: publicTransport,
		domain.ModeEcoRoute:        ecoRoute,
		domain.ModeBike:            0,
		domain.ModeWalk:            0,
	}
}

// USImpactFactors returns the EPA-based table the original US variants use.
func USImpactFactors() ImpactFactors {
	return ImpactFactors{
		EmissionsPerKm:       emissionTable(0.251, 0.089, 0.201),
		GasPricePerLiter:     1.20,
		FuelConsumptionPerKm: 0.08,
		CostOverheadFactor:   1.5,
		PublicTransportPerKm: 0.15,
		TreeAbsorptionPerYr:  21.77,
		CoalKgPerKgCO2:       2.23,
	}
}

// IndiaImpactFactors returns the India-centric table: smaller cars,
// rupee fuel prices, cheaper transit.
func IndiaImpactFactors() ImpactFactors {
	return ImpactFactors{
		EmissionsPerKm:       emissionTable(0.187, 0.052, 0.150),
		GasPricePerLiter:     105.0,
		FuelConsumptionPerKm: 0.06,
		CostOverheadFactor:   1.4,
		PublicTransportPerKm: 2.5,
		TreeAbsorptionPerYr:  21.77,
		CoalKgPerKgCO2:       2.23,
	}
}

// ImpactFactorsForLocale returns the table for a locale code, falling
// back to the US table for unknown locales.
func ImpactFactorsForLocale(locale string) ImpactFactors {
	switch strings.ToUpper(strings.TrimSpace(locale)) {
	case "IN", "INDIA":
		return IndiaImpactFactors()
	default:
		return USImpactFactors()
	}
}

// ImpactCalculator computes emissions and cost savings for a distance
// and transport mode relative to driving alone. It is a pure function
// of its inputs and the configured factor table.
type ImpactCalculator struct {
	factors ImpactFactors
}

// NewImpactCalculator creates a calculator over the given factor table.
func NewImpactCalculator(factors ImpactFactors) *ImpactCalculator {
	return &ImpactCalculator{factors: factors}
}

// ValidateTransportMode checks a mode string against the factor table.
func (c *ImpactCalculator) ValidateTransportMode(mode string) (domain.TransportMode, error) {
	m := domain.TransportMode(mode)
	if _, ok := c.factors.EmissionsPerKm[m]; !ok {
		return "", ErrInvalidTransportMode
	}
	return m, nil
}

// Impact computes the report for travelling distanceKm by mode with
// the given passenger count. Carpool modes split the solo driving cost
// across passengers; public transport uses its flat per-km rate.
func (c *ImpactCalculator) Impact(distanceKm float64, mode domain.TransportMode, passengers int) (*domain.ImpactReport, error) {
	if distanceKm < 0 {
		distanceKm = 0
	}
	if passengers < 1 {
		passengers = 1
	}

	factor, ok := c.factors.EmissionsPerKm[mode]
	if !ok {
		return nil, ErrInvalidTransportMode
	}
	soloFactor := c.factors.EmissionsPerKm[domain.ModeSoloDriving]

	costPerKm := c.factors.GasPricePerLiter * c.factors.FuelConsumptionPerKm * c.factors.CostOverheadFactor

	soloEmissions := distanceKm * soloFactor
	soloCost := distanceKm * costPerKm
	modeEmissions := distanceKm * factor

	var modeCost float64
	switch {
	case isCarpoolMode(mode):
		modeCost = soloCost / float64(passengers)
	case mode == domain.ModePublicTransport:
		modeCost = distanceKm * c.factors.PublicTransportPerKm
	case mode == domain.ModeBike || mode == domain.ModeWalk:
		modeCost = 0
	default:
		modeCost = soloCost
	}

	co2Saved := soloEmissions - modeEmissions
	if co2Saved < 0 {
		co2Saved = 0
	}
	moneySaved := soloCost - modeCost
	if moneySaved < 0 {
		moneySaved = 0
	}

	report := &domain.ImpactReport{
		SoloEmissionsKg: soloEmissions,
		ModeEmissionsKg: modeEmissions,
		CO2SavedKg:      co2Saved,
		MoneySaved:      moneySaved,
	}
	if c.factors.TreeAbsorptionPerYr > 0 {
		report.TreesEquivalent = co2Saved / c.factors.TreeAbsorptionPerYr
	}
	if soloFactor > 0 {
		report.EquivalentDistanceKm = co2Saved / soloFactor
		report.GasSavedLiters = (co2Saved / soloFactor) * c.factors.FuelConsumptionPerKm
	}
	if c.factors.CoalKgPerKgCO2 > 0 {
		report.CoalAvoidedKg = co2Saved / c.factors.CoalKgPerKgCO2
	}
	return report, nil
}

// CarpoolModeFor returns the carpool mode for a party of the given
// size, saturating at four occupants.
func CarpoolModeFor(occupants int) domain.TransportMode {
	switch {
	case occupants <= 1:
		return domain.ModeSoloDriving
	case occupants == 2:
		return domain.ModeCarpool2
	case occupants == 3:
		return domain.ModeCarpool3
	default:
		return domain.ModeCarpool4
	}
}

func isCarpoolMode(mode domain.TransportMode) bool {
	switch mode {
	case domain.ModeCarpool2, domain.ModeCarpool3, domain.ModeCarpool4:
		return true
	}
	return false
}
