package tests

import (
	"errors"
	"math"
	"testing"

	"carpool/internal/domain"
	"carpool/internal/service"
)

func TestImpact_SoloDrivingSavesNothing(t *testing.T) {
	calc := service.NewImpactCalculator(service.USImpactFactors())

	report, err := calc.Impact(25, domain.ModeSoloDriving, 1)
	if err != nil {
		t.Fatalf("impact failed: %v", err)
	}
	if report.CO2SavedKg != 0 {
		t.Errorf("expected zero CO2 saved for solo driving, got %f", report.CO2SavedKg)
	}
	if report.MoneySaved != 0 {
		t.Errorf("expected zero money saved for solo driving, got %f", report.MoneySaved)
	}
}

func TestImpact_CarpoolSavings(t *testing.T) {
	factors := service.USImpactFactors()
	calc := service.NewImpactCalculator(factors)

	const distance = 20.0
	report, err := calc.Impact(distance, domain.ModeCarpool4, 4)
	if err != nil {
		t.Fatalf("impact failed: %v", err)
	}

	wantCO2 := distance * (0.251 - 0.251/4)
	if math.Abs(report.CO2SavedKg-wantCO2) > 1e-6 {
		t.Errorf("expected %f kg CO2 saved, got %f", wantCO2, report.CO2SavedKg)
	}

	// Four people split one car's running cost.
	soloCost := distance * factors.GasPricePerLiter * factors.FuelConsumptionPerKm * factors.CostOverheadFactor
	wantMoney := soloCost - soloCost/4
	if math.Abs(report.MoneySaved-wantMoney) > 1e-6 {
		t.Errorf("expected %f saved, got %f", wantMoney, report.MoneySaved)
	}

	// Derived equivalences stay consistent with the factor table.
	wantTrees := wantCO2 / factors.TreeAbsorptionPerYr
	if math.Abs(report.TreesEquivalent-wantTrees) > 1e-6 {
		t.Errorf("expected %f trees, got %f", wantTrees, report.TreesEquivalent)
	}
	wantCoal := wantCO2 / factors.CoalKgPerKgCO2
	if math.Abs(report.CoalAvoidedKg-wantCoal) > 1e-6 {
		t.Errorf("expected %f kg coal, got %f", wantCoal, report.CoalAvoidedKg)
	}
}

func TestImpact_BikeIsFree(t *testing.T) {
	calc := service.NewImpactCalculator(service.USImpactFactors())

	report, err := calc.Impact(10, domain.ModeBike, 1)
	if err != nil {
		t.Fatalf("impact failed: %v", err)
	}
	if report.ModeEmissionsKg != 0 {
		t.Errorf("expected zero emissions for bike, got %f", report.ModeEmissionsKg)
	}
	if report.CO2SavedKg != report.SoloEmissionsKg {
		t.Errorf("expected full solo emissions saved, got %f of %f",
			report.CO2SavedKg, report.SoloEmissionsKg)
	}
}

func TestImpact_PublicTransportUsesFlatRate(t *testing.T) {
	factors := service.USImpactFactors()
	calc := service.NewImpactCalculator(factors)

	const distance = 30.0
	report, err := calc.Impact(distance, domain.ModePublicTransport, 1)
	if err != nil {
		t.Fatalf("impact failed: %v", err)
	}

	soloCost := distance * factors.GasPricePerLiter * factors.FuelConsumptionPerKm * factors.CostOverheadFactor
	wantMoney := soloCost - distance*factors.PublicTransportPerKm
	if math.Abs(report.MoneySaved-wantMoney) > 1e-6 {
		t.Errorf("expected %f saved, got %f", wantMoney, report.MoneySaved)
	}
}

func TestImpact_InvalidModeRejected(t *testing.T) {
	calc := service.NewImpactCalculator(service.USImpactFactors())

	if _, err := calc.Impact(10, "teleport", 1); !errors.Is(err, service.ErrInvalidTransportMode) {
		t.Fatalf("expected ErrInvalidTransportMode, got %v", err)
	}
	if _, err := calc.ValidateTransportMode("teleport"); !errors.Is(err, service.ErrInvalidTransportMode) {
		t.Fatalf("expected ErrInvalidTransportMode, got %v", err)
	}
}

func TestImpact_NegativeDistanceClampedToZero(t *testing.T) {
	calc := service.NewImpactCalculator(service.USImpactFactors())

	report, err := calc.Impact(-5, domain.ModeCarpool2, 2)
	if err != nil {
		t.Fatalf("impact failed: %v", err)
	}
	if report.SoloEmissionsKg != 0 || report.CO2SavedKg != 0 {
		t.Errorf("expected zeroed report for negative distance, got %+v", report)
	}
}

func TestImpact_LocaleSelection(t *testing.T) {
	us := service.ImpactFactorsForLocale("US")
	india := service.ImpactFactorsForLocale("in")
	fallback := service.ImpactFactorsForLocale("unknown")

	if us.GasPricePerLiter == india.GasPricePerLiter {
		t.Error("expected distinct factor tables for US and India")
	}
	if fallback.GasPricePerLiter != us.GasPricePerLiter {
		t.Error("expected fallback to the US table for unknown locales")
	}
}

func TestImpact_CarpoolModeForOccupants(t *testing.T) {
	cases := []struct {
		occupants int
		want      domain.TransportMode
	}{
		{1, domain.ModeSoloDriving},
		{2, domain.ModeCarpool2},
		{3, domain.ModeCarpool3},
		{4, domain.ModeCarpool4},
		{7, domain.ModeCarpool4},
	}
	for _, tc := range cases {
		if got := service.CarpoolModeFor(tc.occupants); got != tc.want {
			t.Errorf("occupants %d: expected %s, got %s", tc.occupants, tc.want, got)
		}
	}
}
