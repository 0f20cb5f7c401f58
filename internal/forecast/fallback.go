package forecast

import (
	"math"

	"github.com/pitie-urgences/forecast/internal/features"
)

// Fallback heuristic coefficients.
const (
	fluImpactMax      = 80.0
	coldThreshold     = 5
	coldImpactPerDeg  = 3.0
	heatThreshold     = 30
	heatImpactPerDeg  = 2.0
	weekendAdjustment = -20.0
	dampingFactor     = 0.95

	// FallbackFloor is the baseline hospital load the heuristic never goes below.
	FallbackFloor = 100
)

// Fallback estimates next-day admissions from the prior-day load, flu
// intensity, temperature and weekday when no model is available.
func Fallback(rec features.Record) int {
	base := float64(rec.PriorAdmissions)
	// Products are rounded before summing (no fused multiply-add).
	impactFlu := float64((float64(rec.FluIntensity) / 100) * fluImpactMax)

	impactTemp := 0.0
	switch {
	case rec.Temperature < coldThreshold:
		impactTemp = float64(float64(coldThreshold-rec.Temperature) * coldImpactPerDeg)
	case rec.Temperature > heatThreshold:
		impactTemp = float64(float64(rec.Temperature-heatThreshold) * heatImpactPerDeg)
	}

	weekend := 0.0
	if features.IsWeekend(rec.Weekday) {
		weekend = weekendAdjustment
	}

	raw := base + impactFlu + impactTemp + weekend
	estimate := int(math.Floor(raw * dampingFactor))
	if estimate < FallbackFloor {
		return FallbackFloor
	}
	return estimate
}
