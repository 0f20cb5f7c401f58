// Package kpi converts an admission forecast into staffing, supply and
// occupancy figures.
package kpi

import (
	"fmt"
	"math"
)

// Params are the operational ratios of the department.
type Params struct {
	PatientsPerNurse     int `json:"patients_per_nurse"`
	PatientsPerPhysician int `json:"patients_per_physician"`
	MasksPerPatient      int `json:"masks_per_patient"`
	BedCapacity          int `json:"bed_capacity"`
}

// DefaultParams returns the ratios in use at the emergency department.
func DefaultParams() Params {
	return Params{
		PatientsPerNurse:     15,
		PatientsPerPhysician: 30,
		MasksPerPatient:      9,
		BedCapacity:          250,
	}
}

// Validate rejects ratios that would divide by zero or go negative.
func (p Params) Validate() error {
	switch {
	case p.PatientsPerNurse <= 0:
		return fmt.Errorf("patients per nurse must be positive, got %d", p.PatientsPerNurse)
	case p.PatientsPerPhysician <= 0:
		return fmt.Errorf("patients per physician must be positive, got %d", p.PatientsPerPhysician)
	case p.MasksPerPatient <= 0:
		return fmt.Errorf("masks per patient must be positive, got %d", p.MasksPerPatient)
	case p.BedCapacity <= 0:
		return fmt.Errorf("bed capacity must be positive, got %d", p.BedCapacity)
	}
	return nil
}

// Set is the KPI set derived from one prediction.
type Set struct {
	NursesRequired     int `json:"nurses_required"`
	PhysiciansRequired int `json:"physicians_required"`
	MaskConsumption    int `json:"mask_consumption"`
	OccupancyPct       int `json:"occupancy_pct"`
}

// maxPrediction keeps every product below int overflow for sane ratios.
const maxPrediction = math.MaxInt32

// Compute derives the KPI set for a prediction. Negative predictions count as
// zero and predictions above MaxInt32 are capped. p must be valid.
func Compute(prediction int, p Params) Set {
	prediction = max(0, min(prediction, maxPrediction))

	occupancy := 100
	if prediction < p.BedCapacity {
		occupancy = prediction * 100 / p.BedCapacity
	}

	return Set{
		NursesRequired:     ceilDiv(prediction, p.PatientsPerNurse),
		PhysiciansRequired: ceilDiv(prediction, p.PatientsPerPhysician),
		MaskConsumption:    prediction * p.MasksPerPatient,
		OccupancyPct:       occupancy,
	}
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
