// Package alert evaluates the operational threshold rules against a KPI set.
package alert

import (
	"fmt"

	"github.com/pitie-urgences/forecast/internal/kpi"
)

// Severity represents the severity of an alert
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
	SeverityInfo     Severity = "info"
)

// Kind names the rule that raised an alert
type Kind string

const (
	KindStaffing  Kind = "staffing"
	KindOccupancy Kind = "occupancy"
	KindSupplies  Kind = "supplies"
	KindStatus    Kind = "status"
)

// Alert is one entry of the alert panel.
type Alert struct {
	Severity Severity `json:"severity"`
	Kind     Kind     `json:"kind"`
	Message  string   `json:"message"`
}

// Thresholds configures the occupancy and mask stock rules. Occupancy
// thresholds are exclusive lower bounds, mask thresholds exclusive upper bounds.
type Thresholds struct {
	OccupancyCriticalPct int `json:"occupancy_critical_pct"`
	OccupancyWarningPct  int `json:"occupancy_warning_pct"`
	MaskCriticalDays     int `json:"mask_critical_days"`
	MaskWarningDays      int `json:"mask_warning_days"`
}

// DefaultThresholds returns the thresholds in use at the emergency department.
func DefaultThresholds() Thresholds {
	return Thresholds{
		OccupancyCriticalPct: 90,
		OccupancyWarningPct:  75,
		MaskCriticalDays:     3,
		MaskWarningDays:      7,
	}
}

// Generate evaluates the rules in display order: staffing, occupancy, then
// supplies. Every matching rule fires. When none does, the result is a single
// informational alert, so it is never empty.
func Generate(k kpi.Set, maskStockDays, availableNurses int, t Thresholds) []Alert {
	alerts := make([]Alert, 0, 3)

	if k.NursesRequired > availableNurses {
		alerts = append(alerts, Alert{
			Severity: SeverityCritical,
			Kind:     KindStaffing,
			Message: fmt.Sprintf("Manque de %d infirmier(s) : %d requis, %d disponibles",
				k.NursesRequired-availableNurses, k.NursesRequired, availableNurses),
		})
	}

	switch {
	case k.OccupancyPct > t.OccupancyCriticalPct:
		alerts = append(alerts, Alert{
			Severity: SeverityCritical,
			Kind:     KindOccupancy,
			Message:  fmt.Sprintf("Saturation des lits (%d%%) : plan blanc suggéré", k.OccupancyPct),
		})
	case k.OccupancyPct > t.OccupancyWarningPct:
		alerts = append(alerts, Alert{
			Severity: SeverityWarning,
			Kind:     KindOccupancy,
			Message:  fmt.Sprintf("Taux d'occupation élevé (%d%%)", k.OccupancyPct),
		})
	}

	switch {
	case maskStockDays < t.MaskCriticalDays:
		alerts = append(alerts, Alert{
			Severity: SeverityCritical,
			Kind:     KindSupplies,
			Message:  fmt.Sprintf("Stock de masques critique (%d jours) : réapprovisionnement urgent", maskStockDays),
		})
	case maskStockDays < t.MaskWarningDays:
		alerts = append(alerts, Alert{
			Severity: SeverityWarning,
			Kind:     KindSupplies,
			Message:  fmt.Sprintf("Stock de masques bas (%d jours) : anticiper le réapprovisionnement", maskStockDays),
		})
	}

	if len(alerts) == 0 {
		alerts = append(alerts, Alert{
			Severity: SeverityInfo,
			Kind:     KindStatus,
			Message:  "Situation sous contrôle",
		})
	}

	return alerts
}

// HasCritical reports whether any alert is critical.
func HasCritical(alerts []Alert) bool {
	for _, a := range alerts {
		if a.Severity == SeverityCritical {
			return true
		}
	}
	return false
}
