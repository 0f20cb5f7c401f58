// Package scenario holds the named operating scenarios of the emergency
// department and their default input values.
package scenario

// Name identifies a scenario as displayed to staff.
type Name string

const (
	Normal       Name = "Normal"
	Hiver        Name = "Hiver"
	Epidemie     Name = "Épidémie"
	Greve        Name = "Grève"
	AffluxMassif Name = "Afflux Massif"
)

// Profile is the bundle of default inputs for a scenario.
type Profile struct {
	Name            Name `json:"name"`
	Code            int  `json:"code"`
	Temperature     int  `json:"temperature"`
	FluIntensity    int  `json:"flu_intensity"`
	PriorAdmissions int  `json:"prior_admissions"`
	PriorOccupancy  int  `json:"prior_occupancy"`
	AvailableNurses int  `json:"available_nurses"`
	MaskStockDays   int  `json:"mask_stock_days"`
}

// names lists the scenarios in code order.
var names = [...]Name{Normal, Hiver, Epidemie, Greve, AffluxMassif}

var profiles = map[Name]Profile{
	Normal: {
		Name: Normal, Code: 0,
		Temperature: 15, FluIntensity: 20,
		PriorAdmissions: 200, PriorOccupancy: 65,
		AvailableNurses: 18, MaskStockDays: 10,
	},
	Hiver: {
		Name: Hiver, Code: 1,
		Temperature: 0, FluIntensity: 60,
		PriorAdmissions: 280, PriorOccupancy: 80,
		AvailableNurses: 18, MaskStockDays: 7,
	},
	Epidemie: {
		Name: Epidemie, Code: 2,
		Temperature: 8, FluIntensity: 90,
		PriorAdmissions: 350, PriorOccupancy: 88,
		AvailableNurses: 16, MaskStockDays: 5,
	},
	Greve: {
		Name: Greve, Code: 3,
		Temperature: 15, FluIntensity: 20,
		PriorAdmissions: 220, PriorOccupancy: 70,
		AvailableNurses: 10, MaskStockDays: 10,
	},
	AffluxMassif: {
		Name: AffluxMassif, Code: 4,
		Temperature: 18, FluIntensity: 30,
		PriorAdmissions: 450, PriorOccupancy: 95,
		AvailableNurses: 20, MaskStockDays: 4,
	},
}

// Lookup returns the profile for name and whether name is a known scenario.
func Lookup(name string) (Profile, bool) {
	p, ok := profiles[Name(name)]
	return p, ok
}

// Defaults returns the profile for name. Unknown names resolve to Normal.
func Defaults(name string) Profile {
	if p, ok := Lookup(name); ok {
		return p
	}
	return profiles[Normal]
}

// Code maps a scenario name to its category code. Unknown names map to 0.
func Code(name string) int {
	if p, ok := Lookup(name); ok {
		return p.Code
	}
	return 0
}

// All returns every profile in code order.
func All() []Profile {
	out := make([]Profile, 0, len(names))
	for _, n := range names {
		out = append(out, profiles[n])
	}
	return out
}
