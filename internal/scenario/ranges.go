package scenario

// Range is an inclusive bound on an input parameter.
type Range struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Contains reports whether v lies within the range.
func (r Range) Contains(v int) bool {
	return v >= r.Min && v <= r.Max
}

// Declared input ranges, shared by the dashboard controls and the feature builder.
var (
	TemperatureRange     = Range{Min: -10, Max: 40}
	FluIntensityRange    = Range{Min: 0, Max: 100}
	PriorAdmissionsRange = Range{Min: 50, Max: 500}
	PriorOccupancyRange  = Range{Min: 0, Max: 100}
	AvailableNursesRange = Range{Min: 0, Max: 100}
	MaskStockDaysRange   = Range{Min: 0, Max: 60}
)

// Ranges returns the declared ranges keyed by input name.
func Ranges() map[string]Range {
	return map[string]Range{
		"temperature":      TemperatureRange,
		"flu_intensity":    FluIntensityRange,
		"prior_admissions": PriorAdmissionsRange,
		"prior_occupancy":  PriorOccupancyRange,
		"available_nurses": AvailableNursesRange,
		"mask_stock_days":  MaskStockDaysRange,
	}
}
