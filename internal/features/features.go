// Package features assembles the fixed-schema feature record consumed by the
// admission forecaster.
package features

import (
	"fmt"
	"strconv"
	"time"

	"github.com/pitie-urgences/forecast/internal/scenario"
	apperrors "github.com/pitie-urgences/forecast/internal/shared/errors"
)

// Field names, as used by the training dataset and the model artifact.
const (
	FieldTemperature     = "temperature"
	FieldFluIntensity    = "grippe_saison"
	FieldEpidemic        = "epidemies"
	FieldWeekday         = "jour_semaine"
	FieldMonth           = "mois"
	FieldScenarioCode    = "scenario_cat"
	FieldStaffAbsences   = "absences_personnel"
	FieldPriorAdmissions = "admissions_veille"
	FieldPriorOccupancy  = "occupation_rea_veille"
	FieldSchoolHoliday   = "vacances_zone_c"
	FieldTrendFever      = "trend_fievre"
	FieldTrendCovid      = "trend_covid"
	FieldTrendGastro     = "trend_gastro"
	FieldTrendFlu        = "trend_grippe"
	FieldTrendCough      = "trend_toux"
)

// SchemaV1 is the feature order of the original training set (no prior occupancy).
var SchemaV1 = []string{
	FieldTemperature, FieldFluIntensity, FieldEpidemic, FieldWeekday, FieldMonth,
	FieldScenarioCode, FieldStaffAbsences, FieldPriorAdmissions, FieldSchoolHoliday,
	FieldTrendFever, FieldTrendCovid, FieldTrendGastro, FieldTrendFlu, FieldTrendCough,
}

// SchemaV2 adds the prior-day critical-care occupancy after prior admissions.
var SchemaV2 = []string{
	FieldTemperature, FieldFluIntensity, FieldEpidemic, FieldWeekday, FieldMonth,
	FieldScenarioCode, FieldStaffAbsences, FieldPriorAdmissions, FieldPriorOccupancy,
	FieldSchoolHoliday,
	FieldTrendFever, FieldTrendCovid, FieldTrendGastro, FieldTrendFlu, FieldTrendCough,
}

// Placeholder values. Holidays and search trends are not wired to a live
// source; the model was trained with these constants.
const (
	schoolHoliday = 0
	trendFever    = 30
	trendCovid    = 15
	trendGastro   = 20
	trendFlu      = 25
	trendCough    = 20
)

const (
	epidemicThreshold = 60
	weekendAbsences   = 5
	weekdayAbsences   = 2
)

// Input is the raw scenario input of a forecast request.
type Input struct {
	Temperature     int    `json:"temperature"`
	FluIntensity    int    `json:"flu_intensity"`
	PriorAdmissions int    `json:"prior_admissions"`
	PriorOccupancy  int    `json:"prior_occupancy"`
	Weekday         int    `json:"weekday"` // 1=Monday .. 7=Sunday, 0=today
	Month           int    `json:"month"`   // 1..12, 0=current month
	Scenario        string `json:"scenario"`
}

// Record is a complete feature record. Every field is set by Build.
type Record struct {
	Temperature     int  `json:"temperature"`
	FluIntensity    int  `json:"grippe_saison"`
	Epidemic        bool `json:"epidemies"`
	Weekday         int  `json:"jour_semaine"`
	Month           int  `json:"mois"`
	ScenarioCode    int  `json:"scenario_cat"`
	StaffAbsences   int  `json:"absences_personnel"`
	PriorAdmissions int  `json:"admissions_veille"`
	PriorOccupancy  int  `json:"occupation_rea_veille"`
	SchoolHoliday   int  `json:"vacances_zone_c"`
	TrendFever      int  `json:"trend_fievre"`
	TrendCovid      int  `json:"trend_covid"`
	TrendGastro     int  `json:"trend_gastro"`
	TrendFlu        int  `json:"trend_grippe"`
	TrendCough      int  `json:"trend_toux"`
}

// ISOWeekday returns t's weekday with Monday=1 and Sunday=7.
func ISOWeekday(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}

// IsWeekend reports whether an ISO weekday is Saturday or Sunday.
func IsWeekend(weekday int) bool {
	return weekday == 6 || weekday == 7
}

// Build validates in and derives the full feature record. A zero Weekday or
// Month is taken from the current date. Out-of-range values are rejected with
// an InvalidInput error, never clamped.
func Build(in Input) (Record, error) {
	return BuildAt(in, time.Now())
}

// BuildAt is Build with an explicit reference date for zero Weekday/Month.
func BuildAt(in Input, now time.Time) (Record, error) {
	if in.Weekday == 0 {
		in.Weekday = ISOWeekday(now)
	}
	if in.Month == 0 {
		in.Month = int(now.Month())
	}

	if err := Validate(in); err != nil {
		return Record{}, err
	}

	absences := weekdayAbsences
	if IsWeekend(in.Weekday) {
		absences = weekendAbsences
	}

	return Record{
		Temperature:     in.Temperature,
		FluIntensity:    in.FluIntensity,
		Epidemic:        in.FluIntensity > epidemicThreshold,
		Weekday:         in.Weekday,
		Month:           in.Month,
		ScenarioCode:    scenario.Code(in.Scenario),
		StaffAbsences:   absences,
		PriorAdmissions: in.PriorAdmissions,
		PriorOccupancy:  in.PriorOccupancy,
		SchoolHoliday:   schoolHoliday,
		TrendFever:      trendFever,
		TrendCovid:      trendCovid,
		TrendGastro:     trendGastro,
		TrendFlu:        trendFlu,
		TrendCough:      trendCough,
	}, nil
}

// Validate checks every input against its declared range and reports all
// violations at once.
func Validate(in Input) error {
	details := make(map[string]string)

	check := func(field string, v int, r scenario.Range) {
		if !r.Contains(v) {
			details[field] = fmt.Sprintf("%d outside [%d, %d]", v, r.Min, r.Max)
		}
	}
	check("temperature", in.Temperature, scenario.TemperatureRange)
	check("flu_intensity", in.FluIntensity, scenario.FluIntensityRange)
	check("prior_admissions", in.PriorAdmissions, scenario.PriorAdmissionsRange)
	check("prior_occupancy", in.PriorOccupancy, scenario.PriorOccupancyRange)
	check("weekday", in.Weekday, scenario.Range{Min: 1, Max: 7})
	check("month", in.Month, scenario.Range{Min: 1, Max: 12})

	if len(details) > 0 {
		return apperrors.InvalidInput(details)
	}
	return nil
}

// Map returns the flat name to value mapping of every field.
func (r Record) Map() map[string]float64 {
	return map[string]float64{
		FieldTemperature:     float64(r.Temperature),
		FieldFluIntensity:    float64(r.FluIntensity),
		FieldEpidemic:        boolToFloat(r.Epidemic),
		FieldWeekday:         float64(r.Weekday),
		FieldMonth:           float64(r.Month),
		FieldScenarioCode:    float64(r.ScenarioCode),
		FieldStaffAbsences:   float64(r.StaffAbsences),
		FieldPriorAdmissions: float64(r.PriorAdmissions),
		FieldPriorOccupancy:  float64(r.PriorOccupancy),
		FieldSchoolHoliday:   float64(r.SchoolHoliday),
		FieldTrendFever:      float64(r.TrendFever),
		FieldTrendCovid:      float64(r.TrendCovid),
		FieldTrendGastro:     float64(r.TrendGastro),
		FieldTrendFlu:        float64(r.TrendFlu),
		FieldTrendCough:      float64(r.TrendCough),
	}
}

// Vector returns the record's values in schema order. An unknown field name
// means the schema is incompatible with this record.
func (r Record) Vector(schema []string) ([]float64, error) {
	values := r.Map()
	out := make([]float64, len(schema))
	for i, name := range schema {
		v, ok := values[name]
		if !ok {
			return nil, &SchemaError{Field: name, Position: i}
		}
		out[i] = v
	}
	return out, nil
}

// SchemaError reports a schema field the record does not provide.
type SchemaError struct {
	Field    string
	Position int
}

func (e *SchemaError) Error() string {
	return "unknown feature " + strconv.Quote(e.Field) + " at position " + strconv.Itoa(e.Position)
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
