package features

import (
	"errors"
	"testing"
	"time"

	apperrors "github.com/pitie-urgences/forecast/internal/shared/errors"
)

func validInput() Input {
	return Input{
		Temperature:     15,
		FluIntensity:    20,
		PriorAdmissions: 200,
		PriorOccupancy:  65,
		Weekday:         3,
		Month:           2,
		Scenario:        "Normal",
	}
}

func TestBuildDerivedFields(t *testing.T) {
	for flu := 0; flu <= 100; flu += 5 {
		for weekday := 1; weekday <= 7; weekday++ {
			in := validInput()
			in.FluIntensity = flu
			in.Weekday = weekday

			rec, err := Build(in)
			if err != nil {
				t.Fatalf("Expected no error for flu=%d weekday=%d, got %v", flu, weekday, err)
			}

			if rec.Epidemic != (flu > 60) {
				t.Errorf("flu=%d: expected epidemic=%v, got %v", flu, flu > 60, rec.Epidemic)
			}

			expectedAbsences := 2
			if weekday == 6 || weekday == 7 {
				expectedAbsences = 5
			}
			if rec.StaffAbsences != expectedAbsences {
				t.Errorf("weekday=%d: expected %d absences, got %d", weekday, expectedAbsences, rec.StaffAbsences)
			}
		}
	}
}

func TestBuildEpidemicBoundary(t *testing.T) {
	in := validInput()

	in.FluIntensity = 60
	rec, _ := Build(in)
	if rec.Epidemic {
		t.Error("Expected flu=60 not to be an epidemic")
	}

	in.FluIntensity = 61
	rec, _ = Build(in)
	if !rec.Epidemic {
		t.Error("Expected flu=61 to be an epidemic")
	}
}

func TestBuildPlaceholders(t *testing.T) {
	rec, err := Build(validInput())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.SchoolHoliday != 0 {
		t.Errorf("Expected holiday flag 0, got %d", rec.SchoolHoliday)
	}
	trends := []int{rec.TrendFever, rec.TrendCovid, rec.TrendGastro, rec.TrendFlu, rec.TrendCough}
	expected := []int{30, 15, 20, 25, 20}
	for i := range trends {
		if trends[i] != expected[i] {
			t.Errorf("Expected trend %d to be %d, got %d", i, expected[i], trends[i])
		}
	}
}

func TestBuildScenarioCode(t *testing.T) {
	in := validInput()
	in.Scenario = "Grève"
	rec, _ := Build(in)
	if rec.ScenarioCode != 3 {
		t.Errorf("Expected code 3, got %d", rec.ScenarioCode)
	}

	in.Scenario = "Inconnu"
	rec, _ = Build(in)
	if rec.ScenarioCode != 0 {
		t.Errorf("Expected code 0 for unknown scenario, got %d", rec.ScenarioCode)
	}
}

func TestBuildAtFillsCurrentDate(t *testing.T) {
	in := validInput()
	in.Weekday = 0
	in.Month = 0

	// Sunday 15 March 2026
	now := time.Date(2026, time.March, 15, 10, 0, 0, 0, time.UTC)
	rec, err := BuildAt(in, now)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Weekday != 7 {
		t.Errorf("Expected Sunday=7, got %d", rec.Weekday)
	}
	if rec.Month != 3 {
		t.Errorf("Expected month 3, got %d", rec.Month)
	}
	if rec.StaffAbsences != 5 {
		t.Errorf("Expected weekend absences 5, got %d", rec.StaffAbsences)
	}
}

func TestBuildRejectsOutOfRange(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(in *Input)
		field  string
	}{
		{"Too cold", func(in *Input) { in.Temperature = -11 }, "temperature"},
		{"Too hot", func(in *Input) { in.Temperature = 41 }, "temperature"},
		{"Negative flu", func(in *Input) { in.FluIntensity = -1 }, "flu_intensity"},
		{"Flu above 100", func(in *Input) { in.FluIntensity = 101 }, "flu_intensity"},
		{"Too few admissions", func(in *Input) { in.PriorAdmissions = 49 }, "prior_admissions"},
		{"Too many admissions", func(in *Input) { in.PriorAdmissions = 501 }, "prior_admissions"},
		{"Occupancy above 100", func(in *Input) { in.PriorOccupancy = 101 }, "prior_occupancy"},
		{"Weekday 8", func(in *Input) { in.Weekday = 8 }, "weekday"},
		{"Month 13", func(in *Input) { in.Month = 13 }, "month"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(&in)

			_, err := Build(in)
			if err == nil {
				t.Fatal("Expected error but got none")
			}
			if !errors.Is(err, apperrors.ErrInvalidInput) {
				t.Errorf("Expected ErrInvalidInput, got %v", err)
			}

			var appErr *apperrors.AppError
			if !errors.As(err, &appErr) {
				t.Fatalf("Expected AppError, got %T", err)
			}
			if _, ok := appErr.Details[tt.field]; !ok {
				t.Errorf("Expected detail for %s, got %v", tt.field, appErr.Details)
			}
		})
	}
}

func TestBuildAcceptsRangeBounds(t *testing.T) {
	in := Input{Temperature: -10, FluIntensity: 0, PriorAdmissions: 50, PriorOccupancy: 0, Weekday: 1, Month: 1}
	if _, err := Build(in); err != nil {
		t.Errorf("Expected lower bounds to be accepted, got %v", err)
	}

	in = Input{Temperature: 40, FluIntensity: 100, PriorAdmissions: 500, PriorOccupancy: 100, Weekday: 7, Month: 12}
	if _, err := Build(in); err != nil {
		t.Errorf("Expected upper bounds to be accepted, got %v", err)
	}
}

func TestVector(t *testing.T) {
	rec, _ := Build(validInput())

	v1, err := rec.Vector(SchemaV1)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(v1) != 14 {
		t.Errorf("Expected 14 values, got %d", len(v1))
	}
	if v1[7] != 200 {
		t.Errorf("Expected prior admissions at position 7, got %v", v1[7])
	}

	v2, err := rec.Vector(SchemaV2)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(v2) != 15 || v2[8] != 65 {
		t.Errorf("Expected prior occupancy at position 8, got %v", v2)
	}

	_, err = rec.Vector([]string{FieldTemperature, "humidite"})
	var schemaErr *SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("Expected SchemaError, got %v", err)
	}
	if schemaErr.Field != "humidite" || schemaErr.Position != 1 {
		t.Errorf("Unexpected schema error: %+v", schemaErr)
	}
}

func TestISOWeekday(t *testing.T) {
	monday := time.Date(2026, time.October, 12, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 7; i++ {
		if got := ISOWeekday(monday.AddDate(0, 0, i)); got != i+1 {
			t.Errorf("Expected %d, got %d", i+1, got)
		}
	}
}
