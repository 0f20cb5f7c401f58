package dataset

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pitie-urgences/forecast/internal/shared/config"
	apperrors "github.com/pitie-urgences/forecast/internal/shared/errors"
)

const sampleCSV = `date;admissions_urgences;temperature;scenario
01/01/2024;260;2;Hiver
02/01/2024;240;3;Hiver
03/01/2024;200;8;Normal
`

func TestParseCSV(t *testing.T) {
	records, err := ParseCSV(context.Background(), strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(records) != 3 {
		t.Fatalf("Expected 3 records, got %d", len(records))
	}

	first := records[0]
	if !first.Date.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Expected 2024-01-01, got %v", first.Date)
	}
	if first.Admissions != 260 {
		t.Errorf("Expected 260 admissions, got %d", first.Admissions)
	}
	if first.Scenario != "Hiver" {
		t.Errorf("Expected scenario Hiver, got %q", first.Scenario)
	}

	// Day comes before month
	if records[1].Date.Month() != time.January || records[1].Date.Day() != 2 {
		t.Errorf("Expected 2 January, got %v", records[1].Date)
	}
}

func TestParseCSVErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"Empty", ""},
		{"Missing admissions column", "date;temperature\n01/01/2024;3\n"},
		{"Bad date", "date;admissions_urgences\n2024/13/45;200\n"},
		{"Bad admissions", "date;admissions_urgences\n01/01/2024;beaucoup\n"},
		{"Short row", "temperature;date;admissions_urgences\n3;01/01/2024\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseCSV(context.Background(), strings.NewReader(tt.input)); err == nil {
				t.Error("Expected error but got none")
			}
		})
	}
}

func TestParseCSVISODatesWithoutScenario(t *testing.T) {
	records, err := ParseCSV(context.Background(), strings.NewReader("admissions_urgences;date\n180;2023-06-15\n"))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if records[0].Scenario != "" {
		t.Errorf("Expected empty scenario, got %q", records[0].Scenario)
	}
	if records[0].Date.Month() != time.June {
		t.Errorf("Expected June, got %v", records[0].Date.Month())
	}
}

func TestLoadCSVFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.csv")
	if err := os.WriteFile(path, []byte(sampleCSV), 0o600); err != nil {
		t.Fatalf("Failed to write dataset: %v", err)
	}

	d, err := Load(context.Background(), NewCSVSource(path))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	s := d.Summary()
	if s.Rows != 3 {
		t.Errorf("Expected 3 rows, got %d", s.Rows)
	}
	if s.LastAdmissions != 200 {
		t.Errorf("Expected last admissions 200, got %d", s.LastAdmissions)
	}
	if s.MinAdmissions != 200 || s.MaxAdmissions != 260 {
		t.Errorf("Expected min 200 max 260, got %d/%d", s.MinAdmissions, s.MaxAdmissions)
	}
	if s.MeanAdmissions != 700.0/3 {
		t.Errorf("Expected mean %v, got %v", 700.0/3, s.MeanAdmissions)
	}
}

type stubSource struct {
	records []Record
	err     error
}

func (s stubSource) Load(ctx context.Context) ([]Record, error) { return s.records, s.err }
func (s stubSource) Name() string                               { return "stub" }

func TestLoadSortsByDate(t *testing.T) {
	d1 := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	d2 := d1.AddDate(0, 0, 1)

	d, err := Load(context.Background(), stubSource{records: []Record{
		{Date: d2, Admissions: 210},
		{Date: d1, Admissions: 190},
	}})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	last, ok := d.Last()
	if !ok || last.Admissions != 210 {
		t.Errorf("Expected last record 210, got %+v", last)
	}
	if !d.Summary().FirstDate.Equal(d1) {
		t.Errorf("Expected first date %v, got %v", d1, d.Summary().FirstDate)
	}
}

func TestLoadDataUnavailable(t *testing.T) {
	tests := []struct {
		name string
		src  Source
	}{
		{"Read error", stubSource{err: errors.New("disk")}},
		{"Empty", stubSource{}},
		{"Missing file", NewCSVSource(filepath.Join(t.TempDir(), "absent.csv"))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(context.Background(), tt.src)
			if !apperrors.Is(err, apperrors.ErrDataUnavailable) {
				t.Errorf("Expected ErrDataUnavailable, got %v", err)
			}
		})
	}
}

func TestNewSource(t *testing.T) {
	cfg := &config.Config{Dataset: config.DatasetConfig{Source: "csv", Path: "h.csv"}}
	src, err := NewSource(cfg, nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if src.Name() != "csv:h.csv" {
		t.Errorf("Expected csv:h.csv, got %s", src.Name())
	}

	cfg.Dataset.Source = "postgres"
	if _, err := NewSource(cfg, nil); err == nil {
		t.Error("Expected error for postgres without pool")
	}

	cfg.Dataset.Source = "his"
	cfg.HIS.Database = "HIS"
	src, err = NewSource(cfg, nil)
	if err != nil || src.Name() != "his:HIS" {
		t.Errorf("Expected his source, got %v, %v", src, err)
	}

	cfg.Dataset.Source = "parquet"
	if _, err := NewSource(cfg, nil); err == nil {
		t.Error("Expected error for unknown source")
	}
}
