// Package dataset loads the historical daily admissions used by the dashboard.
package dataset

import (
	"context"
	"errors"
	"sort"
	"time"

	apperrors "github.com/pitie-urgences/forecast/internal/shared/errors"
)

// Record is one day of history.
type Record struct {
	Date       time.Time `json:"date"`
	Admissions int       `json:"admissions_urgences"`
	Scenario   string    `json:"scenario,omitempty"`
}

// Source reads the full history.
type Source interface {
	Load(ctx context.Context) ([]Record, error)
	Name() string
}

// Dataset is the loaded history, sorted by date.
type Dataset struct {
	Records []Record
	Source  string
}

// Load reads src. A read error or an empty history is a DataUnavailable error.
func Load(ctx context.Context, src Source) (*Dataset, error) {
	records, err := src.Load(ctx)
	if err != nil {
		return nil, apperrors.DataUnavailable(src.Name(), err)
	}
	if len(records) == 0 {
		return nil, apperrors.DataUnavailable(src.Name(), errors.New("no rows"))
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Date.Before(records[j].Date)
	})
	return &Dataset{Records: records, Source: src.Name()}, nil
}

// Summary describes the loaded history.
type Summary struct {
	Source         string    `json:"source"`
	Rows           int       `json:"rows"`
	FirstDate      time.Time `json:"first_date"`
	LastDate       time.Time `json:"last_date"`
	LastAdmissions int       `json:"last_admissions"`
	MeanAdmissions float64   `json:"mean_admissions"`
	MinAdmissions  int       `json:"min_admissions"`
	MaxAdmissions  int       `json:"max_admissions"`
}

// Summary computes row count, date span and admission statistics.
func (d *Dataset) Summary() Summary {
	s := Summary{Source: d.Source, Rows: len(d.Records)}
	if len(d.Records) == 0 {
		return s
	}

	first := d.Records[0]
	last, _ := d.Last()
	s.FirstDate = first.Date
	s.LastDate = last.Date
	s.LastAdmissions = last.Admissions
	s.MinAdmissions = first.Admissions
	s.MaxAdmissions = first.Admissions

	total := 0
	for _, r := range d.Records {
		total += r.Admissions
		if r.Admissions < s.MinAdmissions {
			s.MinAdmissions = r.Admissions
		}
		if r.Admissions > s.MaxAdmissions {
			s.MaxAdmissions = r.Admissions
		}
	}
	s.MeanAdmissions = float64(total) / float64(len(d.Records))
	return s
}

// Last returns the most recent record.
func (d *Dataset) Last() (Record, bool) {
	if len(d.Records) == 0 {
		return Record{}, false
	}
	return d.Records[len(d.Records)-1], true
}
