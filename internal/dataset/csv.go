package dataset

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

// Column names of the exported history file.
const (
	ColumnDate       = "date"
	ColumnAdmissions = "admissions_urgences"
	ColumnScenario   = "scenario"
)

var dateLayouts = []string{"02/01/2006", "2006-01-02"}

// CSVSource reads a ';'-separated history file.
type CSVSource struct {
	Path string
}

func NewCSVSource(path string) *CSVSource {
	return &CSVSource{Path: path}
}

func (s *CSVSource) Name() string {
	return "csv:" + s.Path
}

func (s *CSVSource) Load(ctx context.Context) ([]Record, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer f.Close()

	return ParseCSV(ctx, f)
}

// ParseCSV decodes the history from r. Extra columns are ignored.
func ParseCSV(ctx context.Context, r io.Reader) ([]Record, error) {
	reader := csv.NewReader(r)
	reader.Comma = ';'
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))] = i
	}
	dateCol, ok := cols[ColumnDate]
	if !ok {
		return nil, fmt.Errorf("missing %q column", ColumnDate)
	}
	admCol, ok := cols[ColumnAdmissions]
	if !ok {
		return nil, fmt.Errorf("missing %q column", ColumnAdmissions)
	}
	scenarioCol, hasScenario := cols[ColumnScenario]

	var records []Record
	line := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if line%1000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		if dateCol >= len(row) || admCol >= len(row) {
			return nil, fmt.Errorf("line %d: expected at least %d fields, got %d", line, max(dateCol, admCol)+1, len(row))
		}

		date, err := parseDate(row[dateCol])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		admissions, err := strconv.Atoi(strings.TrimSpace(row[admCol]))
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid admissions %q", line, row[admCol])
		}

		rec := Record{Date: date, Admissions: admissions}
		if hasScenario && scenarioCol < len(row) {
			rec.Scenario = strings.TrimSpace(row[scenarioCol])
		}
		records = append(records, rec)
	}

	return records, nil
}

func parseDate(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", v)
}
