package dataset

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/denisenkom/go-mssqldb" // SQL Server driver
	"github.com/pitie-urgences/forecast/internal/shared/config"
	"github.com/pitie-urgences/forecast/internal/shared/metrics"
)

// HISSource derives the daily emergency admissions from the hospital
// information system's hospitalization table.
type HISSource struct {
	cfg config.HISConfig
	// Since bounds the history read. Zero reads everything.
	Since time.Time
}

func NewHISSource(cfg config.HISConfig) *HISSource {
	return &HISSource{cfg: cfg}
}

func (s *HISSource) Name() string {
	return "his:" + s.cfg.Database
}

func (s *HISSource) Load(ctx context.Context) ([]Record, error) {
	db, err := sql.Open("sqlserver", s.cfg.ConnString())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(2)
	db.SetConnMaxLifetime(time.Hour)

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	since := s.Since
	if since.IsZero() {
		since = time.Date(1900, 1, 1, 0, 0, 0, 0, time.UTC)
	}

	start := time.Now()
	defer func() { metrics.RecordDBQuery("his_daily_admissions", time.Since(start)) }()

	query := fmt.Sprintf(`
		SELECT
			CAST(h.AdmissionDate AS DATE) AS Day,
			COUNT(*) AS Admissions
		FROM %s h
		WHERE h.AdmissionType = @admissionType
		  AND h.AdmissionDate >= @since
		GROUP BY CAST(h.AdmissionDate AS DATE)
		ORDER BY Day ASC
	`, s.cfg.HospitalizationTable)

	rows, err := db.QueryContext(ctx, query,
		sql.Named("admissionType", "emergency"),
		sql.Named("since", since),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query hospitalizations: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.Date, &r.Admissions); err != nil {
			return nil, fmt.Errorf("failed to scan hospitalizations: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}
