package dataset

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pitie-urgences/forecast/internal/shared/metrics"
)

// PostgresSource reads the history table maintained by the migrations.
type PostgresSource struct {
	pool  *pgxpool.Pool
	table string
}

func NewPostgresSource(pool *pgxpool.Pool, table string) *PostgresSource {
	if table == "" {
		table = "admissions_history"
	}
	return &PostgresSource{pool: pool, table: table}
}

func (s *PostgresSource) Name() string {
	return "postgres:" + s.table
}

func (s *PostgresSource) Load(ctx context.Context) ([]Record, error) {
	start := time.Now()
	defer func() { metrics.RecordDBQuery("dataset_load", time.Since(start)) }()

	query := fmt.Sprintf(`
		SELECT date, admissions_urgences, scenario
		FROM %s
		ORDER BY date ASC
	`, pgx.Identifier{s.table}.Sanitize())

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query admissions history: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.Date, &r.Admissions, &r.Scenario); err != nil {
			return nil, fmt.Errorf("failed to scan admissions history: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}
