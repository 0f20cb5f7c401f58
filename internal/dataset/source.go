package dataset

import (
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pitie-urgences/forecast/internal/shared/config"
)

// NewSource builds the source selected by cfg. The pool is only needed for
// the postgres source.
func NewSource(cfg *config.Config, pool *pgxpool.Pool) (Source, error) {
	switch cfg.Dataset.Source {
	case "csv", "":
		return NewCSVSource(cfg.Dataset.Path), nil
	case "postgres":
		if pool == nil {
			return nil, fmt.Errorf("postgres dataset source requires a database connection")
		}
		return NewPostgresSource(pool, cfg.Dataset.Table), nil
	case "his":
		return NewHISSource(cfg.HIS), nil
	default:
		return nil, fmt.Errorf("unknown dataset source %q", cfg.Dataset.Source)
	}
}
