package pipeline

import (
	"context"

	"github.com/pitie-urgences/forecast/internal/alert"
	"github.com/pitie-urgences/forecast/internal/features"
	"github.com/pitie-urgences/forecast/internal/kpi"
	"github.com/pitie-urgences/forecast/internal/model"
	"github.com/pitie-urgences/forecast/internal/shared/config"
	"github.com/pitie-urgences/forecast/internal/shared/logger"
	"github.com/pitie-urgences/forecast/internal/shared/metrics"
)

// Params converts the operations config into KPI ratios and alert thresholds.
func Params(ops config.OperationsConfig) (kpi.Params, alert.Thresholds) {
	return kpi.Params{
			PatientsPerNurse:     ops.KPI.PatientsPerNurse,
			PatientsPerPhysician: ops.KPI.PatientsPerPhysician,
			MasksPerPatient:      ops.KPI.MasksPerPatient,
			BedCapacity:          ops.KPI.BedCapacity,
		}, alert.Thresholds{
			OccupancyCriticalPct: ops.Alerts.OccupancyCriticalPct,
			OccupancyWarningPct:  ops.Alerts.OccupancyWarningPct,
			MaskCriticalDays:     ops.Alerts.MaskCriticalDays,
			MaskWarningDays:      ops.Alerts.MaskWarningDays,
		}
}

// NewFromConfig loads the configured model and builds an engine. A model that
// cannot be loaded is logged and the engine runs on the heuristic alone.
func NewFromConfig(ctx context.Context, cfg *config.Config, log *logger.Logger) *Engine {
	p, err := model.Load(ctx, model.Config{
		Kind:    model.Kind(cfg.Model.Kind),
		Path:    cfg.Model.Path,
		URL:     cfg.Model.URL,
		Timeout: cfg.Model.Timeout,
		Schema:  features.SchemaV2,
	})
	switch {
	case err != nil:
		log.Warn("model unavailable, running in simulation mode", "kind", cfg.Model.Kind, "error", err)
	case p == nil:
		log.Info("no model configured, running in simulation mode")
	default:
		info := p.Info()
		log.Info("model loaded", "name", info.Name, "kind", info.Kind, "features", len(info.Features))
	}
	metrics.SetModelLoaded(p != nil)

	params, thresholds := Params(cfg.Operations)
	return New(p, err, params, thresholds, log)
}
