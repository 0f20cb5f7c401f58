// Package pipeline runs one forecast: scenario defaults, feature record,
// admission estimate, KPIs and alerts.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/pitie-urgences/forecast/internal/alert"
	"github.com/pitie-urgences/forecast/internal/features"
	"github.com/pitie-urgences/forecast/internal/forecast"
	"github.com/pitie-urgences/forecast/internal/kpi"
	"github.com/pitie-urgences/forecast/internal/model"
	"github.com/pitie-urgences/forecast/internal/scenario"
	apperrors "github.com/pitie-urgences/forecast/internal/shared/errors"
	"github.com/pitie-urgences/forecast/internal/shared/logger"
	"github.com/pitie-urgences/forecast/internal/shared/metrics"
	"github.com/pitie-urgences/forecast/internal/shared/types"
)

// Engine runs forecasts. It is read-only after construction and safe for
// concurrent use.
type Engine struct {
	model      model.Predictor
	modelErr   error
	params     kpi.Params
	thresholds alert.Thresholds
	log        *logger.Logger
	now        func() time.Time
}

// New creates an engine. p may be nil, in which case every run uses the
// heuristic; loadErr is the reason reported by the model status.
func New(p model.Predictor, loadErr error, params kpi.Params, thresholds alert.Thresholds, log *logger.Logger) *Engine {
	if log == nil {
		log = logger.Nop()
	}
	return &Engine{
		model:      p,
		modelErr:   loadErr,
		params:     params,
		thresholds: thresholds,
		log:        log,
		now:        time.Now,
	}
}

// Request is a forecast request. Nil fields take the scenario defaults and a
// nil Date means today.
type Request struct {
	Scenario        string     `json:"scenario"`
	Temperature     *int       `json:"temperature,omitempty"`
	FluIntensity    *int       `json:"flu_intensity,omitempty"`
	PriorAdmissions *int       `json:"prior_admissions,omitempty"`
	PriorOccupancy  *int       `json:"prior_occupancy,omitempty"`
	AvailableNurses *int       `json:"available_nurses,omitempty"`
	MaskStockDays   *int       `json:"mask_stock_days,omitempty"`
	Date            *time.Time `json:"date,omitempty"`
	ForceSimulation bool       `json:"force_simulation"`
}

// Inputs are the effective values after defaults were applied.
type Inputs struct {
	features.Input
	AvailableNurses int       `json:"available_nurses"`
	MaskStockDays   int       `json:"mask_stock_days"`
	Date            time.Time `json:"date"`
}

// Report is the outcome of one run.
type Report struct {
	RunID           types.ID            `json:"run_id"`
	RequestedName   string              `json:"requested_scenario"`
	KnownScenario   bool                `json:"known_scenario"`
	Scenario        scenario.Profile    `json:"scenario"`
	Inputs          Inputs              `json:"inputs"`
	Features        features.Record     `json:"features"`
	Prediction      forecast.Prediction `json:"prediction"`
	KPIs            kpi.Set             `json:"kpis"`
	Alerts          []alert.Alert       `json:"alerts"`
	Critical        bool                `json:"critical"`
	Model           model.Status        `json:"model"`
	ForceSimulation bool                `json:"force_simulation"`
	GeneratedAt     time.Time           `json:"generated_at"`
}

// Run executes the pipeline. Only invalid inputs fail the run; model
// failures are absorbed into the prediction.
func (e *Engine) Run(ctx context.Context, req Request) (*Report, error) {
	start := e.now()
	runID := types.NewID()

	profile, known := scenario.Lookup(req.Scenario)
	if !known {
		profile = scenario.Defaults(req.Scenario)
		e.log.Debug("unknown scenario, using defaults", "requested", req.Scenario, "resolved", profile.Name)
	}

	date := start
	if req.Date != nil {
		date = *req.Date
	}

	in := Inputs{
		Input: features.Input{
			Temperature:     pick(req.Temperature, profile.Temperature),
			FluIntensity:    pick(req.FluIntensity, profile.FluIntensity),
			PriorAdmissions: pick(req.PriorAdmissions, profile.PriorAdmissions),
			PriorOccupancy:  pick(req.PriorOccupancy, profile.PriorOccupancy),
			Weekday:         features.ISOWeekday(date),
			Month:           int(date.Month()),
			Scenario:        string(profile.Name),
		},
		AvailableNurses: pick(req.AvailableNurses, profile.AvailableNurses),
		MaskStockDays:   pick(req.MaskStockDays, profile.MaskStockDays),
		Date:            date,
	}

	rec, err := e.build(in)
	if err != nil {
		return nil, err
	}

	pred := forecast.Predict(ctx, e.model, rec, req.ForceSimulation)
	if pred.Err != nil {
		metrics.RecordPredictionFailure()
		e.log.Warn("model prediction failed, using default",
			"run_id", runID.String(),
			"scenario", profile.Name,
			"default", pred.Value,
			"error", pred.Err,
		)
	}

	kpis := kpi.Compute(pred.Value, e.params)
	alerts := alert.Generate(kpis, in.MaskStockDays, in.AvailableNurses, e.thresholds)
	for _, a := range alerts {
		metrics.RecordAlert(string(a.Severity), string(a.Kind))
	}

	metrics.RecordForecast(string(pred.Source), string(profile.Name), pred.Value, time.Since(start))

	return &Report{
		RunID:           runID,
		RequestedName:   req.Scenario,
		KnownScenario:   known,
		Scenario:        profile,
		Inputs:          in,
		Features:        rec,
		Prediction:      pred,
		KPIs:            kpis,
		Alerts:          alerts,
		Critical:        alert.HasCritical(alerts),
		Model:           e.ModelStatus(),
		ForceSimulation: req.ForceSimulation,
		GeneratedAt:     e.now(),
	}, nil
}

// build validates every input, including the staffing and supply values that
// do not enter the feature record, and reports all violations together.
func (e *Engine) build(in Inputs) (features.Record, error) {
	details := make(map[string]string)
	if !scenario.AvailableNursesRange.Contains(in.AvailableNurses) {
		details["available_nurses"] = outside(in.AvailableNurses, scenario.AvailableNursesRange)
	}
	if !scenario.MaskStockDaysRange.Contains(in.MaskStockDays) {
		details["mask_stock_days"] = outside(in.MaskStockDays, scenario.MaskStockDaysRange)
	}

	rec, err := features.BuildAt(in.Input, in.Date)
	if err != nil {
		var appErr *apperrors.AppError
		if !apperrors.As(err, &appErr) || !apperrors.Is(err, apperrors.ErrInvalidInput) {
			return features.Record{}, err
		}
		for k, v := range appErr.Details {
			details[k] = v
		}
	}

	if len(details) > 0 {
		return features.Record{}, apperrors.InvalidInput(details)
	}
	return rec, nil
}

// ModelStatus reports whether a trained model is in use.
func (e *Engine) ModelStatus() model.Status {
	return model.StatusOf(e.model, e.modelErr)
}

func pick(override *int, def int) int {
	if override != nil {
		return *override
	}
	return def
}

func outside(v int, r scenario.Range) string {
	return fmt.Sprintf("%d outside [%d, %d]", v, r.Min, r.Max)
}
