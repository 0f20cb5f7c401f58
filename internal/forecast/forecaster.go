// Package forecast produces the next-day emergency admission estimate, from a
// trained model when one is available and from an analytic heuristic otherwise.
package forecast

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/pitie-urgences/forecast/internal/features"
	apperrors "github.com/pitie-urgences/forecast/internal/shared/errors"
)

// Source tells where a prediction value came from.
type Source string

const (
	SourceModel    Source = "model"
	SourceFallback Source = "fallback"
	// SourceDefault marks the safe default substituted after a model failure.
	SourceDefault Source = "default"
)

// DefaultPrediction is returned when the model fails.
const DefaultPrediction = 200

// MaxModelOutput bounds a usable model prediction. Larger values are treated
// as malformed output.
const MaxModelOutput = math.MaxInt32

// Model is the capability the forecaster needs from a trained model.
type Model interface {
	Predict(ctx context.Context, records []features.Record) ([]float64, error)
}

// Prediction is the forecast result. Degraded is set when a model failure was
// recovered; Err then carries the PredictionFailure.
type Prediction struct {
	Value    int    `json:"value"`
	Source   Source `json:"source"`
	Degraded bool   `json:"degraded"`
	Warning  string `json:"warning,omitempty"`
	Err      error  `json:"-"`
}

// Predict returns the admission estimate for rec. It never fails: with
// forceSimulation set or no model it uses Fallback, and any model error is
// converted into the DefaultPrediction with Degraded set.
func Predict(ctx context.Context, m Model, rec features.Record, forceSimulation bool) Prediction {
	if forceSimulation || m == nil {
		return Prediction{Value: Fallback(rec), Source: SourceFallback}
	}

	value, err := predictWithModel(ctx, m, rec)
	if err != nil {
		failure := apperrors.PredictionFailure(err)
		return Prediction{
			Value:    DefaultPrediction,
			Source:   SourceDefault,
			Degraded: true,
			Warning:  fmt.Sprintf("Erreur de prédiction du modèle, valeur par défaut utilisée (%d): %v", DefaultPrediction, err),
			Err:      failure,
		}
	}

	return Prediction{Value: value, Source: SourceModel}
}

func predictWithModel(ctx context.Context, m Model, rec features.Record) (value int, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("model panicked: %v", r)
		}
	}()

	results, err := m.Predict(ctx, []features.Record{rec})
	if err != nil {
		return 0, err
	}
	if len(results) == 0 {
		return 0, errors.New("model returned no prediction")
	}

	raw := results[0]
	if math.IsNaN(raw) || math.IsInf(raw, 0) {
		return 0, fmt.Errorf("model returned non-finite prediction %v", raw)
	}
	if raw > MaxModelOutput {
		return 0, fmt.Errorf("model returned implausible prediction %g", raw)
	}

	// Model output is trusted down to zero, unlike the heuristic's floor.
	return int(math.Trunc(math.Max(raw, 0))), nil
}
