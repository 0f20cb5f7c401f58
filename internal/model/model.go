// Package model provides the trained admission model, either as a tree
// ensemble artifact evaluated in-process or as a remote inference service.
package model

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pitie-urgences/forecast/internal/features"
	apperrors "github.com/pitie-urgences/forecast/internal/shared/errors"
)

// Kind identifies how the model is provided.
type Kind string

const (
	KindFile   Kind = "file"
	KindRemote Kind = "remote"
	KindNone   Kind = "none"
)

// Predictor is a loaded model. Implementations are safe for concurrent use.
type Predictor interface {
	Predict(ctx context.Context, records []features.Record) ([]float64, error)
	Info() Info
}

// Info describes a loaded model.
type Info struct {
	Name     string   `json:"name"`
	Kind     Kind     `json:"kind"`
	Features []string `json:"features"`
	Trees    int      `json:"trees,omitempty"`
	URL      string   `json:"url,omitempty"`
}

// Config selects and locates the model.
type Config struct {
	Kind    Kind
	Path    string
	URL     string
	Timeout time.Duration
	// Schema is the feature order sent to a remote service. Defaults to SchemaV2.
	Schema []string
}

// Load opens the configured model. Kind none returns a nil Predictor and no
// error. Any other failure is a ModelUnavailable error; callers are expected
// to continue in fallback-only mode.
func Load(ctx context.Context, cfg Config) (Predictor, error) {
	switch cfg.Kind {
	case KindNone, "":
		return nil, nil
	case KindFile:
		f, err := LoadForest(cfg.Path)
		if err != nil {
			return nil, apperrors.ModelUnavailable(string(cfg.Kind), err)
		}
		return f, nil
	case KindRemote:
		schema := cfg.Schema
		if len(schema) == 0 {
			schema = features.SchemaV2
		}
		r, err := NewRemote(cfg.URL, schema, cfg.Timeout)
		if err != nil {
			return nil, apperrors.ModelUnavailable(string(cfg.Kind), err)
		}
		if err := r.Ping(ctx); err != nil {
			return nil, apperrors.ModelUnavailable(string(cfg.Kind), err)
		}
		return r, nil
	default:
		return nil, apperrors.ModelUnavailable(string(cfg.Kind), errors.New("unknown model kind"))
	}
}

// Status is the model state reported by the API.
type Status struct {
	Loaded bool   `json:"loaded"`
	Info   *Info  `json:"info,omitempty"`
	Error  string `json:"error,omitempty"`
}

// StatusOf reports the state of p, with loadErr as the reason it is absent.
func StatusOf(p Predictor, loadErr error) Status {
	if p == nil {
		s := Status{Loaded: false}
		if loadErr != nil {
			s.Error = loadErr.Error()
		}
		return s
	}
	info := p.Info()
	return Status{Loaded: true, Info: &info}
}

func errLength(got, want int) error {
	return fmt.Errorf("model returned %d predictions for %d records", got, want)
}
