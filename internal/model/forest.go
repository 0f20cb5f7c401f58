package model

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/pitie-urgences/forecast/internal/features"
)

// Node is one node of a regression tree. A leaf has Left == -1 and carries Value.
type Node struct {
	Feature   int     `json:"feature"`
	Threshold float64 `json:"threshold"`
	Left      int     `json:"left"`
	Right     int     `json:"right"`
	Value     float64 `json:"value"`
}

// Tree is a flat array of nodes rooted at index 0.
type Tree struct {
	Nodes []Node `json:"nodes"`
}

// Forest is a random forest regressor: the prediction is the mean of the trees.
type Forest struct {
	Name     string   `json:"name"`
	Features []string `json:"features"`
	Trees    []Tree   `json:"trees"`
}

// LoadForest reads and validates a forest artifact.
func LoadForest(path string) (*Forest, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read model artifact: %w", err)
	}
	var f Forest
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("failed to decode model artifact %s: %w", path, err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Validate checks that the feature schema is known and every tree is well formed.
func (f *Forest) Validate() error {
	if len(f.Trees) == 0 {
		return errors.New("model artifact has no trees")
	}
	if len(f.Features) == 0 {
		return errors.New("model artifact has no feature list")
	}
	if _, err := (features.Record{}).Vector(f.Features); err != nil {
		return fmt.Errorf("incompatible feature schema: %w", err)
	}

	for ti, t := range f.Trees {
		if len(t.Nodes) == 0 {
			return fmt.Errorf("tree %d is empty", ti)
		}
		for ni, n := range t.Nodes {
			if n.Left == -1 {
				continue
			}
			if n.Feature < 0 || n.Feature >= len(f.Features) {
				return fmt.Errorf("tree %d node %d: feature index %d out of range", ti, ni, n.Feature)
			}
			// Children must point forward, so traversal always terminates.
			if n.Left <= ni || n.Left >= len(t.Nodes) || n.Right <= ni || n.Right >= len(t.Nodes) {
				return fmt.Errorf("tree %d node %d: invalid children %d/%d", ti, ni, n.Left, n.Right)
			}
		}
	}
	return nil
}

// Predict evaluates every record.
func (f *Forest) Predict(ctx context.Context, records []features.Record) ([]float64, error) {
	out := make([]float64, 0, len(records))
	for _, rec := range records {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		x, err := rec.Vector(f.Features)
		if err != nil {
			return nil, err
		}
		out = append(out, f.predictOne(x))
	}
	return out, nil
}

func (f *Forest) predictOne(x []float64) float64 {
	var sum float64
	for _, t := range f.Trees {
		sum += t.eval(x)
	}
	return sum / float64(len(f.Trees))
}

func (t Tree) eval(x []float64) float64 {
	i := 0
	for {
		n := t.Nodes[i]
		if n.Left == -1 {
			return n.Value
		}
		if x[n.Feature] <= n.Threshold {
			i = n.Left
		} else {
			i = n.Right
		}
	}
}

func (f *Forest) Info() Info {
	return Info{Name: f.Name, Kind: KindFile, Features: f.Features, Trees: len(f.Trees)}
}
