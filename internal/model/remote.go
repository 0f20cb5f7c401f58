package model

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/pitie-urgences/forecast/internal/features"
)

// Remote calls an HTTP inference service.
type Remote struct {
	url    string
	schema []string
	client *http.Client
}

type predictRequest struct {
	Instances []map[string]float64 `json:"instances"`
}

type predictResponse struct {
	Predictions []float64 `json:"predictions"`
	Model       string    `json:"model,omitempty"`
}

// NewRemote creates a client for the service at rawURL. Records are sent as
// name/value objects restricted to schema.
func NewRemote(rawURL string, schema []string, timeout time.Duration) (*Remote, error) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid model URL %q", rawURL)
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if _, err := (features.Record{}).Vector(schema); err != nil {
		return nil, fmt.Errorf("incompatible feature schema: %w", err)
	}
	return &Remote{
		url:    rawURL,
		schema: schema,
		client: &http.Client{Timeout: timeout},
	}, nil
}

// Predict sends the records in one request.
func (r *Remote) Predict(ctx context.Context, records []features.Record) ([]float64, error) {
	body := predictRequest{Instances: make([]map[string]float64, 0, len(records))}
	for _, rec := range records {
		all := rec.Map()
		inst := make(map[string]float64, len(r.schema))
		for _, name := range r.schema {
			inst[name] = all[name]
		}
		body.Instances = append(body.Instances, inst)
	}

	var resp predictResponse
	if err := r.post(ctx, body, &resp); err != nil {
		return nil, err
	}
	if len(resp.Predictions) != len(records) {
		return nil, errLength(len(resp.Predictions), len(records))
	}
	return resp.Predictions, nil
}

// Ping sends an empty batch to check the service answers.
func (r *Remote) Ping(ctx context.Context) error {
	var resp predictResponse
	return r.post(ctx, predictRequest{Instances: []map[string]float64{}}, &resp)
}

func (r *Remote) post(ctx context.Context, body predictRequest, out *predictResponse) error {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("error marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(jsonBody))
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("error sending request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("error decoding response: %w", err)
	}
	if out.Predictions == nil {
		return errors.New("response has no predictions field")
	}
	return nil
}

func (r *Remote) Info() Info {
	return Info{Name: "remote", Kind: KindRemote, Features: r.schema, URL: r.url}
}
