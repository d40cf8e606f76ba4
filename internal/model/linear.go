// Package model wraps the pre-fitted regression artifact behind the
// predict contract. The artifact is loaded once at startup and is
// read-only afterwards, so a single instance is safe for concurrent
// inference across requests.
package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"gonum.org/v1/gonum/floats"
)

// ErrFeatureLength is returned when the input vector length does not
// match what the model was trained on.
var ErrFeatureLength = errors.New("feature vector length mismatch")

// LinearModel is a linear regression fitted offline: one weight per
// feature plus an intercept.
type LinearModel struct {
	weights   []float64
	intercept float64
}

// artifact is the on-disk JSON shape of a fitted model.
type artifact struct {
	Weights   []float64 `json:"weights"`
	Intercept float64   `json:"intercept"`
}

// New builds a model from already-known coefficients.
func New(weights []float64, intercept float64) *LinearModel {
	w := make([]float64, len(weights))
	copy(w, weights)
	return &LinearModel{weights: w, intercept: intercept}
}

// Load reads a fitted model artifact from disk.
func Load(path string) (*LinearModel, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model artifact: %w", err)
	}

	var a artifact
	if err := json.Unmarshal(raw, &a); err != nil {
		return nil, fmt.Errorf("decode model artifact: %w", err)
	}
	if len(a.Weights) == 0 {
		return nil, fmt.Errorf("model artifact %s has no weights", path)
	}

	return New(a.Weights, a.Intercept), nil
}

// Persistence returns a fallback model that predicts tomorrow's minimum
// as the most recent observed minimum (weight 1 at lastMinIndex, zero
// elsewhere). It lets the service boot without an artifact file.
func Persistence(numFeatures, lastMinIndex int) *LinearModel {
	weights := make([]float64, numFeatures)
	weights[lastMinIndex] = 1
	return &LinearModel{weights: weights}
}

// NumFeatures is the exact vector length the model accepts.
func (m *LinearModel) NumFeatures() int {
	return len(m.weights)
}

// Predict returns the dot product of weights and features plus the
// intercept. Inference is deterministic and stateless.
func (m *LinearModel) Predict(features []float64) (float64, error) {
	if len(features) != len(m.weights) {
		return 0, fmt.Errorf("%w: got %d values, want %d",
			ErrFeatureLength, len(features), len(m.weights))
	}
	return floats.Dot(m.weights, features) + m.intercept, nil
}
