// Package ml loads the pre-trained startup success model and exposes
// prediction, score derivation and feature-importance reporting.
package ml

import (
	"errors"
	"math"
)

// ErrUnknownCategory reports an industry or city value the model's encoder
// was not trained on. It surfaces to clients as a validation error.
var ErrUnknownCategory = errors.New("unknown category value")

// Input carries the three model features.
type Input struct {
	Industry      string
	City          string
	FundingAmount float64
}

// Model is the pre-trained classifier. Implementations return the success
// probability in [0, 1].
type Model interface {
	PredictSuccessProbability(in Input) (float64, error)
}

// ImportanceReporter is implemented by models that expose per-feature
// importances.
type ImportanceReporter interface {
	FeatureImportances() []float64
}

// Label derives the predicted class from a probability: 1 iff p >= 0.50.
func Label(p float64) int {
	if p >= 0.5 {
		return 1
	}
	return 0
}

// Score scales a probability to the 0-100 success score.
func Score(p float64) int {
	return int(math.Round(p * 100))
}
