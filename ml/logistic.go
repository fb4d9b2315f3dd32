package ml

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
)

// LogisticModel is a pre-trained logistic classifier over target-encoded
// industry and city plus a standardized funding amount. The artifact is a
// JSON file produced by the training pipeline; training itself is out of
// scope here.
type LogisticModel struct {
	IndustryRates map[string]float64 `json:"industry_rates"`
	CityRates     map[string]float64 `json:"city_rates"`
	FundingMean   float64            `json:"funding_mean"`
	FundingStd    float64            `json:"funding_std"`
	Weights       [3]float64         `json:"weights"`
	Bias          float64            `json:"bias"`
	Importance    []float64          `json:"importances,omitempty"`
}

// Load reads the model artifact from disk.
func (m *LogisticModel) Load(path string) error {
	payload, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var loaded LogisticModel
	if err := json.Unmarshal(payload, &loaded); err != nil {
		return fmt.Errorf("decode model artifact: %w", err)
	}
	if len(loaded.IndustryRates) == 0 || len(loaded.CityRates) == 0 {
		return fmt.Errorf("model artifact %s has empty encoder tables", path)
	}
	*m = loaded
	return nil
}

// PredictSuccessProbability encodes the input and applies the logistic
// function. Category values outside the encoder tables fail with
// ErrUnknownCategory, mirroring a label encoder rejecting unseen classes.
func (m *LogisticModel) PredictSuccessProbability(in Input) (float64, error) {
	industryRate, ok := m.IndustryRates[in.Industry]
	if !ok {
		return 0, fmt.Errorf("%w: industry %q", ErrUnknownCategory, in.Industry)
	}
	cityRate, ok := m.CityRates[in.City]
	if !ok {
		return 0, fmt.Errorf("%w: city %q", ErrUnknownCategory, in.City)
	}

	std := m.FundingStd
	if std == 0 {
		std = 1
	}
	funding := (in.FundingAmount - m.FundingMean) / std

	z := m.Weights[0]*industryRate + m.Weights[1]*cityRate + m.Weights[2]*funding + m.Bias
	return sigmoid(z), nil
}

// FeatureImportances returns the artifact's importances, which may be absent
// or of the wrong arity; callers are expected to check.
func (m *LogisticModel) FeatureImportances() []float64 {
	return m.Importance
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}
