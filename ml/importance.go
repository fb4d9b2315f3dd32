package ml

// FeatureImportance is one entry of the success-factor report.
type FeatureImportance struct {
	Feature    string  `json:"feature"`
	Importance float64 `json:"importance"`
}

var featureNames = [3]string{"industry", "city", "funding_amount_inr"}

// fallbackImportances is reported whenever the model cannot provide
// importances of the right arity.
var fallbackImportances = [3]float64{0.33, 0.33, 0.34}

// Importances reports per-feature importances for the fixed three-feature
// set. Models without the capability, or with a dimension mismatch, degrade
// to the fixed fallback. It never fails.
func Importances(m Model) []FeatureImportance {
	values := fallbackImportances[:]
	if m != nil {
		if reporter, ok := m.(ImportanceReporter); ok {
			if v := reporter.FeatureImportances(); len(v) == len(featureNames) {
				values = v
			}
		}
	}

	out := make([]FeatureImportance, len(featureNames))
	for i, name := range featureNames {
		out[i] = FeatureImportance{Feature: name, Importance: values[i]}
	}
	return out
}
