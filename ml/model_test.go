package ml

import (
	"errors"
	"math"
	"testing"
)

func testModel() *LogisticModel {
	return &LogisticModel{
		IndustryRates: map[string]float64{"FinTech": 0.7, "E-Commerce": 0.3},
		CityRates:     map[string]float64{"Bangalore": 0.65, "Delhi": 0.45},
		FundingMean:   50000000,
		FundingStd:    25000000,
		Weights:       [3]float64{2.0, 1.5, 0.8},
		Bias:          -1.9,
	}
}

func TestPredictDeterministicInRange(t *testing.T) {
	model := testModel()

	in := Input{Industry: "FinTech", City: "Bangalore", FundingAmount: 80000000}
	first, err := model.PredictSuccessProbability(in)
	if err != nil {
		t.Fatalf("predict: %v", err)
	}
	if first < 0 || first > 1 {
		t.Fatalf("probability out of range: %v", first)
	}

	second, err := model.PredictSuccessProbability(in)
	if err != nil {
		t.Fatalf("predict: %v", err)
	}
	if first != second {
		t.Fatalf("prediction not deterministic: %v vs %v", first, second)
	}
}

func TestPredictOrdersByStrength(t *testing.T) {
	model := testModel()

	strong, _ := model.PredictSuccessProbability(Input{Industry: "FinTech", City: "Bangalore", FundingAmount: 80000000})
	weak, _ := model.PredictSuccessProbability(Input{Industry: "E-Commerce", City: "Delhi", FundingAmount: 10000000})
	if strong <= weak {
		t.Fatalf("expected stronger profile to score higher: %v <= %v", strong, weak)
	}
}

func TestPredictUnknownCategory(t *testing.T) {
	model := testModel()

	_, err := model.PredictSuccessProbability(Input{Industry: "SpaceTech", City: "Bangalore", FundingAmount: 1})
	if !errors.Is(err, ErrUnknownCategory) {
		t.Fatalf("expected ErrUnknownCategory for industry, got %v", err)
	}

	_, err = model.PredictSuccessProbability(Input{Industry: "FinTech", City: "Gotham", FundingAmount: 1})
	if !errors.Is(err, ErrUnknownCategory) {
		t.Fatalf("expected ErrUnknownCategory for city, got %v", err)
	}
}

func TestLabelAndScore(t *testing.T) {
	cases := []struct {
		prob  float64
		label int
		score int
	}{
		{0.0, 0, 0},
		{0.499, 0, 50},
		{0.5, 1, 50},
		{0.754, 1, 75},
		{0.755, 1, 76},
		{1.0, 1, 100},
	}
	for _, c := range cases {
		if got := Label(c.prob); got != c.label {
			t.Errorf("Label(%v) = %d, want %d", c.prob, got, c.label)
		}
		if got := Score(c.prob); got != c.score {
			t.Errorf("Score(%v) = %d, want %d", c.prob, got, c.score)
		}
	}
}

func TestImportancesFromModel(t *testing.T) {
	model := testModel()
	model.Importance = []float64{0.5, 0.2, 0.3}

	imp := Importances(model)
	if len(imp) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(imp))
	}
	if imp[0].Feature != "industry" || imp[0].Importance != 0.5 {
		t.Fatalf("unexpected first entry: %+v", imp[0])
	}
	if imp[2].Feature != "funding_amount_inr" || imp[2].Importance != 0.3 {
		t.Fatalf("unexpected last entry: %+v", imp[2])
	}
}

func TestImportancesFallback(t *testing.T) {
	for _, model := range []Model{
		nil,
		testModel(), // no importances in the artifact
		func() Model { m := testModel(); m.Importance = []float64{0.5, 0.5}; return m }(), // arity mismatch
	} {
		imp := Importances(model)
		if len(imp) != 3 {
			t.Fatalf("expected 3 entries, got %d", len(imp))
		}
		sum := 0.0
		for _, e := range imp {
			sum += e.Importance
		}
		if math.Abs(sum-1.0) > 1e-9 {
			t.Fatalf("fallback importances sum to %v, want 1.0", sum)
		}
		if imp[2].Importance != 0.34 {
			t.Fatalf("expected fallback 0.34 for funding, got %v", imp[2].Importance)
		}
	}
}

func TestReloadableSwap(t *testing.T) {
	first := testModel()
	wrapped := NewReloadable(first)

	in := Input{Industry: "FinTech", City: "Bangalore", FundingAmount: 80000000}
	before, err := wrapped.PredictSuccessProbability(in)
	if err != nil {
		t.Fatalf("predict: %v", err)
	}

	second := testModel()
	second.Bias = 10 // push the probability toward 1
	wrapped.Swap(second)

	after, err := wrapped.PredictSuccessProbability(in)
	if err != nil {
		t.Fatalf("predict after swap: %v", err)
	}
	if after <= before {
		t.Fatalf("swap not observed: %v <= %v", after, before)
	}
}
