// Package advisor derives human-readable guidance for a candidate startup by
// comparing it against the historical dataset.
package advisor

import (
	"startupml/dataset"
)

const (
	msgMoreFunding     = "Consider raising more funding to reach market competitiveness."
	msgMoreRounds      = "Try securing additional funding rounds for higher investor confidence."
	msgDifferentiation = "This industry has a lower success rate. Improve differentiation or innovation."
	msgEcosystem       = "Consider partnering or expanding to a stronger startup ecosystem."
	msgLooksStrong     = "Your startup looks strong overall! Continue growth strategy."
)

// defaultMedianRounds stands in for the rounds median when the dataset does
// not carry a funding_rounds_count column.
const defaultMedianRounds = 1

// Engine answers recommendation and similarity queries against an immutable
// dataset store, so its output is a pure function of its inputs.
type Engine struct {
	store *dataset.Store
}

func New(store *dataset.Store) *Engine {
	return &Engine{store: store}
}

// Recommend evaluates the four advisory rules independently and returns their
// messages in fixed order. When no rule fires the single positive
// reinforcement message is returned instead.
func (e *Engine) Recommend(industry, city string, amount float64, rounds int) []string {
	rec := make([]string, 0, 4)

	if amount < e.store.MedianFunding() {
		rec = append(rec, msgMoreFunding)
	}

	medianRounds, ok := e.store.MedianFundingRounds()
	if !ok {
		medianRounds = defaultMedianRounds
	}
	if float64(rounds) < medianRounds {
		rec = append(rec, msgMoreRounds)
	}

	if e.store.IndustrySuccessRate(industry) < 0.5 {
		rec = append(rec, msgDifferentiation)
	}
	if e.store.CitySuccessRate(city) < 0.5 {
		rec = append(rec, msgEcosystem)
	}

	if len(rec) == 0 {
		rec = append(rec, msgLooksStrong)
	}
	return rec
}
