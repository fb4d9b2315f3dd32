package advisor

import (
	"math"
	"sort"
	"strings"

	"golang.org/x/text/cases"
)

// SimilarStartup is the projection of a historical record returned to clients.
type SimilarStartup struct {
	Name          string  `json:"startup_name"`
	FundingAmount float64 `json:"funding_amount_inr"`
	IsSuccess     bool    `json:"is_success"`
}

var fold = cases.Fold()

// normalize trims and case-folds a text field for insensitive matching.
func normalize(s string) string {
	return fold.String(strings.TrimSpace(s))
}

// FindSimilar returns up to three historical startups from the same normalized
// industry and city, closest by absolute funding difference. Ties keep dataset
// order; no match yields an empty slice, never an error.
func (e *Engine) FindSimilar(industry, city string, amount float64) []SimilarStartup {
	wantIndustry := normalize(industry)
	wantCity := normalize(city)

	matches := make([]SimilarStartup, 0)
	for _, rec := range e.store.Records() {
		if normalize(rec.Industry) != wantIndustry || normalize(rec.City) != wantCity {
			continue
		}
		matches = append(matches, SimilarStartup{
			Name:          rec.Name,
			FundingAmount: rec.FundingAmount,
			IsSuccess:     rec.IsSuccess,
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return math.Abs(matches[i].FundingAmount-amount) < math.Abs(matches[j].FundingAmount-amount)
	})

	if len(matches) > 3 {
		matches = matches[:3]
	}
	return matches
}
