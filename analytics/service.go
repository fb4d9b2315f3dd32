// Package analytics computes the dashboard aggregates: top-N groupings,
// quantile-based funding histograms and investor frequency counts.
package analytics

import (
	"fmt"
	"sort"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"startupml/dataset"
)

// topN is the fixed result size of every dashboard query.
const topN = 10

// Distribution is the funding histogram: ascending bucket labels and the
// number of startups falling into each bucket.
type Distribution struct {
	Ranges []string `json:"ranges"`
	Counts []int    `json:"counts"`
}

// Service answers aggregate queries over the immutable dataset. Results are
// memoized in a small LRU, the dataset never changes after load.
type Service struct {
	store *dataset.Store
	cache *lru.Cache[string, any]
}

func New(store *dataset.Store) (*Service, error) {
	cache, err := lru.New[string, any](16)
	if err != nil {
		return nil, err
	}
	return &Service{store: store, cache: cache}, nil
}

// TopIndustryCounts returns the ten most frequent industries, count descending.
func (s *Service) TopIndustryCounts() []dataset.GroupCount {
	return s.cachedCounts("industry_counts", s.store.TopIndustries)
}

// TopCityCounts returns the ten most frequent cities, count descending.
func (s *Service) TopCityCounts() []dataset.GroupCount {
	return s.cachedCounts("city_counts", s.store.TopCities)
}

func (s *Service) cachedCounts(key string, query func(int) []dataset.GroupCount) []dataset.GroupCount {
	if v, ok := s.cache.Get(key); ok {
		return v.([]dataset.GroupCount)
	}
	out := query(topN)
	s.cache.Add(key, out)
	return out
}

// TopIndustrySuccess returns the ten industries with the highest mean success
// rate, descending. Ties keep first-seen dataset order.
func (s *Service) TopIndustrySuccess() []dataset.GroupRate {
	return s.cachedRates("industry_success", s.store.IndustrySuccessRates)
}

// TopCitySuccess returns the ten cities with the highest mean success rate.
func (s *Service) TopCitySuccess() []dataset.GroupRate {
	return s.cachedRates("city_success", s.store.CitySuccessRates)
}

func (s *Service) cachedRates(key string, query func() []dataset.GroupRate) []dataset.GroupRate {
	if v, ok := s.cache.Get(key); ok {
		return v.([]dataset.GroupRate)
	}
	rates := query()
	sort.SliceStable(rates, func(i, j int) bool { return rates[i].Rate > rates[j].Rate })
	if len(rates) > topN {
		rates = rates[:topN]
	}
	s.cache.Add(key, rates)
	return rates
}

// FundingDistribution partitions funding amounts into up to ten
// equal-frequency buckets. Boundary collapse may yield fewer buckets; a
// dataset too degenerate to bucket at all surfaces as an error.
func (s *Service) FundingDistribution() (Distribution, error) {
	if v, ok := s.cache.Get("funding_distribution"); ok {
		return v.(Distribution), nil
	}

	edges, err := s.store.FundingQuantiles(topN)
	if err != nil {
		return Distribution{}, err
	}

	values := s.store.FundingAmounts()
	dist := Distribution{
		Ranges: make([]string, 0, len(edges)-1),
		Counts: make([]int, 0, len(edges)-1),
	}
	for i := 1; i < len(edges); i++ {
		lo, hi := edges[i-1], edges[i]
		count := 0
		for _, v := range values {
			// The first bucket is closed on the left so the minimum is
			// not dropped.
			if (v > lo || (i == 1 && v >= lo)) && v <= hi {
				count++
			}
		}
		dist.Ranges = append(dist.Ranges, fmt.Sprintf("(%.2f, %.2f]", lo, hi))
		dist.Counts = append(dist.Counts, count)
	}

	s.cache.Add("funding_distribution", dist)
	return dist, nil
}

// TopInvestors splits the comma-delimited investor column, trims each token
// and returns the ten most frequent investors across all rows.
func (s *Service) TopInvestors() []dataset.GroupCount {
	if v, ok := s.cache.Get("top_investors"); ok {
		return v.([]dataset.GroupCount)
	}

	counts := make(map[string]int)
	order := make([]string, 0)
	for _, rec := range s.store.Records() {
		if rec.Investors == "" {
			continue
		}
		for _, token := range strings.Split(rec.Investors, ",") {
			name := strings.TrimSpace(token)
			if name == "" {
				continue
			}
			if _, ok := counts[name]; !ok {
				order = append(order, name)
			}
			counts[name]++
		}
	}

	investors := make([]dataset.GroupCount, 0, len(order))
	for _, name := range order {
		investors = append(investors, dataset.GroupCount{Value: name, Count: counts[name]})
	}
	sort.SliceStable(investors, func(i, j int) bool { return investors[i].Count > investors[j].Count })
	if len(investors) > topN {
		investors = investors[:topN]
	}

	s.cache.Add("top_investors", investors)
	return investors
}
