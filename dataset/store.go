// Package dataset loads the startup CSV once at startup and answers
// read-only grouping and aggregation queries over it.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
)

// ErrDegenerateQuantiles is returned when the funding amounts do not carry
// enough distinct values to form even a single quantile bucket.
var ErrDegenerateQuantiles = errors.New("not enough distinct funding values for quantile buckets")

// StartupRecord is one row of the historical dataset. Records are immutable
// once loaded; the whole collection may be read concurrently without locking.
type StartupRecord struct {
	Name          string
	Industry      string
	City          string
	FundingAmount float64
	FundingRounds int
	IsSuccess     bool
	Investors     string
}

// GroupCount pairs a group value with its row count.
type GroupCount struct {
	Value string
	Count int
}

// GroupRate pairs a group value with its mean success rate.
type GroupRate struct {
	Value string
	Rate  float64
}

// Store holds the loaded dataset.
type Store struct {
	records   []StartupRecord
	hasRounds bool
}

var requiredColumns = []string{"startup_name", "industry", "city", "funding_amount_inr", "is_success"}

// Load parses the CSV dataset. The header row is mandatory; the
// funding_rounds_count column is optional and its absence is remembered so
// that downstream heuristics can fall back to their defaults.
func Load(r io.Reader) (*Store, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read dataset header: %w", err)
	}

	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(name)] = i
	}
	for _, name := range requiredColumns {
		if _, ok := col[name]; !ok {
			return nil, fmt.Errorf("dataset missing column %q", name)
		}
	}
	roundsIdx, hasRounds := col["funding_rounds_count"]
	investorsIdx, hasInvestors := col["investors"]

	var records []StartupRecord
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read dataset row: %w", err)
		}

		amount, err := strconv.ParseFloat(strings.TrimSpace(row[col["funding_amount_inr"]]), 64)
		if err != nil {
			// Rows with an unparseable funding amount are skipped, the
			// numeric queries all operate on this column.
			continue
		}

		rec := StartupRecord{
			Name:          strings.TrimSpace(row[col["startup_name"]]),
			Industry:      strings.TrimSpace(row[col["industry"]]),
			City:          strings.TrimSpace(row[col["city"]]),
			FundingAmount: amount,
			IsSuccess:     parseBool(row[col["is_success"]]),
		}
		if hasRounds {
			if v, err := strconv.Atoi(strings.TrimSpace(row[roundsIdx])); err == nil {
				rec.FundingRounds = v
			}
		}
		if hasInvestors {
			rec.Investors = strings.TrimSpace(row[investorsIdx])
		}
		records = append(records, rec)
	}

	if len(records) == 0 {
		return nil, errors.New("dataset is empty")
	}

	return &Store{records: records, hasRounds: hasRounds}, nil
}

// LoadFile loads the dataset from a CSV file on disk.
func LoadFile(path string) (*Store, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return Load(file)
}

func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes":
		return true
	default:
		return false
	}
}

// Records returns the full dataset in load order. Callers must not mutate it.
func (s *Store) Records() []StartupRecord {
	return s.records
}

// Len returns the number of loaded records.
func (s *Store) Len() int {
	return len(s.records)
}

// HasFundingRounds reports whether the funding_rounds_count column was present.
func (s *Store) HasFundingRounds() bool {
	return s.hasRounds
}

// DistinctIndustries returns the sorted set of non-empty industry values.
func (s *Store) DistinctIndustries() []string {
	return s.distinct(func(r StartupRecord) string { return r.Industry })
}

// DistinctCities returns the sorted set of non-empty city values.
func (s *Store) DistinctCities() []string {
	return s.distinct(func(r StartupRecord) string { return r.City })
}

func (s *Store) distinct(field func(StartupRecord) string) []string {
	seen := make(map[string]bool)
	values := make([]string, 0)
	for _, rec := range s.records {
		v := field(rec)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		values = append(values, v)
	}
	sort.Strings(values)
	return values
}

// MedianFunding returns the median funding amount across the dataset.
func (s *Store) MedianFunding() float64 {
	values := make([]float64, len(s.records))
	for i, rec := range s.records {
		values[i] = rec.FundingAmount
	}
	return median(values)
}

// MedianFundingRounds returns the median funding round count. The boolean is
// false when the column was absent from the source file.
func (s *Store) MedianFundingRounds() (float64, bool) {
	if !s.hasRounds {
		return 0, false
	}
	values := make([]float64, len(s.records))
	for i, rec := range s.records {
		values[i] = float64(rec.FundingRounds)
	}
	return median(values), true
}

func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

// IndustrySuccessRate returns the mean success of the given industry, 0 when
// the industry does not appear in the dataset.
func (s *Store) IndustrySuccessRate(industry string) float64 {
	return s.groupRate(industry, func(r StartupRecord) string { return r.Industry })
}

// CitySuccessRate returns the mean success of the given city, 0 when absent.
func (s *Store) CitySuccessRate(city string) float64 {
	return s.groupRate(city, func(r StartupRecord) string { return r.City })
}

func (s *Store) groupRate(value string, field func(StartupRecord) string) float64 {
	total := 0
	successes := 0
	for _, rec := range s.records {
		if field(rec) != value {
			continue
		}
		total++
		if rec.IsSuccess {
			successes++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(successes) / float64(total)
}

// TopIndustries returns the n most frequent industries, count descending.
func (s *Store) TopIndustries(n int) []GroupCount {
	return s.topGroups(n, func(r StartupRecord) string { return r.Industry })
}

// TopCities returns the n most frequent cities, count descending.
func (s *Store) TopCities(n int) []GroupCount {
	return s.topGroups(n, func(r StartupRecord) string { return r.City })
}

func (s *Store) topGroups(n int, field func(StartupRecord) string) []GroupCount {
	counts := make(map[string]int)
	order := make([]string, 0)
	for _, rec := range s.records {
		v := field(rec)
		if v == "" {
			continue
		}
		if _, ok := counts[v]; !ok {
			order = append(order, v)
		}
		counts[v]++
	}

	groups := make([]GroupCount, 0, len(order))
	for _, v := range order {
		groups = append(groups, GroupCount{Value: v, Count: counts[v]})
	}
	sort.SliceStable(groups, func(i, j int) bool { return groups[i].Count > groups[j].Count })
	if n > 0 && len(groups) > n {
		groups = groups[:n]
	}
	return groups
}

// IndustrySuccessRates returns the mean success per industry in first-seen
// dataset order.
func (s *Store) IndustrySuccessRates() []GroupRate {
	return s.groupRates(func(r StartupRecord) string { return r.Industry })
}

// CitySuccessRates returns the mean success per city in first-seen order.
func (s *Store) CitySuccessRates() []GroupRate {
	return s.groupRates(func(r StartupRecord) string { return r.City })
}

func (s *Store) groupRates(field func(StartupRecord) string) []GroupRate {
	totals := make(map[string]int)
	successes := make(map[string]int)
	order := make([]string, 0)
	for _, rec := range s.records {
		v := field(rec)
		if v == "" {
			continue
		}
		if _, ok := totals[v]; !ok {
			order = append(order, v)
		}
		totals[v]++
		if rec.IsSuccess {
			successes[v]++
		}
	}

	rates := make([]GroupRate, 0, len(order))
	for _, v := range order {
		rates = append(rates, GroupRate{Value: v, Rate: float64(successes[v]) / float64(totals[v])})
	}
	return rates
}

// FundingAmounts returns every funding amount in dataset order.
func (s *Store) FundingAmounts() []float64 {
	values := make([]float64, len(s.records))
	for i, rec := range s.records {
		values[i] = rec.FundingAmount
	}
	return values
}

// FundingQuantiles returns q+1 bucket edges over the funding amounts using
// linear interpolation between order statistics. Duplicate edges collapse, so
// fewer buckets than requested are possible; fewer than two distinct edges is
// reported as ErrDegenerateQuantiles.
func (s *Store) FundingQuantiles(q int) ([]float64, error) {
	if q < 1 {
		return nil, fmt.Errorf("quantile count must be positive, got %d", q)
	}
	sorted := append([]float64(nil), s.FundingAmounts()...)
	sort.Float64s(sorted)

	edges := make([]float64, 0, q+1)
	for i := 0; i <= q; i++ {
		p := float64(i) / float64(q)
		edge := quantile(sorted, p)
		if len(edges) > 0 && edge == edges[len(edges)-1] {
			continue
		}
		edges = append(edges, edge)
	}
	if len(edges) < 2 {
		return nil, ErrDegenerateQuantiles
	}
	return edges, nil
}

func quantile(sorted []float64, p float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}
	pos := p * float64(len(sorted)-1)
	lo := int(pos)
	if lo >= len(sorted)-1 {
		return sorted[len(sorted)-1]
	}
	frac := pos - float64(lo)
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}
