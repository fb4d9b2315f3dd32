package analytics

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"startupml/dataset"
)

func newService(t *testing.T, csv string) *Service {
	t.Helper()
	store, err := dataset.Load(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("load dataset: %v", err)
	}
	svc, err := New(store)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func manyRowsCSV() string {
	var b strings.Builder
	b.WriteString("startup_name,industry,city,funding_amount_inr,is_success,investors\n")
	for i := 0; i < 30; i++ {
		industry := fmt.Sprintf("Industry%d", i%12)
		success := 0
		if i%3 == 0 {
			success = 1
		}
		fmt.Fprintf(&b, "S%d,%s,City%d,%d,%d,\"Inv%d, InvCommon\"\n", i, industry, i%12, (i+1)*100000, success, i%12)
	}
	return b.String()
}

func TestTopCountsCappedAndSorted(t *testing.T) {
	svc := newService(t, manyRowsCSV())

	counts := svc.TopIndustryCounts()
	if len(counts) != 10 {
		t.Fatalf("expected 10 groups, got %d", len(counts))
	}
	for i := 1; i < len(counts); i++ {
		if counts[i].Count > counts[i-1].Count {
			t.Fatalf("counts not descending at %d: %+v", i, counts)
		}
	}
}

func TestTopSuccessRatesSorted(t *testing.T) {
	svc := newService(t, manyRowsCSV())

	rates := svc.TopCitySuccess()
	if len(rates) > 10 {
		t.Fatalf("expected at most 10 groups, got %d", len(rates))
	}
	for i := 1; i < len(rates); i++ {
		if rates[i].Rate > rates[i-1].Rate {
			t.Fatalf("rates not descending at %d: %+v", i, rates)
		}
	}
}

func TestFundingDistribution(t *testing.T) {
	svc := newService(t, manyRowsCSV())

	dist, err := svc.FundingDistribution()
	if err != nil {
		t.Fatalf("distribution: %v", err)
	}
	if len(dist.Ranges) == 0 || len(dist.Ranges) > 10 {
		t.Fatalf("unexpected bucket count: %d", len(dist.Ranges))
	}
	if len(dist.Ranges) != len(dist.Counts) {
		t.Fatalf("ranges and counts length mismatch: %d vs %d", len(dist.Ranges), len(dist.Counts))
	}

	total := 0
	for _, c := range dist.Counts {
		total += c
	}
	if total != 30 {
		t.Fatalf("buckets cover %d rows, want 30", total)
	}
}

func TestFundingDistributionDegenerate(t *testing.T) {
	csv := `startup_name,industry,city,funding_amount_inr,is_success,investors
A,FinTech,Pune,1000,1,
B,FinTech,Pune,1000,0,
`
	svc := newService(t, csv)

	_, err := svc.FundingDistribution()
	if !errors.Is(err, dataset.ErrDegenerateQuantiles) {
		t.Fatalf("expected degenerate quantiles error, got %v", err)
	}
}

func TestTopInvestors(t *testing.T) {
	csv := `startup_name,industry,city,funding_amount_inr,is_success,investors
A,FinTech,Pune,1000,1,"Sequoia, Accel"
B,EdTech,Delhi,2000,0," Accel ,Blume"
C,SaaS,Pune,3000,1,"Accel"
`
	svc := newService(t, csv)

	investors := svc.TopInvestors()
	if len(investors) != 3 {
		t.Fatalf("expected 3 investors, got %d", len(investors))
	}
	if investors[0].Value != "Accel" || investors[0].Count != 3 {
		t.Fatalf("unexpected top investor: %+v", investors[0])
	}
}

func TestResultsMemoized(t *testing.T) {
	svc := newService(t, manyRowsCSV())

	first := svc.TopIndustryCounts()
	second := svc.TopIndustryCounts()
	if len(first) != len(second) {
		t.Fatalf("memoized result changed length")
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("memoized result changed at %d", i)
		}
	}
}
