package consensus

import (
	"math"
	"testing"

	"github.com/wonny/consensus/internal/contracts"
)

func result(method string, fairValue float64) contracts.StrategyResult {
	return contracts.StrategyResult{Method: method, FairValue: fairValue}
}

func TestAggregateRenormalizesWeights(t *testing.T) {
	// Buffett (0.20) and Lynch (0.15) contribute → shares 4/7 and 3/7
	results := []contracts.StrategyResult{
		result(contracts.MethodBuffett, 70000),
		result(contracts.MethodLynch, 56000),
		result(contracts.MethodFisher, 0), // qualitative, dropped
	}

	con := Aggregate(results, 50000)
	if con == nil {
		t.Fatal("Aggregate() = nil, want consensus")
	}

	want := 70000*(0.20/0.35) + 56000*(0.15/0.35)
	if math.Abs(con.WeightedAverage-want) > 1e-6 {
		t.Errorf("WeightedAverage = %v, want %v", con.WeightedAverage, want)
	}

	if len(con.Contributors) != 2 {
		t.Fatalf("Contributors = %v, want 2", con.Contributors)
	}
	if con.Contributors[0] != contracts.MethodBuffett || con.Contributors[1] != contracts.MethodLynch {
		t.Errorf("Contributors = %v, want input order preserved", con.Contributors)
	}

	if con.Conservative != 56000 || con.Optimistic != 70000 {
		t.Errorf("bounds = %v/%v, want 56000/70000", con.Conservative, con.Optimistic)
	}
	if want := (56000.0 + 70000.0) / 2; con.Median != want {
		t.Errorf("Median = %v, want %v", con.Median, want)
	}

	// Upside: (63000−50000... against each statistic
	if math.Abs(con.UpsideConservative-12) > 1e-6 {
		t.Errorf("UpsideConservative = %v, want 12", con.UpsideConservative)
	}
	if math.Abs(con.UpsideOptimistic-40) > 1e-6 {
		t.Errorf("UpsideOptimistic = %v, want 40", con.UpsideOptimistic)
	}
}

func TestAggregateOddCountMedian(t *testing.T) {
	results := []contracts.StrategyResult{
		result(contracts.MethodBuffett, 60000),
		result(contracts.MethodGraham, 40000),
		result(contracts.MethodTempleton, 90000),
	}

	con := Aggregate(results, 50000)
	if con == nil {
		t.Fatal("Aggregate() = nil")
	}
	if con.Median != 60000 {
		t.Errorf("Median = %v, want 60000", con.Median)
	}
}

func TestAggregateEmptyContributorsIsNil(t *testing.T) {
	tests := []struct {
		name    string
		results []contracts.StrategyResult
	}{
		{"no results", nil},
		{"only qualitative", []contracts.StrategyResult{result(contracts.MethodFisher, 0)}},
		{"only unknown method", []contracts.StrategyResult{result("mystery", 10000)}},
	}
	for _, tt := range tests {
		if con := Aggregate(tt.results, 50000); con != nil {
			t.Errorf("%s: Aggregate() = %+v, want nil", tt.name, con)
		}
	}
}

func TestAggregateFisherNeverContributes(t *testing.T) {
	results := []contracts.StrategyResult{
		result(contracts.MethodFisher, 0),
		result(contracts.MethodGraham, 45000),
	}

	con := Aggregate(results, 50000)
	if con == nil {
		t.Fatal("Aggregate() = nil")
	}
	for _, m := range con.Contributors {
		if m == contracts.MethodFisher {
			t.Error("qualitative strategy entered the contributing set")
		}
	}
}

func TestAggregateSingleContributor(t *testing.T) {
	con := Aggregate([]contracts.StrategyResult{result(contracts.MethodGraham, 55000)}, 50000)
	if con == nil {
		t.Fatal("Aggregate() = nil")
	}
	// All statistics collapse onto the single value
	if con.WeightedAverage != 55000 || con.Median != 55000 ||
		con.Conservative != 55000 || con.Optimistic != 55000 {
		t.Errorf("statistics = %+v, want all 55000", con)
	}
	if math.Abs(con.UpsideWeighted-10) > 1e-6 {
		t.Errorf("UpsideWeighted = %v, want 10", con.UpsideWeighted)
	}
}
