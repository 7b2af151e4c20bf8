package strategy

import (
	"math"
	"testing"

	"github.com/wonny/consensus/internal/contracts"
)

func TestGrahamReferenceScenario(t *testing.T) {
	// EPS 5000, BPS 40000 → Graham Number = sqrt(22.5·5000·40000) ≈ 67,082
	snap := valueSnapshot()
	res := (&Graham{}).Evaluate(snap)

	wantGN := math.Sqrt(22.5 * 5000 * 40000)
	if got := res.Diagnostics["grahamNumber"]; math.Abs(got-wantGN) > 0.01 {
		t.Errorf("grahamNumber = %v, want %v", got, wantGN)
	}
	if wantGN < 67082 || wantGN > 67083 {
		t.Errorf("reference value drifted: %v", wantGN)
	}

	if res.FairValue <= 0 {
		t.Fatalf("FairValue = %v, want > 0", res.FairValue)
	}
	if res.FairValue > wantGN {
		t.Errorf("FairValue = %v exceeds the Graham Number %v", res.FairValue, wantGN)
	}

	// Minimum of the strictly positive candidates
	candidates := []float64{
		res.Diagnostics["ncavPerShare"],
		res.Diagnostics["grahamNumber"],
		res.Diagnostics["liquidationValue"],
		res.Diagnostics["earningsPowerValue"],
	}
	for _, c := range candidates {
		if c > 0 && c < res.FairValue {
			t.Errorf("candidate %v below FairValue %v", c, res.FairValue)
		}
	}
}

func TestGrahamNegativeEarnings(t *testing.T) {
	snap := valueSnapshot()
	snap.Financial.Current.EPS = -1000

	res := (&Graham{}).Evaluate(snap)

	// Graham Number and EPV drop out; asset-based candidates remain
	if res.Diagnostics["grahamNumber"] != 0 {
		t.Errorf("grahamNumber = %v, want 0 for negative EPS", res.Diagnostics["grahamNumber"])
	}
	if res.FairValue <= 0 {
		t.Errorf("FairValue = %v, want positive asset-based value", res.FairValue)
	}
	if !res.Recommendation.Valid() {
		t.Errorf("invalid recommendation %q", res.Recommendation)
	}
}

func TestMinPositiveExcludesNonPositive(t *testing.T) {
	tests := []struct {
		name       string
		candidates []float64
		want       float64
	}{
		{"all positive", []float64{3, 1, 2}, 1},
		{"zero excluded", []float64{0, 5, 2}, 2},
		{"negative excluded", []float64{-4, 5}, 5},
		{"none positive", []float64{0, -1}, 0},
		{"empty", nil, 0},
	}
	for _, tt := range tests {
		if got := minPositive(tt.candidates...); got != tt.want {
			t.Errorf("%s: minPositive(%v) = %v, want %v", tt.name, tt.candidates, got, tt.want)
		}
	}
}

func TestGrahamChecklists(t *testing.T) {
	snap := valueSnapshot()
	res := (&Graham{}).Evaluate(snap)

	// PER 10, PBR 1.2, dividend 3%, positive stable earnings, cap 5e13:
	// every defensive item passes
	if got := res.Diagnostics["defensiveCount"]; got != 7 {
		t.Errorf("defensiveCount = %v, want 7", got)
	}
	// PER≤10, PBR≤1.2, dividend≥2, growth>0 pass; price 50000 is far above
	// the NCAV floor
	if got := res.Diagnostics["enterprisingCount"]; got != 4 {
		t.Errorf("enterprisingCount = %v, want 4", got)
	}
}

func TestGrahamScoreWithinRange(t *testing.T) {
	snaps := []*contracts.Snapshot{valueSnapshot(), degradedSnapshot()}
	for _, snap := range snaps {
		res := (&Graham{}).Evaluate(snap)
		if res.Score < 0 || res.Score > 100 {
			t.Errorf("score %v out of range for %s", res.Score, snap.Ticker)
		}
	}
}
