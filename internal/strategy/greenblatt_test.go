package strategy

import "testing"

func TestGreenblattEvaluate(t *testing.T) {
	snap := valueSnapshot()
	res := (&Greenblatt{}).Evaluate(snap)

	if res.FairValue <= 0 {
		t.Fatalf("FairValue = %v, want > 0", res.FairValue)
	}

	// EBIT = 5000·1e9·1.35; IC = 40000·1e9·1.3 → ROIC ≈ 12.98%
	roic := res.Diagnostics["roic"]
	if roic < 12 || roic > 14 {
		t.Errorf("roic = %v, want ~13", roic)
	}
	// EV = 5e13·1.3 → earnings yield ≈ 10.4%
	ey := res.Diagnostics["earningsYield"]
	if ey < 9.5 || ey > 11 {
		t.Errorf("earningsYield = %v, want ~10.4", ey)
	}

	if res.Score < 0 || res.Score > 100 {
		t.Errorf("Score = %v out of range", res.Score)
	}
}

func TestGreenblattFairValueCeiling(t *testing.T) {
	// Extreme earnings against a tiny price must hit the 2.5× cap
	snap := valueSnapshot()
	snap.Market.CurrentPrice = 1000
	snap.Financial.Current.EPS = 50000

	res := (&Greenblatt{}).Evaluate(snap)
	if want := 1000 * greenblattFairValueCap; res.FairValue != want {
		t.Errorf("FairValue = %v, want capped at %v", res.FairValue, want)
	}
}

func TestGreenblattNegativeEarnings(t *testing.T) {
	snap := valueSnapshot()
	snap.Financial.Current.EPS = -3000

	res := (&Greenblatt{}).Evaluate(snap)
	if res.FairValue != 0 {
		t.Errorf("FairValue = %v, want 0", res.FairValue)
	}
	if res.Recommendation != "SELL" && res.Recommendation != "STRONG_SELL" {
		t.Errorf("Recommendation = %q, want sell side for negative earnings", res.Recommendation)
	}
}

func TestRankByLadder(t *testing.T) {
	tests := []struct {
		value float64
		want  float64
	}{
		{30, 1},
		{25, 1},
		{20, 2},
		{15, 3},
		{10, 4},
		{3, 5},
	}
	for _, tt := range tests {
		if got := rankByLadder(tt.value, 25, 18, 12, 7); got != tt.want {
			t.Errorf("rankByLadder(%v) = %v, want %v", tt.value, got, tt.want)
		}
	}
}
