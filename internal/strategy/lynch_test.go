package strategy

import (
	"math"
	"testing"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name              string
		growth, per, pbr  float64
		want              string
	}{
		{"turnaround wins over cheap multiples", -5, 8, 0.9, Turnaround},
		{"asset play", 3, 8, 0.9, AssetPlay},
		{"fast grower", 25, 20, 2, FastGrower},
		{"stalwart", 12, 15, 1.5, Stalwart},
		{"slow grower", 7, 12, 1.2, SlowGrower},
		{"cyclical fallback", 2, 14, 1.3, Cyclical},
	}
	for _, tt := range tests {
		if got := classify(tt.growth, tt.per, tt.pbr); got != tt.want {
			t.Errorf("%s: classify(%v, %v, %v) = %v, want %v",
				tt.name, tt.growth, tt.per, tt.pbr, got, tt.want)
		}
	}
}

func TestLynchTargetPER(t *testing.T) {
	tests := []struct {
		category string
		growth   float64
		want     float64
	}{
		{FastGrower, 30, 40},   // 45 capped at 40
		{FastGrower, 20, 30},   // 20·1.5
		{Stalwart, 12, 12},
		{Stalwart, 25, 20},     // capped
		{SlowGrower, 8, 6.4},   // 8·0.8
		{SlowGrower, 30, 12},   // capped
		{AssetPlay, 3, 10},     // fixed
		{Turnaround, -10, 8},   // fixed
		{Cyclical, 2, 5},       // growth floor 5
		{Cyclical, 30, 15},     // capped
	}
	for _, tt := range tests {
		got := lynchTargetPER(tt.category, tt.growth)
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("lynchTargetPER(%s, %v) = %v, want %v", tt.category, tt.growth, got, tt.want)
		}
	}
}

func TestPegRatio(t *testing.T) {
	if got := pegRatio(10, 20); got != 0.5 {
		t.Errorf("pegRatio(10, 20) = %v, want 0.5", got)
	}
	if got := pegRatio(10, 0); got != 99 {
		t.Errorf("pegRatio with zero growth = %v, want sentinel 99", got)
	}
	if got := pegRatio(-3, 10); got != 99 {
		t.Errorf("pegRatio with negative PER = %v, want sentinel 99", got)
	}
}

func TestLynchEvaluate(t *testing.T) {
	snap := valueSnapshot()
	res := (&Lynch{}).Evaluate(snap)

	// EPS 4000 → 5000 over two years ≈ 11.8% growth → Stalwart
	if len(res.Notes) == 0 || res.Notes[0] != Stalwart {
		t.Errorf("Notes = %v, want category %s first", res.Notes, Stalwart)
	}

	growth := res.Diagnostics["epsGrowth"]
	if growth < 11 || growth > 13 {
		t.Errorf("epsGrowth = %v, want ~11.8", growth)
	}

	// Stalwart target PER = min(growth, 20)
	wantFair := 5000 * growth
	if math.Abs(res.FairValue-wantFair) > 1 {
		t.Errorf("FairValue = %v, want ≈ %v", res.FairValue, wantFair)
	}

	// PER 10 / ~11.8% growth keeps PEG under 1
	if peg := res.Diagnostics["peg"]; peg <= 0 || peg > 1 {
		t.Errorf("peg = %v, want in (0,1]", peg)
	}
}

func TestLynchDefaultGrowthWithoutHistory(t *testing.T) {
	snap := valueSnapshot()
	snap.Financial.History = nil

	res := (&Lynch{}).Evaluate(snap)
	if got := res.Diagnostics["epsGrowth"]; got != lynchDefaultGrowth {
		t.Errorf("epsGrowth = %v, want default %v", got, lynchDefaultGrowth)
	}
}

func TestLynchNegativeEPSNoTarget(t *testing.T) {
	snap := valueSnapshot()
	snap.Financial.Current.EPS = -500
	snap.Financial.History = nil

	res := (&Lynch{}).Evaluate(snap)
	if res.FairValue != 0 {
		t.Errorf("FairValue = %v, want 0 for negative EPS", res.FairValue)
	}
}
