package strategy

import (
	"math"

	"github.com/wonny/consensus/internal/contracts"
)

// Lynch applies growth-at-a-reasonable-price: classify the company into one
// of six categories, derive a category-specific target PER from the earnings
// growth rate, and score primarily on PEG.
type Lynch struct{}

// Company categories. 분류 기준: 성장률과 밸류에이션
const (
	FastGrower = "FAST_GROWER"
	Stalwart   = "STALWART"
	SlowGrower = "SLOW_GROWER"
	AssetPlay  = "ASSET_PLAY"
	Turnaround = "TURNAROUND"
	Cyclical   = "CYCLICAL"
)

const lynchDefaultGrowth = 10.0 // percent, when history is insufficient

func (l *Lynch) Method() string { return contracts.MethodLynch }

func (l *Lynch) Evaluate(snap *contracts.Snapshot) contracts.StrategyResult {
	cur := snap.Financial.Current
	price := snap.Market.CurrentPrice

	growth, ok := snap.EPSGrowthRate(3)
	if !ok {
		growth = lynchDefaultGrowth
	}

	peg := pegRatio(cur.PER, growth)
	divAdjPEG := pegRatio(cur.PER, growth+cur.DividendYield)

	category := classify(growth, cur.PER, cur.PBR)
	targetPER := lynchTargetPER(category, growth)

	fairValue := 0.0
	if cur.EPS > 0 {
		fairValue = cur.EPS * targetPER
	}

	score := l.score(peg, divAdjPEG, growth, cur.PBR, category)
	upside := upsidePercent(fairValue, price)

	return contracts.StrategyResult{
		Method:         contracts.MethodLynch,
		FairValue:      fairValue,
		Recommendation: recommend(score, upside),
		Score:          score,
		Diagnostics: map[string]float64{
			"epsGrowth": growth,
			"peg":       peg,
			"divAdjPEG": divAdjPEG,
			"targetPER": targetPER,
			"upside":    upside,
		},
		Notes: []string{category},
	}
}

// pegRatio returns PER over growth in percent; a non-positive denominator
// yields a sentinel far outside every scoring band.
func pegRatio(per, growthPercent float64) float64 {
	if per <= 0 || growthPercent <= 0 {
		return 99
	}
	return per / growthPercent
}

// classify assigns one of the six Lynch categories. Turnaround and asset
// play take precedence over the growth ladder.
func classify(growth, per, pbr float64) string {
	switch {
	case growth < 0:
		return Turnaround
	case per > 0 && per < 10 && pbr > 0 && pbr < 1:
		return AssetPlay
	case growth > 20:
		return FastGrower
	case growth > 10:
		return Stalwart
	case growth > 5:
		return SlowGrower
	default:
		return Cyclical
	}
}

// lynchTargetPER maps growth onto a category-bounded fair multiple. Target
// PER starts from the growth rate itself (floor 5).
func lynchTargetPER(category string, growth float64) float64 {
	base := math.Max(growth, 5)

	switch category {
	case FastGrower:
		return math.Min(base*1.5, 40)
	case Stalwart:
		return math.Min(base, 20)
	case SlowGrower:
		return math.Min(base*0.8, 12)
	case AssetPlay:
		return 10
	case Turnaround:
		return 8
	default: // Cyclical
		return math.Min(base, 15)
	}
}

func (l *Lynch) score(peg, divAdjPEG, growth, pbr float64, category string) float64 {
	var score float64

	// PEG (40 pts): under 1 is the classic buy signal
	switch {
	case peg <= 0.5:
		score += 40
	case peg <= 1.0:
		score += 30
	case peg <= 1.5:
		score += 18
	case peg <= 2.0:
		score += 8
	}

	// Dividend-adjusted PEG (20 pts)
	switch {
	case divAdjPEG <= 0.5:
		score += 20
	case divAdjPEG <= 1.0:
		score += 15
	case divAdjPEG <= 1.5:
		score += 8
	case divAdjPEG <= 2.0:
		score += 4
	}

	// EPS growth (15 pts)
	switch {
	case growth >= 20:
		score += 15
	case growth >= 10:
		score += 10
	case growth >= 5:
		score += 5
	}

	// Sales-growth estimate (10 pts), proxied at 70% of earnings growth
	salesGrowth := growth * 0.7
	switch {
	case salesGrowth >= 10:
		score += 10
	case salesGrowth >= 5:
		score += 6
	case salesGrowth > 0:
		score += 3
	}

	// Leverage estimate (10 pts): debt/equity ≈ 0.3·PBR
	debtToEquity := 0.3 * pbr
	switch {
	case debtToEquity <= 0.5:
		score += 10
	case debtToEquity <= 1.0:
		score += 6
	case debtToEquity <= 2.0:
		score += 2
	}

	// Category bonus (5 pts)
	switch category {
	case FastGrower:
		score += 5
	case Stalwart:
		score += 4
	case AssetPlay:
		score += 3
	case SlowGrower:
		score += 2
	case Cyclical:
		score += 1
	}

	return contracts.ClampScore(score)
}
