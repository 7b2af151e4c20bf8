package strategy

import (
	"math"

	"github.com/wonny/consensus/internal/contracts"
)

// Buffett values a business on owner earnings: net income plus estimated
// depreciation minus estimated maintenance capital expenditure, projected
// ten years and discounted, with a flat margin-of-safety haircut.
//
// Per-share statements are the only fundamentals available, so several
// balance-sheet figures are estimated from the multiples:
//   - depreciation        ≈ 17% of net income
//   - total capex         ≈ 30% of net income, half of it maintenance
//   - net debt            ≈ 30% of market cap (enterprise-value convention)
type Buffett struct{}

const (
	buffettDiscountRate   = 0.08
	buffettTerminalGrowth = 0.03
	buffettMaxGrowth      = 15.0 // percent
	buffettHaircut        = 0.70 // 30% margin-of-safety discount
	buffettHorizonYears   = 10
)

func (b *Buffett) Method() string { return contracts.MethodBuffett }

func (b *Buffett) Evaluate(snap *contracts.Snapshot) contracts.StrategyResult {
	cur := snap.Financial.Current
	price := snap.Market.CurrentPrice

	// 주당 기준으로 전부 계산: owner earnings per share
	// NI + 0.17·NI − 0.5·(0.30·NI) = 1.02·NI
	ownerEarningsPS := cur.EPS * 1.02

	avgROE := averageROE(snap)
	growth := retainedGrowthRate(snap)

	quality := b.qualityScore(snap, avgROE, growth)

	fairValue := 0.0
	if ownerEarningsPS > 0 {
		fairValue = dcfPerShare(ownerEarningsPS, growth) * buffettHaircut
	}

	mos := upsidePercent(fairValue, price)

	rec := contracts.StrongSell
	switch {
	case quality >= 70 && mos > 20:
		rec = contracts.StrongBuy
	case quality >= 50 && mos > 0:
		rec = contracts.Buy
	case quality >= 30:
		rec = contracts.Hold
	case quality >= 20:
		rec = contracts.Sell
	}

	return contracts.StrategyResult{
		Method:         contracts.MethodBuffett,
		FairValue:      fairValue,
		Recommendation: rec,
		Score:          quality,
		Diagnostics: map[string]float64{
			"ownerEarningsPerShare": ownerEarningsPS,
			"averageROE":            avgROE,
			"growthRate":            growth,
			"marginOfSafety":        mos,
		},
	}
}

// qualityScore is a 0–100 weighted sum over business-quality checks, each
// scored against fixed thresholds.
func (b *Buffett) qualityScore(snap *contracts.Snapshot, avgROE, growth float64) float64 {
	cur := snap.Financial.Current
	var score float64

	// Average ROE (30 pts)
	switch {
	case avgROE >= 20:
		score += 30
	case avgROE >= 15:
		score += 20
	case avgROE >= 10:
		score += 10
	}

	// Estimated debt/equity (20 pts): netDebt/equity ≈ 0.3·PBR
	debtToEquity := 0.3 * cur.PBR
	switch {
	case debtToEquity <= 0.5:
		score += 20
	case debtToEquity <= 1.0:
		score += 12
	case debtToEquity <= 2.0:
		score += 5
	}

	// FCF yield (15 pts): owner earnings over market value ≈ 1.02/PER
	fcfYield := 0.0
	if cur.PER > 0 {
		fcfYield = 1.02 / cur.PER * 100
	}
	switch {
	case fcfYield >= 8:
		score += 15
	case fcfYield >= 5:
		score += 10
	case fcfYield >= 3:
		score += 5
	}

	// Net margin estimate (15 pts), proxied from ROE
	netMargin := avgROE * 0.5
	switch {
	case netMargin >= 15:
		score += 15
	case netMargin >= 10:
		score += 10
	case netMargin >= 5:
		score += 5
	}

	// Gross margin estimate (10 pts)
	grossMargin := math.Min(netMargin*3, 60)
	switch {
	case grossMargin >= 40:
		score += 10
	case grossMargin >= 25:
		score += 6
	case grossMargin >= 15:
		score += 3
	}

	// Current ratio (5 pts): no balance sheet, assume the listed-company
	// norm of 1.5
	score += 5

	// Retained-earnings growth (5 pts)
	switch {
	case growth >= 10:
		score += 5
	case growth >= 5:
		score += 3
	case growth > 0:
		score += 1
	}

	return contracts.ClampScore(score)
}

// dcfPerShare projects owner earnings per share over the horizon at the
// capped growth rate, discounts each year, and adds a Gordon-growth terminal
// value.
func dcfPerShare(ownerEarningsPS, growthPercent float64) float64 {
	g := math.Min(math.Max(growthPercent, 0), buffettMaxGrowth) / 100

	var value float64
	cash := ownerEarningsPS
	for year := 1; year <= buffettHorizonYears; year++ {
		cash *= 1 + g
		value += cash / math.Pow(1+buffettDiscountRate, float64(year))
	}

	terminal := cash * (1 + buffettTerminalGrowth) /
		(buffettDiscountRate - buffettTerminalGrowth)
	value += terminal / math.Pow(1+buffettDiscountRate, buffettHorizonYears)

	return value
}

// averageROE averages EPS/BPS over the current record and trailing history,
// counting only years where both figures are positive.
func averageROE(snap *contracts.Snapshot) float64 {
	records := append([]contracts.FinancialRecord{snap.Financial.Current}, snap.Financial.History...)

	var sum float64
	var n int
	for _, r := range records {
		if r.EPS > 0 && r.BPS > 0 {
			sum += r.EPS / r.BPS * 100
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// retainedGrowthRate proxies retained-earnings growth with the trailing EPS
// CAGR; zero when history is insufficient.
func retainedGrowthRate(snap *contracts.Snapshot) float64 {
	growth, ok := snap.EPSGrowthRate(5)
	if !ok {
		return 0
	}
	return growth
}
