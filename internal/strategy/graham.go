package strategy

import (
	"math"

	"github.com/wonny/consensus/internal/contracts"
)

// Graham computes four independent conservative value estimates and takes
// the minimum of the strictly positive ones. Without a balance sheet, asset
// values are estimated from book value per share.
type Graham struct{}

const (
	grahamNCAVFactor        = 0.667 // safety factor on NCAV
	grahamNCAVEstimate      = 0.5   // NCAV ≈ 50% of book value
	grahamLiquidationFactor = 0.4   // liquidation ≈ 40% of book value
	grahamMaxGrowth         = 3.0   // percent, EPV growth cap
	grahamMinMarketCap      = 3e11  // ₩3000억, defensive size test
)

func (g *Graham) Method() string { return contracts.MethodGraham }

func (g *Graham) Evaluate(snap *contracts.Snapshot) contracts.StrategyResult {
	cur := snap.Financial.Current
	price := snap.Market.CurrentPrice

	ncavPS := cur.BPS * grahamNCAVEstimate * grahamNCAVFactor

	grahamNumber := 0.0
	if cur.EPS > 0 && cur.BPS > 0 {
		grahamNumber = math.Sqrt(22.5 * cur.EPS * cur.BPS)
	}

	liquidation := cur.BPS * grahamLiquidationFactor

	growth, ok := snap.EPSGrowthRate(5)
	if !ok || growth < 0 {
		growth = 0
	}
	growth = math.Min(growth, grahamMaxGrowth)
	epv := 0.0
	if cur.EPS > 0 {
		epv = cur.EPS * (8.5 + 2*growth)
	}

	// Most conservative wins; non-positive candidates are excluded before
	// the min, never adopted as the minimum.
	fairValue := minPositive(ncavPS, grahamNumber, liquidation, epv)

	defensive := g.defensiveCount(snap)
	enterprising := g.enterprisingCount(snap, ncavPS)

	score := g.score(snap, fairValue, ncavPS, grahamNumber, defensive, enterprising)
	upside := upsidePercent(fairValue, price)

	return contracts.StrategyResult{
		Method:         contracts.MethodGraham,
		FairValue:      fairValue,
		Recommendation: recommend(score, upside),
		Score:          score,
		Diagnostics: map[string]float64{
			"ncavPerShare":       ncavPS,
			"grahamNumber":       grahamNumber,
			"liquidationValue":   liquidation,
			"earningsPowerValue": epv,
			"defensiveCount":     float64(defensive),
			"enterprisingCount":  float64(enterprising),
			"upside":             upside,
		},
	}
}

// minPositive returns the smallest strictly positive candidate, or 0 when
// none is positive.
func minPositive(candidates ...float64) float64 {
	min := 0.0
	for _, c := range candidates {
		if c <= 0 {
			continue
		}
		if min == 0 || c < min {
			min = c
		}
	}
	return min
}

// defensiveCount evaluates the 7-item defensive-investor checklist.
func (g *Graham) defensiveCount(snap *contracts.Snapshot) int {
	cur := snap.Financial.Current
	count := 0

	// 1. Adequate size
	if snap.Market.MarketCap >= grahamMinMarketCap {
		count++
	}
	// 2. Moderate PER
	if cur.PER > 0 && cur.PER <= 15 {
		count++
	}
	// 3. Moderate PBR
	if cur.PBR > 0 && cur.PBR <= 1.5 {
		count++
	}
	// 4. Combined multiplier
	if cur.PER > 0 && cur.PBR > 0 && cur.PER*cur.PBR <= 22.5 {
		count++
	}
	// 5. Dividend record
	if cur.DividendYield > 0 {
		count++
	}
	// 6. Positive earnings
	if cur.EPS > 0 {
		count++
	}
	// 7. Earnings stability across the trailing record
	stable := cur.EPS > 0
	for _, r := range snap.Financial.History {
		if r.EPS <= 0 {
			stable = false
			break
		}
	}
	if stable && len(snap.Financial.History) > 0 {
		count++
	}

	return count
}

// enterprisingCount evaluates the 5-item enterprising-investor checklist.
func (g *Graham) enterprisingCount(snap *contracts.Snapshot, ncavPS float64) int {
	cur := snap.Financial.Current
	price := snap.Market.CurrentPrice
	count := 0

	if cur.PER > 0 && cur.PER <= 10 {
		count++
	}
	if cur.PBR > 0 && cur.PBR <= 1.2 {
		count++
	}
	if cur.DividendYield >= 2 {
		count++
	}
	if growth, ok := snap.EPSGrowthRate(3); ok && growth > 0 {
		count++
	}
	// Price near the net-asset floor
	if ncavPS > 0 && price > 0 && price <= ncavPS*1.5 {
		count++
	}

	return count
}

func (g *Graham) score(snap *contracts.Snapshot, fairValue, ncavPS, grahamNumber float64, defensive, enterprising int) float64 {
	price := snap.Market.CurrentPrice
	var score float64

	// Margin-of-safety band (30 pts)
	mos := upsidePercent(fairValue, price)
	switch {
	case mos >= 50:
		score += 30
	case mos >= 30:
		score += 22
	case mos >= 10:
		score += 12
	case mos > 0:
		score += 5
	}

	// NCAV margin band (25 pts)
	if ncavPS > 0 && price > 0 {
		switch {
		case price <= ncavPS:
			score += 25
		case price <= ncavPS*1.2:
			score += 15
		case price <= ncavPS*1.5:
			score += 8
		}
	}

	// Graham-Number discount band (20 pts)
	if grahamNumber > 0 && price > 0 {
		switch {
		case price <= grahamNumber*0.7:
			score += 20
		case price <= grahamNumber*0.85:
			score += 14
		case price <= grahamNumber:
			score += 8
		}
	}

	// Checklist contributions: defensive 15 pts total, enterprising 10
	score += float64(defensive) * 15.0 / 7.0
	score += float64(enterprising) * 2.0

	return contracts.ClampScore(score)
}
