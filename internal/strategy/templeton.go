package strategy

import (
	"math"

	"github.com/wonny/consensus/internal/contracts"
)

// Templeton buys at the point of maximum pessimism: score how depressed the
// price and sentiment are, check for value traps, compare against assumed
// global-average multiples, and pay a base multiple that expands with
// pessimism.
type Templeton struct{}

// Market-cycle phases classified from the 52-week price position.
const (
	PhaseCapitulation = "CAPITULATION"
	PhaseDespair      = "DESPAIR"
	PhaseHope         = "HOPE"
	PhaseOptimism     = "OPTIMISM"
	PhaseEuphoria     = "EUPHORIA"
)

// Assumed global average multiples for the relative-value comparison.
const (
	globalAvgPER      = 18.0
	globalAvgPBR      = 2.5
	globalAvgDividend = 2.0
)

func (t *Templeton) Method() string { return contracts.MethodTempleton }

func (t *Templeton) Evaluate(snap *contracts.Snapshot) contracts.StrategyResult {
	cur := snap.Financial.Current
	price := snap.Market.CurrentPrice

	pricePos := pricePosition(price, snap.Market.Low52w, snap.Market.High52w)
	pessimism := t.pessimismScore(snap, pricePos)
	trapRisk := t.valueTrapRisk(snap)
	globalValue := t.globalRelativeValue(cur)
	phase := cyclePhase(pricePos)

	fairValue := 0.0
	if cur.EPS > 0 {
		// Base multiple 12, up to 18 at full pessimism, shrunk by trap
		// risk (down to ×0.7) and expanded by relative value (up to ×1.2)
		basePER := 12.0 * (1 + 0.5*pessimism/100)
		basePER *= 1 - 0.3*trapRisk/100
		basePER *= 1 + 0.2*globalValue/100
		fairValue = cur.EPS * basePER
	}

	score := contracts.ClampScore(
		pessimism*0.5 + globalValue*0.3 + (100-trapRisk)*0.2,
	)
	upside := upsidePercent(fairValue, price)

	return contracts.StrategyResult{
		Method:         contracts.MethodTempleton,
		FairValue:      fairValue,
		Recommendation: recommend(score, upside),
		Score:          score,
		Diagnostics: map[string]float64{
			"pricePosition": pricePos,
			"pessimism":     pessimism,
			"valueTrapRisk": trapRisk,
			"globalValue":   globalValue,
			"upside":        upside,
		},
		Notes: []string{phase},
	}
}

// pricePosition returns where the price sits in its 52-week range, 0 at the
// low and 100 at the high. Neutral 50 when the range is unusable.
func pricePosition(price, low, high float64) float64 {
	if price <= 0 || high <= low || low <= 0 {
		return 50
	}
	pos := (price - low) / (high - low) * 100
	return math.Min(math.Max(pos, 0), 100)
}

// pessimismScore is a weighted checklist of depressed-sentiment indicators,
// 0–100.
func (t *Templeton) pessimismScore(snap *contracts.Snapshot, pricePos float64) float64 {
	cur := snap.Financial.Current
	var score float64

	// 52주 저점 부근 (25)
	if pricePos <= 20 {
		score += 25
	}
	// Deep PER discount (20)
	if cur.PER > 0 && cur.PER <= 8 {
		score += 20
	}
	// Deep PBR discount (15)
	if cur.PBR > 0 && cur.PBR <= 0.8 {
		score += 15
	}
	// Negative trend: price under its 60-day average (15)
	if snap.Technical.MA60 > 0 && snap.Market.CurrentPrice < snap.Technical.MA60 {
		score += 15
	}
	// High dividend yield (15)
	if cur.DividendYield >= 4 {
		score += 15
	}
	// Extreme-fear combination (10)
	if pricePos <= 10 && snap.Technical.RSI14 <= 30 {
		score += 10
	}

	return contracts.ClampScore(score)
}

// valueTrapRisk penalizes the combinations where cheapness signals decay
// rather than opportunity, 0–100.
func (t *Templeton) valueTrapRisk(snap *contracts.Snapshot) float64 {
	cur := snap.Financial.Current
	var risk float64

	if cur.EPS <= 0 {
		risk += 35
	}
	if growth, ok := snap.EPSGrowthRate(3); ok && growth < -10 {
		risk += 25
	}
	if cur.PBR > 0 && cur.PBR < 0.3 {
		risk += 20
	}
	if cur.DividendYield > 8 {
		risk += 20
	}

	return contracts.ClampScore(risk)
}

// globalRelativeValue scores the discount against assumed global-average
// multiples, 0–100 with 50 meaning parity.
func (t *Templeton) globalRelativeValue(cur contracts.FinancialRecord) float64 {
	perRatio := 1.0
	if cur.PER > 0 {
		perRatio = math.Min(globalAvgPER/cur.PER, 2)
	}
	pbrRatio := 1.0
	if cur.PBR > 0 {
		pbrRatio = math.Min(globalAvgPBR/cur.PBR, 2)
	}
	divRatio := math.Min((cur.DividendYield+0.5)/globalAvgDividend, 2)

	avg := (perRatio + pbrRatio + divRatio) / 3
	return contracts.ClampScore(avg * 50)
}

// cyclePhase classifies the market-cycle phase from the price position.
func cyclePhase(pricePos float64) string {
	switch {
	case pricePos <= 10:
		return PhaseCapitulation
	case pricePos <= 30:
		return PhaseDespair
	case pricePos <= 55:
		return PhaseHope
	case pricePos <= 80:
		return PhaseOptimism
	default:
		return PhaseEuphoria
	}
}
