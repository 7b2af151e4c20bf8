package strategy

import (
	"math"

	"github.com/wonny/consensus/internal/contracts"
)

// Greenblatt ranks on the magic formula: return on invested capital plus
// earnings yield. Operating figures are estimated from per-share data:
//   - EBIT             ≈ net income × 1.35 (back out taxes and interest)
//   - invested capital ≈ equity × 1.3
//   - enterprise value ≈ market cap × 1.3 (net-debt load)
type Greenblatt struct{}

// Fair value is capped at this multiple of the current price to keep
// extreme inputs from producing runaway targets.
const greenblattFairValueCap = 2.5

func (g *Greenblatt) Method() string { return contracts.MethodGreenblatt }

func (g *Greenblatt) Evaluate(snap *contracts.Snapshot) contracts.StrategyResult {
	cur := snap.Financial.Current
	price := snap.Market.CurrentPrice
	shares := snap.Shares()

	// 시가총액이 없으면 주가×주식수로 근사
	marketCap := snap.Market.MarketCap
	if marketCap <= 0 && shares > 0 {
		marketCap = price * shares
	}

	var roic, earningsYield float64
	if shares > 0 && cur.EPS != 0 {
		netIncome := cur.EPS * shares
		ebit := netIncome * 1.35

		if equity := cur.BPS * shares; equity > 0 {
			roic = ebit / (equity * 1.3) * 100
		}
		if marketCap > 0 {
			earningsYield = ebit / (marketCap * 1.3) * 100
		}
	}

	magic := math.Min(math.Max(roic, 0), 50) + math.Min(math.Max(earningsYield, 0)*2, 50)

	roicRank := rankByLadder(roic, 25, 18, 12, 7)
	yieldRank := rankByLadder(earningsYield, 12, 9, 6, 4)
	combinedRank := (roicRank + yieldRank) / 2

	fairValue := 0.0
	if cur.EPS > 0 {
		// Demand a lower earnings yield from higher-quality capital:
		// 10% for weak ROIC down to 7% at ROIC ≥ 30
		targetYield := 10.0 - 3.0*math.Min(math.Max(roic, 0), 30)/30
		fairValue = cur.EPS * (100 / targetYield)
		if price > 0 && fairValue > price*greenblattFairValueCap {
			fairValue = price * greenblattFairValueCap
		}
	}

	score := contracts.ClampScore(magic)

	var rec contracts.Recommendation
	switch {
	case combinedRank <= 1.5:
		rec = contracts.StrongBuy
	case combinedRank <= 2.5:
		rec = contracts.Buy
	case combinedRank <= 3.5:
		rec = contracts.Hold
	case combinedRank <= 4.5:
		rec = contracts.Sell
	default:
		rec = contracts.StrongSell
	}

	return contracts.StrategyResult{
		Method:         contracts.MethodGreenblatt,
		FairValue:      fairValue,
		Recommendation: rec,
		Score:          score,
		Diagnostics: map[string]float64{
			"roic":          roic,
			"earningsYield": earningsYield,
			"magicScore":    magic,
			"combinedRank":  combinedRank,
			"upside":        upsidePercent(fairValue, price),
		},
	}
}

// rankByLadder maps a value onto a 1 (best) to 5 (worst) quantile-style rank
// using four descending thresholds.
func rankByLadder(value, t1, t2, t3, t4 float64) float64 {
	switch {
	case value >= t1:
		return 1
	case value >= t2:
		return 2
	case value >= t3:
		return 3
	case value >= t4:
		return 4
	default:
		return 5
	}
}
