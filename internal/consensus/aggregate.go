// Package consensus combines per-strategy fair values into one weighted
// valuation with dispersion bounds.
package consensus

import (
	"sort"

	"github.com/wonny/consensus/internal/contracts"
)

// Nominal strategy weights. 합의 가중치 — 참여 전략 간 비율로만 쓰인다.
// ⭐ SSOT: 전략 가중치는 여기서만
var nominalWeights = map[string]float64{
	contracts.MethodBuffett:    0.20,
	contracts.MethodGraham:     0.20,
	contracts.MethodLynch:      0.15,
	contracts.MethodGreenblatt: 0.15,
	contracts.MethodFisher:     0.15,
	contracts.MethodTempleton:  0.15,
}

// Aggregate combines the fair values of the contributing strategies.
//
// Only results with FairValue > 0 contribute; this is how the qualitative
// strategies drop out without name-based special cases. Weights are
// renormalized across contributors, so they act as proportions among
// participants rather than absolute shares. Returns nil when nothing
// contributes.
func Aggregate(results []contracts.StrategyResult, currentPrice float64) *contracts.ConsensusValuation {
	type contributor struct {
		method    string
		fairValue float64
		weight    float64
	}

	var contributors []contributor
	var weightSum float64
	for _, res := range results {
		if res.FairValue <= 0 {
			continue
		}
		w, ok := nominalWeights[res.Method]
		if !ok {
			continue
		}
		contributors = append(contributors, contributor{res.Method, res.FairValue, w})
		weightSum += w
	}

	if len(contributors) == 0 || weightSum <= 0 {
		return nil
	}

	out := &contracts.ConsensusValuation{}

	values := make([]float64, len(contributors))
	for i, c := range contributors {
		out.WeightedAverage += c.fairValue * (c.weight / weightSum)
		out.Contributors = append(out.Contributors, c.method)
		values[i] = c.fairValue
	}

	sort.Float64s(values)
	out.Conservative = values[0]
	out.Optimistic = values[len(values)-1]
	out.Median = sortedMedian(values)

	if currentPrice > 0 {
		out.UpsideWeighted = upside(out.WeightedAverage, currentPrice)
		out.UpsideMedian = upside(out.Median, currentPrice)
		out.UpsideConservative = upside(out.Conservative, currentPrice)
		out.UpsideOptimistic = upside(out.Optimistic, currentPrice)
	}

	return out
}

// sortedMedian returns the midpoint of an ascending slice; even counts
// average the two middle values.
func sortedMedian(sorted []float64) float64 {
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

func upside(value, price float64) float64 {
	return (value/price - 1) * 100
}
