package strategy

import "github.com/wonny/consensus/internal/contracts"

// Fisher runs the fifteen-point growth-quality checklist. This strategy is
// qualitative only: FairValue is always 0, which keeps it out of the numeric
// consensus, and the recommendation expresses suitability rather than a
// price call.
//
// Several checklist items (labor relations, management depth, integrity)
// have no quantitative data source and default to true, which inflates
// scores uniformly across tickers. Known limitation, kept as-is.
type Fisher struct{}

func (f *Fisher) Method() string { return contracts.MethodFisher }

// fisherItem is one checklist point with its data-driven answer; defaulted
// items carry pass=true unconditionally.
type fisherItem struct {
	label string
	pass  bool
}

func (f *Fisher) Evaluate(snap *contracts.Snapshot) contracts.StrategyResult {
	cur := snap.Financial.Current

	growth, hasGrowth := snap.EPSGrowthRate(3)
	roe := 0.0
	if cur.EPS > 0 && cur.BPS > 0 {
		roe = cur.EPS / cur.BPS * 100
	}

	items := []fisherItem{
		{"sales growth potential", hasGrowth && growth >= 10},
		{"management commitment to new products", true},
		{"R&D effectiveness", true},
		{"above-average sales organization", true},
		{"worthwhile profit margin", roe >= 8},
		{"margin improvement", hasGrowth && growth > 0},
		{"outstanding labor relations", true},
		{"outstanding executive relations", true},
		{"management depth", true},
		{"cost and accounting controls", true},
		{"industry-leading competitive edge", roe >= 12},
		{"long-range profit outlook", hasGrowth && growth >= 5},
		{"no dilution plans", true},
		{"candid communication with investors", true},
		{"unquestionable management integrity", true},
	}

	checklist := 0
	var failed []string
	for _, item := range items {
		if item.pass {
			checklist++
		} else {
			failed = append(failed, "fails: "+item.label)
		}
	}

	mgmt := subScore(items, 1, 6, 7, 8, 13, 14)
	innovation := subScore(items, 1, 2, 9)
	competitive := subScore(items, 4, 10)
	longTerm := subScore(items, 0, 11)

	score := contracts.ClampScore(
		float64(checklist)/15*100*0.40 +
			mgmt*0.20 +
			innovation*0.15 +
			competitive*0.15 +
			longTerm*0.10,
	)

	verdict := "Unsuitable"
	rec := contracts.Sell
	switch {
	case score >= 70:
		verdict = "Suitable"
		rec = contracts.Buy
	case score >= 50:
		verdict = "Marginal"
		rec = contracts.Hold
	}

	return contracts.StrategyResult{
		Method:         contracts.MethodFisher,
		FairValue:      0, // qualitative only, never a price target
		Recommendation: rec,
		Score:          score,
		Diagnostics: map[string]float64{
			"checklistScore":       float64(checklist),
			"managementQuality":    mgmt,
			"innovation":           innovation,
			"competitiveAdvantage": competitive,
			"longTermPotential":    longTerm,
		},
		Notes: append([]string{verdict}, failed...),
	}
}

// subScore converts the pass rate of the selected items into 0–100.
func subScore(items []fisherItem, indexes ...int) float64 {
	passed := 0
	for _, i := range indexes {
		if items[i].pass {
			passed++
		}
	}
	return float64(passed) / float64(len(indexes)) * 100
}
