package contracts

// Strategy method identifiers. Fixed set; the consensus weights key off these.
const (
	MethodBuffett    = "buffett"
	MethodLynch      = "lynch"
	MethodGraham     = "graham"
	MethodGreenblatt = "greenblatt"
	MethodFisher     = "fisher"
	MethodTempleton  = "templeton"
)

// Recommendation is the five-level investment recommendation.
type Recommendation string

const (
	StrongBuy  Recommendation = "STRONG_BUY"
	Buy        Recommendation = "BUY"
	Hold       Recommendation = "HOLD"
	Sell       Recommendation = "SELL"
	StrongSell Recommendation = "STRONG_SELL"
)

// Valid reports whether r is one of the five defined values.
func (r Recommendation) Valid() bool {
	switch r {
	case StrongBuy, Buy, Hold, Sell, StrongSell:
		return true
	}
	return false
}

// StrategyResult is the stateless output of one valuation strategy over one
// Snapshot.
//
// FairValue == 0 means the strategy does not produce a price target (the
// qualitative-only convention); such results never enter the numeric
// consensus.
type StrategyResult struct {
	Method         string         `json:"method"`
	FairValue      float64        `json:"fair_value"` // ≥ 0; 0 = no price target
	Recommendation Recommendation `json:"recommendation"`
	Score          float64        `json:"score"` // 0–100 composite

	// Diagnostics carries named sub-metrics for explainability
	// (ROIC, PEG, NCAV-per-share, ...).
	Diagnostics map[string]float64 `json:"diagnostics,omitempty"`

	// Notes carries qualitative findings (category labels, checklist text).
	Notes []string `json:"notes,omitempty"`
}

// ClampScore bounds a raw composite into the 0–100 score range.
func ClampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
