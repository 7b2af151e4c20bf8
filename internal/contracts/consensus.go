package contracts

// ConsensusValuation combines the fair values of the contributing strategies
// into one ranked estimate with dispersion bounds. Derived per request, never
// persisted.
//
// A nil *ConsensusValuation means no strategy produced a usable fair value;
// callers must handle absence, not a zero-filled struct.
type ConsensusValuation struct {
	WeightedAverage float64 `json:"weighted_average"`
	Median          float64 `json:"median"`
	Conservative    float64 `json:"conservative"` // min of contributing fair values
	Optimistic      float64 `json:"optimistic"`   // max of contributing fair values

	// Upside percentages relative to the current price:
	// (value/currentPrice − 1) × 100
	UpsideWeighted     float64 `json:"upside_weighted"`
	UpsideMedian       float64 `json:"upside_median"`
	UpsideConservative float64 `json:"upside_conservative"`
	UpsideOptimistic   float64 `json:"upside_optimistic"`

	// Contributors lists the methods whose fair values entered the consensus,
	// in registration order.
	Contributors []string `json:"contributors"`
}
