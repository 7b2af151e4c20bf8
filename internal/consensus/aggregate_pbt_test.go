package consensus

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/wonny/consensus/internal/contracts"
)

// Ordering and bounding invariants of the aggregate, checked over random
// fair-value combinations.
func TestAggregateProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	methods := []string{
		contracts.MethodBuffett, contracts.MethodLynch, contracts.MethodGraham,
		contracts.MethodGreenblatt, contracts.MethodTempleton,
	}

	buildResults := func(fairValues []float64) []contracts.StrategyResult {
		results := make([]contracts.StrategyResult, 0, len(fairValues))
		for i, fv := range fairValues {
			if i >= len(methods) {
				break
			}
			results = append(results, contracts.StrategyResult{Method: methods[i], FairValue: fv})
		}
		return results
	}

	fairValueGen := gen.SliceOfN(5, gen.Float64Range(0, 1e7))

	properties.Property("conservative <= median <= optimistic", prop.ForAll(
		func(fairValues []float64) bool {
			con := Aggregate(buildResults(fairValues), 50000)
			if con == nil {
				// Acceptable: every generated fair value was non-positive
				for _, fv := range fairValues {
					if fv > 0 {
						return false
					}
				}
				return true
			}
			return con.Conservative <= con.Median && con.Median <= con.Optimistic
		},
		fairValueGen,
	))

	properties.Property("weighted average within the bounds", prop.ForAll(
		func(fairValues []float64) bool {
			con := Aggregate(buildResults(fairValues), 50000)
			if con == nil {
				return true
			}
			return con.WeightedAverage >= con.Conservative-1e-6 &&
				con.WeightedAverage <= con.Optimistic+1e-6
		},
		fairValueGen,
	))

	properties.Property("contributors all had positive fair values", prop.ForAll(
		func(fairValues []float64) bool {
			results := buildResults(fairValues)
			con := Aggregate(results, 50000)
			if con == nil {
				return true
			}
			byMethod := map[string]float64{}
			for _, r := range results {
				byMethod[r.Method] = r.FairValue
			}
			for _, m := range con.Contributors {
				if byMethod[m] <= 0 {
					return false
				}
			}
			return true
		},
		fairValueGen,
	))

	properties.TestingRun(t)
}
