// Package strategy implements the six stateless valuation strategies and the
// registry that fans them out over one snapshot.
package strategy

import (
	"sync"

	"github.com/wonny/consensus/internal/contracts"
	"github.com/wonny/consensus/pkg/logger"
)

// Strategy evaluates one immutable snapshot into one result. Implementations
// must be pure: no I/O, no mutation of the snapshot, no shared state.
type Strategy interface {
	Method() string
	Evaluate(snap *contracts.Snapshot) contracts.StrategyResult
}

// Registry runs a fixed, ordered set of strategies concurrently.
// ⭐ SSOT: 전략 실행 순서와 병렬화는 여기서만
type Registry struct {
	strategies []Strategy
	logger     *logger.Logger
}

// NewRegistry creates a registry over the six standard strategies in their
// canonical order.
func NewRegistry(log *logger.Logger) *Registry {
	return NewRegistryWith(log,
		&Buffett{},
		&Lynch{},
		&Graham{},
		&Greenblatt{},
		&Fisher{},
		&Templeton{},
	)
}

// NewRegistryWith creates a registry over an explicit strategy list.
// Used in tests.
func NewRegistryWith(log *logger.Logger, strategies ...Strategy) *Registry {
	return &Registry{
		strategies: strategies,
		logger:     log.WithField("module", "strategy"),
	}
}

// Methods returns the registered method names in registration order.
func (r *Registry) Methods() []string {
	out := make([]string, len(r.strategies))
	for i, s := range r.strategies {
		out[i] = s.Method()
	}
	return out
}

// RunAll evaluates every strategy concurrently and returns the results in
// registration order. A panicking strategy never aborts its siblings; it
// contributes a neutral HOLD result instead.
func (r *Registry) RunAll(snap *contracts.Snapshot) []contracts.StrategyResult {
	results := make([]contracts.StrategyResult, len(r.strategies))

	var wg sync.WaitGroup
	wg.Add(len(r.strategies))
	for i, s := range r.strategies {
		go func(i int, s Strategy) {
			defer wg.Done()
			defer func() {
				if rec := recover(); rec != nil {
					r.logger.WithFields(map[string]interface{}{
						"method": s.Method(),
						"ticker": snap.Ticker,
						"panic":  rec,
					}).Error("Strategy panicked, substituting neutral result")
					results[i] = contracts.StrategyResult{
						Method:         s.Method(),
						Recommendation: contracts.Hold,
						Notes:          []string{"computation failed, neutral result substituted"},
					}
				}
			}()
			results[i] = s.Evaluate(snap)
		}(i, s)
	}
	wg.Wait()

	return results
}

// upsidePercent returns (fairValue/price − 1) × 100, or 0 when either side is
// non-positive.
func upsidePercent(fairValue, price float64) float64 {
	if fairValue <= 0 || price <= 0 {
		return 0
	}
	return (fairValue/price - 1) * 100
}

// recommend maps a composite score plus upside onto the five-level ladder
// shared by the numeric strategies.
func recommend(score, upside float64) contracts.Recommendation {
	switch {
	case score >= 70 && upside > 20:
		return contracts.StrongBuy
	case score >= 50 && upside > 0:
		return contracts.Buy
	case score >= 30:
		return contracts.Hold
	case score >= 20:
		return contracts.Sell
	default:
		return contracts.StrongSell
	}
}
