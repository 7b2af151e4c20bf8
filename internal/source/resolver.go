package source

import (
	"context"
	"fmt"
	"time"

	"github.com/wonny/consensus/internal/contracts"
	"github.com/wonny/consensus/pkg/logger"
)

// Resolver tries the adapters of each field group in fixed priority order
// with a bounded per-attempt timeout, stopping at the first usable value.
// ⭐ SSOT: 폴백 체인 결정은 여기서만
//
// Chains are strictly sequential, never raced: correctness here favors lower
// external load over latency. No retries within a single adapter; retries,
// if any, belong to the adapter's own HTTP client.
type Resolver struct {
	chains  Chains
	timeout time.Duration
	logger  *logger.Logger
}

// Chains holds the per-field-group adapter priority lists.
type Chains struct {
	Market    []Adapter[contracts.MarketData]
	Financial []Adapter[contracts.FinancialData]
	Technical []Adapter[contracts.TechnicalData]
	Flow      []Adapter[contracts.FlowData]
}

// GroupResolver is the resolver capability the snapshot assembler consumes.
//
// The three non-market groups report degraded=true with a zero value when the
// whole chain is exhausted; the assembler substitutes documented defaults.
// Only the market group may fail the request.
type GroupResolver interface {
	ResolveMarket(ctx context.Context, ticker string) (contracts.MarketData, string, error)
	ResolveFinancial(ctx context.Context, ticker string) (contracts.FinancialData, string, bool)
	ResolveTechnical(ctx context.Context, ticker string) (contracts.TechnicalData, string, bool)
	ResolveFlow(ctx context.Context, ticker string) (contracts.FlowData, string, bool)
}

// NewResolver creates a Resolver over the given chains.
func NewResolver(chains Chains, timeout time.Duration, log *logger.Logger) *Resolver {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Resolver{
		chains:  chains,
		timeout: timeout,
		logger:  log.WithField("module", "resolver"),
	}
}

// ResolveMarket resolves the load-bearing price/market field group.
// Exhausting the chain is fatal: no meaningful valuation exists without a
// positive current price.
func (r *Resolver) ResolveMarket(ctx context.Context, ticker string) (contracts.MarketData, string, error) {
	value, src, err := resolveChain(ctx, r, contracts.GroupMarket, ticker, r.chains.Market, validMarket)
	if err != nil {
		return contracts.MarketData{}, "", &contracts.FatalSnapshotError{
			Ticker: ticker,
			Reason: "no positive current price from any source",
			Err:    err,
		}
	}
	return value, src, nil
}

// ResolveFinancial resolves fundamentals; degrades instead of failing.
func (r *Resolver) ResolveFinancial(ctx context.Context, ticker string) (contracts.FinancialData, string, bool) {
	value, src, err := resolveChain(ctx, r, contracts.GroupFinancial, ticker, r.chains.Financial, validFinancial)
	if err != nil {
		r.logDegraded(contracts.GroupFinancial, ticker)
		return contracts.FinancialData{}, "", true
	}
	return value, src, false
}

// ResolveTechnical resolves technical indicators; degrades instead of failing.
func (r *Resolver) ResolveTechnical(ctx context.Context, ticker string) (contracts.TechnicalData, string, bool) {
	value, src, err := resolveChain(ctx, r, contracts.GroupTechnical, ticker, r.chains.Technical, validTechnical)
	if err != nil {
		r.logDegraded(contracts.GroupTechnical, ticker)
		return contracts.TechnicalData{}, "", true
	}
	return value, src, false
}

// ResolveFlow resolves investor flow; degrades instead of failing.
func (r *Resolver) ResolveFlow(ctx context.Context, ticker string) (contracts.FlowData, string, bool) {
	value, src, err := resolveChain(ctx, r, contracts.GroupFlow, ticker, r.chains.Flow, validFlow)
	if err != nil {
		r.logDegraded(contracts.GroupFlow, ticker)
		return contracts.FlowData{}, "", true
	}
	return value, src, false
}

// logDegraded records the quality-degradation signal. Not an error to the
// caller: a degraded valuation beats no valuation.
func (r *Resolver) logDegraded(group contracts.FieldGroup, ticker string) {
	r.logger.WithTicker(ticker).WithField("group", string(group)).
		Warn("Field group exhausted all sources, using defaults")
}

// resolveChain walks one adapter chain sequentially with early exit on the
// first usable value. Timeout and malformed-schema responses advance the
// chain exactly like hard failures.
func resolveChain[T any](
	ctx context.Context,
	r *Resolver,
	group contracts.FieldGroup,
	ticker string,
	adapters []Adapter[T],
	validate func(T) error,
) (T, string, error) {
	var zero T

	for _, adapter := range adapters {
		attemptCtx, cancel := context.WithTimeout(ctx, r.timeout)
		value, err := adapter.Fetch(attemptCtx, ticker)
		cancel()

		if err == nil && validate != nil {
			err = validate(value)
		}

		attemptLog := r.logger.WithTicker(ticker).WithSource(adapter.Name()).
			WithField("group", string(group))

		if err != nil {
			attemptLog.WithError(err).Debug("Source unavailable, advancing fallback chain")
			continue
		}

		attemptLog.Debug("Field group resolved")
		return value, adapter.Name(), nil
	}

	return zero, "", fmt.Errorf("%s chain exhausted for %s: %w", group, ticker, contracts.ErrSourceUnavailable)
}
