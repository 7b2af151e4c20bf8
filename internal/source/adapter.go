package source

import (
	"context"

	"github.com/wonny/consensus/internal/contracts"
)

// Adapter normalizes one upstream provider's response for one field group.
// Implementations must treat the context deadline as the attempt budget;
// the resolver cancels the in-flight call on timeout and advances the chain.
type Adapter[T any] interface {
	Name() string
	Fetch(ctx context.Context, ticker string) (T, error)
}

// Validators reject syntactically-successful responses that carry no usable
// value. A validation failure is handled exactly like a hard adapter failure.

func validMarket(m contracts.MarketData) error {
	if m.CurrentPrice <= 0 {
		return contracts.ErrSourceUnavailable
	}
	return nil
}

func validFinancial(f contracts.FinancialData) error {
	c := f.Current
	if c.EPS == 0 && c.BPS <= 0 && c.PER <= 0 && c.PBR <= 0 {
		return contracts.ErrSourceUnavailable
	}
	return nil
}

func validTechnical(t contracts.TechnicalData) error {
	if t.MA20 <= 0 || t.RSI14 < 0 || t.RSI14 > 100 {
		return contracts.ErrSourceUnavailable
	}
	return nil
}

func validFlow(contracts.FlowData) error {
	// All-zero flow is a legitimate quiet market; nothing to reject.
	return nil
}
