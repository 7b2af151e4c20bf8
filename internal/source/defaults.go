package source

import "github.com/wonny/consensus/internal/contracts"

// Documented deterministic defaults substituted when a non-market field
// group exhausts its whole fallback chain. Availability over correctness:
// a degraded valuation is more useful to the caller than no valuation.

// DefaultFinancial returns neutral fundamentals derived against the current
// price (PER=15, PBR=1, dividend=0, per-share values backed out of the
// multiples).
func DefaultFinancial(currentPrice float64) contracts.FinancialData {
	return contracts.FinancialData{
		Current: contracts.FinancialRecord{}.Normalize(currentPrice),
	}
}

// DefaultTechnical returns neutral indicators centered on the current price:
// RSI 50, MACD 0, bands at ±5%, stochastics 50, beta 1.
func DefaultTechnical(currentPrice float64) contracts.TechnicalData {
	return contracts.TechnicalData{
		MA5:  currentPrice,
		MA20: currentPrice,
		MA60: currentPrice,

		RSI14: 50,

		BollingerUpper:  currentPrice * 1.05,
		BollingerMiddle: currentPrice,
		BollingerLower:  currentPrice * 0.95,

		StochasticK: 50,
		StochasticD: 50,

		Beta: 1.0,
	}
}

// DefaultFlow returns zero net flow for all windows.
func DefaultFlow() contracts.FlowData {
	return contracts.FlowData{}
}
