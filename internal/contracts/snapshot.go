package contracts

import (
	"math"
	"time"
)

// FieldGroup identifies one independently-fetched slice of a Snapshot.
type FieldGroup string

const (
	GroupMarket    FieldGroup = "market"
	GroupFinancial FieldGroup = "financial"
	GroupTechnical FieldGroup = "technical"
	GroupFlow      FieldGroup = "flow"
)

// Documented fallback values applied when a financial field is absent.
// 다운스트림 수식이 전함수(total function)가 되도록 null 대신 기본값 사용.
const (
	DefaultPER           = 15.0
	DefaultPBR           = 1.0
	DefaultDividendYield = 0.0
)

// MarketData holds current price and market statistics.
// CurrentPrice > 0 is load-bearing: without it no valuation is meaningful.
type MarketData struct {
	CurrentPrice      float64   `json:"current_price"`
	PreviousClose     float64   `json:"previous_close"`
	Volume            int64     `json:"volume"`
	High52w           float64   `json:"high_52w"`
	Low52w            float64   `json:"low_52w"`
	MarketCap         float64   `json:"market_cap"`
	SharesOutstanding float64   `json:"shares_outstanding"`
	TradeDate         time.Time `json:"trade_date"`
}

// FinancialRecord is one annual set of per-share fundamentals.
// Zero fields mean "absent" until Normalize fills the documented defaults.
type FinancialRecord struct {
	Year          int     `json:"year"`
	PER           float64 `json:"per"`
	PBR           float64 `json:"pbr"`
	EPS           float64 `json:"eps"`
	BPS           float64 `json:"bps"`
	DividendYield float64 `json:"dividend_yield"` // percent
}

// Normalize returns a copy with absent fields replaced by documented
// defaults, derived against the given current price where possible.
func (r FinancialRecord) Normalize(currentPrice float64) FinancialRecord {
	out := r

	if out.PER <= 0 {
		out.PER = DefaultPER
	}
	if out.PBR <= 0 {
		out.PBR = DefaultPBR
	}
	if out.DividendYield < 0 {
		out.DividendYield = DefaultDividendYield
	}

	// Derive per-share values from the multiples when missing
	if out.EPS == 0 && currentPrice > 0 {
		out.EPS = currentPrice / out.PER
	}
	if out.BPS <= 0 && currentPrice > 0 {
		out.BPS = currentPrice / out.PBR
	}

	return out
}

// FinancialData holds the current record plus up to 5 trailing annual records,
// most recent first.
type FinancialData struct {
	Current FinancialRecord   `json:"current"`
	History []FinancialRecord `json:"history,omitempty"`
}

// TechnicalData holds computed technical indicators.
type TechnicalData struct {
	MA5  float64 `json:"ma5"`
	MA20 float64 `json:"ma20"`
	MA60 float64 `json:"ma60"`

	RSI14 float64 `json:"rsi14"`

	MACDLine      float64 `json:"macd_line"`
	MACDSignal    float64 `json:"macd_signal"`
	MACDHistogram float64 `json:"macd_histogram"`

	BollingerUpper  float64 `json:"bollinger_upper"`
	BollingerMiddle float64 `json:"bollinger_middle"`
	BollingerLower  float64 `json:"bollinger_lower"`

	StochasticK float64 `json:"stochastic_k"`
	StochasticD float64 `json:"stochastic_d"`

	AnnualVolatility float64 `json:"annual_volatility"` // percent
	SharpeRatio      float64 `json:"sharpe_ratio"`
	Beta             float64 `json:"beta"`
	MaxDrawdown      float64 `json:"max_drawdown"` // percent, negative
}

// FlowWindow holds net traded amounts (₩) by investor class over one window.
type FlowWindow struct {
	ForeignNet     int64 `json:"foreign_net"`
	InstitutionNet int64 `json:"institution_net"`
	IndividualNet  int64 `json:"individual_net"`
}

// FlowData holds investor flow over the three standard windows.
type FlowData struct {
	Days5  FlowWindow `json:"days5"`
	Days20 FlowWindow `json:"days20"`
	Days60 FlowWindow `json:"days60"`
}

// Snapshot is the complete typed view of one instrument at one point in time.
// Immutable by convention: created once per analysis request, never mutated,
// never cached across requests.
type Snapshot struct {
	Ticker string    `json:"ticker"`
	AsOf   time.Time `json:"as_of"`

	Market    MarketData    `json:"market"`
	Financial FinancialData `json:"financial"`
	Technical TechnicalData `json:"technical"`
	Flow      FlowData      `json:"flow"`

	// Degraded lists field groups whose whole fallback chain was exhausted
	// and now carry documented defaults.
	Degraded []FieldGroup `json:"degraded,omitempty"`

	// Sources records the adapter that served each field group.
	Sources map[FieldGroup]string `json:"sources,omitempty"`
}

// IsDegraded reports whether the given field group fell back to defaults.
func (s *Snapshot) IsDegraded(group FieldGroup) bool {
	for _, g := range s.Degraded {
		if g == group {
			return true
		}
	}
	return false
}

// Shares returns outstanding shares, deriving from market cap when the
// direct figure is unavailable.
func (s *Snapshot) Shares() float64 {
	if s.Market.SharesOutstanding > 0 {
		return s.Market.SharesOutstanding
	}
	if s.Market.CurrentPrice > 0 && s.Market.MarketCap > 0 {
		return s.Market.MarketCap / s.Market.CurrentPrice
	}
	return 0
}

// EPSGrowthRate returns the annualized EPS growth rate (percent) over at most
// maxYears of trailing history. ok is false when history is insufficient or
// the base year is non-positive.
func (s *Snapshot) EPSGrowthRate(maxYears int) (growth float64, ok bool) {
	hist := s.Financial.History
	if maxYears > 0 && len(hist) > maxYears {
		hist = hist[:maxYears]
	}
	if len(hist) == 0 {
		return 0, false
	}

	oldest := hist[len(hist)-1]
	current := s.Financial.Current
	if oldest.EPS <= 0 || current.EPS <= 0 {
		return 0, false
	}

	years := float64(len(hist))
	cagr := math.Pow(current.EPS/oldest.EPS, 1/years) - 1
	return cagr * 100, true
}
