package indicators

import (
	"math"

	"github.com/wonny/consensus/internal/contracts"
)

// Pure indicator math over chronological daily series (oldest first).
// ⭐ SSOT: 기술적 지표 계산은 여기서만

const (
	tradingDaysPerYear = 252.0
	riskFreeAnnual     = 3.5 // percent, KTB 3Y proxy
)

// SMA returns the simple moving average of the last period closes.
// Falls back to the last close when the series is shorter than period.
func SMA(closes []float64, period int) float64 {
	n := len(closes)
	if n == 0 {
		return 0
	}
	if n < period {
		return closes[n-1]
	}

	var sum float64
	for _, c := range closes[n-period:] {
		sum += c
	}
	return sum / float64(period)
}

// EMA returns the exponential moving average over the whole series, seeded
// with the SMA of the first period values.
func EMA(closes []float64, period int) float64 {
	n := len(closes)
	if n == 0 {
		return 0
	}
	if n < period {
		return closes[n-1]
	}

	var sum float64
	for _, c := range closes[:period] {
		sum += c
	}
	ema := sum / float64(period)

	multiplier := 2.0 / (float64(period) + 1.0)
	for _, c := range closes[period:] {
		ema = c*multiplier + ema*(1-multiplier)
	}
	return ema
}

// RSI returns the period-day Relative Strength Index of the last closes.
// Neutral 50 when the series is too short.
func RSI(closes []float64, period int) float64 {
	n := len(closes)
	if n < period+1 {
		return 50
	}

	var gains, losses float64
	for i := n - period; i < n; i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			gains += change
		} else {
			losses += -change
		}
	}

	if losses == 0 {
		return 100
	}

	rs := gains / losses
	return 100 - (100 / (1 + rs))
}

// MACD returns the MACD(12,26) line, its 9-day signal line and the histogram.
func MACD(closes []float64) (line, signal, histogram float64) {
	n := len(closes)
	if n < 26 {
		return 0, 0, 0
	}

	// MACD series over the trailing window, enough points for the signal EMA
	points := 9 + 26
	start := n - points
	if start < 26 {
		start = 26
	}

	var series []float64
	for i := start; i <= n; i++ {
		series = append(series, EMA(closes[:i], 12)-EMA(closes[:i], 26))
	}

	line = series[len(series)-1]
	signal = EMA(series, 9)
	histogram = line - signal
	return line, signal, histogram
}

// Bollinger returns the upper/middle/lower Bollinger bands
// (period-day SMA ± width standard deviations).
func Bollinger(closes []float64, period int, width float64) (upper, middle, lower float64) {
	n := len(closes)
	if n == 0 {
		return 0, 0, 0
	}

	middle = SMA(closes, period)
	if n < period {
		return middle, middle, middle
	}

	var sumSq float64
	for _, c := range closes[n-period:] {
		d := c - middle
		sumSq += d * d
	}
	std := math.Sqrt(sumSq / float64(period))

	return middle + width*std, middle, middle - width*std
}

// Stochastic returns the %K/%D stochastic oscillator
// (period-day range, smooth-day %D).
func Stochastic(highs, lows, closes []float64, period, smooth int) (k, d float64) {
	n := len(closes)
	if n < period || len(highs) < n || len(lows) < n {
		return 50, 50
	}

	kAt := func(end int) float64 {
		hi, lo := highs[end-period], lows[end-period]
		for i := end - period + 1; i < end; i++ {
			if highs[i] > hi {
				hi = highs[i]
			}
			if lows[i] < lo {
				lo = lows[i]
			}
		}
		if hi == lo {
			return 50
		}
		return (closes[end-1] - lo) / (hi - lo) * 100
	}

	k = kAt(n)

	count := 0
	var sum float64
	for end := n; end >= period && count < smooth; end-- {
		sum += kAt(end)
		count++
	}
	if count == 0 {
		return k, k
	}
	return k, sum / float64(count)
}

// dailyReturns converts closes to simple daily returns.
func dailyReturns(closes []float64) []float64 {
	var returns []float64
	for i := 1; i < len(closes); i++ {
		if closes[i-1] != 0 {
			returns = append(returns, closes[i]/closes[i-1]-1)
		}
	}
	return returns
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func stddev(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	m := mean(xs)
	var sumSq float64
	for _, x := range xs {
		d := x - m
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(len(xs)-1))
}

// AnnualVolatility returns the annualized standard deviation of daily
// returns, in percent.
func AnnualVolatility(closes []float64) float64 {
	returns := dailyReturns(closes)
	return stddev(returns) * math.Sqrt(tradingDaysPerYear) * 100
}

// SharpeRatio returns the annualized Sharpe ratio against the domestic
// risk-free proxy.
func SharpeRatio(closes []float64) float64 {
	returns := dailyReturns(closes)
	vol := stddev(returns) * math.Sqrt(tradingDaysPerYear)
	if vol == 0 {
		return 0
	}

	annualReturn := mean(returns) * tradingDaysPerYear
	return (annualReturn - riskFreeAnnual/100) / vol
}

// Beta returns the beta of the stock's daily returns against an index
// series. 1.0 when either series is too short.
func Beta(closes, index []float64) float64 {
	sr := dailyReturns(closes)
	ir := dailyReturns(index)

	n := len(sr)
	if len(ir) < n {
		n = len(ir)
	}
	if n < 20 {
		return 1.0
	}

	sr = sr[len(sr)-n:]
	ir = ir[len(ir)-n:]

	sm, im := mean(sr), mean(ir)
	var cov, varIdx float64
	for i := 0; i < n; i++ {
		cov += (sr[i] - sm) * (ir[i] - im)
		varIdx += (ir[i] - im) * (ir[i] - im)
	}
	if varIdx == 0 {
		return 1.0
	}
	return cov / varIdx
}

// MaxDrawdown returns the worst peak-to-trough decline in percent
// (≤ 0; -30 means a 30% drawdown).
func MaxDrawdown(closes []float64) float64 {
	if len(closes) == 0 {
		return 0
	}

	peak := closes[0]
	worst := 0.0
	for _, c := range closes {
		if c > peak {
			peak = c
		}
		if peak > 0 {
			dd := (c/peak - 1) * 100
			if dd < worst {
				worst = dd
			}
		}
	}
	return worst
}

// Compute derives the full TechnicalData block from chronological OHLC
// series. Index may be nil; beta then defaults to 1.0.
func Compute(highs, lows, closes, index []float64) contracts.TechnicalData {
	macdLine, macdSignal, macdHist := MACD(closes)
	bbUpper, bbMiddle, bbLower := Bollinger(closes, 20, 2)
	stochK, stochD := Stochastic(highs, lows, closes, 14, 3)

	return contracts.TechnicalData{
		MA5:  SMA(closes, 5),
		MA20: SMA(closes, 20),
		MA60: SMA(closes, 60),

		RSI14: RSI(closes, 14),

		MACDLine:      macdLine,
		MACDSignal:    macdSignal,
		MACDHistogram: macdHist,

		BollingerUpper:  bbUpper,
		BollingerMiddle: bbMiddle,
		BollingerLower:  bbLower,

		StochasticK: stochK,
		StochasticD: stochD,

		AnnualVolatility: AnnualVolatility(closes),
		SharpeRatio:      SharpeRatio(closes),
		Beta:             Beta(closes, index),
		MaxDrawdown:      MaxDrawdown(closes),
	}
}
