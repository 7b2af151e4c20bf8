// Package report renders analysis results into the human-readable markdown
// returned by the MCP tools and the CLI.
package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/wonny/consensus/internal/analysis"
	"github.com/wonny/consensus/internal/contracts"
)

// Korean labels for the five recommendation levels.
var recommendationLabels = map[contracts.Recommendation]string{
	contracts.StrongBuy:  "적극 매수",
	contracts.Buy:        "매수",
	contracts.Hold:       "보유",
	contracts.Sell:       "매도",
	contracts.StrongSell: "적극 매도",
}

var methodLabels = map[string]string{
	contracts.MethodBuffett:    "버핏 (소유주 이익)",
	contracts.MethodLynch:      "린치 (GARP)",
	contracts.MethodGraham:     "그레이엄 (딥밸류)",
	contracts.MethodGreenblatt: "그린블라트 (마법공식)",
	contracts.MethodFisher:     "피셔 (성장 품질)",
	contracts.MethodTempleton:  "템플턴 (역발상)",
}

// Render builds the full markdown report for one analysis result.
func Render(result *analysis.Result) string {
	if result == nil || result.Snapshot == nil {
		return ""
	}
	snap := result.Snapshot

	var b strings.Builder
	fmt.Fprintf(&b, "# %s 가치평가 리포트\n\n", snap.Ticker)
	fmt.Fprintf(&b, "기준 시각: %s\n\n", snap.AsOf.Format("2006-01-02 15:04"))

	writeMarketSection(&b, snap)
	writeStrategySection(&b, result.Strategies)
	writeConsensusSection(&b, result.Consensus, snap.Market.CurrentPrice)
	writeQualitySection(&b, snap)

	return b.String()
}

// RenderSnapshot builds a markdown summary of one snapshot without
// running any strategy.
func RenderSnapshot(snap *contracts.Snapshot) string {
	if snap == nil {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s 스냅샷\n\n", snap.Ticker)
	fmt.Fprintf(&b, "기준 시각: %s\n\n", snap.AsOf.Format("2006-01-02 15:04"))

	writeMarketSection(&b, snap)

	tech := snap.Technical
	b.WriteString("## 기술적 지표\n\n")
	fmt.Fprintf(&b, "- MA5 %s / MA20 %s / MA60 %s원\n", comma(tech.MA5), comma(tech.MA20), comma(tech.MA60))
	fmt.Fprintf(&b, "- RSI(14) %.1f / MACD %.1f (시그널 %.1f)\n", tech.RSI14, tech.MACDLine, tech.MACDSignal)
	fmt.Fprintf(&b, "- 볼린저 밴드: %s ~ %s원\n", comma(tech.BollingerLower), comma(tech.BollingerUpper))
	fmt.Fprintf(&b, "- 연변동성 %.1f%% / 샤프 %.2f / 베타 %.2f / MDD %.1f%%\n\n",
		tech.AnnualVolatility, tech.SharpeRatio, tech.Beta, tech.MaxDrawdown)

	f20 := snap.Flow.Days20
	b.WriteString("## 수급 (20일 누적)\n\n")
	fmt.Fprintf(&b, "- 외국인 순매수: %s원\n", comma(float64(f20.ForeignNet)))
	fmt.Fprintf(&b, "- 기관 순매수: %s원\n", comma(float64(f20.InstitutionNet)))
	fmt.Fprintf(&b, "- 개인 순매수: %s원\n\n", comma(float64(f20.IndividualNet)))

	if len(snap.Sources) > 0 {
		b.WriteString("## 데이터 소스\n\n")
		groups := make([]string, 0, len(snap.Sources))
		for g := range snap.Sources {
			groups = append(groups, string(g))
		}
		sort.Strings(groups)
		for _, g := range groups {
			fmt.Fprintf(&b, "- %s: %s\n", g, snap.Sources[contracts.FieldGroup(g)])
		}
		b.WriteString("\n")
	}

	writeQualitySection(&b, snap)
	return b.String()
}

// RenderStrategies builds the per-strategy comparison table on its own,
// for tools that only want the strategy breakdown.
func RenderStrategies(ticker string, results []contracts.StrategyResult, price float64) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s 전략 비교\n\n", ticker)
	if price > 0 {
		fmt.Fprintf(&b, "현재가: %s원\n\n", comma(price))
	}
	writeStrategySection(&b, results)
	return b.String()
}

func writeMarketSection(b *strings.Builder, snap *contracts.Snapshot) {
	m := snap.Market
	cur := snap.Financial.Current

	b.WriteString("## 시장 데이터\n\n")
	fmt.Fprintf(b, "- 현재가: %s원\n", comma(m.CurrentPrice))
	if m.High52w > 0 && m.Low52w > 0 {
		fmt.Fprintf(b, "- 52주 범위: %s ~ %s원\n", comma(m.Low52w), comma(m.High52w))
	}
	if m.MarketCap > 0 {
		fmt.Fprintf(b, "- 시가총액: %s억원\n", comma(m.MarketCap/1e8))
	}
	fmt.Fprintf(b, "- PER %.1f / PBR %.2f / 배당수익률 %.2f%%\n", cur.PER, cur.PBR, cur.DividendYield)
	fmt.Fprintf(b, "- EPS %s원 / BPS %s원\n\n", comma(cur.EPS), comma(cur.BPS))
}

func writeStrategySection(b *strings.Builder, results []contracts.StrategyResult) {
	if len(results) == 0 {
		return
	}

	b.WriteString("## 전략별 평가\n\n")
	b.WriteString("| 전략 | 적정가 | 점수 | 의견 |\n")
	b.WriteString("|------|-------|------|------|\n")
	for _, res := range results {
		label := methodLabels[res.Method]
		if label == "" {
			label = res.Method
		}
		fair := "—"
		if res.FairValue > 0 {
			fair = comma(res.FairValue) + "원"
		}
		fmt.Fprintf(b, "| %s | %s | %.0f | %s |\n",
			label, fair, res.Score, recommendationLabels[res.Recommendation])
	}
	b.WriteString("\n")

	for _, res := range results {
		if len(res.Notes) == 0 {
			continue
		}
		fmt.Fprintf(b, "- %s: %s\n", methodLabels[res.Method], strings.Join(res.Notes, ", "))
	}
	b.WriteString("\n")
}

func writeConsensusSection(b *strings.Builder, con *contracts.ConsensusValuation, price float64) {
	b.WriteString("## 합의 가치평가\n\n")
	if con == nil {
		b.WriteString("유효한 적정가를 산출한 전략이 없어 합의 평가를 제공하지 않습니다.\n\n")
		return
	}

	fmt.Fprintf(b, "- 가중평균 적정가: %s원 (상승여력 %+.1f%%)\n", comma(con.WeightedAverage), con.UpsideWeighted)
	fmt.Fprintf(b, "- 중앙값: %s원 (%+.1f%%)\n", comma(con.Median), con.UpsideMedian)
	fmt.Fprintf(b, "- 보수적: %s원 (%+.1f%%)\n", comma(con.Conservative), con.UpsideConservative)
	fmt.Fprintf(b, "- 낙관적: %s원 (%+.1f%%)\n", comma(con.Optimistic), con.UpsideOptimistic)
	fmt.Fprintf(b, "- 참여 전략: %s\n\n", strings.Join(con.Contributors, ", "))
}

func writeQualitySection(b *strings.Builder, snap *contracts.Snapshot) {
	if len(snap.Degraded) == 0 {
		return
	}

	groups := make([]string, len(snap.Degraded))
	for i, g := range snap.Degraded {
		groups[i] = string(g)
	}
	sort.Strings(groups)

	b.WriteString("## 데이터 품질 주의\n\n")
	fmt.Fprintf(b, "다음 필드 그룹은 모든 소스가 실패하여 기본값으로 대체되었습니다: %s\n",
		strings.Join(groups, ", "))
}

// comma formats a number with thousands separators, dropping the fraction.
func comma(v float64) string {
	neg := v < 0
	if neg {
		v = -v
	}

	s := fmt.Sprintf("%.0f", v)
	var out []byte
	for i, c := range []byte(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, c)
	}
	if neg {
		return "-" + string(out)
	}
	return string(out)
}
