package naver

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/wonny/consensus/internal/contracts"
)

// MarketAdapter serves the price/market field group by combining the chart
// API (price history) with the stock main page (market cap, listed shares).
type MarketAdapter struct {
	client *Client
}

func NewMarketAdapter(c *Client) *MarketAdapter { return &MarketAdapter{client: c} }

func (a *MarketAdapter) Name() string { return "naver" }

func (a *MarketAdapter) Fetch(ctx context.Context, ticker string) (contracts.MarketData, error) {
	// A year of candles covers the 52-week range
	candles, err := a.client.FetchCandles(ctx, ticker, 370)
	if err != nil {
		return contracts.MarketData{}, err
	}
	if len(candles) == 0 {
		return contracts.MarketData{}, fmt.Errorf("no candles for %s: %w", ticker, contracts.ErrSourceUnavailable)
	}

	last := candles[len(candles)-1]
	out := contracts.MarketData{
		CurrentPrice: last.Close,
		Volume:       last.Volume,
		TradeDate:    last.TradeDate,
	}
	if len(candles) >= 2 {
		out.PreviousClose = candles[len(candles)-2].Close
	}

	for _, cd := range candles {
		if cd.High > out.High52w {
			out.High52w = cd.High
		}
		if out.Low52w == 0 || (cd.Low > 0 && cd.Low < out.Low52w) {
			out.Low52w = cd.Low
		}
	}

	// Market cap and share count live on the main page; best-effort only,
	// the snapshot can still derive shares from cap and price.
	html, err := a.client.fetchHTML(ctx, "/item/main.naver", url.Values{"code": {ticker}})
	if err == nil {
		cap, shares := parseMainSummary(html)
		out.MarketCap = cap
		out.SharesOutstanding = shares
	}

	return out, nil
}

// parseMainSummary extracts market cap (₩) and listed shares from the stock
// main page. Naver states 시가총액 in 억원.
func parseMainSummary(html string) (marketCap, shares float64) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return 0, 0
	}

	if capText := strings.TrimSpace(doc.Find("#_market_sum").Text()); capText != "" {
		// e.g. "4,180" or "4조 1,800" (억원)
		capText = strings.ReplaceAll(capText, "\n", "")
		capText = strings.ReplaceAll(capText, "\t", "")
		if strings.Contains(capText, "조") {
			parts := strings.SplitN(capText, "조", 2)
			marketCap = parseFloat(parts[0])*1e4 + parseFloat(parts[1])
		} else {
			marketCap = parseFloat(capText)
		}
		marketCap *= 1e8 // 억원 → 원
	}

	doc.Find("#tab_con1 table tr").EachWithBreak(func(_ int, row *goquery.Selection) bool {
		label := strings.TrimSpace(row.Find("th").Text())
		if strings.Contains(label, "상장주식수") {
			shares = float64(parseNum(row.Find("td").First().Text()))
			return false
		}
		return true
	})

	return marketCap, shares
}
