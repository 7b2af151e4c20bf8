// Package quote fetches basic quote data from the Naver mobile REST API.
// It is the last market-group fallback: lighter than scraping, but it only
// covers price and capitalization.
package quote

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/wonny/consensus/internal/contracts"
	"github.com/wonny/consensus/pkg/httputil"
	"github.com/wonny/consensus/pkg/logger"
)

// Client handles communication with the mobile quote API
// ⭐ SSOT: 모바일 시세 API 호출은 이 클라이언트에서만
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string
}

// NewClient creates a new quote API client.
func NewClient(httpClient *httputil.Client, log *logger.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		logger:     log.WithField("module", "quote"),
		baseURL:    "https://m.stock.naver.com",
	}
}

// WithBaseURL overrides the endpoint. Used in tests.
func (c *Client) WithBaseURL(base string) *Client {
	c.baseURL = base
	return c
}

// basicResponse mirrors /api/stock/{ticker}/basic. Numbers arrive as
// comma-formatted strings.
type basicResponse struct {
	StockName                   string      `json:"stockName"`
	ClosePrice                  string      `json:"closePrice"`
	CompareToPreviousClosePrice string      `json:"compareToPreviousClosePrice"`
	AccumulatedTradingVolume    string      `json:"accumulatedTradingVolume"`
	MarketValue                 string      `json:"marketValue"` // 억원
	StockItemTotalInfos         []totalInfo `json:"stockItemTotalInfos"`
	LocalTradedAt               string      `json:"localTradedAt"`
}

type totalInfo struct {
	Code  string `json:"code"`
	Value string `json:"value"`
}

// FetchBasic fetches and parses one basic quote.
func (c *Client) FetchBasic(ctx context.Context, ticker string) (contracts.MarketData, error) {
	url := fmt.Sprintf("%s/api/stock/%s/basic", c.baseURL, ticker)

	body, err := c.httpClient.GetBody(ctx, url, map[string]string{
		"Accept":  "application/json, text/plain, */*",
		"Referer": "https://m.stock.naver.com/",
	})
	if err != nil {
		return contracts.MarketData{}, fmt.Errorf("fetch basic quote: %w", err)
	}

	var resp basicResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return contracts.MarketData{}, fmt.Errorf("decode basic quote: %w", err)
	}

	price := parseQuoteNum(resp.ClosePrice)
	if price <= 0 {
		return contracts.MarketData{}, fmt.Errorf("quote for %s has no price: %w",
			ticker, contracts.ErrSourceUnavailable)
	}

	out := contracts.MarketData{
		CurrentPrice:  price,
		PreviousClose: price - parseQuoteNum(resp.CompareToPreviousClosePrice),
		Volume:        int64(parseQuoteNum(resp.AccumulatedTradingVolume)),
		MarketCap:     parseQuoteNum(resp.MarketValue) * 1e8, // 억원 → 원
		TradeDate:     parseTradedAt(resp.LocalTradedAt),
	}

	for _, info := range resp.StockItemTotalInfos {
		switch info.Code {
		case "high52week":
			out.High52w = parseQuoteNum(info.Value)
		case "low52week":
			out.Low52w = parseQuoteNum(info.Value)
		case "listedStockCount":
			out.SharesOutstanding = parseQuoteNum(info.Value)
		}
	}

	c.logger.WithFields(map[string]interface{}{
		"ticker": ticker,
		"name":   resp.StockName,
		"price":  price,
	}).Debug("Fetched basic quote")
	return out, nil
}

// parseQuoteNum parses comma-formatted API numbers ("70,500", "-1,200").
func parseQuoteNum(s string) float64 {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, "+", "")
	if s == "" || s == "-" {
		return 0
	}
	f, _ := strconv.ParseFloat(s, 64)
	return f
}

// parseTradedAt parses the ISO-ish timestamp the API emits; the trade date
// is best-effort and zero when absent.
func parseTradedAt(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05-0700", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
