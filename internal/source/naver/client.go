package naver

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/wonny/consensus/pkg/httputil"
	"github.com/wonny/consensus/pkg/logger"
)

// Client handles communication with Naver Finance
// ⭐ SSOT: Naver Finance 호출은 이 클라이언트에서만
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string
	chartURL   string
}

// NewClient creates a new Naver Finance client.
func NewClient(httpClient *httputil.Client, log *logger.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		logger:     log.WithField("module", "naver"),
		baseURL:    "https://finance.naver.com",
		chartURL:   "https://fchart.stock.naver.com",
	}
}

// WithBaseURLs overrides endpoints. Used in tests.
func (c *Client) WithBaseURLs(base, chart string) *Client {
	c.baseURL = base
	c.chartURL = chart
	return c
}

var browserHeaders = map[string]string{
	"Referer": "https://finance.naver.com/",
}

// fetchHTML fetches an HTML page from Naver Finance.
func (c *Client) fetchHTML(ctx context.Context, path string, params url.Values) (string, error) {
	fullURL := fmt.Sprintf("%s%s", c.baseURL, path)
	if len(params) > 0 {
		fullURL = fmt.Sprintf("%s?%s", fullURL, params.Encode())
	}

	body, err := c.httpClient.GetBody(ctx, fullURL, browserHeaders)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", path, err)
	}
	return string(body), nil
}

// Candle represents one day of OHLCV data.
type Candle struct {
	TradeDate time.Time
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    int64
}

// parseNum parses Korean-formatted numbers ("1,234", "+567", "-89").
func parseNum(s string) int64 {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, "+", "")
	if s == "" || s == "-" {
		return 0
	}
	n, _ := strconv.ParseInt(s, 10, 64)
	return n
}

// parseFloat parses Korean-formatted decimal numbers ("1,234.56", "N/A").
func parseFloat(s string) float64 {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, "%", "")
	if s == "" || s == "-" || strings.EqualFold(s, "N/A") {
		return 0
	}
	f, _ := strconv.ParseFloat(s, 64)
	return f
}
