package naver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// FetchCandles fetches daily OHLCV candles from the Naver chart API,
// oldest first.
// ⭐ SSOT: Naver 일봉 조회는 이 함수에서만
func (c *Client) FetchCandles(ctx context.Context, ticker string, days int) ([]Candle, error) {
	to := time.Now()
	from := to.AddDate(0, 0, -days)

	fullURL := fmt.Sprintf(
		"%s/siseJson.naver?symbol=%s&requestType=1&startTime=%s&endTime=%s&timeframe=day",
		c.chartURL, ticker, from.Format("20060102"), to.Format("20060102"),
	)

	body, err := c.httpClient.GetBody(ctx, fullURL, browserHeaders)
	if err != nil {
		return nil, fmt.Errorf("fetch candles: %w", err)
	}

	candles, err := parseChartResponse(string(body))
	if err != nil {
		return nil, fmt.Errorf("parse candles: %w", err)
	}

	c.logger.WithFields(map[string]interface{}{
		"ticker": ticker,
		"count":  len(candles),
	}).Debug("Fetched candles")
	return candles, nil
}

// parseChartResponse parses the single-quoted JSON array the chart endpoint
// returns: [['날짜','시가',...], ["20250829", 70000, ...], ...]
func parseChartResponse(body string) ([]Candle, error) {
	body = strings.TrimSpace(body)
	body = strings.ReplaceAll(body, "'", `"`)

	var rawData [][]interface{}
	if err := json.Unmarshal([]byte(body), &rawData); err != nil {
		return nil, fmt.Errorf("unmarshal chart body: %w", err)
	}

	var candles []Candle
	for i, row := range rawData {
		if i == 0 || len(row) < 6 {
			continue // header row
		}

		dateStr, ok := row[0].(string)
		if !ok || len(dateStr) != 8 {
			continue
		}

		tradeDate, err := time.Parse("20060102", dateStr)
		if err != nil {
			continue
		}

		candles = append(candles, Candle{
			TradeDate: tradeDate,
			Open:      toFloat(row[1]),
			High:      toFloat(row[2]),
			Low:       toFloat(row[3]),
			Close:     toFloat(row[4]),
			Volume:    int64(toFloat(row[5])),
		})
	}

	return candles, nil
}

func toFloat(v interface{}) float64 {
	switch x := v.(type) {
	case float64:
		return x
	case string:
		return parseFloat(x)
	}
	return 0
}
