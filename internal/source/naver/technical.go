package naver

import (
	"context"
	"fmt"

	"github.com/wonny/consensus/internal/contracts"
	"github.com/wonny/consensus/internal/indicators"
)

// TechnicalAdapter serves the technical field group by computing indicators
// locally from scraped daily candles. Beta defaults to 1.0 here: the chart
// endpoint serves single instruments, not the index series.
type TechnicalAdapter struct {
	client *Client
}

func NewTechnicalAdapter(c *Client) *TechnicalAdapter { return &TechnicalAdapter{client: c} }

func (a *TechnicalAdapter) Name() string { return "naver" }

func (a *TechnicalAdapter) Fetch(ctx context.Context, ticker string) (contracts.TechnicalData, error) {
	candles, err := a.client.FetchCandles(ctx, ticker, 200)
	if err != nil {
		return contracts.TechnicalData{}, err
	}
	if len(candles) < 20 {
		return contracts.TechnicalData{}, fmt.Errorf("only %d candles for %s: %w",
			len(candles), ticker, contracts.ErrSourceUnavailable)
	}

	highs := make([]float64, len(candles))
	lows := make([]float64, len(candles))
	closes := make([]float64, len(candles))
	for i, cd := range candles {
		highs[i] = cd.High
		lows[i] = cd.Low
		closes[i] = cd.Close
	}

	return indicators.Compute(highs, lows, closes, nil), nil
}
