package quote

import (
	"context"

	"github.com/wonny/consensus/internal/contracts"
)

// MarketAdapter serves the market field group from the mobile quote API.
// This source covers only the market group; fundamentals, technicals and
// flow have no quote-API representation.
type MarketAdapter struct {
	client *Client
}

func NewMarketAdapter(c *Client) *MarketAdapter { return &MarketAdapter{client: c} }

func (a *MarketAdapter) Name() string { return "quote" }

func (a *MarketAdapter) Fetch(ctx context.Context, ticker string) (contracts.MarketData, error) {
	return a.client.FetchBasic(ctx, ticker)
}
