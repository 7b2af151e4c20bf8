package commands

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// createAnalyzeStockTool returns the analyze_stock tool definition
func createAnalyzeStockTool() mcp.Tool {
	return mcp.NewTool("analyze_stock",
		mcp.WithDescription("Run the full six-strategy consensus valuation for one Korean stock and return a markdown report"),
		mcp.WithString("ticker",
			mcp.Required(),
			mcp.Description("6-digit KRX ticker (e.g. 005930 for Samsung Electronics)"),
		),
	)
}

// createFetchSnapshotTool returns the fetch_snapshot tool definition
func createFetchSnapshotTool() mcp.Tool {
	return mcp.NewTool("fetch_snapshot",
		mcp.WithDescription("Fetch the raw data snapshot (market, financial, technical, investor flow) for one Korean stock without running valuations"),
		mcp.WithString("ticker",
			mcp.Required(),
			mcp.Description("6-digit KRX ticker"),
		),
	)
}

// createCompareStrategiesTool returns the compare_strategies tool definition
func createCompareStrategiesTool() mcp.Tool {
	return mcp.NewTool("compare_strategies",
		mcp.WithDescription("Compare the fair value, score and recommendation of all six valuation strategies side by side"),
		mcp.WithString("ticker",
			mcp.Required(),
			mcp.Description("6-digit KRX ticker"),
		),
	)
}

// createSearchPeersTool returns the search_peers tool definition
func createSearchPeersTool() mcp.Tool {
	return mcp.NewTool("search_peers",
		mcp.WithDescription("Find listed companies comparable to the given stock by market capitalization"),
		mcp.WithString("ticker",
			mcp.Required(),
			mcp.Description("6-digit KRX ticker"),
		),
	)
}
