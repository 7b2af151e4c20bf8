package commands

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/wonny/consensus/internal/analysis"
	"github.com/wonny/consensus/internal/report"
	"github.com/wonny/consensus/internal/source/pykrx"
	"github.com/wonny/consensus/pkg/logger"
)

var mcpTickerPattern = regexp.MustCompile(`^\d{6}$`)

// requireTicker extracts and validates the ticker parameter, returning an
// error result for the client when it is missing or malformed.
func requireTicker(request mcp.CallToolRequest) (string, *mcp.CallToolResult) {
	ticker, err := request.RequireString("ticker")
	if err != nil || ticker == "" {
		return "", textResult("Error: ticker parameter is required")
	}
	if !mcpTickerPattern.MatchString(ticker) {
		return "", textResult(fmt.Sprintf("Error: ticker must be a 6-digit code, got %q", ticker))
	}
	return ticker, nil
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(text),
		},
	}
}

// handleAnalyzeStock implements the analyze_stock tool
func handleAnalyzeStock(svc *analysis.Service, log *logger.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ticker, errResult := requireTicker(request)
		if errResult != nil {
			return errResult, nil
		}

		result, err := svc.Analyze(ctx, ticker)
		if err != nil {
			log.WithTicker(ticker).Error("Analyze failed: " + err.Error())
			return textResult(fmt.Sprintf("Analysis error: %v", err)), nil
		}

		return textResult(report.Render(result)), nil
	}
}

// handleFetchSnapshot implements the fetch_snapshot tool
func handleFetchSnapshot(svc *analysis.Service, log *logger.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ticker, errResult := requireTicker(request)
		if errResult != nil {
			return errResult, nil
		}

		snap, err := svc.FetchSnapshot(ctx, ticker)
		if err != nil {
			log.WithTicker(ticker).Error("FetchSnapshot failed: " + err.Error())
			return textResult(fmt.Sprintf("Snapshot error: %v", err)), nil
		}

		return textResult(report.RenderSnapshot(snap)), nil
	}
}

// handleCompareStrategies implements the compare_strategies tool
func handleCompareStrategies(svc *analysis.Service, log *logger.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ticker, errResult := requireTicker(request)
		if errResult != nil {
			return errResult, nil
		}

		result, err := svc.Analyze(ctx, ticker)
		if err != nil {
			log.WithTicker(ticker).Error("Analyze failed: " + err.Error())
			return textResult(fmt.Sprintf("Analysis error: %v", err)), nil
		}

		markdown := report.RenderStrategies(ticker, result.Strategies, result.Snapshot.Market.CurrentPrice)
		return textResult(markdown), nil
	}
}

// handleSearchPeers implements the search_peers tool
func handleSearchPeers(worker *pykrx.Worker, log *logger.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ticker, errResult := requireTicker(request)
		if errResult != nil {
			return errResult, nil
		}

		peers, err := worker.SearchPeers(ctx, ticker)
		if err != nil {
			log.WithTicker(ticker).Error("SearchPeers failed: " + err.Error())
			return textResult(fmt.Sprintf("Peer search error: %v", err)), nil
		}
		if len(peers) == 0 {
			return textResult(fmt.Sprintf("%s: 유사 기업을 찾지 못했습니다.", ticker)), nil
		}

		var b strings.Builder
		fmt.Fprintf(&b, "# %s 유사 기업\n\n", ticker)
		b.WriteString("| 종목코드 | 기업명 | 시가총액(억원) |\n")
		b.WriteString("|---------|-------|---------------|\n")
		for _, p := range peers {
			fmt.Fprintf(&b, "| %s | %s | %.0f |\n", p.Ticker, p.Name, p.MarketCap/1e8)
		}
		return textResult(b.String()), nil
	}
}
