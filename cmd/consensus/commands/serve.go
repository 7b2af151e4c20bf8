package commands

import (
	"fmt"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/wonny/consensus/pkg/config"
	"github.com/wonny/consensus/pkg/logger"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "MCP stdio 서버 시작",
	Long: `MCP(Model Context Protocol) stdio 서버를 시작합니다.

제공 도구:
  analyze_stock       - 합의 가치평가 리포트
  fetch_snapshot      - 스냅샷 데이터 조회
  compare_strategies  - 전략별 적정가 비교
  search_peers        - 시총 기준 유사 기업 검색

Example:
  go run ./cmd/consensus serve`,
	RunE: runMCPServer,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runMCPServer(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// stdout is the MCP protocol channel; logs go to stderr only
	log := logger.NewStderr(cfg)

	svc, worker, cleanup, err := buildService(cfg, log)
	if err != nil {
		return fmt.Errorf("build service: %w", err)
	}
	defer cleanup()

	mcpServer := server.NewMCPServer(
		"consensus",
		"1.0.0",
		server.WithToolCapabilities(true),
	)

	mcpServer.AddTool(createAnalyzeStockTool(), handleAnalyzeStock(svc, log))
	mcpServer.AddTool(createFetchSnapshotTool(), handleFetchSnapshot(svc, log))
	mcpServer.AddTool(createCompareStrategiesTool(), handleCompareStrategies(svc, log))
	mcpServer.AddTool(createSearchPeersTool(), handleSearchPeers(worker, log))

	log.Info("Starting MCP stdio server")

	// Blocks on stdio
	if err := server.ServeStdio(mcpServer); err != nil {
		return fmt.Errorf("MCP server failed: %w", err)
	}
	return nil
}
