package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/consensus/internal/api"
	"github.com/wonny/consensus/internal/api/handlers"
	"github.com/wonny/consensus/pkg/config"
	"github.com/wonny/consensus/pkg/logger"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "REST API 서버 시작",
	Long: `가치평가 REST API 서버를 시작합니다.

Endpoints:
  GET /health                    - Health check
  GET /api/v1/analyze/{ticker}   - 합의 가치평가 실행
  GET /api/v1/snapshot/{ticker}  - 스냅샷 조회

Example:
  go run ./cmd/consensus api
  go run ./cmd/consensus api --port 8090`,
	RunE: runAPIServer,
}

var apiPort string

func init() {
	rootCmd.AddCommand(apiCmd)

	apiCmd.Flags().StringVar(&apiPort, "port", "", "API 서버 포트 (기본: PORT 환경변수)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if apiPort != "" {
		cfg.Port = apiPort
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	log := logger.New(cfg)

	svc, _, cleanup, err := buildService(cfg, log)
	if err != nil {
		return fmt.Errorf("build service: %w", err)
	}
	defer cleanup()

	analyzeHandler := handlers.NewAnalyzeHandler(svc, log)
	router := api.NewRouter(analyzeHandler, log)
	server := api.New(cfg, log, router)

	// Start server with graceful shutdown
	go func() {
		if err := server.Start(); err != nil {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	fmt.Printf("✅ Server running on http://localhost:%s\n", cfg.Port)

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(ctx)
}
