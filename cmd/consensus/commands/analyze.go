package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/consensus/internal/report"
	"github.com/wonny/consensus/pkg/config"
	"github.com/wonny/consensus/pkg/logger"
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze <ticker>",
	Short: "한 종목의 합의 가치평가 실행",
	Long: `지정한 종목 코드(6자리)에 대해 데이터를 수집하고 여섯 전략을 실행하여
합의 가치평가 리포트를 출력합니다.

Example:
  go run ./cmd/consensus analyze 005930`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

var analyzeTimeout time.Duration

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().DurationVar(&analyzeTimeout, "timeout", 2*time.Minute, "전체 분석 제한 시간")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ticker := args[0]

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
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

	ctx, cancel := context.WithTimeout(cmd.Context(), analyzeTimeout)
	defer cancel()

	result, err := svc.Analyze(ctx, ticker)
	if err != nil {
		return fmt.Errorf("analyze %s: %w", ticker, err)
	}

	fmt.Println(report.Render(result))
	return nil
}
