package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "consensus",
	Short: "한국 주식 합의 가치평가 엔진",
	Long: `Consensus - 한국 주식 가치평가 CLI

여섯 가지 투자 대가 전략(버핏·린치·그레이엄·그린블라트·피셔·템플턴)으로
하나의 종목을 평가하고 가중 합의 적정가를 산출합니다.

Usage:
  go run ./cmd/consensus [command]

Examples:
  go run ./cmd/consensus analyze 005930
  go run ./cmd/consensus serve
  go run ./cmd/consensus api --port 8090`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
