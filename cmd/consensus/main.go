package main

import (
	"os"

	"github.com/wonny/consensus/cmd/consensus/commands"
)

// main is the entry point for the consensus CLI
// ⭐ 통합 CLI 진입점: go run ./cmd/consensus [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
