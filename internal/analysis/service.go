// Package analysis is the facade over the data and valuation core: fetch one
// snapshot, run the strategies, aggregate the consensus.
package analysis

import (
	"context"
	"fmt"

	"github.com/wonny/consensus/internal/consensus"
	"github.com/wonny/consensus/internal/contracts"
	"github.com/wonny/consensus/pkg/logger"
)

// Assembler builds snapshots; satisfied by snapshot.Assembler.
type Assembler interface {
	Assemble(ctx context.Context, ticker string) (*contracts.Snapshot, error)
}

// Runner fans out the strategies; satisfied by strategy.Registry.
type Runner interface {
	RunAll(snap *contracts.Snapshot) []contracts.StrategyResult
}

// Service wires the pipeline behind the two operations collaborators use.
// ⭐ SSOT: 분석 파이프라인 진입점은 여기서만
type Service struct {
	assembler Assembler
	runner    Runner
	admit     contracts.AdmissionFunc
	logger    *logger.Logger
}

// NewService creates the analysis facade. A nil admission check admits
// everything.
func NewService(assembler Assembler, runner Runner, admit contracts.AdmissionFunc, log *logger.Logger) *Service {
	if admit == nil {
		admit = contracts.AllowAll
	}
	return &Service{
		assembler: assembler,
		runner:    runner,
		admit:     admit,
		logger:    log.WithField("module", "analysis"),
	}
}

// FetchSnapshot assembles one snapshot after passing the admission check.
// The check runs before the first outbound call of the request.
func (s *Service) FetchSnapshot(ctx context.Context, ticker string) (*contracts.Snapshot, error) {
	if err := s.admit(ctx); err != nil {
		return nil, fmt.Errorf("admission denied for %s: %w", ticker, err)
	}
	return s.assembler.Assemble(ctx, ticker)
}

// RunConsensus evaluates every strategy over the snapshot and aggregates the
// consensus. Pure given a snapshot: repeated calls yield identical results.
// The consensus pointer is nil when no strategy produced a usable fair value.
func (s *Service) RunConsensus(ctx context.Context, snap *contracts.Snapshot) (*contracts.ConsensusValuation, []contracts.StrategyResult, error) {
	if snap == nil {
		return nil, nil, fmt.Errorf("nil snapshot")
	}
	if snap.Market.CurrentPrice <= 0 {
		return nil, nil, &contracts.FatalSnapshotError{
			Ticker: snap.Ticker,
			Reason: "snapshot has no positive current price",
		}
	}

	results := s.runner.RunAll(snap)
	con := consensus.Aggregate(results, snap.Market.CurrentPrice)

	s.logger.WithFields(map[string]interface{}{
		"ticker":     snap.Ticker,
		"strategies": len(results),
		"consensus":  con != nil,
	}).Info("Consensus computed")
	return con, results, nil
}

// Analyze runs the full pipeline for one ticker.
func (s *Service) Analyze(ctx context.Context, ticker string) (*Result, error) {
	snap, err := s.FetchSnapshot(ctx, ticker)
	if err != nil {
		return nil, err
	}

	con, results, err := s.RunConsensus(ctx, snap)
	if err != nil {
		return nil, err
	}

	return &Result{Snapshot: snap, Strategies: results, Consensus: con}, nil
}

// Result is the complete outcome of one analysis request.
type Result struct {
	Snapshot   *contracts.Snapshot
	Strategies []contracts.StrategyResult
	Consensus  *contracts.ConsensusValuation
}
