// Package snapshot assembles complete per-instrument snapshots by resolving
// the four field groups concurrently and reconciling the results.
package snapshot

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/wonny/consensus/internal/contracts"
	"github.com/wonny/consensus/internal/source"
	"github.com/wonny/consensus/pkg/logger"
)

// Assembler builds Snapshots from a group resolver.
// ⭐ SSOT: 스냅샷 조립은 여기서만
type Assembler struct {
	resolver source.GroupResolver
	logger   *logger.Logger
	now      func() time.Time
}

// NewAssembler creates an Assembler over the given resolver.
func NewAssembler(resolver source.GroupResolver, log *logger.Logger) *Assembler {
	return &Assembler{
		resolver: resolver,
		logger:   log.WithField("module", "snapshot"),
		now:      time.Now,
	}
}

// Assemble resolves all four field groups concurrently and joins them into
// one immutable Snapshot.
//
// Market-group failure fails the whole request: without a positive price no
// default makes any valuation meaningful. The other groups substitute
// documented defaults derived against the resolved price, and the snapshot
// records which groups degraded.
func (a *Assembler) Assemble(ctx context.Context, ticker string) (*contracts.Snapshot, error) {
	var (
		wg sync.WaitGroup

		market    contracts.MarketData
		marketSrc string
		marketErr error

		financial    contracts.FinancialData
		financialSrc string
		financialDeg bool

		technical    contracts.TechnicalData
		technicalSrc string
		technicalDeg bool

		flow    contracts.FlowData
		flowSrc string
		flowDeg bool
	)

	wg.Add(4)
	go func() {
		defer wg.Done()
		market, marketSrc, marketErr = a.resolver.ResolveMarket(ctx, ticker)
	}()
	go func() {
		defer wg.Done()
		financial, financialSrc, financialDeg = a.resolver.ResolveFinancial(ctx, ticker)
	}()
	go func() {
		defer wg.Done()
		technical, technicalSrc, technicalDeg = a.resolver.ResolveTechnical(ctx, ticker)
	}()
	go func() {
		defer wg.Done()
		flow, flowSrc, flowDeg = a.resolver.ResolveFlow(ctx, ticker)
	}()
	wg.Wait()

	if marketErr != nil {
		return nil, marketErr
	}

	// 체결 시각이 있으면 그것이 기준 시각, 없으면 수집 시각
	asOf := market.TradeDate
	if asOf.IsZero() {
		asOf = a.now()
	}

	snap := &contracts.Snapshot{
		Ticker:  ticker,
		AsOf:    asOf,
		Market:  market,
		Sources: map[contracts.FieldGroup]string{contracts.GroupMarket: marketSrc},
	}

	price := market.CurrentPrice

	if financialDeg {
		snap.Financial = source.DefaultFinancial(price)
		snap.Degraded = append(snap.Degraded, contracts.GroupFinancial)
	} else {
		snap.Financial = normalizeFinancial(financial, price)
		snap.Sources[contracts.GroupFinancial] = financialSrc
	}

	if technicalDeg {
		snap.Technical = source.DefaultTechnical(price)
		snap.Degraded = append(snap.Degraded, contracts.GroupTechnical)
	} else {
		snap.Technical = technical
		snap.Sources[contracts.GroupTechnical] = technicalSrc
	}

	if flowDeg {
		snap.Flow = source.DefaultFlow()
		snap.Degraded = append(snap.Degraded, contracts.GroupFlow)
	} else {
		snap.Flow = flow
		snap.Sources[contracts.GroupFlow] = flowSrc
	}

	sort.Slice(snap.Degraded, func(i, j int) bool { return snap.Degraded[i] < snap.Degraded[j] })

	a.logger.WithFields(map[string]interface{}{
		"ticker":   ticker,
		"price":    price,
		"degraded": len(snap.Degraded),
	}).Info("Snapshot assembled")
	return snap, nil
}

// normalizeFinancial fills documented defaults into the current record and
// every history record against the resolved price.
func normalizeFinancial(data contracts.FinancialData, price float64) contracts.FinancialData {
	out := contracts.FinancialData{Current: data.Current.Normalize(price)}
	for _, rec := range data.History {
		out.History = append(out.History, rec.Normalize(price))
	}
	return out
}
