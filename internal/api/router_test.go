package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/wonny/consensus/internal/analysis"
	"github.com/wonny/consensus/internal/api/handlers"
	"github.com/wonny/consensus/internal/contracts"
	"github.com/wonny/consensus/internal/strategy"
	"github.com/wonny/consensus/pkg/logger"
)

type stubAssembler struct {
	snap *contracts.Snapshot
	err  error
}

func (s *stubAssembler) Assemble(ctx context.Context, ticker string) (*contracts.Snapshot, error) {
	return s.snap, s.err
}

func newTestRouter(assembler analysis.Assembler, admit contracts.AdmissionFunc) http.Handler {
	svc := analysis.NewService(assembler, strategy.NewRegistry(logger.Nop()), admit, logger.Nop())
	return NewRouter(handlers.NewAnalyzeHandler(svc, logger.Nop()), logger.Nop())
}

func healthySnapshot() *contracts.Snapshot {
	return &contracts.Snapshot{
		Ticker: "005930",
		Market: contracts.MarketData{CurrentPrice: 50000, High52w: 80000, Low52w: 45000},
		Financial: contracts.FinancialData{
			Current: contracts.FinancialRecord{EPS: 5000, BPS: 40000, PER: 10, PBR: 1.2},
		},
	}
}

func TestHealthEndpoint(t *testing.T) {
	router := newTestRouter(&stubAssembler{snap: healthySnapshot()}, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status field = %v", body["status"])
	}
}

func TestAnalyzeEndpoint(t *testing.T) {
	router := newTestRouter(&stubAssembler{snap: healthySnapshot()}, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/v1/analyze/005930", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Ticker     string                        `json:"ticker"`
		Strategies []contracts.StrategyResult    `json:"strategies"`
		Consensus  *contracts.ConsensusValuation `json:"consensus"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if body.Ticker != "005930" {
		t.Errorf("ticker = %q", body.Ticker)
	}
	if len(body.Strategies) != 6 {
		t.Errorf("strategies = %d, want 6", len(body.Strategies))
	}
	if body.Consensus == nil {
		t.Error("consensus missing")
	}
}

func TestAnalyzeRejectsBadTicker(t *testing.T) {
	router := newTestRouter(&stubAssembler{snap: healthySnapshot()}, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/v1/analyze/AAPL12", nil))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestAnalyzeFatalSnapshotIsBadGateway(t *testing.T) {
	assembler := &stubAssembler{
		err: &contracts.FatalSnapshotError{Ticker: "005930", Reason: "all price sources down"},
	}
	router := newTestRouter(assembler, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/v1/analyze/005930", nil))

	if rec.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", rec.Code)
	}
}

func TestAnalyzeRateLimited(t *testing.T) {
	denied := func(ctx context.Context) error { return contracts.ErrRateLimited }
	router := newTestRouter(&stubAssembler{snap: healthySnapshot()}, denied)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/v1/analyze/005930", nil))

	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("status = %d, want 429", rec.Code)
	}
}

func TestSnapshotEndpoint(t *testing.T) {
	router := newTestRouter(&stubAssembler{snap: healthySnapshot()}, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/v1/snapshot/005930", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var snap contracts.Snapshot
	if err := json.Unmarshal(rec.Body.Bytes(), &snap); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if snap.Market.CurrentPrice != 50000 {
		t.Errorf("CurrentPrice = %v", snap.Market.CurrentPrice)
	}
}
