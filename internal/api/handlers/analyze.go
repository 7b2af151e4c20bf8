package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"regexp"

	"github.com/gorilla/mux"

	"github.com/wonny/consensus/internal/analysis"
	"github.com/wonny/consensus/internal/contracts"
	"github.com/wonny/consensus/pkg/logger"
)

var tickerPattern = regexp.MustCompile(`^\d{6}$`)

// AnalyzeHandler handles valuation API endpoints
// ⭐ SSOT: 분석 API 핸들러는 이 구조체에서만
type AnalyzeHandler struct {
	service *analysis.Service
	logger  *logger.Logger
}

// NewAnalyzeHandler creates a new analyze handler.
func NewAnalyzeHandler(service *analysis.Service, log *logger.Logger) *AnalyzeHandler {
	return &AnalyzeHandler{
		service: service,
		logger:  log,
	}
}

// analyzeResponse is the JSON envelope for one analysis.
type analyzeResponse struct {
	Ticker     string                        `json:"ticker"`
	Snapshot   *contracts.Snapshot           `json:"snapshot"`
	Strategies []contracts.StrategyResult    `json:"strategies"`
	Consensus  *contracts.ConsensusValuation `json:"consensus,omitempty"`
}

// Analyze runs the full valuation pipeline for one ticker
// GET /api/v1/analyze/{ticker}
func (h *AnalyzeHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	ticker := mux.Vars(r)["ticker"]
	if !tickerPattern.MatchString(ticker) {
		respondError(w, http.StatusBadRequest, "ticker must be a 6-digit code")
		return
	}

	result, err := h.service.Analyze(r.Context(), ticker)
	if err != nil {
		switch {
		case errors.Is(err, contracts.ErrRateLimited):
			respondError(w, http.StatusTooManyRequests, "rate limit exceeded")
		case contracts.IsFatalSnapshot(err):
			h.logger.WithError(err).WithTicker(ticker).Warn("Snapshot failed")
			respondError(w, http.StatusBadGateway, "no price data available for ticker")
		default:
			h.logger.WithError(err).WithTicker(ticker).Error("Analysis failed")
			respondError(w, http.StatusInternalServerError, "analysis failed")
		}
		return
	}

	respondJSON(w, http.StatusOK, analyzeResponse{
		Ticker:     ticker,
		Snapshot:   result.Snapshot,
		Strategies: result.Strategies,
		Consensus:  result.Consensus,
	})
}

// Snapshot returns the assembled snapshot without running the strategies
// GET /api/v1/snapshot/{ticker}
func (h *AnalyzeHandler) Snapshot(w http.ResponseWriter, r *http.Request) {
	ticker := mux.Vars(r)["ticker"]
	if !tickerPattern.MatchString(ticker) {
		respondError(w, http.StatusBadRequest, "ticker must be a 6-digit code")
		return
	}

	snap, err := h.service.FetchSnapshot(r.Context(), ticker)
	if err != nil {
		switch {
		case errors.Is(err, contracts.ErrRateLimited):
			respondError(w, http.StatusTooManyRequests, "rate limit exceeded")
		case contracts.IsFatalSnapshot(err):
			respondError(w, http.StatusBadGateway, "no price data available for ticker")
		default:
			h.logger.WithError(err).WithTicker(ticker).Error("Snapshot failed")
			respondError(w, http.StatusInternalServerError, "snapshot failed")
		}
		return
	}

	respondJSON(w, http.StatusOK, snap)
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}
