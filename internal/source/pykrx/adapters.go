package pykrx

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/wonny/consensus/internal/contracts"
)

// Field-group adapters over the subprocess worker. Each maps one worker
// method onto the canonical snapshot shape. Nullable worker fields (the
// worker reports non-positive fundamentals as null) decode into zero values
// and are normalized downstream.

const adapterName = "pykrx"

// MarketAdapter serves the price/market field group via getMarketData.
type MarketAdapter struct {
	worker *Worker
}

func NewMarketAdapter(w *Worker) *MarketAdapter { return &MarketAdapter{worker: w} }

func (a *MarketAdapter) Name() string { return adapterName }

type marketResponse struct {
	CurrentPrice      float64 `json:"currentPrice"`
	PreviousClose     float64 `json:"previousClose"`
	Volume            int64   `json:"volume"`
	High52w           float64 `json:"high52w"`
	Low52w            float64 `json:"low52w"`
	MarketCap         float64 `json:"marketCap"`
	SharesOutstanding float64 `json:"sharesOutstanding"`
	Date              string  `json:"date"` // YYYYMMDD
}

func (a *MarketAdapter) Fetch(ctx context.Context, ticker string) (contracts.MarketData, error) {
	raw, err := a.worker.Call(ctx, "getMarketData", map[string]string{"ticker": ticker})
	if err != nil {
		return contracts.MarketData{}, err
	}
	return decodeMarket(raw)
}

func decodeMarket(raw json.RawMessage) (contracts.MarketData, error) {
	var resp marketResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return contracts.MarketData{}, fmt.Errorf("decode market response: %w", err)
	}

	tradeDate, err := time.Parse("20060102", resp.Date)
	if err != nil {
		tradeDate = time.Time{}
	}

	return contracts.MarketData{
		CurrentPrice:      resp.CurrentPrice,
		PreviousClose:     resp.PreviousClose,
		Volume:            resp.Volume,
		High52w:           resp.High52w,
		Low52w:            resp.Low52w,
		MarketCap:         resp.MarketCap,
		SharesOutstanding: resp.SharesOutstanding,
		TradeDate:         tradeDate,
	}, nil
}

// FinancialAdapter serves fundamentals via getFinancialData.
type FinancialAdapter struct {
	worker *Worker
}

func NewFinancialAdapter(w *Worker) *FinancialAdapter { return &FinancialAdapter{worker: w} }

func (a *FinancialAdapter) Name() string { return adapterName }

type financialRecordResponse struct {
	Year int      `json:"year"`
	PER  *float64 `json:"per"`
	PBR  *float64 `json:"pbr"`
	EPS  *float64 `json:"eps"`
	BPS  *float64 `json:"bps"`
	Div  *float64 `json:"div"`
}

type financialResponse struct {
	financialRecordResponse
	History []financialRecordResponse `json:"history"`
}

func (a *FinancialAdapter) Fetch(ctx context.Context, ticker string) (contracts.FinancialData, error) {
	raw, err := a.worker.Call(ctx, "getFinancialData", map[string]string{"ticker": ticker})
	if err != nil {
		return contracts.FinancialData{}, err
	}
	return decodeFinancial(raw)
}

func decodeFinancial(raw json.RawMessage) (contracts.FinancialData, error) {
	var resp financialResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return contracts.FinancialData{}, fmt.Errorf("decode financial response: %w", err)
	}

	out := contracts.FinancialData{
		Current: toRecord(resp.financialRecordResponse),
	}

	// Keep at most 5 trailing annual records, most recent first
	for i, rec := range resp.History {
		if i >= 5 {
			break
		}
		out.History = append(out.History, toRecord(rec))
	}

	return out, nil
}

func toRecord(r financialRecordResponse) contracts.FinancialRecord {
	return contracts.FinancialRecord{
		Year:          r.Year,
		PER:           deref(r.PER),
		PBR:           deref(r.PBR),
		EPS:           deref(r.EPS),
		BPS:           deref(r.BPS),
		DividendYield: deref(r.Div),
	}
}

func deref(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}

// TechnicalAdapter serves technical indicators via getTechnicalIndicators.
type TechnicalAdapter struct {
	worker *Worker
}

func NewTechnicalAdapter(w *Worker) *TechnicalAdapter { return &TechnicalAdapter{worker: w} }

func (a *TechnicalAdapter) Name() string { return adapterName }

type technicalResponse struct {
	MA5              float64 `json:"ma5"`
	MA20             float64 `json:"ma20"`
	MA60             float64 `json:"ma60"`
	RSI14            float64 `json:"rsi14"`
	MACD             float64 `json:"macd"`
	MACDSignal       float64 `json:"macdSignal"`
	MACDHistogram    float64 `json:"macdHistogram"`
	BollingerUpper   float64 `json:"bollingerUpper"`
	BollingerMiddle  float64 `json:"bollingerMiddle"`
	BollingerLower   float64 `json:"bollingerLower"`
	StochasticK      float64 `json:"stochasticK"`
	StochasticD      float64 `json:"stochasticD"`
	VolatilityAnnual float64 `json:"volatilityAnnual"`
	SharpeRatio      float64 `json:"sharpeRatio"`
	Beta             float64 `json:"beta"`
	MaxDrawdown      float64 `json:"maxDrawdown"`
}

func (a *TechnicalAdapter) Fetch(ctx context.Context, ticker string) (contracts.TechnicalData, error) {
	raw, err := a.worker.Call(ctx, "getTechnicalIndicators", map[string]string{"ticker": ticker})
	if err != nil {
		return contracts.TechnicalData{}, err
	}
	return decodeTechnical(raw)
}

func decodeTechnical(raw json.RawMessage) (contracts.TechnicalData, error) {
	var resp technicalResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return contracts.TechnicalData{}, fmt.Errorf("decode technical response: %w", err)
	}

	beta := resp.Beta
	if beta == 0 {
		beta = 1.0
	}

	return contracts.TechnicalData{
		MA5:              resp.MA5,
		MA20:             resp.MA20,
		MA60:             resp.MA60,
		RSI14:            resp.RSI14,
		MACDLine:         resp.MACD,
		MACDSignal:       resp.MACDSignal,
		MACDHistogram:    resp.MACDHistogram,
		BollingerUpper:   resp.BollingerUpper,
		BollingerMiddle:  resp.BollingerMiddle,
		BollingerLower:   resp.BollingerLower,
		StochasticK:      resp.StochasticK,
		StochasticD:      resp.StochasticD,
		AnnualVolatility: resp.VolatilityAnnual,
		SharpeRatio:      resp.SharpeRatio,
		Beta:             beta,
		MaxDrawdown:      resp.MaxDrawdown,
	}, nil
}

// FlowAdapter serves investor flow via getSupplyDemand.
type FlowAdapter struct {
	worker *Worker
}

func NewFlowAdapter(w *Worker) *FlowAdapter { return &FlowAdapter{worker: w} }

func (a *FlowAdapter) Name() string { return adapterName }

type flowWindowResponse struct {
	ForeignNet     int64 `json:"foreignNet"`
	InstitutionNet int64 `json:"institutionNet"`
	IndividualNet  int64 `json:"individualNet"`
}

type flowResponse struct {
	FiveDays   flowWindowResponse `json:"fiveDays"`
	TwentyDays flowWindowResponse `json:"twentyDays"`
	SixtyDays  flowWindowResponse `json:"sixtyDays"`
}

func (a *FlowAdapter) Fetch(ctx context.Context, ticker string) (contracts.FlowData, error) {
	raw, err := a.worker.Call(ctx, "getSupplyDemand", map[string]string{"ticker": ticker})
	if err != nil {
		return contracts.FlowData{}, err
	}
	return decodeFlow(raw)
}

func decodeFlow(raw json.RawMessage) (contracts.FlowData, error) {
	var resp flowResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return contracts.FlowData{}, fmt.Errorf("decode flow response: %w", err)
	}

	toWindow := func(w flowWindowResponse) contracts.FlowWindow {
		return contracts.FlowWindow{
			ForeignNet:     w.ForeignNet,
			InstitutionNet: w.InstitutionNet,
			IndividualNet:  w.IndividualNet,
		}
	}

	return contracts.FlowData{
		Days5:  toWindow(resp.FiveDays),
		Days20: toWindow(resp.TwentyDays),
		Days60: toWindow(resp.SixtyDays),
	}, nil
}

// Peer is one comparable listed company by market-cap similarity.
type Peer struct {
	Ticker    string  `json:"ticker"`
	Name      string  `json:"name"`
	MarketCap float64 `json:"marketCap"`
}

type peersResponse struct {
	MainTicker string `json:"mainTicker"`
	Peers      []Peer `json:"peers"`
}

// SearchPeers returns comparable companies via the worker's searchPeers
// method. Not part of the Snapshot; used by the compare tool surface.
func (w *Worker) SearchPeers(ctx context.Context, ticker string) ([]Peer, error) {
	raw, err := w.Call(ctx, "searchPeers", map[string]string{"ticker": ticker})
	if err != nil {
		return nil, err
	}

	var resp peersResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("decode peers response: %w", err)
	}
	return resp.Peers, nil
}
