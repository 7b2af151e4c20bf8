package pykrx

import (
	"encoding/json"
	"testing"
)

func TestDecodeMarket(t *testing.T) {
	raw := json.RawMessage(`{
		"currentPrice": 70000,
		"previousClose": 69500,
		"volume": 12345678,
		"high52w": 88000,
		"low52w": 54000,
		"marketCap": 418000000000000,
		"sharesOutstanding": 5969782550,
		"date": "20250829"
	}`)

	m, err := decodeMarket(raw)
	if err != nil {
		t.Fatalf("decodeMarket() error = %v", err)
	}

	if m.CurrentPrice != 70000 {
		t.Errorf("CurrentPrice = %v, want 70000", m.CurrentPrice)
	}
	if m.PreviousClose != 69500 {
		t.Errorf("PreviousClose = %v, want 69500", m.PreviousClose)
	}
	if m.Volume != 12345678 {
		t.Errorf("Volume = %v, want 12345678", m.Volume)
	}
	if m.TradeDate.Format("20060102") != "20250829" {
		t.Errorf("TradeDate = %v, want 2025-08-29", m.TradeDate)
	}
}

func TestDecodeMarket_Malformed(t *testing.T) {
	if _, err := decodeMarket(json.RawMessage(`["not","an","object"]`)); err == nil {
		t.Error("decodeMarket() expected error for malformed payload")
	}
}

func TestDecodeFinancial_NullableFields(t *testing.T) {
	// Worker reports non-positive fundamentals as null (negative PER case)
	raw := json.RawMessage(`{
		"year": 2025,
		"per": null,
		"pbr": 0.9,
		"eps": null,
		"bps": 30000,
		"div": 2.5,
		"history": [
			{"year": 2024, "per": 12.0, "pbr": 1.1, "eps": 4500, "bps": 28000, "div": 2.0},
			{"year": 2023, "per": 10.5, "pbr": 1.0, "eps": 4100, "bps": 26500, "div": 1.8}
		]
	}`)

	f, err := decodeFinancial(raw)
	if err != nil {
		t.Fatalf("decodeFinancial() error = %v", err)
	}

	if f.Current.PER != 0 {
		t.Errorf("null PER decoded to %v, want 0 (absent)", f.Current.PER)
	}
	if f.Current.PBR != 0.9 {
		t.Errorf("PBR = %v, want 0.9", f.Current.PBR)
	}
	if len(f.History) != 2 {
		t.Fatalf("history length = %d, want 2", len(f.History))
	}
	if f.History[0].Year != 2024 || f.History[0].EPS != 4500 {
		t.Errorf("history[0] = %+v, want year 2024 EPS 4500", f.History[0])
	}
}

func TestDecodeFinancial_HistoryCappedAtFive(t *testing.T) {
	raw := json.RawMessage(`{
		"year": 2025, "eps": 5000,
		"history": [
			{"year": 2024, "eps": 1},
			{"year": 2023, "eps": 2},
			{"year": 2022, "eps": 3},
			{"year": 2021, "eps": 4},
			{"year": 2020, "eps": 5},
			{"year": 2019, "eps": 6},
			{"year": 2018, "eps": 7}
		]
	}`)

	f, err := decodeFinancial(raw)
	if err != nil {
		t.Fatalf("decodeFinancial() error = %v", err)
	}
	if len(f.History) != 5 {
		t.Errorf("history length = %d, want 5", len(f.History))
	}
}

func TestDecodeTechnical(t *testing.T) {
	raw := json.RawMessage(`{
		"ma5": 70100, "ma20": 69800, "ma60": 68000,
		"rsi14": 55.2,
		"macd": 120.5, "macdSignal": 95.1, "macdHistogram": 25.4,
		"bollingerUpper": 72500, "bollingerMiddle": 69800, "bollingerLower": 67100,
		"stochasticK": 62.1, "stochasticD": 58.9,
		"volatilityAnnual": 28.4, "sharpeRatio": 0.8, "beta": 1.1, "maxDrawdown": -18.2
	}`)

	td, err := decodeTechnical(raw)
	if err != nil {
		t.Fatalf("decodeTechnical() error = %v", err)
	}

	if td.RSI14 != 55.2 {
		t.Errorf("RSI14 = %v, want 55.2", td.RSI14)
	}
	if td.MACDLine != 120.5 || td.MACDSignal != 95.1 {
		t.Errorf("MACD = (%v, %v), want (120.5, 95.1)", td.MACDLine, td.MACDSignal)
	}
	if td.Beta != 1.1 {
		t.Errorf("Beta = %v, want 1.1", td.Beta)
	}
}

func TestDecodeTechnical_MissingBetaDefaultsToOne(t *testing.T) {
	raw := json.RawMessage(`{"ma5": 100, "ma20": 100, "ma60": 100, "rsi14": 50}`)

	td, err := decodeTechnical(raw)
	if err != nil {
		t.Fatalf("decodeTechnical() error = %v", err)
	}
	if td.Beta != 1.0 {
		t.Errorf("Beta = %v, want default 1.0", td.Beta)
	}
}

func TestDecodeFlow(t *testing.T) {
	raw := json.RawMessage(`{
		"fiveDays":   {"foreignNet": 1500000000, "institutionNet": -800000000, "individualNet": -700000000},
		"twentyDays": {"foreignNet": 4200000000, "institutionNet": -2000000000, "individualNet": -2200000000},
		"sixtyDays":  {"foreignNet": -1000000000, "institutionNet": 500000000, "individualNet": 500000000}
	}`)

	f, err := decodeFlow(raw)
	if err != nil {
		t.Fatalf("decodeFlow() error = %v", err)
	}

	if f.Days5.ForeignNet != 1500000000 {
		t.Errorf("Days5.ForeignNet = %v, want 1500000000", f.Days5.ForeignNet)
	}
	if f.Days60.InstitutionNet != 500000000 {
		t.Errorf("Days60.InstitutionNet = %v, want 500000000", f.Days60.InstitutionNet)
	}
}
