package naver

import (
	"testing"
	"time"
)

func TestParseChartResponse(t *testing.T) {
	body := `[['날짜','시가','고가','저가','종가','거래량'],
["20250828", 69000, 70500, 68500, 70000, 12345678],
["20250829", 70000, 71000, 69500, 70500, 10000000]]`

	candles, err := parseChartResponse(body)
	if err != nil {
		t.Fatalf("parseChartResponse() error = %v", err)
	}
	if len(candles) != 2 {
		t.Fatalf("len(candles) = %d, want 2", len(candles))
	}

	first := candles[0]
	wantDate := time.Date(2025, 8, 28, 0, 0, 0, 0, time.UTC)
	if !first.TradeDate.Equal(wantDate) {
		t.Errorf("TradeDate = %v, want %v", first.TradeDate, wantDate)
	}
	if first.Open != 69000 || first.High != 70500 || first.Low != 68500 || first.Close != 70000 {
		t.Errorf("OHLC = %v/%v/%v/%v, want 69000/70500/68500/70000",
			first.Open, first.High, first.Low, first.Close)
	}
	if first.Volume != 12345678 {
		t.Errorf("Volume = %d, want 12345678", first.Volume)
	}

	if candles[1].Close != 70500 {
		t.Errorf("second Close = %v, want 70500", candles[1].Close)
	}
}

func TestParseChartResponseSkipsBadRows(t *testing.T) {
	body := `[['날짜','시가','고가','저가','종가','거래량'],
["bad-date", 1, 2, 3, 4, 5],
["20250829", 70000, 71000, 69500, 70500, 10000000]]`

	candles, err := parseChartResponse(body)
	if err != nil {
		t.Fatalf("parseChartResponse() error = %v", err)
	}
	if len(candles) != 1 {
		t.Errorf("len(candles) = %d, want 1", len(candles))
	}
}

func TestParseChartResponseInvalidBody(t *testing.T) {
	if _, err := parseChartResponse("<html>blocked</html>"); err == nil {
		t.Error("expected error for non-JSON body")
	}
}
