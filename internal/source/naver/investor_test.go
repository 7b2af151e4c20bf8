package naver

import (
	"testing"
	"time"
)

const sampleInvestorHTML = `
<html><body>
<table class="type2"><tr><td>일별시세 자리</td></tr></table>
<table class="type2">
<tr><th>날짜</th><th>종가</th><th>전일비</th><th>등락률</th><th>거래량</th><th>기관</th><th>외국인</th></tr>
<tr>
  <td>2025.08.29</td><td>70,500</td><td>500</td><td>+0.71%</td><td>10,000,000</td>
  <td>-500</td><td>+1,000</td>
</tr>
<tr>
  <td>2025.08.28</td><td>70,000</td><td>1,000</td><td>+1.45%</td><td>12,345,678</td>
  <td>2,000</td><td>-3,000</td>
</tr>
<tr><td colspan="7" class="ad">광고</td></tr>
</table>
<table class="Nnavi"><tr><td class="pgRR"><a href="?page=2">맨뒤</a></td></tr></table>
</body></html>`

func TestParseInvestorHTML(t *testing.T) {
	rows, hasMore := parseInvestorHTML(sampleInvestorHTML)
	if !hasMore {
		t.Error("hasMore = false, want true")
	}
	if len(rows) != 2 {
		t.Fatalf("len(rows) = %d, want 2", len(rows))
	}

	first := rows[0]
	wantDate := time.Date(2025, 8, 29, 0, 0, 0, 0, time.UTC)
	if !first.TradeDate.Equal(wantDate) {
		t.Errorf("TradeDate = %v, want %v", first.TradeDate, wantDate)
	}
	if first.InstitutionNet != -500 {
		t.Errorf("InstitutionNet = %d, want -500", first.InstitutionNet)
	}
	if first.ForeignNet != 1000 {
		t.Errorf("ForeignNet = %d, want 1000", first.ForeignNet)
	}
	// 개인 = -(외국인 + 기관)
	if first.IndividualNet != -500 {
		t.Errorf("IndividualNet = %d, want -500", first.IndividualNet)
	}

	second := rows[1]
	if second.ForeignNet != -3000 || second.InstitutionNet != 2000 || second.IndividualNet != 1000 {
		t.Errorf("second row = %+v, want foreign -3000 inst 2000 individual 1000", second)
	}
}

func TestParseInvestorHTMLNoTables(t *testing.T) {
	rows, hasMore := parseInvestorHTML("<html><body>점검중</body></html>")
	if len(rows) != 0 || hasMore {
		t.Errorf("got %d rows hasMore=%v, want empty and false", len(rows), hasMore)
	}
}

func TestSumWindow(t *testing.T) {
	rows := []investorRow{
		{ForeignNet: 100, InstitutionNet: 10, IndividualNet: -110},
		{ForeignNet: 200, InstitutionNet: 20, IndividualNet: -220},
		{ForeignNet: 300, InstitutionNet: 30, IndividualNet: -330},
	}

	w := sumWindow(rows, 2)
	if w.ForeignNet != 300 || w.InstitutionNet != 30 || w.IndividualNet != -330 {
		t.Errorf("sumWindow(2) = %+v", w)
	}

	// Window longer than the data sums everything available
	w = sumWindow(rows, 60)
	if w.ForeignNet != 600 || w.InstitutionNet != 60 || w.IndividualNet != -660 {
		t.Errorf("sumWindow(60) = %+v", w)
	}
}
