package naver

import "testing"

const sampleMainSummary = `
<html><body>
<em id="_market_sum">4조 1,800</em>
<div id="tab_con1">
<table>
<tr><th>시가총액순위</th><td>코스피 12위</td></tr>
<tr><th>상장주식수</th><td>5,919,637,922</td></tr>
<tr><th>액면가</th><td>100원</td></tr>
</table>
</div>
</body></html>`

func TestParseMainSummary(t *testing.T) {
	cap, shares := parseMainSummary(sampleMainSummary)

	// 4조 1,800억원 = 4.18e12원
	wantCap := 41800.0 * 1e8
	if cap != wantCap {
		t.Errorf("marketCap = %v, want %v", cap, wantCap)
	}
	if shares != 5919637922 {
		t.Errorf("shares = %v, want 5919637922", shares)
	}
}

func TestParseMainSummaryWithoutJo(t *testing.T) {
	html := `<em id="_market_sum">4,180</em>`
	cap, _ := parseMainSummary(html)
	if want := 4180.0 * 1e8; cap != want {
		t.Errorf("marketCap = %v, want %v", cap, want)
	}
}

func TestParseMainSummaryEmpty(t *testing.T) {
	cap, shares := parseMainSummary("<html></html>")
	if cap != 0 || shares != 0 {
		t.Errorf("got cap=%v shares=%v, want zeros", cap, shares)
	}
}
