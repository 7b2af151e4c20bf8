package naver

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/wonny/consensus/internal/contracts"
)

// FinancialAdapter serves fundamentals by scraping the 기업실적분석 table
// on the stock main page: per-share figures for the current year plus the
// trailing annual columns.
type FinancialAdapter struct {
	client *Client
}

func NewFinancialAdapter(c *Client) *FinancialAdapter { return &FinancialAdapter{client: c} }

func (a *FinancialAdapter) Name() string { return "naver" }

func (a *FinancialAdapter) Fetch(ctx context.Context, ticker string) (contracts.FinancialData, error) {
	html, err := a.client.fetchHTML(ctx, "/item/main.naver", url.Values{"code": {ticker}})
	if err != nil {
		return contracts.FinancialData{}, err
	}

	data, err := parseFinancialTable(html)
	if err != nil {
		return contracts.FinancialData{}, fmt.Errorf("parse financial table: %w", err)
	}

	a.client.logger.WithFields(map[string]interface{}{
		"ticker":  ticker,
		"history": len(data.History),
	}).Debug("Fetched fundamentals")
	return data, nil
}

// annualColumn is one year column of the 기업실적분석 table.
type annualColumn struct {
	year   int
	record contracts.FinancialRecord
}

// parseFinancialTable extracts annual per-share figures from the main page.
// Estimate columns ("(E)") are skipped; only closed fiscal years count.
func parseFinancialTable(html string) (contracts.FinancialData, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return contracts.FinancialData{}, err
	}

	table := doc.Find("table.tb_type1_ifrs").First()
	if table.Length() == 0 {
		return contracts.FinancialData{}, fmt.Errorf("기업실적분석 table not found: %w", contracts.ErrSourceUnavailable)
	}

	// Period labels from the last header row; annual columns look like
	// "2024.12", estimates like "2025.12(E)", quarters like "2025.06".
	var columns []annualColumn
	colIndex := map[int]int{} // td position → columns index
	table.Find("thead tr").Last().Find("th").Each(func(i int, th *goquery.Selection) {
		label := strings.TrimSpace(th.Text())
		if strings.Contains(label, "(E)") {
			return
		}
		year, ok := parsePeriodYear(label)
		if !ok {
			return
		}
		// Annual section comes first; a repeated year means we reached
		// the quarterly section.
		for _, c := range columns {
			if c.year == year {
				return
			}
		}
		colIndex[i] = len(columns)
		columns = append(columns, annualColumn{year: year, record: contracts.FinancialRecord{Year: year}})
	})

	if len(columns) == 0 {
		return contracts.FinancialData{}, fmt.Errorf("no annual columns: %w", contracts.ErrSourceUnavailable)
	}

	table.Find("tbody tr").Each(func(_ int, row *goquery.Selection) {
		label := strings.TrimSpace(row.Find("th").First().Text())
		assign := fieldSetter(label)
		if assign == nil {
			return
		}
		row.Find("td").Each(func(i int, td *goquery.Selection) {
			idx, ok := colIndex[i]
			if !ok {
				return
			}
			assign(&columns[idx].record, parseFloat(td.Text()))
		})
	})

	// Most recent year first
	sort.Slice(columns, func(i, j int) bool { return columns[i].year > columns[j].year })

	out := contracts.FinancialData{Current: columns[0].record}
	for _, col := range columns[1:] {
		if len(out.History) >= 5 {
			break
		}
		out.History = append(out.History, col.record)
	}
	return out, nil
}

// fieldSetter maps a row label onto the record field it fills.
func fieldSetter(label string) func(*contracts.FinancialRecord, float64) {
	switch {
	case strings.HasPrefix(label, "EPS"):
		return func(r *contracts.FinancialRecord, v float64) { r.EPS = v }
	case strings.HasPrefix(label, "PER"):
		return func(r *contracts.FinancialRecord, v float64) { r.PER = v }
	case strings.HasPrefix(label, "BPS"):
		return func(r *contracts.FinancialRecord, v float64) { r.BPS = v }
	case strings.HasPrefix(label, "PBR"):
		return func(r *contracts.FinancialRecord, v float64) { r.PBR = v }
	case strings.Contains(label, "시가배당률"), strings.Contains(label, "배당수익률"):
		return func(r *contracts.FinancialRecord, v float64) { r.DividendYield = v }
	}
	return nil
}

// parsePeriodYear parses "2024.12" style period labels.
func parsePeriodYear(label string) (int, bool) {
	label = strings.TrimSpace(label)
	if len(label) < 7 || label[4] != '.' {
		return 0, false
	}
	year, err := strconv.Atoi(label[:4])
	if err != nil || year < 1990 || year > 2100 {
		return 0, false
	}
	// Annual columns close in December
	if !strings.HasPrefix(label[5:], "12") {
		return 0, false
	}
	return year, true
}
