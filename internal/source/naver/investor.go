package naver

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/wonny/consensus/internal/contracts"
)

// investorRow is one trading day of investor net amounts, most recent first
// on the page.
type investorRow struct {
	TradeDate      time.Time
	ForeignNet     int64
	InstitutionNet int64
	IndividualNet  int64
}

// FlowAdapter serves the investor-flow field group by scraping the
// 외국인·기관 순매매 거래량 page.
type FlowAdapter struct {
	client *Client
}

func NewFlowAdapter(c *Client) *FlowAdapter { return &FlowAdapter{client: c} }

func (a *FlowAdapter) Name() string { return "naver" }

func (a *FlowAdapter) Fetch(ctx context.Context, ticker string) (contracts.FlowData, error) {
	rows, err := a.fetchRows(ctx, ticker, 60)
	if err != nil {
		return contracts.FlowData{}, err
	}
	if len(rows) == 0 {
		return contracts.FlowData{}, fmt.Errorf("no investor rows for %s: %w", ticker, contracts.ErrSourceUnavailable)
	}

	return contracts.FlowData{
		Days5:  sumWindow(rows, 5),
		Days20: sumWindow(rows, 20),
		Days60: sumWindow(rows, 60),
	}, nil
}

// fetchRows pages through the investor table until enough trading days are
// collected.
func (a *FlowAdapter) fetchRows(ctx context.Context, ticker string, want int) ([]investorRow, error) {
	var rows []investorRow
	noDataPages := 0

	for page := 1; page <= 10 && len(rows) < want; page++ {
		select {
		case <-ctx.Done():
			return rows, ctx.Err()
		default:
		}

		html, err := a.client.fetchHTML(ctx, "/item/frgn.naver", url.Values{
			"code": {ticker},
			"page": {strconv.Itoa(page)},
		})
		if err != nil {
			return rows, err
		}

		pageRows, hasMore := parseInvestorHTML(html)
		rows = append(rows, pageRows...)

		if len(pageRows) == 0 {
			noDataPages++
			if noDataPages >= 2 {
				break
			}
		} else {
			noDataPages = 0
		}

		if !hasMore {
			break
		}
	}

	a.client.logger.WithFields(map[string]interface{}{
		"ticker": ticker,
		"rows":   len(rows),
	}).Debug("Fetched investor flow")
	return rows, nil
}

var investorDateRe = regexp.MustCompile(`^\d{4}\.\d{2}\.\d{2}$`)

// parseInvestorHTML parses one page of the investor trading table.
// 컬럼: 날짜 | 종가 | 대비 | 등락률 | 거래량 | 기관 | 외국인
func parseInvestorHTML(html string) ([]investorRow, bool) {
	var rows []investorRow

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return rows, false
	}

	tables := doc.Find("table.type2")
	if tables.Length() < 2 {
		return rows, false
	}

	tables.Eq(1).Find("tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 7 {
			return
		}

		dateText := strings.TrimSpace(cells.Eq(0).Text())
		if !investorDateRe.MatchString(dateText) {
			return
		}

		tradeDate, err := time.Parse("2006.01.02", dateText)
		if err != nil {
			return
		}

		instNet := parseNum(cells.Eq(5).Text())
		foreignNet := parseNum(cells.Eq(6).Text())

		rows = append(rows, investorRow{
			TradeDate:      tradeDate,
			InstitutionNet: instNet,
			ForeignNet:     foreignNet,
			// 개인 순매수는 게시되지 않아 상쇄분으로 계산
			IndividualNet: -(foreignNet + instNet),
		})
	})

	hasMore := doc.Find(".pgRR").Length() > 0
	return rows, hasMore
}

// sumWindow sums the most recent days rows into one flow window.
func sumWindow(rows []investorRow, days int) contracts.FlowWindow {
	if days > len(rows) {
		days = len(rows)
	}

	var w contracts.FlowWindow
	for _, r := range rows[:days] {
		w.ForeignNet += r.ForeignNet
		w.InstitutionNet += r.InstitutionNet
		w.IndividualNet += r.IndividualNet
	}
	return w
}
