package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/cariantohs/mexc-data/internal/model"
)

// fundingHistoryPage is one page of GET /api/v1/contract/funding_rate/history.
type fundingHistoryPage struct {
	PageSize    int                `json:"pageSize"`
	TotalCount  int                `json:"totalCount"`
	TotalPage   int                `json:"totalPage"`
	CurrentPage int                `json:"currentPage"`
	ResultList  []fundingRateEntry `json:"resultList"`
}

type fundingRateEntry struct {
	Symbol      string          `json:"symbol"`
	FundingRate decimal.Decimal `json:"fundingRate"`
	SettleTime  int64           `json:"settleTime"`
}

// FundingHistory fetches all historical funding settlements for a symbol by
// walking page numbers 1..totalPage as declared by the server. Results come
// back in server order (newest first).
//
// Pagination here is count-driven, not cursor-driven, but the iteration is
// still capped at totalPage+1 requests in case the server's declared count
// drifts between pages.
func (c *Client) FundingHistory(ctx context.Context, symbol string, pageSize int) ([]model.FundingRecord, error) {
	if pageSize <= 0 {
		pageSize = 1000
	}

	var records []model.FundingRecord
	totalPage := 1
	maxRequests := 1

	for page := 1; page <= totalPage; page++ {
		query := url.Values{}
		query.Set("symbol", symbol)
		query.Set("page_num", strconv.Itoa(page))
		query.Set("page_size", strconv.Itoa(pageSize))

		var resp fundingHistoryPage
		if err := c.get(ctx, "/api/v1/contract/funding_rate/history", query, &resp); err != nil {
			return nil, fmt.Errorf("get funding history %s page %d: %w", symbol, page, err)
		}

		for _, e := range resp.ResultList {
			records = append(records, model.FundingRecord{
				Symbol:     e.Symbol,
				Rate:       e.FundingRate,
				SettleTime: e.SettleTime,
			})
		}

		// The server redeclares totalPage on every page. Trust it for the
		// stop condition, but never issue more requests than the first
		// page's declaration plus one.
		if resp.TotalPage > 0 {
			totalPage = resp.TotalPage
		}
		if page == 1 {
			maxRequests = totalPage + 1
		}

		c.logger.Debug("funding history page fetched",
			"symbol", symbol,
			"page", page,
			"total_pages", totalPage,
			"rows", len(records),
		)

		if page >= maxRequests {
			c.logger.Warn("funding history page count inconsistent, stopping",
				"symbol", symbol,
				"page", page,
				"declared_total", totalPage,
			)
			break
		}
	}

	return records, nil
}
