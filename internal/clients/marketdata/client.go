// Package marketdata provides price history and fundamentals fetching from a
// Yahoo-Finance-style quote API.
package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/ronbokaya/advisor/internal/modules/universe"
)

// MaxMissingFraction drops a price column when this share of its
// observations (or more) is missing.
const MaxMissingFraction = 0.10

// Client for a Yahoo-Finance-style quote API.
type Client struct {
	baseURL      string
	client       *http.Client
	log          zerolog.Logger
	lookbackDays int
	now          func() time.Time
}

// NewClient creates a new market data client. lookbackDays controls how much
// daily price history is requested.
func NewClient(baseURL string, timeout time.Duration, lookbackDays int, log zerolog.Logger) *Client {
	return &Client{
		baseURL:      baseURL,
		client:       &http.Client{Timeout: timeout},
		log:          log.With().Str("client", "marketdata").Logger(),
		lookbackDays: lookbackDays,
		now:          time.Now,
	}
}

// chartResponse is the shape of /v8/finance/chart/{ticker}.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []*float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// quoteSummaryResponse is the shape of /v10/finance/quoteSummary/{ticker}.
type quoteSummaryResponse struct {
	QuoteSummary struct {
		Result []struct {
			Price struct {
				ShortName string     `json:"shortName"`
				MarketCap rawFloat64 `json:"marketCap"`
			} `json:"price"`
			SummaryDetail struct {
				TrailingPE rawFloat64 `json:"trailingPE"`
			} `json:"summaryDetail"`
			FinancialData struct {
				ReturnOnEquity rawFloat64 `json:"returnOnEquity"`
				DebtToEquity   rawFloat64 `json:"debtToEquity"`
			} `json:"financialData"`
			AssetProfile struct {
				Sector string `json:"sector"`
			} `json:"assetProfile"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"quoteSummary"`
}

// rawFloat64 is Yahoo's {"raw": 1.23, "fmt": "1.23"} numeric wrapper.
type rawFloat64 struct {
	Raw *float64 `json:"raw"`
}

// FetchUniverseData fetches daily closing prices and fundamentals for the
// given tickers and aligns them: price columns with too much missing data
// are dropped, tickers without a market cap are skipped, and the final
// price table is restricted to tickers that have both prices and
// fundamentals, with incomplete date rows removed.
func (c *Client) FetchUniverseData(ctx context.Context, tickers []string) ([]universe.Fundamentals, universe.PriceTable, error) {
	prices, err := c.fetchPrices(ctx, tickers)
	if err != nil {
		return nil, universe.PriceTable{}, err
	}

	prices = prices.DropSparseColumns(MaxMissingFraction)
	if len(prices.Columns) == 0 {
		return nil, universe.PriceTable{}, fmt.Errorf("no tickers with sufficient price history")
	}
	c.log.Info().
		Int("requested", len(tickers)).
		Int("with_prices", len(prices.Columns)).
		Msg("Fetched price history")

	fundamentals := make([]universe.Fundamentals, 0, len(prices.Columns))
	for _, ticker := range prices.Columns {
		fund, err := c.fetchFundamentals(ctx, ticker)
		if err != nil {
			c.log.Warn().Err(err).Str("ticker", ticker).Msg("Skipping ticker without fundamentals")
			continue
		}
		if fund.MarketCap == 0 {
			c.log.Warn().Str("ticker", ticker).Msg("Skipping ticker with missing market cap")
			continue
		}
		fundamentals = append(fundamentals, fund)
	}
	if len(fundamentals) == 0 {
		return nil, universe.PriceTable{}, fmt.Errorf("no fundamentals available for any ticker")
	}

	common := make([]string, len(fundamentals))
	for i, fund := range fundamentals {
		common[i] = fund.Ticker
	}
	prices = prices.Restrict(common).DropIncompleteRows()
	if prices.Rows() == 0 {
		return nil, universe.PriceTable{}, fmt.Errorf("no complete price rows after alignment")
	}

	c.log.Info().
		Int("tickers", len(fundamentals)).
		Int("rows", prices.Rows()).
		Str("as_of", prices.LastDate()).
		Msg("Fetched universe data")

	return fundamentals, prices, nil
}

// fetchPrices builds the union price table: one row per observed date, NaN
// where a ticker has no close. Tickers whose chart request fails are left as
// all-missing columns and dropped by the sparse-column pass.
func (c *Client) fetchPrices(ctx context.Context, tickers []string) (universe.PriceTable, error) {
	end := c.now()
	start := end.AddDate(0, 0, -c.lookbackDays)

	closesByTicker := make(map[string]map[string]float64)
	dateSet := make(map[string]bool)
	fetched := 0

	for _, ticker := range tickers {
		closes, err := c.fetchChart(ctx, ticker, start, end)
		if err != nil {
			c.log.Warn().Err(err).Str("ticker", ticker).Msg("Failed to fetch price history")
			closesByTicker[ticker] = map[string]float64{}
			continue
		}
		fetched++
		closesByTicker[ticker] = closes
		for date := range closes {
			dateSet[date] = true
		}
	}
	if fetched == 0 {
		return universe.PriceTable{}, fmt.Errorf("price download failed for all %d tickers", len(tickers))
	}

	dates := make([]string, 0, len(dateSet))
	for date := range dateSet {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	table := universe.PriceTable{
		Dates:   dates,
		Columns: tickers,
		Data:    make(map[string][]float64, len(tickers)),
	}
	for _, ticker := range tickers {
		series := make([]float64, len(dates))
		for i, date := range dates {
			if close, ok := closesByTicker[ticker][date]; ok {
				series[i] = close
			} else {
				series[i] = math.NaN()
			}
		}
		table.Data[ticker] = series
	}
	return table, nil
}

// fetchChart fetches one ticker's daily closes keyed by date.
func (c *Client) fetchChart(ctx context.Context, ticker string, start, end time.Time) (map[string]float64, error) {
	url := fmt.Sprintf("%s/v8/finance/chart/%s?period1=%d&period2=%d&interval=1d",
		c.baseURL, ticker, start.Unix(), end.Unix())

	var result chartResponse
	if err := c.getJSON(ctx, url, &result); err != nil {
		return nil, err
	}
	if result.Chart.Error != nil {
		return nil, fmt.Errorf("chart API error: %s", result.Chart.Error.Description)
	}
	if len(result.Chart.Result) == 0 || len(result.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, fmt.Errorf("empty chart result")
	}

	res := result.Chart.Result[0]
	quote := res.Indicators.Quote[0]
	closes := make(map[string]float64, len(res.Timestamp))
	for i, ts := range res.Timestamp {
		if i >= len(quote.Close) || quote.Close[i] == nil {
			continue
		}
		date := time.Unix(ts, 0).UTC().Format("2006-01-02")
		closes[date] = *quote.Close[i]
	}
	return closes, nil
}

// fetchFundamentals fetches one ticker's fundamental snapshot.
func (c *Client) fetchFundamentals(ctx context.Context, ticker string) (universe.Fundamentals, error) {
	url := fmt.Sprintf("%s/v10/finance/quoteSummary/%s?modules=price,summaryDetail,financialData,assetProfile",
		c.baseURL, ticker)

	var result quoteSummaryResponse
	if err := c.getJSON(ctx, url, &result); err != nil {
		return universe.Fundamentals{}, err
	}
	if result.QuoteSummary.Error != nil {
		return universe.Fundamentals{}, fmt.Errorf("quote summary API error: %s", result.QuoteSummary.Error.Description)
	}
	if len(result.QuoteSummary.Result) == 0 {
		return universe.Fundamentals{}, fmt.Errorf("empty quote summary result")
	}

	res := result.QuoteSummary.Result[0]
	fund := universe.Fundamentals{
		Ticker:      ticker,
		CompanyName: res.Price.ShortName,
		Sector:      res.AssetProfile.Sector,
		IsSyariah:   universe.SyariahByTicker[ticker],
		PERatio:     res.SummaryDetail.TrailingPE.Raw,
		ROE:         res.FinancialData.ReturnOnEquity.Raw,
		DER:         res.FinancialData.DebtToEquity.Raw,
	}
	if fund.CompanyName == "" {
		fund.CompanyName = ticker
	}
	if fund.Sector == "" {
		fund.Sector = "N/A"
	}
	if res.Price.MarketCap.Raw != nil {
		fund.MarketCap = *res.Price.MarketCap.Raw
	}
	return fund, nil
}

// getJSON performs a GET request and decodes the JSON body into out.
func (c *Client) getJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("API returned status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}
