package marketdata

import (
	"context"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBaseURL = "https://quote.test"

func newTestClient(t *testing.T) *Client {
	t.Helper()
	client := NewClient(testBaseURL, 5*time.Second, 120, zerolog.Nop())
	client.now = func() time.Time {
		return time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	}
	httpmock.ActivateNonDefault(client.client)
	t.Cleanup(httpmock.DeactivateAndReset)
	return client
}

// chartBody builds a chart response with daily closes starting at start.
// A nil entry marks a missing close.
func chartBody(start time.Time, closes []*float64) map[string]any {
	timestamps := make([]int64, len(closes))
	for i := range closes {
		timestamps[i] = start.AddDate(0, 0, i).Unix()
	}
	return map[string]any{
		"chart": map[string]any{
			"result": []map[string]any{{
				"timestamp": timestamps,
				"indicators": map[string]any{
					"quote": []map[string]any{{"close": closes}},
				},
			}},
		},
	}
}

func summaryBody(name, sector string, marketCap, pe, roe, der *float64) map[string]any {
	wrap := func(v *float64) map[string]any {
		if v == nil {
			return map[string]any{}
		}
		return map[string]any{"raw": *v}
	}
	return map[string]any{
		"quoteSummary": map[string]any{
			"result": []map[string]any{{
				"price": map[string]any{
					"shortName": name,
					"marketCap": wrap(marketCap),
				},
				"summaryDetail": map[string]any{"trailingPE": wrap(pe)},
				"financialData": map[string]any{
					"returnOnEquity": wrap(roe),
					"debtToEquity":   wrap(der),
				},
				"assetProfile": map[string]any{"sector": sector},
			}},
		},
	}
}

func fptr(v float64) *float64 { return &v }

func denseCloses(n int, base float64) []*float64 {
	closes := make([]*float64, n)
	for i := range closes {
		closes[i] = fptr(base + float64(i))
	}
	return closes
}

func registerChart(ticker string, body map[string]any) {
	httpmock.RegisterResponder("GET", `=~^`+testBaseURL+`/v8/finance/chart/`+ticker,
		httpmock.NewJsonResponderOrPanic(200, body))
}

func registerSummary(ticker string, body map[string]any) {
	httpmock.RegisterResponder("GET", `=~^`+testBaseURL+`/v10/finance/quoteSummary/`+ticker,
		httpmock.NewJsonResponderOrPanic(200, body))
}

func TestFetchUniverseData(t *testing.T) {
	client := newTestClient(t)
	start := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	registerChart("BBCA.JK", chartBody(start, denseCloses(70, 9000)))
	registerChart("BRIS.JK", chartBody(start, denseCloses(70, 2500)))
	registerSummary("BBCA.JK", summaryBody("Bank Central Asia", "Financial Services",
		fptr(1.1e15), fptr(24.0), fptr(0.21), fptr(80.0)))
	registerSummary("BRIS.JK", summaryBody("Bank Syariah Indonesia", "Financial Services",
		fptr(1.2e14), fptr(17.0), fptr(0.15), fptr(60.0)))

	fundamentals, prices, err := client.FetchUniverseData(context.Background(), []string{"BBCA.JK", "BRIS.JK"})
	require.NoError(t, err)
	require.Len(t, fundamentals, 2)

	assert.Equal(t, "BBCA.JK", fundamentals[0].Ticker)
	assert.Equal(t, "Bank Central Asia", fundamentals[0].CompanyName)
	assert.Equal(t, "Financial Services", fundamentals[0].Sector)
	assert.False(t, fundamentals[0].IsSyariah)
	assert.Equal(t, 1.1e15, fundamentals[0].MarketCap)
	require.NotNil(t, fundamentals[0].PERatio)
	assert.Equal(t, 24.0, *fundamentals[0].PERatio)

	assert.True(t, fundamentals[1].IsSyariah)

	assert.Equal(t, []string{"BBCA.JK", "BRIS.JK"}, prices.Columns)
	assert.Equal(t, 70, prices.Rows())
	assert.Equal(t, "2024-02-01", prices.Dates[0])

	last, ok := prices.LastPrice("BBCA.JK")
	require.True(t, ok)
	assert.Equal(t, 9069.0, last)
}

func TestFetchUniverseData_DropsSparseColumns(t *testing.T) {
	client := newTestClient(t)
	start := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	// Half of GOTO.JK's closes are missing; the column is dropped before
	// fundamentals are even requested.
	gappy := denseCloses(70, 60)
	for i := 0; i < 35; i++ {
		gappy[i*2] = nil
	}
	registerChart("BBCA.JK", chartBody(start, denseCloses(70, 9000)))
	registerChart("TLKM.JK", chartBody(start, denseCloses(70, 3000)))
	registerChart("GOTO.JK", chartBody(start, gappy))
	registerSummary("BBCA.JK", summaryBody("Bank Central Asia", "Financial Services",
		fptr(1.1e15), fptr(24.0), fptr(0.21), fptr(80.0)))
	registerSummary("TLKM.JK", summaryBody("Telkom Indonesia", "Communication Services",
		fptr(3.0e14), fptr(14.0), fptr(0.18), fptr(70.0)))

	fundamentals, prices, err := client.FetchUniverseData(context.Background(), []string{"BBCA.JK", "TLKM.JK", "GOTO.JK"})
	require.NoError(t, err)
	require.Len(t, fundamentals, 2)
	assert.Equal(t, []string{"BBCA.JK", "TLKM.JK"}, prices.Columns)
	assert.False(t, prices.HasColumn("GOTO.JK"))
}

func TestFetchUniverseData_SkipsMissingMarketCap(t *testing.T) {
	client := newTestClient(t)
	start := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	registerChart("BBCA.JK", chartBody(start, denseCloses(70, 9000)))
	registerChart("ARTO.JK", chartBody(start, denseCloses(70, 2000)))
	registerChart("ANTM.JK", chartBody(start, denseCloses(70, 1500)))
	registerSummary("BBCA.JK", summaryBody("Bank Central Asia", "Financial Services",
		fptr(1.1e15), fptr(24.0), fptr(0.21), fptr(80.0)))
	// ARTO.JK has no market cap, ANTM.JK's summary request fails.
	registerSummary("ARTO.JK", summaryBody("Bank Jago", "Financial Services",
		nil, fptr(90.0), fptr(0.01), fptr(20.0)))
	httpmock.RegisterResponder("GET", `=~^`+testBaseURL+`/v10/finance/quoteSummary/ANTM\.JK`,
		httpmock.NewStringResponder(500, "internal error"))

	fundamentals, prices, err := client.FetchUniverseData(context.Background(), []string{"BBCA.JK", "ARTO.JK", "ANTM.JK"})
	require.NoError(t, err)
	require.Len(t, fundamentals, 1)
	assert.Equal(t, "BBCA.JK", fundamentals[0].Ticker)
	assert.Equal(t, []string{"BBCA.JK"}, prices.Columns)
}

func TestFetchUniverseData_AllChartsFail(t *testing.T) {
	client := newTestClient(t)

	httpmock.RegisterResponder("GET", `=~^`+testBaseURL+`/v8/finance/chart/`,
		httpmock.NewStringResponder(502, "bad gateway"))

	_, _, err := client.FetchUniverseData(context.Background(), []string{"BBCA.JK", "BRIS.JK"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "price download failed")
}

func TestFetchUniverseData_AlignsRows(t *testing.T) {
	client := newTestClient(t)
	start := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	// TLKM.JK is missing two closes (under the 10% cutoff); those date rows
	// are dropped for everyone.
	gappy := denseCloses(70, 3000)
	gappy[10] = nil
	gappy[20] = nil
	registerChart("BBCA.JK", chartBody(start, denseCloses(70, 9000)))
	registerChart("TLKM.JK", chartBody(start, gappy))
	registerSummary("BBCA.JK", summaryBody("Bank Central Asia", "Financial Services",
		fptr(1.1e15), fptr(24.0), fptr(0.21), fptr(80.0)))
	registerSummary("TLKM.JK", summaryBody("Telkom Indonesia", "Communication Services",
		fptr(3.0e14), fptr(14.0), fptr(0.18), fptr(70.0)))

	_, prices, err := client.FetchUniverseData(context.Background(), []string{"BBCA.JK", "TLKM.JK"})
	require.NoError(t, err)
	assert.Equal(t, 68, prices.Rows())
}
