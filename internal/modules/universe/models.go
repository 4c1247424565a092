package universe

import "math"

// Sentinel defaults imputed for missing fundamental fields before filtering.
// A missing P/E is pushed above the upper bound, a missing ROE below the
// lower bound, a missing DER treated as no leverage.
const (
	ImputedDER = 0.0
	ImputedPE  = 999.0
	ImputedROE = -1.0
)

// Fundamentals holds per-ticker fundamental metrics as fetched from the
// market data provider. Optional numeric fields are nil when the provider
// did not report them.
type Fundamentals struct {
	Ticker      string   `json:"ticker"`
	CompanyName string   `json:"company_name"`
	Sector      string   `json:"sector"`
	IsSyariah   bool     `json:"is_syariah"`
	MarketCap   float64  `json:"market_cap"`
	PERatio     *float64 `json:"pe_ratio,omitempty"`
	ROE         *float64 `json:"roe,omitempty"`
	DER         *float64 `json:"der,omitempty"`
}

// ImputedPERatio returns the P/E ratio with the missing-value sentinel applied.
func (f Fundamentals) ImputedPERatio() float64 {
	if f.PERatio == nil {
		return ImputedPE
	}
	return *f.PERatio
}

// ImputedROE returns the ROE with the missing-value sentinel applied.
func (f Fundamentals) ImputedROE() float64 {
	if f.ROE == nil {
		return ImputedROE
	}
	return *f.ROE
}

// ImputedDER returns the DER with the missing-value sentinel applied.
func (f Fundamentals) ImputedDER() float64 {
	if f.DER == nil {
		return ImputedDER
	}
	return *f.DER
}

// PriceTable is a table of daily closing prices: one row per date, one
// column per ticker. Missing observations are NaN. Columns preserves the
// column order; Data is keyed by ticker and aligned to Dates.
type PriceTable struct {
	Dates   []string // Ascending YYYY-MM-DD
	Columns []string
	Data    map[string][]float64
}

// Rows returns the number of date rows.
func (p PriceTable) Rows() int {
	return len(p.Dates)
}

// HasColumn reports whether the table has a price series for ticker.
func (p PriceTable) HasColumn(ticker string) bool {
	_, ok := p.Data[ticker]
	return ok
}

// LastDate returns the most recent date in the table, or "" when empty.
func (p PriceTable) LastDate() string {
	if len(p.Dates) == 0 {
		return ""
	}
	return p.Dates[len(p.Dates)-1]
}

// LastPrice returns the most recent price for ticker. The second return is
// false when the ticker is absent, the table is empty, or the last
// observation is missing or non-positive.
func (p PriceTable) LastPrice(ticker string) (float64, bool) {
	series, ok := p.Data[ticker]
	if !ok || len(series) == 0 {
		return 0, false
	}
	last := series[len(series)-1]
	if math.IsNaN(last) || last <= 0 {
		return 0, false
	}
	return last, true
}

// DropSparseColumns removes columns whose fraction of missing observations
// is maxMissing or higher. Column order is preserved.
func (p PriceTable) DropSparseColumns(maxMissing float64) PriceTable {
	out := PriceTable{
		Dates: p.Dates,
		Data:  make(map[string][]float64),
	}
	for _, ticker := range p.Columns {
		series := p.Data[ticker]
		missing := 0
		for _, v := range series {
			if math.IsNaN(v) {
				missing++
			}
		}
		if len(series) > 0 && float64(missing)/float64(len(series)) < maxMissing {
			out.Columns = append(out.Columns, ticker)
			out.Data[ticker] = series
		}
	}
	return out
}

// DropIncompleteRows removes every date row where any column is missing,
// leaving a fully dense table.
func (p PriceTable) DropIncompleteRows() PriceTable {
	out := PriceTable{
		Columns: p.Columns,
		Data:    make(map[string][]float64),
	}
	keep := make([]int, 0, len(p.Dates))
	for i := range p.Dates {
		complete := true
		for _, ticker := range p.Columns {
			if math.IsNaN(p.Data[ticker][i]) {
				complete = false
				break
			}
		}
		if complete {
			keep = append(keep, i)
		}
	}
	out.Dates = make([]string, len(keep))
	for j, i := range keep {
		out.Dates[j] = p.Dates[i]
	}
	for _, ticker := range p.Columns {
		series := make([]float64, len(keep))
		for j, i := range keep {
			series[j] = p.Data[ticker][i]
		}
		out.Data[ticker] = series
	}
	return out
}

// Restrict returns a table containing only the requested tickers, in the
// requested order. Tickers without a column are skipped.
func (p PriceTable) Restrict(tickers []string) PriceTable {
	out := PriceTable{
		Dates: p.Dates,
		Data:  make(map[string][]float64),
	}
	for _, ticker := range tickers {
		if series, ok := p.Data[ticker]; ok {
			out.Columns = append(out.Columns, ticker)
			out.Data[ticker] = series
		}
	}
	return out
}
