// Package universe narrows the curated stock universe to the tickers
// eligible for optimization, applying fundamental thresholds and the user's
// preference filters.
package universe

import (
	"github.com/rs/zerolog"

	"github.com/ronbokaya/advisor/internal/domain"
	"github.com/ronbokaya/advisor/internal/modules/profile"
)

// Fundamental eligibility thresholds. Missing fields are imputed before the
// comparison (see the Imputed* constants).
const (
	MinMarketCap = 5e12
	MaxPERatio   = 30.0
	MinROE       = 0.08
	MaxDER       = 2.0
)

// MinAssets is the smallest universe the optimizer can diversify over.
const MinAssets = 2

// Filter selects optimization-eligible tickers from fetched fundamentals
// and price history.
type Filter struct {
	log zerolog.Logger
}

// NewFilter creates a new universe filter.
func NewFilter(log zerolog.Logger) *Filter {
	return &Filter{
		log: log.With().Str("component", "universe").Logger(),
	}
}

// Eligible applies the fundamental thresholds, then the preference filters,
// then intersects the survivors with the available price columns. It returns
// the eligible fundamentals in input order together with the price table
// restricted to them.
//
// Failures are tagged: an empty fundamental pass returns "no stocks passed
// fundamental filter"; fewer than MinAssets survivors after preference and
// price intersection returns "insufficient diversifiable stocks".
func (f *Filter) Eligible(fundamentals []Fundamentals, prices PriceTable, filters profile.UniverseFilters) ([]Fundamentals, PriceTable, error) {
	passed := make([]Fundamentals, 0, len(fundamentals))
	for _, fund := range fundamentals {
		if passesFundamentals(fund) {
			passed = append(passed, fund)
		}
	}
	if len(passed) == 0 {
		return nil, PriceTable{}, domain.NewPipelineError(
			domain.ReasonFilterExhausted, "no stocks passed fundamental filter")
	}
	f.log.Debug().Int("passed", len(passed)).Int("universe", len(fundamentals)).
		Msg("Applied fundamental thresholds")

	if filters.SyariahOnly {
		passed = keep(passed, func(fund Fundamentals) bool { return fund.IsSyariah })
	}
	if len(filters.Sectors) > 0 {
		wanted := make(map[string]bool, len(filters.Sectors))
		for _, sector := range filters.Sectors {
			wanted[sector] = true
		}
		passed = keep(passed, func(fund Fundamentals) bool { return wanted[fund.Sector] })
	}

	// Only tickers with a usable price history can be optimized.
	eligible := keep(passed, func(fund Fundamentals) bool { return prices.HasColumn(fund.Ticker) })
	if len(eligible) < MinAssets {
		f.log.Warn().Int("eligible", len(eligible)).
			Bool("syariah_only", filters.SyariahOnly).
			Strs("sectors", filters.Sectors).
			Msg("Universe too small to diversify")
		return nil, PriceTable{}, domain.NewPipelineError(
			domain.ReasonFilterExhausted, "insufficient diversifiable stocks")
	}

	tickers := make([]string, len(eligible))
	for i, fund := range eligible {
		tickers[i] = fund.Ticker
	}
	return eligible, prices.Restrict(tickers), nil
}

// passesFundamentals is the eligibility predicate with missing-value
// imputation applied.
func passesFundamentals(f Fundamentals) bool {
	pe := f.ImputedPERatio()
	return f.MarketCap > MinMarketCap &&
		pe > 0 && pe < MaxPERatio &&
		f.ImputedROE() > MinROE &&
		f.ImputedDER() < MaxDER
}

func keep(in []Fundamentals, pred func(Fundamentals) bool) []Fundamentals {
	out := in[:0:0]
	for _, f := range in {
		if pred(f) {
			out = append(out, f)
		}
	}
	return out
}
