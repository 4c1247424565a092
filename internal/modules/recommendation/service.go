// Package recommendation orchestrates the recommendation pipeline: profile
// analysis, universe filtering, optimization and lot allocation.
package recommendation

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ronbokaya/advisor/internal/domain"
	"github.com/ronbokaya/advisor/internal/modules/allocation"
	"github.com/ronbokaya/advisor/internal/modules/optimization"
	"github.com/ronbokaya/advisor/internal/modules/profile"
	"github.com/ronbokaya/advisor/internal/modules/universe"
	"github.com/ronbokaya/advisor/internal/utils"
)

// PortfolioName is the display name attached to every recommendation.
const PortfolioName = "Portofolio Optimal Ronbokaya (Live Data)"

// MarketDataSource provides the pipeline's market data: fundamentals and an
// aligned daily price table for the requested tickers.
type MarketDataSource interface {
	FetchUniverseData(ctx context.Context, tickers []string) ([]universe.Fundamentals, universe.PriceTable, error)
}

// Service runs the full recommendation pipeline. It is the single place
// where stage failures are tagged for transport mapping: every expected
// failure leaving Recommend is a domain.PipelineError.
type Service struct {
	source    MarketDataSource
	analyzer  *profile.Analyzer
	filter    *universe.Filter
	optimizer *optimization.Service
	allocator *allocation.Allocator
	log       zerolog.Logger
}

// NewService creates a new recommendation service.
func NewService(source MarketDataSource, log zerolog.Logger) *Service {
	return &Service{
		source:    source,
		analyzer:  profile.NewAnalyzer(log),
		filter:    universe.NewFilter(log),
		optimizer: optimization.NewService(log),
		allocator: allocation.NewAllocator(log),
		log:       log.With().Str("component", "recommendation").Logger(),
	}
}

// Recommend produces a portfolio recommendation for the request. The
// pipeline runs synchronously: analyze, fetch, filter, optimize, allocate,
// format.
func (s *Service) Recommend(ctx context.Context, req Request) (*Response, error) {
	prof := s.analyzer.Analyze(req.RiskAnswers, req.TimeHorizon, req.InvestmentGoal, req.Preferences)

	fetchTimer := utils.NewTimer("fetch_universe_data", s.log)
	fundamentals, prices, err := s.source.FetchUniverseData(ctx, universe.DefaultTickers)
	fetchTimer.Stop()
	if err != nil {
		s.log.Error().Err(err).Msg("Market data fetch failed")
		return nil, domain.NewPipelineError(domain.ReasonDataUnavailable, "market data unavailable")
	}
	if len(fundamentals) == 0 || prices.Rows() == 0 {
		s.log.Error().Msg("Market data fetch returned nothing usable")
		return nil, domain.NewPipelineError(domain.ReasonDataUnavailable, "market data unavailable")
	}

	eligible, eligiblePrices, err := s.filter.Eligible(fundamentals, prices, prof.Filters)
	if err != nil {
		return nil, err
	}

	result, err := s.optimizer.Optimize(eligiblePrices, optimization.Target(prof.OptimizationTarget))
	if err != nil {
		return nil, err
	}

	positions := make([]allocation.Position, 0, len(result.Tickers))
	for i, ticker := range result.Tickers {
		if result.Weights[i] <= 0 {
			continue
		}
		price, ok := eligiblePrices.LastPrice(ticker)
		if !ok {
			s.log.Warn().Str("ticker", ticker).Msg("No valid last price, skipping allocation")
			continue
		}
		positions = append(positions, allocation.Position{
			Ticker: ticker,
			Weight: result.Weights[i],
			Price:  price,
		})
	}
	plan := s.allocator.Allocate(req.InitialCapital, positions)

	resp := s.buildResponse(req, prof, eligible, result, plan)
	s.log.Info().
		Str("recommendation_id", resp.PortfolioRecommendation.ID).
		Str("strategy", string(prof.Strategy)).
		Int("holdings", len(resp.PortfolioRecommendation.AllocationDetails)).
		Msg("Recommendation created")
	return resp, nil
}

func (s *Service) buildResponse(
	req Request,
	prof profile.Profile,
	eligible []universe.Fundamentals,
	result *optimization.Result,
	plan allocation.Plan,
) *Response {
	bySymbol := make(map[string]universe.Fundamentals, len(eligible))
	for _, fund := range eligible {
		bySymbol[fund.Ticker] = fund
	}

	details := make([]AllocationDetail, 0, len(plan.Lines))
	for _, line := range plan.Lines {
		companyName, sector := "N/A", "N/A"
		if fund, ok := bySymbol[line.Ticker]; ok {
			companyName, sector = fund.CompanyName, fund.Sector
		}
		details = append(details, AllocationDetail{
			Ticker:                 line.Ticker,
			CompanyName:            companyName,
			Sector:                 sector,
			TargetWeightPercentage: formatPercent(line.TargetWeight),
			InvestedCapital:        formatRupiah(line.InvestedCapital),
			Lots:                   line.Lots,
			PricePerShare:          formatRupiah(line.Price),
			ActualWeightPercentage: formatPercent(line.ActualWeight),
		})
	}

	percentInvested := "N/A"
	if plan.PercentValid {
		percentInvested = formatPercent(plan.PercentInvested)
	}

	return &Response{
		InputSummary: InputSummary{
			InitialCapital:     formatRupiah(req.InitialCapital),
			InvestmentGoal:     req.InvestmentGoal,
			TimeHorizon:        req.TimeHorizon,
			RiskScore:          prof.RiskScore,
			DeterminedStrategy: string(prof.Strategy),
		},
		PortfolioRecommendation: PortfolioRecommendation{
			ID:            uuid.New().String(),
			PortfolioName: PortfolioName,
			DataAsOfDate:  result.AsOfDate,
			PortfolioMetrics: PortfolioMetrics{
				ExpectedAnnualReturn: formatPercent(result.ExpectedAnnualReturn),
				AnnualVolatilityRisk: formatPercent(result.AnnualVolatility),
				SharpeRatio:          formatRatio(result.SharpeRatio),
			},
			AllocationDetails: details,
			FinancialSummary: FinancialSummary{
				TotalCapitalInvested: formatRupiah(plan.TotalInvested),
				UnallocatedCash:      formatRupiah(plan.UnallocatedCash),
				PercentageOfCapital:  percentInvested,
			},
		},
	}
}
