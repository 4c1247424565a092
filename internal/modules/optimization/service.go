// Package optimization builds the expected-return and risk models from price
// history and solves the mean-variance allocation problem.
package optimization

import (
	"fmt"
	"math"

	"github.com/rs/zerolog"

	"github.com/ronbokaya/advisor/internal/domain"
	"github.com/ronbokaya/advisor/internal/modules/universe"
)

// MinHistoryRows is the minimum number of dense daily observations required
// to estimate the risk model.
const MinHistoryRows = 60

// WeightEpsilon is the cleaning threshold: weights below it are zeroed and
// the remainder renormalized.
const WeightEpsilon = 1e-4

// Result is an optimized portfolio: cleaned weights aligned with Tickers,
// annualized performance figures and the last price date the models saw.
type Result struct {
	Tickers              []string
	Weights              []float64
	ExpectedAnnualReturn float64
	AnnualVolatility     float64
	SharpeRatio          float64
	AsOfDate             string
}

// Weight returns the cleaned weight for ticker, 0 when absent.
func (r *Result) Weight(ticker string) float64 {
	for i, t := range r.Tickers {
		if t == ticker {
			return r.Weights[i]
		}
	}
	return 0
}

// Service runs the optimization pipeline stage.
type Service struct {
	optimizer *MVOptimizer
	log       zerolog.Logger
}

// NewService creates a new optimization service.
func NewService(log zerolog.Logger) *Service {
	return &Service{
		optimizer: NewMVOptimizer(),
		log:       log.With().Str("component", "optimization").Logger(),
	}
}

// Optimize estimates CAPM expected returns and the shrunk covariance matrix
// from the eligible price history, solves for the target objective and
// returns cleaned, renormalized weights with the performance report.
//
// Failures are tagged: fewer than MinHistoryRows dense rows returns
// "insufficient historical data"; a solver failure returns
// "optimization failed: <reason>".
func (s *Service) Optimize(prices universe.PriceTable, target Target) (*Result, error) {
	dense := prices.DropIncompleteRows()
	if dense.Rows() < MinHistoryRows {
		s.log.Warn().
			Int("rows", dense.Rows()).
			Int("required", MinHistoryRows).
			Msg("Not enough dense price history")
		return nil, domain.NewPipelineError(
			domain.ReasonInsufficientHistory, "insufficient historical data")
	}

	tickers := dense.Columns
	returns := dailyReturns(dense)
	mu := capmExpectedReturns(returns, tickers)

	covMatrix, err := shrunkCovariance(returns, tickers)
	if err != nil {
		return nil, domain.NewPipelineError(
			domain.ReasonOptimizationFailure, fmt.Sprintf("optimization failed: %v", err))
	}

	raw, err := s.optimizer.Solve(mu, covMatrix, target)
	if err != nil {
		s.log.Warn().Err(err).Str("target", string(target)).Msg("Solver failed")
		return nil, domain.NewPipelineError(
			domain.ReasonOptimizationFailure, fmt.Sprintf("optimization failed: %v", err))
	}

	weights := cleanWeights(raw)

	ret, vol := portfolioPerformance(weights, mu, covMatrix)
	sharpe := 0.0
	if vol > 0 {
		sharpe = (ret - RiskFreeRate) / vol
	}

	s.log.Info().
		Int("assets", len(tickers)).
		Str("target", string(target)).
		Float64("expected_return", ret).
		Float64("volatility", vol).
		Float64("sharpe", sharpe).
		Msg("Optimized portfolio")

	return &Result{
		Tickers:              tickers,
		Weights:              weights,
		ExpectedAnnualReturn: ret,
		AnnualVolatility:     vol,
		SharpeRatio:          sharpe,
		AsOfDate:             dense.LastDate(),
	}, nil
}

// cleanWeights zeroes weights below WeightEpsilon and renormalizes the rest
// to sum to 1.
func cleanWeights(raw []float64) []float64 {
	weights := make([]float64, len(raw))
	sum := 0.0
	for i, w := range raw {
		if w >= WeightEpsilon {
			weights[i] = w
			sum += w
		}
	}
	if sum > 0 {
		for i := range weights {
			weights[i] /= sum
		}
	}
	return weights
}

// portfolioPerformance computes the annualized expected return and
// volatility of the weighted portfolio.
func portfolioPerformance(weights, mu []float64, covMatrix [][]float64) (float64, float64) {
	var ret, variance float64
	for i := range weights {
		ret += mu[i] * weights[i]
		for j := range weights {
			variance += weights[i] * weights[j] * covMatrix[i][j]
		}
	}
	return ret, math.Sqrt(math.Max(variance, 0))
}
