package optimization

import (
	"gonum.org/v1/gonum/stat"

	"github.com/ronbokaya/advisor/internal/modules/universe"
)

// Expected-return model configuration.
const (
	// TradingDays annualizes daily statistics.
	TradingDays = 252
	// RiskFreeRate is the annual risk-free rate used by the CAPM model and
	// the Sharpe ratio.
	RiskFreeRate = 0.02
)

// dailyReturns computes simple daily returns per ticker from a dense price
// table. Each series has Rows()-1 observations.
func dailyReturns(prices universe.PriceTable) map[string][]float64 {
	returns := make(map[string][]float64, len(prices.Columns))
	for _, ticker := range prices.Columns {
		series := prices.Data[ticker]
		if len(series) < 2 {
			returns[ticker] = []float64{}
			continue
		}
		daily := make([]float64, len(series)-1)
		for i := 1; i < len(series); i++ {
			if series[i-1] > 0 {
				daily[i-1] = (series[i] - series[i-1]) / series[i-1]
			}
		}
		returns[ticker] = daily
	}
	return returns
}

// marketProxyReturns builds the market return series as the equal-weighted
// mean of the asset returns at each observation.
func marketProxyReturns(returns map[string][]float64, tickers []string, numObs int) []float64 {
	market := make([]float64, numObs)
	for t := 0; t < numObs; t++ {
		sum := 0.0
		for _, ticker := range tickers {
			sum += returns[ticker][t]
		}
		market[t] = sum / float64(len(tickers))
	}
	return market
}

// capmExpectedReturns estimates annualized expected returns via CAPM against
// the equal-weighted market proxy:
//
//	mu_i = r_f + beta_i * (E[R_m] - r_f)
//
// with beta_i = cov(r_i, r_m) / var(r_m) from the daily series and E[R_m]
// the annualized mean market return.
func capmExpectedReturns(returns map[string][]float64, tickers []string) []float64 {
	numObs := 0
	for _, ticker := range tickers {
		numObs = len(returns[ticker])
		break
	}

	market := marketProxyReturns(returns, tickers, numObs)
	marketVar := stat.Variance(market, nil)
	marketAnnual := stat.Mean(market, nil) * TradingDays

	mu := make([]float64, len(tickers))
	for i, ticker := range tickers {
		beta := 1.0
		if marketVar > 0 {
			beta = stat.Covariance(returns[ticker], market, nil) / marketVar
		}
		mu[i] = RiskFreeRate + beta*(marketAnnual-RiskFreeRate)
	}
	return mu
}
