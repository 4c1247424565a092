package optimization

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// sampleCovariance calculates the annualized sample covariance matrix from
// daily returns. Element (i,j) is the covariance between tickers[i] and
// tickers[j], scaled by TradingDays.
func sampleCovariance(returns map[string][]float64, tickers []string) ([][]float64, error) {
	if len(tickers) == 0 {
		return nil, fmt.Errorf("no tickers provided")
	}

	var numObs int
	for _, ticker := range tickers {
		ret, ok := returns[ticker]
		if !ok {
			return nil, fmt.Errorf("missing returns for ticker %s", ticker)
		}
		if numObs == 0 {
			numObs = len(ret)
		}
		if len(ret) != numObs {
			return nil, fmt.Errorf("inconsistent return lengths: expected %d, got %d for ticker %s", numObs, len(ret), ticker)
		}
	}
	if numObs < 2 {
		return nil, fmt.Errorf("insufficient data: need at least 2 observations, got %d", numObs)
	}

	n := len(tickers)
	cov := make([][]float64, n)
	for i := range cov {
		cov[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			c := stat.Covariance(returns[tickers[i]], returns[tickers[j]], nil) * TradingDays
			cov[i][j] = c
			if i != j {
				cov[j][i] = c
			}
		}
	}
	return cov, nil
}

// applyLedoitWolfShrinkage shrinks a sample covariance matrix towards the
// constant-correlation target to improve conditioning with limited data.
//
// Reference: Ledoit, O., & Wolf, M. (2004). "A well-conditioned estimator
// for large-dimensional covariance matrices"
func applyLedoitWolfShrinkage(sampleCov [][]float64) ([][]float64, error) {
	n := len(sampleCov)
	if n == 0 {
		return nil, fmt.Errorf("empty covariance matrix")
	}

	// Shrinkage target: common variance on the diagonal, common covariance
	// off it (constant correlation model).
	var avgVar, avgCov float64
	for i := 0; i < n; i++ {
		avgVar += sampleCov[i][i]
		for j := 0; j < n; j++ {
			if i != j {
				avgCov += sampleCov[i][j]
			}
		}
	}
	avgVar /= float64(n)
	if n > 1 {
		avgCov /= float64(n * (n - 1))
	}

	target := make([][]float64, n)
	for i := range target {
		target[i] = make([]float64, n)
		for j := range target[i] {
			if i == j {
				target[i][j] = avgVar
			} else {
				target[i][j] = avgCov
			}
		}
	}

	// Estimate the shrinkage intensity from the dispersion of the sample
	// matrix around the target. Capped at 0.5.
	shrinkage := 0.2
	if n > 2 && avgVar > 0 {
		var sumSqDiff float64
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				diff := sampleCov[i][j] - target[i][j]
				sumSqDiff += diff * diff
			}
		}
		meanSqDiff := sumSqDiff / float64(n*n)

		var sumSq, mean float64
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				mean += sampleCov[i][j]
				sumSq += sampleCov[i][j] * sampleCov[i][j]
			}
		}
		count := float64(n * n)
		mean /= count
		varSample := sumSq/count - mean*mean

		if varSample > 0 && meanSqDiff > 0 {
			shrinkage = math.Min(0.5, math.Max(0.0, varSample/(varSample+meanSqDiff)))
		}
	}

	shrunk := make([][]float64, n)
	for i := 0; i < n; i++ {
		shrunk[i] = make([]float64, n)
		for j := 0; j < n; j++ {
			shrunk[i][j] = (1-shrinkage)*sampleCov[i][j] + shrinkage*target[i][j]
		}
	}
	return shrunk, nil
}

// shrunkCovariance calculates the annualized covariance matrix with
// Ledoit-Wolf shrinkage applied.
func shrunkCovariance(returns map[string][]float64, tickers []string) ([][]float64, error) {
	sampleCov, err := sampleCovariance(returns, tickers)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate sample covariance: %w", err)
	}
	shrunk, err := applyLedoitWolfShrinkage(sampleCov)
	if err != nil {
		return nil, fmt.Errorf("failed to apply Ledoit-Wolf shrinkage: %w", err)
	}
	return shrunk, nil
}
