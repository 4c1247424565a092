package optimization

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSolve_MinVolatility(t *testing.T) {
	optimizer := NewMVOptimizer()

	// Second asset is much less volatile; it should dominate.
	mu := []float64{0.10, 0.08}
	cov := [][]float64{
		{0.09, 0.001},
		{0.001, 0.01},
	}

	weights, err := optimizer.Solve(mu, cov, TargetMinVolatility)
	require.NoError(t, err)
	require.Len(t, weights, 2)

	sum := weights[0] + weights[1]
	assert.InDelta(t, 1.0, sum, 0.01)
	assert.GreaterOrEqual(t, weights[0], 0.0)
	assert.GreaterOrEqual(t, weights[1], 0.0)
	assert.Greater(t, weights[1], weights[0])
}

func TestSolve_MaxSharpe(t *testing.T) {
	optimizer := NewMVOptimizer()

	// Equal risk, first asset has the better return; it should dominate.
	mu := []float64{0.15, 0.05}
	cov := [][]float64{
		{0.04, 0.005},
		{0.005, 0.04},
	}

	weights, err := optimizer.Solve(mu, cov, TargetMaxSharpe)
	require.NoError(t, err)
	require.Len(t, weights, 2)

	sum := weights[0] + weights[1]
	assert.InDelta(t, 1.0, sum, 0.01)
	assert.Greater(t, weights[0], weights[1])
}

func TestSolve_InvalidInput(t *testing.T) {
	optimizer := NewMVOptimizer()

	_, err := optimizer.Solve(nil, nil, TargetMinVolatility)
	assert.Error(t, err)

	_, err = optimizer.Solve([]float64{0.1, 0.2}, [][]float64{{0.04}}, TargetMinVolatility)
	assert.Error(t, err)

	_, err = optimizer.Solve([]float64{0.1}, [][]float64{{0.04, 0.01}}, TargetMinVolatility)
	assert.Error(t, err)

	_, err = optimizer.Solve([]float64{0.1}, [][]float64{{0.04}}, Target("efficient_frontier"))
	assert.Error(t, err)
}

func TestSolve_ThreeAssets(t *testing.T) {
	optimizer := NewMVOptimizer()

	mu := []float64{0.12, 0.09, 0.07}
	cov := [][]float64{
		{0.060, 0.010, 0.004},
		{0.010, 0.030, 0.006},
		{0.004, 0.006, 0.020},
	}

	for _, target := range []Target{TargetMinVolatility, TargetMaxSharpe} {
		weights, err := optimizer.Solve(mu, cov, target)
		require.NoError(t, err, "target %s", target)

		sum := 0.0
		for _, w := range weights {
			assert.GreaterOrEqual(t, w, 0.0)
			assert.LessOrEqual(t, w, 1.0+1e-9)
			sum += w
		}
		assert.InDelta(t, 1.0, sum, 0.01)
	}
}

func TestSampleCovariance(t *testing.T) {
	returns := map[string][]float64{
		"AAAA.JK": {0.01, -0.02, 0.015, 0.005},
		"BBBB.JK": {0.02, -0.01, 0.010, 0.000},
	}
	tickers := []string{"AAAA.JK", "BBBB.JK"}

	cov, err := sampleCovariance(returns, tickers)
	require.NoError(t, err)
	require.Len(t, cov, 2)

	assert.Greater(t, cov[0][0], 0.0)
	assert.Greater(t, cov[1][1], 0.0)
	assert.Equal(t, cov[0][1], cov[1][0])

	_, err = sampleCovariance(returns, []string{"AAAA.JK", "MISSING.JK"})
	assert.Error(t, err)

	_, err = sampleCovariance(map[string][]float64{"AAAA.JK": {0.01}}, []string{"AAAA.JK"})
	assert.Error(t, err)
}

func TestLedoitWolfShrinkage(t *testing.T) {
	sample := [][]float64{
		{0.050, 0.012, -0.003},
		{0.012, 0.030, 0.008},
		{-0.003, 0.008, 0.045},
	}

	shrunk, err := applyLedoitWolfShrinkage(sample)
	require.NoError(t, err)
	require.Len(t, shrunk, 3)

	for i := 0; i < 3; i++ {
		assert.Greater(t, shrunk[i][i], 0.0)
		for j := 0; j < 3; j++ {
			assert.InDelta(t, shrunk[j][i], shrunk[i][j], 1e-12)
		}
	}

	// Shrinkage pulls off-diagonals towards the common covariance, so every
	// shrunk element lies between the sample value and the target value.
	var avgVar, avgCov float64
	for i := 0; i < 3; i++ {
		avgVar += sample[i][i]
		for j := 0; j < 3; j++ {
			if i != j {
				avgCov += sample[i][j]
			}
		}
	}
	avgVar /= 3
	avgCov /= 6
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			target := avgCov
			if i == j {
				target = avgVar
			}
			lo := math.Min(sample[i][j], target)
			hi := math.Max(sample[i][j], target)
			assert.GreaterOrEqual(t, shrunk[i][j], lo-1e-12)
			assert.LessOrEqual(t, shrunk[i][j], hi+1e-12)
		}
	}

	_, err = applyLedoitWolfShrinkage(nil)
	assert.Error(t, err)
}

func TestCAPMExpectedReturns(t *testing.T) {
	// Two identical series have identical betas, hence identical mus.
	series := []float64{0.01, -0.005, 0.02, 0.003, -0.01, 0.008}
	returns := map[string][]float64{
		"AAAA.JK": series,
		"BBBB.JK": series,
	}
	mu := capmExpectedReturns(returns, []string{"AAAA.JK", "BBBB.JK"})
	require.Len(t, mu, 2)
	assert.InDelta(t, mu[0], mu[1], 1e-12)

	// A series identical to the market proxy has beta 1, so its mu is the
	// annualized market mean.
	marketMean := 0.0
	for _, r := range series {
		marketMean += r
	}
	marketMean = marketMean / float64(len(series)) * TradingDays
	assert.InDelta(t, marketMean, mu[0], 1e-9)
}

func TestCleanWeights(t *testing.T) {
	cleaned := cleanWeights([]float64{0.6, 0.39995, 0.00005})
	require.Len(t, cleaned, 3)

	assert.Equal(t, 0.0, cleaned[2])
	sum := 0.0
	for _, w := range cleaned {
		sum += w
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
	assert.Greater(t, cleaned[0], cleaned[1])
}
