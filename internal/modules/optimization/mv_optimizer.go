package optimization

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize"
)

// Target selects the mean-variance objective.
type Target string

const (
	// TargetMinVolatility minimizes w'Σw.
	TargetMinVolatility Target = "min_volatility"
	// TargetMaxSharpe maximizes (μ'w - r_f) / sqrt(w'Σw).
	TargetMaxSharpe Target = "max_sharpe"
)

// Weight bounds: long-only, no single-asset cap.
const (
	weightLower = 0.0
	weightUpper = 1.0
)

// MVOptimizer solves the long-only, fully-invested mean-variance problem.
//
// Constraints:
//   - Σw = 1 (weights sum to 1, via quadratic penalty)
//   - 0 ≤ w_i ≤ 1 (projection to bounds)
type MVOptimizer struct{}

// NewMVOptimizer creates a new mean-variance optimizer.
func NewMVOptimizer() *MVOptimizer {
	return &MVOptimizer{}
}

// Solve runs the optimization for the given target and returns weights
// aligned with the order of mu.
func (mvo *MVOptimizer) Solve(mu []float64, covMatrix [][]float64, target Target) ([]float64, error) {
	n := len(mu)
	if n == 0 {
		return nil, fmt.Errorf("no assets provided")
	}
	if len(covMatrix) != n {
		return nil, fmt.Errorf("covariance matrix size %d doesn't match asset count %d", len(covMatrix), n)
	}
	for i := range covMatrix {
		if len(covMatrix[i]) != n {
			return nil, fmt.Errorf("covariance matrix row %d has size %d, expected %d", i, len(covMatrix[i]), n)
		}
	}

	sigma := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			sigma.Set(i, j, covMatrix[i][j])
		}
	}

	switch target {
	case TargetMinVolatility:
		return mvo.solveMinVolatility(mu, sigma)
	case TargetMaxSharpe:
		return mvo.solveMaxSharpe(mu, sigma)
	default:
		return nil, fmt.Errorf("unknown target: %s", target)
	}
}

// solveMinVolatility minimizes w'Σw.
func (mvo *MVOptimizer) solveMinVolatility(mu []float64, sigma *mat.Dense) ([]float64, error) {
	n := len(mu)
	penaltyWeight := 1000.0

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			xProj := projectToBounds(x)

			var variance float64
			for i := 0; i < n; i++ {
				for j := 0; j < n; j++ {
					variance += xProj[i] * xProj[j] * sigma.At(i, j)
				}
			}

			sum := 0.0
			for i := 0; i < n; i++ {
				sum += xProj[i]
			}

			return variance + penaltyWeight*(sum-1.0)*(sum-1.0)
		},
		Grad: func(grad, x []float64) {
			xProj := projectToBounds(x)

			for i := 0; i < n; i++ {
				grad[i] = 0
				for j := 0; j < n; j++ {
					grad[i] += 2 * sigma.At(i, j) * xProj[j]
				}
			}

			sum := 0.0
			for i := 0; i < n; i++ {
				sum += xProj[i]
			}
			for i := 0; i < n; i++ {
				grad[i] += 2 * penaltyWeight * (sum - 1.0)
			}
		},
	}

	return mvo.minimize(problem, n)
}

// solveMaxSharpe maximizes (μ'w - r_f) / sqrt(w'Σw).
func (mvo *MVOptimizer) solveMaxSharpe(mu []float64, sigma *mat.Dense) ([]float64, error) {
	n := len(mu)
	penaltyWeight := 1000.0

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			xProj := projectToBounds(x)

			var returnVal, variance float64
			for i := 0; i < n; i++ {
				returnVal += mu[i] * xProj[i]
				for j := 0; j < n; j++ {
					variance += xProj[i] * xProj[j] * sigma.At(i, j)
				}
			}
			stdDev := math.Sqrt(math.Max(variance, 1e-10))

			sum := 0.0
			for i := 0; i < n; i++ {
				sum += xProj[i]
			}

			obj := -(returnVal - RiskFreeRate) / stdDev
			obj += penaltyWeight * (sum - 1.0) * (sum - 1.0)
			return obj
		},
		Grad: func(grad, x []float64) {
			xProj := projectToBounds(x)

			var returnVal, variance float64
			for i := 0; i < n; i++ {
				returnVal += mu[i] * xProj[i]
				for j := 0; j < n; j++ {
					variance += xProj[i] * xProj[j] * sigma.At(i, j)
				}
			}
			stdDev := math.Sqrt(math.Max(variance, 1e-10))
			excess := returnVal - RiskFreeRate

			for i := 0; i < n; i++ {
				var dVariance float64
				for j := 0; j < n; j++ {
					dVariance += 2 * sigma.At(i, j) * xProj[j]
				}
				grad[i] = -mu[i]/stdDev + excess*dVariance/(2*stdDev*stdDev*stdDev)
			}

			sum := 0.0
			for i := 0; i < n; i++ {
				sum += xProj[i]
			}
			for i := 0; i < n; i++ {
				grad[i] += 2 * penaltyWeight * (sum - 1.0)
			}
		},
	}

	return mvo.minimize(problem, n)
}

// minimize runs the solver from an equal-weight start, falling back to
// Nelder-Mead when BFGS fails, and projects/normalizes the solution.
func (mvo *MVOptimizer) minimize(problem optimize.Problem, n int) ([]float64, error) {
	initial := make([]float64, n)
	for i := range initial {
		initial[i] = 1.0 / float64(n)
	}

	result, err := optimize.Minimize(problem, initial, &optimize.Settings{}, &optimize.BFGS{})
	if err != nil {
		result, err = optimize.Minimize(problem, initial, &optimize.Settings{}, &optimize.NelderMead{})
		if err != nil {
			return nil, fmt.Errorf("solver error: %w", err)
		}
	}

	// Accept various successful convergence statuses
	if result.Status != optimize.Success &&
		result.Status != optimize.GradientThreshold &&
		result.Status != optimize.FunctionConvergence {
		return nil, fmt.Errorf("did not converge: status=%v", result.Status)
	}

	xFinal := projectToBounds(result.X)
	sum := 0.0
	for i := range xFinal {
		sum += xFinal[i]
	}
	weights := make([]float64, n)
	for i := range xFinal {
		weights[i] = math.Max(0.0, xFinal[i]/math.Max(sum, 1e-10))
	}

	sum = 0.0
	for _, w := range weights {
		sum += w
	}
	if sum > 0 {
		for i := range weights {
			weights[i] /= sum
		}
	}
	return weights, nil
}

// projectToBounds clamps each weight into [weightLower, weightUpper].
func projectToBounds(x []float64) []float64 {
	proj := make([]float64, len(x))
	for i := range x {
		proj[i] = math.Max(weightLower, math.Min(weightUpper, x[i]))
	}
	return proj
}
