// Package profile maps questionnaire answers and preferences to a risk
// profile, a named strategy and an optimization target.
package profile

import "github.com/rs/zerolog"

// Per-question score tables. Unrecognized answers degrade to the lowest
// listed score for that question rather than failing the request.
var (
	q1Scores = map[string]int{"A": 10, "B": 20, "C": 30, "D": 40}
	q2Scores = map[string]int{"A": 5, "B": 15, "C": 25}
	q3Scores = map[string]int{"A": 20, "B": 10, "C": 25}

	q1Default = 10
	q2Default = 5
	q3Default = 10
)

// horizonLabels maps the exact questionnaire labels to horizon buckets.
// Unrecognized labels default to Medium.
var horizonLabels = map[string]HorizonCategory{
	"Kurang dari 3 tahun": HorizonShort,
	"Antara 3 - 7 tahun":  HorizonMedium,
	"Antara 8 - 15 tahun": HorizonLong,
	"Lebih dari 15 tahun": HorizonVeryLong,
}

// PrincipleSyariah and PrincipleESG are the recognized entries of the
// preferences.principles list.
const (
	PrincipleSyariah = "Syariah"
	PrincipleESG     = "ESG"
)

// Analyzer derives investor profiles from questionnaire input.
type Analyzer struct {
	log zerolog.Logger
}

// NewAnalyzer creates a new profile analyzer.
func NewAnalyzer(log zerolog.Logger) *Analyzer {
	return &Analyzer{
		log: log.With().Str("component", "profile").Logger(),
	}
}

// Analyze computes the risk score, strategy and optimization target from the
// questionnaire answers. It never fails: unknown categories fall back to
// their default scores and unknown horizons to Medium.
func (a *Analyzer) Analyze(answers Answers, timeHorizon string, goal string, prefs Preferences) Profile {
	score := lookupScore(q1Scores, answers.Q1, q1Default) +
		lookupScore(q2Scores, answers.Q2, q2Default) +
		lookupScore(q3Scores, answers.Q3, q3Default)

	horizon, ok := horizonLabels[timeHorizon]
	if !ok {
		horizon = HorizonMedium
	}

	strategy := selectStrategy(horizon, score)

	p := Profile{
		RiskScore:          score,
		Horizon:            horizon,
		Strategy:           strategy,
		OptimizationTarget: optimizationTarget(strategy),
		InvestmentGoal:     goal,
		Filters: UniverseFilters{
			Sectors:     prefs.Sectors,
			SyariahOnly: containsString(prefs.Principles, PrincipleSyariah),
			ESGFocus:    containsString(prefs.Principles, PrincipleESG),
		},
	}

	a.log.Debug().
		Int("risk_score", p.RiskScore).
		Str("horizon", string(p.Horizon)).
		Str("strategy", string(p.Strategy)).
		Str("optimization_target", p.OptimizationTarget).
		Msg("Analyzed investor profile")

	return p
}

// selectStrategy applies the fixed decision table keyed by horizon group and
// score thresholds at 70 and 40.
func selectStrategy(horizon HorizonCategory, score int) Strategy {
	switch horizon {
	case HorizonLong, HorizonVeryLong:
		switch {
		case score > 70:
			return StrategyAggressiveGrowth
		case score > 40:
			return StrategyGrowth
		default:
			return StrategyBalancedGrowth
		}
	case HorizonMedium:
		switch {
		case score > 70:
			return StrategyBalancedGrowth
		case score > 40:
			return StrategyBalanced
		default:
			return StrategyIncome
		}
	default: // Short
		if score > 40 {
			return StrategyIncome
		}
		return StrategyCapitalPreservation
	}
}

// optimizationTarget maps a strategy to its optimizer objective. Only
// Capital Preservation minimizes volatility; everything else maximizes the
// Sharpe ratio.
func optimizationTarget(strategy Strategy) string {
	if strategy == StrategyCapitalPreservation {
		return TargetMinVolatility
	}
	return TargetMaxSharpe
}

func lookupScore(table map[string]int, answer string, fallback int) int {
	if points, ok := table[answer]; ok {
		return points
	}
	return fallback
}

func containsString(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}
