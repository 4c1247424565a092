package profile

// Answers holds the three categorical risk questionnaire answers.
type Answers struct {
	Q1 string `json:"q1"`
	Q2 string `json:"q2"`
	Q3 string `json:"q3"`
}

// Preferences holds the user's universe preferences as submitted.
type Preferences struct {
	Sectors    []string `json:"sectors"`
	Principles []string `json:"principles"`
}

// HorizonCategory is the normalized investment time horizon bucket.
type HorizonCategory string

const (
	HorizonShort    HorizonCategory = "Short"
	HorizonMedium   HorizonCategory = "Medium"
	HorizonLong     HorizonCategory = "Long"
	HorizonVeryLong HorizonCategory = "VeryLong"
)

// Strategy is a named investment strategy derived from horizon and risk score.
type Strategy string

const (
	StrategyCapitalPreservation Strategy = "Capital Preservation"
	StrategyIncome              Strategy = "Income"
	StrategyBalanced            Strategy = "Balanced"
	StrategyBalancedGrowth      Strategy = "Balanced Growth"
	StrategyGrowth              Strategy = "Growth"
	StrategyAggressiveGrowth    Strategy = "Aggressive Growth"
)

// Optimization targets handed to the portfolio optimizer.
const (
	TargetMinVolatility = "min_volatility"
	TargetMaxSharpe     = "max_sharpe"
)

// UniverseFilters carries the preference filters through to the universe
// module. ESGFocus is preserved in the contract but not yet used downstream.
type UniverseFilters struct {
	Sectors     []string
	SyariahOnly bool
	ESGFocus    bool
}

// Profile is the complete analyzed investor profile.
type Profile struct {
	RiskScore          int
	Horizon            HorizonCategory
	Strategy           Strategy
	OptimizationTarget string
	InvestmentGoal     string
	Filters            UniverseFilters
}
