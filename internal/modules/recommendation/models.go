package recommendation

import "github.com/ronbokaya/advisor/internal/modules/profile"

// Request is the recommendation request body.
type Request struct {
	InitialCapital float64             `json:"initial_capital"`
	InvestmentGoal string              `json:"investment_goal"`
	TimeHorizon    string              `json:"time_horizon"`
	RiskAnswers    profile.Answers     `json:"risk_answers"`
	Preferences    profile.Preferences `json:"preferences"`
}

// InputSummary echoes the analyzed request back to the caller.
type InputSummary struct {
	InitialCapital     string `json:"initial_capital"`
	InvestmentGoal     string `json:"investment_goal"`
	TimeHorizon        string `json:"time_horizon"`
	RiskScore          int    `json:"risk_score"`
	DeterminedStrategy string `json:"determined_strategy"`
}

// PortfolioMetrics holds the annualized performance figures, formatted for
// display.
type PortfolioMetrics struct {
	ExpectedAnnualReturn string `json:"expected_annual_return"`
	AnnualVolatilityRisk string `json:"annual_volatility_risk"`
	SharpeRatio          string `json:"sharpe_ratio"`
}

// AllocationDetail is one recommended holding.
type AllocationDetail struct {
	Ticker                 string `json:"ticker"`
	CompanyName            string `json:"company_name"`
	Sector                 string `json:"sector"`
	TargetWeightPercentage string `json:"target_weight_percentage"`
	InvestedCapital        string `json:"invested_capital"`
	Lots                   int    `json:"lots"`
	PricePerShare          string `json:"price_per_share"`
	ActualWeightPercentage string `json:"actual_weight_percentage"`
}

// FinancialSummary aggregates the allocation against the requested capital.
type FinancialSummary struct {
	TotalCapitalInvested string `json:"total_capital_invested"`
	UnallocatedCash      string `json:"unallocated_cash_due_to_lot_rounding"`
	PercentageOfCapital  string `json:"percentage_of_capital_invested"`
}

// PortfolioRecommendation is the recommended portfolio payload.
type PortfolioRecommendation struct {
	ID                string             `json:"id"`
	PortfolioName     string             `json:"portfolio_name"`
	DataAsOfDate      string             `json:"data_as_of_date"`
	PortfolioMetrics  PortfolioMetrics   `json:"portfolio_metrics"`
	AllocationDetails []AllocationDetail `json:"allocation_details"`
	FinancialSummary  FinancialSummary   `json:"financial_summary"`
}

// Response is the full recommendation response body.
type Response struct {
	InputSummary            InputSummary            `json:"input_summary"`
	PortfolioRecommendation PortfolioRecommendation `json:"portfolio_recommendation"`
}
