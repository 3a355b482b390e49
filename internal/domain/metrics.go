// Package domain contains the core data types for stock screening.
// The domain layer is pure: no infrastructure dependencies.
package domain

// FinancialMetrics holds per-statement-date series for a single company.
// All series are reverse-chronological: index 0 is the most recent period.
// Every series is aligned with Dates, so series[i] belongs to Dates[i].
type FinancialMetrics struct {
	// Fundamental metrics
	Revenue []float64 `json:"revenue"`
	EPS     []float64 `json:"eps"`
	FCF     []float64 `json:"fcf"`
	TTMFCF  float64   `json:"ttm_fcf"`
	ROE     []float64 `json:"roe"`

	// Margin metrics
	GrossMargin     []float64 `json:"gross_margin"`
	OperatingMargin []float64 `json:"operating_margin"`

	// Balance sheet metrics
	WorkingCapital []float64 `json:"working_capital"`
	TotalDebt      []float64 `json:"total_debt"`
	TotalEquity    []float64 `json:"total_equity"`
	TotalAssets    []float64 `json:"total_assets"`

	// Cash flow metrics
	RDExpense         []float64 `json:"rd_expense"`
	CapEx             []float64 `json:"capex"`
	OperatingCashFlow []float64 `json:"operating_cash_flow"`

	// Valuation metrics (TTM, single-element when available)
	PER []float64 `json:"per"`
	PBR []float64 `json:"pbr"`

	// Derived ratios
	DebtToEquity     []float64 `json:"debt_to_equity"`
	InterestCoverage []float64 `json:"interest_coverage"`
	DebtToEBITDA     []float64 `json:"debt_to_ebitda"`
	OCFToNetIncome   []float64 `json:"ocf_to_net_income"`

	// Statement dates, most recent first
	Dates []string `json:"dates"`
}

// MostRecent returns the first element of a series, or 0 when the series is empty.
func MostRecent(series []float64) float64 {
	if len(series) == 0 {
		return 0
	}
	return series[0]
}
