package analyzers

import (
	"github.com/aristath/screener/internal/config"
	"github.com/aristath/screener/internal/domain"
)

// RiskAnalyzer grades balance sheet strength, working capital health, margin
// stability, and cash flow quality. Higher scores mean lower risk.
type RiskAnalyzer struct {
	cfg config.RiskQuality
}

// NewRiskAnalyzer creates a risk analyzer with the given component weights.
func NewRiskAnalyzer(cfg config.RiskQuality) *RiskAnalyzer {
	return &RiskAnalyzer{cfg: cfg}
}

// Analyze scores risk quality. The sector benchmark supplies the
// debt-to-equity ceiling, since acceptable leverage differs by sector.
func (a *RiskAnalyzer) Analyze(m *domain.FinancialMetrics, benchmark config.SectorBenchmark) domain.RiskAssessment {
	result := domain.RiskAssessment{
		DebtScore:            a.debtScore(m, benchmark.DebtToEquityMax),
		WorkingCapitalScore:  a.workingCapitalScore(m),
		MarginStabilityScore: a.marginStabilityScore(m),
		CashFlowQualityScore: a.cashFlowQualityScore(m),
	}

	result.RiskScore = clamp01(
		a.cfg.Weights["debt_metrics"]*result.DebtScore +
			a.cfg.Weights["working_capital"]*result.WorkingCapitalScore +
			a.cfg.Weights["margin_stability"]*result.MarginStabilityScore +
			a.cfg.Weights["cash_flow_quality"]*result.CashFlowQualityScore)

	return result
}

// debtScore blends leverage, interest coverage, and debt payback capacity.
func (a *RiskAnalyzer) debtScore(m *domain.FinancialMetrics, deMax float64) float64 {
	de := domain.MostRecent(m.DebtToEquity)
	var deScore float64
	switch {
	case de <= 0:
		deScore = 1
	case de >= deMax:
		deScore = 0
	default:
		deScore = 1 - de/deMax
	}

	ic := domain.MostRecent(m.InterestCoverage)
	var icScore float64
	switch {
	case ic <= 0:
		// No interest expense reported. Could be debt-free, could be
		// missing data, so stay neutral.
		icScore = 0.5
	case ic < 1.5:
		icScore = 0
	case ic < 3:
		icScore = 0.3
	case ic < 5:
		icScore = 0.6
	case ic < 10:
		icScore = 0.8
	default:
		icScore = 1
	}

	deEbitda := domain.MostRecent(m.DebtToEBITDA)
	var deEbitdaScore float64
	switch {
	case deEbitda <= 0:
		deEbitdaScore = 1
	case deEbitda > 5:
		deEbitdaScore = 0
	case deEbitda > 4:
		deEbitdaScore = 0.2
	case deEbitda > 3:
		deEbitdaScore = 0.4
	case deEbitda > 2:
		deEbitdaScore = 0.6
	case deEbitda > 1:
		deEbitdaScore = 0.8
	default:
		deEbitdaScore = 1
	}

	return 0.35*deScore + 0.35*icScore + 0.30*deEbitdaScore
}

// workingCapitalScore checks that working capital is positive, trending up,
// and reasonably sized relative to revenue.
func (a *RiskAnalyzer) workingCapitalScore(m *domain.FinancialMetrics) float64 {
	var score float64

	if allPositive(m.WorkingCapital, 3) {
		score += 0.3
	}
	score += 0.3 * TrendRemap(m.WorkingCapital)

	var ratio float64
	if revenue := domain.MostRecent(m.Revenue); revenue > 0 {
		ratio = domain.MostRecent(m.WorkingCapital) / revenue
	}
	switch {
	case ratio < 0:
		// negative working capital, nothing to add
	case ratio == 0:
		score += 0.4 * 0.3
	case ratio < 0.1:
		score += 0.4 * 0.5
	case ratio <= 0.3:
		score += 0.4 * 1
	case ratio <= 0.5:
		score += 0.4 * 0.7
	default:
		score += 0.4 * 0.4
	}

	return score
}

// marginStabilityScore rewards stable and improving gross and operating margins.
func (a *RiskAnalyzer) marginStabilityScore(m *domain.FinancialMetrics) float64 {
	return 0.25*Stability(m.GrossMargin) +
		0.25*Stability(m.OperatingMargin) +
		0.25*TrendRemap(m.GrossMargin) +
		0.25*TrendRemap(m.OperatingMargin)
}

// cashFlowQualityScore weights cash conversion most heavily, then free cash
// flow persistence, stability, and trend.
func (a *RiskAnalyzer) cashFlowQualityScore(m *domain.FinancialMetrics) float64 {
	ocfToNI := domain.MostRecent(m.OCFToNetIncome)
	var conversionScore float64
	switch {
	case ocfToNI <= 0:
		conversionScore = 0
	case ocfToNI < 0.7:
		conversionScore = 0.3
	case ocfToNI < 0.9:
		conversionScore = 0.7
	case ocfToNI <= 1.2:
		conversionScore = 1
	case ocfToNI <= 1.5:
		conversionScore = 0.8
	case ocfToNI <= 2:
		conversionScore = 0.6
	default:
		conversionScore = 0.4
	}

	score := 0.4 * conversionScore
	if allPositive(m.FCF, 3) {
		score += 0.2
	}
	score += 0.2 * Stability(m.FCF)
	score += 0.2 * TrendRemap(m.FCF)

	return score
}
