package analyzers

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/aristath/screener/internal/config"
	"github.com/aristath/screener/internal/domain"
)

// growthMetrics are the series the growth analyzer grades, keyed by the
// config target-rate names.
var growthMetrics = []string{"revenue", "eps", "fcf"}

// GrowthAnalyzer grades how fast a company grows, how steadily, and whether
// the growth looks sustainable.
type GrowthAnalyzer struct {
	cfg config.GrowthQuality
}

// NewGrowthAnalyzer creates a growth analyzer with the given targets and
// component weights.
func NewGrowthAnalyzer(cfg config.GrowthQuality) *GrowthAnalyzer {
	return &GrowthAnalyzer{cfg: cfg}
}

// Analyze scores growth quality from the aligned financial series. Sector
// benchmark growth rates set the magnitude targets, so a utility is graded
// against utility growth and a chip maker against chip-maker growth.
func (a *GrowthAnalyzer) Analyze(m *domain.FinancialMetrics, benchmark config.SectorBenchmark) domain.GrowthAnalysis {
	series := map[string][]float64{
		"revenue": m.Revenue,
		"eps":     m.EPS,
		"fcf":     m.FCF,
	}
	targets := a.targetRates(benchmark)

	result := domain.GrowthAnalysis{
		RevenueCAGR:       CAGR(m.Revenue),
		EPSCAGR:           CAGR(m.EPS),
		FCFCAGR:           CAGR(m.FCF),
		MagnitudeScores:   make(map[string]float64, len(growthMetrics)),
		ConsistencyScores: make(map[string]float64, len(growthMetrics)),
	}

	for _, metric := range growthMetrics {
		result.MagnitudeScores[metric] = magnitudeScore(CAGR(series[metric]), targets[metric])
		result.ConsistencyScores[metric] = consistencyScore(series[metric])
	}

	var magnitudes, consistencies []float64
	for _, metric := range growthMetrics {
		magnitudes = append(magnitudes, result.MagnitudeScores[metric])
		consistencies = append(consistencies, result.ConsistencyScores[metric])
	}
	result.MagnitudeScore = mean(magnitudes)
	result.ConsistencyScore = mean(consistencies)
	result.SustainabilityScore = a.sustainabilityScore(m)

	result.GrowthScore = clamp01(
		a.cfg.Weights["magnitude"]*result.MagnitudeScore +
			a.cfg.Weights["consistency"]*result.ConsistencyScore +
			a.cfg.Weights["sustainability"]*result.SustainabilityScore)

	return result
}

// targetRates resolves the growth target per metric. The sector benchmark
// wins when it carries a rate; the configured target rates cover the rest.
func (a *GrowthAnalyzer) targetRates(benchmark config.SectorBenchmark) map[string]float64 {
	targets := map[string]float64{
		"revenue": benchmark.RevenueGrowth,
		"eps":     benchmark.EPSGrowth,
		"fcf":     benchmark.FCFGrowth,
	}
	for metric, target := range targets {
		if target <= 0 {
			targets[metric] = a.cfg.TargetRates[metric]
		}
	}
	return targets
}

// magnitudeScore compares an achieved growth rate against a target rate.
// Meeting the target exactly scores above 0.5; doubling it saturates at 1.
// The log curve rewards early progress toward the target more than the last
// stretch.
func magnitudeScore(actual, target float64) float64 {
	if target <= 0 || actual <= 0 {
		return 0
	}
	ratio := actual / target
	if ratio >= 2 {
		return 1
	}
	return clamp01(0.5 * (1 + math.Log(ratio+0.1)/math.Log(2)))
}

// consistencyScore rewards steady year-over-year growth. Growth rates are
// taken only over positive base years; fewer than two usable rates yield 0.
// A streak of exclusively positive rates earns a 0.2 bonus.
func consistencyScore(series []float64) float64 {
	if len(series) < 3 {
		return 0
	}

	var rates []float64
	for i := len(series) - 1; i >= 1; i-- {
		base := series[i]
		if base <= 0 {
			continue
		}
		rates = append(rates, (series[i-1]-base)/base)
	}
	if len(rates) < 2 {
		return 0
	}

	avg := mean(rates)
	if avg <= 0 {
		return 0
	}

	allGrowing := true
	for _, r := range rates {
		if r <= 0 {
			allGrowing = false
			break
		}
	}

	sd := stat.StdDev(rates, nil)
	score := 1 / (1 + sd/avg)
	if allGrowing {
		score += 0.2
	}
	return math.Min(1, score)
}

// sustainabilityScore checks whether the growth is fed by reinvestment and
// backed by cash: R&D intensity, capex productivity, margin stability, cash
// conversion, and earnings quality each contribute a fifth.
func (a *GrowthAnalyzer) sustainabilityScore(m *domain.FinancialMetrics) float64 {
	var score float64

	score += 0.2 * TrendRemap(elementwiseRatio(m.RDExpense, m.Revenue))

	fcfToCapex := elementwiseRatio(m.FCF, m.CapEx)
	score += 0.2 * TrendRemap(fcfToCapex)

	score += 0.2 * Stability(m.OperatingMargin)

	score += 0.2 * TrendRemap(elementwiseRatio(m.FCF, m.Revenue))

	score += 0.2 * earningsQualityBand(m.OCFToNetIncome)

	return score
}

// earningsQualityBand grades the latest OCF to net income ratio. Values near
// 1 mean earnings convert to cash; far above suggests one-offs, far below
// suggests aggressive accruals.
func earningsQualityBand(ocfToNI []float64) float64 {
	if len(ocfToNI) == 0 {
		return 0
	}
	ratio := ocfToNI[0]
	switch {
	case ratio >= 0.9 && ratio <= 1.3:
		return 1
	case ratio > 0.7 && ratio < 1.5:
		return 0.7
	case ratio > 0.5 && ratio < 1.7:
		return 0.4
	default:
		return 0.1
	}
}
