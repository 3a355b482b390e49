package scoring

import (
	"sort"

	"github.com/aristath/screener/internal/domain"
)

// percentileMetric names a ranked value and how to read it off a result.
// For lowerIsBetter metrics a small value outranks a large one.
type percentileMetric struct {
	name          string
	value         func(*domain.StockAnalysisResult) float64
	lowerIsBetter bool
}

var percentileMetrics = []percentileMetric{
	{"quality_score", func(r *domain.StockAnalysisResult) float64 { return r.QualityScore }, false},
	{"metrics.revenue_cagr", func(r *domain.StockAnalysisResult) float64 { return r.Metrics.RevenueCAGR }, false},
	{"metrics.eps_cagr", func(r *domain.StockAnalysisResult) float64 { return r.Metrics.EPSCAGR }, false},
	{"metrics.fcf_cagr", func(r *domain.StockAnalysisResult) float64 { return r.Metrics.FCFCAGR }, false},
	{"metrics.latest_roe", func(r *domain.StockAnalysisResult) float64 { return r.Metrics.LatestROE }, false},
	{"metrics.fcf_yield", func(r *domain.StockAnalysisResult) float64 { return r.Metrics.FCFYield }, false},
	{"metrics.per", func(r *domain.StockAnalysisResult) float64 { return r.Metrics.PER }, true},
	{"metrics.debt_to_equity", func(r *domain.StockAnalysisResult) float64 { return r.Metrics.DebtToEquity }, true},
	{"component_scores.growth_score", func(r *domain.StockAnalysisResult) float64 { return r.ComponentScores.GrowthScore }, false},
	{"component_scores.risk_score", func(r *domain.StockAnalysisResult) float64 { return r.ComponentScores.RiskScore }, false},
	{"component_scores.valuation_score", func(r *domain.StockAnalysisResult) float64 { return r.ComponentScores.ValuationScore }, false},
}

// AddSectorPercentiles annotates each result with its percentile rank among
// sector peers. A percentile is the share of peers outranked, so the best
// stock in a sector lands at 100 and the worst at 0. Sectors with a single
// stock get no percentiles since there is nobody to compare against.
func AddSectorPercentiles(results []domain.StockAnalysisResult) {
	bySector := make(map[string][]int)
	for i := range results {
		bySector[results[i].Sector] = append(bySector[results[i].Sector], i)
	}

	for _, indices := range bySector {
		if len(indices) < 2 {
			continue
		}

		for _, metric := range percentileMetrics {
			ranked := make([]int, len(indices))
			copy(ranked, indices)

			// Ascending goodness: the best peer sorts last. Stable keeps
			// input order for ties.
			sort.SliceStable(ranked, func(a, b int) bool {
				va := metric.value(&results[ranked[a]])
				vb := metric.value(&results[ranked[b]])
				if metric.lowerIsBetter {
					return va > vb
				}
				return va < vb
			})

			span := float64(len(ranked) - 1)
			for rank, idx := range ranked {
				if results[idx].SectorPercentile == nil {
					results[idx].SectorPercentile = make(map[string]float64, len(percentileMetrics))
				}
				results[idx].SectorPercentile[metric.name] = 100 * float64(rank) / span
			}
		}
	}
}
