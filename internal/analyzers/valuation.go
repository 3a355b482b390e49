package analyzers

import (
	"github.com/aristath/screener/internal/config"
	"github.com/aristath/screener/internal/domain"
)

// ValuationAnalyzer grades how expensive a stock is on earnings, book value,
// cash flow yield, and growth-adjusted terms.
type ValuationAnalyzer struct {
	cfg config.Valuation
}

// NewValuationAnalyzer creates a valuation analyzer with the given weights.
func NewValuationAnalyzer(cfg config.Valuation) *ValuationAnalyzer {
	return &ValuationAnalyzer{cfg: cfg}
}

// Analyze scores valuation. Sector benchmarks set the PER and PBR ceilings,
// market cap anchors the free cash flow yield.
func (a *ValuationAnalyzer) Analyze(m *domain.FinancialMetrics, marketCap float64, benchmark config.SectorBenchmark) domain.ValuationAnalysis {
	per := domain.MostRecent(m.PER)
	pbr := domain.MostRecent(m.PBR)

	// Negative trailing cash flow reads as no yield, not a negative one.
	var fcfYield float64
	if marketCap > 0 && m.TTMFCF > 0 {
		fcfYield = m.TTMFCF / marketCap
	}

	result := domain.ValuationAnalysis{
		PER:                 per,
		PBR:                 pbr,
		FCFYield:            fcfYield,
		PERScore:            perScore(per, benchmark.PERMax),
		PBRScore:            pbrScore(pbr, benchmark.PBRMax),
		FCFYieldScore:       fcfYieldScore(fcfYield),
		GrowthAdjustedScore: pegScore(per, CAGR(m.EPS)),
	}

	result.ValuationScore = clamp01(
		a.cfg.Weights["per"]*result.PERScore +
			a.cfg.Weights["pbr"]*result.PBRScore +
			a.cfg.Weights["fcf_yield"]*result.FCFYieldScore +
			a.cfg.Weights["growth_adjusted"]*result.GrowthAdjustedScore)

	return result
}

// perScore maps the price-earnings ratio linearly between 5 (cheap) and the
// sector ceiling (expensive). Non-positive ratios mean losses and score 0.
func perScore(per, perMax float64) float64 {
	switch {
	case per <= 0:
		return 0
	case per <= 5:
		return 1
	case per >= perMax:
		return 0
	default:
		return 1 - (per-5)/(perMax-5)
	}
}

// pbrScore maps price-to-book linearly between 1 and the sector ceiling.
func pbrScore(pbr, pbrMax float64) float64 {
	switch {
	case pbr <= 0:
		return 0
	case pbr <= 1:
		return 1
	case pbr >= pbrMax:
		return 0
	default:
		return 1 - (pbr-1)/(pbrMax-1)
	}
}

// fcfYieldScore bands the trailing free cash flow yield. 8% or better is a
// full score.
func fcfYieldScore(yield float64) float64 {
	switch {
	case yield <= 0:
		return 0
	case yield >= 0.08:
		return 1
	case yield >= 0.06:
		return 0.9
	case yield >= 0.04:
		return 0.7
	case yield >= 0.02:
		return 0.5
	case yield >= 0.01:
		return 0.3
	default:
		return 0.1
	}
}

// pegScore bands the PEG ratio (PER over EPS growth in percent). A PEG at or
// below 0.5 is a bargain; above 3 the price discounts growth that is not there.
func pegScore(per, epsCAGR float64) float64 {
	if per <= 0 || epsCAGR <= 0 {
		return 0
	}
	peg := per / (epsCAGR * 100)
	switch {
	case peg <= 0.5:
		return 1
	case peg <= 0.75:
		return 0.9
	case peg <= 1:
		return 0.8
	case peg <= 1.5:
		return 0.6
	case peg <= 2:
		return 0.4
	case peg <= 3:
		return 0.2
	default:
		return 0
	}
}
