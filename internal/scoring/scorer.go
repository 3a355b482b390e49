// Package scoring blends the four analysis axes into a single quality score
// and ranks results against their sector peers.
package scoring

import (
	"github.com/rs/zerolog"

	"github.com/aristath/screener/internal/analyzers"
	"github.com/aristath/screener/internal/config"
	"github.com/aristath/screener/internal/domain"
)

// coherenceFloor is the multiplier applied when no cross-component signal
// agrees. Fully coherent results scale up to the configured maximum.
const coherenceFloor = 0.9

// QualityScorer runs all four analyzers and combines their scores.
type QualityScorer struct {
	growth    *analyzers.GrowthAnalyzer
	risk      *analyzers.RiskAnalyzer
	valuation *analyzers.ValuationAnalyzer
	sentiment *analyzers.SentimentAnalyzer
	cfg       *config.Config
	log       zerolog.Logger
}

// NewQualityScorer creates a scorer wired to the configured analyzers.
func NewQualityScorer(cfg *config.Config, log zerolog.Logger) *QualityScorer {
	return &QualityScorer{
		growth:    analyzers.NewGrowthAnalyzer(cfg.GrowthQuality),
		risk:      analyzers.NewRiskAnalyzer(cfg.RiskQuality),
		valuation: analyzers.NewValuationAnalyzer(cfg.Valuation),
		sentiment: analyzers.NewSentimentAnalyzer(cfg.Sentiment),
		cfg:       cfg,
		log:       log.With().Str("component", "scorer").Logger(),
	}
}

// Score produces the full analysis result for one company.
func (s *QualityScorer) Score(
	profile domain.Profile,
	metrics *domain.FinancialMetrics,
	insider *domain.InsiderTradingInfo,
	earnings *domain.EarningsInfo,
	social *domain.SentimentInfo,
) domain.StockAnalysisResult {
	benchmark := s.cfg.SectorBenchmark(profile.Sector)

	growthAnalysis := s.growth.Analyze(metrics, benchmark)
	riskAssessment := s.risk.Analyze(metrics, benchmark)
	valuationAnalysis := s.valuation.Analyze(metrics, profile.MarketCap, benchmark)
	sentimentAnalysis := s.sentiment.Analyze(insider, earnings, social)

	w := s.cfg.Scoring.Weights
	base := w.GrowthQuality*growthAnalysis.GrowthScore +
		w.RiskQuality*riskAssessment.RiskScore +
		w.Valuation*valuationAnalysis.ValuationScore +
		w.Sentiment*sentimentAnalysis.SentimentScore

	// The multiplier can push the score past 1; leaving it uncapped keeps
	// near-perfect stocks distinguishable when ranking.
	multiplier := s.coherenceMultiplier(metrics)
	final := base * multiplier

	result := domain.StockAnalysisResult{
		Symbol:      profile.Symbol,
		CompanyName: profile.CompanyName,
		Sector:      profile.Sector,
		Industry:    profile.Industry,
		MarketCap:   profile.MarketCap,

		QualityScore: final,

		ComponentScores: domain.ComponentScores{
			GrowthScore:         growthAnalysis.GrowthScore,
			RiskScore:           riskAssessment.RiskScore,
			ValuationScore:      valuationAnalysis.ValuationScore,
			SentimentScore:      sentimentAnalysis.SentimentScore,
			CoherenceMultiplier: multiplier,
			BaseQualityScore:    base,
			FinalQualityScore:   final,
		},
		Metrics: metricsSummary(metrics, growthAnalysis, valuationAnalysis),

		GrowthAnalysis:    growthAnalysis,
		RiskAssessment:    riskAssessment,
		ValuationAnalysis: valuationAnalysis,
		SentimentAnalysis: sentimentAnalysis,

		InsiderTrading: insider,
		EarningsInfo:   earnings,
		SentimentInfo:  social,
	}

	s.log.Debug().
		Str("symbol", profile.Symbol).
		Float64("base", base).
		Float64("multiplier", multiplier).
		Float64("quality_score", final).
		Msg("Scored stock")

	return result
}

// coherenceMultiplier counts how many independent signals tell the same
// story. Scores built from agreeing signals are more trustworthy than equal
// scores built from conflicting ones, so agreement scales the result between
// the floor and the configured maximum.
func (s *QualityScorer) coherenceMultiplier(m *domain.FinancialMetrics) float64 {
	flags := 0

	// Revenue growth and cash generation point the same way.
	if (analyzers.Trend(m.Revenue) > 0) == (analyzers.Trend(m.FCF) > 0) {
		flags++
	}

	// Stable operating margins alongside a strong latest ROE.
	if analyzers.Stability(m.OperatingMargin) > 0.7 && domain.MostRecent(m.ROE) > 0.15 {
		flags++
	}

	// Earnings growth and the earnings multiple agree: fast growers should
	// carry rich multiples, slow growers cheap ones.
	strongEPSGrowth := len(m.EPS) > 1 && m.EPS[0] > 1.15*m.EPS[len(m.EPS)-1]
	richMultiple := domain.MostRecent(m.PER) > 20
	if strongEPSGrowth == richMultiple {
		flags++
	}

	// Conservative leverage with earnings fully backed by cash.
	lowLeverage := len(m.DebtToEquity) == 0 || m.DebtToEquity[0] < 1
	cashBacked := len(m.OCFToNetIncome) > 0 && m.OCFToNetIncome[0] > 1
	if lowLeverage && cashBacked {
		flags++
	}

	// Revenue and EPS histories are both steady.
	if analyzers.Stability(m.Revenue) > 0.7 && analyzers.Stability(m.EPS) > 0.7 {
		flags++
	}

	maxMultiplier := s.cfg.Scoring.CoherenceBonus.MaxMultiplier
	return coherenceFloor + float64(flags)/5*(maxMultiplier-coherenceFloor)
}

// metricsSummary extracts the headline numbers reported next to the score.
func metricsSummary(m *domain.FinancialMetrics, growth domain.GrowthAnalysis, valuation domain.ValuationAnalysis) domain.MetricsSummary {
	var avgROE float64
	if len(m.ROE) >= 3 {
		avgROE = (m.ROE[0] + m.ROE[1] + m.ROE[2]) / 3
	}

	return domain.MetricsSummary{
		RevenueCAGR:      growth.RevenueCAGR,
		EPSCAGR:          growth.EPSCAGR,
		FCFCAGR:          growth.FCFCAGR,
		AvgROE:           avgROE,
		LatestROE:        domain.MostRecent(m.ROE),
		PER:              domain.MostRecent(m.PER),
		PBR:              domain.MostRecent(m.PBR),
		DebtToEquity:     domain.MostRecent(m.DebtToEquity),
		InterestCoverage: domain.MostRecent(m.InterestCoverage),
		FCFYield:         valuation.FCFYield,
	}
}
