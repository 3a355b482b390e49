package domain

// Profile holds the identification data extracted from a company profile.
type Profile struct {
	Symbol            string  `json:"symbol"`
	CompanyName       string  `json:"companyName"`
	Sector            string  `json:"sector"`
	Industry          string  `json:"industry"`
	MarketCap         float64 `json:"mktCap"`
	ExchangeShortName string  `json:"exchangeShortName"`
}

// ComponentScores holds the per-axis scores and the coherence adjustment.
type ComponentScores struct {
	GrowthScore         float64 `json:"growth_score"`
	RiskScore           float64 `json:"risk_score"`
	ValuationScore      float64 `json:"valuation_score"`
	SentimentScore      float64 `json:"sentiment_score"`
	CoherenceMultiplier float64 `json:"coherence_multiplier"`
	BaseQualityScore    float64 `json:"base_quality_score"`
	FinalQualityScore   float64 `json:"final_quality_score"`
}

// MetricsSummary holds the headline metrics reported alongside the score.
type MetricsSummary struct {
	RevenueCAGR      float64 `json:"revenue_cagr"`
	EPSCAGR          float64 `json:"eps_cagr"`
	FCFCAGR          float64 `json:"fcf_cagr"`
	AvgROE           float64 `json:"avg_roe"`
	LatestROE        float64 `json:"latest_roe"`
	PER              float64 `json:"per"`
	PBR              float64 `json:"pbr"`
	DebtToEquity     float64 `json:"debt_to_equity"`
	InterestCoverage float64 `json:"interest_coverage"`
	FCFYield         float64 `json:"fcf_yield"`
}

// GrowthAnalysis is the detailed breakdown from the growth analyzer.
type GrowthAnalysis struct {
	RevenueCAGR         float64            `json:"revenue_cagr"`
	EPSCAGR             float64            `json:"eps_cagr"`
	FCFCAGR             float64            `json:"fcf_cagr"`
	MagnitudeScores     map[string]float64 `json:"magnitude_scores"`
	ConsistencyScores   map[string]float64 `json:"consistency_scores"`
	SustainabilityScore float64            `json:"sustainability_score"`
	MagnitudeScore      float64            `json:"magnitude_score"`
	ConsistencyScore    float64            `json:"consistency_score"`
	GrowthScore         float64            `json:"growth_score"`
}

// RiskAssessment is the detailed breakdown from the risk analyzer.
type RiskAssessment struct {
	DebtScore            float64 `json:"debt_score"`
	WorkingCapitalScore  float64 `json:"working_capital_score"`
	MarginStabilityScore float64 `json:"margin_stability_score"`
	CashFlowQualityScore float64 `json:"cash_flow_quality_score"`
	RiskScore            float64 `json:"risk_score"`
}

// ValuationAnalysis is the detailed breakdown from the valuation analyzer.
type ValuationAnalysis struct {
	PER                 float64 `json:"per"`
	PBR                 float64 `json:"pbr"`
	FCFYield            float64 `json:"fcf_yield"`
	PERScore            float64 `json:"per_score"`
	PBRScore            float64 `json:"pbr_score"`
	FCFYieldScore       float64 `json:"fcf_yield_score"`
	GrowthAdjustedScore float64 `json:"growth_adjusted_score"`
	ValuationScore      float64 `json:"valuation_score"`
}

// SentimentAnalysis is the detailed breakdown from the sentiment analyzer.
type SentimentAnalysis struct {
	InsiderScore   float64 `json:"insider_score"`
	EarningsScore  float64 `json:"earnings_score"`
	SocialScore    float64 `json:"social_score"`
	SentimentScore float64 `json:"sentiment_score"`
}

// StockAnalysisResult is the complete screening output for one stock.
type StockAnalysisResult struct {
	Symbol      string  `json:"symbol"`
	CompanyName string  `json:"company_name"`
	Sector      string  `json:"sector"`
	Industry    string  `json:"industry"`
	MarketCap   float64 `json:"market_cap"`

	QualityScore           float64 `json:"quality_score"`
	NormalizedQualityScore float64 `json:"normalized_quality_score"`

	ComponentScores ComponentScores `json:"component_scores"`
	Metrics         MetricsSummary  `json:"metrics"`

	GrowthAnalysis    GrowthAnalysis    `json:"growth_analysis"`
	RiskAssessment    RiskAssessment    `json:"risk_assessment"`
	ValuationAnalysis ValuationAnalysis `json:"valuation_analysis"`
	SentimentAnalysis SentimentAnalysis `json:"sentiment_analysis"`

	InsiderTrading *InsiderTradingInfo `json:"insider_trading,omitempty"`
	EarningsInfo   *EarningsInfo       `json:"earnings_info,omitempty"`
	SentimentInfo  *SentimentInfo      `json:"sentiment_info,omitempty"`

	SectorPercentile map[string]float64 `json:"sector_percentile,omitempty"`
}
