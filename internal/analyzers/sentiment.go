package analyzers

import (
	"github.com/aristath/screener/internal/config"
	"github.com/aristath/screener/internal/domain"
)

// neutralScore is used whenever a sentiment signal is unavailable. Missing
// data is not a bearish signal.
const neutralScore = 0.5

// SentimentAnalyzer grades insider activity, earnings surprises, and social
// sentiment. Any missing signal scores neutral.
type SentimentAnalyzer struct {
	cfg config.Sentiment
}

// NewSentimentAnalyzer creates a sentiment analyzer with the given weights.
func NewSentimentAnalyzer(cfg config.Sentiment) *SentimentAnalyzer {
	return &SentimentAnalyzer{cfg: cfg}
}

// Analyze scores sentiment from whichever signals are available.
func (a *SentimentAnalyzer) Analyze(insider *domain.InsiderTradingInfo, earnings *domain.EarningsInfo, social *domain.SentimentInfo) domain.SentimentAnalysis {
	result := domain.SentimentAnalysis{
		InsiderScore:  insiderScore(insider),
		EarningsScore: earningsScore(earnings),
		SocialScore:   socialScore(social),
	}

	result.SentimentScore = clamp01(
		a.cfg.Weights["insider_trading"]*result.InsiderScore +
			a.cfg.Weights["earnings"]*result.EarningsScore +
			a.cfg.Weights["social_sentiment"]*result.SocialScore)

	return result
}

// insiderScore blends the buy/sell count ratio, the dollar value ratio, and
// whether buying was significant.
func insiderScore(info *domain.InsiderTradingInfo) float64 {
	if info == nil {
		return neutralScore
	}

	countScore := activityRatioScore(float64(info.BuyCount), float64(info.SellCount), info.NetBuySellRatio)

	var valueRatio float64
	if info.TotalSellValue > 0 {
		valueRatio = info.TotalBuyValue / info.TotalSellValue
	}
	valueScore := activityRatioScore(info.TotalBuyValue, info.TotalSellValue, valueRatio)

	significanceScore := neutralScore
	if info.SignificantBuys {
		significanceScore = 1
	}

	return 0.4*countScore + 0.4*valueScore + 0.2*significanceScore
}

// activityRatioScore grades a buy/sell ratio, handling one-sided activity
// explicitly: only sells is the worst signal, only buys the best.
func activityRatioScore(buys, sells, ratio float64) float64 {
	switch {
	case buys == 0 && sells == 0:
		return neutralScore
	case buys == 0:
		return 0
	case sells == 0:
		return 1
	case ratio >= 2:
		return 1
	case ratio >= 1:
		return 0.8
	case ratio >= 0.5:
		return 0.4
	default:
		return 0.2
	}
}

// earningsScore bands the EPS and revenue surprise fractions, EPS weighted
// higher. Unknown surprises score neutral.
func earningsScore(info *domain.EarningsInfo) float64 {
	if info == nil {
		return neutralScore
	}

	epsScore := neutralScore
	if info.EPSSurprisePct != nil {
		switch s := *info.EPSSurprisePct; {
		case s >= 0.2:
			epsScore = 1
		case s >= 0.1:
			epsScore = 0.9
		case s >= 0.05:
			epsScore = 0.8
		case s >= 0:
			epsScore = 0.7
		case s >= -0.05:
			epsScore = 0.4
		case s >= -0.1:
			epsScore = 0.3
		case s >= -0.2:
			epsScore = 0.2
		default:
			epsScore = 0.1
		}
	}

	revScore := neutralScore
	if info.RevenueSurprisePct != nil {
		switch s := *info.RevenueSurprisePct; {
		case s >= 0.1:
			revScore = 1
		case s >= 0.05:
			revScore = 0.9
		case s >= 0.02:
			revScore = 0.8
		case s >= 0:
			revScore = 0.7
		case s >= -0.02:
			revScore = 0.4
		case s >= -0.05:
			revScore = 0.3
		case s >= -0.1:
			revScore = 0.2
		default:
			revScore = 0.1
		}
	}

	return 0.6*epsScore + 0.4*revScore
}

// socialScore blends the bullish share of opinionated posts with the recent
// change in bullishness.
func socialScore(info *domain.SentimentInfo) float64 {
	if info == nil {
		return neutralScore
	}

	total := info.BullishPercentage + info.BearishPercentage
	baseScore := neutralScore
	if total > 0 {
		switch ratio := info.BullishPercentage / total; {
		case ratio >= 0.8:
			baseScore = 1
		case ratio >= 0.6:
			baseScore = 0.8
		case ratio >= 0.4:
			baseScore = 0.5
		case ratio >= 0.2:
			baseScore = 0.3
		default:
			baseScore = 0
		}
	}

	var changeScore float64
	switch c := info.SentimentChange; {
	case c >= 5:
		changeScore = 1
	case c >= 2:
		changeScore = 0.8
	case c > -2:
		changeScore = 0.5
	case c > -5:
		changeScore = 0.3
	default:
		changeScore = 0
	}

	return 0.7*baseScore + 0.3*changeScore
}
