package analyzers

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aristath/screener/internal/config"
	"github.com/aristath/screener/internal/domain"
)

func TestSentimentAnalyzerAllSignalsMissing(t *testing.T) {
	analyzer := NewSentimentAnalyzer(config.Default().Sentiment)

	result := analyzer.Analyze(nil, nil, nil)

	assert.Equal(t, neutralScore, result.InsiderScore)
	assert.Equal(t, neutralScore, result.EarningsScore)
	assert.Equal(t, neutralScore, result.SocialScore)
	assert.InDelta(t, neutralScore, result.SentimentScore, 1e-9)
}

func TestInsiderScoreBuyingDominates(t *testing.T) {
	info := domain.NewInsiderTradingInfo([]domain.InsiderTransaction{
		{TransactionType: "P-Purchase", SecuritiesTransacted: 1000, Price: 50},
		{TransactionType: "P-Purchase", SecuritiesTransacted: 500, Price: 52},
		{TransactionType: "S-Sale", SecuritiesTransacted: 100, Price: 51},
	})

	score := insiderScore(info)

	// ratio 2.0 and value ratio well above 2, with significant buying
	assert.InDelta(t, 0.4*1+0.4*1+0.2*1, score, 1e-9)
}

func TestInsiderScoreOnlySells(t *testing.T) {
	info := domain.NewInsiderTradingInfo([]domain.InsiderTransaction{
		{TransactionType: "S-Sale", SecuritiesTransacted: 1000, Price: 50},
	})

	score := insiderScore(info)

	// zero on both ratio components, neutral on significance
	assert.InDelta(t, 0.2*0.5, score, 1e-9)
}

func TestActivityRatioScoreBands(t *testing.T) {
	assert.Equal(t, 0.5, activityRatioScore(0, 0, 0))
	assert.Equal(t, 0.0, activityRatioScore(0, 5, 0))
	assert.Equal(t, 1.0, activityRatioScore(5, 0, 5))
	assert.Equal(t, 1.0, activityRatioScore(4, 2, 2))
	assert.Equal(t, 0.8, activityRatioScore(3, 2, 1.5))
	assert.Equal(t, 0.4, activityRatioScore(1, 2, 0.5))
	assert.Equal(t, 0.2, activityRatioScore(1, 4, 0.25))
}

func TestEarningsScoreBeats(t *testing.T) {
	eps := 0.12
	rev := 0.03
	info := &domain.EarningsInfo{EPSSurprisePct: &eps, RevenueSurprisePct: &rev}

	assert.InDelta(t, 0.6*0.9+0.4*0.8, earningsScore(info), 1e-9)
}

func TestEarningsScoreMisses(t *testing.T) {
	eps := -0.25
	rev := -0.03
	info := &domain.EarningsInfo{EPSSurprisePct: &eps, RevenueSurprisePct: &rev}

	assert.InDelta(t, 0.6*0.1+0.4*0.3, earningsScore(info), 1e-9)
}

func TestEarningsScoreUnknownSurprisesAreNeutral(t *testing.T) {
	info := &domain.EarningsInfo{}
	assert.InDelta(t, neutralScore, earningsScore(info), 1e-9)
}

func TestSocialScoreBullishCrowd(t *testing.T) {
	info := domain.NewSentimentInfo(80, 10, 72)

	// bullish share 8/9, change +8
	assert.InDelta(t, 0.7*1+0.3*1, socialScore(info), 1e-9)
}

func TestSocialScoreNoOpinions(t *testing.T) {
	info := domain.NewSentimentInfo(0, 0, 0)

	// base neutral, change flat
	assert.InDelta(t, 0.7*0.5+0.3*0.5, socialScore(info), 1e-9)
}

func TestSentimentAnalyzerComposite(t *testing.T) {
	analyzer := NewSentimentAnalyzer(config.Default().Sentiment)

	insider := domain.NewInsiderTradingInfo([]domain.InsiderTransaction{
		{TransactionType: "P-Purchase", SecuritiesTransacted: 1000, Price: 50},
	})
	eps := 0.25
	earnings := &domain.EarningsInfo{EPSSurprisePct: &eps}
	social := domain.NewSentimentInfo(70, 20, 64)

	result := analyzer.Analyze(insider, earnings, social)

	assert.Equal(t, 1.0, result.InsiderScore)
	assert.InDelta(t, 0.6*1+0.4*0.5, result.EarningsScore, 1e-9)
	assert.Greater(t, result.SocialScore, 0.5)
	assert.Greater(t, result.SentimentScore, 0.5)
	assert.LessOrEqual(t, result.SentimentScore, 1.0)
}
