package domain

import "strings"

// InsiderTransaction is a single insider trade as reported by the data provider.
type InsiderTransaction struct {
	TransactionType      string  `json:"transactionType"`
	SecuritiesTransacted float64 `json:"securitiesTransacted"`
	Price                float64 `json:"price"`
	TransactionDate      string  `json:"transactionDate"`
	ReportingName        string  `json:"reportingName"`
}

// InsiderTradingInfo summarizes recent insider activity for a symbol.
type InsiderTradingInfo struct {
	RecentTransactions []InsiderTransaction `json:"recent_transactions"`
	BuyCount           int                  `json:"buy_count"`
	SellCount          int                  `json:"sell_count"`
	NetBuySellRatio    float64              `json:"net_buy_sell_ratio"`
	TotalBuyValue      float64              `json:"total_buy_value"`
	TotalSellValue     float64              `json:"total_sell_value"`
	SignificantBuys    bool                 `json:"significant_buys"`
}

// NewInsiderTradingInfo classifies transactions and computes the derived
// aggregates. Transaction types beginning with P or B count as buys, types
// beginning with S count as sells; anything else is ignored.
func NewInsiderTradingInfo(transactions []InsiderTransaction) *InsiderTradingInfo {
	info := &InsiderTradingInfo{RecentTransactions: transactions}
	if len(transactions) == 0 {
		return info
	}

	for _, tx := range transactions {
		value := tx.SecuritiesTransacted * tx.Price
		switch {
		case strings.HasPrefix(tx.TransactionType, "P"), strings.HasPrefix(tx.TransactionType, "B"):
			info.BuyCount++
			info.TotalBuyValue += value
		case strings.HasPrefix(tx.TransactionType, "S"):
			info.SellCount++
			info.TotalSellValue += value
		}
	}

	sells := info.SellCount
	if sells < 1 {
		sells = 1
	}
	info.NetBuySellRatio = float64(info.BuyCount) / float64(sells)
	info.SignificantBuys = info.BuyCount > 0 && info.NetBuySellRatio >= 0.5

	return info
}

// EarningsInfo summarizes the most recent earnings report.
// Surprise percentages are nil when either side of the comparison is unknown.
type EarningsInfo struct {
	LatestEPSActual        float64  `json:"latest_eps_actual"`
	LatestEPSEstimated     float64  `json:"latest_eps_estimated"`
	LatestRevenueActual    float64  `json:"latest_revenue_actual"`
	LatestRevenueEstimated float64  `json:"latest_revenue_estimated"`
	EPSSurprisePct         *float64 `json:"eps_surprise_percentage"`
	RevenueSurprisePct     *float64 `json:"revenue_surprise_percentage"`
	NextEarningsDate       string   `json:"next_earnings_date"`
	HasPositiveSurprise    bool     `json:"has_positive_surprise"`
}

// NewEarningsInfo computes surprise fractions from actual vs estimated values.
// A zero estimate yields a surprise of exactly 0 rather than a division error.
func NewEarningsInfo(epsActual, epsEstimated, revActual, revEstimated float64, nextDate string) *EarningsInfo {
	info := &EarningsInfo{
		LatestEPSActual:        epsActual,
		LatestEPSEstimated:     epsEstimated,
		LatestRevenueActual:    revActual,
		LatestRevenueEstimated: revEstimated,
		NextEarningsDate:       nextDate,
	}

	epsSurprise := surpriseFraction(epsActual, epsEstimated)
	info.EPSSurprisePct = &epsSurprise
	info.HasPositiveSurprise = epsSurprise > 0

	revSurprise := surpriseFraction(revActual, revEstimated)
	info.RevenueSurprisePct = &revSurprise

	return info
}

func surpriseFraction(actual, estimated float64) float64 {
	if estimated == 0 {
		return 0
	}
	diff := (actual - estimated) / estimated
	if estimated < 0 {
		diff = -diff
	}
	return diff
}

// SentimentInfo summarizes social sentiment for a symbol.
type SentimentInfo struct {
	BullishPercentage float64 `json:"bullish_percentage"`
	BearishPercentage float64 `json:"bearish_percentage"`
	NeutralPercentage float64 `json:"neutral_percentage"`
	SentimentChange   float64 `json:"sentiment_change"`
	OverallSentiment  string  `json:"overall_sentiment"`
}

// NewSentimentInfo derives neutral share, sentiment change, and the overall
// label. Overall is bullish or bearish only when the respective share exceeds 60.
func NewSentimentInfo(bullish, bearish, lastBullish float64) *SentimentInfo {
	neutral := 100 - bullish - bearish
	if neutral < 0 {
		neutral = 0
	}

	change := 0.0
	if lastBullish > 0 {
		change = bullish - lastBullish
	}

	overall := "neutral"
	if bullish > 60 {
		overall = "bullish"
	} else if bearish > 60 {
		overall = "bearish"
	}

	return &SentimentInfo{
		BullishPercentage: bullish,
		BearishPercentage: bearish,
		NeutralPercentage: neutral,
		SentimentChange:   change,
		OverallSentiment:  overall,
	}
}
