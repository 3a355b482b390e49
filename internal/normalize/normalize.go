// Package normalize turns raw API payloads into aligned domain structures.
// Statement rows arrive as independent lists keyed by date; the output series
// cover only dates present in every available statement type so every index
// refers to the same fiscal period.
package normalize

import (
	"sort"

	"github.com/aristath/screener/internal/clients/fmp"
	"github.com/aristath/screener/internal/domain"
)

// FinancialMetrics aligns the statement rows of a bundle into per-date series.
// It returns nil when any of the three core statements is missing or when the
// statements share no common dates.
func FinancialMetrics(bundle *fmp.Bundle) *domain.FinancialMetrics {
	if len(bundle.IncomeStatements) == 0 ||
		len(bundle.CashFlowStatements) == 0 ||
		len(bundle.BalanceSheets) == 0 {
		return nil
	}

	income := make(map[string]fmp.IncomeStatement, len(bundle.IncomeStatements))
	for _, row := range bundle.IncomeStatements {
		income[row.Date] = row
	}
	cashFlow := make(map[string]fmp.CashFlowStatement, len(bundle.CashFlowStatements))
	for _, row := range bundle.CashFlowStatements {
		cashFlow[row.Date] = row
	}
	balance := make(map[string]fmp.BalanceSheet, len(bundle.BalanceSheets))
	for _, row := range bundle.BalanceSheets {
		balance[row.Date] = row
	}
	ratios := make(map[string]fmp.Ratios, len(bundle.Ratios))
	for _, row := range bundle.Ratios {
		ratios[row.Date] = row
	}
	keyMetrics := make(map[string]struct{}, len(bundle.KeyMetrics))
	for _, row := range bundle.KeyMetrics {
		keyMetrics[row.Date] = struct{}{}
	}

	var dates []string
	for date := range income {
		if _, ok := cashFlow[date]; !ok {
			continue
		}
		if _, ok := balance[date]; !ok {
			continue
		}
		if len(ratios) > 0 {
			if _, ok := ratios[date]; !ok {
				continue
			}
		}
		if len(keyMetrics) > 0 {
			if _, ok := keyMetrics[date]; !ok {
				continue
			}
		}
		dates = append(dates, date)
	}
	if len(dates) == 0 {
		return nil
	}

	// ISO dates sort lexicographically, so reverse order is newest first.
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))

	metrics := &domain.FinancialMetrics{Dates: dates}

	for _, date := range dates {
		inc := income[date]
		cf := cashFlow[date]
		bs := balance[date]

		metrics.Revenue = append(metrics.Revenue, inc.Revenue)
		metrics.EPS = append(metrics.EPS, inc.EPS)
		metrics.GrossMargin = append(metrics.GrossMargin, inc.GrossProfitRatio)
		metrics.OperatingMargin = append(metrics.OperatingMargin, inc.OperatingIncomeRatio)
		metrics.RDExpense = append(metrics.RDExpense, inc.RDExpenses)

		metrics.FCF = append(metrics.FCF, cf.FreeCashFlow)
		capex := cf.CapitalExpenditure
		if capex < 0 {
			capex = -capex
		}
		metrics.CapEx = append(metrics.CapEx, capex)
		metrics.OperatingCashFlow = append(metrics.OperatingCashFlow, cf.OperatingCashFlow)

		metrics.WorkingCapital = append(metrics.WorkingCapital, bs.TotalCurrentAssets-bs.TotalCurrentLiabilities)
		metrics.TotalDebt = append(metrics.TotalDebt, bs.TotalDebt)
		metrics.TotalEquity = append(metrics.TotalEquity, bs.TotalStockholdersEquity)
		metrics.TotalAssets = append(metrics.TotalAssets, bs.TotalAssets)

		// Every series stays index-aligned with Dates, so a missing ratios
		// endpoint yields zeros rather than a shorter ROE series.
		if row, ok := ratios[date]; ok {
			metrics.ROE = append(metrics.ROE, row.ReturnOnEquity)
		} else {
			metrics.ROE = append(metrics.ROE, 0)
		}

		metrics.DebtToEquity = append(metrics.DebtToEquity, safeRatio(bs.TotalDebt, bs.TotalStockholdersEquity))
		metrics.InterestCoverage = append(metrics.InterestCoverage, safeRatio(inc.OperatingIncome, inc.InterestExpense))
		metrics.DebtToEBITDA = append(metrics.DebtToEBITDA, safeRatio(bs.TotalDebt, inc.EBITDA))
		metrics.OCFToNetIncome = append(metrics.OCFToNetIncome, safeRatio(cf.OperatingCashFlow, inc.NetIncome))
	}

	if len(bundle.RatiosTTM) > 0 {
		metrics.PER = []float64{bundle.RatiosTTM[0].PERatioTTM}
		metrics.PBR = []float64{bundle.RatiosTTM[0].PriceBookValueRatioTTM}
	} else {
		metrics.PER = []float64{0}
		metrics.PBR = []float64{0}
	}

	// TTM free cash flow approximated by the most recent annual figures.
	ttmPeriods := len(metrics.FCF)
	if ttmPeriods > 4 {
		ttmPeriods = 4
	}
	for _, v := range metrics.FCF[:ttmPeriods] {
		metrics.TTMFCF += v
	}

	return metrics
}

// safeRatio divides num by denom, returning 0 when denom is not positive.
func safeRatio(num, denom float64) float64 {
	if denom <= 0 {
		return 0
	}
	return num / denom
}

// InsiderTrading summarizes insider transactions, or returns nil when the
// provider reported none.
func InsiderTrading(bundle *fmp.Bundle) *domain.InsiderTradingInfo {
	if len(bundle.InsiderTrading) == 0 {
		return nil
	}
	return domain.NewInsiderTradingInfo(bundle.InsiderTrading)
}

// Earnings summarizes the most recent earnings calendar event, or returns nil
// when the calendar is empty. Surprise percentages stay nil for events whose
// actual results have not been reported yet.
func Earnings(bundle *fmp.Bundle) *domain.EarningsInfo {
	if len(bundle.EarningsCalendar) == 0 {
		return nil
	}
	event := bundle.EarningsCalendar[0]

	info := domain.NewEarningsInfo(
		deref(event.EPSActual),
		event.EPSEstimated,
		deref(event.RevenueActual),
		event.RevenueEstimated,
		event.Date,
	)
	if event.EPSActual == nil {
		info.EPSSurprisePct = nil
		info.HasPositiveSurprise = false
	}
	if event.RevenueActual == nil {
		info.RevenueSurprisePct = nil
	}
	return info
}

// Sentiment summarizes social sentiment, or returns nil when neither the
// bullish nor the bearish side returned data.
func Sentiment(bundle *fmp.Bundle) *domain.SentimentInfo {
	social := bundle.SocialSentiment
	if social == nil || (social.Bullish == nil && social.Bearish == nil) {
		return nil
	}

	var bullish, lastBullish, bearish float64
	if social.Bullish != nil {
		bullish = social.Bullish.Sentiment
		lastBullish = social.Bullish.LastSentiment
	}
	if social.Bearish != nil {
		bearish = social.Bearish.Sentiment
	}

	return domain.NewSentimentInfo(bullish, bearish, lastBullish)
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
