package pit

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/screener/internal/clients/fmp"
)

func date(value string) time.Time {
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		panic(err)
	}
	return parsed
}

func newTestFilter(asOf string) *Filter {
	return New(date(asOf), zerolog.Nop())
}

func TestApplyDropsUnfiledStatements(t *testing.T) {
	filter := newTestFilter("2024-01-05")

	bundle := &fmp.Bundle{IncomeStatements: []fmp.IncomeStatement{
		// Fiscal year ended before the cutoff, but the filing came after:
		// nobody could have read it on Jan 5.
		{Date: "2023-12-31", FillingDate: "2024-01-10", Revenue: 1000},
		{Date: "2022-12-31", FillingDate: "2023-01-12", Revenue: 900},
	}}

	filtered := filter.Apply(bundle)

	require.Len(t, filtered.IncomeStatements, 1)
	assert.Equal(t, "2022-12-31", filtered.IncomeStatements[0].Date)
}

func TestApplyUsesLaterOfFilingAndReportedDates(t *testing.T) {
	filter := newTestFilter("2024-01-15")

	bundle := &fmp.Bundle{BalanceSheets: []fmp.BalanceSheet{
		// Reported later than filed: the reported date governs.
		{Date: "2023-12-31", FillingDate: "2024-01-10", ReportedDate: "2024-01-20"},
	}}

	assert.Empty(t, filter.Apply(bundle).BalanceSheets)

	filter = newTestFilter("2024-01-20")
	assert.Len(t, filter.Apply(bundle).BalanceSheets, 1)
}

func TestApplyDropsRowsWithoutPublishDates(t *testing.T) {
	filter := newTestFilter("2023-06-30")

	// A period well before the cutoff is not enough: without a filing or
	// reported date nobody can tell when the figures became public.
	bundle := &fmp.Bundle{
		IncomeStatements: []fmp.IncomeStatement{{Date: "2023-03-31", Revenue: 1000}},
		Ratios:           []fmp.Ratios{{Date: "2023-03-31", ReturnOnEquity: 0.2}},
	}

	filtered := filter.Apply(bundle)
	assert.Empty(t, filtered.IncomeStatements)
	assert.Empty(t, filtered.Ratios)
}

func TestApplyDropsRowsWithoutAnyDate(t *testing.T) {
	filter := newTestFilter("2024-01-05")

	bundle := &fmp.Bundle{CashFlowStatements: []fmp.CashFlowStatement{{FreeCashFlow: 100}}}

	assert.Empty(t, filter.Apply(bundle).CashFlowStatements)
}

func TestApplyTruncatesTimestampedFilingDates(t *testing.T) {
	filter := newTestFilter("2024-01-10")

	bundle := &fmp.Bundle{IncomeStatements: []fmp.IncomeStatement{
		{Date: "2023-12-31", FillingDate: "2024-01-10 16:30:00"},
	}}

	assert.Len(t, filter.Apply(bundle).IncomeStatements, 1)
}

func TestApplyKeepsOnlyReportedEarnings(t *testing.T) {
	filter := newTestFilter("2024-06-01")
	eps := 1.5

	bundle := &fmp.Bundle{EarningsCalendar: []fmp.EarningsEvent{
		{Date: "2024-04-30", EPSActual: &eps, EPSEstimated: 1.2},
		{Date: "2024-05-15", EPSEstimated: 1.3},                  // estimate only
		{Date: "2024-07-30", EPSActual: &eps, EPSEstimated: 1.4}, // future
	}}

	filtered := filter.Apply(bundle)
	require.Len(t, filtered.EarningsCalendar, 1)
	assert.Equal(t, "2024-04-30", filtered.EarningsCalendar[0].Date)
}

func TestApplyFiltersPriceBars(t *testing.T) {
	filter := newTestFilter("2024-03-15")

	bundle := &fmp.Bundle{HistoricalPrices: []fmp.PriceBar{
		{Date: "2024-03-14", Close: 10},
		{Date: "2024-03-15", Close: 11},
		{Date: "2024-03-18", Close: 12},
	}}

	filtered := filter.Apply(bundle)
	require.Len(t, filtered.HistoricalPrices, 2)
	assert.Equal(t, 11.0, filtered.HistoricalPrices[1].Close)
}

func TestApplyClearsStaleTTMData(t *testing.T) {
	filter := newTestFilter("2023-01-01")
	filter.now = func() time.Time { return date("2024-01-01") }

	bundle := &fmp.Bundle{RatiosTTM: []fmp.RatiosTTM{{PERatioTTM: 20}}}

	assert.Empty(t, filter.Apply(bundle).RatiosTTM)
}

func TestApplyKeepsFreshTTMData(t *testing.T) {
	filter := newTestFilter("2024-01-01")
	filter.now = func() time.Time { return date("2024-01-03") }

	bundle := &fmp.Bundle{RatiosTTM: []fmp.RatiosTTM{{PERatioTTM: 20}}}

	assert.Len(t, filter.Apply(bundle).RatiosTTM, 1)
}

func TestApplyPassesThroughInsiderData(t *testing.T) {
	filter := newTestFilter("2024-01-01")

	bundle := &fmp.Bundle{SocialSentiment: &fmp.SocialSentiment{}}

	assert.NotNil(t, filter.Apply(bundle).SocialSentiment)
}
