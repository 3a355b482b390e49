// Package pit filters API payloads down to what was publicly known at a
// historical date, so backtests never act on information from the future.
package pit

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/screener/internal/clients/fmp"
)

// ttmStaleness is how far back a cutoff can sit before trailing-twelve-month
// data is discarded. TTM figures are a snapshot of today, not of the cutoff.
const ttmStaleness = 7 * 24 * time.Hour

const dateLayout = "2006-01-02"

// Filter removes rows that were not yet published at the cutoff date.
type Filter struct {
	asOf time.Time
	log  zerolog.Logger

	// now is replaceable for tests
	now func() time.Time
}

// New creates a point-in-time filter for the given cutoff.
func New(asOf time.Time, log zerolog.Logger) *Filter {
	return &Filter{
		asOf: asOf,
		log:  log.With().Str("component", "pit").Time("as_of", asOf).Logger(),
		now:  time.Now,
	}
}

// Apply returns a copy of the bundle containing only data published at or
// before the cutoff. Statement rows are kept by publication date, the later
// of the filing and reported dates; rows carrying neither are dropped, since
// the period date predates publication and would leak unpublished figures
// into the replay. Earnings events count only once actual results exist.
// TTM ratios are cleared unless the cutoff is within the last week, because
// they describe the present.
func (f *Filter) Apply(bundle *fmp.Bundle) *fmp.Bundle {
	filtered := &fmp.Bundle{
		InsiderTrading:  bundle.InsiderTrading,
		SocialSentiment: bundle.SocialSentiment,
	}

	for _, row := range bundle.IncomeStatements {
		if f.published(row.FillingDate, row.ReportedDate) {
			filtered.IncomeStatements = append(filtered.IncomeStatements, row)
		}
	}
	for _, row := range bundle.CashFlowStatements {
		if f.published(row.FillingDate, row.ReportedDate) {
			filtered.CashFlowStatements = append(filtered.CashFlowStatements, row)
		}
	}
	for _, row := range bundle.BalanceSheets {
		if f.published(row.FillingDate, row.ReportedDate) {
			filtered.BalanceSheets = append(filtered.BalanceSheets, row)
		}
	}
	for _, row := range bundle.Ratios {
		if f.published(row.FillingDate, row.ReportedDate) {
			filtered.Ratios = append(filtered.Ratios, row)
		}
	}
	for _, row := range bundle.KeyMetrics {
		if f.published(row.FillingDate, row.ReportedDate) {
			filtered.KeyMetrics = append(filtered.KeyMetrics, row)
		}
	}

	for _, event := range bundle.EarningsCalendar {
		if event.HasActual() && f.onOrBefore(event.Date) {
			filtered.EarningsCalendar = append(filtered.EarningsCalendar, event)
		}
	}

	for _, bar := range bundle.HistoricalPrices {
		if f.onOrBefore(bar.Date) {
			filtered.HistoricalPrices = append(filtered.HistoricalPrices, bar)
		}
	}

	if f.now().Sub(f.asOf) <= ttmStaleness {
		filtered.RatiosTTM = bundle.RatiosTTM
		filtered.KeyMetricsTTM = bundle.KeyMetricsTTM
	}

	f.log.Debug().
		Int("income_kept", len(filtered.IncomeStatements)).
		Int("earnings_kept", len(filtered.EarningsCalendar)).
		Msg("Applied point-in-time filter")

	return filtered
}

// published reports whether a statement row was public at the cutoff. The
// publication date is the later of the filing and reported dates; a row
// carrying neither is unpublishable and fails.
func (f *Filter) published(fillingDate, reportedDate string) bool {
	filling, okFilling := parseDate(fillingDate)
	reported, okReported := parseDate(reportedDate)
	if !okFilling && !okReported {
		return false
	}

	publish := filling
	if !okFilling || (okReported && reported.After(filling)) {
		publish = reported
	}
	return !publish.After(f.asOf)
}

// onOrBefore reports whether a plain date string falls at or before the cutoff.
func (f *Filter) onOrBefore(date string) bool {
	parsed, ok := parseDate(date)
	return ok && !parsed.After(f.asOf)
}

// parseDate parses a date string. Timestamps are truncated to their date part.
func parseDate(value string) (time.Time, bool) {
	if len(value) > len(dateLayout) {
		value = value[:len(dateLayout)]
	}
	parsed, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, false
	}
	return parsed, true
}
