// Package screener orchestrates the full screening pipeline: universe
// selection, concurrent data collection, quality scoring, and ranking.
package screener

import (
	"strings"

	"github.com/aristath/screener/internal/config"
	"github.com/aristath/screener/internal/domain"
)

// FilterUniverse applies the static pre-analysis filters to the raw profile
// list: common stocks only, inside the market cap range, optionally excluding
// financials.
func FilterUniverse(profiles []domain.Profile, filters config.InitialFilters) []domain.Profile {
	out := make([]domain.Profile, 0, len(profiles))
	for _, p := range profiles {
		if keepProfile(p, filters) {
			out = append(out, p)
		}
	}
	return out
}

func keepProfile(p domain.Profile, filters config.InitialFilters) bool {
	if p.Symbol == "" {
		return false
	}

	// Five-letter NASDAQ tickers ending in X are mutual funds by convention.
	if len(p.Symbol) == 5 && strings.HasSuffix(p.Symbol, "X") {
		return false
	}

	exchange := strings.ToUpper(p.ExchangeShortName)
	if strings.Contains(exchange, "MUTUAL") || strings.Contains(exchange, "FUND") {
		return false
	}

	// ETFs and funds report no market cap.
	if p.MarketCap == 0 {
		return false
	}
	if p.MarketCap < filters.MarketCapMin || p.MarketCap > filters.MarketCapMax {
		return false
	}

	if filters.ExcludeFinancialSector && p.Sector == "Financial Services" {
		return false
	}

	return true
}

// passesROEGate checks the return-on-equity history requirement: at least
// the configured number of years, averaging above the floor, with no single
// year below the per-year minimum.
func passesROEGate(roe []float64, criteria config.ROECriteria) bool {
	if len(roe) < criteria.Years {
		return false
	}

	var sum float64
	for _, v := range roe[:criteria.Years] {
		if v < criteria.MinEachYear {
			return false
		}
		sum += v
	}
	return sum/float64(criteria.Years) >= criteria.MinAvg
}
