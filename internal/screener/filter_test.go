package screener

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aristath/screener/internal/config"
	"github.com/aristath/screener/internal/domain"
)

func testFilters() config.InitialFilters {
	return config.InitialFilters{
		MarketCapMin: 500_000_000,
		MarketCapMax: math.Inf(1),
		ROE:          config.ROECriteria{MinAvg: 0.15, MinEachYear: 0.10, Years: 3},
	}
}

func TestFilterUniverse(t *testing.T) {
	profiles := []domain.Profile{
		{Symbol: "GOOD", Sector: "Technology", MarketCap: 2e9, ExchangeShortName: "NASDAQ"},
		{Symbol: "", MarketCap: 2e9},
		{Symbol: "VFIAX", MarketCap: 2e9, ExchangeShortName: "NASDAQ"},
		{Symbol: "ETF", MarketCap: 0, ExchangeShortName: "NASDAQ"},
		{Symbol: "FND", MarketCap: 2e9, ExchangeShortName: "Mutual Fund"},
		{Symbol: "TINY", MarketCap: 100_000_000, ExchangeShortName: "NASDAQ"},
	}

	filtered := FilterUniverse(profiles, testFilters())

	assert.Len(t, filtered, 1)
	assert.Equal(t, "GOOD", filtered[0].Symbol)
}

func TestFilterUniverseFiveLetterXOnlyMatchesFunds(t *testing.T) {
	profiles := []domain.Profile{
		{Symbol: "NFLX", MarketCap: 2e9, ExchangeShortName: "NASDAQ"},  // four letters, fine
		{Symbol: "XEROX", MarketCap: 2e9, ExchangeShortName: "NASDAQ"}, // five letters ending X
	}

	filtered := FilterUniverse(profiles, testFilters())

	assert.Len(t, filtered, 1)
	assert.Equal(t, "NFLX", filtered[0].Symbol)
}

func TestFilterUniverseMarketCapBounds(t *testing.T) {
	filters := testFilters()
	filters.MarketCapMax = 1e10

	profiles := []domain.Profile{
		{Symbol: "INBND", MarketCap: 5e9, ExchangeShortName: "NASDAQ"},
		{Symbol: "MEGA", MarketCap: 5e11, ExchangeShortName: "NASDAQ"},
	}

	filtered := FilterUniverse(profiles, filters)

	assert.Len(t, filtered, 1)
	assert.Equal(t, "INBND", filtered[0].Symbol)
}

func TestFilterUniverseFinancialSectorToggle(t *testing.T) {
	profiles := []domain.Profile{
		{Symbol: "BANK", Sector: "Financial Services", MarketCap: 2e9, ExchangeShortName: "NASDAQ"},
	}

	assert.Len(t, FilterUniverse(profiles, testFilters()), 1)

	filters := testFilters()
	filters.ExcludeFinancialSector = true
	assert.Empty(t, FilterUniverse(profiles, filters))
}

func TestPassesROEGate(t *testing.T) {
	criteria := config.ROECriteria{MinAvg: 0.15, MinEachYear: 0.10, Years: 3}

	tests := []struct {
		name string
		roe  []float64
		want bool
	}{
		{"strong history", []float64{0.20, 0.18, 0.16}, true},
		{"too short", []float64{0.20, 0.18}, false},
		{"average below floor", []float64{0.14, 0.14, 0.14}, false},
		{"one weak year", []float64{0.30, 0.30, 0.05}, false},
		{"exactly at thresholds", []float64{0.15, 0.15, 0.15}, true},
		{"extra years ignored", []float64{0.20, 0.18, 0.16, -0.50}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, passesROEGate(tt.roe, criteria))
		})
	}
}
