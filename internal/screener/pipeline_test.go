package screener

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/screener/internal/clients/fmp"
	"github.com/aristath/screener/internal/config"
	"github.com/aristath/screener/internal/domain"
)

type stubProvider struct {
	profiles []domain.Profile
	bundles  map[string]*fmp.Bundle
	errs     map[string]error
}

func (p *stubProvider) GetNASDAQSymbols(ctx context.Context) ([]fmp.SymbolListing, error) {
	listings := make([]fmp.SymbolListing, len(p.profiles))
	for i, profile := range p.profiles {
		listings[i] = fmp.SymbolListing{Symbol: profile.Symbol}
	}
	return listings, nil
}

func (p *stubProvider) GetCompanyProfiles(ctx context.Context, symbols []string) ([]domain.Profile, error) {
	return p.profiles, nil
}

func (p *stubProvider) GetComprehensive(ctx context.Context, symbol string) (*fmp.Bundle, error) {
	if err, ok := p.errs[symbol]; ok {
		return nil, err
	}
	bundle, ok := p.bundles[symbol]
	if !ok {
		return &fmp.Bundle{}, nil
	}
	return bundle, nil
}

// qualityBundle builds three aligned fiscal years whose strength scales with
// growth: 1.0 is a flat business, higher values grow revenue, earnings, and
// cash flow by that factor every year.
func qualityBundle(growth float64) *fmp.Bundle {
	years := []string{"2024-12-31", "2023-12-31", "2022-12-31"}
	bundle := &fmp.Bundle{}

	for i, date := range years {
		scale := 1.0
		for j := 0; j < len(years)-1-i; j++ {
			scale *= growth
		}

		bundle.IncomeStatements = append(bundle.IncomeStatements, fmp.IncomeStatement{
			Date: date, Revenue: 1000 * scale, EPS: 2 * scale,
			GrossProfitRatio: 0.6, OperatingIncomeRatio: 0.25,
			OperatingIncome: 250 * scale, InterestExpense: 10,
			EBITDA: 300 * scale, NetIncome: 200 * scale, RDExpenses: 100 * scale,
		})
		bundle.CashFlowStatements = append(bundle.CashFlowStatements, fmp.CashFlowStatement{
			Date: date, FreeCashFlow: 200 * scale, CapitalExpenditure: -40, OperatingCashFlow: 220 * scale,
		})
		bundle.BalanceSheets = append(bundle.BalanceSheets, fmp.BalanceSheet{
			Date: date, TotalCurrentAssets: 500, TotalCurrentLiabilities: 300,
			TotalDebt: 200, TotalStockholdersEquity: 1000, TotalAssets: 2000,
		})
		bundle.Ratios = append(bundle.Ratios, fmp.Ratios{Date: date, ReturnOnEquity: 0.20})
	}

	bundle.RatiosTTM = []fmp.RatiosTTM{{PERatioTTM: 15, PriceBookValueRatioTTM: 2}}
	return bundle
}

func nasdaqProfile(symbol string) domain.Profile {
	return domain.Profile{
		Symbol:            symbol,
		CompanyName:       symbol + " Inc.",
		Sector:            "Technology",
		MarketCap:         2e9,
		ExchangeShortName: "NASDAQ",
	}
}

func parseTestDate(value string) (time.Time, error) {
	return time.Parse("2006-01-02", value)
}

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Output.MinQualityScore = 0 // rank everything
	cfg.Concurrency.MaxWorkers = 4
	return cfg
}

func TestRunRanksByQualityScore(t *testing.T) {
	provider := &stubProvider{
		profiles: []domain.Profile{nasdaqProfile("FLAT"), nasdaqProfile("FAST"), nasdaqProfile("SLOW")},
		bundles: map[string]*fmp.Bundle{
			"FLAT": qualityBundle(1.0),
			"FAST": qualityBundle(1.25),
			"SLOW": qualityBundle(1.05),
		},
	}
	s := New(provider, testConfig(), zerolog.Nop())

	results, stats, err := s.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, "FAST", results[0].Symbol)
	assert.Equal(t, "SLOW", results[1].Symbol)
	assert.Equal(t, "FLAT", results[2].Symbol)
	assert.Equal(t, 3, stats.UniverseSize)
	assert.Equal(t, 3, stats.Analyzed)
}

func TestRunNormalizesSelectedBatch(t *testing.T) {
	provider := &stubProvider{
		profiles: []domain.Profile{nasdaqProfile("FLAT"), nasdaqProfile("FAST"), nasdaqProfile("SLOW")},
		bundles: map[string]*fmp.Bundle{
			"FLAT": qualityBundle(1.0),
			"FAST": qualityBundle(1.25),
			"SLOW": qualityBundle(1.05),
		},
	}
	s := New(provider, testConfig(), zerolog.Nop())

	results, _, err := s.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, 1.0, results[0].NormalizedQualityScore)
	assert.Equal(t, 0.0, results[2].NormalizedQualityScore)
	assert.Greater(t, results[1].NormalizedQualityScore, 0.0)
	assert.Less(t, results[1].NormalizedQualityScore, 1.0)
}

func TestRunSkipsStocksWithoutStatements(t *testing.T) {
	provider := &stubProvider{
		profiles: []domain.Profile{nasdaqProfile("GOOD"), nasdaqProfile("EMPTY")},
		bundles: map[string]*fmp.Bundle{
			"GOOD": qualityBundle(1.1),
		},
	}
	s := New(provider, testConfig(), zerolog.Nop())

	results, stats, err := s.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, results, 1)
	assert.Equal(t, "GOOD", results[0].Symbol)
	assert.Equal(t, 1, stats.Skipped)
}

func TestRunEnforcesROEGate(t *testing.T) {
	weak := qualityBundle(1.1)
	for i := range weak.Ratios {
		weak.Ratios[i].ReturnOnEquity = 0.05
	}

	provider := &stubProvider{
		profiles: []domain.Profile{nasdaqProfile("GOOD"), nasdaqProfile("WEAK")},
		bundles: map[string]*fmp.Bundle{
			"GOOD": qualityBundle(1.1),
			"WEAK": weak,
		},
	}
	s := New(provider, testConfig(), zerolog.Nop())

	results, stats, err := s.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, results, 1)
	assert.Equal(t, "GOOD", results[0].Symbol)
	assert.Equal(t, 1, stats.Skipped)
}

func TestRunRecordsFailedSymbols(t *testing.T) {
	provider := &stubProvider{
		profiles: []domain.Profile{nasdaqProfile("GOOD"), nasdaqProfile("BROKEN")},
		bundles: map[string]*fmp.Bundle{
			"GOOD": qualityBundle(1.1),
		},
		errs: map[string]error{
			"BROKEN": fmt.Errorf("connection reset"),
		},
	}
	s := New(provider, testConfig(), zerolog.Nop())

	results, stats, err := s.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, results, 1)
	assert.Equal(t, "connection reset", stats.Failed["BROKEN"])
}

func TestRunAppliesQualityThresholdAndCap(t *testing.T) {
	provider := &stubProvider{
		profiles: []domain.Profile{nasdaqProfile("A"), nasdaqProfile("B")},
		bundles: map[string]*fmp.Bundle{
			"A": qualityBundle(1.2),
			"B": qualityBundle(1.1),
		},
	}

	cfg := testConfig()
	cfg.Output.MinQualityScore = 0.99
	s := New(provider, cfg, zerolog.Nop())

	results, _, err := s.Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, results)

	cfg = testConfig()
	cfg.Output.MaxStocks = 1
	s = New(provider, cfg, zerolog.Nop())

	results, _, err = s.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "A", results[0].Symbol)
	assert.Equal(t, 1.0, results[0].NormalizedQualityScore)
}

func TestRunExcludesFilteredProfiles(t *testing.T) {
	etf := nasdaqProfile("QQQ")
	etf.MarketCap = 0

	provider := &stubProvider{
		profiles: []domain.Profile{nasdaqProfile("GOOD"), etf},
		bundles: map[string]*fmp.Bundle{
			"GOOD": qualityBundle(1.1),
		},
	}
	s := New(provider, testConfig(), zerolog.Nop())

	results, stats, err := s.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, results, 1)
	assert.Equal(t, 2, stats.UniverseSize)
	assert.Equal(t, 1, stats.Candidates)
}

func TestRunOrderIsIndependentOfInputOrder(t *testing.T) {
	bundles := map[string]*fmp.Bundle{
		"FLAT": qualityBundle(1.0),
		"FAST": qualityBundle(1.25),
		"SLOW": qualityBundle(1.05),
	}

	forward := &stubProvider{
		profiles: []domain.Profile{nasdaqProfile("FLAT"), nasdaqProfile("FAST"), nasdaqProfile("SLOW")},
		bundles:  bundles,
	}
	reversed := &stubProvider{
		profiles: []domain.Profile{nasdaqProfile("SLOW"), nasdaqProfile("FAST"), nasdaqProfile("FLAT")},
		bundles:  bundles,
	}

	first, _, err := New(forward, testConfig(), zerolog.Nop()).Run(context.Background())
	require.NoError(t, err)
	second, _, err := New(reversed, testConfig(), zerolog.Nop()).Run(context.Background())
	require.NoError(t, err)

	require.Len(t, second, len(first))
	for i := range first {
		assert.Equal(t, first[i].Symbol, second[i].Symbol)
		assert.InDelta(t, first[i].QualityScore, second[i].QualityScore, 1e-12)
	}
}

func TestRunBreaksTiesByUniverseOrder(t *testing.T) {
	// Identical bundles produce identical scores; the ranking must follow the
	// universe order, not whichever worker happened to finish first.
	shared := qualityBundle(1.1)
	provider := &stubProvider{
		profiles: []domain.Profile{nasdaqProfile("AAA"), nasdaqProfile("BBB"), nasdaqProfile("CCC")},
		bundles: map[string]*fmp.Bundle{
			"AAA": shared,
			"BBB": shared,
			"CCC": shared,
		},
	}
	s := New(provider, testConfig(), zerolog.Nop())

	for run := 0; run < 5; run++ {
		results, _, err := s.Run(context.Background())
		require.NoError(t, err)
		require.Len(t, results, 3)

		assert.Equal(t, "AAA", results[0].Symbol)
		assert.Equal(t, "BBB", results[1].Symbol)
		assert.Equal(t, "CCC", results[2].Symbol)
	}
}

func TestRunAsOfFiltersFutureStatements(t *testing.T) {
	// Each fiscal year filed six weeks into the next; the 2024 statements
	// were not public until early 2025.
	bundle := qualityBundle(1.1)
	filings := []string{"2025-02-15", "2024-02-15", "2023-02-15"}
	for i, filed := range filings {
		bundle.IncomeStatements[i].FillingDate = filed
		bundle.CashFlowStatements[i].FillingDate = filed
		bundle.BalanceSheets[i].FillingDate = filed
		bundle.Ratios[i].FillingDate = filed
	}

	provider := &stubProvider{
		profiles: []domain.Profile{nasdaqProfile("HIST")},
		bundles:  map[string]*fmp.Bundle{"HIST": bundle},
	}
	s := New(provider, testConfig(), zerolog.Nop())

	asOf, err := parseTestDate("2024-06-30")
	require.NoError(t, err)

	results, stats, err := s.RunAsOf(context.Background(), asOf)
	require.NoError(t, err)
	require.NotNil(t, stats.AsOf)

	// Only two fiscal years remain after the cutoff, below the three year
	// ROE requirement, so nothing qualifies.
	assert.Empty(t, results)
	assert.Equal(t, 1, stats.Skipped)
}
