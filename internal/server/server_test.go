package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/screener/internal/backtest"
	"github.com/aristath/screener/internal/clients/fmp"
	"github.com/aristath/screener/internal/config"
	"github.com/aristath/screener/internal/domain"
	"github.com/aristath/screener/internal/screener"
)

type stubProvider struct {
	profiles []domain.Profile
	bundles  map[string]*fmp.Bundle
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
	return p.bundles[symbol], nil
}

func qualityBundle() *fmp.Bundle {
	years := []string{"2024-12-31", "2023-12-31", "2022-12-31"}
	bundle := &fmp.Bundle{}
	scale := 1.21

	for _, date := range years {
		bundle.IncomeStatements = append(bundle.IncomeStatements, fmp.IncomeStatement{
			Date: date, Revenue: 1000 * scale, EPS: 2 * scale,
			GrossProfitRatio: 0.6, OperatingIncomeRatio: 0.25,
			OperatingIncome: 250 * scale, InterestExpense: 10,
			EBITDA: 300 * scale, NetIncome: 200 * scale,
		})
		bundle.CashFlowStatements = append(bundle.CashFlowStatements, fmp.CashFlowStatement{
			Date: date, FreeCashFlow: 200 * scale, CapitalExpenditure: -40, OperatingCashFlow: 220 * scale,
		})
		bundle.BalanceSheets = append(bundle.BalanceSheets, fmp.BalanceSheet{
			Date: date, TotalCurrentAssets: 500, TotalCurrentLiabilities: 300,
			TotalDebt: 200, TotalStockholdersEquity: 1000, TotalAssets: 2000,
		})
		bundle.Ratios = append(bundle.Ratios, fmp.Ratios{Date: date, ReturnOnEquity: 0.20})
		scale /= 1.1
	}
	return bundle
}

func newTestServer(t *testing.T) (*Server, *screener.ResultStore) {
	t.Helper()

	cfg := config.Default()
	cfg.Output.MinQualityScore = 0

	provider := &stubProvider{
		profiles: []domain.Profile{{
			Symbol:            "GOOD",
			CompanyName:       "Good Inc.",
			Sector:            "Technology",
			MarketCap:         2e9,
			ExchangeShortName: "NASDAQ",
		}},
		bundles: map[string]*fmp.Bundle{"GOOD": qualityBundle()},
	}

	s := screener.New(provider, cfg, zerolog.Nop())
	store := screener.NewResultStore()

	srv := New(Config{
		Log:        zerolog.Nop(),
		Screener:   s,
		Backtester: backtest.New(s, zerolog.Nop()),
		Store:      store,
		Port:       0,
	})
	return srv, store
}

func TestHealthEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "screener", body["service"])
}

func TestScreenEndpointStoresRun(t *testing.T) {
	srv, store := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/screen", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var record screener.RunRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &record))
	require.Len(t, record.Results, 1)
	assert.Equal(t, "GOOD", record.Results[0].Symbol)

	latest, ok := store.Latest()
	require.True(t, ok)
	assert.Equal(t, record.Stats.RunID, latest.Stats.RunID)
}

func TestScreenEndpointRejectsBadDate(t *testing.T) {
	srv, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/screen", strings.NewReader(`{"as_of":"june 1st"}`))
	rec := httptest.NewRecorder()
	srv.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLatestRunEndpoint(t *testing.T) {
	srv, store := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/runs/latest", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	store.Set([]domain.StockAnalysisResult{{Symbol: "GOOD"}}, screener.RunStats{RunID: "run-1"})

	rec = httptest.NewRecorder()
	srv.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/runs/latest", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var record screener.RunRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &record))
	assert.Equal(t, "run-1", record.Stats.RunID)
}

func TestBacktestEndpointRequiresTarget(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/backtest", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBacktestEndpointRunsWithDate(t *testing.T) {
	srv, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/backtest", strings.NewReader(`{"as_of":"2024-06-30"}`))
	rec := httptest.NewRecorder()
	srv.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var portfolio backtest.Portfolio
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &portfolio))
	assert.Equal(t, "2024-06-30", portfolio.AsOf.Format("2006-01-02"))
}
