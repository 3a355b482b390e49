package analyzers

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aristath/screener/internal/config"
	"github.com/aristath/screener/internal/domain"
)

func TestPERScore(t *testing.T) {
	assert.Zero(t, perScore(-5, 20), "losses score zero")
	assert.Equal(t, 1.0, perScore(4, 20))
	assert.Zero(t, perScore(25, 20))
	assert.InDelta(t, 2.0/3.0, perScore(10, 20), 1e-9)
}

func TestPBRScore(t *testing.T) {
	assert.Zero(t, pbrScore(0, 3))
	assert.Equal(t, 1.0, pbrScore(0.9, 3))
	assert.Zero(t, pbrScore(3.5, 3))
	assert.InDelta(t, 0.5, pbrScore(2, 3), 1e-9)
}

func TestFCFYieldScore(t *testing.T) {
	tests := []struct {
		yield float64
		want  float64
	}{
		{-0.01, 0},
		{0.005, 0.1},
		{0.015, 0.3},
		{0.03, 0.5},
		{0.05, 0.7},
		{0.07, 0.9},
		{0.10, 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, fcfYieldScore(tt.yield), "yield %v", tt.yield)
	}
}

func TestPEGScore(t *testing.T) {
	assert.Zero(t, pegScore(0, 0.2), "no earnings")
	assert.Zero(t, pegScore(20, -0.1), "shrinking earnings")
	assert.Equal(t, 1.0, pegScore(10, 0.25)) // peg 0.4
	assert.Equal(t, 0.8, pegScore(20, 0.25)) // peg 0.8
	assert.Equal(t, 0.4, pegScore(36, 0.20)) // peg 1.8
	assert.Zero(t, pegScore(80, 0.20))       // peg 4.0
}

func TestValuationAnalyzer(t *testing.T) {
	analyzer := NewValuationAnalyzer(config.Default().Valuation)
	metrics := &domain.FinancialMetrics{
		PER:    []float64{15},
		PBR:    []float64{2},
		TTMFCF: 60_000_000,
		EPS:    []float64{2.42, 2.2, 2.0}, // 10% CAGR
	}

	result := analyzer.Analyze(metrics, 1_000_000_000, defaultBenchmark())

	assert.Equal(t, 15.0, result.PER)
	assert.Equal(t, 2.0, result.PBR)
	assert.InDelta(t, 0.06, result.FCFYield, 1e-9)
	assert.InDelta(t, 1.0/3.0, result.PERScore, 1e-9)
	assert.InDelta(t, 0.5, result.PBRScore, 1e-9)
	assert.Equal(t, 0.9, result.FCFYieldScore)
	assert.Equal(t, 0.6, result.GrowthAdjustedScore) // peg 1.5
	assert.Greater(t, result.ValuationScore, 0.0)
	assert.LessOrEqual(t, result.ValuationScore, 1.0)
}

func TestValuationAnalyzerZeroMarketCap(t *testing.T) {
	analyzer := NewValuationAnalyzer(config.Default().Valuation)

	result := analyzer.Analyze(&domain.FinancialMetrics{TTMFCF: 100}, 0, defaultBenchmark())

	assert.Zero(t, result.FCFYield)
	assert.Zero(t, result.FCFYieldScore)
}

func TestValuationAnalyzerNegativeFCFYieldsZero(t *testing.T) {
	analyzer := NewValuationAnalyzer(config.Default().Valuation)

	result := analyzer.Analyze(&domain.FinancialMetrics{TTMFCF: -50}, 1000, defaultBenchmark())

	assert.Zero(t, result.FCFYield)
	assert.Zero(t, result.FCFYieldScore)
}
