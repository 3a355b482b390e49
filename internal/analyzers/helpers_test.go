package analyzers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCAGR(t *testing.T) {
	tests := []struct {
		name   string
		series []float64
		want   float64
	}{
		{"doubling over one period", []float64{200, 100}, 1.0},
		{"ten percent over two periods", []float64{121, 110, 100}, 0.1},
		{"single point", []float64{100}, 0},
		{"empty", nil, 0},
		{"non-positive start", []float64{100, -50}, 0},
		{"non-positive end", []float64{-100, 50}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, CAGR(tt.series), 1e-9)
		})
	}
}

func TestTrendDirection(t *testing.T) {
	growing := []float64{130, 120, 110, 100}
	shrinking := []float64{70, 80, 90, 100}
	flat := []float64{100, 100, 100}

	assert.Greater(t, Trend(growing), 0.0)
	assert.Less(t, Trend(shrinking), 0.0)
	assert.InDelta(t, 0, Trend(flat), 1e-9)
	assert.InDelta(t, 0.5, TrendRemap(flat), 1e-9)
}

func TestTrendZeroBaseContributesZeroChange(t *testing.T) {
	// Oldest period is zero: its change is counted as zero, not infinity.
	series := []float64{120, 110, 0}
	trend := Trend(series)
	assert.False(t, trend != trend, "trend must not be NaN")
	assert.Greater(t, trend, 0.0)
}

func TestTrendBounds(t *testing.T) {
	explosive := []float64{1000, 10, 1}
	collapse := []float64{1, 10, 1000}

	assert.LessOrEqual(t, Trend(explosive), 1.0)
	assert.GreaterOrEqual(t, Trend(collapse), -1.0)
}

func TestStability(t *testing.T) {
	assert.InDelta(t, 1.0, Stability([]float64{5, 5, 5}), 1e-9)
	assert.Zero(t, Stability([]float64{5}))
	assert.Zero(t, Stability([]float64{1, -1}))

	steady := Stability([]float64{100, 102, 98, 101})
	volatile := Stability([]float64{100, 180, 40, 140})
	assert.Greater(t, steady, volatile)
}

func TestAllPositive(t *testing.T) {
	assert.True(t, allPositive([]float64{1, 2, 3, -4}, 3))
	assert.False(t, allPositive([]float64{1, -2, 3}, 3))
	assert.True(t, allPositive([]float64{1, 2}, 3))
	assert.False(t, allPositive(nil, 3))
}

func TestElementwiseRatio(t *testing.T) {
	got := elementwiseRatio([]float64{10, 20, 30}, []float64{100, 0, 50})
	assert.Equal(t, []float64{0.1, 0, 0.6}, got)

	// Length follows the shorter series.
	got = elementwiseRatio([]float64{10, 20}, []float64{100})
	assert.Equal(t, []float64{0.1}, got)
}
