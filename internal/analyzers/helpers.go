// Package analyzers scores companies along four axes: growth, risk,
// valuation, and sentiment. Every analyzer returns scores in [0, 1].
//
// All series arrive reverse-chronological (index 0 is the latest period).
// Rate computations walk them oldest to newest so a change always means
// "later period relative to earlier period".
package analyzers

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// CAGR returns the compound annual growth rate of a reverse-chronological
// series, spanning len-1 periods. Non-positive endpoints yield 0 because a
// growth rate through zero or negative values is meaningless.
func CAGR(series []float64) float64 {
	if len(series) < 2 {
		return 0
	}
	end := series[0]
	start := series[len(series)-1]
	if start <= 0 || end <= 0 {
		return 0
	}
	years := float64(len(series) - 1)
	return math.Pow(end/start, 1/years) - 1
}

// Trend squashes the average period-over-period change into [-1, 1] with a
// sigmoid. A zero base period contributes a zero change.
func Trend(series []float64) float64 {
	if len(series) < 2 {
		return 0
	}

	changes := make([]float64, 0, len(series)-1)
	for i := len(series) - 1; i >= 1; i-- {
		base := series[i]
		next := series[i-1]
		if base == 0 {
			changes = append(changes, 0)
			continue
		}
		changes = append(changes, (next-base)/math.Abs(base))
	}

	avg := stat.Mean(changes, nil)
	return 2/(1+math.Exp(-5*avg)) - 1
}

// TrendRemap maps Trend onto [0, 1] for use as a score component.
func TrendRemap(series []float64) float64 {
	return (Trend(series) + 1) / 2
}

// Stability scores how tightly a series clusters around its mean, as
// 1/(1+cv). Fewer than two points or a zero mean yield 0.
func Stability(series []float64) float64 {
	if len(series) < 2 {
		return 0
	}
	mean := stat.Mean(series, nil)
	if mean == 0 {
		return 0
	}
	sd := stat.StdDev(series, nil)
	return 1 / (1 + sd/math.Abs(mean))
}

// allPositive reports whether the first n elements of series are all
// positive. A series shorter than n is checked in full; an empty series
// fails.
func allPositive(series []float64, n int) bool {
	if len(series) == 0 {
		return false
	}
	if n > len(series) {
		n = len(series)
	}
	for _, v := range series[:n] {
		if v <= 0 {
			return false
		}
	}
	return true
}

// elementwiseRatio builds num[i]/denom[i] series, substituting 0 where the
// denominator is not positive.
func elementwiseRatio(num, denom []float64) []float64 {
	n := len(num)
	if len(denom) < n {
		n = len(denom)
	}
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		if denom[i] > 0 {
			out[i] = num[i] / denom[i]
		}
	}
	return out
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return stat.Mean(values, nil)
}
