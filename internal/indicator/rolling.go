// Package indicator provides pure rolling and smoothed statistics over one
// symbol's ordered daily values. Every function returns a column aligned to
// the input index; math.NaN marks rows where no value exists yet. Callers are
// responsible for per-symbol scoping: none of these functions may be fed a
// multi-symbol concatenation.
package indicator

import "math"

// RollingMean computes the trailing arithmetic mean over period rows,
// inclusive of the current row. Rows before a full window exists are NaN, as
// is any row whose window contains a NaN input.
func RollingMean(xs []float64, period int) []float64 {
	out := nanSlice(len(xs))
	if period <= 0 || len(xs) < period {
		return out
	}
	var sum float64
	nan := 0
	for i, x := range xs {
		if math.IsNaN(x) {
			nan++
		} else {
			sum += x
		}
		if i >= period {
			if old := xs[i-period]; math.IsNaN(old) {
				nan--
			} else {
				sum -= old
			}
		}
		if i >= period-1 && nan == 0 {
			out[i] = sum / float64(period)
		}
	}
	return out
}

// RollingMax computes the trailing maximum over period rows, inclusive.
func RollingMax(xs []float64, period int) []float64 {
	return rollingExtremum(xs, period, func(a, b float64) bool { return a > b })
}

// RollingMin computes the trailing minimum over period rows, inclusive.
func RollingMin(xs []float64, period int) []float64 {
	return rollingExtremum(xs, period, func(a, b float64) bool { return a < b })
}

func rollingExtremum(xs []float64, period int, better func(a, b float64) bool) []float64 {
	out := nanSlice(len(xs))
	if period <= 0 || len(xs) < period {
		return out
	}
	for i := period - 1; i < len(xs); i++ {
		ext := xs[i-period+1]
		for j := i - period + 2; j <= i; j++ {
			if better(xs[j], ext) {
				ext = xs[j]
			}
		}
		out[i] = ext
	}
	return out
}

// ADR computes the average daily range percentage: the rolling mean, over
// period rows, of (high-low)/low*100.
func ADR(highs, lows []float64, period int) []float64 {
	ranges := make([]float64, len(highs))
	for i := range highs {
		if lows[i] == 0 {
			ranges[i] = math.NaN()
			continue
		}
		ranges[i] = (highs[i] - lows[i]) / lows[i] * 100
	}
	return RollingMean(ranges, period)
}

// RVOL computes relative volume: volume divided by its trailing mean over
// period rows. NaN while the mean is NaN, and NaN when the mean is zero.
func RVOL(volumes []float64, period int) []float64 {
	avg := RollingMean(volumes, period)
	out := nanSlice(len(volumes))
	for i := range volumes {
		if math.IsNaN(avg[i]) || avg[i] == 0 {
			continue
		}
		out[i] = volumes[i] / avg[i]
	}
	return out
}

// Shift lags the column by n rows; the first n rows become NaN.
func Shift(xs []float64, n int) []float64 {
	out := nanSlice(len(xs))
	if n < 0 {
		n = 0
	}
	for i := n; i < len(xs); i++ {
		out[i] = xs[i-n]
	}
	return out
}

func nanSlice(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}
