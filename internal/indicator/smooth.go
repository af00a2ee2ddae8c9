package indicator

import "math"

// EMA computes an exponential moving average with alpha = 2/(period+1),
// seeded by the first value. It emits from the first row; values are only
// meaningful once roughly period observations have accumulated.
func EMA(xs []float64, period int) []float64 {
	return expSmooth(xs, 2/(float64(period)+1))
}

// WilderSmooth applies Wilder's exponential smoothing (com = period-1, so
// alpha = 1/period), seeded by the first value.
func WilderSmooth(xs []float64, period int) []float64 {
	return expSmooth(xs, 1/float64(period))
}

func expSmooth(xs []float64, alpha float64) []float64 {
	out := nanSlice(len(xs))
	seeded := false
	var prev float64
	for i, x := range xs {
		if math.IsNaN(x) {
			continue
		}
		if !seeded {
			prev = x
			seeded = true
		} else {
			prev = alpha*x + (1-alpha)*prev
		}
		out[i] = prev
	}
	return out
}

// RSI computes the Wilder-style Relative Strength Index over closes. Gains
// and losses are derived from close-to-close deltas, each smoothed with
// alpha = 1/period. The first row has no delta and is NaN. When the smoothed
// loss is zero the ratio is unbounded; the value is clamped to 100.
func RSI(closes []float64, period int) []float64 {
	out := nanSlice(len(closes))
	if len(closes) < 2 {
		return out
	}
	gains := nanSlice(len(closes))
	losses := nanSlice(len(closes))
	for i := 1; i < len(closes); i++ {
		delta := closes[i] - closes[i-1]
		gains[i] = math.Max(delta, 0)
		losses[i] = math.Max(-delta, 0)
	}
	avgGain := WilderSmooth(gains, period)
	avgLoss := WilderSmooth(losses, period)
	for i := 1; i < len(closes); i++ {
		if math.IsNaN(avgGain[i]) || math.IsNaN(avgLoss[i]) {
			continue
		}
		if avgLoss[i] == 0 {
			out[i] = 100
			continue
		}
		rs := avgGain[i] / avgLoss[i]
		out[i] = 100 - 100/(1+rs)
	}
	return out
}

// ATR computes the Average True Range: the Wilder-smoothed true range, where
// TR = max(high-low, |high-prevClose|, |low-prevClose|). The first row has no
// previous close and uses high-low alone.
func ATR(highs, lows, closes []float64, period int) []float64 {
	tr := make([]float64, len(closes))
	for i := range closes {
		hl := highs[i] - lows[i]
		if i == 0 {
			tr[i] = hl
			continue
		}
		hc := math.Abs(highs[i] - closes[i-1])
		lc := math.Abs(lows[i] - closes[i-1])
		tr[i] = math.Max(hl, math.Max(hc, lc))
	}
	return WilderSmooth(tr, period)
}
