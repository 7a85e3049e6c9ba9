package indicator

import "math"

// Series kernels operate on aligned float slices. Positions that cannot be
// computed yet (warmup) hold NaN; callers treat NaN as "not available this
// bar", never as an error.

// NaN is the not-available sentinel used across all indicator series.
func NaN() float64 {
	return math.NaN()
}

// IsAvailable reports whether a series value has been computed.
func IsAvailable(v float64) bool {
	return !math.IsNaN(v)
}

// AllAvailable reports whether every given value has been computed.
func AllAvailable(values ...float64) bool {
	for _, v := range values {
		if math.IsNaN(v) {
			return false
		}
	}

	return true
}

func nanSlice(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}

	return out
}

// SMA computes the simple moving average with the given period. NaN inputs
// restart the window, so indicator warmup prefixes stay NaN instead of
// poisoning the whole output.
func SMA(values []float64, period int) []float64 {
	out := nanSlice(len(values))
	if period <= 0 || len(values) < period {
		return out
	}

	var sum float64

	start := 0

	for i, v := range values {
		if math.IsNaN(v) {
			sum = 0
			start = i + 1

			continue
		}

		sum += v
		if i-start >= period {
			sum -= values[i-period]
		}

		if i-start >= period-1 {
			out[i] = sum / float64(period)
		}
	}

	return out
}

// EMA computes the exponential moving average with the given period. The
// first value is seeded with the SMA of the first period values.
func EMA(values []float64, period int) []float64 {
	out := nanSlice(len(values))
	if period <= 0 || len(values) < period {
		return out
	}

	var seed float64
	for i := 0; i < period; i++ {
		seed += values[i]
	}

	seed /= float64(period)
	out[period-1] = seed

	alpha := 2.0 / (float64(period) + 1.0)

	prev := seed
	for i := period; i < len(values); i++ {
		prev = (values[i]-prev)*alpha + prev
		out[i] = prev
	}

	return out
}

// WilderSmooth applies Wilder's smoothing (alpha = 1/period), seeded with the
// mean of the first period values. Used by RSI and ATR.
func WilderSmooth(values []float64, period int) []float64 {
	out := nanSlice(len(values))
	if period <= 0 || len(values) < period {
		return out
	}

	var seed float64
	for i := 0; i < period; i++ {
		seed += values[i]
	}

	seed /= float64(period)
	out[period-1] = seed

	prev := seed
	for i := period; i < len(values); i++ {
		prev = (prev*float64(period-1) + values[i]) / float64(period)
		out[i] = prev
	}

	return out
}

// RollingStd computes the rolling population standard deviation.
func RollingStd(values []float64, period int) []float64 {
	out := nanSlice(len(values))
	if period <= 0 || len(values) < period {
		return out
	}

	for i := period - 1; i < len(values); i++ {
		window := values[i-period+1 : i+1]

		var mean float64
		for _, v := range window {
			mean += v
		}

		mean /= float64(period)

		var variance float64
		for _, v := range window {
			d := v - mean
			variance += d * d
		}

		variance /= float64(period)
		out[i] = math.Sqrt(variance)
	}

	return out
}

// RollingMax computes the rolling maximum over the given period.
func RollingMax(values []float64, period int) []float64 {
	out := nanSlice(len(values))
	if period <= 0 || len(values) < period {
		return out
	}

	for i := period - 1; i < len(values); i++ {
		maxV := values[i-period+1]
		for _, v := range values[i-period+2 : i+1] {
			if v > maxV {
				maxV = v
			}
		}

		out[i] = maxV
	}

	return out
}

// RollingMin computes the rolling minimum over the given period.
func RollingMin(values []float64, period int) []float64 {
	out := nanSlice(len(values))
	if period <= 0 || len(values) < period {
		return out
	}

	for i := period - 1; i < len(values); i++ {
		minV := values[i-period+1]
		for _, v := range values[i-period+2 : i+1] {
			if v < minV {
				minV = v
			}
		}

		out[i] = minV
	}

	return out
}

// TrueRange computes the true range series. The first bar uses high-low since
// no previous close exists.
func TrueRange(highs, lows, closes []float64) []float64 {
	out := make([]float64, len(closes))

	for i := range closes {
		hl := highs[i] - lows[i]
		if i == 0 {
			out[i] = hl

			continue
		}

		hc := math.Abs(highs[i] - closes[i-1])
		lc := math.Abs(lows[i] - closes[i-1])
		out[i] = math.Max(hl, math.Max(hc, lc))
	}

	return out
}
