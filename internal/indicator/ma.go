package indicator

import "math"

// SMA computes the simple moving average of the series over the trailing
// window. Values before the window is full are NaN.
func SMA(series []float64, window int) []float64 {
	out := nanSlice(len(series))
	if window <= 0 || len(series) < window {
		return out
	}

	var sum float64
	for i, v := range series {
		sum += v
		if i >= window {
			sum -= series[i-window]
		}
		if i >= window-1 {
			out[i] = sum / float64(window)
		}
	}
	return out
}

// Defined reports whether every value is a real number (not NaN/Inf).
func Defined(values ...float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
