package calculator

import "math"

// The rolling transforms below mirror trailing-window semantics: an output
// index is NaN until the window is full, and a NaN anywhere inside the
// window poisons that output. Absent values stay absent instead of
// becoming zero.

// Valid reports whether a computed value is defined.
func Valid(v float64) bool {
	return !math.IsNaN(v)
}

// Round rounds half away from zero to the given number of decimal places.
func Round(v float64, places int) float64 {
	if math.IsNaN(v) {
		return v
	}
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

// SMASeries computes a trailing simple moving average.
func SMASeries(vals []float64, window int) []float64 {
	out := nanSlice(len(vals))
	if window <= 0 {
		return out
	}
	for i := window - 1; i < len(vals); i++ {
		sum := 0.0
		ok := true
		for j := i - window + 1; j <= i; j++ {
			if math.IsNaN(vals[j]) {
				ok = false
				break
			}
			sum += vals[j]
		}
		if ok {
			out[i] = sum / float64(window)
		}
	}
	return out
}

// EMASeries computes an exponential moving average with smoothing factor
// 2/(span+1), seeded from the first value with no warm-up correction.
func EMASeries(vals []float64, span int) []float64 {
	out := nanSlice(len(vals))
	if span <= 0 || len(vals) == 0 {
		return out
	}
	alpha := 2.0 / float64(span+1)
	out[0] = vals[0]
	for i := 1; i < len(vals); i++ {
		out[i] = alpha*vals[i] + (1-alpha)*out[i-1]
	}
	return out
}

// RollingMaxSeries computes a trailing rolling maximum.
func RollingMaxSeries(vals []float64, window int) []float64 {
	out := nanSlice(len(vals))
	for i := window - 1; i < len(vals); i++ {
		max := math.Inf(-1)
		ok := true
		for j := i - window + 1; j <= i; j++ {
			if math.IsNaN(vals[j]) {
				ok = false
				break
			}
			if vals[j] > max {
				max = vals[j]
			}
		}
		if ok {
			out[i] = max
		}
	}
	return out
}

// RollingMinSeries computes a trailing rolling minimum.
func RollingMinSeries(vals []float64, window int) []float64 {
	out := nanSlice(len(vals))
	for i := window - 1; i < len(vals); i++ {
		min := math.Inf(1)
		ok := true
		for j := i - window + 1; j <= i; j++ {
			if math.IsNaN(vals[j]) {
				ok = false
				break
			}
			if vals[j] < min {
				min = vals[j]
			}
		}
		if ok {
			out[i] = min
		}
	}
	return out
}

// RollingStdSeries computes a trailing rolling sample standard deviation.
func RollingStdSeries(vals []float64, window int) []float64 {
	out := nanSlice(len(vals))
	if window < 2 {
		return out
	}
	for i := window - 1; i < len(vals); i++ {
		sum := 0.0
		ok := true
		for j := i - window + 1; j <= i; j++ {
			if math.IsNaN(vals[j]) {
				ok = false
				break
			}
			sum += vals[j]
		}
		if !ok {
			continue
		}
		mean := sum / float64(window)
		ss := 0.0
		for j := i - window + 1; j <= i; j++ {
			d := vals[j] - mean
			ss += d * d
		}
		out[i] = math.Sqrt(ss / float64(window-1))
	}
	return out
}

// RollingSumSeries computes a trailing rolling sum.
func RollingSumSeries(vals []float64, window int) []float64 {
	out := nanSlice(len(vals))
	for i := window - 1; i < len(vals); i++ {
		sum := 0.0
		ok := true
		for j := i - window + 1; j <= i; j++ {
			if math.IsNaN(vals[j]) {
				ok = false
				break
			}
			sum += vals[j]
		}
		if ok {
			out[i] = sum
		}
	}
	return out
}

// ShiftSeries shifts values forward by n indexes (positive n moves data to
// later positions, leaving NaN at the front).
func ShiftSeries(vals []float64, n int) []float64 {
	out := nanSlice(len(vals))
	for i := n; i < len(vals); i++ {
		if i-n >= 0 {
			out[i] = vals[i-n]
		}
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
