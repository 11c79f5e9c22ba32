package calculator

import "math"

// BollingerResult holds the 20 day Bollinger bands and the band width as
// a fraction of the middle band.
type BollingerResult struct {
	Middle []float64
	Upper  []float64
	Lower  []float64
	Width  []float64
}

// ComputeBollinger computes Bollinger(20, 2) bands using a sample
// standard deviation.
func ComputeBollinger(closes []float64) BollingerResult {
	const window = 20
	const mult = 2.0

	middle := SMASeries(closes, window)
	std := RollingStdSeries(closes, window)

	n := len(closes)
	upper := nanSlice(n)
	lower := nanSlice(n)
	width := nanSlice(n)
	for i := 0; i < n; i++ {
		if math.IsNaN(middle[i]) || math.IsNaN(std[i]) {
			continue
		}
		upper[i] = middle[i] + mult*std[i]
		lower[i] = middle[i] - mult*std[i]
		if middle[i] != 0 {
			width[i] = (upper[i] - lower[i]) / middle[i]
		}
	}
	return BollingerResult{Middle: middle, Upper: upper, Lower: lower, Width: width}
}
