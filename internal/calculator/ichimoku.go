package calculator

// IchimokuResult holds the Ichimoku lines. SpanA and SpanB are already
// projected 26 days forward, so index i reads the cloud under the bar at
// i. SpanB needs 52 bars of history plus the shift, so it stays NaN for
// the first 77 bars.
type IchimokuResult struct {
	Tenkan []float64
	Kijun  []float64
	SpanA  []float64
	SpanB  []float64
}

// ComputeIchimoku computes the Ichimoku conversion and base lines with
// the standard 9/26/52 parameters and the leading spans shifted forward
// by 26 bars.
func ComputeIchimoku(highs, lows []float64) IchimokuResult {
	n := len(highs)

	tenkan := midline(highs, lows, 9)
	kijun := midline(highs, lows, 26)

	rawA := make([]float64, n)
	for i := 0; i < n; i++ {
		rawA[i] = (tenkan[i] + kijun[i]) / 2
	}
	rawB := midline(highs, lows, 52)

	return IchimokuResult{
		Tenkan: tenkan,
		Kijun:  kijun,
		SpanA:  ShiftSeries(rawA, 26),
		SpanB:  ShiftSeries(rawB, 26),
	}
}

func midline(highs, lows []float64, window int) []float64 {
	hi := RollingMaxSeries(highs, window)
	lo := RollingMinSeries(lows, window)
	out := make([]float64, len(highs))
	for i := range out {
		out[i] = (hi[i] + lo[i]) / 2
	}
	return out
}
