package calculator

import "math"

// RSISeries computes the relative strength index using a plain rolling
// mean of gains and losses over the given period. When the average loss
// is zero and the average gain positive the index saturates at 100; when
// both are zero the value is undefined.
func RSISeries(closes []float64, period int) []float64 {
	n := len(closes)
	gains := nanSlice(n)
	losses := nanSlice(n)
	for i := 1; i < n; i++ {
		delta := closes[i] - closes[i-1]
		if delta > 0 {
			gains[i] = delta
			losses[i] = 0
		} else {
			gains[i] = 0
			losses[i] = -delta
		}
	}
	avgGain := SMASeries(gains, period)
	avgLoss := SMASeries(losses, period)

	out := nanSlice(n)
	for i := 0; i < n; i++ {
		if math.IsNaN(avgGain[i]) || math.IsNaN(avgLoss[i]) {
			continue
		}
		if avgLoss[i] == 0 {
			if avgGain[i] > 0 {
				out[i] = 100
			}
			continue
		}
		rs := avgGain[i] / avgLoss[i]
		out[i] = 100 - 100/(1+rs)
	}
	return out
}
