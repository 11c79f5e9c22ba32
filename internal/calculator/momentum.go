package calculator

import "github.com/khoon485/toss-stock/internal/model"

// ComputeMomentum computes trailing returns over trading-day offsets
// (5, 21, 63, 126, 252). A horizon with insufficient history is left nil.
func ComputeMomentum(closes []float64) model.Momentum {
	var m model.Momentum
	m.Return1W = trailingReturn(closes, 5)
	m.Return1M = trailingReturn(closes, 21)
	m.Return3M = trailingReturn(closes, 63)
	m.Return6M = trailingReturn(closes, 126)
	m.Return1Y = trailingReturn(closes, 252)
	return m
}

// The base bar sits offset-1 bars behind the latest close, so a horizon
// becomes defined as soon as the series holds offset closes.
func trailingReturn(closes []float64, offset int) *float64 {
	n := len(closes)
	if n < offset {
		return nil
	}
	base := closes[n-offset]
	if base == 0 {
		return nil
	}
	r := Round((closes[n-1]/base-1)*100, 2)
	return &r
}
