package calculator

import (
	"math"

	"github.com/khoon485/toss-stock/internal/model"
)

// ATRResult holds the average true range and its size relative to the
// close, in percent.
type ATRResult struct {
	ATR []float64
	Pct []float64
}

// ComputeATR computes the 14 day average true range. The first bar has
// no previous close, so its true range is just the high-low span.
func ComputeATR(bars model.PriceSeries) ATRResult {
	n := len(bars)
	tr := make([]float64, n)
	for i := 0; i < n; i++ {
		hl := bars[i].High - bars[i].Low
		if i == 0 {
			tr[i] = hl
			continue
		}
		hc := math.Abs(bars[i].High - bars[i-1].Close)
		lc := math.Abs(bars[i].Low - bars[i-1].Close)
		tr[i] = math.Max(hl, math.Max(hc, lc))
	}

	atr := SMASeries(tr, 14)
	pct := nanSlice(n)
	for i := 0; i < n; i++ {
		if !math.IsNaN(atr[i]) && bars[i].Close != 0 {
			pct[i] = atr[i] / bars[i].Close * 100
		}
	}
	return ATRResult{ATR: atr, Pct: pct}
}
