package bitgak

import (
	"math"
	"sort"

	"github.com/khoon485/toss-stock/internal/calculator"
	"github.com/khoon485/toss-stock/internal/model"
)

// VWAPSeries computes the cumulative volume weighted average price over
// the typical price (high+low+close)/3.
func VWAPSeries(bars model.PriceSeries) []float64 {
	out := make([]float64, len(bars))
	var pvSum, volSum float64
	for i, b := range bars {
		tp := (b.High + b.Low + b.Close) / 3
		pvSum += tp * b.Volume
		volSum += b.Volume
		if volSum == 0 {
			out[i] = math.NaN()
			continue
		}
		out[i] = pvSum / volSum
	}
	return out
}

// VWAP20Series computes a 20 day rolling volume weighted average price.
func VWAP20Series(bars model.PriceSeries) []float64 {
	const window = 20
	n := len(bars)
	pv := make([]float64, n)
	vol := make([]float64, n)
	for i, b := range bars {
		tp := (b.High + b.Low + b.Close) / 3
		pv[i] = tp * b.Volume
		vol[i] = b.Volume
	}
	pvSum := calculator.RollingSumSeries(pv, window)
	volSum := calculator.RollingSumSeries(vol, window)

	out := make([]float64, n)
	for i := 0; i < n; i++ {
		if !calculator.Valid(pvSum[i]) || !calculator.Valid(volSum[i]) || volSum[i] == 0 {
			out[i] = math.NaN()
			continue
		}
		out[i] = pvSum[i] / volSum[i]
	}
	return out
}

// Percentile returns the q-quantile of vals using linear interpolation
// between order statistics.
func Percentile(vals []float64, q float64) float64 {
	if len(vals) == 0 {
		return math.NaN()
	}
	sorted := make([]float64, len(vals))
	copy(sorted, vals)
	sort.Float64s(sorted)

	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}
