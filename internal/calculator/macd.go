package calculator

// MACDResult holds the MACD line, signal line and histogram series.
type MACDResult struct {
	MACD      []float64
	Signal    []float64
	Histogram []float64
}

// ComputeMACD computes MACD(12,26) with a 9 day signal line.
func ComputeMACD(closes []float64) MACDResult {
	ema12 := EMASeries(closes, 12)
	ema26 := EMASeries(closes, 26)

	macd := make([]float64, len(closes))
	for i := range closes {
		macd[i] = ema12[i] - ema26[i]
	}
	signal := EMASeries(macd, 9)

	hist := make([]float64, len(closes))
	for i := range closes {
		hist[i] = macd[i] - signal[i]
	}
	return MACDResult{MACD: macd, Signal: signal, Histogram: hist}
}
