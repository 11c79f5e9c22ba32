package calculator

// MovingAverages is the trio of daily moving averages the signal rules
// read. MA60 stays NaN until 60 closes are available.
type MovingAverages struct {
	MA5  []float64
	MA20 []float64
	MA60 []float64
}

// ComputeMovingAverages computes the 5, 20 and 60 day simple moving
// averages over the close series.
func ComputeMovingAverages(closes []float64) MovingAverages {
	return MovingAverages{
		MA5:  SMASeries(closes, 5),
		MA20: SMASeries(closes, 20),
		MA60: SMASeries(closes, 60),
	}
}
