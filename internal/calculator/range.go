package calculator

import "github.com/khoon485/toss-stock/internal/model"

// Week52Range returns the highest high and lowest low over the trailing
// 252 bars, or over the whole series when it is shorter than a year.
func Week52Range(bars model.PriceSeries) (high, low float64) {
	window := bars
	if len(bars) > 252 {
		window = bars[len(bars)-252:]
	}
	high = window[0].High
	low = window[0].Low
	for _, b := range window[1:] {
		if b.High > high {
			high = b.High
		}
		if b.Low < low {
			low = b.Low
		}
	}
	return high, low
}

// ComputeSupportResistance derives pivot levels from the trailing 20
// bars. Distances are percent moves from the latest close, so the
// distance to support is negative when support sits below the price.
func ComputeSupportResistance(bars model.PriceSeries) *model.SupportResistance {
	if len(bars) < 20 {
		return nil
	}
	recent := bars[len(bars)-20:]

	resistance := recent[0].High
	support := recent[0].Low
	for _, b := range recent[1:] {
		if b.High > resistance {
			resistance = b.High
		}
		if b.Low < support {
			support = b.Low
		}
	}

	last := recent[len(recent)-1]
	pivot := (last.High + last.Low + last.Close) / 3
	r1 := 2*pivot - last.Low
	s1 := 2*pivot - last.High

	close := last.Close
	if close == 0 {
		return nil
	}
	return &model.SupportResistance{
		Resistance:           Round(resistance, 2),
		Support:              Round(support, 2),
		Pivot:                Round(pivot, 2),
		R1:                   Round(r1, 2),
		S1:                   Round(s1, 2),
		DistanceToResistance: Round((resistance/close-1)*100, 2),
		DistanceToSupport:    Round((support/close-1)*100, 2),
	}
}
