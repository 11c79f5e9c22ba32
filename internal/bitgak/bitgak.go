package bitgak

import (
	"fmt"
	"math"

	"github.com/khoon485/toss-stock/internal/calculator"
	"github.com/khoon485/toss-stock/internal/model"
)

// Lookback is the number of bars the analysis needs: the rolling VWAP,
// the volume profile and the trend lines all read the trailing 60 bars.
const Lookback = 60

// TrendLine connects the most recent confirmed swing high to the most
// recent confirmed swing low inside the lookback window. Indexes are
// window local.
type TrendLine struct {
	Slope     float64
	Intercept float64
	HighIdx   int
	LowIdx    int
}

// PriceAt evaluates the line at a window-local index.
func (l TrendLine) PriceAt(idx int) float64 {
	return l.Slope*float64(idx) + l.Intercept
}

// FindTrendLines locates swing points confirmed by volume above 1.3x
// the window average and connects the latest high to the latest low.
// At most one line comes out of a window.
func FindTrendLines(window model.PriceSeries) []TrendLine {
	n := len(window)
	if n < 5 {
		return nil
	}

	avgVolume := 0.0
	for _, b := range window {
		avgVolume += b.Volume
	}
	avgVolume /= float64(n)

	// centered 5 bar extrema
	highIdx, lowIdx := -1, -1
	for i := 2; i < n-2; i++ {
		localHigh := window[i].High
		localLow := window[i].Low
		for j := i - 2; j <= i+2; j++ {
			if window[j].High > localHigh {
				localHigh = window[j].High
			}
			if window[j].Low < localLow {
				localLow = window[j].Low
			}
		}
		if window[i].Volume > avgVolume*1.3 {
			if window[i].High == localHigh {
				highIdx = i
			}
			if window[i].Low == localLow {
				lowIdx = i
			}
		}
	}
	if highIdx < 0 || lowIdx < 0 || highIdx == lowIdx {
		return nil
	}

	slope := (window[lowIdx].Low - window[highIdx].High) / float64(lowIdx-highIdx)
	intercept := window[highIdx].High - slope*float64(highIdx)
	return []TrendLine{{Slope: slope, Intercept: intercept, HighIdx: highIdx, LowIdx: lowIdx}}
}

// findHVN returns the volume weighted mean close of the high volume bars
// (volume at or above the 80th percentile). When no bar qualifies it
// falls back to the plain mean close.
func findHVN(window model.PriceSeries) float64 {
	volumes := make([]float64, len(window))
	for i, b := range window {
		volumes[i] = b.Volume
	}
	threshold := Percentile(volumes, 0.8)

	var pvSum, volSum float64
	for _, b := range window {
		if b.Volume >= threshold {
			pvSum += b.Close * b.Volume
			volSum += b.Volume
		}
	}
	if volSum > 0 {
		return pvSum / volSum
	}

	sum := 0.0
	for _, b := range window {
		sum += b.Close
	}
	return sum / float64(len(window))
}

// Analyze scores the crowd cost basis setup on the trailing window: how
// close the price sits to the 20 day VWAP (CSI), to the dominant volume
// node, and to a volume confirmed trend line. rsi may be NaN when the
// index is not yet defined.
func Analyze(bars model.PriceSeries, rsi float64) *model.BitgakResult {
	if len(bars) < Lookback {
		return nil
	}

	vwap20 := VWAP20Series(bars)
	latest := len(bars) - 1
	vwap := vwap20[latest]
	close := bars[latest].Close
	if !calculator.Valid(vwap) || vwap == 0 || close == 0 {
		return nil
	}

	csi := (close - vwap) / vwap * 100
	vwapAll := VWAPSeries(bars)[latest]

	window := bars[len(bars)-Lookback:]
	hvn := findHVN(window)
	proximity := math.Abs(close-hvn) / close * 100

	lines := FindTrendLines(window)

	res := &model.BitgakResult{
		Grade:        model.BitgakNone,
		CSI:          calculator.Round(csi, 2),
		VWAP:         calculator.Round(vwapAll, 2),
		VWAP20:       calculator.Round(vwap, 2),
		HVNPrice:     calculator.Round(hvn, 2),
		HVNProximity: calculator.Round(proximity, 2),
		LineCount:    len(lines),
	}

	note := func(text string) {
		res.Signals = append(res.Signals, model.Signal{
			Text:     text,
			Polarity: model.Neutral,
			Category: model.CategoryBitgak,
		})
	}

	score := 0.0
	if csi >= -5 && csi <= 2 {
		score++
		note(fmt.Sprintf("✨ VWAP 근접 (CSI: %.1f%%) - 본전/매수 심리 구간", csi))
	} else if csi < -10 {
		score += 0.5
		note(fmt.Sprintf("😰 CSI %.1f%% - 군중 손실 구간 (공포)", csi))
	} else if csi > 10 {
		score -= 0.5
		note(fmt.Sprintf("🤑 CSI %.1f%% - 군중 수익 구간 (차익실현 압력)", csi))
	}

	if proximity < 2 {
		score++
		note(fmt.Sprintf("📍 매물대 터치 (%.1f%%) - 반등 기대", proximity))
	} else if proximity < 5 {
		score += 0.5
		note(fmt.Sprintf("📍 매물대 근접 (%.1f%%)", proximity))
	}

	for _, line := range lines {
		linePrice := line.PriceAt(Lookback - 1)
		if linePrice <= 0 {
			continue
		}
		if math.Abs(close-linePrice)/close < 0.02 {
			score++
			res.LineTouched = true
			if line.Slope < 0 {
				note(fmt.Sprintf("📐 하락 빗각 터치 ($%.2f) - 반등 포인트", linePrice))
			} else {
				note(fmt.Sprintf("📐 상승 빗각 터치 ($%.2f) - 지지 확인", linePrice))
			}
			break
		}
	}

	if calculator.Valid(rsi) && rsi < 35 {
		score += 0.5
		note(fmt.Sprintf("🔻 RSI %.1f 과매도 (빗각 신호 보강)", rsi))
	}

	res.Score = calculator.Round(score, 1)
	head := model.Signal{Polarity: model.Neutral, Category: model.CategoryBitgak}
	switch {
	case res.Score >= 2.5:
		res.Grade = model.BitgakStrong
		head.Text = "🎯🎯 강한 빗각 매수 신호!"
		res.Signals = append([]model.Signal{head}, res.Signals...)
	case res.Score >= 1.5:
		res.Grade = model.BitgakModerate
		head.Text = "🎯 빗각 매수 신호"
		res.Signals = append([]model.Signal{head}, res.Signals...)
	}
	return res
}
