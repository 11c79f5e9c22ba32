package calculator

import (
	"math"

	"github.com/khoon485/toss-stock/internal/model"
)

// DetectCandlePatterns inspects the last one to three bars for classic
// reversal candles. Detection needs at least three bars even for the
// two-bar patterns. Checks are independent, so one bar can match several
// patterns. A zero-range last bar yields nothing.
func DetectCandlePatterns(bars model.PriceSeries) []model.CandlePattern {
	if len(bars) < 3 {
		return nil
	}
	last := bars[len(bars)-1]
	prev := bars[len(bars)-2]

	totalRange := last.High - last.Low
	if totalRange == 0 {
		return nil
	}
	body := math.Abs(last.Close - last.Open)
	upper := last.High - math.Max(last.Open, last.Close)
	lower := math.Min(last.Open, last.Close) - last.Low

	var patterns []model.CandlePattern
	add := func(code, text string, score float64, pol model.Polarity) {
		patterns = append(patterns, model.CandlePattern{Code: code, Text: text, Score: score, Polarity: pol})
	}

	if body/totalRange < 0.1 {
		add("doji", "✳️ 도지 (Doji) - 추세 전환 가능", 0, model.Neutral)
	}
	if lower > body*2 && upper < body*0.5 && last.Close < prev.Close {
		add("hammer", "🔨 망치형 (Hammer) - 반등 신호", 1, model.Neutral)
	}
	if upper > body*2 && lower < body*0.5 && last.Close < prev.Close {
		add("inverted_hammer", "🔨 역망치형 - 반등 가능", 1, model.Neutral)
	}
	if lower > body*2 && upper < body*0.5 && last.Close > prev.Close {
		add("hanging_man", "☠️ 교수형 (Hanging Man) - 하락 전환 주의", -1, model.Neutral)
	}

	prevBody := math.Abs(prev.Close - prev.Open)
	if body > prevBody*1.5 {
		if last.Close > last.Open && prev.Close < prev.Open {
			add("bullish_engulfing", "📈 상승 장악형 (Bullish Engulfing) - 매수 신호", 1, model.Bullish)
		} else if last.Close < last.Open && prev.Close > prev.Open {
			add("bearish_engulfing", "📉 하락 장악형 (Bearish Engulfing) - 매도 신호", -1, model.Bearish)
		}
	}

	day1 := bars[len(bars)-3]
	day1Body := math.Abs(day1.Close - day1.Open)
	if day1.Close < day1.Open &&
		prevBody < day1Body*0.3 &&
		last.Close > last.Open &&
		body > day1Body*0.5 {
		add("morning_star", "⭐ 샛별형 (Morning Star) - 강한 반등 신호", 1, model.Neutral)
	}
	return patterns
}
