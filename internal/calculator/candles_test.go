package calculator

import (
	"testing"

	"github.com/khoon485/toss-stock/internal/model"
)

func hasPattern(patterns []model.CandlePattern, code string) bool {
	for _, p := range patterns {
		if p.Code == code {
			return true
		}
	}
	return false
}

func TestDetectCandlePatterns_Hammer(t *testing.T) {
	bars := model.PriceSeries{
		{Open: 104, High: 106, Low: 103, Close: 105},
		{Open: 105, High: 106, Low: 104, Close: 105},
		// long lower shadow, tiny upper shadow, closed below the prior close
		{Open: 100, High: 100.6, Low: 95, Close: 100.5},
	}
	patterns := DetectCandlePatterns(bars)
	if !hasPattern(patterns, "hammer") {
		t.Errorf("expected hammer, got %+v", patterns)
	}
}

func TestDetectCandlePatterns_HangingMan(t *testing.T) {
	bars := model.PriceSeries{
		{Open: 94, High: 96, Low: 93, Close: 95},
		{Open: 95, High: 96, Low: 94, Close: 95},
		{Open: 100, High: 100.6, Low: 95, Close: 100.5},
	}
	patterns := DetectCandlePatterns(bars)
	if !hasPattern(patterns, "hanging_man") {
		t.Errorf("expected hanging man, got %+v", patterns)
	}
	if hasPattern(patterns, "hammer") {
		t.Error("hammer requires a close below the prior close")
	}
}

func TestDetectCandlePatterns_Doji(t *testing.T) {
	bars := model.PriceSeries{
		{Open: 99, High: 101, Low: 98, Close: 100},
		{Open: 100, High: 101, Low: 99, Close: 100},
		{Open: 100, High: 102, Low: 98, Close: 100.1},
	}
	patterns := DetectCandlePatterns(bars)
	if !hasPattern(patterns, "doji") {
		t.Errorf("expected doji, got %+v", patterns)
	}
	for _, p := range patterns {
		if p.Code == "doji" && p.Score != 0 {
			t.Errorf("doji should not score, got %f", p.Score)
		}
	}
}

func TestDetectCandlePatterns_BullishEngulfing(t *testing.T) {
	bars := model.PriceSeries{
		{Open: 99, High: 103, Low: 98, Close: 102},
		{Open: 102, High: 103, Low: 99, Close: 100},
		{Open: 99, High: 105, Low: 98.5, Close: 104},
	}
	patterns := DetectCandlePatterns(bars)
	if !hasPattern(patterns, "bullish_engulfing") {
		t.Errorf("expected bullish engulfing, got %+v", patterns)
	}
	for _, p := range patterns {
		if p.Code == "bullish_engulfing" {
			if p.Score != 1 || p.Polarity != model.Bullish {
				t.Errorf("unexpected score/polarity: %+v", p)
			}
		}
	}
}

func TestDetectCandlePatterns_BearishEngulfing(t *testing.T) {
	bars := model.PriceSeries{
		{Open: 98, High: 101, Low: 97, Close: 100},
		{Open: 100, High: 103, Low: 99, Close: 102},
		{Open: 103, High: 103.5, Low: 97, Close: 98},
	}
	patterns := DetectCandlePatterns(bars)
	if !hasPattern(patterns, "bearish_engulfing") {
		t.Errorf("expected bearish engulfing, got %+v", patterns)
	}
}

func TestDetectCandlePatterns_MorningStar(t *testing.T) {
	bars := model.PriceSeries{
		{Open: 110, High: 111, Low: 99, Close: 100},  // big bearish day
		{Open: 100, High: 101, Low: 98.5, Close: 99}, // small body
		{Open: 99, High: 108, Low: 98, Close: 107},   // strong recovery
	}
	patterns := DetectCandlePatterns(bars)
	if !hasPattern(patterns, "morning_star") {
		t.Errorf("expected morning star, got %+v", patterns)
	}
}

func TestDetectCandlePatterns_ShortSeries(t *testing.T) {
	// a textbook hammer shape, but two bars are not enough history
	bars := model.PriceSeries{
		{Open: 105, High: 106, Low: 104, Close: 105},
		{Open: 100, High: 100.6, Low: 95, Close: 100.5},
	}
	if patterns := DetectCandlePatterns(bars); patterns != nil {
		t.Errorf("expected no patterns with two bars, got %+v", patterns)
	}
}

func TestDetectCandlePatterns_ZeroRange(t *testing.T) {
	bars := model.PriceSeries{
		{Open: 99, High: 101, Low: 98, Close: 100},
		{Open: 100, High: 101, Low: 99, Close: 100},
		{Open: 100, High: 100, Low: 100, Close: 100},
	}
	if patterns := DetectCandlePatterns(bars); patterns != nil {
		t.Errorf("zero-range bar should yield nothing, got %+v", patterns)
	}
}
