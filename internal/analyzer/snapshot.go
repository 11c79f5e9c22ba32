package analyzer

import (
	"github.com/khoon485/toss-stock/internal/calculator"
	"github.com/khoon485/toss-stock/internal/model"
)

// BuildSnapshot evaluates every indicator series over the bars and keeps
// the values at the latest bar, plus the previous bar's values where the
// signal rules detect crossovers. Indicators whose window exceeds the
// series length come back nil.
func BuildSnapshot(bars model.PriceSeries) *model.IndicatorSnapshot {
	n := len(bars)
	if n < 2 {
		return nil
	}
	latest, prev := n-1, n-2

	closes := bars.Closes()
	highs := bars.Highs()
	lows := bars.Lows()
	volumes := bars.Volumes()

	snap := &model.IndicatorSnapshot{
		Close:     closes[latest],
		PrevClose: closes[prev],
	}

	ma := calculator.ComputeMovingAverages(closes)
	if calculator.Valid(ma.MA5[latest]) && calculator.Valid(ma.MA20[latest]) {
		m := &model.MASnapshot{
			MA5:      ma.MA5[latest],
			MA20:     ma.MA20[latest],
			PrevMA5:  ma.MA5[prev],
			PrevMA20: ma.MA20[prev],
		}
		if calculator.Valid(ma.MA60[latest]) {
			v := ma.MA60[latest]
			m.MA60 = &v
		}
		snap.MA = m
	}

	ich := calculator.ComputeIchimoku(highs, lows)
	if calculator.Valid(ich.Tenkan[latest]) && calculator.Valid(ich.Kijun[latest]) {
		ic := &model.IchimokuSnapshot{
			Tenkan:     ich.Tenkan[latest],
			Kijun:      ich.Kijun[latest],
			PrevTenkan: ich.Tenkan[prev],
			PrevKijun:  ich.Kijun[prev],
		}
		if calculator.Valid(ich.SpanA[latest]) && calculator.Valid(ich.SpanB[latest]) {
			a, b := ich.SpanA[latest], ich.SpanB[latest]
			ic.SpanA = &a
			ic.SpanB = &b
		}
		snap.Ichimoku = ic
	}

	rsi := calculator.RSISeries(closes, 14)
	if calculator.Valid(rsi[latest]) {
		snap.RSI = &model.RSISnapshot{Value: rsi[latest]}
	}

	macd := calculator.ComputeMACD(closes)
	snap.MACD = &model.MACDSnapshot{
		MACD:       macd.MACD[latest],
		Signal:     macd.Signal[latest],
		Histogram:  macd.Histogram[latest],
		PrevMACD:   macd.MACD[prev],
		PrevSignal: macd.Signal[prev],
		PrevHist:   macd.Histogram[prev],
	}

	boll := calculator.ComputeBollinger(closes)
	if calculator.Valid(boll.Upper[latest]) && calculator.Valid(boll.Lower[latest]) {
		snap.Bollinger = &model.BollingerSnapshot{
			Middle: boll.Middle[latest],
			Upper:  boll.Upper[latest],
			Lower:  boll.Lower[latest],
			Width:  boll.Width[latest],
		}
	}

	atr := calculator.ComputeATR(bars)
	if calculator.Valid(atr.ATR[latest]) {
		snap.ATR = &model.ATRSnapshot{
			ATR: atr.ATR[latest],
			Pct: atr.Pct[latest],
		}
	}

	vol := calculator.ComputeVolume(volumes)
	if calculator.Valid(vol.Ratio[latest]) {
		snap.Volume = &model.VolumeSnapshot{
			MA20:  vol.MA20[latest],
			Ratio: vol.Ratio[latest],
		}
	}

	high52, low52 := calculator.Week52Range(bars)
	snap.High52w = calculator.Round(high52, 2)
	snap.Low52w = calculator.Round(low52, 2)
	if high52 != 0 {
		snap.FromHigh52w = calculator.Round((snap.Close-high52)/high52*100, 1)
	}
	if low52 != 0 {
		snap.FromLow52w = calculator.Round((snap.Close-low52)/low52*100, 1)
	}

	snap.Momentum = calculator.ComputeMomentum(closes)
	snap.SupportResistance = calculator.ComputeSupportResistance(bars)
	snap.Patterns = calculator.DetectCandlePatterns(bars)

	return snap
}
