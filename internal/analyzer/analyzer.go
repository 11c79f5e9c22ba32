package analyzer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/khoon485/toss-stock/internal/calculator"
	"github.com/khoon485/toss-stock/internal/model"
)

// evalState is the accumulator threaded through the rule pipeline: the
// running score, the volume multiplier that scales crossover stages, and
// the flags later stages and combos key on.
type evalState struct {
	snap *model.IndicatorSnapshot
	bg   *model.BitgakResult
	a    *model.Analysis

	score            float64
	comboBonus       float64
	volumeMultiplier float64
	flags            map[string]bool
	rsiOverride      bool
}

func (st *evalState) add(category string, p model.Polarity, text string) {
	st.a.Signals = append(st.a.Signals, model.Signal{
		Text:     text,
		Polarity: p,
		Category: category,
	})
}

// stages is the rule pipeline in its fixed order. The volume stage runs
// first because its multiplier scales the crossover stages; the tally
// stage runs before the final-decision stages so post-decision notes
// never count.
var stages = []func(*evalState){
	stageVolume,
	stageMovingAverages,
	stageIchimoku,
	stageRSI,
	stageMACD,
	stageBollinger,
	stage52Week,
	stageSupportResistance,
	stageMomentum,
	stageVolatility,
	stageCandles,
	stageBitgak,
	stageCombos,
	stageTally,
	stageRecommendation,
	stageBitgakGate,
}

// Evaluate folds the indicator snapshot through the rule stages: volume
// weighting, crossovers, oscillator zones, candle patterns, crowd
// positioning, combo bonuses, then the score-plus-ratio recommendation.
// bg may be nil when the series was too short for the crowd analysis.
func Evaluate(snap *model.IndicatorSnapshot, bg *model.BitgakResult) *model.Analysis {
	st := &evalState{
		snap: snap,
		bg:   bg,
		a: &model.Analysis{
			CurrentPrice:      calculator.Round(snap.Close, 2),
			High52w:           snap.High52w,
			Low52w:            snap.Low52w,
			FromHigh52w:       snap.FromHigh52w,
			FromLow52w:        snap.FromLow52w,
			Indicators:        map[string]float64{},
			SupportResistance: snap.SupportResistance,
			Momentum:          snap.Momentum,
			CandlePatterns:    snap.Patterns,
			Confidence:        model.ConfidenceLow,
			Recommendation:    model.Hold,
			Bitgak:            bg,
		},
		volumeMultiplier: 1.0,
		flags:            map[string]bool{},
	}
	for _, stage := range stages {
		stage(st)
	}
	return st.a
}

func stageVolume(st *evalState) {
	if st.snap.Volume == nil {
		return
	}
	volRatio := calculator.Round(st.snap.Volume.Ratio, 2)
	st.a.Indicators["Volume_Ratio"] = volRatio

	if volRatio >= 2.0 {
		st.add(model.CategoryVolume, model.Neutral, fmt.Sprintf("📊 거래량 급증 (%s배) - 신호 강도 1.3배", num(volRatio)))
		st.volumeMultiplier = 1.3
		st.flags["volume_surge"] = true
	} else if volRatio >= 1.5 {
		st.add(model.CategoryVolume, model.Neutral, fmt.Sprintf("📊 거래량 증가 (%s배)", num(volRatio)))
		st.volumeMultiplier = 1.15
	} else if volRatio <= 0.5 {
		st.add(model.CategoryVolume, model.Neutral, fmt.Sprintf("📊 거래량 감소 (%s배) - 신호 약화", num(volRatio)))
		st.volumeMultiplier = 0.7
	}
}

func stageMovingAverages(st *evalState) {
	ma := st.snap.MA
	if ma == nil {
		return
	}
	st.a.Indicators["MA5"] = calculator.Round(ma.MA5, 2)
	st.a.Indicators["MA20"] = calculator.Round(ma.MA20, 2)
	if ma.MA60 != nil {
		st.a.Indicators["MA60"] = calculator.Round(*ma.MA60, 2)
	}

	if ma.PrevMA5 <= ma.PrevMA20 && ma.MA5 > ma.MA20 {
		st.add(model.CategoryMA, model.Bullish, "📈 골든크로스 (MA5 > MA20) - 강한 매수 신호")
		st.score += 2 * st.volumeMultiplier
		st.flags["golden_cross"] = true
	} else if ma.PrevMA5 >= ma.PrevMA20 && ma.MA5 < ma.MA20 {
		st.add(model.CategoryMA, model.Bearish, "📉 데드크로스 (MA5 < MA20) - 강한 매도 신호")
		st.score -= 2 * st.volumeMultiplier
		st.flags["death_cross"] = true
	}

	if st.snap.Close > ma.MA20 {
		st.add(model.CategoryMA, model.Bullish, "✅ 가격이 20일선 위 - 상승 추세")
		st.score += 0.5
		st.flags["above_ma20"] = true
	} else {
		st.add(model.CategoryMA, model.Bearish, "⚠️ 가격이 20일선 아래 - 하락 추세")
		st.score -= 0.5
		st.flags["below_ma20"] = true
	}
}

func stageIchimoku(st *evalState) {
	ic := st.snap.Ichimoku
	if ic == nil {
		return
	}
	st.a.Indicators["Tenkan"] = calculator.Round(ic.Tenkan, 2)
	st.a.Indicators["Kijun"] = calculator.Round(ic.Kijun, 2)

	if ic.PrevTenkan <= ic.PrevKijun && ic.Tenkan > ic.Kijun {
		st.add(model.CategoryIchimoku, model.Bullish, "📈 일목 골든크로스 (전환선 > 기준선) - 매수 신호")
		st.score += 1.5 * st.volumeMultiplier
	} else if ic.PrevTenkan >= ic.PrevKijun && ic.Tenkan < ic.Kijun {
		st.add(model.CategoryIchimoku, model.Bearish, "📉 일목 데드크로스 (전환선 < 기준선) - 매도 신호")
		st.score -= 1.5 * st.volumeMultiplier
	}

	if ic.SpanA != nil && ic.SpanB != nil {
		cloudTop := *ic.SpanA
		cloudBottom := *ic.SpanB
		if cloudBottom > cloudTop {
			cloudTop, cloudBottom = cloudBottom, cloudTop
		}
		if st.snap.Close > cloudTop {
			st.add(model.CategoryIchimoku, model.Bullish, "✅ 가격이 구름대 위 - 강세")
			st.score += 0.5
			st.flags["above_cloud"] = true
		} else if st.snap.Close < cloudBottom {
			st.add(model.CategoryIchimoku, model.Bearish, "⚠️ 가격이 구름대 아래 - 약세")
			st.score -= 0.5
			st.flags["below_cloud"] = true
		} else {
			st.add(model.CategoryIchimoku, model.Neutral, "➖ 가격이 구름대 안 - 횡보/불확실")
		}
	}
}

// stageRSI handles the oscillator zones; the 80+ extreme arms a
// standalone SELL override resolved in stageRecommendation.
func stageRSI(st *evalState) {
	if st.snap.RSI == nil {
		return
	}
	rsi := calculator.Round(st.snap.RSI.Value, 1)
	st.a.Indicators["RSI"] = rsi

	switch {
	case rsi >= 80:
		st.add(model.CategoryRSI, model.Bearish, fmt.Sprintf("🔴🔴 RSI %s - 극단적 과매수 ⚠️ 단독 SELL 트리거", num(rsi)))
		st.rsiOverride = true
		st.flags["rsi_extreme_overbought"] = true
	case rsi >= 70:
		st.add(model.CategoryRSI, model.Bearish, fmt.Sprintf("🔴 RSI %s - 과매수 구간 (매도 고려)", num(rsi)))
		st.score -= 2
		st.flags["rsi_overbought"] = true
	case rsi <= 20:
		st.add(model.CategoryRSI, model.Bullish, fmt.Sprintf("🟢🟢 RSI %s - 극단적 과매도 (강한 매수 신호 +5점, 단 낙폭 주의)", num(rsi)))
		st.score += 5
		st.flags["rsi_extreme_oversold"] = true
	case rsi <= 30:
		st.add(model.CategoryRSI, model.Bullish, fmt.Sprintf("🟢 RSI %s - 과매도 구간 (매수 고려)", num(rsi)))
		st.score += 2
		st.flags["rsi_oversold"] = true
	case rsi >= 60:
		st.add(model.CategoryRSI, model.Bullish, fmt.Sprintf("📈 RSI %s - 강세", num(rsi)))
		st.score += 0.5
	case rsi <= 40:
		st.add(model.CategoryRSI, model.Bearish, fmt.Sprintf("📉 RSI %s - 약세", num(rsi)))
		st.score -= 0.5
	default:
		st.add(model.CategoryRSI, model.Neutral, fmt.Sprintf("➖ RSI %s - 중립", num(rsi)))
	}
}

func stageMACD(st *evalState) {
	m := st.snap.MACD
	if m == nil {
		return
	}
	st.a.Indicators["MACD"] = calculator.Round(m.MACD, 3)
	st.a.Indicators["MACD_Signal"] = calculator.Round(m.Signal, 3)

	if m.PrevMACD <= m.PrevSignal && m.MACD > m.Signal {
		st.add(model.CategoryMACD, model.Bullish, "📈 MACD 골든크로스 - 매수 신호")
		st.score += 1.5 * st.volumeMultiplier
		st.flags["macd_golden"] = true
	} else if m.PrevMACD >= m.PrevSignal && m.MACD < m.Signal {
		st.add(model.CategoryMACD, model.Bearish, "📉 MACD 데드크로스 - 매도 신호")
		st.score -= 1.5 * st.volumeMultiplier
		st.flags["macd_death"] = true
	}

	if m.MACD > 0 {
		st.flags["macd_positive"] = true
	} else {
		st.flags["macd_negative"] = true
	}

	// direction note counts in the tally but never scores
	if m.Histogram > m.PrevHist {
		st.add(model.CategoryMACD, model.Bullish, "📈 MACD 히스토그램 상승 중")
	} else {
		st.add(model.CategoryMACD, model.Bearish, "📉 MACD 히스토그램 하락 중")
	}
}

func stageBollinger(st *evalState) {
	bb := st.snap.Bollinger
	if bb == nil {
		return
	}
	st.a.Indicators["BB_Upper"] = calculator.Round(bb.Upper, 2)
	st.a.Indicators["BB_Lower"] = calculator.Round(bb.Lower, 2)

	if st.snap.Close >= bb.Upper {
		st.add(model.CategoryBollinger, model.Bearish, "🔴 볼린저 상단 돌파 - 과매수/조정 가능")
		st.score--
		st.flags["bb_upper"] = true
	} else if st.snap.Close <= bb.Lower {
		st.add(model.CategoryBollinger, model.Bullish, "🟢 볼린저 하단 이탈 - 과매도/반등 가능")
		st.score++
		st.flags["bb_lower"] = true
	}
}

func stage52Week(st *evalState) {
	if st.snap.FromHigh52w >= -5 {
		st.add(model.Category52Week, model.Neutral, fmt.Sprintf("🔝 52주 고점 근처 (%s%%) - 추격매수 주의", num(st.snap.FromHigh52w)))
		st.score--
		st.flags["near_high"] = true
	} else if st.snap.FromLow52w <= 10 {
		st.add(model.Category52Week, model.Neutral, fmt.Sprintf("🔻 52주 저점 근처 (%s%%) - 반등 기대", num(st.snap.FromLow52w)))
		st.score += 0.5
		st.flags["near_low"] = true
	}
}

// stageSupportResistance only raises combo flags; proximity itself emits
// no signal and moves no score.
func stageSupportResistance(st *evalState) {
	sr := st.snap.SupportResistance
	if sr == nil {
		return
	}
	if sr.DistanceToSupport >= -3 {
		st.flags["near_support"] = true
	}
	if sr.DistanceToResistance <= 3 {
		st.flags["near_resistance"] = true
	}
}

func stageMomentum(st *evalState) {
	if st.snap.Momentum.Return1M == nil {
		return
	}
	r := *st.snap.Momentum.Return1M
	if r > 20 {
		st.add(model.CategoryMomentum, model.Neutral, fmt.Sprintf("🚀 1개월 +%s%% 급등 - 과열 주의", num(r)))
		st.score--
	} else if r > 10 {
		st.add(model.CategoryMomentum, model.Neutral, fmt.Sprintf("🚀 1개월 +%s%% - 강한 상승", num(r)))
	} else if r < -15 {
		st.add(model.CategoryMomentum, model.Neutral, fmt.Sprintf("💥 1개월 %s%% 급락 - 낙폭과대", num(r)))
		st.score -= 2
	} else if r < -10 {
		st.add(model.CategoryMomentum, model.Neutral, fmt.Sprintf("💥 1개월 %s%% - 하락세", num(r)))
		st.score--
	}
}

func stageVolatility(st *evalState) {
	if st.snap.ATR == nil {
		return
	}
	atrPct := calculator.Round(st.snap.ATR.Pct, 2)
	st.a.Indicators["ATR_pct"] = atrPct
	if atrPct > 5 {
		st.add(model.CategoryVolatility, model.Neutral, fmt.Sprintf("⚡ 변동성 높음 (ATR %s%%) - 리스크 주의", num(atrPct)))
	}
}

func stageCandles(st *evalState) {
	for _, p := range st.snap.Patterns {
		st.add(model.CategoryCandle, p.Polarity, p.Text)
		if p.Score > 0 {
			st.score++
			st.flags["bullish_candle"] = true
		} else if p.Score < 0 {
			st.score--
			st.flags["bearish_candle"] = true
		}
	}
}

func stageBitgak(st *evalState) {
	bg := st.bg
	if bg == nil {
		return
	}
	st.a.Signals = append(st.a.Signals, bg.Signals...)

	optimal := bg.CSI >= -5 && bg.CSI <= 2 && bg.HVNProximity <= 3
	acceptable := bg.CSI >= -10 && bg.CSI <= 5 && bg.HVNProximity <= 5

	if optimal {
		st.add(model.CategoryBitgak, model.Neutral, "🎯🎯 강한 빗각 신호! (본전 구간 + 매물대 터치) +3점")
		st.score += 3
		st.flags["strong_bitgak"] = true
	} else if acceptable && bg.Score >= 1 {
		st.add(model.CategoryBitgak, model.Neutral, fmt.Sprintf("🎯 빗각 매수 신호 (점수 %s × 1.2)", num(bg.Score)))
		st.score += bg.Score * 1.2
		st.flags["bitgak_signal"] = true
	} else if bg.Score >= 1 {
		st.add(model.CategoryBitgak, model.Neutral, fmt.Sprintf("📐 약한 빗각 신호 (점수 %s × 0.5)", num(bg.Score)))
		st.score += bg.Score * 0.5
		st.flags["bitgak_weak"] = true
	}
}

func stageCombos(st *evalState) {
	if st.flags["rsi_oversold"] && st.flags["near_support"] && st.flags["volume_surge"] {
		st.add(model.CategoryCombo, model.Neutral, "🎯 바닥 신호 콤보! (RSI 과매도 + 지지선 + 거래량) +2점")
		st.comboBonus += 2
	}
	if st.flags["rsi_overbought"] && st.flags["near_resistance"] {
		st.add(model.CategoryCombo, model.Neutral, "🎯 천장 신호 콤보! (RSI 과매수 + 저항선) -2점")
		st.comboBonus -= 2
	}
	if st.flags["golden_cross"] && st.flags["above_cloud"] && st.flags["macd_positive"] {
		st.add(model.CategoryCombo, model.Neutral, "🎯 추세 확인 콤보! (골든크로스 + 구름대 위 + MACD+) +1.5점")
		st.comboBonus += 1.5
	}
	if st.flags["death_cross"] && st.flags["below_cloud"] && st.flags["macd_negative"] {
		st.add(model.CategoryCombo, model.Neutral, "🎯 하락 확인 콤보! (데드크로스 + 구름대 아래 + MACD-) -1.5점")
		st.comboBonus -= 1.5
	}
	if st.flags["strong_bitgak"] && st.flags["rsi_oversold"] {
		st.add(model.CategoryCombo, model.Neutral, "🎯 빗각 바닥 콤보! (강한 빗각 + RSI 과매도) +2점")
		st.comboBonus += 2
	}
	if st.flags["bitgak_signal"] && st.flags["near_support"] {
		st.add(model.CategoryCombo, model.Neutral, "🎯 빗각 지지 콤보! (빗각 신호 + 지지선) +1.5점")
		st.comboBonus += 1.5
	}
	st.score += st.comboBonus
}

// stageTally counts the polarized signals and applies the 70%
// one-sidedness confidence filter. Notes added after this stage never
// count.
func stageTally(st *evalState) {
	buySignals, sellSignals := 0, 0
	for _, s := range st.a.Signals {
		switch s.Polarity {
		case model.Bullish:
			buySignals++
		case model.Bearish:
			sellSignals++
		}
	}
	st.a.BuySignals = buySignals
	st.a.SellSignals = sellSignals

	total := buySignals + sellSignals
	if total >= 3 {
		buyRatio := float64(buySignals) / float64(total)
		sellRatio := float64(sellSignals) / float64(total)
		if buyRatio >= 0.7 || sellRatio >= 0.7 {
			st.a.Confidence = model.ConfidenceHigh
		} else if buyRatio >= 0.5 || sellRatio >= 0.5 {
			st.a.Confidence = model.ConfidenceMedium
		}
	}
}

func stageRecommendation(st *evalState) {
	st.a.Score = calculator.Round(st.score, 1)
	st.a.ComboBonus = st.comboBonus

	if st.rsiOverride {
		// RSI 80+ forces SELL; the extreme oversold side only adds score
		st.a.Recommendation = model.Sell
		st.add(model.CategoryFinal, model.Bearish, "⚠️ RSI 80+ 단독 트리거로 SELL 결정 (다른 신호 무시)")
		return
	}

	buyRatio, sellRatio := 0.0, 0.0
	if total := st.a.BuySignals + st.a.SellSignals; total > 0 {
		buyRatio = float64(st.a.BuySignals) / float64(total)
		sellRatio = float64(st.a.SellSignals) / float64(total)
	}
	score := st.a.Score
	switch {
	case score >= 4 || (score >= 2 && buyRatio >= 0.8):
		st.a.Recommendation = model.StrongBuy
	case score >= 1.5 && buyRatio >= 0.7:
		st.a.Recommendation = model.Buy
	case score >= 2:
		st.a.Recommendation = model.Buy
	case score <= -4 || (score <= -2 && sellRatio >= 0.8):
		st.a.Recommendation = model.StrongSell
	case score <= -1.5 && sellRatio >= 0.7:
		st.a.Recommendation = model.Sell
	case score <= -2:
		st.a.Recommendation = model.Sell
	default:
		st.a.Recommendation = model.Hold
	}
}

// stageBitgakGate re-checks a buy call against the crowd cost basis:
// confirmed zones raise confidence, unmet zones drop it to LOW and
// attach a warning.
func stageBitgakGate(st *evalState) {
	bg := st.bg
	a := st.a
	if bg == nil || (a.Recommendation != model.Buy && a.Recommendation != model.StrongBuy) {
		return
	}
	switch {
	case st.flags["strong_bitgak"]:
		if a.Confidence == model.ConfidenceMedium {
			a.Confidence = model.ConfidenceHigh
		}
		st.add(model.CategoryFinal, model.Neutral, "🎯 빗각 확인 - 매수 신호 신뢰도 상향")
	case st.flags["bitgak_signal"]:
		st.add(model.CategoryFinal, model.Neutral, "🎯 빗각 부분 충족 (허용 구간)")
	default:
		a.Confidence = model.ConfidenceLow
		switch {
		case bg.CSI > 5:
			a.BitgakWarning = fmt.Sprintf("⚠️ 빗각 경고: 추격매수 구간 (CSI +%s%%)", num(bg.CSI))
		case bg.CSI < -10:
			a.BitgakWarning = fmt.Sprintf("⚠️ 빗각 경고: 투매 구간 (CSI %s%%)", num(bg.CSI))
		case bg.HVNProximity > 5:
			a.BitgakWarning = fmt.Sprintf("⚠️ 빗각 경고: 매물대 원거리 (%s%%)", num(bg.HVNProximity))
		default:
			a.BitgakWarning = "⚠️ 빗각 미충족 - 신뢰도 하향"
		}
		st.add(model.CategoryFinal, model.Bearish, a.BitgakWarning)
	}
}

// num renders a rounded value the way the reports show it: no trailing
// zeros past the first decimal.
func num(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
