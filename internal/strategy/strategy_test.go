package strategy

import (
	"strings"
	"testing"

	"github.com/khoon485/toss-stock/internal/model"
)

func neutralMarket() *model.MarketSnapshot {
	return model.NeutralMarket()
}

func hasReason(st *model.TradeStrategy, substr string) bool {
	for _, r := range st.Reasoning {
		if strings.Contains(r, substr) {
			return true
		}
	}
	return false
}

func TestGenerate_StrongBuyAggressiveEntries(t *testing.T) {
	a := &model.Analysis{
		CurrentPrice:   100,
		Score:          6,
		Recommendation: model.StrongBuy,
		SupportResistance: &model.SupportResistance{
			Support: 95, Resistance: 110,
		},
	}
	st := Generate(a, neutralMarket())
	if st.Action != "BUY" {
		t.Fatalf("expected BUY, got %s", st.Action)
	}
	if st.Confidence != model.ConfidenceHigh || st.PositionSize != "30%" {
		t.Errorf("expected HIGH/30%%, got %s/%s", st.Confidence, st.PositionSize)
	}
	if len(st.EntrySteps) != 3 {
		t.Fatalf("expected three entry steps, got %d", len(st.EntrySteps))
	}
	if !strings.Contains(st.EntrySteps[1], "$97.00 (-3%)") {
		t.Errorf("unexpected second entry: %s", st.EntrySteps[1])
	}
	if st.StopLoss == nil {
		t.Fatal("expected a stop loss")
	}
	// 95 * 0.97 = 92.15
	if st.StopLoss.Price != 92.15 {
		t.Errorf("expected stop at 92.15, got %f", st.StopLoss.Price)
	}
	if st.StopLoss.Percentage != -7.9 {
		t.Errorf("expected -7.9%%, got %f", st.StopLoss.Percentage)
	}
	if !hasReason(st, "적극적 분할매수") {
		t.Error("expected the aggressive entry reasoning")
	}
}

func TestGenerate_BuyConservativeBelowScore5(t *testing.T) {
	a := &model.Analysis{
		CurrentPrice:   100,
		Score:          2.5,
		Recommendation: model.Buy,
	}
	st := Generate(a, neutralMarket())
	if st.Confidence != model.ConfidenceMedium || st.PositionSize != "20%" {
		t.Errorf("expected MEDIUM/20%%, got %s/%s", st.Confidence, st.PositionSize)
	}
	if !strings.Contains(st.EntrySteps[2], "(-10%)") {
		t.Errorf("conservative plan steps down to -10%%: %s", st.EntrySteps[2])
	}
	// missing levels fall back to +-10% of price
	if st.StopLoss.Desc != "지지선 $90.00 하회 시 손절" {
		t.Errorf("unexpected stop desc: %s", st.StopLoss.Desc)
	}
	if st.TakeProfit[0].Price != 110 {
		t.Errorf("expected fallback resistance 110, got %f", st.TakeProfit[0].Price)
	}
}

func TestGenerate_BuyWithAnalystTarget(t *testing.T) {
	target := 130.0
	a := &model.Analysis{
		CurrentPrice:   100,
		Score:          3,
		Recommendation: model.Buy,
		Fundamentals:   &model.Fundamentals{TargetPrice: &target},
	}
	st := Generate(a, neutralMarket())
	if len(st.TakeProfit) != 3 {
		t.Fatalf("expected three profit rungs, got %d", len(st.TakeProfit))
	}
	lastRung := st.TakeProfit[2]
	if lastRung.Price != 130 || lastRung.Percentage != 30 || lastRung.SellRatio != "40%" {
		t.Errorf("unexpected target rung: %+v", lastRung)
	}
}

func TestGenerate_BuyTargetBelowThresholdUsesResistance(t *testing.T) {
	target := 105.0 // only +5% upside
	a := &model.Analysis{
		CurrentPrice:   100,
		Score:          3,
		Recommendation: model.Buy,
		Fundamentals:   &model.Fundamentals{TargetPrice: &target},
		SupportResistance: &model.SupportResistance{
			Support: 95, Resistance: 112,
		},
	}
	st := Generate(a, neutralMarket())
	if len(st.TakeProfit) != 2 {
		t.Fatalf("expected the resistance ladder, got %d rungs", len(st.TakeProfit))
	}
	if st.TakeProfit[0].Price != 112 || st.TakeProfit[0].SellRatio != "50%" {
		t.Errorf("unexpected first rung: %+v", st.TakeProfit[0])
	}
	if st.TakeProfit[1].Price != 117.6 {
		t.Errorf("expected 112*1.05, got %f", st.TakeProfit[1].Price)
	}
}

func TestGenerate_SellPlan(t *testing.T) {
	crash := -18.0
	a := &model.Analysis{
		CurrentPrice:   50,
		Score:          -6,
		Recommendation: model.StrongSell,
		Momentum:       model.Momentum{Return1M: &crash},
	}
	st := Generate(a, neutralMarket())
	if st.Action != "SELL" || st.Confidence != model.ConfidenceHigh {
		t.Errorf("expected SELL/HIGH, got %s/%s", st.Action, st.Confidence)
	}
	if st.PositionSize != "0%" {
		t.Errorf("expected 0%%, got %s", st.PositionSize)
	}
	if !strings.Contains(st.ExitSteps[1], "$51.50 (+3%)") {
		t.Errorf("unexpected bounce exit: %s", st.ExitSteps[1])
	}
	if !hasReason(st, "손실 확대 방지") {
		t.Error("expected the crash reasoning")
	}
}

func TestGenerate_HoldWithBitgakWaitsAtHVN(t *testing.T) {
	a := &model.Analysis{
		CurrentPrice:   100,
		Recommendation: model.Hold,
		Bitgak: &model.BitgakResult{
			Grade: model.BitgakModerate, Score: 2, HVNPrice: 96.5, CSI: -1.2,
		},
	}
	st := Generate(a, neutralMarket())
	if st.PositionSize != "현재 유지" {
		t.Errorf("expected hold sizing, got %s", st.PositionSize)
	}
	if !strings.Contains(st.EntrySteps[0], "$96.50") {
		t.Errorf("expected the HVN wait entry: %s", st.EntrySteps[0])
	}
	if !strings.Contains(st.EntrySteps[1], "-1.2%") {
		t.Errorf("expected the CSI check entry: %s", st.EntrySteps[1])
	}
	if !hasReason(st, "진입 대기") {
		t.Error("expected the wait reasoning")
	}
}

func TestGenerate_HoldWithoutBitgakGenericConditions(t *testing.T) {
	a := &model.Analysis{
		CurrentPrice:   100,
		Recommendation: model.Hold,
		SupportResistance: &model.SupportResistance{
			Support: 92, Resistance: 108,
		},
	}
	st := Generate(a, neutralMarket())
	if !strings.Contains(st.EntrySteps[0], "$92.00 지지 확인") {
		t.Errorf("unexpected entry condition: %s", st.EntrySteps[0])
	}
	if !strings.Contains(st.ExitSteps[0], "$108.00 저항 돌파 실패") {
		t.Errorf("unexpected exit condition: %s", st.ExitSteps[0])
	}
}

func TestGenerate_ExtremeFearUpgradesBuy(t *testing.T) {
	a := &model.Analysis{CurrentPrice: 100, Score: 3, Recommendation: model.Buy}
	market := &model.MarketSnapshot{VIX: 35, HasVIX: true, Sentiment: model.ExtremeFear}
	st := Generate(a, market)
	if st.Confidence != model.ConfidenceHigh {
		t.Errorf("extreme fear should upgrade a buy, got %s", st.Confidence)
	}
	if !hasReason(st, "역발상 매수 기회") {
		t.Error("expected the contrarian reasoning")
	}
}

func TestGenerate_ExtremeGreedCutsPosition(t *testing.T) {
	a := &model.Analysis{CurrentPrice: 100, Score: 6, Recommendation: model.StrongBuy}
	market := &model.MarketSnapshot{VIX: 12, HasVIX: true, Sentiment: model.ExtremeGreed}
	st := Generate(a, market)
	if st.Confidence != model.ConfidenceLow || st.PositionSize != "10%" {
		t.Errorf("expected LOW/10%%, got %s/%s", st.Confidence, st.PositionSize)
	}
}

func TestGenerate_BitgakWarningHalvesPosition(t *testing.T) {
	a := &model.Analysis{
		CurrentPrice:   100,
		Score:          6,
		Recommendation: model.StrongBuy,
		BitgakWarning:  "⚠️ 빗각 경고: 추격매수 구간 (CSI +12.0%)",
	}
	st := Generate(a, neutralMarket())
	if st.Confidence != model.ConfidenceLow {
		t.Errorf("expected LOW, got %s", st.Confidence)
	}
	if st.PositionSize != "15%" {
		t.Errorf("expected 30%% halved to 15%%, got %s", st.PositionSize)
	}
	if !hasReason(st, "비중 50% 축소") {
		t.Error("expected the halving reasoning")
	}
}

func TestGenerate_ZeroPriceReturnsDefault(t *testing.T) {
	st := Generate(&model.Analysis{Recommendation: model.StrongBuy}, neutralMarket())
	if st.Action != "HOLD" || st.PositionSize != "0%" {
		t.Errorf("expected the default plan, got %s/%s", st.Action, st.PositionSize)
	}
	if st.EntrySteps != nil || st.StopLoss != nil {
		t.Error("default plan carries no steps")
	}
}
