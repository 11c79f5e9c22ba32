package strategy

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/khoon485/toss-stock/internal/calculator"
	"github.com/khoon485/toss-stock/internal/model"
)

// Generate turns an analysis into a concrete position plan: staged
// entries or exits, a stop under the support, profit targets and a
// position size, then overlays the market mood and the crowd warning.
func Generate(a *model.Analysis, market *model.MarketSnapshot) *model.TradeStrategy {
	st := &model.TradeStrategy{
		Action:       "HOLD",
		Confidence:   model.ConfidenceMedium,
		PositionSize: "0%",
	}
	price := a.CurrentPrice
	if price == 0 {
		return st
	}

	var targetPrice, upside float64
	hasTarget := false
	if a.Fundamentals != nil && a.Fundamentals.TargetPrice != nil && *a.Fundamentals.TargetPrice > 0 {
		targetPrice = *a.Fundamentals.TargetPrice
		upside = (targetPrice/price - 1) * 100
		hasTarget = true
	}

	support := price * 0.9
	resistance := price * 1.1
	if a.SupportResistance != nil {
		support = a.SupportResistance.Support
		resistance = a.SupportResistance.Resistance
	}

	bitgakGrade := model.BitgakNone
	var hvnPrice, bitgakCSI float64
	if a.Bitgak != nil {
		bitgakGrade = a.Bitgak.Grade
		hvnPrice = a.Bitgak.HVNPrice
		bitgakCSI = a.Bitgak.CSI
	}
	if hvnPrice == 0 {
		hvnPrice = price * 0.95
	}

	switch a.Recommendation {
	case model.StrongBuy, model.Buy:
		st.Action = "BUY"

		if a.Score >= 5 {
			st.Confidence = model.ConfidenceHigh
			st.PositionSize = "30%"
			st.EntrySteps = []string{
				fmt.Sprintf("1차 매수: 현재가 $%.2f에서 포지션의 50%%", price),
				fmt.Sprintf("2차 매수: $%.2f (-3%%)에서 30%%", price*0.97),
				fmt.Sprintf("3차 매수: $%.2f (-5%%)에서 20%%", price*0.95),
			}
			st.Reasoning = append(st.Reasoning, "강한 매수 신호 - 적극적 분할매수 권장")
		} else {
			st.Confidence = model.ConfidenceMedium
			st.PositionSize = "20%"
			st.EntrySteps = []string{
				fmt.Sprintf("1차 매수: 현재가 $%.2f에서 포지션의 40%%", price),
				fmt.Sprintf("2차 매수: $%.2f (-5%%)에서 30%%", price*0.95),
				fmt.Sprintf("3차 매수: $%.2f (-10%%)에서 30%%", price*0.90),
			}
			st.Reasoning = append(st.Reasoning, "매수 신호 - 보수적 분할매수 권장")
		}

		if bitgakGrade != model.BitgakNone {
			st.EntrySteps = append(st.EntrySteps,
				fmt.Sprintf("빗각 매수: 매물대 $%.2f 근처에서 추가 매수 고려", hvnPrice))
			st.Reasoning = append(st.Reasoning,
				fmt.Sprintf("빗각 신호 (%s) - 매물대/VWAP 기반 진입", bitgakGrade))
		}

		st.StopLoss = &model.StopLoss{
			Price:      calculator.Round(support*0.97, 2),
			Percentage: calculator.Round((support*0.97/price-1)*100, 1),
			Desc:       fmt.Sprintf("지지선 $%.2f 하회 시 손절", support),
		}

		if hasTarget && upside > 10 {
			st.TakeProfit = []model.TakeProfit{
				{Price: calculator.Round(price*1.10, 2), Percentage: 10, SellRatio: "30%", Desc: "+10%에서 1차 익절"},
				{Price: calculator.Round(price*1.20, 2), Percentage: 20, SellRatio: "30%", Desc: "+20%에서 2차 익절"},
				{Price: calculator.Round(targetPrice, 2), Percentage: calculator.Round(upside, 1), SellRatio: "40%", Desc: "목표가 도달 시 전량 익절"},
			}
		} else {
			st.TakeProfit = []model.TakeProfit{
				{Price: calculator.Round(resistance, 2), Percentage: calculator.Round((resistance/price-1)*100, 1), SellRatio: "50%", Desc: "저항선 도달 시 절반 익절"},
				{Price: calculator.Round(resistance*1.05, 2), Percentage: calculator.Round((resistance*1.05/price-1)*100, 1), SellRatio: "50%", Desc: "저항선 돌파 시 나머지 익절"},
			}
		}

	case model.StrongSell, model.Sell:
		st.Action = "SELL"
		if a.Score <= -5 {
			st.Confidence = model.ConfidenceHigh
		} else {
			st.Confidence = model.ConfidenceMedium
		}
		st.PositionSize = "0%"
		st.ExitSteps = []string{
			fmt.Sprintf("즉시 매도: 포지션의 50%% 현재가 $%.2f에서", price),
			fmt.Sprintf("잔여 매도: 반등 시 $%.2f (+3%%)에서 나머지", price*1.03),
		}
		st.Reasoning = append(st.Reasoning, "매도 신호 발생 - 포지션 축소 권장")

		if a.Momentum.Return1M != nil && *a.Momentum.Return1M < -15 {
			st.Reasoning = append(st.Reasoning, "1개월 -15% 이상 급락 - 손실 확대 방지")
		}

	default:
		st.Action = "HOLD"
		st.Confidence = model.ConfidenceMedium
		st.PositionSize = "현재 유지"
		st.Reasoning = append(st.Reasoning, "명확한 방향성 없음 - 관망")

		if bitgakGrade != model.BitgakNone {
			st.EntrySteps = []string{
				fmt.Sprintf("빗각 매수 대기: 매물대 $%.2f 도달 시 매수 검토", hvnPrice),
				fmt.Sprintf("CSI 확인: %s%% (본전 구간 -5%%~+2%%)", num(bitgakCSI)),
			}
			st.Reasoning = append(st.Reasoning, "빗각 신호 감지 - 매물대 근처 진입 대기")
		} else {
			st.EntrySteps = []string{
				fmt.Sprintf("추가 매수 조건: $%.2f 지지 확인 시", support),
				"또는: RSI 30 이하 과매도 시",
			}
			st.ExitSteps = []string{
				fmt.Sprintf("매도 조건: $%.2f 저항 돌파 실패 시", resistance),
				"또는: RSI 70 이상 + 거래량 감소 시",
			}
		}
	}

	if market != nil && st.Action == "BUY" {
		switch market.Sentiment {
		case model.ExtremeFear:
			st.Reasoning = append(st.Reasoning, fmt.Sprintf("VIX %s 극도의 공포 - 역발상 매수 기회", num(market.VIX)))
			st.Confidence = model.ConfidenceHigh
		case model.ExtremeGreed:
			st.Reasoning = append(st.Reasoning, fmt.Sprintf("VIX %s 극도의 탐욕 - 추격매수 주의", num(market.VIX)))
			st.Confidence = model.ConfidenceLow
			st.PositionSize = "10%"
		}
	}

	if a.BitgakWarning != "" && st.Action == "BUY" {
		st.Reasoning = append(st.Reasoning, a.BitgakWarning)
		if strings.Contains(a.BitgakWarning, "추격매수") || strings.Contains(a.BitgakWarning, "원거리") {
			st.Confidence = model.ConfidenceLow
			switch st.PositionSize {
			case "30%":
				st.PositionSize = "15%"
			case "20%":
				st.PositionSize = "10%"
			}
			st.Reasoning = append(st.Reasoning, "빗각 미충족 - 비중 50% 축소")
		}
	}

	return st
}

func num(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
