package portfolio

import (
	"strings"
	"testing"

	"github.com/khoon485/toss-stock/internal/model"
)

func sampleReport() *model.Report {
	target := 150.0
	pe := 28.4
	ret1m := 5.2
	return &model.Report{
		AnalyzedAt: "2026-08-30T07:00:00+09:00",
		Market: &model.MarketSnapshot{
			VIX: 18.5, HasVIX: true,
			SPY: 520.1, SPYChange: 0.4, HasSPY: true,
			Sentiment: model.Greed, SentimentDesc: "탐욕 (안정적 상승)",
		},
		Holdings: []*model.Analysis{
			{
				Symbol:         "AAPL",
				Name:           "애플",
				Market:         model.MarketUS,
				Quantity:       2,
				CurrentPrice:   123.45,
				High52w:        140.0,
				Low52w:         95.0,
				FromHigh52w:    -11.8,
				Score:          3.5,
				BuySignals:     4,
				SellSignals:    1,
				Confidence:     model.ConfidenceHigh,
				Recommendation: model.Buy,
				Indicators: map[string]float64{
					"RSI": 28.5, "MACD": 1.234, "MACD_Signal": 1.1,
					"MA5": 122.0, "MA20": 120.0, "ATR_pct": 2.1,
				},
				Momentum: model.Momentum{Return1M: &ret1m},
				Signals: []model.Signal{
					{Text: "🟢 RSI 28.5 - 과매도 구간 (매수 고려)", Polarity: model.Bullish, Category: model.CategoryRSI},
				},
				Bitgak: &model.BitgakResult{
					Score: 2.0, Grade: model.BitgakModerate,
					CSI: -1.2, VWAP: 118.25, VWAP20: 121.5, HVNPrice: 119.0, HVNProximity: 3.7,
				},
				Fundamentals: &model.Fundamentals{PERatio: &pe, TargetPrice: &target},
				Strategy: &model.TradeStrategy{
					Action:       "BUY",
					Confidence:   model.ConfidenceHigh,
					PositionSize: "20%",
					EntrySteps:   []string{"1차 매수: 현재가 $123.45에서 포지션의 40%"},
					Reasoning:    []string{"매수 신호 - 보수적 분할매수 권장"},
					StopLoss:     &model.StopLoss{Price: 110.5, Percentage: -10.5, Desc: "지지선 $113.92 하회 시 손절"},
					TakeProfit: []model.TakeProfit{
						{Price: 135.8, Percentage: 10, SellRatio: "30%", Desc: "+10%에서 1차 익절"},
					},
				},
			},
			{Symbol: "NVDA", Name: "엔비디아", Error: "데이터 부족"},
		},
		Summary: &model.Summary{
			ExchangeRate: 1400,
			HoldingsDetail: []model.SummaryHolding{
				{Symbol: "AAPL", Quantity: 2, AvgPrice: 100, CurrentPrice: 123.45, ProfitPct: 23.45, Market: model.MarketUS},
			},
			Investments: model.Investments{USD: 246.9, USDInKRW: 345660, KRW: 0},
			Cash:        model.CashSummary{USD: 100, KRW: 50000, TotalInKRW: 190000},
			TotalKRW:    535660,
		},
	}
}

func TestFormatText(t *testing.T) {
	text := FormatText(sampleReport())

	for _, want := range []string{
		"포트폴리오 분석 리포트",
		"VIX (공포지수): 18.5 🟢",
		"S&P 500 (SPY): $520.1 (+0.4%)",
		"종목: 애플 (AAPL)",
		"현재가: $123.45",
		"52주: $95.00 ~ $140.00",
		"고점 대비: -11.8%",
		"추천: 🟢 BUY",
		"점수: 3.5 (매수신호: 4 / 매도신호: 1)",
		"RSI: 28.5",
		"MACD: 1.234 (Signal: 1.1)",
		"1개월: +5.2%",
		"빗각 신호: 🎯 MODERATE (점수: 2.0)",
		"CSI (군중스트레스): -1.2%",
		"VWAP (평균단가): $121.50",
		"누적 VWAP: $118.25",
		"본전 심리 구간 (매수 기회!)",
		"PER: 28.4",
		"애널리스트 목표가: $150.0",
		"🟢 RSI 28.5 - 과매도 구간 (매수 고려)",
		"💰 매매 전략: 🟢 BUY (신뢰도: HIGH)",
		"권장 비중: 20%",
		"🛑 손절선: $110.50 (-10.5%)",
		"$135.80 (+10.0%) → 30% 매도",
		"⚠️ 분석 실패: 데이터 부족",
		"💼 포트폴리오 요약",
		"📊 오늘 환율: $1 = ₩1,400.00",
		"분석 완료",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("report text missing %q", want)
		}
	}
}

func TestWriteReportAndLatest(t *testing.T) {
	dir := t.TempDir()
	r := sampleReport()

	jsonPath, txtPath, err := WriteReport(dir, r)
	if err != nil {
		t.Fatalf("WriteReport: %v", err)
	}
	if jsonPath == "" || txtPath == "" {
		t.Fatal("expected both report paths")
	}

	if got := LatestReportPath(dir); got != jsonPath {
		t.Errorf("LatestReportPath = %s, want %s", got, jsonPath)
	}

	loaded, err := LoadLatestReport(dir)
	if err != nil {
		t.Fatalf("LoadLatestReport: %v", err)
	}
	if loaded.AnalyzedAt != r.AnalyzedAt {
		t.Errorf("analyzed_at = %s, want %s", loaded.AnalyzedAt, r.AnalyzedAt)
	}
	if len(loaded.Holdings) != len(r.Holdings) {
		t.Errorf("holdings = %d, want %d", len(loaded.Holdings), len(r.Holdings))
	}
}

func TestLatestReportPathEmpty(t *testing.T) {
	if got := LatestReportPath(t.TempDir()); got != "" {
		t.Errorf("expected empty path, got %s", got)
	}
}

func TestMoneyFormatting(t *testing.T) {
	cases := []struct {
		v        float64
		decimals int
		want     string
	}{
		{1234.0, 0, "1,234"},
		{1000000, 0, "1,000,000"},
		{999, 0, "999"},
		{1234567.891, 2, "1,234,567.89"},
		{-12345.678, 2, "-12,345.68"},
		{55.5, 2, "55.50"},
	}
	for _, c := range cases {
		if got := money(c.v, c.decimals); got != c.want {
			t.Errorf("money(%v, %d) = %s, want %s", c.v, c.decimals, got, c.want)
		}
	}

	if got := num(5); got != "5.0" {
		t.Errorf("num(5) = %s", got)
	}
	if got := num(2.5); got != "2.5" {
		t.Errorf("num(2.5) = %s", got)
	}
}
