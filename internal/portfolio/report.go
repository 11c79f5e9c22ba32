package portfolio

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/khoon485/toss-stock/internal/model"
)

// WriteReport persists the batch result as JSON plus a human-readable text
// report under <dir>/YYYY/MM/DD/report_HHMMSS.{json,txt}.
func WriteReport(dir string, r *model.Report) (jsonPath, txtPath string, err error) {
	now := time.Now()
	dayDir := filepath.Join(dir,
		fmt.Sprintf("%d", now.Year()),
		fmt.Sprintf("%02d", now.Month()),
		fmt.Sprintf("%02d", now.Day()))
	if err := os.MkdirAll(dayDir, 0o755); err != nil {
		return "", "", fmt.Errorf("create report dir: %w", err)
	}

	stamp := now.Format("150405")
	jsonPath = filepath.Join(dayDir, "report_"+stamp+".json")
	txtPath = filepath.Join(dayDir, "report_"+stamp+".txt")

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", "", fmt.Errorf("encode report: %w", err)
	}
	if err := os.WriteFile(jsonPath, data, 0o644); err != nil {
		return "", "", fmt.Errorf("write json report: %w", err)
	}
	if err := os.WriteFile(txtPath, []byte(FormatText(r)), 0o644); err != nil {
		return "", "", fmt.Errorf("write text report: %w", err)
	}
	return jsonPath, txtPath, nil
}

// LatestReportPath walks the year/month/day tree and returns the newest
// JSON report, or an empty string when none exists.
func LatestReportPath(dir string) string {
	years := sortedDirsDesc(dir)
	for _, year := range years {
		for _, month := range sortedDirsDesc(filepath.Join(dir, year)) {
			for _, day := range sortedDirsDesc(filepath.Join(dir, year, month)) {
				dayDir := filepath.Join(dir, year, month, day)
				entries, err := os.ReadDir(dayDir)
				if err != nil {
					continue
				}
				var files []string
				for _, e := range entries {
					if !e.IsDir() && strings.HasSuffix(e.Name(), ".json") {
						files = append(files, e.Name())
					}
				}
				if len(files) > 0 {
					sort.Sort(sort.Reverse(sort.StringSlice(files)))
					return filepath.Join(dayDir, files[0])
				}
			}
		}
	}
	return ""
}

// LoadLatestReport reads the newest saved report back.
func LoadLatestReport(dir string) (*model.Report, error) {
	path := LatestReportPath(dir)
	if path == "" {
		return nil, fmt.Errorf("no saved reports under %s", dir)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read report: %w", err)
	}
	var r model.Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parse report: %w", err)
	}
	return &r, nil
}

func sortedDirsDesc(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(names)))
	return names
}

const (
	lineHeavy = "============================================================"
	lineLight = "────────────────────────────────────────────────────────────"
	lineShort = "────────────────────────────────────────"
)

var sentimentEmoji = map[model.Sentiment]string{
	model.ExtremeGreed: "🟢🟢",
	model.Greed:        "🟢",
	model.NeutralMood:  "⚪",
	model.Fear:         "🔴",
	model.ExtremeFear:  "🔴🔴",
}

var recommendationEmoji = map[model.Recommendation]string{
	model.StrongBuy:  "🟢🟢",
	model.Buy:        "🟢",
	model.Hold:       "⚪",
	model.Sell:       "🔴",
	model.StrongSell: "🔴🔴",
}

var gradeEmoji = map[model.BitgakGrade]string{
	model.BitgakStrong:   "🎯🎯",
	model.BitgakModerate: "🎯",
	model.BitgakNone:     "➖",
}

var actionEmoji = map[string]string{
	"BUY":  "🟢",
	"SELL": "🔴",
	"HOLD": "⚪",
}

// FormatText renders the full Korean text report.
func FormatText(r *model.Report) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s\n", lineHeavy)
	fmt.Fprintf(&b, "       포트폴리오 분석 리포트\n")
	fmt.Fprintf(&b, "%s\n", lineHeavy)
	fmt.Fprintf(&b, "분석 시각: %s\n\n", r.AnalyzedAt)

	writeMarketSection(&b, r.Market)

	for _, h := range r.Holdings {
		writeHoldingSection(&b, h)
	}

	if r.Summary != nil {
		writeSummarySection(&b, r.Summary)
	}

	fmt.Fprintf(&b, "%s\n", lineHeavy)
	fmt.Fprintf(&b, "분석 완료\n")
	return b.String()
}

func writeMarketSection(b *strings.Builder, m *model.MarketSnapshot) {
	if m == nil {
		return
	}
	fmt.Fprintf(b, "%s\n", lineLight)
	fmt.Fprintf(b, "📊 시장 현황\n")
	fmt.Fprintf(b, "%s\n", lineLight)
	if m.HasVIX {
		fmt.Fprintf(b, "  VIX (공포지수): %s %s\n", num(m.VIX), sentimentEmoji[m.Sentiment])
		fmt.Fprintf(b, "  시장 심리: %s\n", m.SentimentDesc)
	}
	if m.HasSPY {
		fmt.Fprintf(b, "  S&P 500 (SPY): $%s (%+.1f%%)\n", num(m.SPY), m.SPYChange)
	}
	if m.HasQQQ {
		fmt.Fprintf(b, "  나스닥 (QQQ): $%s (%+.1f%%)\n", num(m.QQQ), m.QQQChange)
	}
	if m.HasUS10Y {
		fmt.Fprintf(b, "  미국 10년물 금리: %s%%\n", num(m.US10Y))
	}
	fmt.Fprintf(b, "\n")
}

func writeHoldingSection(b *strings.Builder, h *model.Analysis) {
	fmt.Fprintf(b, "%s\n", lineLight)

	fmt.Fprintf(b, "종목: %s (%s)\n", h.Name, h.Symbol)
	if h.IsLeveraged && h.Underlying != "" {
		fmt.Fprintf(b, "  └─ 원본: %s 기준 분석\n", h.Underlying)
	}

	if h.Error != "" {
		fmt.Fprintf(b, "  ⚠️ 분석 실패: %s\n\n", h.Error)
		return
	}

	kr := h.Market == model.MarketKR
	cur := "$"
	if kr {
		cur = "₩"
	}

	if h.LeveragedPrice > 0 {
		fmt.Fprintf(b, "현재가: %s%s (레버리지)\n", cur, money(h.LeveragedPrice, 0))
		fmt.Fprintf(b, "원본가: %s%s (%s)\n", cur, money(h.CurrentPrice, 0), h.Underlying)
	} else {
		fmt.Fprintf(b, "현재가: %s%s\n", cur, moneyFor(h.CurrentPrice, kr))
	}

	if h.High52w > 0 {
		fmt.Fprintf(b, "52주: %s%s ~ %s%s\n", cur, moneyFor(h.Low52w, kr), cur, moneyFor(h.High52w, kr))
		fmt.Fprintf(b, "  └─ 고점 대비: %s%%\n", num(h.FromHigh52w))
	}

	fmt.Fprintf(b, "\n추천: %s %s\n", recommendationEmoji[h.Recommendation], h.Recommendation)
	fmt.Fprintf(b, "점수: %s (매수신호: %d / 매도신호: %d)\n", num(h.Score), h.BuySignals, h.SellSignals)

	writeIndicators(b, h.Indicators)
	writeMomentum(b, h.Momentum)

	if sr := h.SupportResistance; sr != nil {
		fmt.Fprintf(b, "\n지지/저항:\n")
		fmt.Fprintf(b, "  저항선: %s%s (%+.1f%%)\n", cur, moneyFor(sr.Resistance, kr), sr.DistanceToResistance)
		fmt.Fprintf(b, "  지지선: %s%s (%+.1f%%)\n", cur, moneyFor(sr.Support, kr), sr.DistanceToSupport)
	}

	writeBitgak(b, h.Bitgak, cur, kr)
	writeFundamentals(b, h.Fundamentals)

	fmt.Fprintf(b, "\n신호 분석:\n")
	for _, sig := range h.Signals {
		fmt.Fprintf(b, "  %s\n", sig.Text)
	}

	writeStrategy(b, h.Strategy, cur, kr)
	fmt.Fprintf(b, "\n")
}

func writeIndicators(b *strings.Builder, ind map[string]float64) {
	if len(ind) == 0 {
		return
	}
	fmt.Fprintf(b, "\n주요 지표:\n")
	if v, ok := ind["RSI"]; ok {
		fmt.Fprintf(b, "  RSI: %s\n", num(v))
	}
	if v, ok := ind["MACD"]; ok {
		sig := "N/A"
		if s, ok := ind["MACD_Signal"]; ok {
			sig = num(s)
		}
		fmt.Fprintf(b, "  MACD: %s (Signal: %s)\n", num(v), sig)
	}
	if v, ok := ind["MA20"]; ok {
		fmt.Fprintf(b, "  이평선: MA5=%s / MA20=%s\n", num(ind["MA5"]), num(v))
	}
	if v, ok := ind["ATR_pct"]; ok {
		fmt.Fprintf(b, "  변동성(ATR): %s%%\n", num(v))
	}
}

func writeMomentum(b *strings.Builder, m model.Momentum) {
	if m.Return1W == nil && m.Return1M == nil && m.Return3M == nil {
		return
	}
	fmt.Fprintf(b, "\n모멘텀 (수익률):\n")
	if m.Return1W != nil {
		fmt.Fprintf(b, "  1주: %+.1f%%\n", *m.Return1W)
	}
	if m.Return1M != nil {
		fmt.Fprintf(b, "  1개월: %+.1f%%\n", *m.Return1M)
	}
	if m.Return3M != nil {
		fmt.Fprintf(b, "  3개월: %+.1f%%\n", *m.Return3M)
	}
}

func writeBitgak(b *strings.Builder, bg *model.BitgakResult, cur string, kr bool) {
	if bg == nil {
		return
	}
	fmt.Fprintf(b, "\n📐 빗각 분석:\n")
	fmt.Fprintf(b, "  빗각 신호: %s %s (점수: %s)\n", gradeEmoji[bg.Grade], bg.Grade, num(bg.Score))
	fmt.Fprintf(b, "  CSI (군중스트레스): %s%%\n", num(bg.CSI))
	fmt.Fprintf(b, "  VWAP (평균단가): %s%s\n", cur, moneyFor(bg.VWAP20, kr))
	fmt.Fprintf(b, "  누적 VWAP: %s%s\n", cur, moneyFor(bg.VWAP, kr))
	fmt.Fprintf(b, "  매물대 (HVN): %s%s\n", cur, moneyFor(bg.HVNPrice, kr))
	fmt.Fprintf(b, "  매물대 근접도: %s%%\n", num(bg.HVNProximity))

	switch {
	case bg.CSI < -10:
		fmt.Fprintf(b, "  └─ 군중 대부분 손실 중 (공포/존버 구간)\n")
	case bg.CSI > 10:
		fmt.Fprintf(b, "  └─ 군중 대부분 수익 중 (차익실현 압력)\n")
	case bg.CSI >= -5 && bg.CSI <= 2:
		fmt.Fprintf(b, "  └─ 본전 심리 구간 (매수 기회!)\n")
	}
}

func writeFundamentals(b *strings.Builder, f *model.Fundamentals) {
	if f == nil || f.PERatio == nil {
		return
	}
	fmt.Fprintf(b, "\n펀더멘털:\n")
	fmt.Fprintf(b, "  PER: %.1f\n", *f.PERatio)
	if f.PBRatio != nil {
		fmt.Fprintf(b, "  PBR: %.1f\n", *f.PBRatio)
	}
	if f.RevenueGrowth != nil {
		fmt.Fprintf(b, "  매출성장률: %.1f%%\n", *f.RevenueGrowth*100)
	}
	if f.ProfitMargin != nil {
		fmt.Fprintf(b, "  이익률: %.1f%%\n", *f.ProfitMargin*100)
	}
	if f.TargetPrice != nil {
		fmt.Fprintf(b, "  애널리스트 목표가: $%s\n", num(*f.TargetPrice))
	}
	if f.Recommendation != "" {
		fmt.Fprintf(b, "  애널리스트 의견: %s\n", f.Recommendation)
	}
}

func writeStrategy(b *strings.Builder, s *model.TradeStrategy, cur string, kr bool) {
	if s == nil {
		return
	}
	fmt.Fprintf(b, "\n%s\n", lineShort)
	fmt.Fprintf(b, "💰 매매 전략: %s %s (신뢰도: %s)\n", actionEmoji[s.Action], s.Action, s.Confidence)
	fmt.Fprintf(b, "권장 비중: %s\n", s.PositionSize)

	for _, reason := range s.Reasoning {
		fmt.Fprintf(b, "  • %s\n", reason)
	}

	if len(s.EntrySteps) > 0 {
		fmt.Fprintf(b, "\n📥 진입 전략:\n")
		for _, step := range s.EntrySteps {
			fmt.Fprintf(b, "  %s\n", step)
		}
	}
	if len(s.ExitSteps) > 0 {
		fmt.Fprintf(b, "\n📤 청산 전략:\n")
		for _, step := range s.ExitSteps {
			fmt.Fprintf(b, "  %s\n", step)
		}
	}
	if sl := s.StopLoss; sl != nil {
		fmt.Fprintf(b, "\n🛑 손절선: %s%s (%s%%)\n", cur, moneyFor(sl.Price, kr), num(sl.Percentage))
		fmt.Fprintf(b, "  %s\n", sl.Desc)
	}
	if len(s.TakeProfit) > 0 {
		fmt.Fprintf(b, "\n🎯 익절 목표:\n")
		for _, tp := range s.TakeProfit {
			fmt.Fprintf(b, "  %s%s (+%s%%) → %s 매도\n", cur, moneyFor(tp.Price, kr), num(tp.Percentage), tp.SellRatio)
			fmt.Fprintf(b, "    %s\n", tp.Desc)
		}
	}
}

func writeSummarySection(b *strings.Builder, s *model.Summary) {
	fmt.Fprintf(b, "%s\n", lineHeavy)
	fmt.Fprintf(b, "💼 포트폴리오 요약\n")
	fmt.Fprintf(b, "%s\n\n", lineHeavy)

	if len(s.HoldingsDetail) > 0 {
		fmt.Fprintf(b, "📈 보유 종목 현황:\n")
		fmt.Fprintf(b, "%s\n", lineLight)
		fmt.Fprintf(b, "  %-15s %10s %12s %12s %10s\n", "종목", "수량", "평단가", "현재가", "수익률")
		fmt.Fprintf(b, "%s\n", lineLight)

		for _, h := range s.HoldingsDetail {
			kr := h.Market == model.MarketKR
			cur := "$"
			if kr {
				cur = "₩"
			}
			avgStr := cur + moneyFor(h.AvgPrice, kr)
			curStr := cur + moneyFor(h.CurrentPrice, kr)

			pctStr := "N/A"
			if h.AvgPrice > 0 {
				pctStr = fmt.Sprintf("%+.1f%%", h.ProfitPct)
			}
			emoji := "⚪"
			if h.ProfitPct > 0 {
				emoji = "🟢"
			} else if h.ProfitPct < 0 {
				emoji = "🔴"
			}
			fmt.Fprintf(b, "  %-15s %10.4f %12s %12s %s%8s\n",
				h.Symbol, h.Quantity, avgStr, curStr, emoji, pctStr)
		}
		fmt.Fprintf(b, "%s\n\n", lineLight)
	}

	fmt.Fprintf(b, "💰 자산 현황:\n")
	fmt.Fprintf(b, "%s\n", lineLight)
	fmt.Fprintf(b, "  USD 투자 (미국주식+코인): $%12s  (₩%15s)\n",
		money(s.Investments.USD, 2), money(s.Investments.USDInKRW, 0))
	fmt.Fprintf(b, "  KRW 투자 (한국주식):                        ₩%15s\n", money(s.Investments.KRW, 0))
	fmt.Fprintf(b, "%s\n", lineLight)
	fmt.Fprintf(b, "  투자 합계:                                  ₩%15s\n",
		money(s.Investments.USDInKRW+s.Investments.KRW, 0))
	fmt.Fprintf(b, "\n")
	fmt.Fprintf(b, "  현금 (USD): $%12s  (₩%15s)\n",
		money(s.Cash.USD, 2), money(s.Cash.USD*s.ExchangeRate, 0))
	fmt.Fprintf(b, "  현금 (KRW):                                 ₩%15s\n", money(s.Cash.KRW, 0))
	fmt.Fprintf(b, "%s\n", lineLight)
	fmt.Fprintf(b, "  현금 합계:                                  ₩%15s\n", money(s.Cash.TotalInKRW, 0))
	fmt.Fprintf(b, "\n")

	fmt.Fprintf(b, "%s\n", lineHeavy)
	fmt.Fprintf(b, "  📊 오늘 환율: $1 = ₩%s\n", money(s.ExchangeRate, 2))
	fmt.Fprintf(b, "%s\n", lineHeavy)
	fmt.Fprintf(b, "  🏦 총 자산:                                 ₩%15s\n", money(s.TotalKRW, 0))
	fmt.Fprintf(b, "%s\n\n", lineHeavy)
}

// moneyFor renders a KRW amount as a whole number and a USD amount with two
// decimals, both with thousands separators.
func moneyFor(v float64, kr bool) string {
	if kr {
		return money(v, 0)
	}
	return money(v, 2)
}

// money formats with thousands separators in the integer part.
func money(v float64, decimals int) string {
	s := strconv.FormatFloat(v, 'f', decimals, 64)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	intPart, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, frac = s[:i], s[i:]
	}
	if len(intPart) > 3 {
		var parts []string
		for len(intPart) > 3 {
			parts = append([]string{intPart[len(intPart)-3:]}, parts...)
			intPart = intPart[:len(intPart)-3]
		}
		parts = append([]string{intPart}, parts...)
		intPart = strings.Join(parts, ",")
	}
	out := intPart + frac
	if neg {
		out = "-" + out
	}
	return out
}

// num renders a float the way the analysis texts do: shortest decimal form,
// with a trailing .0 on whole numbers.
func num(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}
