package notifier

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/khoon485/toss-stock/internal/model"
)

var recommendationEmoji = map[model.Recommendation]string{
	model.StrongBuy:  "🟢🟢",
	model.Buy:        "🟢",
	model.Hold:       "⚪",
	model.Sell:       "🔴",
	model.StrongSell: "🔴🔴",
}

var sentimentEmoji = map[model.Sentiment]string{
	model.ExtremeGreed: "🟢🟢",
	model.Greed:        "🟢",
	model.NeutralMood:  "⚪",
	model.Fear:         "🔴",
	model.ExtremeFear:  "🔴🔴",
}

// FormatBatchSummary renders the short recommendation digest sent after
// each batch run.
func FormatBatchSummary(r *model.Report) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("📊 <b>포트폴리오 분석</b> | %s\n\n", time.Now().Format("2006-01-02")))

	if m := r.Market; m != nil && m.HasVIX {
		b.WriteString(fmt.Sprintf("VIX %s %s (%s)\n", num(m.VIX), sentimentEmoji[m.Sentiment], m.SentimentDesc))
		if m.HasSPY {
			b.WriteString(fmt.Sprintf("SPY $%s (%+.1f%%)\n", num(m.SPY), m.SPYChange))
		}
		b.WriteString("\n")
	}

	for _, h := range r.Holdings {
		if h.Error != "" {
			b.WriteString(fmt.Sprintf("⚠️ %-6s | 분석 실패: %s\n", h.Symbol, h.Error))
			continue
		}
		price := h.CurrentPrice
		if h.LeveragedPrice > 0 {
			price = h.LeveragedPrice
		}
		b.WriteString(fmt.Sprintf("%s %-6s | $%8s | %s (점수: %s)\n",
			recommendationEmoji[h.Recommendation], h.Symbol, num(price), h.Recommendation, num(h.Score)))
		if h.BitgakWarning != "" {
			b.WriteString(fmt.Sprintf("   %s\n", h.BitgakWarning))
		}
	}

	return b.String()
}

func num(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}
