package portfolio

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/khoon485/toss-stock/internal/analyzer"
	"github.com/khoon485/toss-stock/internal/bitgak"
	"github.com/khoon485/toss-stock/internal/collector"
	"github.com/khoon485/toss-stock/internal/model"
	"github.com/khoon485/toss-stock/internal/strategy"
)

// Manager runs the batch analysis over every portfolio holding.
type Manager struct {
	store        *Store
	fetcher      collector.Fetcher
	historyDays  int
	fallbackRate float64
	log          zerolog.Logger
}

// NewManager wires the batch pipeline. historyDays is how much daily
// history to request per symbol; fallbackRate is the USD/KRW rate used when
// the live quote is unavailable.
func NewManager(store *Store, fetcher collector.Fetcher, historyDays int, fallbackRate float64, log zerolog.Logger) *Manager {
	if fallbackRate == 0 {
		fallbackRate = collector.FallbackUSDKRW
	}
	return &Manager{
		store:        store,
		fetcher:      fetcher,
		historyDays:  historyDays,
		fallbackRate: fallbackRate,
		log:          log,
	}
}

// Run analyzes every holding and assembles the report. A holding that fails
// to fetch or analyze is recorded with its error; the batch keeps going.
func (m *Manager) Run() (*model.Report, error) {
	p, err := m.store.Load()
	if err != nil {
		return nil, err
	}
	holdings := AllHoldings(p)
	if len(holdings) == 0 {
		return nil, fmt.Errorf("portfolio is empty")
	}

	market, err := m.fetcher.FetchMarketSnapshot()
	if err != nil || market == nil {
		m.log.Warn().Err(err).Msg("시장 지표 조회 실패, 중립 가정")
		market = model.NeutralMarket()
	}
	m.log.Info().
		Float64("vix", market.VIX).
		Str("sentiment", string(market.Sentiment)).
		Msg("시장 지표 수집 완료")

	report := &model.Report{
		AnalyzedAt: time.Now().Format(time.RFC3339),
		Market:     market,
	}
	for _, h := range holdings {
		a := m.analyzeHolding(h, market)
		report.Holdings = append(report.Holdings, a)
		if a.Error != "" {
			m.log.Warn().Str("symbol", a.Symbol).Str("error", a.Error).Msg("분석 실패")
			continue
		}
		m.log.Info().
			Str("symbol", a.Symbol).
			Float64("price", a.CurrentPrice).
			Float64("score", a.Score).
			Str("recommendation", string(a.Recommendation)).
			Str("action", a.Strategy.Action).
			Msg("분석 완료")
	}

	sortHoldings(report.Holdings)
	report.Summary = m.buildSummary(report.Holdings, p.Cash)
	return report, nil
}

func (m *Manager) analyzeHolding(h model.Holding, market *model.MarketSnapshot) *model.Analysis {
	symbol := strings.ToUpper(h.Symbol)
	underlying := collector.Underlying(symbol)
	isLeveraged := underlying != symbol

	if isLeveraged {
		m.log.Info().Str("symbol", symbol).Str("underlying", underlying).Msg("레버리지 원본 기준 분석")
	} else {
		m.log.Info().Str("symbol", symbol).Msg("분석 시작")
	}

	fill := func(a *model.Analysis) *model.Analysis {
		a.Symbol = symbol
		a.Name = h.Name
		a.Quantity = h.Quantity
		a.AvgPrice = h.AvgPrice
		a.Market = h.Market
		a.IsLeveraged = isLeveraged
		if isLeveraged {
			a.Underlying = underlying
		}
		return a
	}

	bars, err := m.fetcher.FetchDailyBars(underlying, m.historyDays)
	if err != nil {
		return fill(&model.Analysis{Error: err.Error()})
	}
	if len(bars) < model.MinAnalysisBars {
		return fill(&model.Analysis{Error: "데이터 부족"})
	}

	snap := analyzer.BuildSnapshot(bars)
	rsi := math.NaN()
	if snap.RSI != nil {
		rsi = snap.RSI.Value
	}
	a := fill(analyzer.Evaluate(snap, bitgak.Analyze(bars, rsi)))
	a.Date = bars.Last().Date.Format("2006-01-02")

	if isLeveraged {
		if price, err := m.fetcher.FetchCurrentPrice(symbol); err == nil {
			a.LeveragedPrice = price
		} else {
			m.log.Warn().Err(err).Str("symbol", symbol).Msg("레버리지 현재가 조회 실패")
		}
	}

	if f, err := m.fetcher.FetchFundamentals(underlying); err == nil {
		a.Fundamentals = f
	} else {
		m.log.Warn().Err(err).Str("symbol", underlying).Msg("펀더멘털 조회 실패")
	}

	a.Strategy = strategy.Generate(a, market)
	return a
}

// sortHoldings places held positions before watch-only ones, then orders by
// recommendation urgency.
func sortHoldings(list []*model.Analysis) {
	sort.SliceStable(list, func(i, j int) bool {
		heldI, heldJ := list[i].Quantity > 0, list[j].Quantity > 0
		if heldI != heldJ {
			return heldI
		}
		return model.RecommendationPriority(list[i].Recommendation) <
			model.RecommendationPriority(list[j].Recommendation)
	})
}

// buildSummary totals the portfolio in KRW with exact decimal arithmetic.
// US and crypto positions are valued in USD, KR positions in KRW.
func (m *Manager) buildSummary(holdings []*model.Analysis, cash model.CashBalances) *model.Summary {
	rate, err := m.fetcher.FetchExchangeRate("USD", "KRW")
	if err != nil || rate == 0 {
		m.log.Warn().Err(err).Float64("fallback", m.fallbackRate).Msg("환율 조회 실패, 기본값 사용")
		rate = m.fallbackRate
	}
	decRate := decimal.NewFromFloat(rate)

	summary := &model.Summary{ExchangeRate: rate}
	usd := decimal.Zero
	krw := decimal.Zero

	for _, a := range holdings {
		if a.Quantity <= 0 || a.Error != "" {
			continue
		}
		price := a.CurrentPrice
		if a.LeveragedPrice > 0 {
			price = a.LeveragedPrice
		}
		value := decimal.NewFromFloat(a.Quantity).Mul(decimal.NewFromFloat(price))
		if a.Market == model.MarketKR {
			krw = krw.Add(value)
		} else {
			usd = usd.Add(value)
		}

		profitPct := 0.0
		if a.AvgPrice > 0 {
			profitPct = (price/a.AvgPrice - 1) * 100
		}
		summary.HoldingsDetail = append(summary.HoldingsDetail, model.SummaryHolding{
			Symbol:       a.Symbol,
			Quantity:     a.Quantity,
			AvgPrice:     a.AvgPrice,
			CurrentPrice: price,
			ProfitPct:    profitPct,
			Market:       a.Market,
		})
	}

	usdInKRW := usd.Mul(decRate)
	cashUSD := decimal.NewFromFloat(cash.USD)
	cashKRW := decimal.NewFromFloat(cash.KRW)
	cashTotal := cashUSD.Mul(decRate).Add(cashKRW)
	total := usdInKRW.Add(krw).Add(cashTotal)

	summary.Investments = model.Investments{
		USD:      usd.InexactFloat64(),
		USDInKRW: usdInKRW.InexactFloat64(),
		KRW:      krw.InexactFloat64(),
	}
	summary.Cash = model.CashSummary{
		USD:        cash.USD,
		KRW:        cash.KRW,
		TotalInKRW: cashTotal.InexactFloat64(),
	}
	summary.TotalKRW = total.InexactFloat64()
	return summary
}
