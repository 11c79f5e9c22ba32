package portfolio

import (
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/khoon485/toss-stock/internal/collector"
	"github.com/khoon485/toss-stock/internal/model"
)

func trendingBars(n int) model.PriceSeries {
	bars := make(model.PriceSeries, n)
	start := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		p := 100 + 0.2*float64(i) + 2*math.Sin(float64(i)/5)
		bars[i] = model.PriceBar{
			Date:   start.AddDate(0, 0, i),
			Open:   p - 0.3,
			High:   p + 1,
			Low:    p - 1,
			Close:  p,
			Volume: 1_000_000,
		}
	}
	return bars
}

func testManager(t *testing.T, p *model.Portfolio, fetcher collector.Fetcher) *Manager {
	t.Helper()
	store := NewStore(filepath.Join(t.TempDir(), "portfolio.json"))
	if err := store.Save(p); err != nil {
		t.Fatalf("Save: %v", err)
	}
	return NewManager(store, fetcher, 365, 1420, zerolog.Nop())
}

func TestManagerRunBatch(t *testing.T) {
	p := &model.Portfolio{
		Holdings: map[string][]model.Holding{
			model.MarketUS: {
				{Symbol: "AAPL", Name: "애플", Quantity: 2, AvgPrice: 100},
				{Symbol: "TQQQ", Name: "TQQQ", Quantity: 1},
				{Symbol: "NVDA", Name: "엔비디아"},
			},
			model.MarketKR: {
				{Symbol: "005930.KS", Name: "삼성전자", Quantity: 10, AvgPrice: 120},
			},
		},
		Cash: model.CashBalances{USD: 100, KRW: 50000},
	}
	fetcher := &collector.MockFetcher{
		Bars: map[string]model.PriceSeries{
			"AAPL":      trendingBars(300),
			"QQQ":       trendingBars(300),
			"005930.KS": trendingBars(300),
		},
		Prices:      map[string]float64{"TQQQ": 55.5},
		Rate:        1400,
		FailSymbols: map[string]bool{"NVDA": true},
		Market: &model.MarketSnapshot{
			VIX: 22, HasVIX: true,
			Sentiment: model.NeutralMood, SentimentDesc: "중립",
		},
	}

	report, err := testManager(t, p, fetcher).Run()
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(report.Holdings) != 4 {
		t.Fatalf("got %d holdings, want 4", len(report.Holdings))
	}

	bysym := map[string]*model.Analysis{}
	for _, a := range report.Holdings {
		bysym[a.Symbol] = a
	}

	aapl := bysym["AAPL"]
	if aapl.Error != "" {
		t.Fatalf("AAPL error: %s", aapl.Error)
	}
	if aapl.Strategy == nil || aapl.Date == "" || len(aapl.Signals) == 0 {
		t.Error("AAPL analysis is incomplete")
	}
	if aapl.Fundamentals == nil {
		t.Error("AAPL fundamentals missing")
	}

	tqqq := bysym["TQQQ"]
	if !tqqq.IsLeveraged || tqqq.Underlying != "QQQ" {
		t.Errorf("TQQQ leverage resolution = %v/%s", tqqq.IsLeveraged, tqqq.Underlying)
	}
	if tqqq.LeveragedPrice != 55.5 {
		t.Errorf("TQQQ leveraged price = %v, want 55.5", tqqq.LeveragedPrice)
	}

	nvda := bysym["NVDA"]
	if nvda.Error == "" {
		t.Error("expected NVDA to carry a fetch error")
	}
	if last := report.Holdings[len(report.Holdings)-1]; last.Symbol != "NVDA" {
		t.Errorf("watch-only failed holding should sort last, got %s", last.Symbol)
	}

	s := report.Summary
	if s == nil {
		t.Fatal("summary missing")
	}
	if s.ExchangeRate != 1400 {
		t.Errorf("exchange rate = %v, want 1400", s.ExchangeRate)
	}
	wantUSD := 2*aapl.CurrentPrice + 1*55.5
	if math.Abs(s.Investments.USD-wantUSD) > 1e-9 {
		t.Errorf("usd investments = %v, want %v", s.Investments.USD, wantUSD)
	}
	kr := bysym["005930.KS"]
	if math.Abs(s.Investments.KRW-10*kr.CurrentPrice) > 1e-9 {
		t.Errorf("krw investments = %v, want %v", s.Investments.KRW, 10*kr.CurrentPrice)
	}
	if math.Abs(s.Cash.TotalInKRW-(100*1400+50000)) > 1e-9 {
		t.Errorf("cash total = %v, want 190000", s.Cash.TotalInKRW)
	}
	wantTotal := s.Investments.USDInKRW + s.Investments.KRW + s.Cash.TotalInKRW
	if math.Abs(s.TotalKRW-wantTotal) > 1e-6 {
		t.Errorf("total = %v, want %v", s.TotalKRW, wantTotal)
	}

	// NVDA has no position and failed, so it contributes nothing
	if len(s.HoldingsDetail) != 3 {
		t.Errorf("holdings detail rows = %d, want 3", len(s.HoldingsDetail))
	}
	for _, h := range s.HoldingsDetail {
		if h.Symbol == "AAPL" {
			want := (aapl.CurrentPrice/100 - 1) * 100
			if math.Abs(h.ProfitPct-want) > 1e-9 {
				t.Errorf("AAPL profit pct = %v, want %v", h.ProfitPct, want)
			}
		}
	}
}

func TestManagerRunShortHistory(t *testing.T) {
	p := &model.Portfolio{Holdings: map[string][]model.Holding{
		model.MarketUS: {{Symbol: "AAPL", Quantity: 1}},
	}}
	fetcher := &collector.MockFetcher{
		Bars: map[string]model.PriceSeries{"AAPL": trendingBars(30)},
	}

	report, err := testManager(t, p, fetcher).Run()
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := report.Holdings[0].Error; got != "데이터 부족" {
		t.Errorf("error = %q, want 데이터 부족", got)
	}
}

func TestManagerRunEmptyPortfolio(t *testing.T) {
	p := &model.Portfolio{Holdings: map[string][]model.Holding{}}
	_, err := testManager(t, p, &collector.MockFetcher{}).Run()
	if err == nil {
		t.Fatal("expected an error for an empty portfolio")
	}
}

func TestManagerRunMarketFallback(t *testing.T) {
	p := &model.Portfolio{Holdings: map[string][]model.Holding{
		model.MarketUS: {{Symbol: "AAPL", Quantity: 1}},
	}}
	fetcher := &collector.MockFetcher{
		Bars: map[string]model.PriceSeries{"AAPL": trendingBars(300)},
	}

	report, err := testManager(t, p, fetcher).Run()
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if report.Market.Sentiment != model.NeutralMood {
		t.Errorf("sentiment = %s, want NEUTRAL", report.Market.Sentiment)
	}
	// no configured rate: summary falls back to the constructor default
	if report.Summary.ExchangeRate != 1420 {
		t.Errorf("fallback rate = %v, want 1420", report.Summary.ExchangeRate)
	}
}

func TestSortHoldings(t *testing.T) {
	list := []*model.Analysis{
		{Symbol: "W1", Recommendation: model.StrongBuy},
		{Symbol: "H1", Quantity: 1, Recommendation: model.Hold},
		{Symbol: "H2", Quantity: 2, Recommendation: model.StrongSell},
		{Symbol: "H3", Quantity: 3, Recommendation: model.Buy},
	}
	sortHoldings(list)

	want := []string{"H2", "H3", "H1", "W1"}
	for i, sym := range want {
		if list[i].Symbol != sym {
			t.Errorf("position %d = %s, want %s", i, list[i].Symbol, sym)
		}
	}
}
