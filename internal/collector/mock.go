package collector

import (
	"fmt"
	"time"

	"github.com/khoon485/toss-stock/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
// Per-symbol overrides win over the generated series.
type MockFetcher struct {
	Price        float64
	Bars         map[string]model.PriceSeries
	Prices       map[string]float64
	Fundamentals map[string]*model.Fundamentals
	Market       *model.MarketSnapshot
	Rate         float64
	FailSymbols  map[string]bool
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchDailyBars(symbol string, days int) (model.PriceSeries, error) {
	if m.FailSymbols[symbol] {
		return nil, fmt.Errorf("mock: %s unavailable", symbol)
	}
	if bars, ok := m.Bars[symbol]; ok {
		return bars, nil
	}
	return generateMockBars(m.basePrice(symbol), days), nil
}

func (m *MockFetcher) FetchCurrentPrice(symbol string) (float64, error) {
	if m.FailSymbols[symbol] {
		return 0, fmt.Errorf("mock: %s unavailable", symbol)
	}
	return m.basePrice(symbol), nil
}

func (m *MockFetcher) FetchFundamentals(symbol string) (*model.Fundamentals, error) {
	if f, ok := m.Fundamentals[symbol]; ok {
		return f, nil
	}
	return &model.Fundamentals{}, nil
}

func (m *MockFetcher) FetchMarketSnapshot() (*model.MarketSnapshot, error) {
	if m.Market != nil {
		return m.Market, nil
	}
	return model.NeutralMarket(), nil
}

func (m *MockFetcher) FetchExchangeRate(_, _ string) (float64, error) {
	if m.Rate != 0 {
		return m.Rate, nil
	}
	return 0, fmt.Errorf("mock: no rate configured")
}

func (m *MockFetcher) basePrice(symbol string) float64 {
	if p, ok := m.Prices[symbol]; ok {
		return p
	}
	if m.Price != 0 {
		return m.Price
	}
	return 100
}

func generateMockBars(basePrice float64, count int) model.PriceSeries {
	bars := make(model.PriceSeries, count)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count/2)*0.001)
		bars[i] = model.PriceBar{
			Date:   time.Now().AddDate(0, 0, -(count - i)),
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000000,
		}
	}
	return bars
}
