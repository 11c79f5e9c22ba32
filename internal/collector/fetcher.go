package collector

import "github.com/khoon485/toss-stock/internal/model"

// Fetcher defines the interface for fetching market data.
type Fetcher interface {
	FetchDailyBars(symbol string, days int) (model.PriceSeries, error)
	FetchCurrentPrice(symbol string) (float64, error)
	FetchFundamentals(symbol string) (*model.Fundamentals, error)
	FetchMarketSnapshot() (*model.MarketSnapshot, error)
	FetchExchangeRate(base, target string) (float64, error)
	Name() string
}
