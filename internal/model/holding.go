package model

import "time"

// Market segments a holding can belong to.
const (
	MarketUS     = "us"
	MarketKR     = "kr"
	MarketCrypto = "crypto"
)

// Holding is one portfolio position as stored in portfolio.json.
type Holding struct {
	Symbol   string  `json:"symbol"`
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	AvgPrice float64 `json:"avg_price,omitempty"`
	Market   string  `json:"market,omitempty"`
}

// CashBalances is optional idle cash tracked alongside the holdings.
type CashBalances struct {
	USD float64 `json:"usd"`
	KRW float64 `json:"krw"`
}

// Portfolio is the on-disk portfolio document. Holdings are grouped by
// market segment.
type Portfolio struct {
	Holdings  map[string][]Holding `json:"holdings"`
	Cash      CashBalances         `json:"cash"`
	UpdatedAt time.Time            `json:"updated_at"`
}

// SummaryHolding is one row of the portfolio summary table.
type SummaryHolding struct {
	Symbol       string  `json:"symbol"`
	Quantity     float64 `json:"quantity"`
	AvgPrice     float64 `json:"avg_price"`
	CurrentPrice float64 `json:"current_price"`
	ProfitPct    float64 `json:"profit_pct"`
	Market       string  `json:"market"`
}

// Investments holds per-currency position totals.
type Investments struct {
	USD      float64 `json:"usd"`
	USDInKRW float64 `json:"usd_in_krw"`
	KRW      float64 `json:"krw"`
}

// CashSummary holds cash balances with the KRW-converted total.
type CashSummary struct {
	USD        float64 `json:"usd"`
	KRW        float64 `json:"krw"`
	TotalInKRW float64 `json:"total_in_krw"`
}

// Summary aggregates the whole portfolio in KRW terms.
type Summary struct {
	ExchangeRate   float64          `json:"exchange_rate"`
	HoldingsDetail []SummaryHolding `json:"holdings_detail"`
	Investments    Investments      `json:"investments"`
	Cash           CashSummary      `json:"cash"`
	TotalKRW       float64          `json:"total_krw"`
}

// Report is the batch result serialized to data/reports.
type Report struct {
	AnalyzedAt string          `json:"analyzed_at"`
	Market     *MarketSnapshot `json:"market"`
	Holdings   []*Analysis     `json:"holdings"`
	Summary    *Summary        `json:"summary,omitempty"`
}
