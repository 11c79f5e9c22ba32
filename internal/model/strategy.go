package model

// StopLoss is a single stop level below the entry.
type StopLoss struct {
	Price      float64 `json:"price"`
	Percentage float64 `json:"percentage"`
	Desc       string  `json:"desc"`
}

// TakeProfit is one rung of the profit-taking ladder.
type TakeProfit struct {
	Price      float64 `json:"price"`
	Percentage float64 `json:"percentage"`
	SellRatio  string  `json:"sell_ratio"`
	Desc       string  `json:"desc"`
}

// TradeStrategy is a concrete position plan derived from an Analysis plus
// the market snapshot: staged entries/exits, stop, targets and sizing.
type TradeStrategy struct {
	Action       string       `json:"action"` // BUY, SELL, HOLD
	Confidence   Confidence   `json:"confidence"`
	PositionSize string       `json:"position_size"`
	EntrySteps   []string     `json:"entry_strategy"`
	ExitSteps    []string     `json:"exit_strategy"`
	StopLoss     *StopLoss    `json:"stop_loss,omitempty"`
	TakeProfit   []TakeProfit `json:"take_profit"`
	Reasoning    []string     `json:"reasoning"`
}
