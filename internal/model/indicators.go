package model

// IndicatorSnapshot holds every derived value at the latest bar, plus the
// previous bar's value where crossover detection needs it. A nil sub-struct
// means the series was too short for that indicator's window.
type IndicatorSnapshot struct {
	Close     float64
	PrevClose float64

	MA        *MASnapshot        `json:"ma,omitempty"`
	Ichimoku  *IchimokuSnapshot  `json:"ichimoku,omitempty"`
	RSI       *RSISnapshot       `json:"rsi,omitempty"`
	MACD      *MACDSnapshot      `json:"macd,omitempty"`
	Bollinger *BollingerSnapshot `json:"bollinger,omitempty"`
	ATR       *ATRSnapshot       `json:"atr,omitempty"`
	Volume    *VolumeSnapshot    `json:"volume,omitempty"`

	High52w     float64 `json:"high_52w"`
	Low52w      float64 `json:"low_52w"`
	FromHigh52w float64 `json:"from_high_52w"`
	FromLow52w  float64 `json:"from_low_52w"`

	Momentum          Momentum           `json:"momentum"`
	SupportResistance *SupportResistance `json:"support_resistance,omitempty"`
	Patterns          []CandlePattern    `json:"candle_patterns,omitempty"`
}

// MASnapshot holds simple moving averages at the latest and previous bar.
type MASnapshot struct {
	MA5      float64  `json:"ma5"`
	MA20     float64  `json:"ma20"`
	MA60     *float64 `json:"ma60,omitempty"`
	PrevMA5  float64  `json:"-"`
	PrevMA20 float64  `json:"-"`
}

// IchimokuSnapshot holds Ichimoku cloud components. The leading spans are
// shifted 26 bars forward, so they need longer history than the base lines;
// the lagging span is shifted 26 bars back and is never defined at the
// latest bar, so it is not carried here.
type IchimokuSnapshot struct {
	Tenkan     float64  `json:"tenkan"`
	Kijun      float64  `json:"kijun"`
	SpanA      *float64 `json:"span_a,omitempty"`
	SpanB      *float64 `json:"span_b,omitempty"`
	PrevTenkan float64  `json:"-"`
	PrevKijun  float64  `json:"-"`
}

// RSISnapshot holds the 14-period RSI at the latest bar.
type RSISnapshot struct {
	Value float64 `json:"value"`
}

// MACDSnapshot holds MACD line, signal line and histogram.
type MACDSnapshot struct {
	MACD       float64 `json:"macd"`
	Signal     float64 `json:"signal"`
	Histogram  float64 `json:"histogram"`
	PrevMACD   float64 `json:"-"`
	PrevSignal float64 `json:"-"`
	PrevHist   float64 `json:"-"`
}

// BollingerSnapshot holds the 20-period, 2-sigma Bollinger bands.
type BollingerSnapshot struct {
	Middle float64 `json:"middle"`
	Upper  float64 `json:"upper"`
	Lower  float64 `json:"lower"`
	Width  float64 `json:"width"`
}

// ATRSnapshot holds the 14-period average true range.
type ATRSnapshot struct {
	ATR float64 `json:"atr"`
	Pct float64 `json:"pct"`
}

// VolumeSnapshot holds the latest volume relative to its 20-period average.
type VolumeSnapshot struct {
	MA20  float64 `json:"ma20"`
	Ratio float64 `json:"ratio"`
}

// Momentum holds trailing returns in percent. A nil field means the series
// is shorter than that window.
type Momentum struct {
	Return1W *float64 `json:"return_1w,omitempty"`
	Return1M *float64 `json:"return_1m,omitempty"`
	Return3M *float64 `json:"return_3m,omitempty"`
	Return6M *float64 `json:"return_6m,omitempty"`
	Return1Y *float64 `json:"return_1y,omitempty"`
}

// SupportResistance holds the 20-bar extremes and classic pivot levels.
type SupportResistance struct {
	Resistance           float64 `json:"resistance"`
	Support              float64 `json:"support"`
	Pivot                float64 `json:"pivot"`
	R1                   float64 `json:"r1"`
	S1                   float64 `json:"s1"`
	DistanceToResistance float64 `json:"distance_to_resistance"`
	DistanceToSupport    float64 `json:"distance_to_support"`
}

// CandlePattern is one detected candlestick pattern. Score is the pattern's
// contribution to the composite score; Polarity is how the pattern counts
// in the buy/sell signal tally, which intentionally differs for patterns
// whose display text carries no directional marker.
type CandlePattern struct {
	Code     string   `json:"code"`
	Text     string   `json:"text"`
	Score    float64  `json:"-"`
	Polarity Polarity `json:"-"`
}
