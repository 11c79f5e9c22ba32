package model

// Polarity is how a signal counts in the buy/sell tally that feeds the
// confidence filter. It is carried as data instead of being re-parsed from
// the display text, so a signal can score without being tallied (momentum
// warnings) or be tallied without scoring (MACD histogram direction).
type Polarity int

const (
	Bearish Polarity = -1
	Neutral Polarity = 0
	Bullish Polarity = 1
)

// Signal categories, used for grouping in reports.
const (
	CategoryVolume     = "volume"
	CategoryMA         = "ma"
	CategoryIchimoku   = "ichimoku"
	CategoryRSI        = "rsi"
	CategoryMACD       = "macd"
	CategoryBollinger  = "bollinger"
	Category52Week     = "52week"
	CategoryMomentum   = "momentum"
	CategoryVolatility = "volatility"
	CategoryCandle     = "candle"
	CategoryBitgak     = "bitgak"
	CategoryCombo      = "combo"
	CategoryFinal      = "final"
)

// Signal is one human-readable analysis note with its tally polarity.
type Signal struct {
	Text     string   `json:"text"`
	Polarity Polarity `json:"polarity"`
	Category string   `json:"category"`
}

// Recommendation is the five-level final call.
type Recommendation string

const (
	StrongBuy  Recommendation = "STRONG_BUY"
	Buy        Recommendation = "BUY"
	Hold       Recommendation = "HOLD"
	Sell       Recommendation = "SELL"
	StrongSell Recommendation = "STRONG_SELL"
)

// Confidence expresses how one-sided the tallied signals are.
type Confidence string

const (
	ConfidenceLow    Confidence = "LOW"
	ConfidenceMedium Confidence = "MEDIUM"
	ConfidenceHigh   Confidence = "HIGH"
)

// BitgakGrade classifies the crowd-positioning sub-score.
type BitgakGrade string

const (
	BitgakStrong   BitgakGrade = "STRONG"
	BitgakModerate BitgakGrade = "MODERATE"
	BitgakNone     BitgakGrade = "NONE"
)

// BitgakResult is the crowd-positioning module's output: VWAP-based crowd
// stress, the high-volume price node, and a 0~3 sub-score with grade.
type BitgakResult struct {
	Score        float64     `json:"score"`
	Grade        BitgakGrade `json:"grade"`
	Signals      []Signal    `json:"signals"`
	CSI          float64     `json:"csi"`
	VWAP         float64     `json:"vwap"`
	VWAP20       float64     `json:"vwap_20"`
	HVNPrice     float64     `json:"hvn_price"`
	HVNProximity float64     `json:"hvn_proximity"`
	LineTouched  bool        `json:"line_touched"`
	LineCount    int         `json:"bitgak_lines"`
}

// Analysis is the full per-symbol result: the signal set, indicator values,
// crowd positioning, fundamentals and the derived trade strategy.
type Analysis struct {
	Symbol         string  `json:"symbol"`
	Underlying     string  `json:"underlying,omitempty"`
	Name           string  `json:"name,omitempty"`
	Market         string  `json:"market,omitempty"`
	Quantity       float64 `json:"quantity"`
	AvgPrice       float64 `json:"avg_price,omitempty"`
	IsLeveraged    bool    `json:"is_leveraged"`
	LeveragedPrice float64 `json:"leveraged_price,omitempty"`

	CurrentPrice float64 `json:"current_price"`
	Date         string  `json:"date"`
	High52w      float64 `json:"high_52w"`
	Low52w       float64 `json:"low_52w"`
	FromHigh52w  float64 `json:"from_high_52w"`
	FromLow52w   float64 `json:"from_low_52w"`

	Indicators        map[string]float64 `json:"indicators"`
	Signals           []Signal           `json:"signals"`
	SupportResistance *SupportResistance `json:"support_resistance,omitempty"`
	Momentum          Momentum           `json:"momentum"`
	CandlePatterns    []CandlePattern    `json:"candle_patterns,omitempty"`

	Score          float64        `json:"score"`
	ComboBonus     float64        `json:"combo_bonus"`
	BuySignals     int            `json:"buy_signals"`
	SellSignals    int            `json:"sell_signals"`
	Confidence     Confidence     `json:"confidence"`
	Recommendation Recommendation `json:"recommendation"`

	Bitgak        *BitgakResult `json:"bitgak,omitempty"`
	BitgakWarning string        `json:"bitgak_warning,omitempty"`

	Fundamentals *Fundamentals  `json:"fundamentals,omitempty"`
	Strategy     *TradeStrategy `json:"strategy,omitempty"`

	Error string `json:"error,omitempty"`
}

// RecommendationPriority orders recommendations for report display.
// STRONG_SELL outranks BUY on purpose: an urgent exit is worth surfacing
// before a routine entry.
func RecommendationPriority(r Recommendation) int {
	switch r {
	case StrongBuy:
		return 0
	case StrongSell:
		return 1
	case Buy:
		return 2
	case Sell:
		return 3
	default:
		return 4
	}
}
