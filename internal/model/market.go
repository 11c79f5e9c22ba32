package model

// Sentiment is the five-bucket market mood derived from the VIX level.
type Sentiment string

const (
	ExtremeGreed Sentiment = "EXTREME_GREED"
	Greed        Sentiment = "GREED"
	NeutralMood  Sentiment = "NEUTRAL"
	Fear         Sentiment = "FEAR"
	ExtremeFear  Sentiment = "EXTREME_FEAR"
)

// ClassifySentiment maps a VIX close to a sentiment bucket and its
// description.
func ClassifySentiment(vix float64) (Sentiment, string) {
	switch {
	case vix < 15:
		return ExtremeGreed, "극도의 탐욕 (시장 과열)"
	case vix < 20:
		return Greed, "탐욕 (안정적 상승)"
	case vix < 25:
		return NeutralMood, "중립"
	case vix < 30:
		return Fear, "공포 (변동성 증가)"
	default:
		return ExtremeFear, "극도의 공포 (매수 기회?)"
	}
}

// MarketSnapshot holds the macro indicators fetched once per batch.
// Missing values keep their Has flag false; Sentiment defaults to NEUTRAL.
type MarketSnapshot struct {
	VIX       float64 `json:"vix,omitempty"`
	VIXChange float64 `json:"vix_change,omitempty"`
	HasVIX    bool    `json:"-"`

	SPY       float64 `json:"spy,omitempty"`
	SPYChange float64 `json:"spy_change,omitempty"`
	HasSPY    bool    `json:"-"`

	QQQ       float64 `json:"qqq,omitempty"`
	QQQChange float64 `json:"qqq_change,omitempty"`
	HasQQQ    bool    `json:"-"`

	US10Y    float64 `json:"us10y,omitempty"`
	HasUS10Y bool    `json:"-"`

	DXY    float64 `json:"dxy,omitempty"`
	HasDXY bool    `json:"-"`

	Sentiment     Sentiment `json:"market_sentiment"`
	SentimentDesc string    `json:"sentiment_desc"`
}

// NeutralMarket is the snapshot used when macro data is unavailable.
func NeutralMarket() *MarketSnapshot {
	s, desc := NeutralMood, "중립"
	return &MarketSnapshot{Sentiment: s, SentimentDesc: desc}
}

// Fundamentals holds point-in-time fundamental metrics. Nil fields were not
// reported by the provider.
type Fundamentals struct {
	MarketCap      *float64 `json:"market_cap,omitempty"`
	PERatio        *float64 `json:"pe_ratio,omitempty"`
	ForwardPE      *float64 `json:"forward_pe,omitempty"`
	PBRatio        *float64 `json:"pb_ratio,omitempty"`
	PSRatio        *float64 `json:"ps_ratio,omitempty"`
	PEGRatio       *float64 `json:"peg_ratio,omitempty"`
	EPS            *float64 `json:"eps,omitempty"`
	RevenueGrowth  *float64 `json:"revenue_growth,omitempty"`
	EarningsGrowth *float64 `json:"earnings_growth,omitempty"`
	ProfitMargin   *float64 `json:"profit_margin,omitempty"`
	ROE            *float64 `json:"roe,omitempty"`
	ROA            *float64 `json:"roa,omitempty"`
	DebtToEquity   *float64 `json:"debt_to_equity,omitempty"`
	CurrentRatio   *float64 `json:"current_ratio,omitempty"`
	DividendYield  *float64 `json:"dividend_yield,omitempty"`
	Beta           *float64 `json:"beta,omitempty"`
	High52w        *float64 `json:"52w_high,omitempty"`
	Low52w         *float64 `json:"52w_low,omitempty"`
	AvgVolume      *float64 `json:"avg_volume,omitempty"`
	ShortRatio     *float64 `json:"short_ratio,omitempty"`
	TargetPrice    *float64 `json:"target_price,omitempty"`
	Recommendation string   `json:"recommendation,omitempty"`
	Sector         string   `json:"sector,omitempty"`
	Industry       string   `json:"industry,omitempty"`
}
