package collector

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/khoon485/toss-stock/internal/calculator"
	"github.com/khoon485/toss-stock/internal/model"
)

// FallbackUSDKRW is used when the exchange rate lookup fails.
const FallbackUSDKRW = 1420.0

// YahooFetcher implements Fetcher using the Yahoo Finance public API.
type YahooFetcher struct {
	Client *http.Client
}

// NewYahooFetcher creates a new Yahoo Finance fetcher.
func NewYahooFetcher(proxyURL string) *YahooFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &YahooFetcher{
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}
}

func (f *YahooFetcher) Name() string { return "yahoo" }

// yahooChart is the response structure from the Yahoo Finance chart API.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []interface{} `json:"open"`
					High   []interface{} `json:"high"`
					Low    []interface{} `json:"low"`
					Close  []interface{} `json:"close"`
					Volume []interface{} `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func toFloat(v interface{}) float64 {
	if v == nil {
		return 0
	}
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	default:
		return 0
	}
}

func (f *YahooFetcher) fetchChart(symbol, interval, rng string) (model.PriceSeries, error) {
	u := fmt.Sprintf("https://query1.finance.yahoo.com/v8/finance/chart/%s?interval=%s&range=%s",
		url.PathEscape(symbol), interval, rng)

	body, err := f.get(u)
	if err != nil {
		return nil, err
	}

	var chart yahooChart
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, fmt.Errorf("yahoo decode: %w", err)
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo api error: %s", chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Timestamp) == 0 {
		return nil, fmt.Errorf("yahoo: no data returned")
	}

	result := chart.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, fmt.Errorf("yahoo: no quote data")
	}
	quote := result.Indicators.Quote[0]
	bars := make(model.PriceSeries, 0, len(result.Timestamp))

	for i, ts := range result.Timestamp {
		o := toFloat(quote.Open[i])
		h := toFloat(quote.High[i])
		l := toFloat(quote.Low[i])
		c := toFloat(quote.Close[i])
		if o == 0 && h == 0 && l == 0 && c == 0 {
			continue // skip null bars (holidays etc.)
		}
		bars = append(bars, model.PriceBar{
			Date:   time.Unix(ts, 0),
			Open:   o,
			High:   h,
			Low:    l,
			Close:  c,
			Volume: toFloat(quote.Volume[i]),
		})
	}

	sort.Slice(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })
	return bars, nil
}

func (f *YahooFetcher) get(u string) ([]byte, error) {
	req, err := http.NewRequest("GET", u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("yahoo fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("yahoo read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("yahoo: status %d, body: %s", resp.StatusCode, string(body))
	}
	return body, nil
}

func (f *YahooFetcher) FetchDailyBars(symbol string, days int) (model.PriceSeries, error) {
	rng := "2y"
	if days <= 30 {
		rng = "1mo"
	} else if days <= 90 {
		rng = "3mo"
	} else if days <= 180 {
		rng = "6mo"
	} else if days <= 365 {
		rng = "1y"
	}
	bars, err := f.fetchChart(symbol, "1d", rng)
	if err != nil {
		return nil, err
	}
	if len(bars) > days {
		bars = bars[len(bars)-days:]
	}
	return bars, nil
}

func (f *YahooFetcher) FetchCurrentPrice(symbol string) (float64, error) {
	bars, err := f.fetchChart(symbol, "1d", "1d")
	if err != nil {
		return 0, err
	}
	if len(bars) == 0 {
		return 0, fmt.Errorf("yahoo: no price data")
	}
	return calculator.Round(bars.Last().Close, 2), nil
}

// yahooSummary is the response structure from the quoteSummary API.
// Numbers arrive wrapped as {"raw": n, "fmt": "..."}.
type yahooSummary struct {
	QuoteSummary struct {
		Result []struct {
			SummaryDetail struct {
				MarketCap      rawValue `json:"marketCap"`
				TrailingPE     rawValue `json:"trailingPE"`
				ForwardPE      rawValue `json:"forwardPE"`
				PriceToSales   rawValue `json:"priceToSalesTrailing12Months"`
				DividendYield  rawValue `json:"dividendYield"`
				Beta           rawValue `json:"beta"`
				FiftyTwoWkHigh rawValue `json:"fiftyTwoWeekHigh"`
				FiftyTwoWkLow  rawValue `json:"fiftyTwoWeekLow"`
				AverageVolume  rawValue `json:"averageVolume"`
			} `json:"summaryDetail"`
			KeyStatistics struct {
				PriceToBook rawValue `json:"priceToBook"`
				PEGRatio    rawValue `json:"pegRatio"`
				TrailingEps rawValue `json:"trailingEps"`
				ShortRatio  rawValue `json:"shortRatio"`
			} `json:"defaultKeyStatistics"`
			FinancialData struct {
				RevenueGrowth     rawValue `json:"revenueGrowth"`
				EarningsGrowth    rawValue `json:"earningsGrowth"`
				ProfitMargins     rawValue `json:"profitMargins"`
				ReturnOnEquity    rawValue `json:"returnOnEquity"`
				ReturnOnAssets    rawValue `json:"returnOnAssets"`
				DebtToEquity      rawValue `json:"debtToEquity"`
				CurrentRatio      rawValue `json:"currentRatio"`
				TargetMeanPrice   rawValue `json:"targetMeanPrice"`
				RecommendationKey string   `json:"recommendationKey"`
			} `json:"financialData"`
			AssetProfile struct {
				Sector   string `json:"sector"`
				Industry string `json:"industry"`
			} `json:"assetProfile"`
		} `json:"result"`
		Error *struct {
			Description string `json:"description"`
		} `json:"error"`
	} `json:"quoteSummary"`
}

type rawValue struct {
	Raw *float64 `json:"raw"`
}

func (f *YahooFetcher) FetchFundamentals(symbol string) (*model.Fundamentals, error) {
	u := fmt.Sprintf("https://query1.finance.yahoo.com/v10/finance/quoteSummary/%s?modules=summaryDetail,defaultKeyStatistics,financialData,assetProfile",
		url.PathEscape(symbol))

	body, err := f.get(u)
	if err != nil {
		return nil, err
	}

	var summary yahooSummary
	if err := json.Unmarshal(body, &summary); err != nil {
		return nil, fmt.Errorf("yahoo decode: %w", err)
	}
	if summary.QuoteSummary.Error != nil {
		return nil, fmt.Errorf("yahoo api error: %s", summary.QuoteSummary.Error.Description)
	}
	if len(summary.QuoteSummary.Result) == 0 {
		return nil, fmt.Errorf("yahoo: no fundamentals returned")
	}

	r := summary.QuoteSummary.Result[0]
	return &model.Fundamentals{
		MarketCap:      r.SummaryDetail.MarketCap.Raw,
		PERatio:        r.SummaryDetail.TrailingPE.Raw,
		ForwardPE:      r.SummaryDetail.ForwardPE.Raw,
		PBRatio:        r.KeyStatistics.PriceToBook.Raw,
		PSRatio:        r.SummaryDetail.PriceToSales.Raw,
		PEGRatio:       r.KeyStatistics.PEGRatio.Raw,
		EPS:            r.KeyStatistics.TrailingEps.Raw,
		RevenueGrowth:  r.FinancialData.RevenueGrowth.Raw,
		EarningsGrowth: r.FinancialData.EarningsGrowth.Raw,
		ProfitMargin:   r.FinancialData.ProfitMargins.Raw,
		ROE:            r.FinancialData.ReturnOnEquity.Raw,
		ROA:            r.FinancialData.ReturnOnAssets.Raw,
		DebtToEquity:   r.FinancialData.DebtToEquity.Raw,
		CurrentRatio:   r.FinancialData.CurrentRatio.Raw,
		DividendYield:  r.SummaryDetail.DividendYield.Raw,
		Beta:           r.SummaryDetail.Beta.Raw,
		High52w:        r.SummaryDetail.FiftyTwoWkHigh.Raw,
		Low52w:         r.SummaryDetail.FiftyTwoWkLow.Raw,
		AvgVolume:      r.SummaryDetail.AverageVolume.Raw,
		ShortRatio:     r.KeyStatistics.ShortRatio.Raw,
		TargetPrice:    r.FinancialData.TargetMeanPrice.Raw,
		Recommendation: r.FinancialData.RecommendationKey,
		Sector:         r.AssetProfile.Sector,
		Industry:       r.AssetProfile.Industry,
	}, nil
}

// FetchMarketSnapshot pulls the macro tickers one by one; a ticker that
// fails just leaves its fields unset.
func (f *YahooFetcher) FetchMarketSnapshot() (*model.MarketSnapshot, error) {
	snap := model.NeutralMarket()

	if last, change, err := f.lastCloseAndChange("^VIX"); err == nil {
		snap.VIX = last
		snap.VIXChange = change
		snap.HasVIX = true
		snap.Sentiment, snap.SentimentDesc = model.ClassifySentiment(last)
	}
	if last, change, err := f.lastCloseAndChange("SPY"); err == nil {
		snap.SPY = last
		snap.SPYChange = change
		snap.HasSPY = true
	}
	if last, change, err := f.lastCloseAndChange("QQQ"); err == nil {
		snap.QQQ = last
		snap.QQQChange = change
		snap.HasQQQ = true
	}
	if last, _, err := f.lastCloseAndChange("^TNX"); err == nil {
		snap.US10Y = last
		snap.HasUS10Y = true
	}
	if last, _, err := f.lastCloseAndChange("DX-Y.NYB"); err == nil {
		snap.DXY = last
		snap.HasDXY = true
	}
	return snap, nil
}

func (f *YahooFetcher) lastCloseAndChange(symbol string) (last, change float64, err error) {
	bars, err := f.fetchChart(symbol, "1d", "5d")
	if err != nil {
		return 0, 0, err
	}
	if len(bars) == 0 {
		return 0, 0, fmt.Errorf("yahoo: no data for %s", symbol)
	}
	last = calculator.Round(bars.Last().Close, 2)
	if len(bars) >= 2 {
		prev := bars[len(bars)-2].Close
		if prev != 0 {
			change = calculator.Round((bars.Last().Close/prev-1)*100, 2)
		}
	}
	return last, change, nil
}

// FetchExchangeRate reads the spot rate from the currency pair chart,
// e.g. USDKRW=X.
func (f *YahooFetcher) FetchExchangeRate(base, target string) (float64, error) {
	bars, err := f.fetchChart(fmt.Sprintf("%s%s=X", base, target), "1d", "1d")
	if err != nil {
		return 0, err
	}
	if len(bars) == 0 {
		return 0, fmt.Errorf("yahoo: no rate data")
	}
	return calculator.Round(bars.Last().Close, 2), nil
}
