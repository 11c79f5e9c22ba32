package collector

import "strings"

// leverageMap maps leveraged ETFs to the underlying ticker whose chart
// actually carries the signal. Analyzing the 2x/3x product itself mostly
// measures decay, not the trend.
var leverageMap = map[string]string{
	// 3x sector ETFs
	"SOXL": "SOXX",
	"SOXS": "SOXX",
	"TQQQ": "QQQ",
	"SQQQ": "QQQ",
	"UPRO": "SPY",
	"SPXU": "SPY",
	"LABU": "XBI",
	"LABD": "XBI",
	"FAS":  "XLF",
	"FAZ":  "XLF",
	"TECL": "XLK",
	"TECS": "XLK",

	// 2x single stock
	"MSTX":   "MSTR",
	"MSTZ":   "MSTR",
	"NVDL":   "NVDA",
	"NVDD":   "NVDA",
	"TSLL":   "TSLA",
	"TSLS":   "TSLA",
	"AAPU":   "AAPL",
	"AAPD":   "AAPL",
	"GOOGL2": "GOOGL",
	"AMZN2":  "AMZN",
	"CONL":   "COIN",
	"CONY":   "COIN",

	// crypto
	"BITX": "BTC-USD",
	"BITU": "BTC-USD",
	"ETHU": "ETH-USD",
}

// Underlying returns the ticker to analyze for a symbol: the mapped
// underlying for leveraged products, the symbol itself otherwise.
func Underlying(symbol string) string {
	if u, ok := leverageMap[strings.ToUpper(symbol)]; ok {
		return u
	}
	return symbol
}

// IsLeveraged reports whether the symbol is a known leveraged product.
func IsLeveraged(symbol string) bool {
	_, ok := leverageMap[strings.ToUpper(symbol)]
	return ok
}
