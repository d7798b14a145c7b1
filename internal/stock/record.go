package stock

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Record is a single historical price row for one ticker.
// A Record only exists when every field converted from its source text.
type Record struct {
	Ticker        string
	TradeDate     time.Time
	Volume        int64
	Change        decimal.Decimal
	ChangePercent decimal.Decimal
}

// NormalizeTicker trims surrounding whitespace and uppercases a symbol.
func NormalizeTicker(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// SplitTickers splits user input on commas and spaces and uppercases each
// symbol. Empty tokens are dropped; submission order is kept.
func SplitTickers(input string) []string {
	fields := strings.FieldsFunc(input, func(r rune) bool {
		return r == ',' || r == ' '
	})

	tickers := make([]string, 0, len(fields))
	for _, f := range fields {
		if t := NormalizeTicker(f); t != "" {
			tickers = append(tickers, t)
		}
	}
	return tickers
}
