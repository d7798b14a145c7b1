// Package parser converts raw record lines into stock records.
//
// Parsing is all-or-nothing: a single bad line fails the whole call and no
// records are returned.
package parser

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"stockanalyzer/internal/stock"
)

// TimestampLayout is the trade timestamp format, e.g. "1/2/2015 9:30:00 AM".
const TimestampLayout = "1/2/2006 3:04:05 PM"

// Positions of the fields that are used; the rest are skipped.
const (
	fieldTicker        = 0
	fieldTradeDate     = 1
	fieldVolume        = 6
	fieldChange        = 7
	fieldChangePercent = 8
	minFields          = fieldChangePercent + 1
)

const quoteChars = `'"`

var errNegativeVolume = errors.New("volume must not be negative")

// Parse discards the header line and converts every remaining line.
func Parse(lines []string) ([]stock.Record, error) {
	if len(lines) <= 1 {
		return []stock.Record{}, nil
	}

	records := make([]stock.Record, 0, len(lines)-1)
	for _, line := range lines[1:] {
		rec, err := parseLine(line)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

func parseLine(line string) (stock.Record, error) {
	fields := strings.Split(line, ",")
	if len(fields) < minFields {
		return stock.Record{}, &ParseError{
			Line:  line,
			Field: "line",
			Err:   fmt.Errorf("expected at least %d fields, got %d", minFields, len(fields)),
		}
	}
	for i := range fields {
		fields[i] = strings.Trim(fields[i], quoteChars)
	}

	// The meridiem is matched case-insensitively.
	tradeDate, err := time.Parse(TimestampLayout, strings.ToUpper(fields[fieldTradeDate]))
	if err != nil {
		return stock.Record{}, &ParseError{Line: line, Field: "trade date", Err: err}
	}

	volume, err := strconv.ParseInt(fields[fieldVolume], 10, 64)
	if err != nil {
		return stock.Record{}, &ParseError{Line: line, Field: "volume", Err: err}
	}
	if volume < 0 {
		return stock.Record{}, &ParseError{Line: line, Field: "volume", Err: errNegativeVolume}
	}

	change, err := decimal.NewFromString(fields[fieldChange])
	if err != nil {
		return stock.Record{}, &ParseError{Line: line, Field: "change", Err: err}
	}

	changePercent, err := decimal.NewFromString(fields[fieldChangePercent])
	if err != nil {
		return stock.Record{}, &ParseError{Line: line, Field: "change percent", Err: err}
	}

	return stock.Record{
		Ticker:        fields[fieldTicker],
		TradeDate:     tradeDate,
		Volume:        volume,
		Change:        change,
		ChangePercent: changePercent,
	}, nil
}

// Filter keeps the records whose ticker matches, ignoring case.
// No match is a valid, empty result.
func Filter(records []stock.Record, ticker string) []stock.Record {
	want := strings.ToUpper(ticker)

	out := make([]stock.Record, 0)
	for _, r := range records {
		if strings.ToUpper(r.Ticker) == want {
			out = append(out, r)
		}
	}
	return out
}

// ParseAndFilter parses lines and keeps only the given ticker's records.
func ParseAndFilter(lines []string, ticker string) ([]stock.Record, error) {
	records, err := Parse(lines)
	if err != nil {
		return nil, err
	}
	return Filter(records, ticker), nil
}
