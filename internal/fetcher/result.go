package fetcher

import "stockanalyzer/internal/stock"

// Outcome is the result of fetching a single ticker.
// It's produced by a worker goroutine and consumed whole by the coordinator;
// either Records or Err is meaningful, never both.
type Outcome struct {
	// Ticker is the symbol that was requested
	Ticker string

	// Records holds the ticker's price history in source order
	Records []stock.Record

	// Err is set when the fetch failed. Records must be ignored then.
	Err error
}

// Failed reports whether the fetch produced an error
func (o Outcome) Failed() bool {
	return o.Err != nil
}
