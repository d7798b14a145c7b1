package coordinator

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrNoTickers is returned when a batch names no tickers.
var ErrNoTickers = errors.New("no tickers requested")

// TimeoutError reports that the batch did not finish before the deadline.
// Every result of the batch is discarded. Pending lists the tickers whose
// fetch had not returned when the deadline fired.
type TimeoutError struct {
	Deadline time.Duration
	Pending  []string
}

// Error implements the error interface
func (e *TimeoutError) Error() string {
	return fmt.Sprintf("timeout: fetching %s did not complete within %s",
		strings.Join(e.Pending, ", "), e.Deadline)
}

// AggregateFetchError reports that one ticker's fetch failed, which fails
// the whole batch.
type AggregateFetchError struct {
	Ticker string
	Err    error
}

// Error implements the error interface
func (e *AggregateFetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.Ticker, e.Err)
}

// Unwrap implements error unwrapping for errors.Is and errors.As
func (e *AggregateFetchError) Unwrap() error {
	return e.Err
}
