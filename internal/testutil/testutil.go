package testutil

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"stockanalyzer/internal/fetcher"
	"stockanalyzer/internal/stock"
)

// MockService is a mock implementation of the fetcher.Service interface for testing
type MockService struct {
	FetchFunc func(ctx context.Context, ticker string) ([]stock.Record, error)

	mu    sync.Mutex
	calls []string
}

// Fetch implements the fetcher.Service interface
func (m *MockService) Fetch(ctx context.Context, ticker string) ([]stock.Record, error) {
	m.mu.Lock()
	m.calls = append(m.calls, ticker)
	m.mu.Unlock()

	if m.FetchFunc != nil {
		return m.FetchFunc(ctx, ticker)
	}
	return nil, nil
}

// Calls returns the tickers Fetch was called with, in call order
func (m *MockService) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

// Response describes how a mock answers for one ticker
type Response struct {
	Records []stock.Record
	Err     error
	Delay   time.Duration
}

// NewMockService creates a mock that answers from a fixed table.
// Unknown tickers fail. A delayed response gives up early when ctx is done.
func NewMockService(responses map[string]Response) *MockService {
	return &MockService{
		FetchFunc: func(ctx context.Context, ticker string) ([]stock.Record, error) {
			resp, ok := responses[ticker]
			if !ok {
				return nil, fmt.Errorf("unknown ticker %s", ticker)
			}
			if resp.Delay > 0 {
				select {
				case <-ctx.Done():
					return nil, ctx.Err()
				case <-time.After(resp.Delay):
				}
			}
			return resp.Records, resp.Err
		},
	}
}

// Records builds n distinct records for ticker; Volume holds the index
func Records(ticker string, n int) []stock.Record {
	base := time.Date(2015, time.January, 2, 9, 30, 0, 0, time.UTC)
	records := make([]stock.Record, n)
	for i := range records {
		records[i] = stock.Record{
			Ticker:        ticker,
			TradeDate:     base.Add(time.Duration(i) * time.Minute),
			Volume:        int64(i),
			Change:        decimal.NewFromFloat(0.5),
			ChangePercent: decimal.NewFromFloat(0.25),
		}
	}
	return records
}

// Compile-time check
var _ fetcher.Service = (*MockService)(nil)
