package fetcher

import (
	"context"

	"stockanalyzer/internal/stock"
)

// Service is the capability that retrieves one ticker's price records.
// Implementations must be safe for concurrent use: the coordinator calls
// Fetch once per requested ticker, all at the same time.
type Service interface {
	// Fetch returns the ticker's records in source order, or an error.
	// The records must be complete; a partial result is reported as an error.
	Fetch(ctx context.Context, ticker string) ([]stock.Record, error)
}

// ServiceFunc adapts a function to the Service interface.
type ServiceFunc func(ctx context.Context, ticker string) ([]stock.Record, error)

// Fetch implements the Service interface
func (f ServiceFunc) Fetch(ctx context.Context, ticker string) ([]stock.Record, error) {
	return f(ctx, ticker)
}
