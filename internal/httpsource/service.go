// Package httpsource fetches a ticker's price history from an HTTP record
// endpoint that serves the same CSV layout as the record file.
package httpsource

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"resty.dev/v3"

	"stockanalyzer/internal/fetcher"
	"stockanalyzer/internal/parser"
	"stockanalyzer/internal/ratelimit"
	"stockanalyzer/internal/stock"
)

// historyFunction is the endpoint function that returns CSV price history.
const historyFunction = "PRICE_HISTORY"

// Service fetches records over HTTP
type Service struct {
	apiKey  string
	client  *resty.Client
	limiter *ratelimit.Limiter
}

// Options configures a Service
type Options struct {
	BaseURL    string
	APIKey     string
	RetryCount int
	Limiter    *ratelimit.Limiter
}

// New creates an HTTP record service
func New(opts Options) *Service {
	limiter := opts.Limiter
	if limiter == nil {
		limiter = ratelimit.Unlimited()
	}

	return &Service{
		apiKey:  opts.APIKey,
		client:  fetcher.NewHTTPClient(opts.BaseURL, opts.RetryCount),
		limiter: limiter,
	}
}

// Close releases the underlying HTTP client
func (s *Service) Close() error {
	return s.client.Close()
}

// Fetch retrieves the ticker's price history and keeps only rows for that
// ticker. Failures are reported as *fetcher.FetchError.
func (s *Service) Fetch(ctx context.Context, ticker string) ([]stock.Record, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, &fetcher.FetchError{
			Type:      fetcher.ErrorTypeRateLimit,
			Retryable: true,
			Message:   "gave up waiting for the rate limiter",
			Cause:     err,
		}
	}

	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"apikey":   s.apiKey,
			"function": historyFunction,
			"symbol":   ticker,
		}).
		Get("")

	if err != nil {
		return nil, classifyTransportError(ctx, err)
	}

	if !resp.IsSuccess() {
		return nil, fetcher.ClassifyHTTPError(resp.StatusCode())
	}

	body := strings.TrimRight(resp.String(), "\r\n")
	if body == "" {
		return nil, fetcher.NewValidationError(fmt.Sprintf("empty response for %s", ticker), nil)
	}

	lines := strings.Split(body, "\n")
	for i := range lines {
		lines[i] = strings.TrimSuffix(lines[i], "\r")
	}

	records, err := parser.ParseAndFilter(lines, ticker)
	if err != nil {
		return nil, fetcher.NewValidationError(fmt.Sprintf("records for %s could not be parsed", ticker), err)
	}
	return records, nil
}

func classifyTransportError(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return fetcher.NewTimeoutError(err)
	}
	return fetcher.NewNetworkError(err)
}
