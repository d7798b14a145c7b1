package fetcher

import (
	"context"
	"strconv"
	"time"

	"github.com/go-kit/kit/metrics"

	"stockanalyzer/internal/stock"
)

// instrumentingService wraps a Service and records fetch metrics
type instrumentingService struct {
	reqCount    metrics.Counter
	reqDuration metrics.Histogram
	svc         Service
}

// NewInstrumentingService counts fetches and observes their duration in
// seconds, labelled by ticker and whether the fetch failed.
func NewInstrumentingService(reqCount metrics.Counter, reqDuration metrics.Histogram, svc Service) Service {
	return &instrumentingService{
		reqCount:    reqCount,
		reqDuration: reqDuration,
		svc:         svc,
	}
}

func (s *instrumentingService) Fetch(ctx context.Context, ticker string) (records []stock.Record, err error) {
	defer func(begin time.Time) {
		labels := []string{
			"ticker", ticker,
			"error", strconv.FormatBool(err != nil),
		}
		s.reqCount.With(labels...).Add(1)
		s.reqDuration.With(labels...).Observe(time.Since(begin).Seconds())
	}(time.Now())
	return s.svc.Fetch(ctx, ticker)
}
