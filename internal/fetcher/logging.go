package fetcher

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"stockanalyzer/internal/stock"
)

// loggingService wraps a Service and logs every fetch
type loggingService struct {
	svc Service
}

// NewLoggingService logs each Fetch call at debug level, or at warn level
// when it fails.
func NewLoggingService(svc Service) Service {
	return &loggingService{svc: svc}
}

func (s *loggingService) Fetch(ctx context.Context, ticker string) (records []stock.Record, err error) {
	defer func(begin time.Time) {
		var ev *zerolog.Event
		if err != nil {
			ev = log.Warn().Err(err).Bool("retryable", IsRetryable(err))
		} else {
			ev = log.Debug().Int("records", len(records))
		}
		ev.Str("ticker", ticker).
			Dur("elapsed", time.Since(begin)).
			Msg("fetch finished")
	}(time.Now())
	return s.svc.Fetch(ctx, ticker)
}
