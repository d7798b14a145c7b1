// Package coordinator fetches several tickers concurrently and combines
// them into one batch.
//
// The batch is all-or-nothing: if any ticker fails, or the deadline passes
// before every ticker has completed, no records are returned at all, even
// for tickers that finished.
package coordinator

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"stockanalyzer/internal/fetcher"
	"stockanalyzer/internal/stock"
)

// DefaultDeadline bounds a batch when no deadline is configured.
const DefaultDeadline = 2 * time.Second

// Handle is the cancellation token of the operation running the batch.
type Handle interface {
	ID() string
	Context() context.Context
	Cancel()
}

// Coordinator manages concurrent per-ticker fetches
type Coordinator struct {
	svc      fetcher.Service
	deadline time.Duration
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithDeadline sets the batch deadline. Non-positive values are ignored.
func WithDeadline(d time.Duration) Option {
	return func(c *Coordinator) {
		if d > 0 {
			c.deadline = d
		}
	}
}

// New creates a Coordinator fetching through svc
func New(svc fetcher.Service, opts ...Option) *Coordinator {
	c := &Coordinator{
		svc:      svc,
		deadline: DefaultDeadline,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Deadline returns the configured batch deadline.
func (c *Coordinator) Deadline() time.Duration {
	return c.deadline
}

type fanIn struct {
	outcomes []fetcher.Outcome
	err      error
}

// FetchAll launches one fetch per ticker and races their combined
// completion against the deadline, which starts when FetchAll is called.
//
// If the deadline wins, h is cancelled and a *TimeoutError is returned. If
// any fetch fails first, an *AggregateFetchError is returned. Otherwise the
// records are flattened in ticker order, each ticker's records in the order
// the service returned them.
func (c *Coordinator) FetchAll(h Handle, tickers []string) ([]stock.Record, error) {
	if len(tickers) == 0 {
		return nil, ErrNoTickers
	}

	timer := time.NewTimer(c.deadline)
	defer timer.Stop()

	// Buffered so the fan-in goroutine never blocks after a timeout.
	done := make(chan fanIn, 1)
	returned := make([]atomic.Bool, len(tickers))
	go func() {
		outcomes, err := c.fanOut(h.Context(), tickers, returned)
		done <- fanIn{outcomes: outcomes, err: err}
	}()

	select {
	case res := <-done:
		if res.err != nil {
			return nil, res.err
		}
		return flatten(res.outcomes), nil

	case <-timer.C:
		h.Cancel()
		pending := pendingTickers(tickers, returned)
		log.Warn().
			Str("op_id", h.ID()).
			Strs("pending", pending).
			Dur("deadline", c.deadline).
			Msg("batch deadline elapsed, discarding results")
		return nil, &TimeoutError{Deadline: c.deadline, Pending: pending}
	}
}

// fanOut runs every fetch and waits for all of them. The first failure
// cancels the remaining fetches. returned[i] is set once ticker i's fetch
// has returned or panicked.
func (c *Coordinator) fanOut(ctx context.Context, tickers []string, returned []atomic.Bool) ([]fetcher.Outcome, error) {
	g, gctx := errgroup.WithContext(ctx)

	outcomes := make([]fetcher.Outcome, len(tickers))
	for i, ticker := range tickers {
		i, ticker := i, ticker
		g.Go(func() (err error) {
			defer func() {
				returned[i].Store(true)
				if r := recover(); r != nil {
					err = &AggregateFetchError{Ticker: ticker, Err: fmt.Errorf("fetch panicked: %v", r)}
				}
			}()

			records, err := c.svc.Fetch(gctx, ticker)
			outcomes[i] = fetcher.Outcome{Ticker: ticker, Records: records, Err: err}
			if outcomes[i].Failed() {
				return &AggregateFetchError{Ticker: ticker, Err: err}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return outcomes, nil
}

func pendingTickers(tickers []string, returned []atomic.Bool) []string {
	var pending []string
	for i, ticker := range tickers {
		if !returned[i].Load() {
			pending = append(pending, ticker)
		}
	}
	return pending
}

func flatten(outcomes []fetcher.Outcome) []stock.Record {
	n := 0
	for _, o := range outcomes {
		n += len(o.Records)
	}

	records := make([]stock.Record, 0, n)
	for _, o := range outcomes {
		records = append(records, o.Records...)
	}
	return records
}
