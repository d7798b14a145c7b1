// Package app runs searches on a worker pool and funnels every
// caller-visible update through a single consumer goroutine.
package app

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/pool"

	"stockanalyzer/internal/cancellation"
	"stockanalyzer/internal/coordinator"
	"stockanalyzer/internal/loader"
	"stockanalyzer/internal/parser"
	"stockanalyzer/internal/report"
	"stockanalyzer/internal/stock"
)

// CancellationNote is appended to the notes when a running operation is
// cancelled by the user.
const CancellationNote = "Cancellation requested"

// DefaultWorkers is used when Options.Workers is not positive.
const DefaultWorkers = 4

// Options configures an App.
type Options struct {
	Workers int
}

// event is a message from a trigger or worker to the consumer. Exactly one
// field is set.
type event struct {
	begin   report.Kind
	opID    string
	note    string
	outcome *report.Outcome
}

// App owns the operation slot, the workers and the consumer.
type App struct {
	ctrl   *cancellation.Controller
	loader *loader.Loader
	source loader.Source
	coord  *coordinator.Coordinator
	agg    *report.Aggregator

	workers *pool.Pool
	events  chan event
	done    chan struct{}

	// held while a single search reads the source, so a cancelled reader
	// is closed before its successor opens
	reading sync.Mutex

	// serializes triggers so begin events are queued in handle order
	triggerMu sync.Mutex
	closing   bool

	mu        sync.RWMutex
	closed    bool
	closeOnce sync.Once
}

// New creates an App and starts its consumer. Close must be called to
// stop it.
func New(
	ctrl *cancellation.Controller,
	l *loader.Loader,
	src loader.Source,
	coord *coordinator.Coordinator,
	agg *report.Aggregator,
	opts Options,
) *App {
	if opts.Workers <= 0 {
		opts.Workers = DefaultWorkers
	}

	a := &App{
		ctrl:    ctrl,
		loader:  l,
		source:  src,
		coord:   coord,
		agg:     agg,
		workers: pool.New().WithMaxGoroutines(opts.Workers),
		events:  make(chan event, 16),
		done:    make(chan struct{}),
	}
	go a.consume()
	return a
}

// Search toggles a single-ticker search over the record source. If an
// operation is running it is cancelled instead and Search returns false.
// Search also returns false once Close has been called.
func (a *App) Search(ticker string) bool {
	return a.trigger(report.KindSingle, ticker, func(h *cancellation.Handle) ([]stock.Record, error) {
		lines, err := a.load(h)
		if err != nil {
			return nil, err
		}
		return parser.ParseAndFilter(lines, ticker)
	})
}

// SearchMulti toggles a batch fetch for the comma or space separated
// tickers in input. If an operation is running it is cancelled instead and
// SearchMulti returns false. SearchMulti also returns false once Close has
// been called.
func (a *App) SearchMulti(input string) bool {
	return a.trigger(report.KindMulti, input, func(h *cancellation.Handle) ([]stock.Record, error) {
		return a.coord.FetchAll(h, stock.SplitTickers(input))
	})
}

func (a *App) trigger(kind report.Kind, query string, op func(*cancellation.Handle) ([]stock.Record, error)) bool {
	a.triggerMu.Lock()
	defer a.triggerMu.Unlock()
	if a.closing {
		log.Warn().Str("kind", string(kind)).Str("query", query).Msg("search requested after close, ignoring")
		return false
	}

	h, ok := a.ctrl.Start()
	if !ok {
		a.publish(event{note: CancellationNote})
		return false
	}

	a.publish(event{begin: kind, opID: h.ID()})
	a.workers.Go(func() {
		a.run(h, kind, query, func() ([]stock.Record, error) { return op(h) })
	})
	return true
}

func (a *App) load(h *cancellation.Handle) ([]string, error) {
	a.reading.Lock()
	defer a.reading.Unlock()
	return a.loader.Load(h, a.source)
}

// Cancel cancels the running operation, if any.
func (a *App) Cancel() bool {
	if !a.ctrl.Cancel() {
		return false
	}
	a.publish(event{note: CancellationNote})
	return true
}

// Busy reports whether an operation is running.
func (a *App) Busy() bool {
	return a.ctrl.Active()
}

// Close stops accepting searches, waits for running operations, drains
// pending updates and stops the consumer.
func (a *App) Close() {
	a.closeOnce.Do(func() {
		a.triggerMu.Lock()
		a.closing = true
		a.triggerMu.Unlock()

		a.workers.Wait()

		a.mu.Lock()
		a.closed = true
		close(a.events)
		a.mu.Unlock()
	})
	<-a.done
}

// run executes op on a worker and hands its outcome to the consumer. The
// handle is released and the outcome published on every path, including a
// panic inside op.
func (a *App) run(h *cancellation.Handle, kind report.Kind, query string, op func() ([]stock.Record, error)) {
	out := report.Outcome{
		Kind:        kind,
		Query:       query,
		OperationID: h.ID(),
		Started:     h.Started(),
	}

	defer func() {
		if r := recover(); r != nil {
			out.Records = nil
			out.Err = fmt.Errorf("%s search for %s panicked: %v", kind, query, r)
		}
		out.Finished = time.Now()
		a.ctrl.Release(h)
		a.publish(event{outcome: &out})
	}()

	log.Debug().Str("op_id", h.ID()).Str("kind", string(kind)).Str("query", query).Msg("operation running")
	out.Records, out.Err = op()
}

func (a *App) publish(ev event) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.closed {
		log.Warn().Msg("update published after close, dropping")
		return
	}
	a.events <- ev
}

// consume is the only goroutine that touches the sinks.
func (a *App) consume() {
	defer close(a.done)
	for ev := range a.events {
		a.apply(ev)
	}
}

func (a *App) apply(ev event) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("sink panicked while applying update")
		}
	}()

	switch {
	case ev.outcome != nil:
		a.agg.Apply(*ev.outcome)
	case ev.begin != "":
		a.agg.Begin(ev.begin, ev.opID)
	case ev.note != "":
		a.agg.Note(ev.note)
	}
}
