// Package report turns finished operations into caller-visible state.
//
// An Aggregator is not safe for concurrent use; exactly one goroutine (the
// consumer) applies outcomes to it.
package report

import (
	"fmt"
	"strconv"
	"time"

	"github.com/go-kit/kit/metrics"
	"github.com/rs/zerolog/log"

	"stockanalyzer/internal/stock"
)

// Kind distinguishes the two kinds of operations.
type Kind string

const (
	// KindSingle is a single-ticker search over the record source.
	KindSingle Kind = "single"
	// KindMulti is a multi-ticker batch fetch.
	KindMulti Kind = "multi"
)

// Outcome is a finished operation as handed from a worker to the consumer.
type Outcome struct {
	Kind        Kind
	Query       string
	OperationID string
	Started     time.Time
	Finished    time.Time
	Records     []stock.Record
	Err         error
}

// Elapsed is the wall-clock time between issuing the handle and termination.
func (o Outcome) Elapsed() time.Duration {
	return o.Finished.Sub(o.Started)
}

// Metrics records operation outcomes. Either field may be nil.
type Metrics struct {
	Operations metrics.Counter
	Duration   metrics.Histogram
}

// Aggregator applies outcomes to the sinks.
type Aggregator struct {
	sinks   Sinks
	metrics Metrics

	// latest operation begun per kind
	current map[Kind]string
}

// NewAggregator creates an Aggregator writing to sinks.
func NewAggregator(sinks Sinks, m Metrics) *Aggregator {
	return &Aggregator{
		sinks:   sinks,
		metrics: m,
		current: make(map[Kind]string),
	}
}

// Begin shows the busy indicator for kind and makes opID the current
// operation of that kind.
func (a *Aggregator) Begin(kind Kind, opID string) {
	a.current[kind] = opID
	a.sinks.Progress.Busy(kind)
}

// Note appends a free-text line to the notes.
func (a *Aggregator) Note(text string) {
	a.sinks.Notes.AppendNote(text)
}

// Apply reports a finished operation. On success the records are displayed
// and the status updated; on failure the error text is appended to the
// notes and the display is left as it was. The busy indicator is cleared
// exactly once either way.
//
// An outcome from an operation superseded by a later Begin of the same kind
// leaves the display, status and busy indicator to the newer operation.
// Its error, if any, still reaches the notes.
func (a *Aggregator) Apply(o Outcome) {
	if cur, ok := a.current[o.Kind]; ok && cur != o.OperationID {
		a.applySuperseded(o, cur)
		return
	}

	defer a.sinks.Progress.Idle(o.Kind)
	defer a.record(o)

	if o.Err != nil {
		log.Warn().
			Str("op_id", o.OperationID).
			Str("kind", string(o.Kind)).
			Str("query", o.Query).
			Err(o.Err).
			Msg("operation failed")
		a.sinks.Notes.AppendNote(o.Err.Error())
		return
	}

	a.sinks.Display.Show(o.Records)
	a.sinks.Status.SetStatus(StatusLine(o))

	log.Info().
		Str("op_id", o.OperationID).
		Str("kind", string(o.Kind)).
		Str("query", o.Query).
		Int("records", len(o.Records)).
		Dur("elapsed", o.Elapsed()).
		Msg("operation completed")
}

func (a *Aggregator) applySuperseded(o Outcome, current string) {
	defer a.record(o)

	log.Info().
		Str("op_id", o.OperationID).
		Str("current_op_id", current).
		Str("kind", string(o.Kind)).
		Str("query", o.Query).
		Int("records", len(o.Records)).
		AnErr("error", o.Err).
		Msg("superseded operation finished, result not displayed")
	if o.Err != nil {
		a.sinks.Notes.AppendNote(o.Err.Error())
	}
}

func (a *Aggregator) record(o Outcome) {
	labels := []string{
		"kind", string(o.Kind),
		"error", strconv.FormatBool(o.Err != nil),
	}
	if a.metrics.Operations != nil {
		a.metrics.Operations.With(labels...).Add(1)
	}
	if a.metrics.Duration != nil {
		a.metrics.Duration.With(labels...).Observe(o.Elapsed().Seconds())
	}
}

// StatusLine formats the status shown after a successful operation.
func StatusLine(o Outcome) string {
	return fmt.Sprintf("Loaded stocks for %s in %dms, loaded %d records",
		o.Query, o.Elapsed().Milliseconds(), len(o.Records))
}
