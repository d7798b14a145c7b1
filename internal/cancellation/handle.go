package cancellation

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// ErrCancelled is the context cause recorded when a handle is cancelled.
var ErrCancelled = errors.New("operation cancelled")

// errReleased is the context cause recorded when a handle's owner finishes.
var errReleased = errors.New("operation released")

// Handle is the cancellation token owned by one in-flight operation.
// It is either Active or Cancelled; the transition happens at most once.
type Handle struct {
	id        string
	started   time.Time
	ctx       context.Context
	cancel    context.CancelCauseFunc
	cancelled atomic.Bool
}

func newHandle(parent context.Context) *Handle {
	ctx, cancel := context.WithCancelCause(parent)
	return &Handle{
		id:      uuid.NewString(),
		started: time.Now(),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// ID returns a unique identifier used to correlate log lines.
func (h *Handle) ID() string {
	return h.id
}

// Started returns the moment the controller issued the handle.
func (h *Handle) Started() time.Time {
	return h.started
}

// Context is done once the handle is cancelled or released.
// Fetchers that accept a context observe cancellation through it.
func (h *Handle) Context() context.Context {
	return h.ctx
}

// Cancelled reports whether Cancel has been called.
func (h *Handle) Cancelled() bool {
	return h.cancelled.Load()
}

// Cancel moves the handle to Cancelled. Safe to call more than once.
func (h *Handle) Cancel() {
	if h.cancelled.CompareAndSwap(false, true) {
		h.cancel(ErrCancelled)
	}
}

func (h *Handle) release() {
	h.cancel(errReleased)
}
