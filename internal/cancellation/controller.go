// Package cancellation owns the single in-flight operation slot.
//
// Starting while an operation is active cancels that operation instead of
// starting another one. The operation that owns a handle must call Release
// on every exit path.
package cancellation

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
)

// Controller holds at most one live Handle.
type Controller struct {
	mu     sync.Mutex
	parent context.Context
	slot   *Handle
}

// NewController creates a controller whose handles derive from parent.
// Cancelling parent cancels every handle's context.
func NewController(parent context.Context) *Controller {
	if parent == nil {
		parent = context.Background()
	}
	return &Controller{parent: parent}
}

// Start issues a new handle. If an active handle occupies the slot it is
// cancelled, the slot is cleared and Start returns (nil, false).
func (c *Controller) Start() (*Handle, bool) {
	c.mu.Lock()
	if c.slot != nil && !c.slot.Cancelled() {
		prev := c.slot
		c.slot = nil
		c.mu.Unlock()

		prev.Cancel()
		log.Debug().Str("op_id", prev.ID()).Msg("toggle cancelled running operation")
		return nil, false
	}

	h := newHandle(c.parent)
	c.slot = h
	c.mu.Unlock()

	log.Debug().Str("op_id", h.ID()).Msg("operation started")
	return h, true
}

// Cancel cancels the current handle, if any. It reports whether the slot
// held a handle.
func (c *Controller) Cancel() bool {
	c.mu.Lock()
	h := c.slot
	c.mu.Unlock()

	if h == nil {
		return false
	}
	h.Cancel()
	return true
}

// Release clears the slot if it still holds h and frees h's resources.
func (c *Controller) Release(h *Handle) {
	if h == nil {
		return
	}

	c.mu.Lock()
	if c.slot == h {
		c.slot = nil
	}
	c.mu.Unlock()

	h.release()
}

// Active reports whether an uncancelled operation occupies the slot.
func (c *Controller) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.slot != nil && !c.slot.Cancelled()
}
