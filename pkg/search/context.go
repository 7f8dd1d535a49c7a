// Package search implements the core negamax/alpha-beta search: quiescence, move
// ordering, the transposition table, killer and history heuristics, null-move pruning,
// late-move reductions and principal-variation search.
package search

import (
	"time"

	"go.uber.org/atomic"
)

// TimeCheckInterval is the node-visit interval at which the search polls the wall
// clock, via a single shared decrementing counter rather than a modulo.
const TimeCheckInterval = 2048

// AbortFraction is the fraction of the time budget at which the search aborts itself.
const AbortFraction = 0.8

// Context holds the search-wide transient state for a single root call: the wall-clock
// budget, the cooperative abort flag, and node/time-check counters. It is fresh for
// every call to the iterative-deepening driver -- unlike the transposition table,
// killers and history, it never persists across root calls. Safe for the hard-timeout
// watchdog to call Abort concurrently with the search goroutine.
type Context struct {
	Start  time.Time
	Budget time.Duration // zero means unlimited: fixed-depth mode, never polls the clock

	aborted      atomic.Bool
	Nodes        uint64
	checkCounter int
}

// NewContext starts a fresh search context with the given wall-clock budget. A zero
// budget means the search never self-aborts on time (fixed-depth mode); Abort can
// still be called externally.
func NewContext(budget time.Duration) *Context {
	return &Context{Start: time.Now(), Budget: budget, checkCounter: TimeCheckInterval}
}

// Aborted reports whether the search has been cooperatively aborted, either by an
// external Abort() (the UCI shell's hard-timeout watchdog) or by its own wall-clock poll.
func (c *Context) Aborted() bool {
	return c.aborted.Load()
}

// Abort sets the abort flag. Idempotent and safe to call from another goroutine.
func (c *Context) Abort() {
	c.aborted.Store(true)
}

// Poll increments the node counter and, once every TimeCheckInterval nodes, consults
// the wall clock; if more than AbortFraction of the budget has elapsed it sets the
// abort flag. Returns the up-to-date aborted status so callers can bail out inline.
func (c *Context) Poll() bool {
	c.Nodes++
	if c.aborted.Load() {
		return true
	}
	if c.Budget <= 0 {
		return false
	}

	c.checkCounter--
	if c.checkCounter > 0 {
		return false
	}
	c.checkCounter = TimeCheckInterval

	if time.Since(c.Start) > time.Duration(float64(c.Budget)*AbortFraction) {
		c.aborted.Store(true)
		return true
	}
	return false
}

// Elapsed returns the wall-clock time spent since the context was created.
func (c *Context) Elapsed() time.Duration {
	return time.Since(c.Start)
}
