package collector

import "sync/atomic"

// DefaultListenerLimit mirrors the per-event listener ceiling most event
// emitters start with.
const DefaultListenerLimit = 10

// DefaultBudget is shared by every collector that does not bring its own.
var DefaultBudget = NewListenerBudget(DefaultListenerLimit)

// ListenerBudget tracks how many collectors currently hold listeners on a
// client. Each active collector raises the effective ceiling by one, so the
// count is bookkeeping only and never rejects a collector. Counters are
// atomic because discordgo dispatches events on multiple goroutines.
type ListenerBudget struct {
	base   int64
	active atomic.Int64
}

// NewListenerBudget creates a budget whose ceiling starts at base.
func NewListenerBudget(base int) *ListenerBudget {
	if base < 0 {
		base = 0
	}
	return &ListenerBudget{base: int64(base)}
}

// Acquire records one more active collector and returns the new count.
func (b *ListenerBudget) Acquire() int {
	return int(b.active.Add(1))
}

// Release records a collector ending and returns the new count. It never
// drops below zero.
func (b *ListenerBudget) Release() int {
	for {
		current := b.active.Load()
		if current <= 0 {
			return 0
		}
		if b.active.CompareAndSwap(current, current-1) {
			return int(current - 1)
		}
	}
}

// Active returns the number of collectors currently holding listeners.
func (b *ListenerBudget) Active() int {
	return int(b.active.Load())
}

// Limit returns the current effective ceiling: the base plus one per active collector.
func (b *ListenerBudget) Limit() int {
	return int(b.base + b.active.Load())
}
