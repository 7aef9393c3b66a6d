// Package collector gathers events pushed by an external source, filters them
// and stops on timers, limits or an explicit request.
package collector

import (
	"context"
	"fmt"
	"iter"
	"slices"
	"sync"
	"time"

	"github.com/aleister1102/discordkit/internal/common/errorwrapper"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Hooks is what a collector variant supplies to the generic Collector.
type Hooks[E any] interface {
	// Collect reports whether event belongs to this collector and the key it is stored under.
	Collect(event E) (string, bool)
	// Dispose reports the key of a stored item that event invalidates.
	Dispose(event E) (string, bool)
	// EndReason returns a non-empty reason once the collector should stop.
	EndReason() string
}

// deadline is a single-shot timer. gen invalidates callbacks from timers that
// were replaced or cancelled after they had already fired.
type deadline struct {
	timer *time.Timer
	gen   uint64
}

// Collector accumulates accepted events in delivery order until it is stopped.
//
// Events may arrive from several goroutines. State changes happen under a
// lock and notifications are delivered through a serial queue in the order the
// state changed, so every collect notification precedes the end notification.
// A Filter runs without the lock: two HandleCollect calls whose filters take
// different amounts of time can be accepted in a different order than they
// arrived.
//
// OnCollect, OnDispose and OnEnd callbacks run one at a time on whichever
// goroutine is delivering notifications, so they must not block on the
// collector: waiting on Done or on another HandleCollect from inside a
// callback stalls later notifications. Next and All are fed directly and
// are safe to call from a callback. Stop returns once the collector has
// ended, which may be before its end listeners run when another goroutine
// is mid-delivery.
type Collector[E any] struct {
	id     string
	hooks  Hooks[E]
	opts   Options[E]
	logger zerolog.Logger

	mu        sync.Mutex
	keys      []string
	collected []E
	ended     bool
	reason    string
	done      chan struct{}
	timeout   deadline
	idle      deadline

	collectListeners listenerSet[func(E)]
	disposeListeners listenerSet[func(E)]
	endListeners     listenerSet[func([]E, string)]
	sinks            listenerSet[sink[E]]

	queue dispatchQueue
}

// New creates a collector driven by hooks and starts its timers.
func New[E any](hooks Hooks[E], opts Options[E]) (*Collector[E], error) {
	c, err := newCollector(hooks, opts, "collector")
	if err != nil {
		return nil, err
	}
	c.start()
	return c, nil
}

// newCollector builds a collector without arming its timers, so variants can
// finish wiring their own listeners first.
func newCollector[E any](hooks Hooks[E], opts Options[E], section string) (*Collector[E], error) {
	if hooks == nil {
		return nil, errorwrapper.NewConfigurationError(section, "hooks", "collector hooks are required")
	}
	if err := validateOptions(section, &opts); err != nil {
		return nil, err
	}

	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = *opts.Logger
	}

	id := uuid.NewString()
	return &Collector[E]{
		id:     id,
		hooks:  hooks,
		opts:   opts,
		logger: logger.With().Str("component", "Collector").Str("collector_id", id).Logger(),
		done:   make(chan struct{}),
	}, nil
}

func (c *Collector[E]) start() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.ended {
		return
	}
	if c.opts.Time > 0 {
		c.armLocked(&c.timeout, c.opts.Time, ReasonTime)
	}
	if c.opts.Idle > 0 {
		c.armLocked(&c.idle, c.opts.Idle, ReasonIdle)
	}
	c.logger.Debug().Dur("time", c.opts.Time).Dur("idle", c.opts.Idle).Msg("Collector started")
}

// ID returns the collector's unique identifier.
func (c *Collector[E]) ID() string {
	return c.id
}

// HandleCollect feeds one raw event through matching, filtering and
// accumulation, then checks whether the collector should end. It returns the
// filter's error unchanged in meaning; nothing is collected in that case.
func (c *Collector[E]) HandleCollect(event E) error {
	if key, ok := c.hooks.Collect(event); ok {
		accepted, err := c.runFilter(event)
		if err != nil {
			return fmt.Errorf("collector filter failed: %w", err)
		}

		if accepted {
			c.mu.Lock()
			if !c.ended {
				c.keys = append(c.keys, key)
				c.collected = append(c.collected, event)
				if c.idle.timer != nil {
					c.armLocked(&c.idle, c.opts.Idle, ReasonIdle)
				}
				for _, s := range c.sinks.snapshot() {
					s.item(event)
				}
				c.queue.push(func() { c.notifyItem(&c.collectListeners, event) })
			}
			c.mu.Unlock()
		}
	}

	c.queue.push(func() { c.CheckEnd() })
	c.queue.drain()
	return nil
}

// HandleDispose removes the stored item an event invalidates. It does nothing
// unless Options.Dispose is set.
func (c *Collector[E]) HandleDispose(event E) error {
	if !c.opts.Dispose {
		return nil
	}

	key, ok := c.hooks.Dispose(event)
	if !ok {
		return nil
	}

	accepted, err := c.runFilter(event)
	if err != nil {
		return fmt.Errorf("collector filter failed: %w", err)
	}
	if !accepted {
		return nil
	}

	c.mu.Lock()
	idx := slices.Index(c.keys, key)
	if idx < 0 || c.ended {
		c.mu.Unlock()
		return nil
	}
	c.keys = slices.Delete(c.keys, idx, idx+1)
	c.collected = slices.Delete(c.collected, idx, idx+1)
	c.queue.push(func() { c.notifyItem(&c.disposeListeners, event) })
	c.queue.push(func() { c.CheckEnd() })
	c.mu.Unlock()

	c.queue.drain()
	return nil
}

func (c *Collector[E]) runFilter(event E) (bool, error) {
	if c.opts.Filter == nil {
		return true, nil
	}
	return c.opts.Filter(event, c.Collected())
}

func (c *Collector[E]) notifyItem(set *listenerSet[func(E)], event E) {
	c.mu.Lock()
	listeners := set.snapshot()
	c.mu.Unlock()

	for _, fn := range listeners {
		fn(event)
	}
}

// CheckEnd stops the collector if its hooks report an end reason.
func (c *Collector[E]) CheckEnd() bool {
	reason := c.hooks.EndReason()
	if reason == "" {
		return false
	}
	c.Stop(reason)
	return true
}

// Stop ends the collector. Only the first call has any effect; it cancels
// both timers and emits the end notification once. An empty reason means "user".
func (c *Collector[E]) Stop(reason string) {
	if reason == "" {
		reason = ReasonUser
	}

	c.mu.Lock()
	c.stopLocked(reason)
	c.mu.Unlock()

	c.queue.drain()
}

func (c *Collector[E]) stopLocked(reason string) {
	if c.ended {
		return
	}

	c.disarmLocked(&c.timeout)
	c.disarmLocked(&c.idle)
	c.ended = true
	c.reason = reason
	close(c.done)
	for _, s := range c.sinks.snapshot() {
		s.end()
	}
	c.sinks.clear()

	collected := slices.Clone(c.collected)
	c.logger.Debug().Str("reason", reason).Int("collected", len(collected)).Msg("Collector stopped")

	c.queue.push(func() {
		c.mu.Lock()
		listeners := c.endListeners.snapshot()
		c.mu.Unlock()

		for _, fn := range listeners {
			fn(collected, reason)
		}

		c.mu.Lock()
		c.collectListeners.clear()
		c.disposeListeners.clear()
		c.endListeners.clear()
		c.mu.Unlock()
	})
}

// ResetTimer reschedules whichever timers are still pending, using the
// override when given and the configured duration otherwise.
func (c *Collector[E]) ResetTimer(opts TimerOptions) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.timeout.timer != nil {
		d := opts.Time
		if d <= 0 {
			d = c.opts.Time
		}
		c.armLocked(&c.timeout, d, ReasonTime)
	}
	if c.idle.timer != nil {
		d := opts.Idle
		if d <= 0 {
			d = c.opts.Idle
		}
		c.armLocked(&c.idle, d, ReasonIdle)
	}
}

func (c *Collector[E]) armLocked(dl *deadline, d time.Duration, reason string) {
	if dl.timer != nil {
		dl.timer.Stop()
	}
	dl.gen++
	gen := dl.gen
	dl.timer = time.AfterFunc(d, func() { c.expire(dl, gen, reason) })
}

func (c *Collector[E]) disarmLocked(dl *deadline) {
	if dl.timer != nil {
		dl.timer.Stop()
		dl.timer = nil
	}
	dl.gen++
}

func (c *Collector[E]) expire(dl *deadline, gen uint64, reason string) {
	c.mu.Lock()
	if dl.gen != gen {
		c.mu.Unlock()
		return
	}
	dl.timer = nil
	c.stopLocked(reason)
	c.mu.Unlock()

	c.queue.drain()
}

// clear drops everything collected so far without ending the collector.
func (c *Collector[E]) clear() {
	c.mu.Lock()
	c.keys = nil
	c.collected = nil
	c.mu.Unlock()
}

// Next waits for the next accepted item. If the collector has already ended,
// or ends first, it returns an *EndedError holding everything collected.
func (c *Collector[E]) Next(ctx context.Context) (E, error) {
	var zero E
	items := make(chan E, 1)
	ended := make(chan struct{}, 1)

	c.mu.Lock()
	if c.ended {
		err := c.endedErrorLocked()
		c.mu.Unlock()
		return zero, err
	}
	sinkID := c.sinks.add(sink[E]{
		item: func(event E) {
			select {
			case items <- event:
			default:
			}
		},
		end: func() {
			select {
			case ended <- struct{}{}:
			default:
			}
		},
	})
	c.mu.Unlock()

	defer c.removeSink(sinkID)

	select {
	case event := <-items:
		return event, nil
	case <-ended:
		select {
		case event := <-items:
			return event, nil
		default:
		}
		c.mu.Lock()
		err := c.endedErrorLocked()
		c.mu.Unlock()
		return zero, err
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

func (c *Collector[E]) endedErrorLocked() *EndedError[E] {
	return &EndedError[E]{Collected: slices.Clone(c.collected), Reason: c.reason}
}

// All yields accepted items in order as they arrive. The sequence ends once
// the collector has ended and every buffered item was yielded, or when ctx is
// done. Breaking out of the loop detaches it from the collector.
func (c *Collector[E]) All(ctx context.Context) iter.Seq[E] {
	return func(yield func(E) bool) {
		buffer := newItemQueue[E]()

		c.mu.Lock()
		if c.ended {
			c.mu.Unlock()
			return
		}
		sinkID := c.sinks.add(sink[E]{item: buffer.push, end: buffer.close})
		c.mu.Unlock()

		defer c.removeSink(sinkID)

		for {
			item, ok := buffer.pop(ctx.Done())
			if !ok || !yield(item) {
				return
			}
		}
	}
}

func (c *Collector[E]) removeSink(id uint64) {
	c.mu.Lock()
	c.sinks.remove(id)
	c.mu.Unlock()
}

// OnCollect subscribes fn to accepted items. The returned func unsubscribes.
func (c *Collector[E]) OnCollect(fn func(E)) func() {
	return c.subscribeItem(&c.collectListeners, fn)
}

// OnDispose subscribes fn to disposed items. The returned func unsubscribes.
func (c *Collector[E]) OnDispose(fn func(E)) func() {
	return c.subscribeItem(&c.disposeListeners, fn)
}

func (c *Collector[E]) subscribeItem(set *listenerSet[func(E)], fn func(E)) func() {
	c.mu.Lock()
	id := set.add(fn)
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		set.remove(id)
		c.mu.Unlock()
	}
}

// OnEnd subscribes fn to the end notification, which fires once with the
// final collected items and the reason. The returned func unsubscribes.
func (c *Collector[E]) OnEnd(fn func(collected []E, reason string)) func() {
	c.mu.Lock()
	id := c.endListeners.add(fn)
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		c.endListeners.remove(id)
		c.mu.Unlock()
	}
}

// Collected returns a copy of the accepted items in delivery order.
func (c *Collector[E]) Collected() []E {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.collected)
}

// Len returns the number of items currently collected.
func (c *Collector[E]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.collected)
}

// Ended reports whether Stop has taken effect.
func (c *Collector[E]) Ended() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ended
}

// Reason returns the reason the collector ended, or "" while it is running.
func (c *Collector[E]) Reason() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.reason
}

// Done is closed when the collector ends.
func (c *Collector[E]) Done() <-chan struct{} {
	return c.done
}

func (c *Collector[E]) listenerCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.collectListeners.len() + c.disposeListeners.len() + c.endListeners.len() + c.sinks.len()
}
