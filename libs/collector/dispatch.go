package collector

import "sync"

// dispatchQueue runs queued callbacks one at a time in push order. Whoever
// finds the queue idle drains it; concurrent pushers return immediately and
// their callbacks run on the draining goroutine. Callbacks run without any
// lock held, so they may change the collector, but a callback that waits on
// the collector holds up every notification queued behind it.
type dispatchQueue struct {
	mu      sync.Mutex
	pending []func()
	running bool
}

// push enqueues fn. It is safe to call while holding the collector lock.
func (q *dispatchQueue) push(fn func()) {
	q.mu.Lock()
	q.pending = append(q.pending, fn)
	q.mu.Unlock()
}

// drain runs pending callbacks unless another goroutine is already doing so.
func (q *dispatchQueue) drain() {
	q.mu.Lock()
	if q.running {
		q.mu.Unlock()
		return
	}
	q.running = true
	for len(q.pending) > 0 {
		next := q.pending[0]
		q.pending[0] = nil
		q.pending = q.pending[1:]
		q.mu.Unlock()
		next()
		q.mu.Lock()
	}
	q.running = false
	q.mu.Unlock()
}

// sink receives collect and end signals straight from the locked state
// change, ahead of the dispatch queue. Both funcs must return without
// blocking and without touching the collector.
type sink[E any] struct {
	item func(E)
	end  func()
}

// listenerSet keeps subscribers in registration order. Callers synchronize access.
type listenerSet[F any] struct {
	nextID  uint64
	entries []listenerEntry[F]
}

type listenerEntry[F any] struct {
	id uint64
	fn F
}

func (s *listenerSet[F]) add(fn F) uint64 {
	s.nextID++
	s.entries = append(s.entries, listenerEntry[F]{id: s.nextID, fn: fn})
	return s.nextID
}

func (s *listenerSet[F]) remove(id uint64) {
	for i, entry := range s.entries {
		if entry.id == id {
			s.entries = append(s.entries[:i:i], s.entries[i+1:]...)
			return
		}
	}
}

func (s *listenerSet[F]) snapshot() []F {
	fns := make([]F, len(s.entries))
	for i, entry := range s.entries {
		fns[i] = entry.fn
	}
	return fns
}

func (s *listenerSet[F]) len() int {
	return len(s.entries)
}

func (s *listenerSet[F]) clear() {
	s.entries = nil
}

// itemQueue buffers pushed items for a single pull-based consumer.
type itemQueue[E any] struct {
	mu     sync.Mutex
	items  []E
	closed bool
	signal chan struct{}
}

func newItemQueue[E any]() *itemQueue[E] {
	return &itemQueue[E]{signal: make(chan struct{}, 1)}
}

func (q *itemQueue[E]) push(item E) {
	q.mu.Lock()
	q.items = append(q.items, item)
	q.mu.Unlock()
	q.notify()
}

func (q *itemQueue[E]) close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()
	q.notify()
}

func (q *itemQueue[E]) notify() {
	select {
	case q.signal <- struct{}{}:
	default:
	}
}

// pop returns the oldest item, waiting while the queue is empty and open.
// It reports false once the queue is closed and drained, or done fires.
func (q *itemQueue[E]) pop(done <-chan struct{}) (E, bool) {
	for {
		q.mu.Lock()
		if len(q.items) > 0 {
			item := q.items[0]
			var zero E
			q.items[0] = zero
			q.items = q.items[1:]
			q.mu.Unlock()
			return item, true
		}
		closed := q.closed
		q.mu.Unlock()

		if closed {
			var zero E
			return zero, false
		}

		select {
		case <-q.signal:
		case <-done:
			var zero E
			return zero, false
		}
	}
}
