package sseserver

import (
	"sync"

	"github.com/google/uuid"

	"github.com/mroth/sseserver/internal/debug"
)

// Listener is a per-subscriber callback that consumes broadcast events. It
// returns whether it wishes to remain subscribed; returning false, or
// panicking, requests eviction.
type Listener func(Event) bool

// entry wraps a Listener with an identity distinct from its value, so that
// the same func reference registered twice is tracked (and evicted) as two
// independent subscriptions, and so that concurrent Fire calls can serialize
// invocation of a single listener without serializing the whole channel.
type entry struct {
	id uint64
	fn Listener
	mu sync.Mutex
}

// Channel holds the listener set for one channel name and implements the
// fire/subscribe/close lifecycle described by the broadcast hub's data
// model. A Channel is created by a Registry and is safe for concurrent use
// by arbitrarily many publishers and subscribers.
type Channel struct {
	id   uuid.UUID
	name string

	mu        sync.Mutex
	listeners []*entry
	nextID    uint64
	active    bool

	closed     chan struct{}
	closedOnce sync.Once
}

func newChannel(name string) *Channel {
	return &Channel{
		id:     uuid.New(),
		name:   name,
		active: true,
		closed: make(chan struct{}),
	}
}

// ID returns the channel's identity. Every call to closeChannel followed by
// a new getOrCreate produces a Channel with a distinct ID.
func (c *Channel) ID() uuid.UUID { return c.id }

// Name returns the channel's name.
func (c *Channel) Name() string { return c.name }

// Subscribe appends listener to the channel's listener set if the channel is
// active; otherwise it is a silent no-op; a listener added to a closed
// channel is never invoked. It returns an unsubscribe function that detaches
// this specific subscription (identity, not value) from the channel.
func (c *Channel) Subscribe(listener Listener) (unsubscribe func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.active {
		return func() {}
	}

	c.nextID++
	id := c.nextID
	c.listeners = append(c.listeners, &entry{id: id, fn: listener})
	debug.Debug("subscribe on channel " + c.name)

	return func() { c.evict(id) }
}

func (c *Channel) evict(id uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, e := range c.listeners {
		if e.id == id {
			c.listeners = append(c.listeners[:i], c.listeners[i+1:]...)
			return
		}
	}
}

// Fire broadcasts event to every listener attached at the instant Fire
// takes its snapshot, in insertion order, each exactly once. A listener that
// returns false or panics is marked for eviction; evictions are applied
// atomically once the whole snapshot has been invoked, and are visible to
// any subsequent Fire. If the channel is not active, Fire is a no-op. Fire
// never panics.
//
// Per-listener invocation is serialized by the listener's own mutex so that
// two concurrent Fire calls can never interleave writes to one listener,
// without forcing the whole channel to serialize on slow listener I/O (see
// the delivery-semantics note in the design docs).
func (c *Channel) Fire(evt Event) {
	c.mu.Lock()
	if !c.active {
		c.mu.Unlock()
		return
	}
	snapshot := make([]*entry, len(c.listeners))
	copy(snapshot, c.listeners)
	c.mu.Unlock()

	var evicted []uint64
	for _, e := range snapshot {
		if !invoke(e, evt) {
			evicted = append(evicted, e.id)
		}
	}
	if len(evicted) == 0 {
		return
	}

	evictSet := make(map[uint64]bool, len(evicted))
	for _, id := range evicted {
		evictSet[id] = true
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	filtered := c.listeners[:0]
	for _, e := range c.listeners {
		if !evictSet[e.id] {
			filtered = append(filtered, e)
		}
	}
	c.listeners = filtered
}

func invoke(e *entry, evt Event) (keep bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	defer func() {
		if r := recover(); r != nil {
			debug.Debug("listener panicked, evicting:", r)
			keep = false
		}
	}()
	return e.fn(evt)
}

// Close clears the listener set, marks the channel inactive, and trips the
// close latch observed by AwaitClose. Idempotent.
func (c *Channel) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.active {
		return
	}
	c.active = false
	c.listeners = nil
	c.closedOnce.Do(func() { close(c.closed) })
}

// AwaitClose blocks until Close has been invoked on this channel.
func (c *Channel) AwaitClose() { <-c.closed }

// ListenerCount returns a best-effort snapshot of the number of attached
// listeners.
func (c *Channel) ListenerCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.listeners)
}
