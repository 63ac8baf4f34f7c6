package sseserver

import (
	"log"
	"sync"

	"github.com/mroth/sseserver/internal/debug"
)

// Registry maps channel name to Channel. At most one Channel per name
// exists at any instant; the create step in GetOrCreate is linearizable, so
// concurrent callers racing on the same name always observe the same
// Channel instance.
type Registry struct {
	mu       sync.Mutex
	channels map[string]*Channel
}

// NewRegistry constructs an empty Registry. Tests and embedding
// applications are expected to construct their own Registry rather than
// rely on a process-wide singleton; see Server for the lifecycle-managed
// default.
func NewRegistry() *Registry {
	return &Registry{channels: make(map[string]*Channel)}
}

// GetOrCreate returns the existing Channel for name, creating one with a
// fresh UUID and empty listener set if none exists yet.
func (r *Registry) GetOrCreate(name string) *Channel {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c, ok := r.channels[name]; ok {
		return c
	}
	c := newChannel(name)
	r.channels[name] = c
	debug.Debug("channel created: " + name)
	log.Printf("CHANNEL CREATE\t%s\t%s", name, c.ID())
	return c
}

// Get performs a non-creating lookup, returning ok=false if no channel by
// that name currently exists in the registry.
func (r *Registry) Get(name string) (c *Channel, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok = r.channels[name]
	return
}

// Remove detaches the named channel from the registry, if present, and
// closes it. Idempotent: removing a name that doesn't exist is a no-op.
func (r *Registry) Remove(name string) {
	r.mu.Lock()
	c, ok := r.channels[name]
	if ok {
		delete(r.channels, name)
	}
	r.mu.Unlock()

	if ok {
		c.Close()
		log.Printf("CHANNEL CLOSE\t%s\t%s", name, c.ID())
	}
}

// CloseAll detaches and closes every channel currently in the registry,
// leaving it empty.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	old := r.channels
	r.channels = make(map[string]*Channel)
	r.mu.Unlock()

	for name, c := range old {
		c.Close()
		log.Printf("CHANNEL CLOSE\t%s\t%s", name, c.ID())
	}
}

// Names returns a snapshot of the currently registered channel names.
func (r *Registry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.channels))
	for name := range r.channels {
		names = append(names, name)
	}
	return names
}
