package sseserver

// BroadcastService is the public façade used by publishers: it validates
// names and payloads and delegates to a Registry/Channel pair. All methods
// are safe to call concurrently from any goroutine.
type BroadcastService struct {
	registry *Registry
}

// NewBroadcastService wraps registry in a BroadcastService.
func NewBroadcastService(registry *Registry) *BroadcastService {
	return &BroadcastService{registry: registry}
}

// LookupByChannelName validates name and returns its Channel, creating one
// if it doesn't already exist.
func (s *BroadcastService) LookupByChannelName(name string) (*Channel, error) {
	if err := ValidateChannelName(name); err != nil {
		return nil, err
	}
	return s.registry.GetOrCreate(name), nil
}

// Broadcast validates name and payload and fires an event carrying payload
// to every listener of the named channel. Publishing to a channel with no
// subscribers is a silent no-op: it never allocates a channel, matching the
// fire-and-forget contract (publish never creates a channel).
func (s *BroadcastService) Broadcast(name, payload string) error {
	if err := ValidateChannelName(name); err != nil {
		return err
	}
	if err := ValidatePayload(payload); err != nil {
		return err
	}

	c, ok := s.registry.Get(name)
	if !ok {
		return nil
	}
	c.Fire(newEvent(payload, c.ID()))
	return nil
}

// GetClientCount returns the number of attached listeners on name, or 0 if
// no channel by that name exists.
func (s *BroadcastService) GetClientCount(name string) int {
	c, ok := s.registry.Get(name)
	if !ok {
		return 0
	}
	return c.ListenerCount()
}

// GetActiveChannels returns a snapshot of every channel name currently in
// the registry.
func (s *BroadcastService) GetActiveChannels() []string {
	return s.registry.Names()
}

// CloseChannel validates name and removes/closes its channel, if any.
func (s *BroadcastService) CloseChannel(name string) error {
	if err := ValidateChannelName(name); err != nil {
		return err
	}
	s.registry.Remove(name)
	return nil
}

// CloseAllChannels closes and removes every channel in the registry.
// Intended to be called once, at process shutdown.
func (s *BroadcastService) CloseAllChannels() {
	s.registry.CloseAll()
}
