package sseserver

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Server is the primary interface to the broadcast hub. It wires together a
// Registry, a BroadcastService, and the C4 subscriber endpoint, and
// implements http.Handler so it can be mounted into an existing mux.
//
// Broadcast exposes the in-process publish/admin surface (broadcast,
// getClientCount, getActiveChannels, closeChannel, closeAllChannels,
// lookupByChannelName); Registry is exposed for callers (like the admin
// package) that need direct per-channel introspection.
type Server struct {
	Broadcast *BroadcastService
	Registry  *Registry

	// Options holds operator-toggleable switches that don't fit the
	// ServerOption/Config shape, mirroring how the admin surface wants a
	// plain mutable struct it can flip at runtime.
	Options Options

	mount             string
	admission         AdmissionAdapter
	cors              CORSAdapter
	heartbeatInterval time.Duration

	limiterMu sync.RWMutex
	limiter   *rate.Limiter

	startupTime time.Time

	shutdown     chan struct{}
	shutdownOnce sync.Once
}

// Options holds runtime-mutable Server switches.
type Options struct {
	DisableAdminEndpoints bool
}

// NewServer creates a new Server with optional ServerOptions for
// configuration, starting from an empty Registry.
func NewServer(opts ...ServerOption) (*Server, error) {
	registry := NewRegistry()
	s := &Server{
		Broadcast:         NewBroadcastService(registry),
		Registry:          registry,
		mount:             defaultMount,
		admission:         SessionAdmission{},
		cors:              NewAllowListCORS(nil, false),
		heartbeatInterval: defaultHeartbeatInterval,
		startupTime:       time.Now(),
		shutdown:          make(chan struct{}),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

func (s *Server) setRateLimit(rps float64, burst int) {
	s.limiterMu.Lock()
	defer s.limiterMu.Unlock()
	s.limiter = rate.NewLimiter(rate.Limit(rps), burst)
}

func (s *Server) allowSubscribe() bool {
	s.limiterMu.RLock()
	l := s.limiter
	s.limiterMu.RUnlock()
	if l == nil {
		return true
	}
	return l.Allow()
}

// ServeHTTP implements http.Handler, mounting the subscriber endpoint at
// the configured mount path.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	mux := http.NewServeMux()
	mux.Handle(s.mount, http.HandlerFunc(s.serveSubscribe))
	mux.ServeHTTP(w, r)
}

// Shutdown closes every channel in the registry and signals every active
// streaming connection to complete. Safe to call more than once; returns
// immediately and does not wait for connections to finish draining.
func (s *Server) Shutdown() {
	s.shutdownOnce.Do(func() {
		close(s.shutdown)
		s.Broadcast.CloseAllChannels()
	})
}

// HealthHandler reports process liveness: it never inspects the registry and
// always returns 200 as long as the process is scheduling goroutines.
func (s *Server) HealthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// ReadyHandler reports whether the hub is accepting new subscribers: it
// returns 503 once Shutdown has been called, and 200 otherwise.
func (s *Server) ReadyHandler(w http.ResponseWriter, r *http.Request) {
	select {
	case <-s.shutdown:
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		json.NewEncoder(w).Encode(map[string]string{"status": "shutting down"})
	default:
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"status": "ready", "channels": len(s.Registry.Names())})
	}
}
