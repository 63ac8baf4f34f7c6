package sseserver

import (
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/mroth/sseserver/internal/metrics"
)

var (
	preambleMsg  = []byte(": connected\n\n")
	heartbeatMsg = []byte(": heartbeat\n\n")
)

// serveSubscribe implements the subscriber endpoint state machine described
// in the design docs (S0 validate, S1 CORS, S2 admission, S3 resolve
// channel, S4 commit headers, S5 enter streaming, S6 stream, S7 teardown).
func (s *Server) serveSubscribe(w http.ResponseWriter, r *http.Request) {
	origin := r.Header.Get("Origin")
	applyCORSHeaders(w, origin, s.cors.Policy(origin))

	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}

	// S0: validate query.
	name := r.URL.Query().Get("channel")
	if name == "" {
		http.Error(w, "Missing required query parameter: channel", http.StatusBadRequest)
		return
	}
	if err := ValidateChannelName(name); err != nil {
		http.Error(w, "Invalid channel name", http.StatusBadRequest)
		return
	}

	if !s.allowSubscribe() {
		http.Error(w, "Too many subscribe attempts, try again shortly", http.StatusTooManyRequests)
		return
	}

	// S2: admission. The adapter itself invokes the closure below (which
	// performs S3..S7) iff the request is allowed, inside whatever
	// per-connection scope it wants to establish.
	var lookupErr error
	allowed, reason := s.admission.Authorize(r, func() {
		channel, err := s.Broadcast.LookupByChannelName(name)
		if err != nil {
			lookupErr = err
			return
		}
		s.stream(w, r, channel, name)
	})

	if !allowed {
		log.Printf("DENY\t%s\t%s\t%s", name, r.RemoteAddr, reason)
		metrics.AdmissionDenials.Inc()
		w.Header().Set("Content-Type", "text/event-stream;charset=UTF-8")
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprintf(w, "event: error\ndata: %s\n\n", reason)
		return
	}
	if lookupErr != nil {
		log.Printf("LOOKUP FAIL\t%s\t%v", name, lookupErr)
		http.Error(w, "Internal error resolving channel", http.StatusInternalServerError)
		return
	}
}

// stream implements S4 (commit headers+preamble), S5 (enter streaming,
// register listener), S6 (forward events + heartbeat), and S7 (teardown).
func (s *Server) stream(w http.ResponseWriter, r *http.Request, channel *Channel, name string) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	// S4: commit response headers + preamble, flush.
	h := w.Header()
	h.Set("Content-Type", "text/event-stream;charset=UTF-8")
	h.Set("Cache-Control", "no-cache,no-store")
	h.Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	if _, err := w.Write(preambleMsg); err != nil {
		return
	}
	flusher.Flush()

	log.Printf("CONNECT\t%s\t%s", name, r.RemoteAddr)
	metrics.ActiveSubscribers.Inc()
	defer metrics.ActiveSubscribers.Dec()
	defer log.Printf("DISCONNECT\t%s\t%s", name, r.RemoteAddr)

	// writeMu serializes the listener's own writes against the heartbeat's
	// writes to the same underlying connection; Channel.Fire already
	// serializes concurrent fires per-listener, this additionally keeps a
	// heartbeat tick from interleaving with an in-flight event write.
	var writeMu sync.Mutex

	done := make(chan struct{})
	var doneOnce sync.Once
	complete := func() { doneOnce.Do(func() { close(done) }) }

	// S5: register listener.
	unsubscribe := channel.Subscribe(func(evt Event) bool {
		select {
		case <-s.shutdown:
			return false
		case <-done:
			return false
		default:
		}

		writeMu.Lock()
		defer writeMu.Unlock()
		if _, err := w.Write(evt.sseFormat()); err != nil {
			complete()
			return false
		}
		flusher.Flush()
		metrics.EventsDelivered.Inc()
		return true
	})
	defer unsubscribe()

	heartbeat := time.NewTicker(s.heartbeatInterval)
	defer heartbeat.Stop()

	// S6/S7: stream until the client disconnects, the listener is evicted,
	// or the server is shutting down.
	for {
		select {
		case <-r.Context().Done():
			return
		case <-s.shutdown:
			return
		case <-done:
			return
		case <-heartbeat.C:
			writeMu.Lock()
			_, err := w.Write(heartbeatMsg)
			writeMu.Unlock()
			if err != nil {
				return
			}
			flusher.Flush()
		}
	}
}
