package sseserver

import (
	"net/http/httptest"
	"testing"
)

func TestServer_Shutdown(t *testing.T) {
	s, err := NewServer()
	if err != nil {
		t.Fatal(err)
	}

	// verify calling multiple times is safe and does not hang
	for i := 0; i < 5; i++ {
		s.Shutdown()
	}
}

func TestServerShutdownClosesAllChannels(t *testing.T) {
	s, err := NewServer()
	if err != nil {
		t.Fatal(err)
	}
	c, err := s.Broadcast.LookupByChannelName("t1")
	if err != nil {
		t.Fatal(err)
	}
	s.Shutdown()

	select {
	case <-c.closed:
	default:
		t.Fatal("expected channel to be closed by Shutdown")
	}
}

func TestNewServerAppliesOptions(t *testing.T) {
	s, err := NewServer(WithMount("/custom/path"), WithHeartbeatInterval(0))
	if err != nil {
		t.Fatal(err)
	}
	if s.mount != "/custom/path" {
		t.Fatalf("got mount %q", s.mount)
	}
	if s.heartbeatInterval != 0 {
		t.Fatalf("got heartbeatInterval %v", s.heartbeatInterval)
	}
}

func TestNewServerOptionError(t *testing.T) {
	_, err := NewServer(func(s *Server) error { return ErrInvalidChannelName })
	if err != ErrInvalidChannelName {
		t.Fatalf("expected option error to propagate, got %v", err)
	}
}

func TestHealthAndReadyHandlers(t *testing.T) {
	s, err := NewServer()
	if err != nil {
		t.Fatal(err)
	}

	rr := httptest.NewRecorder()
	s.HealthHandler(rr, httptest.NewRequest("GET", "/healthz", nil))
	if rr.Code != 200 {
		t.Fatalf("expected 200 from HealthHandler, got %d", rr.Code)
	}

	rr = httptest.NewRecorder()
	s.ReadyHandler(rr, httptest.NewRequest("GET", "/readyz", nil))
	if rr.Code != 200 {
		t.Fatalf("expected 200 from ReadyHandler before shutdown, got %d", rr.Code)
	}

	s.Shutdown()
	rr = httptest.NewRecorder()
	s.ReadyHandler(rr, httptest.NewRequest("GET", "/readyz", nil))
	if rr.Code != 503 {
		t.Fatalf("expected 503 from ReadyHandler after shutdown, got %d", rr.Code)
	}
}
