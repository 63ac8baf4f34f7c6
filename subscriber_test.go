package sseserver

import (
	"bufio"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"
)

func TestSubscribeMissingChannelParam(t *testing.T) {
	s, _ := NewServer()
	defer s.Shutdown()

	req := httptest.NewRequest(http.MethodGet, "/sse/broadcast", nil)
	rr := httptest.NewRecorder()
	s.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("got status %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "Missing") {
		t.Fatalf("got body %q", rr.Body.String())
	}
}

func TestSubscribeInvalidChannelName(t *testing.T) {
	s, _ := NewServer()
	defer s.Shutdown()

	req := httptest.NewRequest(http.MethodGet, "/sse/broadcast?channel=_system.audit", nil)
	rr := httptest.NewRecorder()
	s.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("got status %d", rr.Code)
	}
}

func TestSubscribeAuthDeniedWithoutSession(t *testing.T) {
	s, err := NewServer(WithAdmission(SessionAdmission{
		HasSession: func(*http.Request) bool { return false },
	}))
	if err != nil {
		t.Fatal(err)
	}
	defer s.Shutdown()

	req := httptest.NewRequest(http.MethodGet, "/sse/broadcast?channel=t5", nil)
	rr := httptest.NewRecorder()
	s.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("got status %d", rr.Code)
	}
	body := rr.Body.String()
	if !strings.Contains(body, "event: error") || !strings.Contains(body, "Authentication required") {
		t.Fatalf("got body %q", body)
	}
}

// TestSubscribeDeniesByDefault covers S2 admission: with no admission override (the
// NewServer default, matching a Config with bypass-authentication left at
// its documented default of false) and no session, subscribing is denied.
func TestSubscribeDeniesByDefault(t *testing.T) {
	s, err := NewServer()
	if err != nil {
		t.Fatal(err)
	}
	defer s.Shutdown()

	req := httptest.NewRequest(http.MethodGet, "/sse/broadcast?channel=t5", nil)
	rr := httptest.NewRecorder()
	s.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("got status %d, want 401", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "Authentication required") {
		t.Fatalf("got body %q", rr.Body.String())
	}
}

func TestSubscribeOptionsPreflight(t *testing.T) {
	s, err := NewServer(WithCORS(NewAllowListCORS([]string{"https://example.com"}, true)))
	if err != nil {
		t.Fatal(err)
	}
	defer s.Shutdown()

	req := httptest.NewRequest(http.MethodOptions, "/sse/broadcast", nil)
	req.Header.Set("Origin", "https://example.com")
	rr := httptest.NewRecorder()
	s.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("got status %d", rr.Code)
	}
	if rr.Header().Get("Access-Control-Allow-Origin") != "https://example.com" {
		t.Fatal("expected CORS header on preflight")
	}
}

// TestSubscribeStreamsPreambleAndEvent exercises S4-S6 against a real
// listening server, since httptest.ResponseRecorder does not model
// streaming/flush semantics the way a live connection does.
func TestSubscribeStreamsPreambleAndEvent(t *testing.T) {
	s, err := NewServer(WithAdmission(BypassAdmission{}))
	if err != nil {
		t.Fatal(err)
	}
	defer s.Shutdown()

	srv := httptest.NewServer(s)
	defer srv.Close()

	u, _ := url.Parse(srv.URL)
	u.Path = "/sse/broadcast"
	u.RawQuery = "channel=t1"

	resp, err := http.Get(u.String())
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("got status %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream;charset=UTF-8" {
		t.Fatalf("got content-type %q", ct)
	}

	reader := bufio.NewReader(resp.Body)
	line, err := reader.ReadString('\n')
	if err != nil {
		t.Fatal(err)
	}
	if line != ": connected\n" {
		t.Fatalf("got preamble line %q", line)
	}

	// give the handler time to register its listener, then broadcast.
	deadline := time.Now().Add(2 * time.Second)
	for {
		if s.Broadcast.GetClientCount("t1") > 0 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("listener never registered")
		}
		time.Sleep(time.Millisecond)
	}

	if err := s.Broadcast.Broadcast("t1", "hello"); err != nil {
		t.Fatal(err)
	}

	reader.ReadString('\n') // consume the blank line after the preamble
	dataLine, err := reader.ReadString('\n')
	if err != nil {
		t.Fatal(err)
	}
	if dataLine != "data: hello\n" {
		t.Fatalf("got %q", dataLine)
	}
}
