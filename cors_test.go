package sseserver

import (
	"net/http/httptest"
	"testing"
)

func TestAllowListCORSPolicy(t *testing.T) {
	c := NewAllowListCORS([]string{"https://example.com"}, true)

	if p := c.Policy("https://evil.example"); p.Allowed {
		t.Fatal("expected disallowed origin to be rejected")
	}
	if p := c.Policy(""); p.Allowed {
		t.Fatal("expected empty origin to be rejected")
	}
	p := c.Policy("https://example.com")
	if !p.Allowed || !p.Credentials {
		t.Fatalf("expected allowed+credentials, got %+v", p)
	}
}

func TestApplyCORSHeadersDisallowedSetsNothing(t *testing.T) {
	rr := httptest.NewRecorder()
	applyCORSHeaders(rr, "https://evil.example", CORSPolicy{})
	if rr.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Fatal("expected no CORS headers for disallowed origin")
	}
}

func TestApplyCORSHeadersAllowed(t *testing.T) {
	rr := httptest.NewRecorder()
	applyCORSHeaders(rr, "https://example.com", CORSPolicy{Allowed: true, Credentials: true})
	h := rr.Header()
	if h.Get("Access-Control-Allow-Origin") != "https://example.com" {
		t.Fatalf("got %q", h.Get("Access-Control-Allow-Origin"))
	}
	if h.Get("Access-Control-Allow-Methods") != "GET, OPTIONS" {
		t.Fatalf("got %q", h.Get("Access-Control-Allow-Methods"))
	}
	if h.Get("Access-Control-Allow-Credentials") != "true" {
		t.Fatal("expected credentials header set")
	}
	if h.Get("Access-Control-Max-Age") != "3600" {
		t.Fatal("expected max-age header set")
	}
}
