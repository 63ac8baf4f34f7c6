package sseserver

import "net/http"

// CORSPolicy is the result of evaluating a CORSAdapter against an Origin.
type CORSPolicy struct {
	Allowed     bool
	Credentials bool
}

// CORSAdapter is a pure function of an Origin header value and the
// configured allow-list.
type CORSAdapter interface {
	Policy(origin string) CORSPolicy
}

// AllowListCORS implements CORSAdapter via an exact-match allow-list, per
// the allowed-origins configuration key.
type AllowListCORS struct {
	origins     map[string]bool
	credentials bool
}

// NewAllowListCORS builds an AllowListCORS from a list of exact origin
// strings and the allow-credentials configuration flag.
func NewAllowListCORS(origins []string, credentials bool) *AllowListCORS {
	m := make(map[string]bool, len(origins))
	for _, o := range origins {
		m[o] = true
	}
	return &AllowListCORS{origins: m, credentials: credentials}
}

// Policy implements CORSAdapter.
func (c *AllowListCORS) Policy(origin string) CORSPolicy {
	if origin == "" || !c.origins[origin] {
		return CORSPolicy{}
	}
	return CORSPolicy{Allowed: true, Credentials: c.credentials}
}

// applyCORSHeaders sets the response headers required by §4.4 S1 when
// policy.Allowed, and does nothing otherwise (the disallowed-origin case is
// left for the browser to enforce; the request itself proceeds).
func applyCORSHeaders(w http.ResponseWriter, origin string, policy CORSPolicy) {
	if !policy.Allowed {
		return
	}
	h := w.Header()
	h.Set("Access-Control-Allow-Origin", origin)
	h.Set("Access-Control-Allow-Methods", "GET, OPTIONS")
	h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With, Accept, Origin, Cache-Control")
	h.Set("Access-Control-Max-Age", "3600")
	if policy.Credentials {
		h.Set("Access-Control-Allow-Credentials", "true")
	}
}
