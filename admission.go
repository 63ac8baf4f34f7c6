package sseserver

import "net/http"

// AdmissionAdapter resolves or rejects the caller's identity for a subscribe
// request. When the request is allowed, the adapter itself invokes run
// inside whatever per-connection scope it wants established (e.g. a
// session-bound context opened just before streaming and closed on
// teardown); when denied, run is never invoked and reason explains why.
type AdmissionAdapter interface {
	Authorize(r *http.Request, run func()) (allowed bool, reason string)
}

// BypassAdmission skips all checks and runs every request inside an
// anonymous identity scope. This is the admission mode selected by the
// bypass-authentication configuration key.
type BypassAdmission struct{}

// Authorize implements AdmissionAdapter.
func (BypassAdmission) Authorize(r *http.Request, run func()) (bool, string) {
	run()
	return true, ""
}

// SessionAdmission requires a pre-existing session carried on the request.
// HasSession reports whether one is present; OpenScope, if set, establishes
// a session-bound identity scope around run and is responsible for tearing
// it down once run returns.
type SessionAdmission struct {
	HasSession func(r *http.Request) bool
	OpenScope  func(r *http.Request) (closeScope func())
}

// DefaultDenyReason is the reason text used when a session-backed admission
// adapter denies a request, matching the wire-level contract that the
// response body must contain "Authentication required".
const DefaultDenyReason = "Authentication required to subscribe to broadcast channel"

// Authorize implements AdmissionAdapter.
func (s SessionAdmission) Authorize(r *http.Request, run func()) (bool, string) {
	if s.HasSession == nil || !s.HasSession(r) {
		return false, DefaultDenyReason
	}

	var closeScope func()
	if s.OpenScope != nil {
		closeScope = s.OpenScope(r)
	}
	if closeScope != nil {
		defer closeScope()
	}
	run()
	return true, ""
}
