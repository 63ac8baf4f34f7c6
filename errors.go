package sseserver

import "errors"

// Sentinel errors surfaced synchronously to callers of the broadcast
// service. These are programmer-error-class signals per the error taxonomy:
// a caller passing a malformed channel name or an oversized payload gets one
// of these back immediately, never a panic.
var (
	// ErrInvalidChannelName is returned when a channel name fails the
	// ChannelName grammar (empty, too long, reserved _system prefix, or
	// contains characters outside [A-Za-z0-9._:-]).
	ErrInvalidChannelName = errors.New("sseserver: invalid channel name")

	// ErrPayloadTooLarge is returned when a payload exceeds the 64KiB limit.
	ErrPayloadTooLarge = errors.New("sseserver: payload exceeds 65536 bytes")

	// ErrRegistryLookup is returned when the registry fails to resolve or
	// create a channel for reasons unrelated to input validation.
	ErrRegistryLookup = errors.New("sseserver: registry lookup failed")
)
