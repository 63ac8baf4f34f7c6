package sseserver

import (
	"regexp"
	"strings"
)

const (
	maxChannelNameLen = 100
	maxPayloadBytes   = 65536
	reservedPrefix    = "_system"
)

// channelNameBody matches the character class allowed in a ChannelName, once
// the length bound and the reserved-prefix check (below) have passed. Go's
// regexp package is RE2 and has no negative lookahead, so the "not _system"
// half of the grammar is checked separately rather than folded into the
// pattern.
var channelNameBody = regexp.MustCompile(`^[A-Za-z0-9._:\-]{1,100}$`)

// ValidateChannelName reports whether name satisfies the ChannelName grammar:
// non-empty, 1-100 bytes, matching [A-Za-z0-9._:-]+, and not starting with
// the reserved "_system" prefix. Names are compared byte-exact.
func ValidateChannelName(name string) error {
	if len(name) == 0 || len(name) > maxChannelNameLen {
		return ErrInvalidChannelName
	}
	if strings.HasPrefix(name, reservedPrefix) {
		return ErrInvalidChannelName
	}
	if !channelNameBody.MatchString(name) {
		return ErrInvalidChannelName
	}
	return nil
}

// ValidatePayload reports whether payload fits within the 64KiB size limit.
// The system never parses payload contents, so no other check applies.
func ValidatePayload(payload string) error {
	if len(payload) > maxPayloadBytes {
		return ErrPayloadTooLarge
	}
	return nil
}
