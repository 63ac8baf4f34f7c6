package sseserver

import "github.com/google/uuid"

// Event carries one opaque payload out to every listener on a Channel.
//
// The source this system is adapted from additionally tags each event with
// the publishing channel's UUID and a nominal "source type". Neither is
// observable on the wire; they're retained here only because they're cheap
// and useful in debug traces (see internal/debug).
type Event struct {
	payload    string
	channelID  uuid.UUID
	sourceType string
}

func newEvent(payload string, channelID uuid.UUID) Event {
	return Event{payload: payload, channelID: channelID, sourceType: "broadcast"}
}

// Payload returns the opaque string data carried by the event.
func (e Event) Payload() string { return e.payload }

// sseFormat renders the event as the single `data: <payload>\n\n` line
// required by the wire format. Embedded newlines in payload are emitted
// verbatim on a single data: line, not split into multiple lines.
func (e Event) sseFormat() []byte {
	b := make([]byte, 0, len("data: ")+len(e.payload)+2)
	b = append(b, "data: "...)
	b = append(b, e.payload...)
	b = append(b, '\n', '\n')
	return b
}
