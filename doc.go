/*
Package sseserver implements a reference Server-Sent Events broadcast hub,
suitable for streaming unidirectional messages over HTTP to web browsers and
other long-lived SSE clients.

Unlike the source this package evolved from, subscribers are grouped by a
flat "channel" name rather than a hierarchical path namespace: there is no
parent/child fan-out, a subscriber to "pets" never receives events broadcast
to "pets.cats". Grouping by exact channel name keeps the fan-out engine's
concurrency story simple and matches how the upstream broadcast service
(used for IoT device state transitions, workflow notifications, and
fleet-wide alerts) is actually driven.


Server-Sent Events

For more information on the SSE format itself, check out this fairly
comprehensive article:
http://www.html5rocks.com/en/tutorials/eventsource/basics/

Note that the implementation of SSE in this server intentionally does not
implement message IDs or payload parsing: a payload is an opaque string,
emitted verbatim on a single "data:" line.


Channels

The server opens a HTTP endpoint (by default /sse/broadcast) that accepts a
required "channel" query parameter. For example:

    HTTP GET /sse/broadcast?channel=pets        // subscribes to channel "pets"
    HTTP GET /sse/broadcast?channel=pets.cats    // subscribes to channel "pets.cats"

These are two entirely distinct channels: broadcasting to "pets" delivers
only to subscribers of "pets", never to subscribers of "pets.cats". Any
dot-delimited structure in a channel name is just convention in the string;
it has no effect on delivery.

Channels are created lazily, the first time LookupByChannelName (or a
subscribe request) is resolved against a given name; they are never created
by Broadcast alone, and are destroyed only by an explicit CloseChannel or
CloseAllChannels call. Idle channels with no listeners are never
automatically reclaimed.
*/
package sseserver
