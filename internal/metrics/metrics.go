// Package metrics exposes the Prometheus collectors for a running Server.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	// Registry is the dedicated Prometheus registry for the hub, kept
	// separate from the global default registry so embedding applications
	// can mount it wherever they like.
	Registry = prometheus.NewRegistry()

	// ActiveSubscribers is the number of currently streaming SSE connections.
	ActiveSubscribers = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "sseserver_active_subscribers",
		Help: "Number of currently connected SSE subscribers.",
	})

	// EventsDelivered counts events successfully written to a subscriber.
	EventsDelivered = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sseserver_events_delivered_total",
		Help: "Total events successfully delivered to subscribers.",
	})

	// AdmissionDenials counts subscribe requests rejected by the admission
	// adapter.
	AdmissionDenials = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sseserver_admission_denials_total",
		Help: "Total subscribe requests denied by the admission adapter.",
	})

	// ChannelsActiveGauge tracks how many channels currently exist in the
	// registry. Updated opportunistically by the admin status endpoint.
	ChannelsActiveGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "sseserver_channels_active",
		Help: "Number of channels currently present in the registry.",
	})
)

var regOnce sync.Once

// RegisterDefault registers all of the package's collectors on Registry,
// plus the standard Go/process collectors. Safe to call more than once.
func RegisterDefault() {
	regOnce.Do(func() {
		Registry.MustRegister(ActiveSubscribers, EventsDelivered, AdmissionDenials, ChannelsActiveGauge)
		Registry.MustRegister(collectors.NewGoCollector())
		Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	})
}
