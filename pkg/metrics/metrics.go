package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ActiveConnections tracks currently admitted websocket connections.
	ActiveConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "wayfarer_realtime_active_connections",
			Help: "Number of admitted realtime connections",
		},
	)

	// EventsProcessed counts inbound realtime events by name and result (ok|error).
	EventsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wayfarer_realtime_events_total",
			Help: "Total number of processed realtime events",
		},
		[]string{"event", "result"},
	)

	// Broadcasts counts fanout deliveries by outbound event name.
	Broadcasts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wayfarer_realtime_broadcasts_total",
			Help: "Total number of messages fanned out to room members",
		},
		[]string{"event"},
	)

	// StoreLatency measures document-store round trips issued by realtime handlers.
	StoreLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "wayfarer_store_latency_seconds",
			Help:    "Document store operation latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	// HandshakeRejections counts refused connection attempts by reason.
	HandshakeRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wayfarer_realtime_handshake_rejections_total",
			Help: "Total number of rejected websocket handshakes",
		},
		[]string{"reason"},
	)
)
