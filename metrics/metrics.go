package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestCounter counts HTTP requests by status code, method, and path
	RequestCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "partygames_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"status", "method", "path"},
	)

	// RequestDuration measures HTTP request duration
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "partygames_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"status", "method", "path"},
	)

	// ConnectedClients tracks live websocket connections
	ConnectedClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "partygames_connected_clients",
			Help: "Number of websocket clients currently connected",
		},
	)

	// EventsDelivered counts fan-out messages delivered to clients
	EventsDelivered = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "partygames_events_delivered_total",
			Help: "Total number of fan-out messages delivered to websocket clients",
		},
		[]string{"type"},
	)
)
