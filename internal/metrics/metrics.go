package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTPRequests counts served requests by route pattern, method and status.
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skillswap_http_requests_total",
			Help: "HTTP requests served, by route, method and status code",
		},
		[]string{"route", "method", "status"},
	)

	// HTTPDuration tracks request latency by route pattern.
	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "skillswap_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)

	// UpstreamRequests counts calls to the hosted backend.
	UpstreamRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skillswap_upstream_requests_total",
			Help: "Requests made to the hosted backend, by service and outcome",
		},
		[]string{"service", "outcome"},
	)

	// UpstreamDuration tracks hosted backend latency.
	UpstreamDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "skillswap_upstream_request_duration_seconds",
			Help:    "Hosted backend request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service"},
	)

	// SessionEvents counts session lifecycle transitions.
	SessionEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skillswap_session_events_total",
			Help: "Session events: magic_link_sent, signed_in, signed_out, refresh_failed",
		},
		[]string{"event"},
	)

	// ProfileWrites counts profile saves and avatar uploads by result.
	ProfileWrites = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skillswap_profile_writes_total",
			Help: "Profile saves and avatar uploads, by kind and result",
		},
		[]string{"kind", "result"},
	)
)

// Outcome labels.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// Outcome maps an error to an outcome label.
func Outcome(err error) string {
	if err != nil {
		return OutcomeError
	}
	return OutcomeOK
}

// ObserveUpstream records one hosted backend call.
func ObserveUpstream(service string, start time.Time, err error) {
	UpstreamRequests.WithLabelValues(service, Outcome(err)).Inc()
	UpstreamDuration.WithLabelValues(service).Observe(time.Since(start).Seconds())
}

// ObserveHTTP records one served request.
func ObserveHTTP(route, method string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	HTTPRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	HTTPDuration.WithLabelValues(route).Observe(elapsed.Seconds())
}

// NewServer returns an HTTP server exposing /metrics on addr.
func NewServer(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
