// Package metrics holds the Prometheus collectors shared by the transport,
// the cache adapter and the development stub server.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Request modes.
const (
	ModeStandard = "standard"
	ModeScript   = "script"
)

// Cache lookup results.
const (
	CacheHit         = "hit"
	CacheMiss        = "miss"
	CacheUnavailable = "unavailable"
)

var (
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mstranslate_requests_total",
			Help: "Total number of requests issued to the translation service",
		},
		[]string{"mode", "outcome"},
	)

	requestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mstranslate_request_duration_seconds",
			Help:    "Duration of requests to the translation service in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1.0, 2.0, 5.0, 10.0, 30.0},
		},
		[]string{"mode"},
	)

	cacheLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mstranslate_cache_lookups_total",
			Help: "Total number of local cache lookups by result",
		},
		[]string{"result"},
	)

	cacheWritesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mstranslate_cache_writes_total",
			Help: "Total number of local cache writes by outcome",
		},
		[]string{"outcome"},
	)

	stubRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mstranslate_stub_requests_total",
			Help: "Total number of requests served by the development stub",
		},
		[]string{"endpoint", "status"},
	)
)

// RecordRequest records one finished request to the translation service.
func RecordRequest(mode string, duration time.Duration, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}

	requestsTotal.WithLabelValues(mode, outcome).Inc()
	requestDuration.WithLabelValues(mode).Observe(duration.Seconds())
}

// RecordCacheLookup records a cache lookup result (CacheHit, CacheMiss or
// CacheUnavailable).
func RecordCacheLookup(result string) {
	cacheLookupsTotal.WithLabelValues(result).Inc()
}

// RecordCacheWrite records a cache write.
func RecordCacheWrite(err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	cacheWritesTotal.WithLabelValues(outcome).Inc()
}

// RecordStubRequest records a request served by the development stub.
func RecordStubRequest(endpoint string, status int) {
	stubRequestsTotal.WithLabelValues(endpoint, statusClass(status)).Inc()
}

func statusClass(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
