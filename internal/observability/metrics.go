package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce          sync.Once
	apiRequestsTotal      *prometheus.CounterVec
	apiLatencySeconds     *prometheus.HistogramVec
	apiErrorsTotal        *prometheus.CounterVec
	usersCreatedTotal     *prometheus.CounterVec
	statsCacheHitsTotal   prometheus.Counter
	statsCacheMissesTotal prometheus.Counter
)

// RegisterMetrics initialises the Prometheus collectors used by the API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		apiRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "edudesk_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		apiLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "edudesk_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		apiErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "edudesk_errors_total",
			Help: "Total number of error responses returned by the API.",
		}, []string{"method", "route", "status"})

		usersCreatedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "edudesk_users_created_total",
			Help: "Total number of user accounts created, by role.",
		}, []string{"role"})

		statsCacheHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "edudesk_stats_cache_hits_total",
			Help: "Growth-stats lookups served from cache.",
		})

		statsCacheMissesTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "edudesk_stats_cache_misses_total",
			Help: "Growth-stats lookups that required an aggregation pass.",
		})

		prometheus.MustRegister(
			apiRequestsTotal,
			apiLatencySeconds,
			apiErrorsTotal,
			usersCreatedTotal,
			statsCacheHitsTotal,
			statsCacheMissesTotal,
		)
	})
}

// Requests exposes the counter for API requests.
func Requests() *prometheus.CounterVec {
	RegisterMetrics()
	return apiRequestsTotal
}

// Latency exposes the latency histogram for API requests.
func Latency() *prometheus.HistogramVec {
	RegisterMetrics()
	return apiLatencySeconds
}

// Errors exposes the counter for API error responses.
func Errors() *prometheus.CounterVec {
	RegisterMetrics()
	return apiErrorsTotal
}

// UsersCreated exposes the per-role user creation counter.
func UsersCreated() *prometheus.CounterVec {
	RegisterMetrics()
	return usersCreatedTotal
}

// StatsCacheHits exposes the growth-stats cache hit counter.
func StatsCacheHits() prometheus.Counter {
	RegisterMetrics()
	return statsCacheHitsTotal
}

// StatsCacheMisses exposes the growth-stats cache miss counter.
func StatsCacheMisses() prometheus.Counter {
	RegisterMetrics()
	return statsCacheMissesTotal
}
