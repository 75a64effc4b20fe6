// Package metrics exposes Prometheus collectors for the channelwatch service.
package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ticksTotal                 *prometheus.CounterVec
	sourcesProcessedTotal      *prometheus.CounterVec
	fetchAttemptsTotal         *prometheus.CounterVec
	fetchDurationSeconds       prometheus.Histogram
	transcriptFetchesTotal     *prometheus.CounterVec
	recordsCreatedTotal        prometheus.Counter
	httpRequestsTotal          *prometheus.CounterVec
	httpRequestDurationSeconds *prometheus.HistogramVec

	once sync.Once
)

// Init initializes the Prometheus metrics collectors.
// It is safe to call this function multiple times.
func Init() {
	once.Do(func() {
		ticksTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "watch_ticks_total",
				Help: "Total number of hourly ticks executed, labeled by trigger hour.",
			},
			[]string{"hour"},
		)

		sourcesProcessedTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "watch_sources_processed_total",
				Help: "Total number of per-source processing attempts, labeled by outcome.",
			},
			[]string{"outcome"},
		)

		fetchAttemptsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "watch_fetch_attempts_total",
				Help: "Total number of listing-page fetch attempts, labeled by result.",
			},
			[]string{"result"},
		)

		fetchDurationSeconds = promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "watch_fetch_duration_seconds",
				Help:    "Histogram of listing-page fetch latencies.",
				Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
			},
		)

		transcriptFetchesTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "watch_transcript_fetches_total",
				Help: "Total number of transcript retrieval attempts, labeled by result.",
			},
			[]string{"result"},
		)

		recordsCreatedTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "watch_records_created_total",
				Help: "Total number of processed records created in the record store.",
			},
		)

		httpRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests, labeled by method and code.",
			},
			[]string{"method", "code"},
		)

		httpRequestDurationSeconds = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Histogram of HTTP request latencies, labeled by method and route.",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
			},
			[]string{"method", "route"},
		)
	})
}

// Handler returns an http.Handler for exposing Prometheus metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveTick increments the tick counter for a trigger hour.
func ObserveTick(hour int) {
	Init()
	ticksTotal.WithLabelValues(strconv.Itoa(hour)).Inc()
}

// ObserveSourceOutcome increments the per-source outcome counter.
func ObserveSourceOutcome(outcome string) {
	Init()
	sourcesProcessedTotal.WithLabelValues(outcome).Inc()
}

// ObserveFetchAttempt records one listing-page fetch attempt.
func ObserveFetchAttempt(result string, duration time.Duration) {
	Init()
	fetchAttemptsTotal.WithLabelValues(result).Inc()
	if duration > 0 {
		fetchDurationSeconds.Observe(duration.Seconds())
	}
}

// ObserveTranscriptFetch records one transcript retrieval attempt.
func ObserveTranscriptFetch(result string) {
	Init()
	transcriptFetchesTotal.WithLabelValues(result).Inc()
}

// ObserveRecordCreated increments the created-record counter.
func ObserveRecordCreated() {
	Init()
	recordsCreatedTotal.Inc()
}

// ObserveHTTPRequest increments the HTTP request metrics.
func ObserveHTTPRequest(method, route string, code int, duration time.Duration) {
	Init()
	httpRequestsTotal.WithLabelValues(method, strconv.Itoa(code)).Inc()
	httpRequestDurationSeconds.WithLabelValues(method, route).Observe(duration.Seconds())
}
