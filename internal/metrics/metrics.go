// Package metrics registers the Prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "folio"

// Cache lookup results
const (
	CacheHit  = "hit"
	CacheMiss = "miss"
)

// Upstream request outcomes
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

var (
	screenshotLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "screenshot_cache_lookups_total",
		Help:      "Screenshot cache lookups by result.",
	}, []string{"result"})

	screenshotRenderFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "screenshot_render_failures_total",
		Help:      "Screenshot renders that failed and fell back to the placeholder.",
	})

	upstreamRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "upstream_requests_total",
		Help:      "Repository host listing requests by outcome.",
	}, []string{"outcome"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by route and status.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
)

func ObserveScreenshotLookup(result string) {
	screenshotLookups.WithLabelValues(result).Inc()
}

func ObserveScreenshotFailure() {
	screenshotRenderFailures.Inc()
}

func ObserveUpstream(err error) {
	if err != nil {
		upstreamRequests.WithLabelValues(OutcomeFailure).Inc()
		return
	}
	upstreamRequests.WithLabelValues(OutcomeSuccess).Inc()
}

func ObserveRequest(method, route string, status int, elapsed time.Duration) {
	requestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(elapsed.Seconds())
}

// Handler serves the default registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}
