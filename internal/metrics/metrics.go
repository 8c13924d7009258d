package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "labstatus",
			Name:      "http_requests_total",
			Help:      "Count of HTTP requests by endpoint.",
		},
		[]string{"endpoint"},
	)

	statusCache = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "labstatus",
			Name:      "status_cache_total",
			Help:      "Status cache lookups by computation kind and result.",
		},
		[]string{"kind", "result"},
	)

	upstreamErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "labstatus",
			Name:      "upstream_errors_total",
			Help:      "Failed status store reads by operation.",
		},
		[]string{"op"},
	)

	rateLimited = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "labstatus",
			Name:      "rate_limited_total",
			Help:      "Count of requests rejected by the rate limiter.",
		},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(httpRequests, statusCache, upstreamErrors, rateLimited)
	})
}

func IncHTTP(endpoint string) {
	httpRequests.WithLabelValues(endpoint).Inc()
}

func IncCache(kind, result string) {
	statusCache.WithLabelValues(kind, result).Inc()
}

func IncUpstreamError(op string) {
	upstreamErrors.WithLabelValues(op).Inc()
}

func IncRateLimited() {
	rateLimited.Inc()
}
