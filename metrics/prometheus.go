package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "breez_sync"

// Исходы обработки одной записи каталога.
const (
	OutcomeCreated = "created"
	OutcomeUpdated = "updated"
	OutcomeSkipped = "skipped"
	OutcomeFailed  = "failed"
)

// Внешние сервисы, к которым ходят клиенты.
const (
	UpstreamBreez        = "breez"
	UpstreamWooCommerce  = "woocommerce"
	UpstreamWordPressRPC = "wordpress_xmlrpc"
)

var (
	apiRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "api_requests_total",
			Help:      "Requests served by the sync API.",
		},
		[]string{"method", "route", "status"},
	)
	apiLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "api_request_duration_seconds",
			Help:      "Latency of the sync API; sync triggers block until the run ends.",
			Buckets:   []float64{0.05, 0.25, 1, 5, 30, 120, 600},
		},
		[]string{"method", "route"},
	)
	upstreamRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_requests_total",
			Help:      "Outbound calls to the feed and the shop.",
		},
		[]string{"service", "method", "status"},
	)
	upstreamLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upstream_request_duration_seconds",
			Help:      "Latency of outbound calls.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service"},
	)
	items = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "items_total",
			Help:      "Catalog items handled by the synchronizer, by outcome.",
		},
		[]string{"operation", "outcome"},
	)
	runDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Duration of a synchronizer run.",
			Buckets:   []float64{1, 5, 15, 30, 60, 120, 300, 600, 1800},
		},
		[]string{"operation"},
	)
)

func init() {
	prometheus.MustRegister(apiRequests, apiLatency, upstreamRequests, upstreamLatency, items, runDuration)
}

// RecordRequest учитывает запрос к API; route - шаблон пути, а не сырой URL.
func RecordRequest(method, route string, statusCode int, duration time.Duration) {
	apiRequests.WithLabelValues(method, route, statusClass(statusCode)).Inc()
	apiLatency.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordUpstream учитывает исходящий вызов; statusCode 0 - транспортная ошибка.
func RecordUpstream(service, method string, statusCode int, duration time.Duration) {
	upstreamRequests.WithLabelValues(service, method, statusClass(statusCode)).Inc()
	upstreamLatency.WithLabelValues(service).Observe(duration.Seconds())
}

func RecordItem(operation, outcome string) {
	items.WithLabelValues(operation, outcome).Inc()
}

func RecordRun(operation string, duration time.Duration) {
	runDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

func statusClass(statusCode int) string {
	switch statusCode / 100 {
	case 0:
		return "error"
	case 2:
		return "2xx"
	case 3:
		return "3xx"
	case 4:
		return "4xx"
	case 5:
		return "5xx"
	}
	return "unknown"
}

func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
