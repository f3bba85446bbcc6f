package observability

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "hwcctl",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total admin HTTP requests.",
		},
		[]string{"service", "method", "path", "status"},
	)
	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "hwcctl",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Admin HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "method", "path", "status"},
	)
	dispatchRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "hwcctl",
			Subsystem: "dispatch",
			Name:      "requests_total",
			Help:      "Dispatched control operations by result status.",
		},
		[]string{"service", "op", "status"},
	)
	dispatchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "hwcctl",
			Subsystem: "dispatch",
			Name:      "duration_seconds",
			Help:      "Control operation handling time in seconds.",
			Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1},
		},
		[]string{"service", "op"},
	)
	notifications = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "hwcctl",
			Subsystem: "notify",
			Name:      "deliveries_total",
			Help:      "Service notifications fired, by kind.",
		},
		[]string{"service", "kind"},
	)
	activeConnections = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "hwcctl",
			Subsystem: "dispatch",
			Name:      "active_connections",
			Help:      "Client connections currently attached.",
		},
		[]string{"service"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(httpRequests, httpDuration, dispatchRequests, dispatchDuration, notifications, activeConnections)
	})
}

func RecordHTTPRequest(service, method, path string, status int, duration time.Duration) {
	RegisterMetrics()
	statusLabel := strconv.Itoa(status)
	httpRequests.WithLabelValues(service, method, path, statusLabel).Inc()
	httpDuration.WithLabelValues(service, method, path, statusLabel).Observe(duration.Seconds())
}

// RecordDispatch counts one handled operation. status is the name of the
// result code, e.g. "OK" or "BAD_VALUE".
func RecordDispatch(service, op, status string, duration time.Duration) {
	RegisterMetrics()
	dispatchRequests.WithLabelValues(service, op, status).Inc()
	dispatchDuration.WithLabelValues(service, op).Observe(duration.Seconds())
}

func RecordNotification(service, kind string) {
	RegisterMetrics()
	notifications.WithLabelValues(service, kind).Inc()
}

func AddConnections(service string, delta int) {
	RegisterMetrics()
	activeConnections.WithLabelValues(service).Add(float64(delta))
}
