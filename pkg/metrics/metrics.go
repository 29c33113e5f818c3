package metrics

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics набор метрик сервиса
// nil *Metrics допустим: все методы в этом случае ничего не делают
type Metrics struct {
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	dbQueryDuration *prometheus.HistogramVec
	dbOpenConns     prometheus.Gauge
	dbInUseConns    prometheus.Gauge
	dbIdleConns     prometheus.Gauge

	bookings          *prometheus.CounterVec
	bookingConflicts  *prometheus.CounterVec
	txRetries         prometheus.Counter
	statusDerivations *prometheus.CounterVec
	notifications     *prometheus.CounterVec
}

// New создает метрики и регистрирует их в глобальном реестре prometheus
func New(serviceName string) *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer, serviceName)
}

// NewWithRegistry создает метрики и регистрирует их в переданном реестре
func NewWithRegistry(reg prometheus.Registerer, serviceName string) *Metrics {
	ns := namespace(serviceName)

	m := &Metrics{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "http_requests_total",
			Help:      "Count of HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: ns,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		dbQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: ns,
			Name:      "db_query_duration_seconds",
			Help:      "Database query latency by operation and result.",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"operation", "result"}),
		dbOpenConns: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: ns,
			Name:      "db_open_connections",
			Help:      "Number of established database connections.",
		}),
		dbInUseConns: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: ns,
			Name:      "db_in_use_connections",
			Help:      "Number of database connections currently in use.",
		}),
		dbIdleConns: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: ns,
			Name:      "db_idle_connections",
			Help:      "Number of idle database connections.",
		}),
		bookings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "bookings_total",
			Help:      "Count of booking operations by operation and result.",
		}, []string{"operation", "result"}),
		bookingConflicts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "booking_conflicts_total",
			Help:      "Count of rejected booking windows by conflict kind.",
		}, []string{"kind"}),
		txRetries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "tx_retries_total",
			Help:      "Count of transactions restarted after serialization failure or deadlock.",
		}),
		statusDerivations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "status_derivations_total",
			Help:      "Count of vehicle status derivations by resulting status.",
		}, []string{"status"}),
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "notifications_total",
			Help:      "Count of notifications by delivery result.",
		}, []string{"result"}),
	}

	reg.MustRegister(
		m.httpRequests, m.httpDuration,
		m.dbQueryDuration, m.dbOpenConns, m.dbInUseConns, m.dbIdleConns,
		m.bookings, m.bookingConflicts, m.txRetries, m.statusDerivations, m.notifications,
	)

	return m
}

func (m *Metrics) ObserveHTTPRequest(method, route string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, statusLabel(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func (m *Metrics) ObserveDBQuery(operation string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.dbQueryDuration.WithLabelValues(operation, result).Observe(duration.Seconds())
}

func (m *Metrics) SetDBPoolStats(open, inUse, idle int) {
	if m == nil {
		return
	}
	m.dbOpenConns.Set(float64(open))
	m.dbInUseConns.Set(float64(inUse))
	m.dbIdleConns.Set(float64(idle))
}

func (m *Metrics) IncBooking(operation, result string) {
	if m == nil {
		return
	}
	m.bookings.WithLabelValues(operation, result).Inc()
}

func (m *Metrics) IncBookingConflict(kind string) {
	if m == nil {
		return
	}
	m.bookingConflicts.WithLabelValues(kind).Inc()
}

func (m *Metrics) IncTxRetry() {
	if m == nil {
		return
	}
	m.txRetries.Inc()
}

func (m *Metrics) IncStatusDerivation(status string) {
	if m == nil {
		return
	}
	m.statusDerivations.WithLabelValues(status).Inc()
}

func (m *Metrics) IncNotification(result string) {
	if m == nil {
		return
	}
	m.notifications.WithLabelValues(result).Inc()
}

func namespace(serviceName string) string {
	ns := strings.ToLower(strings.TrimSpace(serviceName))
	ns = strings.NewReplacer("-", "_", " ", "_", ".", "_").Replace(ns)
	if ns == "" {
		return "carvo"
	}
	return ns
}

func statusLabel(code int) string {
	switch {
	case code >= 500:
		return "5xx"
	case code >= 400:
		return "4xx"
	case code >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
