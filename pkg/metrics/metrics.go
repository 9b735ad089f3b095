package metrics

import (
	"database/sql"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "slot_booking"

// Metrics коллектор метрик сервиса
// Все методы безопасно вызывать на nil (метрики выключены)
type Metrics struct {
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	dbQueryDuration *prometheus.HistogramVec
	dbQueryErrors   *prometheus.CounterVec
	dbOpenConns     prometheus.Gauge
	dbInUseConns    prometheus.Gauge
	dbIdleConns     prometheus.Gauge
	dbWaitCount     prometheus.Gauge

	reservationsCreated *prometheus.CounterVec
	slotConflicts       prometheus.Counter
	cancellations       *prometheus.CounterVec
	pendingExpired      prometheus.Counter
	sideEffectFailures  *prometheus.CounterVec
}

// New регистрирует метрики в prometheus.DefaultRegisterer
func New(serviceName string) *Metrics {
	return NewWithRegisterer(serviceName, prometheus.DefaultRegisterer)
}

// NewWithRegisterer регистрирует метрики в указанном registerer
func NewWithRegisterer(serviceName string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	labels := prometheus.Labels{"service": serviceName}

	return &Metrics{
		httpRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: labels,
		}, []string{"method", "route", "status"}),
		httpDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   namespace,
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request latency",
			ConstLabels: labels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "route"}),

		dbQueryDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   namespace,
			Name:        "db_query_duration_seconds",
			Help:        "Database query latency",
			ConstLabels: labels,
			Buckets:     []float64{.001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"operation"}),
		dbQueryErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "db_query_errors_total",
			Help:        "Database query errors",
			ConstLabels: labels,
		}, []string{"operation"}),
		dbOpenConns: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        "db_open_connections",
			Help:        "Open connections in the pool",
			ConstLabels: labels,
		}),
		dbInUseConns: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        "db_in_use_connections",
			Help:        "Connections currently in use",
			ConstLabels: labels,
		}),
		dbIdleConns: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        "db_idle_connections",
			Help:        "Idle connections in the pool",
			ConstLabels: labels,
		}),
		dbWaitCount: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        "db_wait_count",
			Help:        "Total number of connections waited for",
			ConstLabels: labels,
		}),

		reservationsCreated: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "reservations_created_total",
			Help:        "Reservations created by initial status",
			ConstLabels: labels,
		}, []string{"status"}),
		slotConflicts: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "slot_conflicts_total",
			Help:        "Booking requests rejected because the interval was taken",
			ConstLabels: labels,
		}),
		cancellations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "reservations_cancelled_total",
			Help:        "Reservations cancelled by source",
			ConstLabels: labels,
		}, []string{"source"}),
		pendingExpired: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "pending_reservations_expired_total",
			Help:        "Pending reservations cancelled after the payment TTL",
			ConstLabels: labels,
		}),
		sideEffectFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "side_effect_failures_total",
			Help:        "Failed calls to external collaborators after commit",
			ConstLabels: labels,
		}, []string{"collaborator"}),
	}
}

func (m *Metrics) ObserveHTTPRequest(method, route string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func (m *Metrics) ObserveDBQuery(operation string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	m.dbQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if err != nil {
		m.dbQueryErrors.WithLabelValues(operation).Inc()
	}
}

func (m *Metrics) SetDBPoolStats(stats sql.DBStats) {
	if m == nil {
		return
	}
	m.dbOpenConns.Set(float64(stats.OpenConnections))
	m.dbInUseConns.Set(float64(stats.InUse))
	m.dbIdleConns.Set(float64(stats.Idle))
	m.dbWaitCount.Set(float64(stats.WaitCount))
}

func (m *Metrics) ReservationCreated(status string) {
	if m == nil {
		return
	}
	m.reservationsCreated.WithLabelValues(status).Inc()
}

func (m *Metrics) SlotConflict() {
	if m == nil {
		return
	}
	m.slotConflicts.Inc()
}

func (m *Metrics) ReservationCancelled(source string) {
	if m == nil {
		return
	}
	m.cancellations.WithLabelValues(source).Inc()
}

func (m *Metrics) PendingExpired(count int) {
	if m == nil {
		return
	}
	m.pendingExpired.Add(float64(count))
}

func (m *Metrics) SideEffectFailed(collaborator string) {
	if m == nil {
		return
	}
	m.sideEffectFailures.WithLabelValues(collaborator).Inc()
}
