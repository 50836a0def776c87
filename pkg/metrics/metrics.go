// Package metrics Prometheus-метрики сервиса: HTTP, база данных и доменные счетчики.
// Все методы безопасны для nil-получателя, чтобы слои работали при выключенных метриках.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics набор коллекторов сервиса
type Metrics struct {
	registry *prometheus.Registry

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	dbQueryDuration *prometheus.HistogramVec
	dbQueryErrors   *prometheus.CounterVec
	dbOpenConns     prometheus.Gauge
	dbInUseConns    prometheus.Gauge
	dbIdleConns     prometheus.Gauge

	reservationsCreated   *prometheus.CounterVec
	reservationsCancelled prometheus.Counter
	reservationsNoShow    prometheus.Counter
	allocationConflicts   *prometheus.CounterVec
	slotsSeeded           prometheus.Counter
	cacheRequests         *prometheus.CounterVec
	eventsPublished       *prometheus.CounterVec
}

// New создает метрики с собственным реестром
func New(serviceName string) *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	labels := prometheus.Labels{"service": serviceName}
	m := &Metrics{
		registry: reg,
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: labels,
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request latency",
			ConstLabels: labels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "route"}),
		dbQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database query latency",
			ConstLabels: labels,
			Buckets:     []float64{.001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"operation"}),
		dbQueryErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "db_query_errors_total",
			Help:        "Database query errors",
			ConstLabels: labels,
		}, []string{"operation"}),
		dbOpenConns: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "db_open_connections",
			Help:        "Open database connections",
			ConstLabels: labels,
		}),
		dbInUseConns: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "db_in_use_connections",
			Help:        "Database connections in use",
			ConstLabels: labels,
		}),
		dbIdleConns: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "db_idle_connections",
			Help:        "Idle database connections",
			ConstLabels: labels,
		}),
		reservationsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "reservations_created_total",
			Help:        "Reservations committed by the allocator",
			ConstLabels: labels,
		}, []string{"mode"}),
		reservationsCancelled: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "reservations_cancelled_total",
			Help:        "Reservations cancelled",
			ConstLabels: labels,
		}),
		reservationsNoShow: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "reservations_no_show_total",
			Help:        "Reservations marked as no-show",
			ConstLabels: labels,
		}),
		allocationConflicts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "allocation_conflicts_total",
			Help:        "Rejected allocations by reason",
			ConstLabels: labels,
		}, []string{"reason"}),
		slotsSeeded: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "slots_seeded_total",
			Help:        "Time slots created by the slot catalog",
			ConstLabels: labels,
		}),
		cacheRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "availability_cache_requests_total",
			Help:        "Availability cache lookups by result",
			ConstLabels: labels,
		}, []string{"result"}),
		eventsPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "reservation_events_published_total",
			Help:        "Reservation events handed to the broker",
			ConstLabels: labels,
		}, []string{"event", "result"}),
	}

	reg.MustRegister(
		m.httpRequests, m.httpDuration,
		m.dbQueryDuration, m.dbQueryErrors, m.dbOpenConns, m.dbInUseConns, m.dbIdleConns,
		m.reservationsCreated, m.reservationsCancelled, m.reservationsNoShow,
		m.allocationConflicts, m.slotsSeeded, m.cacheRequests, m.eventsPublished,
	)

	return m
}

// Handler HTTP-обработчик для эндпоинта /metrics
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry возвращает реестр (используется в тестах)
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) ObserveHTTPRequest(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func (m *Metrics) ObserveDBQuery(operation string, d time.Duration, err error) {
	if m == nil {
		return
	}
	m.dbQueryDuration.WithLabelValues(operation).Observe(d.Seconds())
	if err != nil {
		m.dbQueryErrors.WithLabelValues(operation).Inc()
	}
}

func (m *Metrics) SetDBPoolStats(open, inUse, idle int) {
	if m == nil {
		return
	}
	m.dbOpenConns.Set(float64(open))
	m.dbInUseConns.Set(float64(inUse))
	m.dbIdleConns.Set(float64(idle))
}

func (m *Metrics) IncReservationCreated(mode string) {
	if m == nil {
		return
	}
	m.reservationsCreated.WithLabelValues(mode).Inc()
}

func (m *Metrics) IncReservationCancelled() {
	if m == nil {
		return
	}
	m.reservationsCancelled.Inc()
}

func (m *Metrics) IncReservationNoShow() {
	if m == nil {
		return
	}
	m.reservationsNoShow.Inc()
}

func (m *Metrics) IncAllocationConflict(reason string) {
	if m == nil {
		return
	}
	m.allocationConflicts.WithLabelValues(reason).Inc()
}

func (m *Metrics) AddSlotsSeeded(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.slotsSeeded.Add(float64(n))
}

// IncCacheRequest result: hit | miss | error
func (m *Metrics) IncCacheRequest(result string) {
	if m == nil {
		return
	}
	m.cacheRequests.WithLabelValues(result).Inc()
}

// IncEventPublished result: ok | error
func (m *Metrics) IncEventPublished(event, result string) {
	if m == nil {
		return
	}
	m.eventsPublished.WithLabelValues(event, result).Inc()
}
