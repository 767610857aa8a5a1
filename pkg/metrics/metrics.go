package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics набор Prometheus-метрик сервиса
type Metrics struct {
	// HTTP метрики
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Метрики БД
	DBQueryDuration *prometheus.HistogramVec
	DBQueryErrors   *prometheus.CounterVec
	DBPoolOpenConns prometheus.Gauge
	DBPoolIdleConns prometheus.Gauge
	DBPoolInUse     prometheus.Gauge

	// Метрики движка виртуальной очереди
	QueueTicksTotal         *prometheus.CounterVec
	QueueTickDuration       prometheus.Histogram
	QueueShopErrorsTotal    prometheus.Counter
	QueueReservationsTotal  prometheus.Counter
	QueueNotificationsTotal *prometheus.CounterVec
	QueueExpiredTotal       prometheus.Counter
	QueueEntriesWithoutSlot prometheus.Counter
}

// New создает и регистрирует метрики в default registry
func New(serviceName string) *Metrics {
	constLabels := prometheus.Labels{"service": serviceName}

	return &Metrics{
		HTTPRequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: constLabels,
		}, []string{"method", "path", "status"}),

		HTTPRequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request duration in seconds",
			ConstLabels: constLabels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "path"}),

		DBQueryDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database query duration in seconds",
			ConstLabels: constLabels,
			Buckets:     []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}, []string{"operation"}),

		DBQueryErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "db_query_errors_total",
			Help:        "Total number of database query errors",
			ConstLabels: constLabels,
		}, []string{"operation"}),

		DBPoolOpenConns: promauto.NewGauge(prometheus.GaugeOpts{
			Name:        "db_pool_open_connections",
			Help:        "Number of open connections in the pool",
			ConstLabels: constLabels,
		}),

		DBPoolIdleConns: promauto.NewGauge(prometheus.GaugeOpts{
			Name:        "db_pool_idle_connections",
			Help:        "Number of idle connections in the pool",
			ConstLabels: constLabels,
		}),

		DBPoolInUse: promauto.NewGauge(prometheus.GaugeOpts{
			Name:        "db_pool_in_use_connections",
			Help:        "Number of connections currently in use",
			ConstLabels: constLabels,
		}),

		QueueTicksTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "queue_ticks_total",
			Help:        "Total number of queue monitor ticks",
			ConstLabels: constLabels,
		}, []string{"status"}),

		QueueTickDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:        "queue_tick_duration_seconds",
			Help:        "Queue monitor tick duration in seconds",
			ConstLabels: constLabels,
			Buckets:     []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 15, 30},
		}),

		QueueShopErrorsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name:        "queue_shop_errors_total",
			Help:        "Total number of per-shop processing failures",
			ConstLabels: constLabels,
		}),

		QueueReservationsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name:        "queue_reservations_total",
			Help:        "Total number of provisional reservations created",
			ConstLabels: constLabels,
		}),

		QueueNotificationsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "queue_notifications_total",
			Help:        "Total number of queue notifications by outcome",
			ConstLabels: constLabels,
		}, []string{"status"}),

		QueueExpiredTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name:        "queue_reservations_expired_total",
			Help:        "Total number of provisional reservations reclaimed on expiry",
			ConstLabels: constLabels,
		}),

		QueueEntriesWithoutSlot: promauto.NewCounter(prometheus.CounterOpts{
			Name:        "queue_entries_without_slot_total",
			Help:        "Total number of entries left waiting because no slot was found",
			ConstLabels: constLabels,
		}),
	}
}
