package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"route", "method", "status"},
	)

	// Sync engine
	SyncRunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sync_runs_total",
			Help: "Completed synchronization runs by final status",
		},
		[]string{"status"}, // completed|failed
	)
	SyncTransactionsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "sync_transactions_total",
			Help: "Newly inserted transactions across all runs",
		},
	)
	SyncPagesFetched = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "sync_pages_fetched_total",
			Help: "Pages fetched from the transaction feed",
		},
	)
	RateLimitWaits = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "sync_rate_limit_waits_total",
			Help: "Times the fetch loop had to wait for rate-limit capacity",
		},
	)

	// Worker queue
	WorkerQueueDepth = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "worker_queue_depth",
			Help: "Current worker queue depth",
		},
	)
)

var Handler = promhttp.Handler

func Init() {
	prometheus.MustRegister(RequestsTotal)
	prometheus.MustRegister(SyncRunsTotal)
	prometheus.MustRegister(SyncTransactionsTotal)
	prometheus.MustRegister(SyncPagesFetched)
	prometheus.MustRegister(RateLimitWaits)
	prometheus.MustRegister(WorkerQueueDepth)
}
