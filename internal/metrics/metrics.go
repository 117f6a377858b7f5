package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics bundles the process registry and the application counters.
type Metrics struct {
	Registry *prometheus.Registry

	RequestsTotal     *prometheus.CounterVec
	RequestDuration   *prometheus.HistogramVec
	TransactionsTotal *prometheus.CounterVec
	CategoryAdds      prometheus.Counter
	ExportsTotal      *prometheus.CounterVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	factory := promauto.With(reg)
	return &Metrics{
		Registry: reg,

		RequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "fintrack_http_requests_total",
			Help: "HTTP requests by method, path and status code.",
		}, []string{"method", "path", "status"}),

		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "fintrack_http_request_duration_seconds",
			Help:    "HTTP request latency by method and path.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),

		TransactionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "fintrack_transactions_total",
			Help: "Transaction mutations by operation.",
		}, []string{"op"}),

		CategoryAdds: factory.NewCounter(prometheus.CounterOpts{
			Name: "fintrack_category_adds_total",
			Help: "Successful category additions.",
		}),

		ExportsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "fintrack_exports_total",
			Help: "Spreadsheet export attempts by outcome.",
		}, []string{"outcome"}),
	}
}
