package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the prometheus collectors for the HTTP surface.
type Metrics struct {
	Requests    *prometheus.CounterVec
	LatencyMS   *prometheus.HistogramVec
	CartOps     *prometheus.CounterVec
	FetchErrors prometheus.Counter
}

func New(service string) *Metrics {
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sokoni",
		Subsystem: service,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests.",
	}, []string{"handler", "status"})
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "sokoni",
		Subsystem: service,
		Name:      "http_request_duration_ms",
		Help:      "HTTP request latency in milliseconds.",
		Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
	}, []string{"handler"})
	cartOps := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sokoni",
		Subsystem: service,
		Name:      "cart_ops_total",
		Help:      "Cart mutations by operation.",
	}, []string{"op"})
	fetchErrors := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "sokoni",
		Subsystem: service,
		Name:      "catalog_fetch_errors_total",
		Help:      "Failed catalog/search fetches.",
	})
	prometheus.MustRegister(requests, latency, cartOps, fetchErrors)
	return &Metrics{
		Requests:    requests,
		LatencyMS:   latency,
		CartOps:     cartOps,
		FetchErrors: fetchErrors,
	}
}

// NewFetchDiscards registers the stale-response counter for a process that
// owns a catalog.Browser; it satisfies catalog.DiscardCounter.
func NewFetchDiscards(service string) prometheus.Counter {
	c := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "sokoni",
		Subsystem: service,
		Name:      "catalog_fetch_discards_total",
		Help:      "Stale catalog responses discarded by the latest-wins guard.",
	})
	prometheus.MustRegister(c)
	return c
}

// Handler exposes the default registry over HTTP.
func Handler() http.Handler {
	return promhttp.Handler()
}
