package prometheus

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector records service metrics using Prometheus
type Collector struct {
	httpRequests    *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
	httpInFlight    prometheus.Gauge
	featureRequests *prometheus.CounterVec
}

// NewCollector creates a new Prometheus metrics collector registered on reg
func NewCollector(reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)

	return &Collector{
		httpRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stratiq_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		httpDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "stratiq_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
			},
			[]string{"method", "route"},
		),
		httpInFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "stratiq_http_requests_in_flight",
				Help: "Number of HTTP requests currently being served",
			},
		),
		featureRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stratiq_feature_requests_total",
				Help: "Total number of feature requests",
			},
			[]string{"feature"},
		),
	}
}

// RecordHTTPRequest records a completed HTTP request
func (c *Collector) RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	c.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.httpDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// IncInFlight marks the start of an HTTP request
func (c *Collector) IncInFlight() {
	c.httpInFlight.Inc()
}

// DecInFlight marks the end of an HTTP request
func (c *Collector) DecInFlight() {
	c.httpInFlight.Dec()
}

// RecordFeatureRequest increments the count of requests for a feature
func (c *Collector) RecordFeatureRequest(feature string) {
	c.featureRequests.WithLabelValues(feature).Inc()
}
