// Package metrics exposes the Prometheus collectors of the API process.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors registered on a private registry. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	registry          *prometheus.Registry
	predictions       *prometheus.CounterVec
	predictionLatency prometheus.Histogram
	chatRequests      *prometheus.CounterVec
	httpRequests      *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
	modelLoaded       prometheus.Gauge
}

// New creates and registers the collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		predictions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sugarsense_predictions_total",
			Help: "Risk predictions served, by risk label.",
		}, []string{"label"}),
		predictionLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "sugarsense_prediction_duration_seconds",
			Help:    "Time spent scaling and scoring one feature vector.",
			Buckets: []float64{.0005, .001, .0025, .005, .01, .025, .05, .1},
		}),
		chatRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sugarsense_chat_requests_total",
			Help: "Chat requests, by outcome.",
		}, []string{"outcome"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sugarsense_http_requests_total",
			Help: "HTTP requests, by method, route and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "sugarsense_http_request_duration_seconds",
			Help:    "HTTP request latency, by method and route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		modelLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "sugarsense_model_loaded",
			Help: "1 when trained model artifacts are being served.",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.predictions,
		m.predictionLatency,
		m.chatRequests,
		m.httpRequests,
		m.httpDuration,
		m.modelLoaded,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) ObservePrediction(label string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.predictions.WithLabelValues(label).Inc()
	m.predictionLatency.Observe(elapsed.Seconds())
}

func (m *Metrics) ObserveChat(outcome string) {
	if m == nil {
		return
	}
	m.chatRequests.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// SetModelLoaded records whether the predictor has artifacts to serve.
func (m *Metrics) SetModelLoaded(loaded bool) {
	if m == nil {
		return
	}
	if loaded {
		m.modelLoaded.Set(1)
	} else {
		m.modelLoaded.Set(0)
	}
}
