package server

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"

	"github.com/ashwch/bol/internal/intent"
)

type Metrics struct {
	registry       *prometheus.Registry
	resolutions    *prometheus.CounterVec
	latency        *prometheus.HistogramVec
	sockets        prometheus.Gauge
	recordFailures prometheus.Counter
	handler        fasthttp.RequestHandler
}

func NewMetrics(registry *prometheus.Registry) *Metrics {
	factory := promauto.With(registry)
	m := &Metrics{
		registry: registry,
		resolutions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "bol_resolutions_total",
			Help: "Transcripts resolved, by intent kind and source.",
		}, []string{"kind", "source"}),
		latency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "bol_resolve_duration_seconds",
			Help:    "Time spent resolving a transcript.",
			Buckets: []float64{.00005, .0001, .00025, .0005, .001, .0025, .005, .01},
		}, []string{"source"}),
		sockets: factory.NewGauge(prometheus.GaugeOpts{
			Name: "bol_voice_connections",
			Help: "Open voice WebSocket connections.",
		}),
		recordFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "bol_record_failures_total",
			Help: "Resolutions that could not be written to the journal or usage store.",
		}),
	}
	m.handler = fasthttpadaptor.NewFastHTTPHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	return m
}

func (m *Metrics) observe(source string, kind intent.Kind, elapsed time.Duration) {
	m.resolutions.WithLabelValues(string(kind), source).Inc()
	m.latency.WithLabelValues(source).Observe(elapsed.Seconds())
}

func (m *Metrics) handle(c *fiber.Ctx) error {
	m.handler(c.Context())
	return nil
}
