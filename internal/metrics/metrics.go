package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics agrupa os coletores do painel. Cada instância tem seu próprio
// registry, o que permite criar várias nos testes.
type Metrics struct {
	registry *prometheus.Registry

	FetchTotal    *prometheus.CounterVec
	FetchDuration prometheus.Histogram
	QueueSize     prometheus.Gauge
	HTTPRequests  *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		FetchTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fila_fetch_total",
				Help: "Upstream queue fetches by outcome",
			},
			[]string{"outcome"},
		),
		FetchDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "fila_fetch_duration_seconds",
				Help:    "Duration of upstream queue fetches",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
		),
		QueueSize: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "fila_queue_size",
				Help: "Appointments waiting in the last applied snapshot",
			},
		),
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
	}

	m.registry.MustRegister(m.FetchTotal, m.FetchDuration, m.QueueSize, m.HTTPRequests)
	return m
}

func (m *Metrics) ObserveFetch(outcome string, d time.Duration) {
	m.FetchTotal.WithLabelValues(outcome).Inc()
	m.FetchDuration.Observe(d.Seconds())
}

func (m *Metrics) SetQueueSize(n int) {
	m.QueueSize.Set(float64(n))
}

func (m *Metrics) Handler() gin.HandlerFunc {
	h := promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
	return gin.WrapH(h)
}

// Middleware counts requests by route template, not raw path.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		m.HTTPRequests.WithLabelValues(
			c.Request.Method,
			path,
			strconv.Itoa(c.Writer.Status()),
		).Inc()
	}
}
