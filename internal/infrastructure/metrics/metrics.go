package metrics

import (
	"strconv"
	"time"

	"github.com/JonaTomas14/InsumosArica/internal/application/inventory"
	"github.com/JonaTomas14/InsumosArica/internal/domain/entity"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ inventory.PostingMetrics = (*Metrics)(nil)

// Metrics colectores Prometheus de la API y del motor de posteo.
type Metrics struct {
	gatherer prometheus.Gatherer

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	postsTotal          *prometheus.CounterVec
	postDuration        *prometheus.HistogramVec
}

// New registra los colectores con el prefijo dado. reg nil = registro propio (tests).
func New(prefix string, reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	f := promauto.With(reg)
	return &Metrics{
		gatherer: reg,
		httpRequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		httpRequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    prefix + "_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),
		postsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_movement_posts_total",
				Help: "Movement posting attempts by kind and result",
			},
			[]string{"kind", "result"},
		),
		postDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    prefix + "_movement_post_duration_seconds",
				Help:    "Duration of movement posting transactions in seconds",
				Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"kind"},
		),
	}
}

// ObservePost registra el resultado de un posteo.
func (m *Metrics) ObservePost(kind entity.MovementKind, result string, elapsed time.Duration) {
	m.postsTotal.WithLabelValues(string(kind), result).Inc()
	m.postDuration.WithLabelValues(string(kind)).Observe(elapsed.Seconds())
}

// Middleware mide cada request usando la ruta registrada (no la URL) como etiqueta.
func (m *Metrics) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		labels := []string{c.Method(), c.Route().Path, strconv.Itoa(status)}
		m.httpRequestsTotal.WithLabelValues(labels...).Inc()
		m.httpRequestDuration.WithLabelValues(labels...).Observe(time.Since(start).Seconds())
		return err
	}
}

// Handler expone /metrics.
func (m *Metrics) Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{}))
}
