package metrics

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/iota-uz/clubs/pkg/application"
)

const DefaultPath = "/debug/prometheus"

type PrometheusController struct {
	path     string
	gatherer prometheus.Gatherer
	guard    mux.MiddlewareFunc
}

type Option func(*PrometheusController)

// WithGatherer serves a registry other than the process default.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(c *PrometheusController) { c.gatherer = g }
}

// WithGuard wraps the metrics endpoint, typically with middleware.OpsGuard.
func WithGuard(guard mux.MiddlewareFunc) Option {
	return func(c *PrometheusController) { c.guard = guard }
}

func NewPrometheusController(path string, opts ...Option) application.Controller {
	if path == "" {
		path = DefaultPath
	}
	c := &PrometheusController{path: path, gatherer: prometheus.DefaultGatherer}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *PrometheusController) Key() string {
	return c.path
}

func (c *PrometheusController) Register(r *mux.Router) {
	var h http.Handler = promhttp.HandlerFor(c.gatherer, promhttp.HandlerOpts{})
	if c.guard != nil {
		h = c.guard(h)
	}
	r.Handle(c.path, h).Methods(http.MethodGet)
}
