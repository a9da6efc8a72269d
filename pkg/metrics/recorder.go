// Package metrics records template engine activity as Prometheus metrics.
//
// All metrics are registered against a caller supplied prometheus.Registerer;
// the global default registry is never used.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder holds the template engine metrics. A nil *Recorder is valid and
// records nothing.
type Recorder struct {
	renders        prometheus.Counter
	renderFailures *prometheus.CounterVec
	renderDuration prometheus.Histogram
	fetches        *prometheus.CounterVec
}

// NewRecorder creates and registers the engine metrics.
//
// Example:
//
//	registry := prometheus.NewRegistry()
//	rec := metrics.NewRecorder(registry)
//	tmpl, _ := template.FromMarkup(markup, template.WithMetrics(rec))
func NewRecorder(registry prometheus.Registerer) *Recorder {
	factory := promauto.With(registry)
	return &Recorder{
		renders: factory.NewCounter(prometheus.CounterOpts{
			Name: "template_renders_total",
			Help: "Total number of template renders",
		}),
		renderFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "template_render_failures_total",
			Help: "Total number of failed template renders by error kind",
		}, []string{"kind"}),
		renderDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "template_render_duration_seconds",
			Help:    "Template render duration in seconds",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}),
		fetches: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "template_fetches_total",
			Help: "Total number of remote template fetches by result",
		}, []string{"result"}),
	}
}

// RenderCompleted records a render. kind is empty for a successful render.
func (r *Recorder) RenderCompleted(d time.Duration, kind string) {
	if r == nil {
		return
	}
	r.renders.Inc()
	r.renderDuration.Observe(d.Seconds())
	if kind != "" {
		r.renderFailures.WithLabelValues(kind).Inc()
	}
}

// FetchCompleted records a remote fetch
func (r *Recorder) FetchCompleted(ok bool) {
	if r == nil {
		return
	}
	result := "success"
	if !ok {
		result = "error"
	}
	r.fetches.WithLabelValues(result).Inc()
}
