package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder_RenderCompleted(t *testing.T) {
	registry := prometheus.NewRegistry()
	rec := NewRecorder(registry)

	rec.RenderCompleted(2*time.Millisecond, "")
	rec.RenderCompleted(time.Millisecond, "resolution")
	rec.RenderCompleted(time.Millisecond, "resolution")

	assert.Equal(t, float64(3), testutil.ToFloat64(rec.renders))
	assert.Equal(t, float64(2), testutil.ToFloat64(rec.renderFailures.WithLabelValues("resolution")))
	assert.Equal(t, 1, testutil.CollectAndCount(rec.renderDuration))
}

func TestRecorder_FetchCompleted(t *testing.T) {
	registry := prometheus.NewRegistry()
	rec := NewRecorder(registry)

	rec.FetchCompleted(true)
	rec.FetchCompleted(false)
	rec.FetchCompleted(false)

	assert.Equal(t, float64(1), testutil.ToFloat64(rec.fetches.WithLabelValues("success")))
	assert.Equal(t, float64(2), testutil.ToFloat64(rec.fetches.WithLabelValues("error")))
}

func TestRecorder_Nil(t *testing.T) {
	var rec *Recorder
	assert.NotPanics(t, func() {
		rec.RenderCompleted(time.Second, "x")
		rec.FetchCompleted(true)
	})
}

func TestRecorder_RegistersMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()
	rec := NewRecorder(registry)
	rec.RenderCompleted(time.Millisecond, "lookup")
	rec.FetchCompleted(true)

	families, err := registry.Gather()
	require.NoError(t, err)

	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.ElementsMatch(t, []string{
		"template_renders_total",
		"template_render_failures_total",
		"template_render_duration_seconds",
		"template_fetches_total",
	}, names)
}
