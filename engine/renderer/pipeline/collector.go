package pipeline

import (
	"github.com/prometheus/client_golang/prometheus"
)

// StatisticsCollector exports pipeline statistics as Prometheus metrics.
// Observe must be called from the render thread; scraping happens on the
// HTTP goroutine and only touches the metric vectors.
type StatisticsCollector struct {
	BindingChanges *prometheus.CounterVec
	LiveResources  *prometheus.GaugeVec
}

func NewStatisticsCollector(reg prometheus.Registerer) (*StatisticsCollector, error) {
	c := &StatisticsCollector{
		BindingChanges: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "anima_gl_pipeline_binding_changes_total",
				Help: "Device state changes issued by the pipeline state",
			},
			[]string{"type"},
		),
		LiveResources: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "anima_gl_pipeline_live_resources",
				Help: "Device objects created through the pipeline state and not yet released",
			},
			[]string{"type"},
		),
	}
	if err := reg.Register(c.BindingChanges); err != nil {
		return nil, err
	}
	if err := reg.Register(c.LiveResources); err != nil {
		return nil, err
	}
	return c, nil
}

// Observe adds the state's current statistics window to the counters. Call
// it right before ResetStatistics.
func (c *StatisticsCollector) Observe(s *PipelineState) {
	stats := s.Statistics()
	c.BindingChanges.WithLabelValues("texture").Add(float64(stats.TextureBindingChanges))
	c.BindingChanges.WithLabelValues("vbo").Add(float64(stats.VBOBindingChanges))
	c.BindingChanges.WithLabelValues("vao").Add(float64(stats.VAOBindingChanges))
	c.BindingChanges.WithLabelValues("program").Add(float64(stats.ProgramBindingChanges))
	c.BindingChanges.WithLabelValues("clear_color").Add(float64(stats.ClearColorChanges))

	c.LiveResources.WithLabelValues("buffer").Set(float64(s.LiveBuffers()))
	c.LiveResources.WithLabelValues("vertex_array").Set(float64(s.LiveVertexArrays()))
}
