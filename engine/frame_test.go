package engine

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/anima-gl/engine/config"
	"github.com/spaghettifunk/anima-gl/engine/math"
	"github.com/spaghettifunk/anima-gl/engine/renderer/device"
	"github.com/spaghettifunk/anima-gl/engine/renderer/device/devicetest"
	"github.com/spaghettifunk/anima-gl/engine/renderer/pipeline"
)

func TestApplyConfigSetsClearColorOnce(t *testing.T) {
	rec := devicetest.NewRecorder()
	state := pipeline.NewPipelineState(rec)

	cfg, err := config.Parse([]byte("[renderer]\nclear_color = [255, 0, 0, 255]\n"))
	require.NoError(t, err)

	assert.Same(t, cfg, applyConfig(state, cfg))
	applyConfig(state, cfg)

	assert.Equal(t, math.ColorFromRGBA(255, 0, 0, 255), state.ClearColor())
	assert.Equal(t, 1, rec.Count(devicetest.OpClearColor))
}

func TestEndFrame(t *testing.T) {
	rec := devicetest.NewRecorder()
	state := pipeline.NewPipelineState(rec)
	reg := prometheus.NewRegistry()
	collector, err := pipeline.NewStatisticsCollector(reg)
	require.NoError(t, err)

	vao, err := state.CreateVertexArray()
	require.NoError(t, err)
	state.SetVertexArrayObject(vao)

	require.NoError(t, endFrame(state, collector))
	assert.Zero(t, state.Statistics().Total())
	assert.Equal(t, float64(1), testutil.ToFloat64(collector.BindingChanges.WithLabelValues("vao")))
	assert.Equal(t, float64(1), testutil.ToFloat64(collector.LiveResources.WithLabelValues("vertex_array")))

	rec.PendingErrors = []uint32{uint32(device.InvalidOperation)}
	assert.Error(t, endFrame(state, nil))

	state.DeleteVertexArray(vao)
	require.NoError(t, state.Close())
}

func TestReloadKeepsNewest(t *testing.T) {
	e := &Engine{reloads: make(chan *config.Config, 1)}
	first, second := config.Default(), config.Default()

	e.Reload(first)
	e.Reload(second)

	assert.Same(t, second, <-e.reloads)
	assert.Empty(t, e.reloads)
}

func TestNewRejectsMissingConfig(t *testing.T) {
	_, err := New(&Game{ApplicationConfig: &ApplicationConfig{}}, nil)
	assert.Error(t, err)

	e, err := New(&Game{ApplicationConfig: &ApplicationConfig{Config: config.Default()}}, prometheus.NewRegistry())
	require.NoError(t, err)
	assert.Equal(t, EngineStageUninitialized, e.Stage())
	w, h := e.GetFramebufferSize()
	assert.Equal(t, 1280, w)
	assert.Equal(t, 720, h)
}
