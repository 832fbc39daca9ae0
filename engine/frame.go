package engine

import (
	"github.com/spaghettifunk/anima-gl/engine/config"
	"github.com/spaghettifunk/anima-gl/engine/core"
	"github.com/spaghettifunk/anima-gl/engine/renderer/pipeline"
)

// applyConfig applies the parts of cfg that can change while running and
// returns cfg. Window and renderer settings other than the clear color need
// a restart.
func applyConfig(state *pipeline.PipelineState, cfg *config.Config) *config.Config {
	core.SetLogLevel(cfg.LogLevel())
	state.SetClearColor(cfg.ClearColor())
	core.LogInfo("config reloaded, clear color %v", cfg.Renderer.ClearColor)
	return cfg
}

// endFrame publishes the frame's statistics, starts a new window and checks
// the device error flag.
func endFrame(state *pipeline.PipelineState, collector *pipeline.StatisticsCollector) error {
	if collector != nil {
		collector.Observe(state)
	}
	state.ResetStatistics()
	return state.CheckError()
}
