package engine

import (
	"github.com/spaghettifunk/anima-gl/engine/config"
	"github.com/spaghettifunk/anima-gl/engine/renderer/device/opengl"
	"github.com/spaghettifunk/anima-gl/engine/renderer/pipeline"
)

type ApplicationConfig struct {
	// Config is the validated TOML configuration the engine starts from.
	Config *config.Config
	// ConfigPath is the file the config was loaded from, if any.
	ConfigPath string
}

// RenderContext is what the game sees of the renderer. It is only valid on
// the render thread, inside the game callbacks.
type RenderContext struct {
	Device *opengl.Device
	State  *pipeline.PipelineState
	Config *config.Config
}
