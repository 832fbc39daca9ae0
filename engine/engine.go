package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/spaghettifunk/anima-gl/engine/config"
	"github.com/spaghettifunk/anima-gl/engine/core"
	"github.com/spaghettifunk/anima-gl/engine/platform"
	"github.com/spaghettifunk/anima-gl/engine/renderer/device/opengl"
	"github.com/spaghettifunk/anima-gl/engine/renderer/pipeline"
)

type Stage uint8

const (
	// Engine is in an uninitialized state
	EngineStageUninitialized Stage = iota
	// Engine is currently initializing
	EngineStageInitializing
	// Engine initialization is complete
	EngineStageInitialized
	// Engine is currently running
	EngineStageRunning
	// Engine is in the process of shutting down
	EngineStageShuttingDown
)

type Engine struct {
	currentStage Stage
	gameInstance *Game
	isRunning    bool
	isSuspended  bool
	platform     *platform.Platform
	device       *opengl.Device
	state        *pipeline.PipelineState
	collector    *pipeline.StatisticsCollector
	config       *config.Config
	width        int
	height       int
	clock        *core.Clock
	frameMetrics *core.FrameMetrics
	lastTime     float64

	// reloads carries configs from the watcher goroutine to the render thread.
	reloads chan *config.Config
}

// New prepares an engine for g. A nil registerer disables the pipeline
// metrics.
func New(g *Game, reg prometheus.Registerer) (*Engine, error) {
	if g.ApplicationConfig == nil || g.ApplicationConfig.Config == nil {
		return nil, errors.New("game has no application config")
	}
	cfg := g.ApplicationConfig.Config
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var collector *pipeline.StatisticsCollector
	if reg != nil {
		c, err := pipeline.NewStatisticsCollector(reg)
		if err != nil {
			return nil, fmt.Errorf("failed to register pipeline metrics: %w", err)
		}
		collector = c
	}

	return &Engine{
		currentStage: EngineStageUninitialized,
		gameInstance: g,
		platform:     platform.New(),
		collector:    collector,
		config:       cfg,
		width:        cfg.Window.Width,
		height:       cfg.Window.Height,
		clock:        core.NewClock(),
		frameMetrics: core.NewFrameMetrics(),
		reloads:      make(chan *config.Config, 1),
	}, nil
}

func (e *Engine) Initialize() error {
	e.currentStage = EngineStageInitializing

	if err := e.platform.Startup(e.config.Window); err != nil {
		return err
	}

	d, err := opengl.New()
	if err != nil {
		return err
	}
	e.device = d
	e.device.EnableDepthTest()

	e.state = pipeline.NewPipelineState(e.device)
	e.state.PinToCurrentThread()
	e.state.SetClearColor(e.config.ClearColor())

	e.platform.SetResizeHandler(e.onResized)
	e.width, e.height = e.platform.FramebufferSize()
	e.device.Viewport(e.width, e.height)

	if err := e.gameInstance.FnInitialize(e.renderContext()); err != nil {
		return err
	}
	if err := e.gameInstance.FnOnResize(e.width, e.height); err != nil {
		return err
	}

	e.currentStage = EngineStageInitialized
	return nil
}

// Reload queues cfg for the render thread. It is safe to call from any
// goroutine; only the newest pending config is kept.
func (e *Engine) Reload(cfg *config.Config) {
	for {
		select {
		case e.reloads <- cfg:
			return
		default:
		}
		select {
		case <-e.reloads:
		default:
		}
	}
}

// Run drives the frame loop on the calling thread until ctx is done or the
// window is closed.
func (e *Engine) Run(ctx context.Context) error {
	e.currentStage = EngineStageRunning
	e.isRunning = true

	e.clock.Start()
	e.clock.Update()
	e.lastTime = e.clock.Elapsed()

	var runningTime float64

	for e.isRunning {
		if ctx.Err() != nil || !e.platform.PumpMessages() {
			e.isRunning = false
			break
		}

		select {
		case cfg := <-e.reloads:
			e.config = applyConfig(e.state, cfg)
		default:
		}

		if e.isSuspended {
			continue
		}

		e.clock.Update()
		currentTime := e.clock.Elapsed()
		delta := currentTime - e.lastTime
		frameStartTime := platform.GetAbsoluteTime()

		e.device.Clear()

		if err := e.gameInstance.FnUpdate(delta); err != nil {
			return fmt.Errorf("game update failed: %w", err)
		}
		if err := e.gameInstance.FnRender(e.renderContext(), delta); err != nil {
			return fmt.Errorf("game render failed: %w", err)
		}

		e.platform.SwapBuffers()

		if err := endFrame(e.state, e.collector); err != nil {
			core.LogError(err.Error())
		}

		frameElapsedTime := platform.GetAbsoluteTime() - frameStartTime
		runningTime += frameElapsedTime
		e.frameMetrics.Update(frameElapsedTime)
		if runningTime > 1 {
			fps, ms := e.frameMetrics.Frame()
			core.LogDebug("%.0f fps, %.3f ms", fps, ms)
			runningTime = 0
		}

		e.lastTime = currentTime
	}
	return nil
}

// Shutdown releases the game resources, closes the pipeline state and the
// window. It must run on the render thread after Run has returned.
func (e *Engine) Shutdown() error {
	e.currentStage = EngineStageShuttingDown

	var errs []error
	if e.state != nil {
		if e.gameInstance.FnShutdown != nil {
			if err := e.gameInstance.FnShutdown(e.renderContext()); err != nil {
				errs = append(errs, err)
			}
		}
		if err := e.state.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := e.platform.Shutdown(); err != nil {
		errs = append(errs, err)
	}
	e.currentStage = EngineStageUninitialized
	return errors.Join(errs...)
}

func (e *Engine) Stage() Stage {
	return e.currentStage
}

// GetFramebufferSize returns the width and height (in this order) of the
// application framebuffer
func (e *Engine) GetFramebufferSize() (int, int) {
	return e.width, e.height
}

func (e *Engine) renderContext() *RenderContext {
	return &RenderContext{
		Device: e.device,
		State:  e.state,
		Config: e.config,
	}
}

func (e *Engine) onResized(width, height int) {
	if width == e.width && height == e.height {
		return
	}
	e.width = width
	e.height = height

	core.LogDebug("Window resize: %d, %d", width, height)

	// Handle minimization
	if width == 0 || height == 0 {
		core.LogInfo("Window minimized, suspending application.")
		e.isSuspended = true
		return
	}
	if e.isSuspended {
		core.LogInfo("Window restored, resuming application.")
		e.isSuspended = false
	}
	e.device.Viewport(width, height)
	if err := e.gameInstance.FnOnResize(width, height); err != nil {
		core.LogError(err.Error())
	}
}
