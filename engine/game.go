package engine

type Game struct {
	ApplicationConfig *ApplicationConfig
	State             interface{}
	FnInitialize      Initialize
	FnUpdate          Update
	FnRender          Render
	FnOnResize        OnResize
	FnShutdown        Shutdown
}

type Initialize func(ctx *RenderContext) error
type Update func(deltaTime float64) error
type Render func(ctx *RenderContext, deltaTime float64) error
type OnResize func(width int, height int) error
type Shutdown func(ctx *RenderContext) error
