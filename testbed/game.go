package testbed

import (
	_ "embed"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/spaghettifunk/anima-gl/engine"
	"github.com/spaghettifunk/anima-gl/engine/core"
	"github.com/spaghettifunk/anima-gl/engine/math"
	"github.com/spaghettifunk/anima-gl/engine/renderer/components"
	"github.com/spaghettifunk/anima-gl/engine/renderer/device"
	"github.com/spaghettifunk/anima-gl/engine/renderer/geometry"
	"github.com/spaghettifunk/anima-gl/engine/renderer/surface"
)

var (
	//go:embed shaders/surface.vert
	vertexShader string
	//go:embed shaders/surface.frag
	fragmentShader string
)

// Radians per second around the Y axis.
const rotationSpeed = 0.5

type TestGame struct {
	*engine.Game
}

type gameState struct {
	WorldCamera *components.Camera
	Transform   *math.Transform

	mesh    *geometry.GeometryBuffer
	program device.Program

	modelLocation          int32
	viewProjectionLocation int32

	drawStatistics geometry.DrawCallStatistics
}

func NewTestGame(cfg *engine.ApplicationConfig) *TestGame {
	tg := &TestGame{
		Game: &engine.Game{
			ApplicationConfig: cfg,
			State:             &gameState{},
		},
	}

	tg.FnInitialize = tg.Initialize
	tg.FnUpdate = tg.Update
	tg.FnRender = tg.Render
	tg.FnOnResize = tg.OnResize
	tg.FnShutdown = tg.Shutdown

	return tg
}

// BuildSurface returns the procedural mesh named in the renderer config.
func BuildSurface(mesh string) (*surface.SurfaceData, error) {
	switch mesh {
	case "cube":
		return surface.MakeCube(mgl32.Ident4())
	case "quad":
		// Center the unit quad on the origin.
		data, err := surface.MakeUnitXYQuad()
		if err != nil {
			return nil, err
		}
		if err := data.TransformGeometry(mgl32.Translate3D(-0.5, -0.5, 0)); err != nil {
			return nil, err
		}
		return data, nil
	}
	return nil, fmt.Errorf("unknown mesh %q", mesh)
}

func (g *TestGame) Initialize(ctx *engine.RenderContext) error {
	core.LogDebug("TestGame Initialize fn....")

	state := g.State.(*gameState)

	state.WorldCamera = components.NewCamera()
	state.WorldCamera.SetPosition(mgl32.Vec3{0, 1, 3})
	state.WorldCamera.Pitch(mgl32.DegToRad(-18))
	state.Transform = math.TransformCreate()

	data, err := BuildSurface(ctx.Config.Renderer.Mesh)
	if err != nil {
		return err
	}
	mesh, err := geometry.FromSurfaceData(data, ctx.Config.BufferUsage(), ctx.State)
	if err != nil {
		return err
	}
	state.mesh = mesh
	core.LogInfo("uploaded %s mesh %s: %d vertices, %d triangles",
		ctx.Config.Renderer.Mesh, mesh.ID(), data.VertexBuffer.VertexCount(), data.Triangles.Len())

	program, err := ctx.Device.CompileProgram(vertexShader, fragmentShader)
	if err != nil {
		mesh.Release(ctx.State)
		return err
	}
	state.program = program
	state.modelLocation = ctx.Device.UniformLocation(program, "u_model")
	state.viewProjectionLocation = ctx.Device.UniformLocation(program, "u_view_projection")

	return nil
}

func (g *TestGame) Update(deltaTime float64) error {
	state := g.State.(*gameState)
	rotation := mgl32.QuatRotate(float32(rotationSpeed*deltaTime), mgl32.Vec3{0, 1, 0})
	state.Transform.Rotate(rotation)
	return nil
}

func (g *TestGame) Render(ctx *engine.RenderContext, deltaTime float64) error {
	state := g.State.(*gameState)

	ctx.State.SetProgram(state.program)
	ctx.Device.UniformMatrix4(state.modelLocation, state.Transform.GetWorld())
	ctx.Device.UniformMatrix4(state.viewProjectionLocation, state.WorldCamera.ViewProjection())

	stats, err := state.mesh.Bind(ctx.State).Draw()
	if err != nil {
		return err
	}
	state.drawStatistics = stats
	return nil
}

func (g *TestGame) OnResize(width int, height int) error {
	state := g.State.(*gameState)
	state.WorldCamera.SetAspect(width, height)
	return nil
}

func (g *TestGame) Shutdown(ctx *engine.RenderContext) error {
	state := g.State.(*gameState)
	core.LogDebug("last frame drew %d triangles", state.drawStatistics.Triangles)

	ctx.State.SetProgram(0)
	if state.program != 0 {
		ctx.Device.DeleteProgram(state.program)
	}
	if state.mesh != nil {
		state.mesh.Release(ctx.State)
	}
	return nil
}
