// Package opengl implements device.Device on top of the OpenGL 3.3 core
// profile. A Device must be created after the window's context was made
// current, on the thread that owns that context.
package opengl

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v3.3-core/gl"

	"github.com/spaghettifunk/anima-gl/engine/core"
	"github.com/spaghettifunk/anima-gl/engine/renderer/device"
)

type Device struct {
	version string
}

var _ device.Device = (*Device)(nil)

// New loads the GL function table for the current context.
func New() (*Device, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	d := &Device{version: gl.GoStr(gl.GetString(gl.VERSION))}
	core.LogInfo("OpenGL version %s", d.version)
	return d, nil
}

func (d *Device) Version() string {
	return d.version
}

func (d *Device) CreateBuffer() (device.Buffer, error) {
	var id uint32
	gl.GenBuffers(1, &id)
	if id == 0 {
		return 0, fmt.Errorf("%w: glGenBuffers returned 0", device.ErrResourceCreation)
	}
	return device.Buffer(id), nil
}

func (d *Device) DeleteBuffer(b device.Buffer) {
	id := uint32(b)
	gl.DeleteBuffers(1, &id)
}

func (d *Device) BindBuffer(target device.BufferTarget, b device.Buffer) {
	gl.BindBuffer(uint32(target), uint32(b))
}

func (d *Device) BufferData(target device.BufferTarget, data []byte, usage device.BufferUsage) {
	if len(data) == 0 {
		gl.BufferData(uint32(target), 0, nil, uint32(usage))
		return
	}
	gl.BufferData(uint32(target), len(data), gl.Ptr(&data[0]), uint32(usage))
}

func (d *Device) CreateVertexArray() (device.VertexArray, error) {
	var id uint32
	gl.GenVertexArrays(1, &id)
	if id == 0 {
		return 0, fmt.Errorf("%w: glGenVertexArrays returned 0", device.ErrResourceCreation)
	}
	return device.VertexArray(id), nil
}

func (d *Device) DeleteVertexArray(vao device.VertexArray) {
	id := uint32(vao)
	gl.DeleteVertexArrays(1, &id)
}

func (d *Device) BindVertexArray(vao device.VertexArray) {
	gl.BindVertexArray(uint32(vao))
}

func (d *Device) VertexAttribPointer(location uint32, size int32, dataType device.DataType, normalized bool, stride int32, offset int) {
	gl.VertexAttribPointerWithOffset(location, size, uint32(dataType), normalized, stride, uintptr(offset))
}

func (d *Device) VertexAttribDivisor(location uint32, divisor uint32) {
	gl.VertexAttribDivisor(location, divisor)
}

func (d *Device) EnableVertexAttribArray(location uint32) {
	gl.EnableVertexAttribArray(location)
}

func (d *Device) DrawElements(mode device.Topology, count int32, indexType device.DataType, offset int) {
	gl.DrawElementsWithOffset(uint32(mode), count, uint32(indexType), uintptr(offset))
}

func (d *Device) ActiveTexture(unit uint32) {
	gl.ActiveTexture(gl.TEXTURE0 + unit)
}

func (d *Device) BindTexture(target device.TextureTarget, t device.Texture) {
	gl.BindTexture(uint32(target), uint32(t))
}

func (d *Device) UseProgram(p device.Program) {
	gl.UseProgram(uint32(p))
}

func (d *Device) ClearColor(r, g, b, a float32) {
	gl.ClearColor(r, g, b, a)
}

func (d *Device) GetError() uint32 {
	return gl.GetError()
}

// Clear clears the color and depth attachments of the current framebuffer.
func (d *Device) Clear() {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

func (d *Device) Viewport(width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
}

func (d *Device) EnableDepthTest() {
	gl.Enable(gl.DEPTH_TEST)
}

// --- Shader utilities ---

// CompileProgram compiles and links a vertex/fragment pair.
func (d *Device) CompileProgram(vertexSource, fragmentSource string) (device.Program, error) {
	vs, err := compileShader(vertexSource, gl.VERTEX_SHADER)
	if err != nil {
		return 0, err
	}
	fs, err := compileShader(fragmentSource, gl.FRAGMENT_SHADER)
	if err != nil {
		gl.DeleteShader(vs)
		return 0, err
	}
	prog := gl.CreateProgram()
	gl.AttachShader(prog, vs)
	gl.AttachShader(prog, fs)
	gl.LinkProgram(prog)

	var status int32
	gl.GetProgramiv(prog, gl.LINK_STATUS, &status)
	gl.DeleteShader(vs)
	gl.DeleteShader(fs)

	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(prog, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen+1))
		gl.GetProgramInfoLog(prog, logLen, nil, gl.Str(log))
		gl.DeleteProgram(prog)
		return 0, fmt.Errorf("program link error: %s", log)
	}
	return device.Program(prog), nil
}

func (d *Device) DeleteProgram(p device.Program) {
	gl.DeleteProgram(uint32(p))
}

// UniformLocation returns -1 when the program has no such active uniform.
func (d *Device) UniformLocation(p device.Program, name string) int32 {
	return gl.GetUniformLocation(uint32(p), gl.Str(name+"\x00"))
}

func (d *Device) UniformMatrix4(location int32, m [16]float32) {
	gl.UniformMatrix4fv(location, 1, false, &m[0])
}

func compileShader(src string, shaderType uint32) (uint32, error) {
	sh := gl.CreateShader(shaderType)
	csrc, free := gl.Strs(src + "\x00")
	defer free()
	gl.ShaderSource(sh, 1, csrc, nil)
	gl.CompileShader(sh)

	var status int32
	gl.GetShaderiv(sh, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(sh, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen+1))
		gl.GetShaderInfoLog(sh, logLen, nil, gl.Str(log))
		gl.DeleteShader(sh)
		return 0, fmt.Errorf("shader compile error: %s", log)
	}
	return sh, nil
}
