// Package pipeline tracks what the device currently has bound and skips
// redundant bind calls. A PipelineState is owned by the render loop and is
// not safe for concurrent use.
package pipeline

import (
	"errors"
	"fmt"

	"github.com/spaghettifunk/anima-gl/engine/core"
	"github.com/spaghettifunk/anima-gl/engine/math"
	"github.com/spaghettifunk/anima-gl/engine/renderer/device"
)

// MaxTextureUnits is the number of texture units tracked by the state.
const MaxTextureUnits = 32

var (
	ErrResourcesLeaked = errors.New("device resources still alive at teardown")
	ErrWrongThread     = errors.New("pipeline state used from a thread other than its owner")
)

type textureUnit struct {
	target  device.TextureTarget
	texture device.Texture
}

type PipelineState struct {
	device device.Device

	vao          device.VertexArray
	vbo          device.Buffer
	program      device.Program
	textureUnits [MaxTextureUnits]textureUnit
	clearColor   math.Color

	frameStatistics PipelineStatistics

	liveBuffers      int
	liveVertexArrays int

	ownerThread int
	closed      bool
}

// NewPipelineState wraps d, assuming nothing is bound on it yet.
func NewPipelineState(d device.Device) *PipelineState {
	s := &PipelineState{device: d}
	for i := range s.textureUnits {
		s.textureUnits[i].target = device.Texture2D
	}
	return s
}

// PinToCurrentThread makes every later call panic with ErrWrongThread when
// issued from another OS thread. The caller must hold runtime.LockOSThread.
func (s *PipelineState) PinToCurrentThread() {
	s.ownerThread = currentThreadID()
}

func (s *PipelineState) checkThread() {
	if s.ownerThread == 0 {
		return
	}
	if tid := currentThreadID(); tid != s.ownerThread {
		panic(fmt.Errorf("%w: owner %d, caller %d", ErrWrongThread, s.ownerThread, tid))
	}
}

// Device gives direct access for calls the state does not track, such as
// element buffer binds and attribute pointers.
func (s *PipelineState) Device() device.Device {
	s.checkThread()
	return s.device
}

func (s *PipelineState) SetVertexArrayObject(vao device.VertexArray) {
	s.checkThread()
	if s.vao != vao {
		s.vao = vao
		s.frameStatistics.VAOBindingChanges++
		s.device.BindVertexArray(vao)
	}
}

func (s *PipelineState) VertexArrayObject() device.VertexArray {
	return s.vao
}

func (s *PipelineState) SetVertexBufferObject(vbo device.Buffer) {
	s.checkThread()
	if s.vbo != vbo {
		s.vbo = vbo
		s.frameStatistics.VBOBindingChanges++
		s.device.BindBuffer(device.ArrayBuffer, vbo)
	}
}

func (s *PipelineState) VertexBufferObject() device.Buffer {
	return s.vbo
}

func (s *PipelineState) SetProgram(program device.Program) {
	s.checkThread()
	if s.program != program {
		s.program = program
		s.frameStatistics.ProgramBindingChanges++
		s.device.UseProgram(program)
	}
}

func (s *PipelineState) Program() device.Program {
	return s.program
}

/**
 * @brief Binds texture to the given unit unless it is already bound there
 * with the same target.
 *
 * @param unit The texture unit, in [0, MaxTextureUnits). Panics otherwise.
 * @param target The texture target.
 * @param texture The texture handle, 0 to unbind.
 */
func (s *PipelineState) SetTexture(unit uint32, target device.TextureTarget, texture device.Texture) {
	s.checkThread()
	checkTextureUnit(unit)
	u := &s.textureUnits[unit]
	if u.target != target || u.texture != texture {
		u.target = target
		u.texture = texture
		s.frameStatistics.TextureBindingChanges++
		s.device.ActiveTexture(unit)
		s.device.BindTexture(target, texture)
	}
}

func checkTextureUnit(unit uint32) {
	if unit >= MaxTextureUnits {
		panic(fmt.Sprintf("pipeline: texture unit %d out of range [0, %d)", unit, MaxTextureUnits))
	}
}

// Texture returns what the state believes is bound on unit. It panics when
// unit is out of range, like SetTexture.
func (s *PipelineState) Texture(unit uint32) (device.TextureTarget, device.Texture) {
	checkTextureUnit(unit)
	u := s.textureUnits[unit]
	return u.target, u.texture
}

// SetClearColor compares by value.
func (s *PipelineState) SetClearColor(color math.Color) {
	s.checkThread()
	if s.clearColor != color {
		s.clearColor = color
		s.frameStatistics.ClearColorChanges++
		s.device.ClearColor(color.AsFRGBA())
	}
}

func (s *PipelineState) ClearColor() math.Color {
	return s.clearColor
}

func (s *PipelineState) Statistics() PipelineStatistics {
	return s.frameStatistics
}

// ResetStatistics starts a new counting window, usually once per frame.
func (s *PipelineState) ResetStatistics() {
	s.frameStatistics = PipelineStatistics{}
}

// --- Resource accounting ---

func (s *PipelineState) CreateBuffer() (device.Buffer, error) {
	s.checkThread()
	b, err := s.device.CreateBuffer()
	if err != nil {
		return 0, err
	}
	s.liveBuffers++
	return b, nil
}

// DeleteBuffer releases b, unbinding it first if the state has it bound.
func (s *PipelineState) DeleteBuffer(b device.Buffer) {
	s.checkThread()
	if b == 0 {
		return
	}
	if s.vbo == b {
		s.SetVertexBufferObject(0)
	}
	s.device.DeleteBuffer(b)
	s.liveBuffers--
}

func (s *PipelineState) CreateVertexArray() (device.VertexArray, error) {
	s.checkThread()
	vao, err := s.device.CreateVertexArray()
	if err != nil {
		return 0, err
	}
	s.liveVertexArrays++
	return vao, nil
}

// DeleteVertexArray releases vao, unbinding it first if the state has it
// bound.
func (s *PipelineState) DeleteVertexArray(vao device.VertexArray) {
	s.checkThread()
	if vao == 0 {
		return
	}
	if s.vao == vao {
		s.SetVertexArrayObject(0)
	}
	s.device.DeleteVertexArray(vao)
	s.liveVertexArrays--
}

func (s *PipelineState) LiveBuffers() int {
	return s.liveBuffers
}

func (s *PipelineState) LiveVertexArrays() int {
	return s.liveVertexArrays
}

// CheckError queries the device error flag. Unknown codes panic.
func (s *PipelineState) CheckError() error {
	s.checkThread()
	return device.CheckError(s.device)
}

// Close tears the state down. Every buffer and vertex array created through
// it must have been released beforehand.
func (s *PipelineState) Close() error {
	s.checkThread()
	if s.closed {
		return nil
	}
	s.closed = true
	core.LogDebug("pipeline state closed: %s", s.frameStatistics)
	if s.liveBuffers != 0 || s.liveVertexArrays != 0 {
		return fmt.Errorf("%w: %d buffers, %d vertex arrays", ErrResourcesLeaked, s.liveBuffers, s.liveVertexArrays)
	}
	return nil
}
