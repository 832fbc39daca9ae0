// Package devicetest provides a Device that records calls instead of
// talking to a driver.
package devicetest

import (
	"fmt"
	"strings"

	"github.com/spaghettifunk/anima-gl/engine/renderer/device"
)

// Op names a recorded device call.
type Op string

const (
	OpCreateBuffer            Op = "CreateBuffer"
	OpDeleteBuffer            Op = "DeleteBuffer"
	OpBindBuffer              Op = "BindBuffer"
	OpBufferData              Op = "BufferData"
	OpCreateVertexArray       Op = "CreateVertexArray"
	OpDeleteVertexArray       Op = "DeleteVertexArray"
	OpBindVertexArray         Op = "BindVertexArray"
	OpVertexAttribPointer     Op = "VertexAttribPointer"
	OpVertexAttribDivisor     Op = "VertexAttribDivisor"
	OpEnableVertexAttribArray Op = "EnableVertexAttribArray"
	OpDrawElements            Op = "DrawElements"
	OpActiveTexture           Op = "ActiveTexture"
	OpBindTexture             Op = "BindTexture"
	OpUseProgram              Op = "UseProgram"
	OpClearColor              Op = "ClearColor"
	OpGetError                Op = "GetError"
)

// Call is one recorded device call. Only the fields relevant to Op are set.
type Call struct {
	Op         Op
	Target     uint32
	Handle     uint32
	Data       []byte
	Usage      device.BufferUsage
	Location   uint32
	Size       int32
	DataType   device.DataType
	Normalized bool
	Stride     int32
	Offset     int
	Divisor    uint32
	Mode       device.Topology
	Count      int32
	Color      [4]float32
}

func (c Call) String() string {
	return fmt.Sprintf("%s(target=0x%X handle=%d loc=%d size=%d stride=%d off=%d count=%d)",
		c.Op, c.Target, c.Handle, c.Location, c.Size, c.Stride, c.Offset, c.Count)
}

// Recorder implements device.Device. Handles are allocated from a single
// increasing counter starting at 1 so every object is distinct.
type Recorder struct {
	Calls []Call

	// FailCreateBufferAt makes the n-th (1-based) CreateBuffer call fail.
	FailCreateBufferAt int
	// FailCreateVertexArray makes every CreateVertexArray call fail.
	FailCreateVertexArray bool
	// PendingErrors are returned by GetError in order, then NoError.
	PendingErrors []uint32

	nextHandle   uint32
	bufferCalls  int
	liveBuffers  map[device.Buffer]struct{}
	liveVAOs     map[device.VertexArray]struct{}
	boundBuffers map[device.BufferTarget]device.Buffer
	boundVAO     device.VertexArray
}

func NewRecorder() *Recorder {
	return &Recorder{
		liveBuffers:  make(map[device.Buffer]struct{}),
		liveVAOs:     make(map[device.VertexArray]struct{}),
		boundBuffers: make(map[device.BufferTarget]device.Buffer),
	}
}

var _ device.Device = (*Recorder)(nil)

func (r *Recorder) record(c Call) {
	r.Calls = append(r.Calls, c)
}

func (r *Recorder) alloc() uint32 {
	r.nextHandle++
	return r.nextHandle
}

func (r *Recorder) CreateBuffer() (device.Buffer, error) {
	r.bufferCalls++
	if r.FailCreateBufferAt != 0 && r.bufferCalls == r.FailCreateBufferAt {
		r.record(Call{Op: OpCreateBuffer})
		return 0, device.ErrResourceCreation
	}
	b := device.Buffer(r.alloc())
	r.liveBuffers[b] = struct{}{}
	r.record(Call{Op: OpCreateBuffer, Handle: uint32(b)})
	return b, nil
}

func (r *Recorder) DeleteBuffer(b device.Buffer) {
	delete(r.liveBuffers, b)
	r.record(Call{Op: OpDeleteBuffer, Handle: uint32(b)})
}

func (r *Recorder) BindBuffer(target device.BufferTarget, b device.Buffer) {
	r.boundBuffers[target] = b
	r.record(Call{Op: OpBindBuffer, Target: uint32(target), Handle: uint32(b)})
}

func (r *Recorder) BufferData(target device.BufferTarget, data []byte, usage device.BufferUsage) {
	cp := make([]byte, len(data))
	copy(cp, data)
	r.record(Call{Op: OpBufferData, Target: uint32(target), Handle: uint32(r.boundBuffers[target]), Data: cp, Usage: usage})
}

func (r *Recorder) CreateVertexArray() (device.VertexArray, error) {
	if r.FailCreateVertexArray {
		r.record(Call{Op: OpCreateVertexArray})
		return 0, device.ErrResourceCreation
	}
	vao := device.VertexArray(r.alloc())
	r.liveVAOs[vao] = struct{}{}
	r.record(Call{Op: OpCreateVertexArray, Handle: uint32(vao)})
	return vao, nil
}

func (r *Recorder) DeleteVertexArray(vao device.VertexArray) {
	delete(r.liveVAOs, vao)
	r.record(Call{Op: OpDeleteVertexArray, Handle: uint32(vao)})
}

func (r *Recorder) BindVertexArray(vao device.VertexArray) {
	r.boundVAO = vao
	r.record(Call{Op: OpBindVertexArray, Handle: uint32(vao)})
}

func (r *Recorder) VertexAttribPointer(location uint32, size int32, dataType device.DataType, normalized bool, stride int32, offset int) {
	r.record(Call{
		Op:         OpVertexAttribPointer,
		Handle:     uint32(r.boundBuffers[device.ArrayBuffer]),
		Location:   location,
		Size:       size,
		DataType:   dataType,
		Normalized: normalized,
		Stride:     stride,
		Offset:     offset,
	})
}

func (r *Recorder) VertexAttribDivisor(location uint32, divisor uint32) {
	r.record(Call{Op: OpVertexAttribDivisor, Location: location, Divisor: divisor})
}

func (r *Recorder) EnableVertexAttribArray(location uint32) {
	r.record(Call{Op: OpEnableVertexAttribArray, Location: location})
}

func (r *Recorder) DrawElements(mode device.Topology, count int32, indexType device.DataType, offset int) {
	r.record(Call{Op: OpDrawElements, Handle: uint32(r.boundVAO), Mode: mode, Count: count, DataType: indexType, Offset: offset})
}

func (r *Recorder) ActiveTexture(unit uint32) {
	r.record(Call{Op: OpActiveTexture, Location: unit})
}

func (r *Recorder) BindTexture(target device.TextureTarget, t device.Texture) {
	r.record(Call{Op: OpBindTexture, Target: uint32(target), Handle: uint32(t)})
}

func (r *Recorder) UseProgram(p device.Program) {
	r.record(Call{Op: OpUseProgram, Handle: uint32(p)})
}

func (r *Recorder) ClearColor(red, green, blue, alpha float32) {
	r.record(Call{Op: OpClearColor, Color: [4]float32{red, green, blue, alpha}})
}

func (r *Recorder) GetError() uint32 {
	r.record(Call{Op: OpGetError})
	if len(r.PendingErrors) == 0 {
		return 0
	}
	code := r.PendingErrors[0]
	r.PendingErrors = r.PendingErrors[1:]
	return code
}

// Reset forgets recorded calls but keeps object bookkeeping.
func (r *Recorder) Reset() {
	r.Calls = nil
}

// Count returns how many calls of op were recorded.
func (r *Recorder) Count(op Op) int {
	n := 0
	for _, c := range r.Calls {
		if c.Op == op {
			n++
		}
	}
	return n
}

// Filter returns the recorded calls of op, in order.
func (r *Recorder) Filter(op Op) []Call {
	var out []Call
	for _, c := range r.Calls {
		if c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

// LiveBuffers reports buffers created and not yet deleted.
func (r *Recorder) LiveBuffers() int {
	return len(r.liveBuffers)
}

// LiveVertexArrays reports vertex arrays created and not yet deleted.
func (r *Recorder) LiveVertexArrays() int {
	return len(r.liveVAOs)
}

// Dump renders the call log, one call per line, for failure messages.
func (r *Recorder) Dump() string {
	var sb strings.Builder
	for _, c := range r.Calls {
		sb.WriteString(c.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}
