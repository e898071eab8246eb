package game

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"xmastree/internal/spiral"
)

// Bytes per homogeneous point (vec4 of float32).
const pointStride = 4 * 4

var errNoBuffer = errors.New("gl: could not allocate vertex buffer")

var _ spiral.Sink = (*Renderer)(nil)

// glOffset converts a byte offset to unsafe.Pointer for OpenGL VBO offset params.
func glOffset(n int) unsafe.Pointer { return unsafe.Pointer(uintptr(n)) }

// Renderer draws strands as glowing point sprites through one streaming VBO.
type Renderer struct {
	prog uint32
	vao  uint32
	vbo  uint32

	uProjection int32
	uModelView  int32
	uColor      int32
	uPointSize  int32
}

// NewRenderer builds the light program and a buffer initially sized for
// maxPoints. Submit grows the buffer for longer strands.
// Anything created before a failure is released.
func NewRenderer(maxPoints int, pointSize float32) (*Renderer, error) {
	if maxPoints <= 0 {
		return nil, fmt.Errorf("renderer: capacity %d must be positive", maxPoints)
	}
	prog, err := linkProgram(lightVertSrc, lightFragSrc)
	if err != nil {
		return nil, fmt.Errorf("light program: %w", err)
	}
	r := &Renderer{prog: prog}

	gl.GenVertexArrays(1, &r.vao)
	gl.GenBuffers(1, &r.vbo)
	if r.vao == 0 || r.vbo == 0 {
		r.Destroy()
		return nil, errNoBuffer
	}
	gl.BindVertexArray(r.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, maxPoints*pointStride, nil, gl.STREAM_DRAW)
	// aPos (vec4)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 4, gl.FLOAT, false, pointStride, glOffset(0))

	gl.UseProgram(prog)
	r.uProjection = gl.GetUniformLocation(prog, gl.Str("uProjection\x00"))
	r.uModelView = gl.GetUniformLocation(prog, gl.Str("uModelView\x00"))
	r.uColor = gl.GetUniformLocation(prog, gl.Str("uColor\x00"))
	r.uPointSize = gl.GetUniformLocation(prog, gl.Str("uPointSize\x00"))
	gl.Uniform1f(r.uPointSize, pointSize)

	gl.BindVertexArray(0)
	if code := gl.GetError(); code != gl.NO_ERROR {
		r.Destroy()
		return nil, fmt.Errorf("renderer setup: gl error 0x%x", code)
	}
	return r, nil
}

// Destroy releases GL objects. Safe to call more than once.
func (r *Renderer) Destroy() {
	if r.vbo != 0 {
		gl.DeleteBuffers(1, &r.vbo)
		r.vbo = 0
	}
	if r.vao != 0 {
		gl.DeleteVertexArrays(1, &r.vao)
		r.vao = 0
	}
	if r.prog != 0 {
		gl.DeleteProgram(r.prog)
		r.prog = 0
	}
}

// BeginFrame clears the target and loads the camera matrices.
func (r *Renderer) BeginFrame(proj, modelView mgl32.Mat4, fbW, fbH int) {
	gl.Viewport(0, 0, int32(fbW), int32(fbH))
	gl.Clear(gl.COLOR_BUFFER_BIT)

	gl.UseProgram(r.prog)
	gl.BindVertexArray(r.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.vbo)
	gl.UniformMatrix4fv(r.uProjection, 1, false, &proj[0])
	gl.UniformMatrix4fv(r.uModelView, 1, false, &modelView[0])

	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.ONE, gl.ONE)
}

// Submit uploads one strand and draws it as points.
func (r *Renderer) Submit(points []mgl32.Vec4, color spiral.Color) {
	count := len(points)
	if count == 0 {
		return
	}
	gl.Uniform4fv(r.uColor, 1, &color[0])
	// BufferData reallocates the store, so strands longer than the initial
	// size are uploaded whole.
	gl.BufferData(gl.ARRAY_BUFFER, count*pointStride, gl.Ptr(&points[0]), gl.STREAM_DRAW)
	gl.DrawArrays(gl.POINTS, 0, int32(count))
}

// EndFrame restores blend state.
func (r *Renderer) EndFrame() {
	gl.Disable(gl.BLEND)
	gl.BindVertexArray(0)
}
