// Package renderer owns the GL program that draws the user's fragment
// shader over a full-viewport quad. It can validate a source without
// touching the live program, and rebuilds the program when a new source is
// accepted.
package renderer

import (
	"errors"
	"fmt"
	"log"
)

const vertexSource = `#version 410 core
layout (location = 0) in vec4 position;
void main() {
    gl_Position = position;
}
`

const defaultFragmentSource = "#version 300 es\nprecision highp float;\nout vec4 O;\nuniform float time;\nuniform vec2 resolution;\nvoid main() {\n\tvec2 uv=gl_FragCoord.xy/resolution;\n\tO=vec4(uv,sin(time)*.5+.5,1);\n}"

// triangle strip covering clip space
var quadVertices = []float32{
	-1, 1,
	-1, -1,
	1, 1,
	1, -1,
}

// Surface is the window the renderer draws into. Size is in logical
// (unscaled) pixels.
type Surface interface {
	Size() (width, height int)
	AcquireDevice() (Device, error)
}

type uniformLocations struct {
	resolution   int32
	time         int32
	move         int32
	touch        int32
	pointerCount int32
	pointers     int32
}

// Renderer draws one fragment shader at a time.
type Renderer struct {
	dev        Device
	translator Translator
	surface    Surface
	scale      float64

	source  string
	vs, fs  uint32
	program uint32
	locs    uniformLocations

	vao, vbo uint32

	touch         [2]float32
	move          [2]float32
	pointerCoords []float32
	pointerCount  int32

	errorListeners []func(log string)
}

// New returns a renderer that validates sources with t. It has no GL
// resources until Initialize.
func New(t Translator) *Renderer {
	return &Renderer{
		translator:    t,
		source:        defaultFragmentSource,
		pointerCoords: []float32{0, 0},
	}
}

// DefaultSource is the fragment shader drawn before any source is accepted.
func (r *Renderer) DefaultSource() string {
	return defaultFragmentSource
}

// Device returns the GL device acquired by Initialize, or nil.
func (r *Renderer) Device() Device {
	return r.dev
}

// Source is the fragment source of the most recent Update.
func (r *Renderer) Source() string {
	return r.source
}

// OnError registers f to receive compile and link logs produced while
// building the live program. Test never reports here.
func (r *Renderer) OnError(f func(log string)) {
	r.errorListeners = append(r.errorListeners, f)
}

func (r *Renderer) dispatchError(msg string) {
	for _, f := range r.errorListeners {
		f(msg)
	}
}

// Initialize acquires the GL device from surface, uploads the quad and
// builds the default program. A missing context is fatal.
func (r *Renderer) Initialize(surface Surface, scale float64) error {
	dev, err := surface.AcquireDevice()
	if err != nil {
		if errors.Is(err, ErrNoContext) {
			return err
		}
		return fmt.Errorf("%w: %w", ErrNoContext, err)
	}
	if dev == nil {
		return ErrNoContext
	}
	r.dev = dev
	r.surface = surface
	r.vao, r.vbo = dev.CreateQuad(quadVertices)
	r.UpdateScale(scale)

	r.setup()
	return nil
}

func (r *Renderer) backingSize() (float32, float32) {
	w, h := r.surface.Size()
	return float32(float64(w) * r.scale), float32(float64(h) * r.scale)
}

// BackingSize is the drawing buffer size in pixels: the surface size times
// the scale.
func (r *Renderer) BackingSize() (int, int) {
	if r.surface == nil {
		return 0, 0
	}
	w, h := r.backingSize()
	return int(w), int(h)
}

// UpdateScale resizes the viewport to the surface size times scale.
func (r *Renderer) UpdateScale(scale float64) {
	r.scale = scale
	if r.dev == nil {
		return
	}
	w, h := r.backingSize()
	r.dev.Viewport(0, 0, int32(w), int32(h))
}

// Scale returns the current backing scale.
func (r *Renderer) Scale() float64 {
	return r.scale
}

// UpdatePointers sets the pointer uniforms for the next Render.
func (r *Renderer) UpdatePointers(touch, move [2]float32, coords []float32, count int) {
	r.touch = touch
	r.move = move
	r.pointerCoords = coords
	r.pointerCount = int32(count)
}

// Test compiles source in a throwaway shader object. It returns a
// *CompileError on failure and has no effect on the live program.
// Before Initialize it returns ErrNoContext.
func (r *Renderer) Test(source string) error {
	if r.dev == nil {
		return ErrNoContext
	}
	t, err := r.translator.Translate(source)
	if err != nil {
		return &CompileError{Log: err.Error()}
	}
	shader := r.dev.CreateShader(FragmentStage)
	ok, infoLog := r.dev.CompileShader(shader, t.Code)
	r.dev.DeleteShader(shader)
	if !ok {
		return &CompileError{Log: infoLog}
	}
	return nil
}

// Update replaces the live program with one built from source. On failure
// the error is reported to the OnError listeners and Render draws nothing
// until a later Update succeeds.
func (r *Renderer) Update(source string) error {
	if r.dev == nil {
		return ErrNoContext
	}
	r.reset()
	r.source = source
	return r.setup()
}

// Live reports whether a linked program is ready to draw.
func (r *Renderer) Live() bool {
	return r.dev != nil && r.program != 0 && !r.dev.ProgramDeletePending(r.program)
}

// reset releases the live program and its shader objects.
func (r *Renderer) reset() {
	dev := r.dev
	if r.program == 0 || dev.ProgramDeletePending(r.program) {
		r.program, r.vs, r.fs = 0, 0, 0
		return
	}
	for _, sh := range []uint32{r.vs, r.fs} {
		if sh != 0 && !dev.ShaderDeletePending(sh) {
			dev.DetachShader(r.program, sh)
			dev.DeleteShader(sh)
		}
	}
	dev.DeleteProgram(r.program)
	r.program, r.vs, r.fs = 0, 0, 0
}

// setup compiles and links r.source. r.program is only assigned once the
// link succeeded.
func (r *Renderer) setup() error {
	dev := r.dev

	t, err := r.translator.Translate(r.source)
	if err != nil {
		cerr := &CompileError{Log: err.Error()}
		log.Printf("fragment shader translation failed: %v", cerr)
		r.dispatchError(cerr.Log)
		return cerr
	}

	p, err := BuildProgram(dev, vertexSource, t.Code)
	if err != nil {
		if _, ok := err.(*LinkError); ok {
			log.Printf("Warning: %v", err)
		} else {
			log.Printf("shader compile failed: %v", err)
		}
		r.dispatchError(err.Error())
		return err
	}

	r.vs, r.fs, r.program = p.Vertex, p.Fragment, p.ID
	r.init(t)
	return nil
}

// init resolves the uniform locations of a freshly linked program.
func (r *Renderer) init(t *Translation) {
	dev, p := r.dev, r.program
	dev.UseProgram(p)
	r.locs = uniformLocations{
		resolution:   dev.UniformLocation(p, t.mapped("resolution")),
		time:         dev.UniformLocation(p, t.mapped("time")),
		move:         dev.UniformLocation(p, t.mapped("move")),
		touch:        dev.UniformLocation(p, t.mapped("touch")),
		pointerCount: dev.UniformLocation(p, t.mapped("pointerCount")),
		pointers:     dev.UniformLocation(p, t.mapped("pointers")),
	}
	if r.locs.pointers < 0 {
		r.locs.pointers = dev.UniformLocation(p, t.mapped("pointers")+"[0]")
	}
}

// Render draws one frame at timestamp now (milliseconds). It does nothing
// without a live program.
func (r *Renderer) Render(now float64) {
	if !r.Live() {
		return
	}
	dev := r.dev
	w, h := r.backingSize()

	dev.Clear(0, 0, 0, 1)
	dev.UseProgram(r.program)
	dev.BindQuad(r.vao)
	dev.Uniform2f(r.locs.resolution, w, h)
	dev.Uniform1f(r.locs.time, float32(now*1e-3))
	dev.Uniform2f(r.locs.move, r.move[0], r.move[1])
	dev.Uniform2f(r.locs.touch, r.touch[0], r.touch[1])
	dev.Uniform1i(r.locs.pointerCount, r.pointerCount)
	dev.Uniform2fv(r.locs.pointers, r.pointerCoords)
	dev.DrawTriangleStrip(0, 4)
}

// Dispose frees every GL object the renderer owns.
func (r *Renderer) Dispose() {
	if r.dev == nil {
		return
	}
	r.reset()
	r.dev.DeleteQuad(r.vao, r.vbo)
	r.vao, r.vbo = 0, 0
	r.dev = nil
}
