package renderer

import (
	"errors"
	"fmt"
	"strings"
)

// fakeDevice records the calls that reach the GPU. Sources containing
// "compile-error" fail to compile and sources containing "link-error" fail
// to link.
type fakeDevice struct {
	next     uint32
	shaders  map[uint32]*fakeShader
	programs map[uint32]*fakeProgram
	calls    []string
	draws    []string
	viewport [4]int32
	quads    int
}

type fakeShader struct {
	stage   ShaderStage
	source  string
	deleted bool
}

type fakeProgram struct {
	attached []uint32
	deleted  bool
	linkFail bool
}

func newFakeDevice() *fakeDevice {
	return &fakeDevice{
		shaders:  make(map[uint32]*fakeShader),
		programs: make(map[uint32]*fakeProgram),
	}
}

func (d *fakeDevice) id() uint32 {
	d.next++
	return d.next
}

func (d *fakeDevice) record(format string, args ...any) {
	d.calls = append(d.calls, fmt.Sprintf(format, args...))
}

func (d *fakeDevice) draw(format string, args ...any) {
	d.draws = append(d.draws, fmt.Sprintf(format, args...))
}

func (d *fakeDevice) CreateShader(stage ShaderStage) uint32 {
	id := d.id()
	d.shaders[id] = &fakeShader{stage: stage}
	d.record("CreateShader %d", id)
	return id
}

func (d *fakeDevice) CompileShader(shader uint32, source string) (bool, string) {
	d.shaders[shader].source = source
	if strings.Contains(source, "compile-error") {
		return false, "ERROR: 0:3: 'compile-error' : syntax error"
	}
	return true, ""
}

func (d *fakeDevice) DeleteShader(shader uint32) {
	d.record("DeleteShader %d", shader)
	d.shaders[shader].deleted = true
}

func (d *fakeDevice) ShaderDeletePending(shader uint32) bool {
	s, ok := d.shaders[shader]
	return !ok || s.deleted
}

func (d *fakeDevice) CreateProgram() uint32 {
	id := d.id()
	d.programs[id] = &fakeProgram{}
	d.record("CreateProgram %d", id)
	return id
}

func (d *fakeDevice) AttachShader(program, shader uint32) {
	p := d.programs[program]
	p.attached = append(p.attached, shader)
	if strings.Contains(d.shaders[shader].source, "link-error") {
		p.linkFail = true
	}
}

func (d *fakeDevice) DetachShader(program, shader uint32) {
	d.record("DetachShader %d %d", program, shader)
	p := d.programs[program]
	for i, s := range p.attached {
		if s == shader {
			p.attached = append(p.attached[:i], p.attached[i+1:]...)
			break
		}
	}
}

func (d *fakeDevice) LinkProgram(program uint32) (bool, string) {
	if d.programs[program].linkFail {
		return false, "error: fragment output O is not written"
	}
	return true, ""
}

func (d *fakeDevice) DeleteProgram(program uint32) {
	d.record("DeleteProgram %d", program)
	d.programs[program].deleted = true
}

func (d *fakeDevice) ProgramDeletePending(program uint32) bool {
	p, ok := d.programs[program]
	return !ok || p.deleted
}

func (d *fakeDevice) UseProgram(program uint32) {
	d.draw("use %d", program)
}

// UniformLocation encodes the name so draws show which uniform was set.
func (d *fakeDevice) UniformLocation(_ uint32, name string) int32 {
	switch name {
	case "_uresolution":
		return 1
	case "_utime":
		return 2
	case "_umove":
		return 3
	case "_utouch":
		return 4
	case "_upointerCount":
		return 5
	case "_upointers[0]":
		return 6
	}
	return -1
}

func (d *fakeDevice) CreateQuad(vertices []float32) (uint32, uint32) {
	d.quads++
	return 100, 101
}

func (d *fakeDevice) BindQuad(vao uint32)       { d.draw("bind %d", vao) }
func (d *fakeDevice) DeleteQuad(vao, vbo uint32) { d.quads-- }

func (d *fakeDevice) Viewport(x, y, w, h int32) {
	d.viewport = [4]int32{x, y, w, h}
}

func (d *fakeDevice) Clear(r, g, b, a float32)         { d.draw("clear") }
func (d *fakeDevice) Uniform1f(loc int32, v float32)   { d.draw("1f %d %g", loc, v) }
func (d *fakeDevice) Uniform1i(loc int32, v int32)     { d.draw("1i %d %d", loc, v) }
func (d *fakeDevice) Uniform2f(loc int32, x, y float32) { d.draw("2f %d %g %g", loc, x, y) }
func (d *fakeDevice) Uniform2fv(loc int32, v []float32) { d.draw("2fv %d %v", loc, v) }
func (d *fakeDevice) DrawTriangleStrip(first, count int32) {
	d.draw("strip %d %d", first, count)
}

// live counts shader and program objects that are not deleted.
func (d *fakeDevice) live() (shaders, programs int) {
	for _, s := range d.shaders {
		if !s.deleted {
			shaders++
		}
	}
	for _, p := range d.programs {
		if !p.deleted {
			programs++
		}
	}
	return
}

// fakeTranslator rejects sources containing "syntax-error" the way the
// WebGL validator reports them and maps uniforms to "_u" names.
type fakeTranslator struct {
	calls int
}

func (t *fakeTranslator) Translate(source string) (*Translation, error) {
	t.calls++
	if strings.Contains(source, "syntax-error") {
		return nil, errors.New("ERROR: 0:7: 'syntax-error' : undeclared identifier")
	}
	names := map[string]string{}
	for _, n := range []string{"resolution", "time", "move", "touch", "pointerCount", "pointers"} {
		names[n] = "_u" + n
	}
	return &Translation{Code: "#version 410 core\n" + source, Names: names}, nil
}

type fakeSurface struct {
	dev    Device
	err    error
	width  int
	height int
}

func (s *fakeSurface) Size() (int, int) { return s.width, s.height }

func (s *fakeSurface) AcquireDevice() (Device, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.dev, nil
}
