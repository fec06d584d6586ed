package playground

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/richinsley/goshaderplay/editor"
	"github.com/richinsley/goshaderplay/graphics"
	"github.com/richinsley/goshaderplay/pointer"
	"github.com/richinsley/goshaderplay/renderer"
	"github.com/richinsley/goshaderplay/store"
)

// journal records the order in which storage and compilation happen.
type journal []string

func (j *journal) add(format string, args ...any) {
	*j = append(*j, fmt.Sprintf(format, args...))
}

// fakeDevice fails to compile sources containing "compile-error".
type fakeDevice struct {
	j        *journal
	next     uint32
	deleted  map[uint32]bool
	viewport [4]int32
	renders  int
	counts   []int32
}

func newFakeDevice(j *journal) *fakeDevice {
	return &fakeDevice{j: j, deleted: map[uint32]bool{}}
}

func (d *fakeDevice) id() uint32 {
	d.next++
	return d.next
}

func (d *fakeDevice) CreateShader(renderer.ShaderStage) uint32 { return d.id() }

func (d *fakeDevice) CompileShader(_ uint32, source string) (bool, string) {
	d.j.add("compile")
	if strings.Contains(source, "compile-error") {
		return false, "ERROR: 0:2: 'compile-error' : syntax error"
	}
	return true, ""
}

func (d *fakeDevice) DeleteShader(s uint32)                 { d.deleted[s] = true }
func (d *fakeDevice) ShaderDeletePending(s uint32) bool     { return d.deleted[s] }
func (d *fakeDevice) CreateProgram() uint32                 { return d.id() }
func (d *fakeDevice) AttachShader(program, shader uint32)   {}
func (d *fakeDevice) DetachShader(program, shader uint32)   {}
func (d *fakeDevice) LinkProgram(uint32) (bool, string)     { return true, "" }
func (d *fakeDevice) DeleteProgram(p uint32)                { d.deleted[p] = true }
func (d *fakeDevice) ProgramDeletePending(p uint32) bool    { return d.deleted[p] }
func (d *fakeDevice) UseProgram(uint32)                     {}
func (d *fakeDevice) CreateQuad([]float32) (uint32, uint32) { return d.id(), d.id() }
func (d *fakeDevice) BindQuad(uint32)                       {}
func (d *fakeDevice) DeleteQuad(vao, vbo uint32)            {}
func (d *fakeDevice) Clear(r, g, b, a float32)              { d.renders++ }
func (d *fakeDevice) Uniform1f(int32, float32)              {}
func (d *fakeDevice) Uniform2f(int32, float32, float32)     {}
func (d *fakeDevice) Uniform2fv(int32, []float32)           {}
func (d *fakeDevice) DrawTriangleStrip(first, count int32)  {}
func (d *fakeDevice) Viewport(x, y, w, h int32)             { d.viewport = [4]int32{x, y, w, h} }
func (d *fakeDevice) Uniform1i(loc int32, v int32)          { d.counts = append(d.counts, v) }
func (d *fakeDevice) UniformLocation(uint32, string) int32  { return 1 }

type fakeTranslator struct {
	j *journal
}

func (t fakeTranslator) Translate(source string) (*renderer.Translation, error) {
	t.j.add("translate")
	if strings.Contains(source, "syntax-error") {
		return nil, errors.New("ERROR: 0:3: 'syntax-error' : undeclared identifier")
	}
	return &renderer.Translation{Code: source, Names: map[string]string{}}, nil
}

// fakeWindow is a 400x300 window on a display with pixel ratio 2.
type fakeWindow struct {
	dev      renderer.Device
	width    int
	height   int
	ratio    float64
	closing  bool
	keys     map[[2]int]func()
	input    graphics.InputHandler
	pointers pointer.Handler
	resize   func(int, int)

	visibility func(bool)
}

func newFakeWindow(dev renderer.Device) *fakeWindow {
	return &fakeWindow{dev: dev, width: 400, height: 300, ratio: 2, keys: map[[2]int]func(){}}
}

func (w *fakeWindow) Shutdown()                               {}
func (w *fakeWindow) ShouldClose() bool                       { return w.closing }
func (w *fakeWindow) SetShouldClose(v bool)                   { w.closing = v }
func (w *fakeWindow) EndFrame()                               {}
func (w *fakeWindow) Size() (int, int)                        { return w.width, w.height }
func (w *fakeWindow) ContentScale() float64                   { return w.ratio }
func (w *fakeWindow) AcquireDevice() (renderer.Device, error) { return w.dev, nil }

func (w *fakeWindow) GetFramebufferSize() (int, int) {
	return int(float64(w.width) * w.ratio), int(float64(w.height) * w.ratio)
}

func (w *fakeWindow) SetPointerHandler(h pointer.Handler)        { w.pointers = h }
func (w *fakeWindow) SetInputHandler(h graphics.InputHandler)    { w.input = h }
func (w *fakeWindow) SetResizeHandler(f func(width, height int)) { w.resize = f }
func (w *fakeWindow) SetVisibilityHandler(f func(visible bool))  { w.visibility = f }

func (w *fakeWindow) RegisterKeyCallback(key graphics.Key, mods graphics.Mod, f func()) {
	w.keys[[2]int{int(key), int(mods)}] = f
}

func (w *fakeWindow) press(key graphics.Key, mods graphics.Mod) {
	if f, ok := w.keys[[2]int{int(key), int(mods)}]; ok {
		f()
		return
	}
	w.input.Key(key, mods)
}

// fakeCompositor has a diagnostic panel covering the bottom 50 pixels of
// the window.
type fakeCompositor struct {
	width, height int
	begun         [][2]int
	destroyed     bool
}

func (f *fakeCompositor) Begin(w, h int)                   { f.begun = append(f.begun, [2]int{w, h}) }
func (f *fakeCompositor) Present(*editor.Editor, int, int) {}
func (f *fakeCompositor) Resize(w, h int)                  { f.width, f.height = w, h }
func (f *fakeCompositor) ClientHeight() float64            { return float64(f.height - 50) }
func (f *fakeCompositor) Destroy()                         { f.destroyed = true }

func (f *fakeCompositor) PanelAt(e *editor.Editor, x, y float64) bool {
	return e.Error().PanelVisible && y >= float64(f.height-50)
}

// journalBackend logs writes of shader sources and can be made to fail.
type journalBackend struct {
	*store.MemoryBackend
	j    *journal
	fail bool
}

func (b *journalBackend) Set(ctx context.Context, key, value string) error {
	if strings.HasPrefix(key, string(store.ClassShader)) {
		b.j.add("persist %s", value)
	}
	if b.fail {
		return errors.New("disk full")
	}
	return b.MemoryBackend.Set(ctx, key, value)
}
