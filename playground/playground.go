// Package playground wires the shader playground together: pointer input,
// persistence, the code editor and the renderer, driven by one frame loop.
package playground

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/richinsley/goshaderplay/config"
	"github.com/richinsley/goshaderplay/editor"
	"github.com/richinsley/goshaderplay/frameloop"
	"github.com/richinsley/goshaderplay/graphics"
	"github.com/richinsley/goshaderplay/pointer"
	"github.com/richinsley/goshaderplay/renderer"
	"github.com/richinsley/goshaderplay/store"
)

// State is the controller lifecycle.
type State int

const (
	Uninitialized State = iota
	Ready
	Rendering
)

func (s State) String() string {
	switch s {
	case Ready:
		return "ready"
	case Rendering:
		return "rendering"
	}
	return "uninitialized"
}

// Compositor presents a frame: the shader renders between Begin and Present.
type Compositor interface {
	Begin(width, height int)
	Present(e *editor.Editor, fbWidth, fbHeight int)
	Resize(width, height int)
	ClientHeight() float64
	// PanelAt reports whether window point (x, y) is on the diagnostic panel.
	PanelAt(e *editor.Editor, x, y float64) bool
	Destroy()
}

// Deps are the host services the controller runs on.
type Deps struct {
	Window     graphics.Context
	Translator renderer.Translator
	Backend    store.Backend
	Loop       *frameloop.Loop
	// Metrics defaults to basicfont.Face7x13.
	Metrics *editor.FaceMetrics
	// NewCompositor is called once the GL context is live. Nil draws straight
	// to the window without the editor.
	NewCompositor func(renderer.Device, *editor.FaceMetrics) (Compositor, error)
	// Source is the configured shader file's contents; empty selects the
	// built-in default.
	Source string
}

// Controller owns the playground components and the render chain.
type Controller struct {
	cfg  *config.Config
	deps Deps
	ctx  context.Context

	state State

	pointers   *pointer.Set
	store      *store.Store
	editor     *editor.Editor
	renderer   *renderer.Renderer
	compositor Compositor
	debounce   *frameloop.Debouncer
	frameID    frameloop.FrameID

	resolution float64
	dpr        float64
}

// New returns an uninitialized controller.
func New(cfg *config.Config, deps Deps) *Controller {
	if deps.Metrics == nil {
		deps.Metrics = editor.NewFaceMetrics(nil)
	}
	return &Controller{
		cfg:        cfg,
		deps:       deps,
		ctx:        context.Background(),
		resolution: cfg.Resolution,
		dpr:        1,
	}
}

func (c *Controller) State() State {
	return c.state
}

func (c *Controller) Editor() *editor.Editor {
	return c.editor
}

func (c *Controller) Renderer() *renderer.Renderer {
	return c.renderer
}

func (c *Controller) Pointers() *pointer.Set {
	return c.pointers
}

func (c *Controller) Store() *store.Store {
	return c.store
}

func (c *Controller) Resolution() float64 {
	return c.resolution
}

func (c *Controller) PixelRatio() float64 {
	return c.dpr
}

// backing reports the drawing buffer height so pointer Y can be flipped.
type backing struct{ c *Controller }

func (b backing) Height() float64 {
	_, h := b.c.deps.Window.Size()
	return float64(h) * b.c.dpr
}

// Initialize builds every component, compiles the initial source and starts
// the render chain. ctx bounds the storage calls made on behalf of edits.
func (c *Controller) Initialize(ctx context.Context) error {
	if c.state != Uninitialized {
		return errors.New("playground already initialized")
	}
	c.ctx = ctx
	win := c.deps.Window

	namespace, err := c.cfg.ResolveNamespace()
	if err != nil {
		return err
	}

	c.dpr = pixelRatio(c.resolution, win.ContentScale())
	c.pointers = pointer.New(backing{c}, c.dpr)
	c.store = store.New(c.deps.Backend, namespace)
	c.editor = editor.New(c.deps.Metrics)
	c.editor.SetHidden(!c.cfg.EditMode)
	c.debounce = c.deps.Loop.Debounce(time.Duration(c.cfg.RenderDelayMs) * time.Millisecond)

	c.renderer = renderer.New(c.deps.Translator)
	c.renderer.OnError(c.editor.SetError)
	if err := c.renderer.Initialize(win, c.dpr); err != nil {
		return fmt.Errorf("initializing renderer: %w", err)
	}
	if c.deps.NewCompositor != nil {
		comp, err := c.deps.NewCompositor(c.renderer.Device(), c.deps.Metrics)
		if err != nil {
			c.renderer.Dispose()
			return fmt.Errorf("initializing compositor: %w", err)
		}
		c.compositor = comp
	}

	if in, ok := win.(graphics.Input); ok {
		c.bind(in)
	}
	c.editor.OnChange(c.OnEdit)

	source, err := c.store.GetShaderSource(ctx, c.cfg.ShaderID)
	switch {
	case err == nil:
		log.Printf("Restored shader %q from %s", c.cfg.ShaderID, namespace)
	case errors.Is(err, store.ErrNotFound):
		source = c.initialSource()
	default:
		log.Printf("Warning: reading stored shader: %v", err)
		source = c.initialSource()
	}
	c.editor.SetText(source)
	c.persist(source)

	if err := c.renderer.Test(source); err != nil {
		c.editor.SetError(err.Error())
	} else {
		c.renderer.Update(source)
	}

	c.state = Ready
	w, h := win.Size()
	c.Resize(w, h)
	c.restart()
	return nil
}

func (c *Controller) initialSource() string {
	if c.deps.Source != "" {
		return c.deps.Source
	}
	return c.renderer.DefaultSource()
}

func pixelRatio(resolution, deviceRatio float64) float64 {
	return math.Max(1, resolution*deviceRatio)
}

// OnEdit schedules the edit cycle. Calls within the render delay coalesce
// into one cycle that sees the latest text.
func (c *Controller) OnEdit(string) {
	if c.state == Uninitialized {
		return
	}
	c.debounce.Call(c.fire)
}

// ExternalEdit replaces the buffer with text changed outside the editor and
// schedules the edit cycle.
func (c *Controller) ExternalEdit(text string) {
	if c.state == Uninitialized || text == c.editor.Text() {
		return
	}
	c.editor.SetText(text)
	c.OnEdit(text)
}

// fire persists the buffer, validates it and swaps it in when it compiles.
// A failing source leaves the previous program drawing.
func (c *Controller) fire() {
	if c.state == Uninitialized {
		return
	}
	text := c.editor.Text()
	c.editor.ClearError()
	c.persist(text)

	if err := c.renderer.Test(text); err != nil {
		c.editor.SetError(err.Error())
	} else if err := c.renderer.Update(text); err != nil {
		log.Printf("Warning: shader update failed: %v", err)
	}
	c.restart()
}

func (c *Controller) persist(text string) {
	if err := c.store.PutShaderSource(c.ctx, c.cfg.ShaderID, text); err != nil {
		log.Printf("Warning: saving shader source: %v", err)
	}
}

// restart replaces the render chain; there is never more than one.
func (c *Controller) restart() {
	c.deps.Loop.CancelFrame(c.frameID)
	c.frameID = c.deps.Loop.RequestFrame(c.frame)
	c.state = Rendering
}

func (c *Controller) frame(now float64) {
	p := c.pointers
	c.renderer.UpdatePointers(p.First(), p.Moves(), p.Coords(), p.Count())
	if c.compositor != nil {
		c.compositor.Begin(c.renderer.BackingSize())
	}
	c.renderer.Render(now)
	if c.compositor != nil {
		fbw, fbh := c.deps.Window.GetFramebufferSize()
		c.compositor.Present(c.editor, fbw, fbh)
	}
	c.frameID = c.deps.Loop.RequestFrame(c.frame)
}

// Reset restores the configured shader file or the default and runs the edit
// cycle at once.
func (c *Controller) Reset() {
	if c.state == Uninitialized {
		return
	}
	c.debounce.Cancel()
	c.editor.SetText(c.initialSource())
	c.fire()
}

// Resize follows the window size in screen coordinates.
func (c *Controller) Resize(width, height int) {
	if c.state == Uninitialized {
		return
	}
	c.renderer.UpdateScale(c.dpr)
	clientHeight := float64(height)
	if c.compositor != nil {
		c.compositor.Resize(width, height)
		clientHeight = c.compositor.ClientHeight()
	}
	c.editor.SetClientHeight(clientHeight)
}

// ToggleResolution switches between half and full resolution.
func (c *Controller) ToggleResolution() {
	if c.resolution == 1 {
		c.resolution = 0.5
	} else {
		c.resolution = 1
	}
	if c.state == Uninitialized {
		return
	}
	c.dpr = pixelRatio(c.resolution, c.deps.Window.ContentScale())
	c.pointers.UpdateScale(c.dpr)
	w, h := c.deps.Window.Size()
	c.Resize(w, h)
	log.Printf("Resolution %v (pixel ratio %v)", c.resolution, c.dpr)
}

// ToggleView shows or hides the editor.
func (c *Controller) ToggleView() {
	if c.state == Uninitialized {
		return
	}
	c.editor.SetHidden(!c.editor.Hidden())
}

// Stop cancels the outstanding frame.
func (c *Controller) Stop() {
	if c.state != Rendering {
		return
	}
	c.deps.Loop.CancelFrame(c.frameID)
	c.frameID = 0
	c.state = Ready
}

// Resume starts a fresh render chain after Stop.
func (c *Controller) Resume() {
	if c.state != Ready {
		return
	}
	c.restart()
}

// Dispose stops rendering and releases the renderer and store.
func (c *Controller) Dispose() error {
	if c.state == Uninitialized {
		return nil
	}
	c.Stop()
	c.debounce.Cancel()
	if c.compositor != nil {
		c.compositor.Destroy()
	}
	c.renderer.Dispose()
	c.state = Uninitialized
	if err := c.store.Close(); err != nil {
		return fmt.Errorf("closing store: %w", err)
	}
	return nil
}
