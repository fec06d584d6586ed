package glfwcontext

import (
	"log"
	"runtime"

	glfw "github.com/go-gl/glfw/v3.3/glfw"
	"github.com/richinsley/goshaderplay/graphics"
	"github.com/richinsley/goshaderplay/pointer"
	"github.com/richinsley/goshaderplay/renderer"
)

// mouseID is the pointer ID reported for the mouse, as browsers do.
const mouseID = 1

type binding struct {
	key  graphics.Key
	mods graphics.Mod
}

// Context is a GLFW window that routes its input to the playground.
type Context struct {
	window *glfw.Window

	// A map to store functions to be called on key presses.
	keyCallbacks map[binding]func()
	input        graphics.InputHandler
	pointers     pointer.Handler
	resize       func(width, height int)
	visibility   func(visible bool)

	cursorX, cursorY float64
	cursorKnown      bool
	mouseDown        bool
}

var _ graphics.Context = (*Context)(nil)
var _ graphics.Input = (*Context)(nil)

// New creates and initializes a new GLFW window and returns a Context object.
func New(width, height int, title string, visible bool) (*Context, error) {
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.ScaleToMonitor, glfw.True)

	if visible {
		glfw.WindowHint(glfw.Resizable, glfw.True)
	} else {
		glfw.WindowHint(glfw.Visible, glfw.False)
	}

	win, err := glfw.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		return nil, err
	}

	c := &Context{
		window:       win,
		keyCallbacks: make(map[binding]func()),
	}

	win.SetKeyCallback(c.glfwKeyCallback)
	win.SetCharCallback(c.glfwCharCallback)
	win.SetMouseButtonCallback(c.glfwMouseButtonCallback)
	win.SetCursorPosCallback(c.glfwCursorPosCallback)
	win.SetCursorEnterCallback(c.glfwCursorEnterCallback)
	win.SetSizeCallback(c.glfwSizeCallback)
	win.SetIconifyCallback(c.glfwIconifyCallback)

	return c, nil
}

// RegisterKeyCallback allows the main application to register a function to be
// called when a specific key and modifier combination is pressed.
func (c *Context) RegisterKeyCallback(key graphics.Key, mods graphics.Mod, f func()) {
	c.keyCallbacks[binding{key, mods}] = f
}

// SetInputHandler receives every key press without a registered callback.
func (c *Context) SetInputHandler(h graphics.InputHandler) {
	c.input = h
}

// SetPointerHandler implements pointer.EventSource.
func (c *Context) SetPointerHandler(h pointer.Handler) {
	c.pointers = h
}

// SetResizeHandler is called with the new window size in screen coordinates.
func (c *Context) SetResizeHandler(f func(width, height int)) {
	c.resize = f
}

// SetVisibilityHandler is called when the window is iconified or restored.
func (c *Context) SetVisibilityHandler(f func(visible bool)) {
	c.visibility = f
}

func (c *Context) glfwKeyCallback(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	if action == glfw.Release {
		return
	}
	k, m := translateKey(key), translateMods(mods)
	if action == glfw.Press {
		if callback, ok := c.keyCallbacks[binding{k, m}]; ok {
			callback()
			return
		}
	}
	if c.input != nil && k != graphics.KeyUnknown {
		c.input.Key(k, m)
	}
}

func (c *Context) glfwCharCallback(w *glfw.Window, char rune) {
	if c.input != nil {
		c.input.Char(char)
	}
}

func (c *Context) event() pointer.Event {
	return pointer.Event{ID: mouseID, X: c.cursorX, Y: c.cursorY}
}

func (c *Context) glfwMouseButtonCallback(w *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
	if button != glfw.MouseButtonLeft || c.pointers == nil {
		return
	}
	c.cursorX, c.cursorY = w.GetCursorPos()
	c.cursorKnown = true
	switch action {
	case glfw.Press:
		c.mouseDown = true
		c.pointers.Press(c.event())
	case glfw.Release:
		c.mouseDown = false
		c.pointers.Release(c.event())
	}
}

func (c *Context) glfwCursorPosCallback(w *glfw.Window, x, y float64) {
	ev := pointer.Event{ID: mouseID, X: x, Y: y}
	if c.cursorKnown {
		ev.DX, ev.DY = x-c.cursorX, y-c.cursorY
	}
	c.cursorX, c.cursorY = x, y
	c.cursorKnown = true
	if c.pointers != nil {
		c.pointers.Move(ev)
	}
}

func (c *Context) glfwCursorEnterCallback(w *glfw.Window, entered bool) {
	if entered {
		return
	}
	c.cursorKnown = false
	if c.mouseDown && c.pointers != nil {
		c.mouseDown = false
		c.pointers.Leave(c.event())
	}
}

func (c *Context) glfwSizeCallback(w *glfw.Window, width, height int) {
	if c.resize != nil {
		c.resize(width, height)
	}
}

func (c *Context) glfwIconifyCallback(w *glfw.Window, iconified bool) {
	if c.visibility != nil {
		c.visibility(!iconified)
	}
}

// AcquireDevice makes the window's context current and loads the GL entry
// points for it.
func (c *Context) AcquireDevice() (renderer.Device, error) {
	c.window.MakeContextCurrent()
	dev, err := renderer.NewGLDevice()
	if err != nil {
		return nil, err
	}
	log.Printf("OpenGL %s", dev.Version())
	return dev, nil
}

// Shutdown destroys the window.
func (c *Context) Shutdown() {
	c.window.Destroy()
}

func (c *Context) ShouldClose() bool {
	return c.window.ShouldClose()
}

func (c *Context) SetShouldClose(v bool) {
	c.window.SetShouldClose(v)
}

func (c *Context) EndFrame() {
	c.window.SwapBuffers()
	glfw.PollEvents()
}

func (c *Context) Size() (int, int) {
	return c.window.GetSize()
}

func (c *Context) GetFramebufferSize() (int, int) {
	return c.window.GetFramebufferSize()
}

// ContentScale derives the pixel ratio from the framebuffer and window sizes,
// which is what the GL viewport sees on every platform.
func (c *Context) ContentScale() float64 {
	fbWidth, _ := c.GetFramebufferSize()
	winWidth, _ := c.window.GetSize()
	if fbWidth <= 0 || winWidth <= 0 {
		sx, _ := c.window.GetContentScale()
		if sx <= 0 {
			return 1
		}
		return float64(sx)
	}
	return float64(fbWidth) / float64(winWidth)
}

// InitGraphics initializes the main graphics subsystem (GLFW). Must be called from the main thread.
func InitGraphics() error {
	runtime.LockOSThread()
	if err := glfw.Init(); err != nil {
		return err
	}
	log.Printf("GLFW Initialized")
	return nil
}

// TerminateGraphics shuts down the graphics subsystem. Must be called from the main thread.
func TerminateGraphics() {
	glfw.Terminate()
	log.Printf("GLFW Terminated")
}
