package playground

import (
	"github.com/richinsley/goshaderplay/graphics"
	"github.com/richinsley/goshaderplay/pointer"
)

func (c *Controller) bind(in graphics.Input) {
	in.SetPointerHandler(pointerRouter{c})
	in.SetInputHandler(c)
	in.SetResizeHandler(c.Resize)
	in.SetVisibilityHandler(c.visibilityChanged)
	in.RegisterKeyCallback(graphics.KeyL, graphics.ModControl, c.ToggleView)
	in.RegisterKeyCallback(graphics.KeyR, graphics.ModControl, c.ToggleResolution)
	in.RegisterKeyCallback(graphics.KeyR, graphics.ModControl|graphics.ModShift, c.Reset)
	in.RegisterKeyCallback(graphics.KeyS, graphics.ModControl, c.Snapshot)
	in.RegisterKeyCallback(graphics.KeyEscape, 0, func() {
		c.deps.Window.SetShouldClose(true)
	})
}

// visibilityChanged stops the render chain while the window is minimized.
func (c *Controller) visibilityChanged(visible bool) {
	if visible {
		c.Resume()
		return
	}
	c.Stop()
}

// pointerRouter feeds the pointer uniforms and moves focus between the text
// area and the diagnostic panel on press.
type pointerRouter struct {
	c *Controller
}

func (r pointerRouter) Press(ev pointer.Event) {
	r.c.pointers.Press(ev)
	e := r.c.editor
	if e.Hidden() {
		return
	}
	if r.c.compositor != nil && r.c.compositor.PanelAt(e, ev.X, ev.Y) {
		e.FocusError()
		return
	}
	e.Focus()
}

func (r pointerRouter) Move(ev pointer.Event)    { r.c.pointers.Move(ev) }
func (r pointerRouter) Release(ev pointer.Event) { r.c.pointers.Release(ev) }
func (r pointerRouter) Leave(ev pointer.Event)   { r.c.pointers.Leave(ev) }

// Key implements graphics.InputHandler. Keys reach the editor only while it
// is shown and focused.
func (c *Controller) Key(key graphics.Key, mods graphics.Mod) {
	e := c.editor
	if e == nil || e.Hidden() || !e.Focused() {
		return
	}
	switch key {
	case graphics.KeyTab:
		e.HandleTab(mods.Has(graphics.ModShift))
		return
	case graphics.KeyEnter:
		e.HandleEnter()
		return
	case graphics.KeyBackspace:
		e.Backspace()
	case graphics.KeyDelete:
		e.Delete()
	case graphics.KeyLeft:
		e.MoveLeft()
	case graphics.KeyRight:
		e.MoveRight()
	case graphics.KeyUp:
		e.MoveUp()
	case graphics.KeyDown:
		e.MoveDown()
	case graphics.KeyHome:
		e.Home()
	case graphics.KeyEnd:
		e.End()
	default:
		return
	}
	e.ScrollToCaret()
}

// Char implements graphics.InputHandler.
func (c *Controller) Char(r rune) {
	e := c.editor
	if e == nil || e.Hidden() || !e.Focused() {
		return
	}
	e.Insert(string(r))
	e.ScrollToCaret()
}
