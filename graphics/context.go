package graphics

import (
	"github.com/richinsley/goshaderplay/pointer"
	"github.com/richinsley/goshaderplay/renderer"
)

// Context defines the interface for a window with an OpenGL context.
type Context interface {
	Shutdown()
	ShouldClose() bool
	SetShouldClose(bool)
	EndFrame()
	// Size is the window size in screen coordinates.
	Size() (int, int)
	GetFramebufferSize() (int, int)
	// ContentScale is the ratio of framebuffer pixels to screen coordinates.
	ContentScale() float64
	AcquireDevice() (renderer.Device, error)
}

// Input is a Context that also delivers user input.
type Input interface {
	pointer.EventSource
	RegisterKeyCallback(key Key, mods Mod, f func())
	SetInputHandler(h InputHandler)
	SetResizeHandler(f func(width, height int))
	// SetVisibilityHandler is told when the window is minimized (false) and
	// restored (true).
	SetVisibilityHandler(f func(visible bool))
}

// InputHandler receives keys that have no registered callback and typed text.
type InputHandler interface {
	Key(key Key, mods Mod)
	Char(r rune)
}
