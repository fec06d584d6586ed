package glfwcontext

import (
	glfw "github.com/go-gl/glfw/v3.3/glfw"
	"github.com/richinsley/goshaderplay/graphics"
)

var keyMap = map[glfw.Key]graphics.Key{
	glfw.KeyEscape:    graphics.KeyEscape,
	glfw.KeyTab:       graphics.KeyTab,
	glfw.KeyEnter:     graphics.KeyEnter,
	glfw.KeyKPEnter:   graphics.KeyEnter,
	glfw.KeyBackspace: graphics.KeyBackspace,
	glfw.KeyDelete:    graphics.KeyDelete,
	glfw.KeyLeft:      graphics.KeyLeft,
	glfw.KeyRight:     graphics.KeyRight,
	glfw.KeyUp:        graphics.KeyUp,
	glfw.KeyDown:      graphics.KeyDown,
	glfw.KeyHome:      graphics.KeyHome,
	glfw.KeyEnd:       graphics.KeyEnd,
	glfw.KeyL:         graphics.KeyL,
	glfw.KeyR:         graphics.KeyR,
	glfw.KeyS:         graphics.KeyS,
}

func translateKey(key glfw.Key) graphics.Key {
	if k, ok := keyMap[key]; ok {
		return k
	}
	return graphics.KeyUnknown
}

func translateMods(mods glfw.ModifierKey) graphics.Mod {
	var m graphics.Mod
	if mods&glfw.ModShift != 0 {
		m |= graphics.ModShift
	}
	if mods&glfw.ModControl != 0 {
		m |= graphics.ModControl
	}
	if mods&glfw.ModAlt != 0 {
		m |= graphics.ModAlt
	}
	if mods&glfw.ModSuper != 0 {
		m |= graphics.ModSuper
	}
	return m
}
