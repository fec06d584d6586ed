package graphics

// Key is a window-system independent key code.
type Key int

const (
	KeyUnknown Key = iota
	KeyEscape
	KeyTab
	KeyEnter
	KeyBackspace
	KeyDelete
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
	KeyHome
	KeyEnd
	KeyL
	KeyR
	KeyS
)

// Mod is a set of modifier keys.
type Mod int

const (
	ModShift Mod = 1 << iota
	ModControl
	ModAlt
	ModSuper
)

// Has reports whether all of want are held.
func (m Mod) Has(want Mod) bool {
	return m&want == want
}
