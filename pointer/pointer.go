// Package pointer tracks the contacts pressed on the render surface and
// exposes them in the shape the fragment shader uniforms expect.
package pointer

import (
	"sort"

	"github.com/kamstrup/intmap"
)

// Surface reports the backing height of the render target in pixels. It is
// used to flip Y into the bottom-left origin GL uses.
type Surface interface {
	Height() float64
}

// Event is one pointer notification from the host window. X and Y are in
// window (unscaled) coordinates; DX and DY are the raw movement since the
// previous event for the same contact.
type Event struct {
	ID     int
	X, Y   float64
	DX, DY float64
}

// EventSource is implemented by hosts that deliver pointer callbacks.
type EventSource interface {
	SetPointerHandler(h Handler)
}

// Handler receives pointer callbacks. *Set implements it.
type Handler interface {
	Press(ev Event)
	Move(ev Event)
	Release(ev Event)
	Leave(ev Event)
}

type contact struct {
	x, y float32
	seq  uint64
}

// Set is the live contact table.
type Set struct {
	surface  Surface
	scale    float64
	active   bool
	contacts *intmap.Map[int, contact]
	nextSeq  uint64
	sticky   [2]float32
	moves    [2]float32
}

// New returns an empty Set bound to surface.
func New(surface Surface, scale float64) *Set {
	return &Set{
		surface:  surface,
		scale:    scale,
		contacts: intmap.New[int, contact](4),
	}
}

func (s *Set) mapCoords(x, y float64) (float32, float32) {
	return float32(x * s.scale), float32(s.surface.Height() - y*s.scale)
}

// Press starts tracking ev.ID.
func (s *Set) Press(ev Event) {
	s.active = true
	s.put(ev)
}

// Move updates a contact and accumulates its movement. Moves are ignored
// while nothing is pressed.
func (s *Set) Move(ev Event) {
	if !s.active {
		return
	}
	s.put(ev)
	s.moves[0] += float32(ev.DX)
	s.moves[1] += float32(ev.DY)
}

// Release stops tracking ev.ID.
func (s *Set) Release(ev Event) {
	s.remove(ev.ID)
}

// Leave is handled like Release: a contact that leaves the surface is gone.
func (s *Set) Leave(ev Event) {
	s.remove(ev.ID)
}

func (s *Set) put(ev Event) {
	x, y := s.mapCoords(ev.X, ev.Y)
	c, ok := s.contacts.Get(ev.ID)
	if !ok {
		s.nextSeq++
		c.seq = s.nextSeq
	}
	c.x, c.y = x, y
	s.contacts.Put(ev.ID, c)
}

func (s *Set) remove(id int) {
	if s.contacts.Len() == 1 {
		s.sticky = s.First()
	}
	s.contacts.Del(id)
	s.active = s.contacts.Len() > 0
}

// ordered returns the live contacts in press order.
func (s *Set) ordered() []contact {
	out := make([]contact, 0, s.contacts.Len())
	s.contacts.ForEach(func(_ int, c contact) bool {
		out = append(out, c)
		return true
	})
	sort.Slice(out, func(i, j int) bool { return out[i].seq < out[j].seq })
	return out
}

// Count is the number of live contacts.
func (s *Set) Count() int {
	return s.contacts.Len()
}

// Active reports whether any contact is pressed.
func (s *Set) Active() bool {
	return s.active
}

// Coords returns the live contacts flattened as x1,y1,x2,y2,... or [0,0]
// when nothing is pressed.
func (s *Set) Coords() []float32 {
	if s.contacts.Len() == 0 {
		return []float32{0, 0}
	}
	cs := s.ordered()
	out := make([]float32, 0, len(cs)*2)
	for _, c := range cs {
		out = append(out, c.x, c.y)
	}
	return out
}

// First returns the earliest pressed live contact, or the coordinate the
// last sole contact was released at.
func (s *Set) First() [2]float32 {
	cs := s.ordered()
	if len(cs) == 0 {
		return s.sticky
	}
	return [2]float32{cs[0].x, cs[0].y}
}

// Moves returns the accumulated movement since creation or the last Reset.
func (s *Set) Moves() [2]float32 {
	return s.moves
}

// UpdateScale changes the scale applied to future events.
func (s *Set) UpdateScale(scale float64) {
	s.scale = scale
}

// Scale returns the current coordinate scale.
func (s *Set) Scale() float64 {
	return s.scale
}

// Reset drops every contact and zeroes the movement total. The sticky
// coordinate survives.
func (s *Set) Reset() {
	s.contacts.Clear()
	s.active = false
	s.moves = [2]float32{}
}
