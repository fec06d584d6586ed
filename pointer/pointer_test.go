package pointer_test

import (
	"testing"

	"github.com/richinsley/goshaderplay/pointer"
	"github.com/stretchr/testify/assert"
)

type surface float64

func (s surface) Height() float64 { return float64(s) }

func TestPressMapsAndFlips(t *testing.T) {
	set := pointer.New(surface(100), 2)

	set.Press(pointer.Event{ID: 1, X: 10, Y: 20})

	assert.Equal(t, 1, set.Count())
	assert.Equal(t, [2]float32{20, 60}, set.First())
	assert.Equal(t, []float32{20, 60}, set.Coords())
}

func TestStickyLastPointer(t *testing.T) {
	set := pointer.New(surface(100), 1)

	set.Press(pointer.Event{ID: 7, X: 10, Y: 20})
	set.Release(pointer.Event{ID: 7, X: 10, Y: 20})

	assert.Equal(t, 0, set.Count())
	assert.Equal(t, []float32{0, 0}, set.Coords())
	for i := 0; i < 3; i++ {
		assert.Equal(t, [2]float32{10, 80}, set.First())
	}

	set.Press(pointer.Event{ID: 8, X: 1, Y: 1})
	assert.Equal(t, [2]float32{1, 99}, set.First())
}

func TestLeaveKeepsSticky(t *testing.T) {
	set := pointer.New(surface(50), 1)

	set.Press(pointer.Event{ID: 0, X: 5, Y: 5})
	set.Move(pointer.Event{ID: 0, X: 6, Y: 7, DX: 1, DY: 2})
	set.Leave(pointer.Event{ID: 0})

	assert.Equal(t, [2]float32{6, 43}, set.First())
	assert.False(t, set.Active())
}

func TestStickyOnlyFromSoleContact(t *testing.T) {
	set := pointer.New(surface(100), 1)

	set.Press(pointer.Event{ID: 1, X: 10, Y: 10})
	set.Press(pointer.Event{ID: 2, X: 30, Y: 30})
	set.Release(pointer.Event{ID: 1})

	// one contact is still live so it wins over the sticky value
	assert.Equal(t, [2]float32{30, 70}, set.First())
	assert.Equal(t, [2]float32{0, 0}, set.Moves())

	set.Release(pointer.Event{ID: 2})
	assert.Equal(t, [2]float32{30, 70}, set.First())
}

func TestCoordsInPressOrder(t *testing.T) {
	set := pointer.New(surface(10), 1)

	for id := 5; id >= 1; id-- {
		set.Press(pointer.Event{ID: id, X: float64(id), Y: 0})
	}

	assert.Equal(t, 5, set.Count())
	assert.Equal(t, []float32{5, 10, 4, 10, 3, 10, 2, 10, 1, 10}, set.Coords())
	assert.Equal(t, [2]float32{5, 10}, set.First())
}

func TestMovesAccumulate(t *testing.T) {
	set := pointer.New(surface(10), 1)

	set.Move(pointer.Event{ID: 1, DX: 100, DY: 100})
	assert.Equal(t, [2]float32{0, 0}, set.Moves(), "moves while idle are ignored")

	set.Press(pointer.Event{ID: 1})
	set.Move(pointer.Event{ID: 1, DX: 3, DY: -1})
	set.Move(pointer.Event{ID: 1, DX: 2, DY: -1})
	set.Release(pointer.Event{ID: 1})
	set.Press(pointer.Event{ID: 1})
	set.Move(pointer.Event{ID: 1, DX: 1, DY: 1})

	assert.Equal(t, [2]float32{6, -1}, set.Moves())

	set.Reset()
	assert.Equal(t, [2]float32{0, 0}, set.Moves())
	assert.Equal(t, 0, set.Count())
}

func TestUpdateScale(t *testing.T) {
	set := pointer.New(surface(200), 1)
	set.UpdateScale(0.5)

	set.Press(pointer.Event{ID: 1, X: 100, Y: 100})

	assert.Equal(t, 0.5, set.Scale())
	assert.Equal(t, [2]float32{50, 150}, set.First())
}
