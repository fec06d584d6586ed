package frameloop

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func TestFrameCallbacksRunOncePerRequest(t *testing.T) {
	l := New(epoch)
	var got []float64
	l.RequestFrame(func(now float64) { got = append(got, now) })

	l.Tick(epoch.Add(16 * time.Millisecond))
	l.Tick(epoch.Add(32 * time.Millisecond))

	assert.Equal(t, []float64{16}, got)
}

func TestFrameRequestedDuringTickWaits(t *testing.T) {
	l := New(epoch)
	ticks := 0
	var loop func(float64)
	loop = func(float64) {
		ticks++
		l.RequestFrame(loop)
	}
	l.RequestFrame(loop)

	for i := 1; i <= 3; i++ {
		l.Tick(epoch.Add(time.Duration(i) * time.Millisecond))
		assert.Equal(t, i, ticks)
		assert.Equal(t, 1, l.PendingFrames())
	}
}

func TestCancelFrame(t *testing.T) {
	l := New(epoch)
	ran := false
	id := l.RequestFrame(func(float64) { ran = true })

	l.CancelFrame(id)
	l.CancelFrame(id)
	l.CancelFrame(0)
	l.Tick(epoch.Add(time.Millisecond))

	assert.False(t, ran)
	assert.Equal(t, 0, l.PendingFrames())
}

func TestTimersFireInDeadlineOrder(t *testing.T) {
	l := New(epoch)
	var order []string
	l.AfterFunc(30*time.Millisecond, func() { order = append(order, "c") })
	l.AfterFunc(10*time.Millisecond, func() { order = append(order, "a") })
	l.AfterFunc(10*time.Millisecond, func() { order = append(order, "b") })
	stopped := l.AfterFunc(20*time.Millisecond, func() { order = append(order, "x") })

	assert.True(t, stopped.Stop())
	assert.False(t, stopped.Stop())

	l.Tick(epoch.Add(5 * time.Millisecond))
	assert.Empty(t, order)

	l.Tick(epoch.Add(30 * time.Millisecond))
	assert.Equal(t, []string{"a", "b", "c"}, order)
	assert.Equal(t, 0, l.PendingTimers())
}

func TestTimersRunBeforeFrames(t *testing.T) {
	l := New(epoch)
	var order []string
	l.RequestFrame(func(float64) { order = append(order, "frame") })
	l.AfterFunc(0, func() { order = append(order, "timer") })
	l.Post(func() { order = append(order, "posted") })

	l.Tick(epoch)

	assert.Equal(t, []string{"posted", "timer", "frame"}, order)
}

func TestPostFromOtherGoroutines(t *testing.T) {
	l := New(epoch)
	var wg sync.WaitGroup
	count := 0
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l.Post(func() { count++ })
		}()
	}
	wg.Wait()

	l.Tick(epoch)
	assert.Equal(t, 20, count)
}

func TestDebounceCoalesces(t *testing.T) {
	l := New(epoch)
	d := l.Debounce(time.Second)
	var calls []int

	for i := 0; i < 5; i++ {
		i := i
		l.Tick(epoch.Add(time.Duration(i) * 100 * time.Millisecond))
		d.Call(func() { calls = append(calls, i) })
	}
	assert.True(t, d.Pending())

	// one second after the first call but not after the last
	l.Tick(epoch.Add(1100 * time.Millisecond))
	assert.Empty(t, calls)

	l.Tick(epoch.Add(1400 * time.Millisecond))
	assert.Equal(t, []int{4}, calls)
	assert.False(t, d.Pending())

	l.Tick(epoch.Add(5 * time.Second))
	assert.Equal(t, []int{4}, calls)
}

func TestDebounceCancel(t *testing.T) {
	l := New(epoch)
	d := l.Debounce(time.Millisecond)
	ran := false
	d.Call(func() { ran = true })

	d.Cancel()
	l.Tick(epoch.Add(time.Second))

	assert.False(t, ran)
	assert.Equal(t, time.Millisecond, d.Delay())
}

type countingHost struct {
	frames int
	limit  int
}

func (h *countingHost) ShouldClose() bool { return h.frames >= h.limit }
func (h *countingHost) EndFrame()         { h.frames++ }

func TestRunStopsWhenHostCloses(t *testing.T) {
	l := New(time.Now())
	host := &countingHost{limit: 3}
	ticks := 0
	var loop func(float64)
	loop = func(float64) {
		ticks++
		l.RequestFrame(loop)
	}
	l.RequestFrame(loop)

	assert.NoError(t, l.Run(context.Background(), host))
	assert.Equal(t, 3, ticks)
}

func TestRunHonoursContext(t *testing.T) {
	l := New(time.Now())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := l.Run(ctx, &countingHost{limit: 100})
	assert.ErrorIs(t, err, context.Canceled)
}
