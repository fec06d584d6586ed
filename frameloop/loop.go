// Package frameloop is the single-threaded host timing source: per-frame
// callbacks in the manner of requestAnimationFrame, one-shot timers, and a
// goroutine-safe queue for work that must run on the loop's thread.
package frameloop

import (
	"context"
	"sort"
	"sync"
	"time"
)

// FrameID identifies a pending frame request. The zero value is never issued.
type FrameID uint64

type frameRequest struct {
	id FrameID
	cb func(nowMs float64)
}

// Host presents frames. glfwcontext.Context implements it.
type Host interface {
	ShouldClose() bool
	// EndFrame presents the frame and processes window events.
	EndFrame()
}

// Loop must be driven from one goroutine; only Post may be called from
// others.
type Loop struct {
	origin time.Time
	now    time.Time

	nextID FrameID
	frames []frameRequest

	nextSeq uint64
	timers  []*Timer

	mu     sync.Mutex
	posted []func()
}

// New returns a loop whose frame timestamps count from origin.
func New(origin time.Time) *Loop {
	return &Loop{origin: origin, now: origin}
}

// Now is the time of the current or most recent tick.
func (l *Loop) Now() time.Time {
	return l.now
}

// RequestFrame schedules cb for the next tick. Requests made while a tick is
// running its frame callbacks wait for the tick after.
func (l *Loop) RequestFrame(cb func(nowMs float64)) FrameID {
	l.nextID++
	l.frames = append(l.frames, frameRequest{id: l.nextID, cb: cb})
	return l.nextID
}

// CancelFrame drops a pending request. Unknown or already-run IDs are ignored.
func (l *Loop) CancelFrame(id FrameID) {
	for i, f := range l.frames {
		if f.id == id {
			l.frames = append(l.frames[:i], l.frames[i+1:]...)
			return
		}
	}
}

// PendingFrames is the number of frame callbacks waiting for the next tick.
func (l *Loop) PendingFrames() int {
	return len(l.frames)
}

// Post queues f to run at the start of the next tick. Safe for concurrent use.
func (l *Loop) Post(f func()) {
	l.mu.Lock()
	l.posted = append(l.posted, f)
	l.mu.Unlock()
}

// Tick advances the loop to now: posted work first, then due timers in
// deadline order, then the frame callbacks that were pending when the tick
// began.
func (l *Loop) Tick(now time.Time) {
	if now.After(l.now) {
		l.now = now
	}

	l.mu.Lock()
	posted := l.posted
	l.posted = nil
	l.mu.Unlock()
	for _, f := range posted {
		f()
	}

	l.runTimers()

	frames := l.frames
	l.frames = nil
	nowMs := float64(l.now.Sub(l.origin)) / float64(time.Millisecond)
	for _, f := range frames {
		f.cb(nowMs)
	}
}

// Run ticks once per presented frame until the host wants to close or ctx
// is done.
func (l *Loop) Run(ctx context.Context, host Host) error {
	for !host.ShouldClose() {
		if err := ctx.Err(); err != nil {
			return err
		}
		l.Tick(time.Now())
		host.EndFrame()
	}
	return nil
}

// Timer is a pending AfterFunc call.
type Timer struct {
	loop    *Loop
	when    time.Time
	seq     uint64
	f       func()
	stopped bool
}

// AfterFunc runs f on the loop once d has elapsed past the current tick.
func (l *Loop) AfterFunc(d time.Duration, f func()) *Timer {
	l.nextSeq++
	t := &Timer{loop: l, when: l.now.Add(d), seq: l.nextSeq, f: f}
	l.timers = append(l.timers, t)
	return t
}

// Stop prevents the timer from firing. It reports whether the call stopped
// a pending timer.
func (t *Timer) Stop() bool {
	if t == nil || t.stopped {
		return false
	}
	t.stopped = true
	timers := t.loop.timers
	for i, other := range timers {
		if other == t {
			t.loop.timers = append(timers[:i], timers[i+1:]...)
			return true
		}
	}
	return false
}

// PendingTimers is the number of timers that have not fired or been stopped.
func (l *Loop) PendingTimers() int {
	return len(l.timers)
}

func (l *Loop) runTimers() {
	var due []*Timer
	keep := l.timers[:0]
	for _, t := range l.timers {
		if !t.when.After(l.now) {
			due = append(due, t)
		} else {
			keep = append(keep, t)
		}
	}
	l.timers = keep
	sort.Slice(due, func(i, j int) bool {
		if due[i].when.Equal(due[j].when) {
			return due[i].seq < due[j].seq
		}
		return due[i].when.Before(due[j].when)
	})
	for _, t := range due {
		if t.stopped {
			continue
		}
		t.stopped = true
		t.f()
	}
}
