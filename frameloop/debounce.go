package frameloop

import "time"

// Debouncer coalesces bursts of calls: only the last call made within the
// delay runs, once the loop has been quiet for the full delay.
type Debouncer struct {
	loop  *Loop
	delay time.Duration
	timer *Timer
}

// Debounce returns a Debouncer scheduling on l.
func (l *Loop) Debounce(delay time.Duration) *Debouncer {
	return &Debouncer{loop: l, delay: delay}
}

// Call cancels any pending call and schedules f.
func (d *Debouncer) Call(f func()) {
	d.timer.Stop()
	d.timer = d.loop.AfterFunc(d.delay, func() {
		d.timer = nil
		f()
	})
}

// Cancel drops the pending call, if any.
func (d *Debouncer) Cancel() {
	d.timer.Stop()
	d.timer = nil
}

// Pending reports whether a call is waiting to run.
func (d *Debouncer) Pending() bool {
	return d.timer != nil
}

// Delay is the quiet period before a call runs.
func (d *Debouncer) Delay() time.Duration {
	return d.delay
}
