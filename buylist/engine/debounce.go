package engine

import (
	"sync"
	"time"
)

// Delays applied to free-text input: constrained devices and slow networks
// get the wider window.
const (
	DebounceFast = 120 * time.Millisecond
	DebounceSlow = 240 * time.Millisecond
)

// Debouncer coalesces a burst of events into one callback: each Trigger
// cancels the pending timer and schedules a fresh one, so at most a single
// timer is ever outstanding.
type Debouncer struct {
	delay time.Duration

	mu    sync.Mutex
	timer *time.Timer
}

func NewDebouncer(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay}
}

// Trigger schedules fn to run after the delay, replacing any pending
// callback.
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, fn)
}

// Stop cancels the pending callback, if any.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
