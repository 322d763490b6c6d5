package schedule

import (
	"sync"
	"time"
)

// Debouncer coalesces a burst of triggers into a single call made once the
// burst has been quiet for the requested delay. At most one call is pending
// at a time
type Debouncer struct {
	clock Clock

	mu    sync.Mutex
	timer Timer
	// gen increments on every Trigger and Cancel, a timer that fires with a
	// stale generation does nothing
	gen uint64
}

// NewDebouncer creates a Debouncer on the given clock
func NewDebouncer(clock Clock) *Debouncer {
	return &Debouncer{clock: clock}
}

// Trigger schedules f to run after delay, replacing any pending call
func (d *Debouncer) Trigger(delay time.Duration, f func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopLocked()
	gen := d.gen
	d.timer = d.clock.AfterFunc(delay, func() {
		d.mu.Lock()
		if gen != d.gen {
			d.mu.Unlock()
			return
		}
		d.timer = nil
		d.gen++
		d.mu.Unlock()
		f()
	})
}

// Cancel drops the pending call, if any, reporting whether one was pending
func (d *Debouncer) Cancel() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	pending := d.timer != nil
	d.stopLocked()
	return pending
}

// Pending reports whether a call is waiting to fire
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

func (d *Debouncer) stopLocked() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.gen++
}
