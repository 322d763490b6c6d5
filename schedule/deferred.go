package schedule

// Deferred runs a task on the clock's next tick, giving anything queued
// ahead of it (a status update, say) the chance to go first. Each Schedule
// runs at most once
type Deferred struct {
	d *Debouncer
}

// NewDeferred creates a Deferred on the given clock
func NewDeferred(clock Clock) *Deferred {
	return &Deferred{d: NewDebouncer(clock)}
}

// Schedule queues f for the next tick, replacing a task that has not run yet
func (t *Deferred) Schedule(f func()) {
	t.d.Trigger(0, f)
}

// Cancel drops a task that has not run yet
func (t *Deferred) Cancel() bool {
	return t.d.Cancel()
}

// Pending reports whether a task is waiting to run
func (t *Deferred) Pending() bool {
	return t.d.Pending()
}
