package schedule

import "time"

// Timer is a pending callback created by Clock.AfterFunc
type Timer interface {
	// Stop prevents the callback from firing, reporting whether it was
	// still pending
	Stop() bool
}

// Clock abstracts time so scheduling can be driven deterministically
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

// RealClock is a Clock backed by package time
type RealClock struct{}

// Now returns the current wall time
func (RealClock) Now() time.Time { return time.Now() }

// AfterFunc calls f in its own goroutine after d
func (RealClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
