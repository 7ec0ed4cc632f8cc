package tetris

import "time"

const (
	InitialGravity = 350 * time.Millisecond
	MinGravity     = 100 * time.Millisecond
	GravityStep    = 5 * time.Millisecond
)

// Clock tells the time. Tests use a fake one to drive gravity.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// Timer paces gravity. It fires when more than Threshold has passed since
// the last time it fired.
type Timer struct {
	clock     Clock
	last      time.Time
	threshold time.Duration
}

func NewTimer(c Clock) *Timer {
	return &Timer{
		clock:     c,
		last:      c.Now(),
		threshold: InitialGravity,
	}
}

// IsUp reports whether the gravity interval elapsed, restarting the
// interval when it did.
func (t *Timer) IsUp() bool {
	now := t.clock.Now()
	if now.Sub(t.last) > t.threshold {
		t.last = now
		return true
	}
	return false
}

// LowerThreshold speeds gravity up by one step, never below MinGravity.
func (t *Timer) LowerThreshold() {
	if t.threshold-GravityStep >= MinGravity {
		t.threshold -= GravityStep
	}
}

func (t *Timer) Threshold() time.Duration { return t.threshold }

// Reset restarts the interval without firing.
func (t *Timer) Reset() { t.last = t.clock.Now() }
