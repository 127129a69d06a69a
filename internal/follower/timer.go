package follower

import "time"

// Clock supplies the current time. The daemon uses the system clock; tests
// inject a fake so suppression windows are checked without wall-clock waits.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns the wall clock.
func SystemClock() Clock { return systemClock{} }

// holdTimer is a single-slot resettable countdown, represented as plain state
// checked against the clock instead of a cancellable platform timer. Arm
// always wins over any in-flight countdown, so a superseded arm can never
// fire late.
type holdTimer struct {
	active    bool
	expiresAt time.Time
}

// Arm (re)starts the countdown from now. At most one pending expiry exists;
// the last call wins.
func (t *holdTimer) Arm(now time.Time, d time.Duration) {
	t.active = true
	t.expiresAt = now.Add(d)
}

// Active reports whether the countdown is still running, clearing the flag
// on first observation after expiry.
func (t *holdTimer) Active(now time.Time) bool {
	if !t.active {
		return false
	}
	if !now.Before(t.expiresAt) {
		t.active = false
		return false
	}
	return true
}

// Clear cancels the countdown.
func (t *holdTimer) Clear() {
	t.active = false
}
