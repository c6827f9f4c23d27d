package core

import "time"

// Clock supplies the current time to anything that stamps or renders
// entities. Injected so tests can pin "now" instead of racing the wall clock.
type Clock interface {
	Now() time.Time
}

// SystemClock is the wall-clock Clock used outside of tests.
type SystemClock struct{}

// Now returns the current wall-clock time.
func (SystemClock) Now() time.Time {
	return time.Now()
}
