package ports

import "time"

// Clock supplies the current time. Injected so transition timestamps and
// credential expiry are testable.
type Clock interface {
	Now() time.Time
}

// SystemClock is the production Clock.
type SystemClock struct{}

// Now implements Clock.
func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}
