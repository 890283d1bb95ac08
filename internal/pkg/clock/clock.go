package clock

import "time"

// Clocker returns the current time.
type Clocker interface {
	Now() time.Time
}

// TimeClocker reads the system clock in UTC.
type TimeClocker struct{}

// New returns the system clock.
func New() *TimeClocker {
	return &TimeClocker{}
}

// Now returns time.Now in UTC.
func (*TimeClocker) Now() time.Time {
	return time.Now().UTC()
}

// Func adapts a plain function to Clocker.
type Func func() time.Time

// Now calls f.
func (f Func) Now() time.Time {
	return f()
}
