package reactor

import "time"

// Clock abstracts time for the facade. Production code uses the real
// clock; tests substitute a deterministic one so uptime and sleeps
// can be asserted exactly.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

type realClock struct{}

func (realClock) Now() time.Time        { return time.Now() }
func (realClock) Sleep(d time.Duration) { time.Sleep(d) }

// RealClock returns a Clock backed by the system clock.
func RealClock() Clock {
	return realClock{}
}
