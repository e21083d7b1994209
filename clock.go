package expirestore

import "time"

// Clock is the time source used to decide whether a record has expired.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to a Clock.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time {
	return f()
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now()
}

// RealClock is the wall clock.
var RealClock Clock = realClock{}
