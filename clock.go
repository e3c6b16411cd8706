package lrucache

import "time"

// Clock supplies the current time used to stamp writes and judge expiry.
// Tests substitute a manual clock; the default reads the wall clock.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}
