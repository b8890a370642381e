package adc11131

import "time"

// Clock is the time source used to honor [SettleTime] between frames.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

type systemClock struct{}

func (systemClock) Now() time.Time        { return time.Now() }
func (systemClock) Sleep(d time.Duration) { time.Sleep(d) }

// SystemClock returns a [Clock] backed by the time package.
func SystemClock() Clock {
	return systemClock{}
}
