package monitor

import "time"

// Clock abstracts ticker creation so tests can drive the monitor with
// synthetic time instead of sleeping.
type Clock interface {
	NewTicker(d time.Duration) Ticker
}

// Ticker is the minimal ticker surface the monitor needs.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// RealClock implements Clock over the runtime timer.
type RealClock struct{}

func (RealClock) NewTicker(d time.Duration) Ticker {
	return &realTicker{ticker: time.NewTicker(d)}
}

type realTicker struct {
	ticker *time.Ticker
}

func (t *realTicker) C() <-chan time.Time { return t.ticker.C }
func (t *realTicker) Stop()               { t.ticker.Stop() }
