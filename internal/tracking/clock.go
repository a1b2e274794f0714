package tracking

import (
	"sync"
	"time"
)

type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

// SystemClock reads wall-clock time in UTC.
var SystemClock Clock = systemClock{}

// StopFunc cancels a repeating callback. Calling it more than once is a no-op.
type StopFunc func()

// Scheduler installs repeating callbacks.
type Scheduler interface {
	Every(d time.Duration, fn func()) StopFunc
}

type tickerScheduler struct{}

// TickerScheduler runs each callback on its own goroutine driven by a time.Ticker.
var TickerScheduler Scheduler = tickerScheduler{}

func (tickerScheduler) Every(d time.Duration, fn func()) StopFunc {
	if d <= 0 {
		d = time.Second
	}
	t := time.NewTicker(d)
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-t.C:
				fn()
			case <-done:
				return
			}
		}
	}()
	var once sync.Once
	return func() {
		once.Do(func() {
			t.Stop()
			close(done)
		})
	}
}
