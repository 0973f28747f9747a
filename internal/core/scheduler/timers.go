package scheduler

import (
	"context"
	"time"
)

// Handle cancels a periodic timer. Stop never waits for an in-flight
// callback to finish.
type Handle interface {
	Stop()
}

// Timers creates periodic timers.
type Timers interface {
	Every(interval time.Duration, fn func(time.Time)) Handle
}

type cancelHandle context.CancelFunc

func (handle cancelHandle) Stop() { handle() }

// TickerTimers runs each timer on its own goroutine driven by a time.Ticker.
type TickerTimers struct {
	ctx context.Context
}

// NewTickerTimers returns timers that all stop when ctx is cancelled.
func NewTickerTimers(ctx context.Context) *TickerTimers {
	if ctx == nil {
		ctx = context.Background()
	}
	return &TickerTimers{ctx: ctx}
}

// Every calls fn once per interval until the returned handle is stopped.
func (timers *TickerTimers) Every(interval time.Duration, fn func(time.Time)) Handle {
	runCtx, cancel := context.WithCancel(timers.ctx)
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-runCtx.Done():
				return
			case now := <-ticker.C:
				if runCtx.Err() != nil {
					return
				}
				fn(now)
			}
		}
	}()
	return cancelHandle(cancel)
}
