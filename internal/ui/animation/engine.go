package animation

import (
	"context"
	"sync"
	"time"
)

// Loop names.
const (
	LoopClock    = "clock"
	LoopCalendar = "calendar"
	LoopPulse    = "pulse"
)

// Config contains animation timing values.
type Config struct {
	ClockRefresh    time.Duration
	CalendarRefresh time.Duration
	PulseHold       time.Duration
}

// Engine runs the UI's cosmetic loops: the clock redraw, the calendar
// refresh and the countdown pulse. Each named loop has at most one live run.
type Engine struct {
	mu     sync.Mutex
	config Config
	loops  map[string]context.CancelFunc
	now    func() time.Time
}

// New creates a new animation engine.
func New(config Config) *Engine {
	defaults := DefaultConfig()
	if config.ClockRefresh <= 0 {
		config.ClockRefresh = defaults.ClockRefresh
	}
	if config.CalendarRefresh <= 0 {
		config.CalendarRefresh = defaults.CalendarRefresh
	}
	if config.PulseHold <= 0 {
		config.PulseHold = defaults.PulseHold
	}
	return &Engine{
		config: config,
		loops:  map[string]context.CancelFunc{},
		now:    time.Now,
	}
}

// StartClock calls draw immediately and then every ClockRefresh.
func (engine *Engine) StartClock(ctx context.Context, draw func(time.Time)) {
	engine.every(ctx, LoopClock, engine.config.ClockRefresh, draw)
}

// StartCalendar calls refresh immediately and then every CalendarRefresh.
func (engine *Engine) StartCalendar(ctx context.Context, refresh func(time.Time)) {
	engine.every(ctx, LoopCalendar, engine.config.CalendarRefresh, refresh)
}

// Pulse calls on, waits PulseHold and calls off. A new pulse cancels the
// wait of the previous one, whose off is then skipped.
func (engine *Engine) Pulse(ctx context.Context, on, off func()) {
	engine.start(ctx, LoopPulse, func(runCtx context.Context) {
		on()
		if !sleepWithContext(runCtx, engine.config.PulseHold) {
			return
		}
		off()
	})
}

// Stop terminates one loop.
func (engine *Engine) Stop(name string) {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if cancel, ok := engine.loops[name]; ok {
		cancel()
		delete(engine.loops, name)
	}
}

// StopAll terminates every loop.
func (engine *Engine) StopAll() {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	for name, cancel := range engine.loops {
		cancel()
		delete(engine.loops, name)
	}
}

// Running reports whether a loop is live.
func (engine *Engine) Running(name string) bool {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	_, ok := engine.loops[name]
	return ok
}

func (engine *Engine) every(ctx context.Context, name string, interval time.Duration, fn func(time.Time)) {
	engine.start(ctx, name, func(runCtx context.Context) {
		fn(engine.now())
		for {
			if !sleepWithContext(runCtx, interval) {
				return
			}
			fn(engine.now())
		}
	})
}

func (engine *Engine) start(parent context.Context, name string, run func(context.Context)) {
	engine.mu.Lock()
	if cancel, ok := engine.loops[name]; ok {
		cancel()
	}
	runCtx, cancel := context.WithCancel(parent)
	engine.loops[name] = cancel
	engine.mu.Unlock()

	go run(runCtx)
}

func sleepWithContext(ctx context.Context, duration time.Duration) bool {
	timer := time.NewTimer(duration)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
