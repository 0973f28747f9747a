// Package scheduler drives a running countdown with a 1 Hz tick timer and
// a faster frame timer for the backdrop animation.
package scheduler

import (
	"image/color"
	"log/slog"
	"sync"
	"time"

	"clockwork/internal/core/backdrop"
	"clockwork/internal/core/countdown"
)

// Default cadences.
const (
	DefaultTickInterval  = time.Second
	DefaultFrameInterval = 100 * time.Millisecond
)

// Engine is the part of countdown.Engine the scheduler drives.
type Engine interface {
	Tick() countdown.TickResult
	State() countdown.State
	Progress() float64
	Expired() bool
}

// Callbacks receive scheduler output. They run serialized and must not block.
type Callbacks struct {
	OnTick  func(countdown.TickResult)
	OnFrame func(color.NRGBA)
}

// Config contains scheduler cadences.
type Config struct {
	TickInterval  time.Duration
	FrameInterval time.Duration
	Logger        *slog.Logger
}

// Scheduler owns at most one tick timer and one frame timer. Both share a
// single lifecycle: they are created together by Run and cancelled
// together by Halt or as soon as the engine stops running.
type Scheduler struct {
	engine    Engine
	timers    Timers
	callbacks Callbacks
	config    Config
	logger    *slog.Logger

	dispatch sync.Mutex

	mu         sync.Mutex
	generation uint64
	tick       Handle
	frame      Handle
}

// New creates an idle scheduler.
func New(engine Engine, timers Timers, callbacks Callbacks, config Config) *Scheduler {
	if config.TickInterval <= 0 {
		config.TickInterval = DefaultTickInterval
	}
	if config.FrameInterval <= 0 {
		config.FrameInterval = DefaultFrameInterval
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		engine:    engine,
		timers:    timers,
		callbacks: callbacks,
		config:    config,
		logger:    logger.With("component", "scheduler"),
	}
}

// Run cancels any live timers, starts a fresh pair and evaluates the engine
// once immediately.
func (scheduler *Scheduler) Run() {
	scheduler.dispatch.Lock()
	scheduler.mu.Lock()
	scheduler.stopLocked()
	scheduler.generation++
	generation := scheduler.generation
	scheduler.tick = scheduler.timers.Every(scheduler.config.TickInterval, func(time.Time) {
		scheduler.onTick(generation)
	})
	scheduler.frame = scheduler.timers.Every(scheduler.config.FrameInterval, func(time.Time) {
		scheduler.onFrame(generation)
	})
	scheduler.mu.Unlock()
	scheduler.dispatch.Unlock()

	scheduler.logger.Debug("timers started", "generation", generation)
	scheduler.onTick(generation)
}

// Halt cancels both timers. It waits for a callback that is already
// dispatching to return, so no callback runs after Halt returns.
func (scheduler *Scheduler) Halt() {
	scheduler.dispatch.Lock()
	defer scheduler.dispatch.Unlock()
	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()
	if scheduler.stopLocked() {
		scheduler.generation++
		scheduler.logger.Debug("timers halted")
	}
}

// Live reports which timers are currently active.
func (scheduler *Scheduler) Live() (tick bool, frame bool) {
	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()
	return scheduler.tick != nil, scheduler.frame != nil
}

func (scheduler *Scheduler) onTick(generation uint64) {
	scheduler.dispatch.Lock()
	defer scheduler.dispatch.Unlock()
	if !scheduler.current(generation) {
		return
	}
	scheduler.tickLocked(generation)
}

func (scheduler *Scheduler) onFrame(generation uint64) {
	scheduler.dispatch.Lock()
	defer scheduler.dispatch.Unlock()
	if !scheduler.current(generation) {
		return
	}
	if scheduler.engine.State() != countdown.StateRunning {
		scheduler.haltGeneration(generation)
		return
	}
	if scheduler.engine.Expired() {
		scheduler.tickLocked(generation)
		return
	}
	if scheduler.callbacks.OnFrame != nil {
		scheduler.callbacks.OnFrame(backdrop.Interpolate(scheduler.engine.Progress()))
	}
}

// tickLocked runs the tick path; the caller holds the dispatch lock.
func (scheduler *Scheduler) tickLocked(generation uint64) {
	result := scheduler.engine.Tick()
	if scheduler.callbacks.OnTick != nil {
		scheduler.callbacks.OnTick(result)
	}
	if result.State != countdown.StateRunning {
		scheduler.haltGeneration(generation)
	}
}

func (scheduler *Scheduler) current(generation uint64) bool {
	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()
	return scheduler.generation == generation && scheduler.tick != nil
}

func (scheduler *Scheduler) haltGeneration(generation uint64) {
	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()
	if scheduler.generation != generation {
		return
	}
	scheduler.stopLocked()
	scheduler.generation++
	scheduler.logger.Debug("timers halted", "generation", generation)
}

func (scheduler *Scheduler) stopLocked() bool {
	stopped := false
	if scheduler.tick != nil {
		scheduler.tick.Stop()
		scheduler.tick = nil
		stopped = true
	}
	if scheduler.frame != nil {
		scheduler.frame.Stop()
		scheduler.frame = nil
		stopped = true
	}
	return stopped
}
