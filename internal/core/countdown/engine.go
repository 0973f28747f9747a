package countdown

import (
	"errors"
	"sync"
	"time"

	"clockwork/internal/core/model"
)

// MaxDuration is the longest countdown the engine accepts.
const MaxDuration = 23*time.Hour + 59*time.Minute + 59*time.Second

var (
	// ErrInvalidDuration indicates a duration outside (0, MaxDuration].
	ErrInvalidDuration = errors.New("countdown duration out of range")
	// ErrInvalidTransition indicates an operation not allowed in the current state.
	ErrInvalidTransition = errors.New("countdown transition not allowed")
)

// Clock reports the current wall-clock time.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Notifier plays audio cues. Implementations must not block and must
// swallow their own failures.
type Notifier interface {
	PlayTick(profile model.TickProfile, pitchHz int, volume float64)
	PlayEndChime()
}

// Recorder receives a usage record for every started countdown.
type Recorder interface {
	RecordCountdown(duration time.Duration, presetMinutes int)
}

// StartRequest describes a new countdown.
type StartRequest struct {
	Duration      time.Duration
	Tick          model.TickConfig
	PresetMinutes int
}

// Engine is the countdown state machine. Remaining time is always derived
// from an absolute end timestamp, so late or missed ticks never accumulate.
type Engine struct {
	mu              sync.Mutex
	clock           Clock
	notifier        Notifier
	recorder        Recorder
	state           State
	total           time.Duration
	endsAt          time.Time
	pausedRemaining time.Duration
	tick            model.TickConfig
	lastAudible     int64
	events          []chan Event
}

// New creates an idle engine. A nil clock uses the system clock.
func New(clock Clock) *Engine {
	if clock == nil {
		clock = systemClock{}
	}
	return &Engine{
		clock: clock,
		state: StateIdle,
	}
}

// SetNotifier injects the audio notifier.
func (engine *Engine) SetNotifier(notifier Notifier) {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	engine.notifier = notifier
}

// SetRecorder injects the usage recorder.
func (engine *Engine) SetRecorder(recorder Recorder) {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	engine.recorder = recorder
}

// Subscribe registers a new observer channel.
func (engine *Engine) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	engine.mu.Lock()
	engine.events = append(engine.events, ch)
	engine.mu.Unlock()
	return ch
}

// Close closes all observer channels.
func (engine *Engine) Close() {
	engine.mu.Lock()
	events := engine.events
	engine.events = nil
	engine.mu.Unlock()

	for _, ch := range events {
		close(ch)
	}
}

// Start begins a new countdown from Idle or Completed.
func (engine *Engine) Start(request StartRequest) error {
	if request.Duration <= 0 || request.Duration > MaxDuration {
		return ErrInvalidDuration
	}

	engine.mu.Lock()
	if engine.state != StateIdle && engine.state != StateCompleted {
		engine.mu.Unlock()
		return ErrInvalidTransition
	}
	now := engine.clock.Now()
	previous := engine.state
	engine.state = StateRunning
	engine.total = request.Duration
	engine.endsAt = now.Add(request.Duration)
	engine.pausedRemaining = 0
	engine.tick = request.Tick.Normalized()
	engine.lastAudible = 0
	recorder := engine.recorder
	engine.emitLocked(Event{
		Type:      EventStateChange,
		State:     StateRunning,
		Previous:  previous,
		Remaining: request.Duration,
		Total:     request.Duration,
		At:        now,
	})
	engine.mu.Unlock()

	if recorder != nil {
		recorder.RecordCountdown(request.Duration, request.PresetMinutes)
	}
	return nil
}

// Pause freezes a running countdown.
func (engine *Engine) Pause() error {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if engine.state != StateRunning {
		return ErrInvalidTransition
	}
	engine.pauseLocked(engine.clock.Now())
	return nil
}

// Resume continues a paused countdown.
func (engine *Engine) Resume() error {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if engine.state != StatePaused || engine.pausedRemaining <= 0 {
		return ErrInvalidTransition
	}
	now := engine.clock.Now()
	engine.endsAt = now.Add(engine.pausedRemaining)
	remaining := engine.pausedRemaining
	engine.pausedRemaining = 0
	engine.state = StateRunning
	engine.emitLocked(Event{
		Type:      EventStateChange,
		State:     StateRunning,
		Previous:  StatePaused,
		Remaining: remaining,
		Total:     engine.total,
		At:        now,
	})
	return nil
}

// Stop pauses a running countdown that still has time left, and otherwise
// returns the engine to Idle.
func (engine *Engine) Stop() error {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	now := engine.clock.Now()
	switch engine.state {
	case StateRunning:
		if engine.remainingLocked(now) > 0 {
			engine.pauseLocked(now)
			return nil
		}
		engine.clearLocked(now)
		return nil
	case StatePaused:
		engine.clearLocked(now)
		return nil
	default:
		return ErrInvalidTransition
	}
}

// Reset clears the session from any state.
func (engine *Engine) Reset() {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	engine.clearLocked(engine.clock.Now())
}

// Tick re-evaluates a running countdown. It plays at most one audible tick
// per whole second inside the tick window and the end chime on completion.
func (engine *Engine) Tick() TickResult {
	engine.mu.Lock()
	if engine.state != StateRunning {
		result := TickResult{
			State:     engine.state,
			Remaining: engine.remainingLocked(engine.clock.Now()),
			Progress:  engine.progressLocked(engine.clock.Now()),
		}
		engine.mu.Unlock()
		return result
	}

	now := engine.clock.Now()
	remaining := engine.remainingLocked(now)
	notifier := engine.notifier
	tick := engine.tick

	if remaining <= 0 {
		engine.state = StateCompleted
		engine.endsAt = time.Time{}
		engine.pausedRemaining = 0
		engine.emitLocked(Event{
			Type:     EventStateChange,
			State:    StateCompleted,
			Previous: StateRunning,
			Total:    engine.total,
			At:       now,
		})
		engine.mu.Unlock()

		if notifier != nil {
			notifier.PlayEndChime()
		}
		return TickResult{State: StateCompleted, Progress: 1, Completed: true}
	}

	result := TickResult{
		State:     StateRunning,
		Remaining: remaining,
		Progress:  engine.progressLocked(now),
	}
	second := WholeSeconds(remaining)
	if second > 0 && second <= int64(tick.StartTickAt) && second != engine.lastAudible {
		engine.lastAudible = second
		result.AudibleTick = true
		engine.emitLocked(Event{
			Type:      EventAudibleTick,
			State:     StateRunning,
			Remaining: remaining,
			Total:     engine.total,
			At:        now,
		})
	}
	engine.mu.Unlock()

	if result.AudibleTick && notifier != nil {
		notifier.PlayTick(tick.Profile, tick.PitchHz, tick.Volume)
	}
	return result
}

// State returns the current state.
func (engine *Engine) State() State {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	return engine.state
}

// Remaining returns max(0, end - now) while running, the stored remainder
// while paused, and zero otherwise.
func (engine *Engine) Remaining() time.Duration {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	return engine.remainingLocked(engine.clock.Now())
}

// Expired reports whether a running countdown has passed its end.
func (engine *Engine) Expired() bool {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	return engine.state == StateRunning && !engine.clock.Now().Before(engine.endsAt)
}

// Progress returns the elapsed fraction of the session in [0, 1].
func (engine *Engine) Progress() float64 {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	return engine.progressLocked(engine.clock.Now())
}

// Snapshot returns a consistent copy of the session.
func (engine *Engine) Snapshot() Snapshot {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	now := engine.clock.Now()
	return Snapshot{
		State:     engine.state,
		Total:     engine.total,
		Remaining: engine.remainingLocked(now),
		Progress:  engine.progressLocked(now),
		EndsAt:    engine.endsAt,
	}
}

// TickConfig returns the tick options of the current session.
func (engine *Engine) TickConfig() model.TickConfig {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	return engine.tick
}

func (engine *Engine) pauseLocked(now time.Time) {
	remaining := engine.remainingLocked(now)
	engine.pausedRemaining = remaining
	engine.endsAt = time.Time{}
	engine.state = StatePaused
	engine.emitLocked(Event{
		Type:      EventStateChange,
		State:     StatePaused,
		Previous:  StateRunning,
		Remaining: remaining,
		Total:     engine.total,
		At:        now,
	})
}

func (engine *Engine) clearLocked(now time.Time) {
	previous := engine.state
	engine.state = StateIdle
	engine.total = 0
	engine.endsAt = time.Time{}
	engine.pausedRemaining = 0
	engine.lastAudible = 0
	if previous == StateIdle {
		return
	}
	engine.emitLocked(Event{
		Type:     EventStateChange,
		State:    StateIdle,
		Previous: previous,
		At:       now,
	})
}

func (engine *Engine) remainingLocked(now time.Time) time.Duration {
	switch engine.state {
	case StateRunning:
		remaining := engine.endsAt.Sub(now)
		if remaining < 0 {
			return 0
		}
		return remaining
	case StatePaused:
		return engine.pausedRemaining
	default:
		return 0
	}
}

func (engine *Engine) progressLocked(now time.Time) float64 {
	switch engine.state {
	case StateCompleted:
		return 1
	case StateIdle:
		return 0
	}
	if engine.total <= 0 {
		return 0
	}
	progress := float64(engine.total-engine.remainingLocked(now)) / float64(engine.total)
	if progress < 0 {
		return 0
	}
	if progress > 1 {
		return 1
	}
	return progress
}

func (engine *Engine) emitLocked(event Event) {
	events := append([]chan Event(nil), engine.events...)
	for _, ch := range events {
		select {
		case ch <- event:
		default:
		}
	}
}
