package countdown

import (
	"errors"
	"sync"
	"testing"
	"time"

	"clockwork/internal/core/model"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)}
}

func (clock *fakeClock) Now() time.Time {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	return clock.now
}

func (clock *fakeClock) Advance(d time.Duration) {
	clock.mu.Lock()
	clock.now = clock.now.Add(d)
	clock.mu.Unlock()
}

type fakeNotifier struct {
	ticks  []int
	chimes int
}

func (notifier *fakeNotifier) PlayTick(_ model.TickProfile, pitchHz int, _ float64) {
	notifier.ticks = append(notifier.ticks, pitchHz)
}

func (notifier *fakeNotifier) PlayEndChime() {
	notifier.chimes++
}

type fakeRecorder struct {
	durations []time.Duration
	presets   []int
}

func (recorder *fakeRecorder) RecordCountdown(duration time.Duration, presetMinutes int) {
	recorder.durations = append(recorder.durations, duration)
	recorder.presets = append(recorder.presets, presetMinutes)
}

func newTestEngine() (*Engine, *fakeClock, *fakeNotifier, *fakeRecorder) {
	clock := newFakeClock()
	engine := New(clock)
	notifier := &fakeNotifier{}
	recorder := &fakeRecorder{}
	engine.SetNotifier(notifier)
	engine.SetRecorder(recorder)
	return engine, clock, notifier, recorder
}

func tickRequest(duration time.Duration, startTickAt int) StartRequest {
	tick := model.DefaultTickConfig()
	tick.StartTickAt = startTickAt
	return StartRequest{Duration: duration, Tick: tick}
}

func TestStartThenRemaining(t *testing.T) {
	engine, clock, _, recorder := newTestEngine()
	if err := engine.Start(StartRequest{Duration: 5 * time.Second, PresetMinutes: 0}); err != nil {
		t.Fatalf("start: %v", err)
	}
	if engine.State() != StateRunning {
		t.Fatalf("expected running, got %s", engine.State())
	}
	clock.Advance(2 * time.Second)
	if got := engine.Remaining(); got != 3*time.Second {
		t.Fatalf("expected 3s remaining, got %v", got)
	}
	if got := FormatClock(engine.Remaining()); got != "00:00:03" {
		t.Fatalf("unexpected clock text %q", got)
	}
	if len(recorder.durations) != 1 || recorder.durations[0] != 5*time.Second {
		t.Fatalf("expected one recorded countdown, got %v", recorder.durations)
	}
}

func TestStartRecordsPreset(t *testing.T) {
	engine, _, _, recorder := newTestEngine()
	if err := engine.Start(StartRequest{Duration: 25 * time.Minute, PresetMinutes: 25}); err != nil {
		t.Fatalf("start: %v", err)
	}
	if len(recorder.presets) != 1 || recorder.presets[0] != 25 {
		t.Fatalf("expected preset 25 recorded once, got %v", recorder.presets)
	}
}

func TestStartRejectsInvalidDuration(t *testing.T) {
	engine, _, _, recorder := newTestEngine()
	for _, duration := range []time.Duration{0, -time.Second, MaxDuration + time.Second} {
		if err := engine.Start(StartRequest{Duration: duration}); !errors.Is(err, ErrInvalidDuration) {
			t.Fatalf("expected ErrInvalidDuration for %v, got %v", duration, err)
		}
	}
	if engine.State() != StateIdle {
		t.Fatalf("expected idle, got %s", engine.State())
	}
	if len(recorder.durations) != 0 {
		t.Fatalf("rejected start must not be recorded")
	}
	if err := engine.Start(StartRequest{Duration: MaxDuration}); err != nil {
		t.Fatalf("max duration should be accepted: %v", err)
	}
}

func TestStartWhileActiveIsRejected(t *testing.T) {
	engine, _, _, _ := newTestEngine()
	if err := engine.Start(StartRequest{Duration: time.Minute}); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := engine.Start(StartRequest{Duration: time.Minute}); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition while running, got %v", err)
	}
	_ = engine.Pause()
	if err := engine.Start(StartRequest{Duration: time.Minute}); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition while paused, got %v", err)
	}
}

func TestPauseResumeKeepsRemaining(t *testing.T) {
	engine, clock, _, _ := newTestEngine()
	if err := engine.Start(StartRequest{Duration: 10 * time.Second}); err != nil {
		t.Fatalf("start: %v", err)
	}
	clock.Advance(4 * time.Second)
	if err := engine.Pause(); err != nil {
		t.Fatalf("pause: %v", err)
	}
	paused := engine.Remaining()
	if paused != 6*time.Second {
		t.Fatalf("expected 6s paused, got %v", paused)
	}

	clock.Advance(time.Hour)
	if engine.Remaining() != paused {
		t.Fatalf("paused remaining drifted to %v", engine.Remaining())
	}
	if err := engine.Resume(); err != nil {
		t.Fatalf("resume: %v", err)
	}
	if got := engine.Remaining(); got != paused {
		t.Fatalf("expected %v right after resume, got %v", paused, got)
	}
	clock.Advance(6 * time.Second)
	if result := engine.Tick(); !result.Completed {
		t.Fatalf("expected completion after the paused remainder elapsed, got %+v", result)
	}
}

func TestPauseResumeCyclesDoNotDrift(t *testing.T) {
	engine, clock, _, _ := newTestEngine()
	_ = engine.Start(StartRequest{Duration: time.Minute})
	for i := 0; i < 20; i++ {
		clock.Advance(700 * time.Millisecond)
		if err := engine.Pause(); err != nil {
			t.Fatalf("pause %d: %v", i, err)
		}
		clock.Advance(3 * time.Second)
		if err := engine.Resume(); err != nil {
			t.Fatalf("resume %d: %v", i, err)
		}
	}
	if got := engine.Remaining(); got != 46*time.Second {
		t.Fatalf("expected 46s remaining, got %v", got)
	}
}

func TestInvalidTransitions(t *testing.T) {
	engine, _, _, _ := newTestEngine()
	if err := engine.Pause(); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("pause from idle: %v", err)
	}
	if err := engine.Resume(); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("resume from idle: %v", err)
	}
	if err := engine.Stop(); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("stop from idle: %v", err)
	}
	_ = engine.Start(StartRequest{Duration: time.Second})
	if err := engine.Resume(); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("resume while running: %v", err)
	}
	if engine.State() != StateRunning {
		t.Fatalf("failed transitions must not change state")
	}
}

func TestStopPausesThenClears(t *testing.T) {
	engine, clock, _, _ := newTestEngine()
	_ = engine.Start(StartRequest{Duration: 30 * time.Second})
	clock.Advance(10 * time.Second)
	if err := engine.Stop(); err != nil {
		t.Fatalf("stop: %v", err)
	}
	if engine.State() != StatePaused || engine.Remaining() != 20*time.Second {
		t.Fatalf("expected paused with 20s, got %s %v", engine.State(), engine.Remaining())
	}
	if err := engine.Stop(); err != nil {
		t.Fatalf("second stop: %v", err)
	}
	if engine.State() != StateIdle || engine.Remaining() != 0 {
		t.Fatalf("expected idle, got %s %v", engine.State(), engine.Remaining())
	}
}

func TestResetFromEveryState(t *testing.T) {
	setups := map[State]func(*Engine, *fakeClock){
		StateIdle: func(*Engine, *fakeClock) {},
		StateRunning: func(engine *Engine, _ *fakeClock) {
			_ = engine.Start(StartRequest{Duration: time.Minute})
		},
		StatePaused: func(engine *Engine, _ *fakeClock) {
			_ = engine.Start(StartRequest{Duration: time.Minute})
			_ = engine.Pause()
		},
		StateCompleted: func(engine *Engine, clock *fakeClock) {
			_ = engine.Start(StartRequest{Duration: time.Second})
			clock.Advance(2 * time.Second)
			engine.Tick()
		},
	}
	for state, setup := range setups {
		t.Run(string(state), func(t *testing.T) {
			engine, clock, _, _ := newTestEngine()
			setup(engine, clock)
			if engine.State() != state {
				t.Fatalf("setup produced %s", engine.State())
			}
			engine.Reset()
			snapshot := engine.Snapshot()
			if snapshot.State != StateIdle || snapshot.Remaining != 0 || snapshot.Total != 0 || !snapshot.EndsAt.IsZero() {
				t.Fatalf("expected cleared session, got %+v", snapshot)
			}
		})
	}
}

func TestAudibleTickOncePerSecond(t *testing.T) {
	engine, clock, notifier, _ := newTestEngine()
	_ = engine.Start(tickRequest(5*time.Second, 3))

	// Irregular cadence with double fires inside the same second.
	steps := []time.Duration{
		900 * time.Millisecond, // 4.1s left
		100 * time.Millisecond, // 4s left
		300 * time.Millisecond, // 3.7s left
		710 * time.Millisecond, // 2.99s left: second 3
		10 * time.Millisecond,
		980 * time.Millisecond, // 2s left: second 2
		1 * time.Millisecond,
		998 * time.Millisecond,
		2 * time.Millisecond,   // 0.999s left: second 1
		999 * time.Millisecond, // completion
	}
	for _, step := range steps {
		clock.Advance(step)
		engine.Tick()
		engine.Tick()
	}
	if len(notifier.ticks) != 3 {
		t.Fatalf("expected 3 audible ticks, got %d", len(notifier.ticks))
	}
	if notifier.chimes != 1 {
		t.Fatalf("expected one chime, got %d", notifier.chimes)
	}
}

func TestNoAudibleTickWhenWindowDisabled(t *testing.T) {
	engine, clock, notifier, _ := newTestEngine()
	_ = engine.Start(tickRequest(3*time.Second, 0))
	for i := 0; i < 4; i++ {
		clock.Advance(time.Second)
		engine.Tick()
	}
	if len(notifier.ticks) != 0 {
		t.Fatalf("expected no ticks, got %d", len(notifier.ticks))
	}
}

func TestCompletionChimesOnce(t *testing.T) {
	engine, clock, notifier, _ := newTestEngine()
	_ = engine.Start(StartRequest{Duration: 2 * time.Second})
	clock.Advance(5 * time.Second)

	result := engine.Tick()
	if !result.Completed || result.State != StateCompleted || result.Progress != 1 {
		t.Fatalf("unexpected completion result %+v", result)
	}
	for i := 0; i < 3; i++ {
		if again := engine.Tick(); again.Completed {
			t.Fatalf("completion reported twice")
		}
	}
	if notifier.chimes != 1 {
		t.Fatalf("expected one chime, got %d", notifier.chimes)
	}
	if err := engine.Start(StartRequest{Duration: time.Second}); err != nil {
		t.Fatalf("restart after completion: %v", err)
	}
}

func TestProgress(t *testing.T) {
	engine, clock, _, _ := newTestEngine()
	if engine.Progress() != 0 {
		t.Fatalf("idle progress should be 0")
	}
	_ = engine.Start(StartRequest{Duration: 10 * time.Second})
	clock.Advance(2500 * time.Millisecond)
	if got := engine.Progress(); got != 0.25 {
		t.Fatalf("expected 0.25, got %v", got)
	}
	clock.Advance(time.Minute)
	if got := engine.Progress(); got != 1 {
		t.Fatalf("expected 1 past the end, got %v", got)
	}
	if !engine.Expired() {
		t.Fatalf("expected expired")
	}
}

func TestSubscribeReceivesTransitions(t *testing.T) {
	engine, _, _, _ := newTestEngine()
	events := engine.Subscribe(4)
	_ = engine.Start(StartRequest{Duration: time.Minute})
	_ = engine.Pause()

	first := <-events
	second := <-events
	if first.State != StateRunning || first.Previous != StateIdle {
		t.Fatalf("unexpected first event %+v", first)
	}
	if second.State != StatePaused || second.Remaining != time.Minute {
		t.Fatalf("unexpected second event %+v", second)
	}
	engine.Close()
	if _, ok := <-events; ok {
		t.Fatalf("expected closed channel")
	}
}
