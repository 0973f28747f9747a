// Package controller turns user actions into countdown transitions and
// keeps the view in step with the engine.
package controller

import (
	"errors"
	"image/color"
	"log/slog"
	"sync"
	"time"

	"clockwork/internal/core/countdown"
	"clockwork/internal/core/model"
	"clockwork/internal/core/scheduler"
)

// Start button labels.
const (
	LabelStart  = "Start Countdown"
	LabelResume = "Resume Countdown"
)

// View renders countdown state. Implementations must be safe to call from
// scheduler goroutines.
type View interface {
	ShowRemaining(text string)
	SetStatus(label string)
	SetStartLabel(label string)
	SetCountdownActive(active bool)
	SetBackground(fill color.NRGBA)
	ResetBackground()
	Pulse()
	ClearInputs()
	ShowError(err error)
}

// Runner starts and stops the periodic timers.
type Runner interface {
	Run()
	Halt()
}

// Controller coordinates the engine, the scheduler and the view.
type Controller struct {
	mu       sync.Mutex
	engine   *countdown.Engine
	runner   Runner
	view     View
	settings func() model.Settings
	logger   *slog.Logger
}

// New creates a controller. settings supplies the tick options for new
// countdowns.
func New(engine *countdown.Engine, view View, settings func() model.Settings, logger *slog.Logger) *Controller {
	if settings == nil {
		settings = model.DefaultSettings
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		engine:   engine,
		view:     view,
		settings: settings,
		logger:   logger.With("component", "controller"),
	}
}

// SetRunner attaches the scheduler.
func (controller *Controller) SetRunner(runner Runner) {
	controller.mu.Lock()
	defer controller.mu.Unlock()
	controller.runner = runner
}

// Callbacks returns the scheduler hooks that feed the view.
func (controller *Controller) Callbacks() scheduler.Callbacks {
	return scheduler.Callbacks{
		OnTick:  controller.HandleTick,
		OnFrame: controller.HandleFrame,
	}
}

// Start resumes a paused countdown, or starts a new one from the h/m/s
// fields. A paused countdown with nothing left is discarded first.
func (controller *Controller) Start(hours, minutes, seconds string) error {
	controller.mu.Lock()
	defer controller.mu.Unlock()

	if controller.engine.State() == countdown.StatePaused {
		if controller.engine.Remaining() > 0 {
			return controller.resumeLocked()
		}
		controller.engine.Reset()
	}
	duration, err := countdown.ParseHMS(hours, minutes, seconds)
	if err != nil {
		controller.view.ShowError(err)
		return err
	}
	return controller.startLocked(duration, 0)
}

// StartPreset always starts a fresh countdown of the given minutes.
func (controller *Controller) StartPreset(minutes int) error {
	controller.mu.Lock()
	defer controller.mu.Unlock()

	controller.haltLocked()
	controller.engine.Reset()
	return controller.startLocked(time.Duration(minutes)*time.Minute, minutes)
}

// Toggle pauses a running countdown, resumes a paused one and otherwise
// starts from the h/m/s fields.
func (controller *Controller) Toggle(hours, minutes, seconds string) error {
	controller.mu.Lock()
	state := controller.engine.State()
	if state == countdown.StateRunning {
		defer controller.mu.Unlock()
		return controller.pauseLocked()
	}
	controller.mu.Unlock()
	return controller.Start(hours, minutes, seconds)
}

// Pause freezes a running countdown.
func (controller *Controller) Pause() error {
	controller.mu.Lock()
	defer controller.mu.Unlock()
	return controller.pauseLocked()
}

// Stop pauses a running countdown, or clears a paused one.
func (controller *Controller) Stop() error {
	controller.mu.Lock()
	defer controller.mu.Unlock()

	controller.haltLocked()
	if err := controller.engine.Stop(); err != nil {
		if errors.Is(err, countdown.ErrInvalidTransition) {
			return nil
		}
		return err
	}
	controller.renderStoppedLocked()
	return nil
}

// Reset clears the countdown and the input fields.
func (controller *Controller) Reset() {
	controller.mu.Lock()
	defer controller.mu.Unlock()

	controller.haltLocked()
	controller.engine.Reset()
	controller.view.ClearInputs()
	controller.renderStoppedLocked()
}

// State returns the engine state.
func (controller *Controller) State() countdown.State {
	return controller.engine.State()
}

// HandleTick renders a tick result. It runs on the scheduler and must not
// take the controller lock.
func (controller *Controller) HandleTick(result countdown.TickResult) {
	controller.view.ShowRemaining(countdown.FormatClock(result.Remaining))
	if result.AudibleTick {
		controller.view.Pulse()
	}
	if result.Completed {
		controller.logger.Info("countdown completed")
		controller.view.SetStatus(countdown.StatusLabel(countdown.StateCompleted))
		controller.view.SetStartLabel(LabelStart)
		controller.view.SetCountdownActive(false)
		controller.view.ResetBackground()
	}
}

// HandleFrame paints the backdrop.
func (controller *Controller) HandleFrame(fill color.NRGBA) {
	controller.view.SetBackground(fill)
}

func (controller *Controller) startLocked(duration time.Duration, presetMinutes int) error {
	err := controller.engine.Start(countdown.StartRequest{
		Duration:      duration,
		Tick:          controller.settings().TickConfig(),
		PresetMinutes: presetMinutes,
	})
	if err != nil {
		controller.view.ShowError(err)
		return err
	}
	controller.logger.Info("countdown started", "duration", duration, "preset", presetMinutes)
	controller.renderRunningLocked()
	return nil
}

func (controller *Controller) resumeLocked() error {
	if err := controller.engine.Resume(); err != nil {
		return err
	}
	controller.renderRunningLocked()
	return nil
}

// pauseLocked completes a countdown whose end time has already passed
// instead of freezing it at zero.
func (controller *Controller) pauseLocked() error {
	controller.haltLocked()
	if controller.engine.Expired() {
		controller.HandleTick(controller.engine.Tick())
		return nil
	}
	if err := controller.engine.Pause(); err != nil {
		return err
	}
	controller.renderStoppedLocked()
	return nil
}

func (controller *Controller) renderRunningLocked() {
	controller.view.SetStatus(countdown.StatusLabel(countdown.StateRunning))
	controller.view.SetStartLabel(LabelStart)
	controller.view.SetCountdownActive(true)
	if controller.runner != nil {
		controller.runner.Run()
	}
}

func (controller *Controller) renderStoppedLocked() {
	state := controller.engine.State()
	controller.view.ShowRemaining(countdown.FormatClock(controller.engine.Remaining()))
	controller.view.SetStatus(countdown.StatusLabel(state))
	if state == countdown.StatePaused {
		controller.view.SetStartLabel(LabelResume)
	} else {
		controller.view.SetStartLabel(LabelStart)
	}
	controller.view.SetCountdownActive(false)
	controller.view.ResetBackground()
}

func (controller *Controller) haltLocked() {
	if controller.runner != nil {
		controller.runner.Halt()
	}
}
