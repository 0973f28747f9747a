// Package clockwindow assembles the main window: backdrop, clock card,
// toolbar, stealth shade and keyboard shortcuts. It renders the countdown
// on behalf of the controller.
package clockwindow

import (
	"context"
	"image/color"
	"log/slog"
	"time"

	"clockwork/internal/core/backdrop"
	"clockwork/internal/core/controller"
	"clockwork/internal/core/model"
	"clockwork/internal/ui/animation"
	"clockwork/internal/ui/card"
	"clockwork/internal/ui/overlay"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// Countdown is the set of user actions the window forwards.
type Countdown interface {
	Start(hours, minutes, seconds string) error
	StartPreset(minutes int) error
	Toggle(hours, minutes, seconds string) error
	Stop() error
	Reset()
}

// Callbacks defines window action handlers.
type Callbacks struct {
	OnCalendar    func()
	OnPreferences func()
	OnDevConsole  func()
	OnEscape      func()
	OnMoved       func(model.Position)
}

// Config defines the window geometry and quick presets.
type Config struct {
	Title   string
	Size    fyne.Size
	Presets []int
}

// Window is the main clock window.
type Window struct {
	window    fyne.Window
	card      *card.Card
	stealth   *overlay.Stealth
	animator  *animation.Engine
	countdown Countdown
	callbacks Callbacks
	logger    *slog.Logger

	gradientTop    *canvas.LinearGradient
	gradientBottom *canvas.LinearGradient
	fill           *canvas.Rectangle
	cancel         context.CancelFunc
}

var _ controller.View = (*Window)(nil)

// New creates the main window.
func New(app fyne.App, config Config, animator *animation.Engine, callbacks Callbacks, logger *slog.Logger) *Window {
	if logger == nil {
		logger = slog.Default()
	}
	window := app.NewWindow(config.Title)
	window.SetPadded(false)
	if app.Icon() != nil {
		window.SetIcon(app.Icon())
	}

	clock := &Window{
		window:    window,
		animator:  animator,
		callbacks: callbacks,
		logger:    logger.With("component", "clockwindow"),
		fill:      canvas.NewRectangle(backdrop.CountdownStart),
	}
	clock.fill.Hide()

	clock.card = card.New(config.Presets, card.Actions{
		OnStart:  clock.handleStart,
		OnStop:   clock.handleStop,
		OnReset:  clock.handleReset,
		OnPreset: clock.handlePreset,
		OnMoved:  callbacks.OnMoved,
	}, time.Now())

	gradient, _ := backdrop.GradientFrom(model.DefaultBackgroundColor)
	clock.gradientTop = canvas.NewVerticalGradient(gradient.Start, gradient.Middle)
	clock.gradientBottom = canvas.NewVerticalGradient(gradient.Middle, gradient.End)
	background := container.NewGridWithRows(2, clock.gradientTop, clock.gradientBottom)

	clock.stealth = overlay.NewStealth(window)

	toolbar := widget.NewToolbar(
		widget.NewToolbarSpacer(),
		widget.NewToolbarAction(theme.CalendarIcon(), func() {
			invoke(callbacks.OnCalendar)
		}),
		widget.NewToolbarAction(theme.SettingsIcon(), func() {
			invoke(callbacks.OnPreferences)
		}),
	)

	content := container.NewBorder(toolbar, nil, nil, nil, card.NewLayer(clock.card))
	window.SetContent(container.NewStack(background, clock.fill, content, clock.stealth.Object()))
	window.Resize(config.Size)
	clock.installShortcuts()

	return clock
}

func invoke(handler func()) {
	if handler != nil {
		handler()
	}
}

// SetCountdown attaches the countdown controller.
func (clock *Window) SetCountdown(countdown Countdown) {
	clock.countdown = countdown
}

// Window returns the underlying fyne window.
func (clock *Window) Window() fyne.Window {
	return clock.window
}

// Show displays the window and starts the clock loop.
func (clock *Window) Show() {
	clock.startClock()
	clock.window.Show()
	clock.window.RequestFocus()
}

// Hide hides the window and stops the clock loop.
func (clock *Window) Hide() {
	clock.stopClock()
	clock.window.Hide()
}

// ApplySettings repaints the backdrop and applies stealth mode. Call on the
// UI goroutine.
func (clock *Window) ApplySettings(settings model.Settings) {
	gradient, err := backdrop.GradientFrom(settings.BackgroundColor)
	if err != nil {
		clock.logger.Warn("invalid background colour", "value", settings.BackgroundColor, "error", err)
		gradient, _ = backdrop.GradientFrom(model.DefaultBackgroundColor)
	}
	clock.gradientTop.StartColor = gradient.Start
	clock.gradientTop.EndColor = gradient.Middle
	clock.gradientBottom.StartColor = gradient.Middle
	clock.gradientBottom.EndColor = gradient.End
	clock.gradientTop.Refresh()
	clock.gradientBottom.Refresh()
	clock.stealth.SetEnabled(settings.StealthMode)
}

// RestorePosition places the card at a stored centre.
func (clock *Window) RestorePosition(position model.Position) {
	clock.card.PlaceAt(position)
}

// ShowRemaining implements controller.View.
func (clock *Window) ShowRemaining(text string) {
	fyne.Do(func() {
		clock.card.SetRemaining(text)
	})
}

// SetStatus implements controller.View.
func (clock *Window) SetStatus(label string) {
	fyne.Do(func() {
		clock.card.SetStatus(label)
	})
}

// SetStartLabel implements controller.View.
func (clock *Window) SetStartLabel(label string) {
	fyne.Do(func() {
		clock.card.SetStartLabel(label)
	})
}

// SetCountdownActive implements controller.View.
func (clock *Window) SetCountdownActive(active bool) {
	fyne.Do(func() {
		clock.card.SetActive(active)
	})
}

// SetBackground implements controller.View.
func (clock *Window) SetBackground(fill color.NRGBA) {
	fyne.Do(func() {
		clock.fill.FillColor = fill
		clock.fill.Show()
		clock.fill.Refresh()
	})
}

// ResetBackground implements controller.View.
func (clock *Window) ResetBackground() {
	fyne.Do(func() {
		clock.fill.Hide()
	})
}

// Pulse implements controller.View.
func (clock *Window) Pulse() {
	if clock.animator == nil {
		return
	}
	clock.animator.Pulse(context.Background(), func() {
		fyne.Do(func() { clock.card.SetPulse(true) })
	}, func() {
		fyne.Do(func() { clock.card.SetPulse(false) })
	})
}

// ClearInputs implements controller.View.
func (clock *Window) ClearInputs() {
	fyne.Do(func() {
		clock.card.ClearInputs()
	})
}

// ShowError implements controller.View.
func (clock *Window) ShowError(err error) {
	fyne.Do(func() {
		dialog.ShowError(err, clock.window)
	})
}

func (clock *Window) handleStart(hours, minutes, seconds string) {
	if clock.countdown == nil {
		return
	}
	if err := clock.countdown.Start(hours, minutes, seconds); err != nil {
		clock.logger.Debug("start rejected", "error", err)
	}
}

func (clock *Window) handleStop() {
	if clock.countdown == nil {
		return
	}
	if err := clock.countdown.Stop(); err != nil {
		clock.logger.Warn("stop failed", "error", err)
	}
}

func (clock *Window) handleReset() {
	if clock.countdown != nil {
		clock.countdown.Reset()
	}
}

func (clock *Window) handlePreset(minutes int) {
	if clock.countdown == nil {
		return
	}
	if err := clock.countdown.StartPreset(minutes); err != nil {
		clock.logger.Debug("preset rejected", "minutes", minutes, "error", err)
	}
}

// ToggleCountdown starts, pauses or resumes from the current inputs.
func (clock *Window) ToggleCountdown() {
	if clock.countdown == nil {
		return
	}
	hours, minutes, seconds := clock.card.Inputs()
	if err := clock.countdown.Toggle(hours, minutes, seconds); err != nil {
		clock.logger.Debug("toggle rejected", "error", err)
	}
}

func (clock *Window) installShortcuts() {
	surface := clock.window.Canvas()
	surface.SetOnTypedKey(func(event *fyne.KeyEvent) {
		clock.handleKey(event.Name)
	})
	surface.AddShortcut(&desktop.CustomShortcut{
		KeyName:  fyne.KeyD,
		Modifier: fyne.KeyModifierControl | fyne.KeyModifierShift,
	}, func(fyne.Shortcut) {
		invoke(clock.callbacks.OnDevConsole)
	})
}

// handleKey only sees keys no focused widget consumed, so Space typed into
// an entry never toggles the countdown.
func (clock *Window) handleKey(name fyne.KeyName) {
	switch name {
	case fyne.KeyEscape:
		clock.window.Canvas().Unfocus()
		invoke(clock.callbacks.OnEscape)
	case fyne.KeySpace:
		clock.ToggleCountdown()
	}
}

func (clock *Window) startClock() {
	if clock.animator == nil {
		return
	}
	clock.stopClock()
	ctx, cancel := context.WithCancel(context.Background())
	clock.cancel = cancel
	clock.animator.StartClock(ctx, func(now time.Time) {
		fyne.Do(func() {
			clock.card.SetTime(now)
		})
	})
}

func (clock *Window) stopClock() {
	if clock.cancel != nil {
		clock.cancel()
		clock.cancel = nil
	}
}
