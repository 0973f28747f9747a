package clockwindow

import (
	"errors"
	"image/color"
	"io"
	"log/slog"
	"testing"

	"clockwork/internal/core/backdrop"
	"clockwork/internal/core/model"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"
)

type fakeCountdown struct {
	starts  [][3]string
	toggles [][3]string
	presets []int
	stops   int
	resets  int
}

func (countdown *fakeCountdown) Start(hours, minutes, seconds string) error {
	countdown.starts = append(countdown.starts, [3]string{hours, minutes, seconds})
	return nil
}

func (countdown *fakeCountdown) StartPreset(minutes int) error {
	countdown.presets = append(countdown.presets, minutes)
	return nil
}

func (countdown *fakeCountdown) Toggle(hours, minutes, seconds string) error {
	countdown.toggles = append(countdown.toggles, [3]string{hours, minutes, seconds})
	return errors.New("ignored")
}

func (countdown *fakeCountdown) Stop() error {
	countdown.stops++
	return nil
}

func (countdown *fakeCountdown) Reset() {
	countdown.resets++
}

func newTestWindow(t *testing.T, callbacks Callbacks) (*Window, *fakeCountdown) {
	t.Helper()
	app := test.NewTempApp(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	window := New(app, Config{Title: "Clockwork", Size: fyne.NewSize(720, 560), Presets: []int{5}}, nil, callbacks, logger)
	countdown := &fakeCountdown{}
	window.SetCountdown(countdown)
	return window, countdown
}

func TestSpaceTogglesWithInputs(t *testing.T) {
	window, countdown := newTestWindow(t, Callbacks{})
	test.Type(window.card.MinutesEntry(), "3")

	window.handleKey(fyne.KeySpace)
	if len(countdown.toggles) != 1 || countdown.toggles[0] != [3]string{"", "3", ""} {
		t.Fatalf("unexpected toggles %v", countdown.toggles)
	}
}

func TestEscapeRunsCallback(t *testing.T) {
	escaped := 0
	window, _ := newTestWindow(t, Callbacks{
		OnEscape: func() { escaped++ },
	})
	window.handleKey(fyne.KeyEscape)
	window.handleKey(fyne.KeyA)
	if escaped != 1 {
		t.Fatalf("expected one escape, got %d", escaped)
	}
}

func TestCardActionsReachCountdown(t *testing.T) {
	window, countdown := newTestWindow(t, Callbacks{})
	window.handlePreset(5)
	window.handleStop()
	window.handleReset()
	window.handleStart("1", "", "")

	if len(countdown.presets) != 1 || countdown.stops != 1 || countdown.resets != 1 || len(countdown.starts) != 1 {
		t.Fatalf("unexpected calls %+v", countdown)
	}
}

func TestViewRendersOnCard(t *testing.T) {
	window, _ := newTestWindow(t, Callbacks{})
	window.ShowRemaining("00:01:00")
	window.SetBackground(color.NRGBA{R: 1, G: 2, B: 3, A: 255})

	if window.card.Remaining() != "00:01:00" {
		t.Fatalf("unexpected readout %s", window.card.Remaining())
	}
	if !window.fill.Visible() || window.fill.FillColor != (color.NRGBA{R: 1, G: 2, B: 3, A: 255}) {
		t.Fatalf("countdown fill not painted")
	}
	window.ResetBackground()
	if window.fill.Visible() {
		t.Fatalf("fill should hide after reset")
	}
}

func TestApplySettings(t *testing.T) {
	window, _ := newTestWindow(t, Callbacks{})
	settings := model.DefaultSettings()
	settings.BackgroundColor = "#505050"
	settings.StealthMode = true
	window.ApplySettings(settings)

	expected, _ := backdrop.GradientFrom("#505050")
	if window.gradientTop.StartColor != expected.Start || window.gradientBottom.EndColor != expected.End {
		t.Fatalf("gradient not applied")
	}
	if !window.stealth.Enabled() {
		t.Fatalf("stealth not applied")
	}

	settings.BackgroundColor = "not a colour"
	window.ApplySettings(settings)
	fallback, _ := backdrop.GradientFrom(model.DefaultBackgroundColor)
	if window.gradientTop.StartColor != fallback.Start {
		t.Fatalf("invalid colour should fall back to default")
	}
}
