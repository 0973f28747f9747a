package preferences

import (
	"fmt"
	"image/color"
	"io"
	"sync"
	"time"

	"clockwork/internal/core/backdrop"
	"clockwork/internal/core/model"
	"clockwork/internal/interchange"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
)

// NoteDelay is how long the secret note waits after the last keystroke
// before it is saved.
const NoteDelay = 500 * time.Millisecond

// Callbacks defines preferences action handlers.
type Callbacks struct {
	OnSave         func(model.Settings)
	OnTestTick     func(pitchHz int, volume float64)
	OnExportBackup func(io.Writer) error
	OnImportBackup func(io.Reader) (int, error)
}

// Window handles the preferences UI.
type Window struct {
	window    fyne.Window
	settings  model.Settings
	callbacks Callbacks
	note      *debouncer

	profile       *widget.Select
	pitch         *widget.Slider
	pitchLabel    *widget.Label
	volume        *widget.Slider
	volumeLabel   *widget.Label
	enableSound   *widget.Check
	startTickAt   *widget.Entry
	background    *widget.Entry
	stealth       *widget.Check
	secretNote    *widget.Entry
	launchAtLogin *widget.Check
}

// New creates a preferences window.
func New(app fyne.App, settings model.Settings, callbacks Callbacks) *Window {
	window := app.NewWindow("Clockwork Settings")

	prefs := &Window{
		window:    window,
		settings:  settings,
		callbacks: callbacks,
		note:      newDebouncer(NoteDelay),

		profile:       widget.NewSelect(profileOptions(), nil),
		pitch:         widget.NewSlider(model.MinTickPitch, model.MaxTickPitch),
		pitchLabel:    widget.NewLabel(""),
		volume:        widget.NewSlider(0, 1),
		volumeLabel:   widget.NewLabel(""),
		enableSound:   widget.NewCheck("Enable sound", nil),
		startTickAt:   widget.NewEntry(),
		background:    widget.NewEntry(),
		stealth:       widget.NewCheck("Stealth mode", nil),
		secretNote:    widget.NewMultiLineEntry(),
		launchAtLogin: widget.NewCheck("Launch at login", nil),
	}
	prefs.pitch.Step = 10
	prefs.pitch.OnChanged = func(value float64) {
		prefs.pitchLabel.SetText(fmt.Sprintf("%d Hz", int(value)))
	}
	prefs.volume.Step = 0.01
	prefs.volume.OnChanged = func(value float64) {
		prefs.volumeLabel.SetText(fmt.Sprintf("%d%%", int(value*100+0.5)))
	}
	prefs.startTickAt.SetPlaceHolder("0 = off")
	prefs.secretNote.SetPlaceHolder("Only stored on this computer")
	prefs.secretNote.Wrapping = fyne.TextWrapWord
	prefs.secretNote.SetMinRowsVisible(3)

	testTick := widget.NewButton("Test tick", prefs.handleTestTick)

	swatches := make([]fyne.CanvasObject, 0, len(BackgroundPresets))
	for _, hex := range BackgroundPresets {
		swatches = append(swatches, newSwatch(hex, func() {
			prefs.background.SetText(hex)
		}))
	}

	form := container.NewVBox(
		widget.NewLabelWithStyle("Countdown sound", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewBorder(nil, nil, widget.NewLabel("Tick profile"), nil, prefs.profile),
		container.NewBorder(nil, nil, widget.NewLabel("Pitch"), prefs.pitchLabel, prefs.pitch),
		container.NewBorder(nil, nil, widget.NewLabel("Volume"), prefs.volumeLabel, prefs.volume),
		container.NewBorder(nil, nil, widget.NewLabel("Tick during the last"), widget.NewLabel("sec"), prefs.startTickAt),
		container.NewHBox(prefs.enableSound, layout.NewSpacer(), testTick),
		widget.NewSeparator(),
		widget.NewLabelWithStyle("Appearance", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewBorder(nil, nil, widget.NewLabel("Background"), nil, prefs.background),
		container.NewGridWithColumns(len(swatches), swatches...),
		prefs.stealth,
		widget.NewSeparator(),
		widget.NewLabelWithStyle("Secret note", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		prefs.secretNote,
		widget.NewSeparator(),
		prefs.launchAtLogin,
		container.NewHBox(
			widget.NewButton("Export backup", prefs.exportBackup),
			widget.NewButton("Import backup", prefs.importBackup),
		),
	)

	saveButton := widget.NewButton("Save", prefs.handleSave)
	saveButton.Importance = widget.HighImportance
	cancelButton := widget.NewButton("Cancel", func() {
		window.Hide()
	})
	buttons := container.NewHBox(saveButton, layout.NewSpacer(), cancelButton)

	window.SetContent(container.NewBorder(nil, buttons, nil, nil, container.NewVScroll(form)))
	window.Resize(fyne.NewSize(440, 620))
	window.SetCloseIntercept(window.Hide)

	prefs.UpdateSettings(settings)
	prefs.secretNote.OnChanged = func(string) {
		prefs.note.Trigger(func() {
			fyne.Do(prefs.saveNote)
		})
	}
	return prefs
}

func newSwatch(hex string, onTapped func()) fyne.CanvasObject {
	fill, err := backdrop.ParseHex(hex)
	if err != nil {
		fill = color.NRGBA{A: 255}
	}
	swatch := canvas.NewRectangle(fill)
	swatch.CornerRadius = 4
	swatch.SetMinSize(fyne.NewSize(28, 28))
	button := widget.NewButton("", onTapped)
	return container.NewStack(button, container.NewPadded(swatch))
}

// Show displays the preferences window.
func (prefs *Window) Show() {
	prefs.window.Show()
	prefs.window.RequestFocus()
}

// Hide hides the preferences window.
func (prefs *Window) Hide() {
	prefs.window.Hide()
}

// UpdateSettings replaces window values.
func (prefs *Window) UpdateSettings(settings model.Settings) {
	prefs.settings = settings
	values := valuesFrom(settings)
	prefs.profile.SetSelected(values.Profile)
	prefs.pitch.SetValue(values.Pitch)
	prefs.volume.SetValue(values.Volume)
	prefs.enableSound.SetChecked(values.EnableSound)
	prefs.startTickAt.SetText(values.StartTickAt)
	prefs.background.SetText(values.Background)
	prefs.stealth.SetChecked(values.Stealth)
	prefs.launchAtLogin.SetChecked(values.LaunchAtLogin)

	onChanged := prefs.secretNote.OnChanged
	prefs.secretNote.OnChanged = nil
	prefs.secretNote.SetText(settings.SecretNote)
	prefs.secretNote.OnChanged = onChanged
}

func (prefs *Window) formValues() formValues {
	return formValues{
		Profile:       prefs.profile.Selected,
		Pitch:         prefs.pitch.Value,
		Volume:        prefs.volume.Value,
		EnableSound:   prefs.enableSound.Checked,
		StartTickAt:   prefs.startTickAt.Text,
		Background:    prefs.background.Text,
		Stealth:       prefs.stealth.Checked,
		LaunchAtLogin: prefs.launchAtLogin.Checked,
	}
}

func (prefs *Window) handleSave() {
	settings, err := prefs.formValues().apply(prefs.settings)
	if err != nil {
		dialog.ShowError(err, prefs.window)
		return
	}
	prefs.note.Cancel()
	settings.SecretNote = prefs.secretNote.Text

	prefs.settings = settings
	if prefs.callbacks.OnSave != nil {
		prefs.callbacks.OnSave(settings)
	}
	prefs.window.Hide()
}

func (prefs *Window) saveNote() {
	if prefs.settings.SecretNote == prefs.secretNote.Text {
		return
	}
	settings := prefs.settings
	settings.SecretNote = prefs.secretNote.Text
	prefs.settings = settings
	if prefs.callbacks.OnSave != nil {
		prefs.callbacks.OnSave(settings)
	}
}

func (prefs *Window) handleTestTick() {
	if prefs.callbacks.OnTestTick != nil {
		prefs.callbacks.OnTestTick(int(prefs.pitch.Value), prefs.volume.Value)
	}
}

func (prefs *Window) exportBackup() {
	if prefs.callbacks.OnExportBackup == nil {
		return
	}
	save := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, prefs.window)
			return
		}
		if writer == nil {
			return
		}
		defer writer.Close()
		if err := prefs.callbacks.OnExportBackup(writer); err != nil {
			dialog.ShowError(err, prefs.window)
		}
	}, prefs.window)
	save.SetFileName(interchange.BackupFileName(time.Now()))
	save.Show()
}

func (prefs *Window) importBackup() {
	if prefs.callbacks.OnImportBackup == nil {
		return
	}
	open := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			dialog.ShowError(err, prefs.window)
			return
		}
		if reader == nil {
			return
		}
		defer reader.Close()
		written, err := prefs.callbacks.OnImportBackup(reader)
		if err != nil {
			dialog.ShowError(err, prefs.window)
			return
		}
		dialog.ShowInformation("Import backup", fmt.Sprintf("Restored %d records.", written), prefs.window)
	}, prefs.window)
	open.SetFilter(storage.NewExtensionFileFilter([]string{".json"}))
	open.Show()
}

// debouncer runs the last triggered function once the delay has passed
// without a new trigger.
type debouncer struct {
	mu    sync.Mutex
	delay time.Duration
	timer *time.Timer
}

func newDebouncer(delay time.Duration) *debouncer {
	return &debouncer{delay: delay}
}

func (debounce *debouncer) Trigger(fn func()) {
	debounce.mu.Lock()
	defer debounce.mu.Unlock()
	if debounce.timer != nil {
		debounce.timer.Stop()
	}
	debounce.timer = time.AfterFunc(debounce.delay, fn)
}

func (debounce *debouncer) Cancel() {
	debounce.mu.Lock()
	defer debounce.mu.Unlock()
	if debounce.timer != nil {
		debounce.timer.Stop()
		debounce.timer = nil
	}
}
