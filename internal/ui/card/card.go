// Package card implements the draggable clock card: analog and digital
// clock, countdown readout, inputs, controls and quick presets.
package card

import (
	"fmt"
	"image/color"
	"time"

	"clockwork/internal/core/model"
	"clockwork/internal/ui/clockface"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

const (
	countdownTextSize = 32
	pulseTextSize     = 36
	cardWidth         = 300
	faceSide          = 180
)

var (
	cardColor      = color.NRGBA{R: 0, G: 0, B: 0, A: 90}
	textColor      = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	mutedTextColor = color.NRGBA{R: 255, G: 255, B: 255, A: 170}
)

// Actions defines card action handlers.
type Actions struct {
	OnStart  func(hours, minutes, seconds string)
	OnStop   func()
	OnReset  func()
	OnPreset func(minutes int)
	OnMoved  func(model.Position)
}

// Card is the clock card. Its methods must run on the UI goroutine.
type Card struct {
	widget.BaseWidget

	actions   Actions
	face      *clockface.Face
	digital   *canvas.Text
	date      *canvas.Text
	countdown *canvas.Text
	status    *widget.Label
	hours     *widget.Entry
	minutes   *widget.Entry
	seconds   *widget.Entry
	start     *widget.Button
	stop      *widget.Button
	reset     *widget.Button
	presets   []*widget.Button
	content   fyne.CanvasObject

	centre model.Position
	placed bool
	area   fyne.Size
}

// New creates a card with one quick button per preset.
func New(presets []int, actions Actions, now time.Time) *Card {
	card := &Card{
		actions: actions,
		face:    clockface.NewFace(now),
		status:  widget.NewLabelWithStyle("", fyne.TextAlignCenter, fyne.TextStyle{}),
	}

	card.digital = canvas.NewText(clockface.DigitalTime(now), textColor)
	card.digital.Alignment = fyne.TextAlignCenter
	card.digital.TextStyle = fyne.TextStyle{Bold: true, Monospace: true}
	card.digital.TextSize = 26

	card.date = canvas.NewText(clockface.DateLine(now), mutedTextColor)
	card.date.Alignment = fyne.TextAlignCenter
	card.date.TextSize = 12

	card.countdown = canvas.NewText("00:00:00", textColor)
	card.countdown.Alignment = fyne.TextAlignCenter
	card.countdown.TextStyle = fyne.TextStyle{Bold: true, Monospace: true}
	card.countdown.TextSize = countdownTextSize

	card.hours = newTimeEntry("HH")
	card.minutes = newTimeEntry("MM")
	card.seconds = newTimeEntry("SS")

	card.start = widget.NewButton("Start Countdown", func() {
		if card.actions.OnStart != nil {
			card.actions.OnStart(card.hours.Text, card.minutes.Text, card.seconds.Text)
		}
	})
	card.start.Importance = widget.HighImportance
	card.stop = widget.NewButton("Stop", func() {
		if card.actions.OnStop != nil {
			card.actions.OnStop()
		}
	})
	card.stop.Disable()
	card.reset = widget.NewButton("Reset", func() {
		if card.actions.OnReset != nil {
			card.actions.OnReset()
		}
	})

	presetButtons := make([]fyne.CanvasObject, 0, len(presets))
	for _, minutes := range presets {
		button := widget.NewButton(fmt.Sprintf("%d min", minutes), func() {
			if card.actions.OnPreset != nil {
				card.actions.OnPreset(minutes)
			}
		})
		card.presets = append(card.presets, button)
		presetButtons = append(presetButtons, button)
	}

	width := canvas.NewRectangle(color.Transparent)
	width.SetMinSize(fyne.NewSize(cardWidth, 0))
	faceHolder := container.NewCenter(container.NewGridWrap(fyne.NewSize(faceSide, faceSide), card.face))

	body := container.NewVBox(
		width,
		faceHolder,
		card.digital,
		card.date,
		card.countdown,
		card.status,
		container.NewGridWithColumns(3, card.hours, card.minutes, card.seconds),
		container.NewGridWithColumns(3, card.start, card.stop, card.reset),
		container.NewGridWithColumns(4, presetButtons...),
	)

	background := canvas.NewRectangle(cardColor)
	background.CornerRadius = 16
	card.content = container.NewStack(background, container.NewPadded(body))

	card.ExtendBaseWidget(card)
	return card
}

func newTimeEntry(placeholder string) *widget.Entry {
	entry := widget.NewEntry()
	entry.SetPlaceHolder(placeholder)
	return entry
}

// CreateRenderer implements fyne.Widget.
func (card *Card) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(card.content)
}

// SetTime updates the analog and digital clocks.
func (card *Card) SetTime(now time.Time) {
	card.face.SetTime(now)
	card.digital.Text = clockface.DigitalTime(now)
	card.digital.Refresh()
	card.date.Text = clockface.DateLine(now)
	card.date.Refresh()
}

// SetRemaining shows the countdown readout.
func (card *Card) SetRemaining(text string) {
	card.countdown.Text = text
	card.countdown.Refresh()
}

// Remaining returns the countdown readout.
func (card *Card) Remaining() string {
	return card.countdown.Text
}

// SetStatus shows the status line.
func (card *Card) SetStatus(label string) {
	card.status.SetText(label)
}

// SetStartLabel relabels the start button.
func (card *Card) SetStartLabel(label string) {
	card.start.SetText(label)
}

// SetActive locks the inputs while a countdown runs.
func (card *Card) SetActive(active bool) {
	for _, entry := range []*widget.Entry{card.hours, card.minutes, card.seconds} {
		if active {
			entry.Disable()
		} else {
			entry.Enable()
		}
	}
	if active {
		card.start.Disable()
		card.stop.Enable()
		return
	}
	card.start.Enable()
	card.stop.Disable()
}

// SetPulse enlarges the countdown readout while on.
func (card *Card) SetPulse(on bool) {
	if on {
		card.countdown.TextSize = pulseTextSize
	} else {
		card.countdown.TextSize = countdownTextSize
	}
	card.countdown.Refresh()
}

// ClearInputs empties the h/m/s entries.
func (card *Card) ClearInputs() {
	card.hours.SetText("")
	card.minutes.SetText("")
	card.seconds.SetText("")
}

// Inputs returns the raw h/m/s entry texts.
func (card *Card) Inputs() (hours, minutes, seconds string) {
	return card.hours.Text, card.minutes.Text, card.seconds.Text
}

// MinutesEntry exposes the minutes field for focus and tests.
func (card *Card) MinutesEntry() *widget.Entry {
	return card.minutes
}
