package preferences

import (
	"strings"

	"clockwork/internal/core/stats"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
)

// ConsoleSource supplies what the developer console displays.
type ConsoleSource interface {
	Summarize() stats.Summary
	Clear() error
}

// Console is the developer window with usage statistics.
type Console struct {
	window  fyne.Window
	source  ConsoleSource
	backups func() ([]string, error)

	total      *widget.Label
	hours      *widget.Label
	mostUsed   *widget.Label
	lastActive *widget.Label
	backupList *widget.Label
}

// NewConsole creates the developer console. backups may be nil.
func NewConsole(app fyne.App, source ConsoleSource, backups func() ([]string, error)) *Console {
	console := &Console{
		window:     app.NewWindow("Developer Console"),
		source:     source,
		backups:    backups,
		total:      widget.NewLabel(""),
		hours:      widget.NewLabel(""),
		mostUsed:   widget.NewLabel(""),
		lastActive: widget.NewLabel(""),
		backupList: widget.NewLabel(""),
	}

	form := widget.NewForm(
		widget.NewFormItem("Countdowns", console.total),
		widget.NewFormItem("Hours", console.hours),
		widget.NewFormItem("Most used", console.mostUsed),
		widget.NewFormItem("Last active", console.lastActive),
	)

	clearButton := widget.NewButton("Clear stats", console.confirmClear)
	clearButton.Importance = widget.DangerImportance

	content := container.NewVBox(
		widget.NewLabelWithStyle("Usage", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		form,
		widget.NewSeparator(),
		widget.NewLabelWithStyle("Calendar backups", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		console.backupList,
		widget.NewSeparator(),
		container.NewHBox(widget.NewButton("Refresh", console.Refresh), clearButton),
	)
	console.window.SetContent(container.NewPadded(content))
	console.window.Resize(fyne.NewSize(360, 320))
	console.window.SetCloseIntercept(console.window.Hide)
	return console
}

// Show refreshes and displays the console.
func (console *Console) Show() {
	console.Refresh()
	console.window.Show()
	console.window.RequestFocus()
}

// Hide hides the console.
func (console *Console) Hide() {
	console.window.Hide()
}

// Refresh re-reads the statistics and backup list.
func (console *Console) Refresh() {
	summary := console.source.Summarize()
	console.total.SetText(summary.Total)
	console.hours.SetText(summary.Hours)
	console.mostUsed.SetText(summary.MostUsed)
	console.lastActive.SetText(summary.LastActive)
	console.backupList.SetText(console.backupText())
}

func (console *Console) backupText() string {
	if console.backups == nil {
		return "-"
	}
	keys, err := console.backups()
	if err != nil {
		return "unavailable: " + err.Error()
	}
	if len(keys) == 0 {
		return "None"
	}
	return strings.Join(keys, "\n")
}

func (console *Console) confirmClear() {
	dialog.ShowConfirm("Clear stats", "Delete all usage statistics?", func(confirmed bool) {
		if confirmed {
			console.clearStats()
		}
	}, console.window)
}

func (console *Console) clearStats() {
	if err := console.source.Clear(); err != nil {
		dialog.ShowError(err, console.window)
	}
	console.Refresh()
}
