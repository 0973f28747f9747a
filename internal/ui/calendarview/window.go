package calendarview

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"clockwork/internal/core/calendar"
	"clockwork/internal/core/model"
	"clockwork/internal/interchange"
	"clockwork/internal/ui/animation"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
)

// Service loads, imports and exports calendar data.
type Service interface {
	LoadCalendar() model.CalendarData
	ImportCalendar(reader io.Reader) (model.CalendarData, error)
	ExportCalendar(writer io.Writer) error
}

// Window handles the calendar UI.
type Window struct {
	window   fyne.Window
	service  Service
	animator *animation.Engine
	logger   *slog.Logger
	now      func() time.Time
	cancel   context.CancelFunc
	visible  bool

	calendar *calendar.Calendar
	year     int
	month    time.Month

	date     *widget.Label
	week     *widget.Label
	daysLeft *widget.Label
	summary  *widget.Label
	upcoming *widget.Label
	title    *widget.Label
	grid     *fyne.Container
}

// New creates a calendar window showing the current month.
func New(app fyne.App, service Service, animator *animation.Engine, logger *slog.Logger) *Window {
	if logger == nil {
		logger = slog.Default()
	}
	window := app.NewWindow("Calendar")

	view := &Window{
		window:   window,
		service:  service,
		animator: animator,
		logger:   logger.With("component", "calendarview"),
		now:      time.Now,
		calendar: calendar.New(service.LoadCalendar()),
		date:     widget.NewLabelWithStyle("", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		week:     widget.NewLabel(""),
		daysLeft: widget.NewLabel(""),
		summary:  widget.NewLabel(""),
		upcoming: widget.NewLabel(""),
		title:    widget.NewLabelWithStyle("", fyne.TextAlignCenter, fyne.TextStyle{Bold: true}),
		grid:     container.NewGridWithColumns(7),
	}
	now := view.now()
	view.year, view.month = now.Year(), now.Month()

	previous := widget.NewButton("<", func() { view.changeMonth(-1) })
	next := widget.NewButton(">", func() { view.changeMonth(1) })
	navigation := container.NewBorder(nil, nil, previous, next, view.title)

	buttons := container.NewHBox(
		widget.NewButton("Import JSON", view.importFile),
		widget.NewButton("Export JSON", view.exportFile),
		layout.NewSpacer(),
		widget.NewButton("Reload", view.Reload),
	)

	header := container.NewVBox(
		view.date,
		view.week,
		view.daysLeft,
		view.summary,
		widget.NewSeparator(),
		widget.NewLabelWithStyle("Upcoming", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		view.upcoming,
		widget.NewSeparator(),
		navigation,
	)

	window.SetContent(container.NewBorder(header, buttons, nil, nil, view.grid))
	window.Resize(fyne.NewSize(420, 560))
	window.SetCloseIntercept(view.Hide)
	view.Refresh(now)
	return view
}

// Show displays the window and refreshes it every minute while visible.
func (view *Window) Show() {
	if view.animator != nil {
		view.stopRefresh()
		ctx, cancel := context.WithCancel(context.Background())
		view.cancel = cancel
		view.animator.StartCalendar(ctx, func(now time.Time) {
			fyne.Do(func() { view.Refresh(now) })
		})
	}
	view.visible = true
	view.window.Show()
	view.window.RequestFocus()
}

// Hide hides the window and stops the refresh loop.
func (view *Window) Hide() {
	view.stopRefresh()
	view.visible = false
	view.window.Hide()
}

// Toggle shows a hidden window and hides a visible one.
func (view *Window) Toggle() {
	if view.visible {
		view.Hide()
		return
	}
	view.Show()
}

// Visible reports whether the window is shown.
func (view *Window) Visible() bool {
	return view.visible
}

// Reload re-reads the calendar record.
func (view *Window) Reload() {
	view.calendar = calendar.New(view.service.LoadCalendar())
	view.Refresh(view.now())
}

// Refresh redraws the header and the displayed month. Call on the UI goroutine.
func (view *Window) Refresh(now time.Time) {
	overview := BuildOverview(view.calendar, now)
	view.date.SetText(overview.Date)
	view.week.SetText(overview.Week)
	view.daysLeft.SetText(overview.DaysLeft)
	view.summary.SetText(overview.Summary)
	view.upcoming.SetText(strings.Join(overview.Upcoming, "\n"))
	view.renderMonth(now)
}

func (view *Window) changeMonth(delta int) {
	view.year, view.month = calendar.ChangeMonth(view.year, view.month, delta)
	view.renderMonth(view.now())
}

func (view *Window) renderMonth(now time.Time) {
	month := view.calendar.MonthGrid(view.year, view.month, now)
	view.title.SetText(month.Title())

	objects := make([]fyne.CanvasObject, 0, 7+month.LeadingBlanks+len(month.Days))
	for _, header := range calendar.WeekdayHeaders {
		objects = append(objects, widget.NewLabelWithStyle(header, fyne.TextAlignCenter, fyne.TextStyle{Bold: true}))
	}
	for i := 0; i < month.LeadingBlanks; i++ {
		objects = append(objects, layout.NewSpacer())
	}
	for _, cell := range month.Days {
		objects = append(objects, newDayCell(cell))
	}
	view.grid.Objects = objects
	view.grid.Refresh()
}

func newDayCell(cell calendar.DayCell) fyne.CanvasObject {
	background := canvas.NewRectangle(CellFill(cell))
	background.CornerRadius = 4
	label := widget.NewLabelWithStyle(strconv.Itoa(cell.Day), fyne.TextAlignCenter, fyne.TextStyle{Bold: cell.Today})

	objects := []fyne.CanvasObject{background, label}
	if cell.HasEntries {
		dot := canvas.NewCircle(dotColor)
		objects = append(objects, container.NewVBox(layout.NewSpacer(), container.NewCenter(container.NewGridWrap(fyne.NewSize(5, 5), dot))))
	}
	return container.NewStack(objects...)
}

func (view *Window) importFile() {
	open := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			dialog.ShowError(err, view.window)
			return
		}
		if reader == nil {
			return
		}
		defer reader.Close()
		data, err := view.service.ImportCalendar(reader)
		if err != nil {
			view.logger.Warn("calendar import rejected", "file", reader.URI().Name(), "error", err)
			dialog.ShowError(err, view.window)
			return
		}
		view.calendar = calendar.New(data)
		view.Refresh(view.now())
		dialog.ShowInformation("Import", "Calendar data imported.", view.window)
	}, view.window)
	open.SetFilter(storage.NewExtensionFileFilter([]string{".json"}))
	open.Show()
}

func (view *Window) exportFile() {
	save := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, view.window)
			return
		}
		if writer == nil {
			return
		}
		defer writer.Close()
		if err := view.service.ExportCalendar(writer); err != nil {
			view.logger.Error("calendar export failed", "error", err)
			dialog.ShowError(err, view.window)
		}
	}, view.window)
	save.SetFileName(interchange.CalendarFileName(view.now()))
	save.Show()
}

func (view *Window) stopRefresh() {
	if view.cancel != nil {
		view.cancel()
		view.cancel = nil
	}
}
