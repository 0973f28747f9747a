// Package calendarview shows the calendar window: today's overview, the
// upcoming events and the month grid.
package calendarview

import (
	"fmt"
	"image/color"
	"time"

	"clockwork/internal/core/calendar"
)

// Overview is the text of the panel header.
type Overview struct {
	Date     string
	Week     string
	DaysLeft string
	Summary  string
	Upcoming []string
}

// BuildOverview renders the header for now.
func BuildOverview(cal *calendar.Calendar, now time.Time) Overview {
	overview := Overview{
		Date: now.Format("Monday, 2 January 2006"),
		Week: fmt.Sprintf("ISO week %d", calendar.ISOWeek(now)),
		DaysLeft: fmt.Sprintf("Days left: %d in year, %d in month, %d in week",
			calendar.DaysLeftInYear(now),
			calendar.DaysLeftInMonth(now),
			calendar.DaysLeftInWeek(now),
		),
		Summary: cal.DaySummary(now),
	}
	for _, upcoming := range cal.Upcoming(now, calendar.UpcomingLimit) {
		overview.Upcoming = append(overview.Upcoming, upcoming.Line())
	}
	if len(overview.Upcoming) == 0 {
		overview.Upcoming = []string{"No upcoming events"}
	}
	return overview
}

var (
	todayFill       = color.NRGBA{R: 52, G: 152, B: 219, A: 220}
	periodFill      = color.NRGBA{R: 46, G: 204, B: 113, A: 60}
	fifthFridayFill = color.NRGBA{R: 241, G: 196, B: 15, A: 160}
	thursdayFill    = color.NRGBA{R: 155, G: 89, B: 182, A: 70}
	plainFill       = color.NRGBA{}
	dotColor        = color.NRGBA{R: 231, G: 76, B: 60, A: 255}
)

// CellFill picks a day's background. Today wins over the fifth Friday,
// which wins over Thursday, which wins over the period shading.
func CellFill(cell calendar.DayCell) color.NRGBA {
	switch {
	case cell.Today:
		return todayFill
	case cell.FifthFriday:
		return fifthFridayFill
	case cell.Thursday:
		return thursdayFill
	case cell.InPeriod:
		return periodFill
	default:
		return plainFill
	}
}
