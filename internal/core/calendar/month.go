package calendar

import (
	"fmt"
	"time"
)

// The highlighted six-week period starts on Thursday 31 October 2024 and
// its Fridays are counted from Friday 1 November 2024.
var (
	periodStart = time.Date(2024, time.October, 31, 0, 0, 0, 0, time.UTC)
	periodEnd   = periodStart.AddDate(0, 0, 42)
	firstFriday = time.Date(2024, time.November, 1, 0, 0, 0, 0, time.UTC)
)

// WeekdayHeaders labels the grid columns, Sunday first.
var WeekdayHeaders = []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// DayCell is one day of the month grid.
type DayCell struct {
	Day         int
	Date        time.Time
	Today       bool
	Thursday    bool
	InPeriod    bool
	FifthFriday bool
	HasEntries  bool
}

// Month is a rendered month grid.
type Month struct {
	Year          int
	Month         time.Month
	LeadingBlanks int
	Days          []DayCell
}

// Title returns e.g. "March 2025".
func (month Month) Title() string {
	return fmt.Sprintf("%s %d", month.Month, month.Year)
}

// MonthGrid lays out a month. today marks the current day when it falls in
// the month.
func (calendar *Calendar) MonthGrid(year int, month time.Month, today time.Time) Month {
	first := time.Date(year, month, 1, 0, 0, 0, 0, today.Location())
	grid := Month{
		Year:          year,
		Month:         month,
		LeadingBlanks: int(first.Weekday()),
	}
	count := DaysInMonth(year, month)
	grid.Days = make([]DayCell, 0, count)
	for dayOfMonth := 1; dayOfMonth <= count; dayOfMonth++ {
		date := time.Date(year, month, dayOfMonth, 0, 0, 0, 0, today.Location())
		grid.Days = append(grid.Days, DayCell{
			Day:         dayOfMonth,
			Date:        date,
			Today:       today.Year() == year && today.Month() == month && today.Day() == dayOfMonth,
			Thursday:    date.Weekday() == time.Thursday,
			InPeriod:    InPeriod(date),
			FifthFriday: IsFifthFriday(date),
			HasEntries:  calendar.HasEntries(date),
		})
	}
	return grid
}

// InPeriod reports whether t falls inside the six-week period.
func InPeriod(t time.Time) bool {
	date := civil(t)
	return !date.Before(periodStart) && !date.After(periodEnd)
}

// IsFifthFriday reports whether t is a Friday of the period whose ordinal,
// counted from 1 November 2024, is a multiple of five.
func IsFifthFriday(t time.Time) bool {
	if t.Weekday() != time.Friday || !InPeriod(t) {
		return false
	}
	days := daysBetween(firstFriday, civil(t))
	if days < 0 {
		return false
	}
	return (days/7+1)%5 == 0
}
