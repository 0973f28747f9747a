// Package calendar answers date questions for the calendar panel: week
// numbers, days left, holidays, events, plans and the month grid.
package calendar

import (
	"math"
	"time"

	"clockwork/internal/core/model"
)

// DateKey returns the ISO date of t in its own location.
func DateKey(t time.Time) string {
	return t.Format(model.DateLayout)
}

// ISOWeek returns the ISO 8601 week number of t.
func ISOWeek(t time.Time) int {
	_, week := t.ISOWeek()
	return week
}

// DaysLeftInYear counts whole days from t to 31 December.
func DaysLeftInYear(t time.Time) int {
	end := time.Date(t.Year(), time.December, 31, 0, 0, 0, 0, time.UTC)
	return daysBetween(civil(t), end)
}

// DaysLeftInMonth counts whole days from t to the last day of its month.
func DaysLeftInMonth(t time.Time) int {
	return DaysInMonth(t.Year(), t.Month()) - t.Day()
}

// DaysLeftInWeek counts days until Sunday, the last ISO weekday.
func DaysLeftInWeek(t time.Time) int {
	return 7 - isoWeekday(t)
}

// DaysInMonth returns the number of days in the month.
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// ChangeMonth moves a displayed month by delta months.
func ChangeMonth(year int, month time.Month, delta int) (int, time.Month) {
	moved := time.Date(year, month+time.Month(delta), 1, 0, 0, 0, 0, time.UTC)
	return moved.Year(), moved.Month()
}

func isoWeekday(t time.Time) int {
	if t.Weekday() == time.Sunday {
		return 7
	}
	return int(t.Weekday())
}

// civil drops the clock and location so day arithmetic ignores DST.
func civil(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func daysBetween(from, to time.Time) int {
	return int(math.Round(to.Sub(from).Hours() / 24))
}
