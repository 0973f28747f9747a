package calendar

import (
	"testing"
	"time"

	"clockwork/internal/core/model"
)

func date(year int, month time.Month, dayOfMonth int) time.Time {
	return time.Date(year, month, dayOfMonth, 10, 30, 0, 0, time.UTC)
}

func TestISOWeek(t *testing.T) {
	cases := []struct {
		at   time.Time
		want int
	}{
		{date(2025, time.January, 1), 1},
		{date(2024, time.December, 30), 1},
		{date(2021, time.January, 3), 53},
		{date(2025, time.June, 15), 24},
	}
	for _, tc := range cases {
		if got := ISOWeek(tc.at); got != tc.want {
			t.Fatalf("ISOWeek(%s) = %d, want %d", DateKey(tc.at), got, tc.want)
		}
	}
}

func TestDaysLeft(t *testing.T) {
	if got := DaysLeftInYear(date(2025, time.January, 1)); got != 364 {
		t.Fatalf("days left in 2025 from Jan 1: %d", got)
	}
	if got := DaysLeftInYear(date(2024, time.January, 1)); got != 365 {
		t.Fatalf("days left in leap 2024 from Jan 1: %d", got)
	}
	if got := DaysLeftInYear(date(2025, time.December, 31)); got != 0 {
		t.Fatalf("days left on Dec 31: %d", got)
	}
	if got := DaysLeftInMonth(date(2025, time.February, 10)); got != 18 {
		t.Fatalf("days left in Feb 2025 from the 10th: %d", got)
	}
	if got := DaysLeftInMonth(date(2024, time.February, 10)); got != 19 {
		t.Fatalf("days left in Feb 2024 from the 10th: %d", got)
	}
	if got := DaysLeftInWeek(date(2025, time.March, 9)); got != 0 {
		t.Fatalf("Sunday should have 0 days left, got %d", got)
	}
	if got := DaysLeftInWeek(date(2025, time.March, 10)); got != 6 {
		t.Fatalf("Monday should have 6 days left, got %d", got)
	}
}

func TestChangeMonthWraps(t *testing.T) {
	year, month := ChangeMonth(2025, time.January, -1)
	if year != 2024 || month != time.December {
		t.Fatalf("expected December 2024, got %s %d", month, year)
	}
	year, month = ChangeMonth(2025, time.December, 1)
	if year != 2026 || month != time.January {
		t.Fatalf("expected January 2026, got %s %d", month, year)
	}
}

func testData() model.CalendarData {
	data := DefaultData()
	data.Events = []model.Event{
		{Date: "2025-03-10", Time: "08:00", Name: "Standup"},
		{Date: "2025-03-12", Name: "Review"},
		{Date: "2025-03-11", Time: "09:00", Name: "Dentist"},
		{Date: "2025-03-09", Name: "Yesterday"},
		{Date: "2025-04-20", Name: "Too far"},
		{Date: "2025-03-20", Name: "Later"},
		{Date: "2025-03-25", Name: "Much later"},
		{Date: "2025-03-30", Name: "Eid party"},
		{Date: "not-a-date", Name: "Broken"},
	}
	data.Plans = []model.Plan{{Date: "2025-03-10"}, {Date: "2025-03-10"}}
	return data
}

func TestDaySummary(t *testing.T) {
	calendar := New(testData())
	if got := calendar.DaySummary(date(2025, time.March, 10)); got != "Events: 1 | Plans: 2" {
		t.Fatalf("unexpected summary %q", got)
	}
	if got := calendar.DaySummary(date(2025, time.December, 25)); got != "Christmas Day 🇰🇪" {
		t.Fatalf("unexpected holiday summary %q", got)
	}
	if got := calendar.DaySummary(date(2025, time.July, 1)); got != "No events today" {
		t.Fatalf("unexpected empty summary %q", got)
	}
}

func TestUpcoming(t *testing.T) {
	calendar := New(testData())
	now := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)

	all := calendar.Upcoming(now, 0)
	names := make([]string, 0, len(all))
	for _, upcoming := range all {
		names = append(names, upcoming.Event.Name)
	}
	want := []string{"Standup", "Dentist", "Review", "Later", "Much later", "Eid party"}
	if len(names) != len(want) {
		t.Fatalf("expected %v, got %v", want, names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, names)
		}
	}

	if all[0].Label != "Today" || !all[0].Reminder {
		t.Fatalf("unexpected today entry %+v", all[0])
	}
	if all[1].Label != "Tomorrow" || all[1].Line() != "Dentist (09:00) - Tomorrow" {
		t.Fatalf("unexpected tomorrow entry %q", all[1].Line())
	}
	if all[2].Days != 2 || !all[2].Reminder || all[2].Label != "2 days" {
		t.Fatalf("unexpected reminder entry %+v", all[2])
	}
	if all[3].Reminder {
		t.Fatalf("ten days out is not a reminder")
	}

	if top := calendar.Upcoming(now, UpcomingLimit); len(top) != UpcomingLimit {
		t.Fatalf("expected %d entries, got %d", UpcomingLimit, len(top))
	}
}

func TestMonthGrid(t *testing.T) {
	calendar := New(testData())
	today := time.Date(2024, time.November, 14, 9, 0, 0, 0, time.UTC)
	grid := calendar.MonthGrid(2024, time.November, today)

	if grid.Title() != "November 2024" {
		t.Fatalf("unexpected title %q", grid.Title())
	}
	if grid.LeadingBlanks != 5 {
		t.Fatalf("November 2024 starts on Friday, got %d blanks", grid.LeadingBlanks)
	}
	if len(grid.Days) != 30 {
		t.Fatalf("expected 30 days, got %d", len(grid.Days))
	}
	if !grid.Days[13].Today || grid.Days[12].Today {
		t.Fatalf("expected the 14th to be today")
	}
	if !grid.Days[27].Thursday {
		t.Fatalf("expected the 28th to be a Thursday")
	}
	for _, cell := range grid.Days {
		if cell.FifthFriday != (cell.Day == 29) {
			t.Fatalf("unexpected fifth friday flag on day %d", cell.Day)
		}
		if !cell.InPeriod {
			t.Fatalf("all of November 2024 is in the period, day %d is not", cell.Day)
		}
	}

	march := calendar.MonthGrid(2025, time.March, today)
	if march.Days[0].Today {
		t.Fatalf("today belongs to another month")
	}
	if !march.Days[9].HasEntries || !march.Days[29].HasEntries || march.Days[0].HasEntries {
		t.Fatalf("unexpected entry indicators")
	}
}

func TestPeriodBounds(t *testing.T) {
	if !InPeriod(date(2024, time.October, 31)) || !InPeriod(date(2024, time.December, 12)) {
		t.Fatalf("period bounds are inclusive")
	}
	if InPeriod(date(2024, time.October, 30)) || InPeriod(date(2024, time.December, 13)) {
		t.Fatalf("dates outside the period were included")
	}
	if IsFifthFriday(date(2025, time.March, 28)) {
		t.Fatalf("Fridays after the period are never highlighted")
	}
}
