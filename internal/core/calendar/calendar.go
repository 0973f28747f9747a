package calendar

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"clockwork/internal/core/model"
)

// Upcoming window limits.
const (
	UpcomingHorizonDays = 30
	UpcomingLimit       = 5
	ReminderDays        = 3
)

// Calendar answers lookups against one calendar record.
type Calendar struct {
	data model.CalendarData
}

// New wraps a calendar record.
func New(data model.CalendarData) *Calendar {
	return &Calendar{data: data.Normalized()}
}

// Data returns the wrapped record.
func (calendar *Calendar) Data() model.CalendarData {
	return calendar.data
}

// HolidayString returns "name emoji" for a holiday on t, or "".
func (calendar *Calendar) HolidayString(t time.Time) string {
	holiday, ok := calendar.data.Holidays[DateKey(t)]
	if !ok {
		return ""
	}
	return strings.TrimSpace(holiday.Name + " " + holiday.Emoji)
}

// EventsOn returns events dated t.
func (calendar *Calendar) EventsOn(t time.Time) []model.Event {
	key := DateKey(t)
	var events []model.Event
	for _, event := range calendar.data.Events {
		if event.Date == key {
			events = append(events, event)
		}
	}
	return events
}

// PlansOn returns plans dated t.
func (calendar *Calendar) PlansOn(t time.Time) []model.Plan {
	key := DateKey(t)
	var plans []model.Plan
	for _, plan := range calendar.data.Plans {
		if plan.Date == key {
			plans = append(plans, plan)
		}
	}
	return plans
}

// HasEntries reports whether t has a holiday, event or plan.
func (calendar *Calendar) HasEntries(t time.Time) bool {
	if _, ok := calendar.data.Holidays[DateKey(t)]; ok {
		return true
	}
	return len(calendar.EventsOn(t)) > 0 || len(calendar.PlansOn(t)) > 0
}

// DaySummary combines the holiday with the event and plan counts of t.
func (calendar *Calendar) DaySummary(t time.Time) string {
	parts := make([]string, 0, 3)
	if holiday := calendar.HolidayString(t); holiday != "" {
		parts = append(parts, holiday)
	}
	if count := len(calendar.EventsOn(t)); count > 0 {
		parts = append(parts, fmt.Sprintf("Events: %d", count))
	}
	if count := len(calendar.PlansOn(t)); count > 0 {
		parts = append(parts, fmt.Sprintf("Plans: %d", count))
	}
	if len(parts) == 0 {
		return "No events today"
	}
	return strings.Join(parts, " | ")
}

// UpcomingEvent is an event inside the upcoming window.
type UpcomingEvent struct {
	Event    model.Event
	At       time.Time
	Days     int
	Label    string
	Reminder bool
}

// Line renders the event the way the calendar panel lists it.
func (upcoming UpcomingEvent) Line() string {
	line := upcoming.Event.Name
	if upcoming.Event.Time != "" {
		line += " (" + upcoming.Event.Time + ")"
	}
	line += " - " + upcoming.Label
	if upcoming.Reminder && upcoming.Days > 1 {
		line += " ⚠️"
	}
	return line
}

// Upcoming returns at most limit events due within the next 30 days,
// soonest first. Events earlier today still count as today; events on
// earlier dates are dropped.
func (calendar *Calendar) Upcoming(now time.Time, limit int) []UpcomingEvent {
	var upcoming []UpcomingEvent
	for _, event := range calendar.data.Events {
		at, ok := eventTime(event, now.Location())
		if !ok {
			continue
		}
		days := int(math.Ceil(at.Sub(now).Hours() / 24))
		if civil(at).Before(civil(now)) || days < 0 || days > UpcomingHorizonDays {
			continue
		}
		upcoming = append(upcoming, UpcomingEvent{
			Event:    event,
			At:       at,
			Days:     days,
			Label:    CountdownLabel(days),
			Reminder: days <= ReminderDays,
		})
	}
	sort.SliceStable(upcoming, func(i, j int) bool {
		if upcoming[i].Days != upcoming[j].Days {
			return upcoming[i].Days < upcoming[j].Days
		}
		return upcoming[i].At.Before(upcoming[j].At)
	})
	if limit > 0 && len(upcoming) > limit {
		upcoming = upcoming[:limit]
	}
	return upcoming
}

// CountdownLabel renders days until an event.
func CountdownLabel(days int) string {
	switch days {
	case 0:
		return "Today"
	case 1:
		return "Tomorrow"
	default:
		return fmt.Sprintf("%d days", days)
	}
}

func eventTime(event model.Event, location *time.Location) (time.Time, bool) {
	if event.Time != "" {
		for _, layout := range []string{"2006-01-02T15:04", "2006-01-02T15:04:05"} {
			if at, err := time.ParseInLocation(layout, event.Date+"T"+event.Time, location); err == nil {
				return at, true
			}
		}
	}
	at, err := time.ParseInLocation(model.DateLayout, event.Date, location)
	if err != nil {
		return time.Time{}, false
	}
	return at, true
}
