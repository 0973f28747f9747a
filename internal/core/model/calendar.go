package model

import (
	"encoding/json"
	"fmt"
)

// DateLayout is the ISO date format used for calendar keys.
const DateLayout = "2006-01-02"

// keySet records which known keys were present in a decoded document, so
// an empty value that was written explicitly is written back.
type keySet uint8

const (
	keyTime keySet = 1 << iota
	keyName
	keyCountry
	keyEmoji
)

// Holiday is a named public holiday. Fields the application does not know
// about are kept in Extra.
type Holiday struct {
	Name    string
	Country string
	Emoji   string
	Extra   map[string]json.RawMessage

	seen keySet
}

// Event is a dated calendar entry with an optional time of day.
// Fields the application does not know about are kept in Extra.
type Event struct {
	Date  string
	Time  string
	Name  string
	Extra map[string]json.RawMessage

	seen keySet
}

// Plan is a dated entry with free-form fields.
type Plan struct {
	Date  string
	Extra map[string]json.RawMessage
}

// CalendarData is the calendar record shared by storage and interchange.
type CalendarData struct {
	Holidays map[string]Holiday `json:"holidays"`
	Events   []Event            `json:"events"`
	Plans    []Plan             `json:"plans"`
}

// NewCalendarData returns an empty record.
func NewCalendarData() CalendarData {
	return CalendarData{
		Holidays: map[string]Holiday{},
		Events:   []Event{},
		Plans:    []Plan{},
	}
}

// Normalized replaces nil collections with empty ones so the record
// always serializes as {"holidays":{},"events":[],"plans":[]}.
func (data CalendarData) Normalized() CalendarData {
	if data.Holidays == nil {
		data.Holidays = map[string]Holiday{}
	}
	if data.Events == nil {
		data.Events = []Event{}
	}
	if data.Plans == nil {
		data.Plans = []Plan{}
	}
	return data
}

// MarshalJSON writes the name over the preserved extras, plus country and
// emoji when set or present in the decoded document.
func (holiday Holiday) MarshalJSON() ([]byte, error) {
	fields := copyExtra(holiday.Extra)
	if err := setString(fields, "name", holiday.Name, false); err != nil {
		return nil, err
	}
	if err := setString(fields, "country", holiday.Country, holiday.seen&keyCountry == 0); err != nil {
		return nil, err
	}
	if err := setString(fields, "emoji", holiday.Emoji, holiday.seen&keyEmoji == 0); err != nil {
		return nil, err
	}
	return json.Marshal(fields)
}

// UnmarshalJSON reads name, country and emoji and keeps every other field.
func (holiday *Holiday) UnmarshalJSON(data []byte) error {
	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("holiday: %w", err)
	}
	*holiday = Holiday{}
	holiday.Name, _ = takeString(fields, "name")
	holiday.Country = holiday.take(fields, "country", keyCountry)
	holiday.Emoji = holiday.take(fields, "emoji", keyEmoji)
	holiday.Extra = nilIfEmpty(fields)
	return nil
}

func (holiday *Holiday) take(fields map[string]json.RawMessage, key string, bit keySet) string {
	value, ok := takeString(fields, key)
	if ok {
		holiday.seen |= bit
	}
	return value
}

// MarshalJSON writes known fields over the preserved extras. Empty name and
// time are written only when the decoded document had them.
func (event Event) MarshalJSON() ([]byte, error) {
	fields := copyExtra(event.Extra)
	if err := setString(fields, "date", event.Date, false); err != nil {
		return nil, err
	}
	if err := setString(fields, "name", event.Name, event.seen&keyName == 0); err != nil {
		return nil, err
	}
	if err := setString(fields, "time", event.Time, event.seen&keyTime == 0); err != nil {
		return nil, err
	}
	return json.Marshal(fields)
}

// UnmarshalJSON reads date, time and name and keeps every other field.
func (event *Event) UnmarshalJSON(data []byte) error {
	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("event: %w", err)
	}
	*event = Event{}
	event.Date, _ = takeString(fields, "date")
	event.Time = event.take(fields, "time", keyTime)
	event.Name = event.take(fields, "name", keyName)
	event.Extra = nilIfEmpty(fields)
	return nil
}

func (event *Event) take(fields map[string]json.RawMessage, key string, bit keySet) string {
	value, ok := takeString(fields, key)
	if ok {
		event.seen |= bit
	}
	return value
}

// MarshalJSON writes the date over the preserved extras.
func (plan Plan) MarshalJSON() ([]byte, error) {
	fields := copyExtra(plan.Extra)
	if err := setString(fields, "date", plan.Date, false); err != nil {
		return nil, err
	}
	return json.Marshal(fields)
}

// UnmarshalJSON reads the date and keeps every other field.
func (plan *Plan) UnmarshalJSON(data []byte) error {
	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("plan: %w", err)
	}
	plan.Date, _ = takeString(fields, "date")
	plan.Extra = nilIfEmpty(fields)
	return nil
}

func copyExtra(extra map[string]json.RawMessage) map[string]json.RawMessage {
	fields := make(map[string]json.RawMessage, len(extra)+3)
	for key, value := range extra {
		fields[key] = value
	}
	return fields
}

func setString(fields map[string]json.RawMessage, key, value string, omitEmpty bool) error {
	if value == "" {
		if _, kept := fields[key]; kept || omitEmpty {
			return nil
		}
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	fields[key] = raw
	return nil
}

// takeString removes key from fields when it holds a JSON string and
// reports whether it did. Non-string values stay in fields and round-trip
// untouched.
func takeString(fields map[string]json.RawMessage, key string) (string, bool) {
	raw, ok := fields[key]
	if !ok {
		return "", false
	}
	var value string
	if err := json.Unmarshal(raw, &value); err != nil {
		return "", false
	}
	delete(fields, key)
	return value, true
}

func nilIfEmpty(fields map[string]json.RawMessage) map[string]json.RawMessage {
	if len(fields) == 0 {
		return nil
	}
	return fields
}
