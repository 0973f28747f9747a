// Package interchange reads and writes the JSON files users import and
// export: calendar data and the settings backup bundle.
package interchange

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"clockwork/internal/core/model"
)

// ErrInvalidFormat is wrapped by every ValidationError.
var ErrInvalidFormat = errors.New("unrecognised JSON format")

// ValidationError describes the first part of a document with the wrong shape.
type ValidationError struct {
	Field  string
	Reason string
}

func (err *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", err.Field, err.Reason)
}

func (err *ValidationError) Unwrap() error {
	return ErrInvalidFormat
}

// ParseCalendar validates and decodes a calendar document. Missing or null
// sections become empty collections.
func ParseCalendar(raw []byte) (model.CalendarData, error) {
	fields, err := parseObject(raw, "document")
	if err != nil {
		return model.CalendarData{}, err
	}

	data := model.NewCalendarData()
	if value, ok := section(fields, "holidays"); ok {
		if shape(value) != '{' {
			return model.CalendarData{}, &ValidationError{Field: "holidays", Reason: "must be an object"}
		}
		if err := json.Unmarshal(value, &data.Holidays); err != nil {
			return model.CalendarData{}, &ValidationError{Field: "holidays", Reason: "must map dates to holiday objects"}
		}
	}
	if value, ok := section(fields, "events"); ok {
		if shape(value) != '[' {
			return model.CalendarData{}, &ValidationError{Field: "events", Reason: "must be an array"}
		}
		if err := json.Unmarshal(value, &data.Events); err != nil {
			return model.CalendarData{}, &ValidationError{Field: "events", Reason: "must contain only objects"}
		}
	}
	if value, ok := section(fields, "plans"); ok {
		if shape(value) != '[' {
			return model.CalendarData{}, &ValidationError{Field: "plans", Reason: "must be an array"}
		}
		if err := json.Unmarshal(value, &data.Plans); err != nil {
			return model.CalendarData{}, &ValidationError{Field: "plans", Reason: "must contain only objects"}
		}
	}
	return data.Normalized(), nil
}

// EncodeCalendar renders a calendar document indented with two spaces.
func EncodeCalendar(data model.CalendarData) ([]byte, error) {
	encoded, err := json.MarshalIndent(data.Normalized(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode calendar: %w", err)
	}
	return encoded, nil
}

// CalendarFileName suggests a name for a calendar export.
func CalendarFileName(now time.Time) string {
	return "clockwork-data-" + now.Format(model.DateLayout) + ".json"
}

// BackupFileName suggests a name for a settings bundle export.
func BackupFileName(now time.Time) string {
	return "clockwork-backup-" + now.Format(model.DateLayout) + ".json"
}

func parseObject(raw []byte, field string) (map[string]json.RawMessage, error) {
	if shape(raw) != '{' {
		return nil, &ValidationError{Field: field, Reason: "must be a JSON object"}
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("parse %s: %w", field, err)
	}
	return fields, nil
}

// section returns a field unless it is absent or null.
func section(fields map[string]json.RawMessage, key string) (json.RawMessage, bool) {
	value, ok := fields[key]
	if !ok || shape(value) == 'n' {
		return nil, false
	}
	return value, true
}

// shape returns the first significant byte of a JSON value.
func shape(raw []byte) byte {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return 0
	}
	return trimmed[0]
}
