package countdown

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// WholeSeconds rounds a remaining duration up to whole seconds, so a
// countdown shows 00:00:01 until it actually reaches zero.
func WholeSeconds(remaining time.Duration) int64 {
	if remaining <= 0 {
		return 0
	}
	seconds := int64(remaining / time.Second)
	if remaining%time.Second != 0 {
		seconds++
	}
	return seconds
}

// FormatClock renders a duration as HH:MM:SS.
func FormatClock(remaining time.Duration) string {
	total := WholeSeconds(remaining)
	hours := total / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60
	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
}

// ParseHMS converts the three countdown input fields into a duration.
// Blank fields count as zero.
func ParseHMS(hours, minutes, seconds string) (time.Duration, error) {
	h, err := parseField(hours, "hours", 23)
	if err != nil {
		return 0, err
	}
	m, err := parseField(minutes, "minutes", 59)
	if err != nil {
		return 0, err
	}
	s, err := parseField(seconds, "seconds", 59)
	if err != nil {
		return 0, err
	}
	total := time.Duration(h)*time.Hour + time.Duration(m)*time.Minute + time.Duration(s)*time.Second
	if total <= 0 {
		return 0, fmt.Errorf("set a time greater than zero: %w", ErrInvalidDuration)
	}
	return total, nil
}

func parseField(value, name string, max int) (int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, nil
	}
	number, err := strconv.Atoi(value)
	if err != nil || number < 0 || number > max {
		return 0, fmt.Errorf("%s must be between 0 and %d: %w", name, max, ErrInvalidDuration)
	}
	return number, nil
}

// StatusLabel returns the short status line shown under the countdown.
func StatusLabel(state State) string {
	switch state {
	case StateRunning:
		return "● Running"
	case StatePaused:
		return "⏸ Paused"
	default:
		return ""
	}
}
