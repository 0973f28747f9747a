package animation

import "time"

// DefaultConfig returns the standard redraw cadences.
func DefaultConfig() Config {
	return Config{
		ClockRefresh:    time.Second,
		CalendarRefresh: time.Minute,
		PulseHold:       180 * time.Millisecond,
	}
}
