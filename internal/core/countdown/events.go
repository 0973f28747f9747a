package countdown

import "time"

// State represents the current countdown mode.
type State string

const (
	StateIdle      State = "idle"
	StateRunning   State = "running"
	StatePaused    State = "paused"
	StateCompleted State = "completed"
)

// EventType defines the type of countdown event.
type EventType string

const (
	EventStateChange EventType = "state_change"
	EventAudibleTick EventType = "audible_tick"
)

// Event represents a countdown update for observers.
type Event struct {
	Type      EventType
	State     State
	Previous  State
	Remaining time.Duration
	Total     time.Duration
	At        time.Time
}

// TickResult reports what a single Tick observed.
type TickResult struct {
	State       State
	Remaining   time.Duration
	Progress    float64
	AudibleTick bool
	Completed   bool
}

// Snapshot is a consistent read of the engine fields.
type Snapshot struct {
	State     State
	Total     time.Duration
	Remaining time.Duration
	Progress  float64
	EndsAt    time.Time
}
