package model

// DefaultBackgroundColor is the backdrop colour used when none is stored.
const DefaultBackgroundColor = "#2e2e2e"

// Settings defines editable user preferences.
type Settings struct {
	Tick            TickConfig
	EnableSound     bool
	BackgroundColor string
	StealthMode     bool
	SecretNote      string
	LaunchAtLogin   bool
}

// DefaultSettings returns default settings for Clockwork.
func DefaultSettings() Settings {
	return Settings{
		Tick:            DefaultTickConfig(),
		EnableSound:     true,
		BackgroundColor: DefaultBackgroundColor,
	}
}

// TickConfig returns the normalized tick options for a new countdown.
func (settings Settings) TickConfig() TickConfig {
	return settings.Tick.Normalized()
}

// Position is the centre of the clock card in window coordinates.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}
