package model

import "strings"

// TickProfile selects the waveform of the audible countdown tick.
type TickProfile string

const (
	ProfileClassic TickProfile = "classic"
	ProfileVintage TickProfile = "vintage"
	ProfileSoft    TickProfile = "soft"
	ProfileNone    TickProfile = "none"
)

// Tick defaults and limits.
const (
	DefaultTickPitch  = 750
	MinTickPitch      = 100
	MaxTickPitch      = 2000
	DefaultTickVolume = 0.05
)

// TickProfiles lists the selectable profiles in display order.
func TickProfiles() []TickProfile {
	return []TickProfile{ProfileClassic, ProfileVintage, ProfileSoft, ProfileNone}
}

// ParseTickProfile maps a stored profile name to a known profile.
// Unknown names fall back to classic.
func ParseTickProfile(value string) TickProfile {
	switch TickProfile(strings.ToLower(strings.TrimSpace(value))) {
	case ProfileVintage:
		return ProfileVintage
	case ProfileSoft:
		return ProfileSoft
	case ProfileNone:
		return ProfileNone
	default:
		return ProfileClassic
	}
}

// TickConfig contains the audible tick options of a countdown session.
type TickConfig struct {
	Profile     TickProfile
	PitchHz     int
	Volume      float64
	StartTickAt int
}

// DefaultTickConfig returns the tick options used on first launch.
func DefaultTickConfig() TickConfig {
	return TickConfig{
		Profile:     ProfileClassic,
		PitchHz:     DefaultTickPitch,
		Volume:      DefaultTickVolume,
		StartTickAt: 0,
	}
}

// Normalized clamps every field into its valid range.
func (config TickConfig) Normalized() TickConfig {
	config.Profile = ParseTickProfile(string(config.Profile))
	if config.PitchHz <= 0 {
		config.PitchHz = DefaultTickPitch
	}
	if config.PitchHz < MinTickPitch {
		config.PitchHz = MinTickPitch
	}
	if config.PitchHz > MaxTickPitch {
		config.PitchHz = MaxTickPitch
	}
	if config.Volume < 0 {
		config.Volume = 0
	}
	if config.Volume > 1 {
		config.Volume = 1
	}
	if config.StartTickAt < 0 {
		config.StartTickAt = 0
	}
	return config
}
