package preferences

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"clockwork/internal/core/backdrop"
	"clockwork/internal/core/model"
)

// ErrInvalidField is wrapped by every form validation error.
var ErrInvalidField = errors.New("invalid preference")

// BackgroundPresets are the swatches offered next to the colour field.
var BackgroundPresets = []string{"#2e2e2e", "#1f3a5f", "#3b2a5c", "#1e5f46", "#5f2a2a", "#000000"}

// formValues mirrors the widgets of the preferences window.
type formValues struct {
	Profile       string
	Pitch         float64
	Volume        float64
	EnableSound   bool
	StartTickAt   string
	Background    string
	Stealth       bool
	LaunchAtLogin bool
}

func valuesFrom(settings model.Settings) formValues {
	tick := settings.TickConfig()
	return formValues{
		Profile:       string(tick.Profile),
		Pitch:         float64(tick.PitchHz),
		Volume:        tick.Volume,
		EnableSound:   settings.EnableSound,
		StartTickAt:   strconv.Itoa(tick.StartTickAt),
		Background:    settings.BackgroundColor,
		Stealth:       settings.StealthMode,
		LaunchAtLogin: settings.LaunchAtLogin,
	}
}

// apply validates the form and merges it into base. The secret note is
// saved on its own and is never touched here.
func (values formValues) apply(base model.Settings) (model.Settings, error) {
	settings := base

	startTickAt := 0
	if text := strings.TrimSpace(values.StartTickAt); text != "" {
		parsed, err := strconv.Atoi(text)
		if err != nil || parsed < 0 {
			return base, fmt.Errorf("tick start must be a whole number of seconds: %w", ErrInvalidField)
		}
		startTickAt = parsed
	}

	background, err := backdrop.ParseHex(values.Background)
	if err != nil {
		return base, fmt.Errorf("background must be a #rrggbb colour: %w", ErrInvalidField)
	}

	settings.Tick = model.TickConfig{
		Profile:     model.ParseTickProfile(values.Profile),
		PitchHz:     int(values.Pitch),
		Volume:      values.Volume,
		StartTickAt: startTickAt,
	}.Normalized()
	settings.EnableSound = values.EnableSound
	settings.BackgroundColor = backdrop.Hex(background)
	settings.StealthMode = values.Stealth
	settings.LaunchAtLogin = values.LaunchAtLogin
	return settings, nil
}

func profileOptions() []string {
	profiles := model.TickProfiles()
	options := make([]string, 0, len(profiles))
	for _, profile := range profiles {
		options = append(options, string(profile))
	}
	return options
}
