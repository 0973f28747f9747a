package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"clockwork/internal/core/model"
)

// number accepts a JSON number or a numeric string. Older exports stored
// form values as strings.
type number struct {
	value float64
	set   bool
}

func (value *number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var text string
		if err := json.Unmarshal(data, &text); err != nil {
			return err
		}
		text = strings.TrimSpace(text)
		if text == "" {
			return nil
		}
		parsed, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return fmt.Errorf("numeric string %q: %w", text, err)
		}
		value.value, value.set = parsed, true
		return nil
	}
	var parsed float64
	if err := json.Unmarshal(data, &parsed); err != nil {
		return err
	}
	value.value, value.set = parsed, true
	return nil
}

// settingsRecord is the stored shape of model.Settings.
type settingsRecord struct {
	TickProfile   string `json:"tickProfile"`
	TickPitch     number `json:"tickPitch"`
	TickVolume    number `json:"tickVolume"`
	EnableSound   *bool  `json:"enableSound"`
	StartTickAt   number `json:"startTickAt"`
	BgColor       string `json:"bgColor"`
	StealthMode   *bool  `json:"stealthMode"`
	SecretNote    string `json:"secretNote"`
	LaunchAtLogin *bool  `json:"launchAtLogin"`
}

type settingsOutput struct {
	TickProfile   string  `json:"tickProfile"`
	TickPitch     int     `json:"tickPitch"`
	TickVolume    float64 `json:"tickVolume"`
	EnableSound   bool    `json:"enableSound"`
	StartTickAt   int     `json:"startTickAt"`
	BgColor       string  `json:"bgColor"`
	StealthMode   bool    `json:"stealthMode"`
	SecretNote    string  `json:"secretNote"`
	LaunchAtLogin bool    `json:"launchAtLogin"`
}

// decodeSettings applies every present field over the defaults. The
// returned note is still sealed.
func decodeSettings(data []byte) (model.Settings, error) {
	settings := model.DefaultSettings()
	var record settingsRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return settings, fmt.Errorf("parse settings record: %w", err)
	}
	if record.TickProfile != "" {
		settings.Tick.Profile = model.ParseTickProfile(record.TickProfile)
	}
	if record.TickPitch.set {
		settings.Tick.PitchHz = int(record.TickPitch.value)
	}
	if record.TickVolume.set {
		settings.Tick.Volume = record.TickVolume.value
	}
	if record.StartTickAt.set {
		settings.Tick.StartTickAt = int(record.StartTickAt.value)
	}
	settings.Tick = settings.Tick.Normalized()
	if record.EnableSound != nil {
		settings.EnableSound = *record.EnableSound
	}
	if record.BgColor != "" {
		settings.BackgroundColor = record.BgColor
	}
	if record.StealthMode != nil {
		settings.StealthMode = *record.StealthMode
	}
	if record.LaunchAtLogin != nil {
		settings.LaunchAtLogin = *record.LaunchAtLogin
	}
	settings.SecretNote = record.SecretNote
	return settings, nil
}

// encodeSettings writes settings with an already sealed note.
func encodeSettings(settings model.Settings, sealedNote string) ([]byte, error) {
	tick := settings.Tick.Normalized()
	output := settingsOutput{
		TickProfile:   string(tick.Profile),
		TickPitch:     tick.PitchHz,
		TickVolume:    tick.Volume,
		EnableSound:   settings.EnableSound,
		StartTickAt:   tick.StartTickAt,
		BgColor:       settings.BackgroundColor,
		StealthMode:   settings.StealthMode,
		SecretNote:    sealedNote,
		LaunchAtLogin: settings.LaunchAtLogin,
	}
	data, err := json.Marshal(output)
	if err != nil {
		return nil, fmt.Errorf("marshal settings record: %w", err)
	}
	return data, nil
}
