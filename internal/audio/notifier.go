// Package audio synthesizes the countdown tick, the end chime and the
// preferences preview tone.
package audio

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/faiface/beep/speaker"

	"clockwork/internal/core/model"
)

// Output plays a finished streamer.
type Output interface {
	Play(streamer beep.Streamer) error
}

// SpeakerOutput plays through the system speaker, initialised on first use.
type SpeakerOutput struct {
	once    sync.Once
	initErr error
}

// Play queues a streamer on the speaker.
func (output *SpeakerOutput) Play(streamer beep.Streamer) error {
	output.once.Do(func() {
		output.initErr = speaker.Init(SampleRate, SampleRate.N(time.Second/20))
	})
	if output.initErr != nil {
		return fmt.Errorf("init speaker: %w", output.initErr)
	}
	speaker.Play(streamer)
	return nil
}

// Notifier plays audio cues. Every failure is logged and swallowed.
type Notifier struct {
	mu      sync.Mutex
	output  Output
	enabled bool
	logger  *slog.Logger
}

// NewNotifier creates an enabled notifier. A nil output uses the speaker.
func NewNotifier(output Output, logger *slog.Logger) *Notifier {
	if output == nil {
		output = &SpeakerOutput{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Notifier{
		output:  output,
		enabled: true,
		logger:  logger.With("component", "audio"),
	}
}

// SetEnabled turns the countdown cues on or off.
func (notifier *Notifier) SetEnabled(enabled bool) {
	notifier.mu.Lock()
	notifier.enabled = enabled
	notifier.mu.Unlock()
}

// Enabled reports whether countdown cues are played.
func (notifier *Notifier) Enabled() bool {
	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	return notifier.enabled
}

// PlayTick plays one short tick shaped by the profile.
func (notifier *Notifier) PlayTick(profile model.TickProfile, pitchHz int, volume float64) {
	if !notifier.Enabled() || volume <= 0 {
		return
	}
	var wave waveform
	switch model.ParseTickProfile(string(profile)) {
	case model.ProfileNone:
		return
	case model.ProfileVintage:
		wave = sawtooth
	case model.ProfileSoft:
		wave = sine
	default:
		wave = square
	}
	notifier.play("tick", tone(wave, float64(clampPitch(pitchHz)), tickLength, tickEnvelope(volume)))
}

// PlayEndChime plays the three-tone completion chime.
func (notifier *Notifier) PlayEndChime() {
	if !notifier.Enabled() {
		return
	}
	notifier.play("chime", endChime())
}

// PlayPreview plays a short sine at the chosen pitch. It ignores the
// enabled flag since it only runs on an explicit request.
func (notifier *Notifier) PlayPreview(pitchHz int, volume float64) {
	if volume <= 0 {
		return
	}
	if volume > 1 {
		volume = 1
	}
	unit := tone(sine, float64(clampPitch(pitchHz)), previewLength, previewEnvelope(volume))
	notifier.play("preview", &effects.Gain{Streamer: unit, Gain: volume - 1})
}

func (notifier *Notifier) play(cue string, streamer beep.Streamer) {
	defer func() {
		if recovered := recover(); recovered != nil {
			notifier.logger.Warn("audio backend panicked", "cue", cue, "panic", recovered)
		}
	}()
	if err := notifier.output.Play(streamer); err != nil {
		notifier.logger.Warn("audio unavailable", "cue", cue, "error", err)
	}
}

func clampPitch(pitchHz int) int {
	return model.TickConfig{PitchHz: pitchHz}.Normalized().PitchHz
}
