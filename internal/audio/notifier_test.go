package audio

import (
	"errors"
	"io"
	"log/slog"
	"math"
	"testing"
	"time"

	"github.com/faiface/beep"

	"clockwork/internal/core/model"
)

type captureOutput struct {
	played []beep.Streamer
	err    error
	panic  bool
}

func (output *captureOutput) Play(streamer beep.Streamer) error {
	if output.panic {
		panic("device vanished")
	}
	if output.err != nil {
		return output.err
	}
	output.played = append(output.played, streamer)
	return nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// drain reads a streamer to the end and returns its length and peak.
func drain(streamer beep.Streamer) (int, float64) {
	buffer := make([][2]float64, 512)
	total := 0
	peak := 0.0
	for {
		n, ok := streamer.Stream(buffer)
		for _, sample := range buffer[:n] {
			peak = math.Max(peak, math.Abs(sample[0]))
		}
		total += n
		if !ok || n == 0 {
			return total, peak
		}
	}
}

func TestTickShape(t *testing.T) {
	output := &captureOutput{}
	notifier := NewNotifier(output, quietLogger())
	notifier.PlayTick(model.ProfileClassic, 750, 0.05)
	if len(output.played) != 1 {
		t.Fatalf("expected one tick, got %d", len(output.played))
	}
	length, peak := drain(output.played[0])
	if length != SampleRate.N(70*time.Millisecond) {
		t.Fatalf("expected 70ms of samples, got %d", length)
	}
	if peak > 0.05+1e-9 || peak < 0.04 {
		t.Fatalf("expected peak near 0.05, got %v", peak)
	}
}

func TestTickPeakIsCapped(t *testing.T) {
	output := &captureOutput{}
	NewNotifier(output, quietLogger()).PlayTick(model.ProfileVintage, 1000, 1)
	_, peak := drain(output.played[0])
	if peak > tickMaxGain+1e-9 {
		t.Fatalf("tick peak %v exceeds cap", peak)
	}
}

func TestSilentCases(t *testing.T) {
	output := &captureOutput{}
	notifier := NewNotifier(output, quietLogger())
	notifier.PlayTick(model.ProfileNone, 750, 0.5)
	notifier.PlayTick(model.ProfileSoft, 750, 0)
	notifier.SetEnabled(false)
	notifier.PlayTick(model.ProfileClassic, 750, 0.5)
	notifier.PlayEndChime()
	if len(output.played) != 0 {
		t.Fatalf("expected silence, got %d cues", len(output.played))
	}

	notifier.PlayPreview(750, 0.5)
	if len(output.played) != 1 {
		t.Fatalf("preview plays even when cues are disabled")
	}
}

func TestEndChimeLength(t *testing.T) {
	output := &captureOutput{}
	NewNotifier(output, quietLogger()).PlayEndChime()
	length, peak := drain(output.played[0])
	if length != SampleRate.N(540*time.Millisecond) {
		t.Fatalf("expected 540ms chime, got %d samples", length)
	}
	if peak <= 0 || peak > 3*chimePeak {
		t.Fatalf("unexpected chime peak %v", peak)
	}
}

func TestPreviewFadesFromVolume(t *testing.T) {
	output := &captureOutput{}
	NewNotifier(output, quietLogger()).PlayPreview(440, 0.4)
	length, peak := drain(output.played[0])
	if length != SampleRate.N(180*time.Millisecond) {
		t.Fatalf("expected 180ms preview, got %d samples", length)
	}
	if peak > 0.4+1e-9 || peak < 0.3 {
		t.Fatalf("expected peak near 0.4, got %v", peak)
	}
}

func TestFailuresAreSwallowed(t *testing.T) {
	NewNotifier(&captureOutput{err: errors.New("no device")}, quietLogger()).PlayEndChime()
	NewNotifier(&captureOutput{panic: true}, quietLogger()).PlayTick(model.ProfileClassic, 750, 0.1)
}

func TestEnvelopes(t *testing.T) {
	tick := tickEnvelope(0.2)
	if tick(0) != 0 || math.Abs(tick(tickAttack)-0.2) > 1e-9 || tick(65*time.Millisecond) != tickFloor {
		t.Fatalf("unexpected tick envelope")
	}
	if chimeEnvelope(0) != 0 || math.Abs(chimeEnvelope(chimeAttack)-chimePeak) > 1e-9 || chimeEnvelope(chimeToneLength) != 0 {
		t.Fatalf("unexpected chime envelope")
	}
	fade := previewEnvelope(0.5)
	if fade(0) != 1 || math.Abs(fade(previewLength)*0.5-previewFloor) > 1e-9 {
		t.Fatalf("unexpected preview envelope")
	}
}
