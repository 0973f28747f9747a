package audio

import (
	"math"
	"time"

	"github.com/faiface/beep"
)

// SampleRate is the rate every cue is synthesized at.
const SampleRate beep.SampleRate = 44100

const (
	tickAttack   = 5 * time.Millisecond
	tickDecayEnd = 60 * time.Millisecond
	tickLength   = 70 * time.Millisecond
	tickMaxGain  = 0.25
	tickFloor    = 0.0001

	chimeToneLength = 180 * time.Millisecond
	chimeStagger    = 180 * time.Millisecond
	chimeAttack     = 20 * time.Millisecond
	chimePeak       = 0.12

	previewLength = 180 * time.Millisecond
	previewFloor  = 0.001
)

var chimeFrequencies = []float64{800, 1000, 1200}

// waveform maps a phase in [0, 1) to an amplitude in [-1, 1].
type waveform func(phase float64) float64

func square(phase float64) float64 {
	if phase < 0.5 {
		return 1
	}
	return -1
}

func sawtooth(phase float64) float64 {
	return 2*phase - 1
}

func sine(phase float64) float64 {
	return math.Sin(2 * math.Pi * phase)
}

// envelope returns the gain at offset t from the start of a tone.
type envelope func(t time.Duration) float64

func tickEnvelope(volume float64) envelope {
	peak := math.Min(tickMaxGain, volume)
	return func(t time.Duration) float64 {
		switch {
		case t < tickAttack:
			return peak * float64(t) / float64(tickAttack)
		case t < tickDecayEnd:
			progress := float64(t-tickAttack) / float64(tickDecayEnd-tickAttack)
			return peak + (tickFloor-peak)*progress
		default:
			return tickFloor
		}
	}
}

func chimeEnvelope(t time.Duration) float64 {
	switch {
	case t < chimeAttack:
		return chimePeak * float64(t) / float64(chimeAttack)
	case t < chimeToneLength:
		return chimePeak * (1 - float64(t-chimeAttack)/float64(chimeToneLength-chimeAttack))
	default:
		return 0
	}
}

// previewEnvelope fades from 1 to previewFloor/volume, so that scaled by
// volume the tone decays from volume to previewFloor.
func previewEnvelope(volume float64) envelope {
	return func(t time.Duration) float64 {
		if volume <= previewFloor {
			return 1
		}
		return math.Pow(previewFloor/volume, float64(t)/float64(previewLength))
	}
}

// tone streams length worth of a shaped oscillator, then drains.
func tone(wave waveform, frequency float64, length time.Duration, shape envelope) beep.Streamer {
	total := SampleRate.N(length)
	position := 0
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		if position >= total {
			return 0, false
		}
		n := 0
		for n < len(samples) && position < total {
			phase := math.Mod(frequency*float64(position)/float64(SampleRate), 1)
			value := wave(phase) * shape(SampleRate.D(position))
			samples[n][0], samples[n][1] = value, value
			n++
			position++
		}
		return n, true
	})
}

func endChime() beep.Streamer {
	voices := make([]beep.Streamer, 0, len(chimeFrequencies))
	for i, frequency := range chimeFrequencies {
		voice := tone(sine, frequency, chimeToneLength, chimeEnvelope)
		if i > 0 {
			voice = beep.Seq(beep.Silence(SampleRate.N(time.Duration(i)*chimeStagger)), voice)
		}
		voices = append(voices, voice)
	}
	length := time.Duration(len(chimeFrequencies)-1)*chimeStagger + chimeToneLength
	return beep.Take(SampleRate.N(length), beep.Mix(voices...))
}
