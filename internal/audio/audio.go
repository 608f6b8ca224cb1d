// Package audio plays the alert tone through the default output device.
package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
)

const (
	sampleRate = beep.SampleRate(44100)

	// DefaultFrequency approximates a low-battery chirp.
	DefaultFrequency = 1318.5
	DefaultDuration  = 120 * time.Millisecond

	attack  = 5 * time.Millisecond
	release = 30 * time.Millisecond
	volume  = 0.35
)

// Player plays one tone per call without blocking.
type Player interface {
	Play() error
	Close() error
}

// tone generates a sine wave with a linear attack/release envelope.
type tone struct {
	freq     float64
	rate     beep.SampleRate
	total    int
	attack   int
	release  int
	position int
}

// NewTone returns a finite streamer for one alert tone.
func NewTone(freq float64, duration time.Duration, rate beep.SampleRate) beep.Streamer {
	total := rate.N(duration)
	att := rate.N(attack)
	rel := rate.N(release)
	if att+rel > total {
		att, rel = total/2, total/2
	}
	return &tone{
		freq:    freq,
		rate:    rate,
		total:   total,
		attack:  att,
		release: rel,
	}
}

func (t *tone) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if t.position >= t.total {
			return i, i > 0
		}

		env := 1.0
		if t.position < t.attack {
			env = float64(t.position) / float64(t.attack)
		}
		if remaining := t.total - t.position; remaining < t.release {
			env = float64(remaining) / float64(t.release)
		}

		phase := 2 * math.Pi * t.freq * float64(t.position) / float64(t.rate)
		val := volume * env * math.Sin(phase)
		samples[i][0] = val
		samples[i][1] = val
		t.position++
	}
	return len(samples), true
}

func (t *tone) Err() error { return nil }

// NopPlayer is used when no audio device is available.
type NopPlayer struct{}

func (NopPlayer) Play() error  { return nil }
func (NopPlayer) Close() error { return nil }
