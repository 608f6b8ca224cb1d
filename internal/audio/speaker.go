package audio

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

var errClosed = errors.New("audio: player closed")

// SpeakerPlayer mixes tones into the default speaker.
type SpeakerPlayer struct {
	mu       sync.Mutex
	mixer    *beep.Mixer
	freq     float64
	duration time.Duration
	closed   bool
}

// NewSpeakerPlayer initializes the speaker. Only one may exist per process.
func NewSpeakerPlayer(freq float64, duration time.Duration) (*SpeakerPlayer, error) {
	if freq <= 0 {
		freq = DefaultFrequency
	}
	if duration <= 0 {
		duration = DefaultDuration
	}

	if err := speaker.Init(sampleRate, sampleRate.N(50*time.Millisecond)); err != nil {
		return nil, fmt.Errorf("init speaker: %w", err)
	}

	p := &SpeakerPlayer{
		mixer:    &beep.Mixer{},
		freq:     freq,
		duration: duration,
	}
	speaker.Play(p.mixer)
	return p, nil
}

// Play queues one tone and returns immediately. Overlapping tones are mixed.
func (p *SpeakerPlayer) Play() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return errClosed
	}

	speaker.Lock()
	p.mixer.Add(NewTone(p.freq, p.duration, sampleRate))
	speaker.Unlock()
	return nil
}

// Close silences the speaker.
func (p *SpeakerPlayer) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true

	speaker.Lock()
	p.mixer.Clear()
	speaker.Unlock()
	speaker.Clear()
	return nil
}
