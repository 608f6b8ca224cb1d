// Package alert renders the blink alert state: colors and status text for every
// attached display, plus one haptic pulse and one tone per overflow tick.
package alert

import (
	"context"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/sweeney/blink-sensor/internal/logger"
	"github.com/sweeney/blink-sensor/internal/logic"
)

// Status texts.
const (
	StatusAlert        = "BLINK"
	StatusDisconnected = "Disconnected from headband"
)

// Fixed colors.
var (
	Baseline = colorful.Color{R: 0, G: 0, B: 0} // ramp start, connected idle
	AlertHue = colorful.Color{R: 1, G: 0, B: 0} // ramp end, flash
	Contrast = colorful.Color{R: 1, G: 1, B: 1} // flash counterpart, banner text
)

// Display shows an appearance. Called from the owner goroutine; must not block.
type Display interface {
	Show(a logic.Appearance)
}

// Haptic produces one vibration pulse per call.
type Haptic interface {
	Pulse() error
}

// Tone plays one alert tone per call.
type Tone interface {
	Play() error
}

// Presenter implements logic.Presenter.
type Presenter struct {
	ctx      context.Context
	haptic   Haptic
	tone     Tone
	displays []Display

	polarity   bool
	current    logic.Appearance
	hapticDown bool
	toneDown   bool
}

// New creates a presenter. haptic and tone may be nil.
func New(ctx context.Context, haptic Haptic, tone Tone, displays ...Display) *Presenter {
	return &Presenter{
		ctx:      logger.WithName(ctx, "alert"),
		haptic:   haptic,
		tone:     tone,
		displays: displays,
		current: logic.Appearance{
			Background: Baseline.Hex(),
			Foreground: Contrast.Hex(),
		},
	}
}

// ShowRamp interpolates the background from Baseline to AlertHue and clears the status.
func (p *Presenter) ShowRamp(intensity float64) {
	if intensity < 0 {
		intensity = 0
	} else if intensity > 1 {
		intensity = 1
	}
	p.render(logic.Appearance{
		Background: Baseline.BlendRgb(AlertHue, intensity).Clamped().Hex(),
		Foreground: p.current.Foreground,
	})
}

// FireAlert flips the polarity, flashes the alternate color pair and sets off
// one haptic pulse and one tone.
func (p *Presenter) FireAlert() {
	p.polarity = !p.polarity

	bg, fg := Contrast, AlertHue
	if p.polarity {
		bg, fg = AlertHue, Contrast
	}
	p.render(logic.Appearance{
		Background: bg.Hex(),
		Foreground: fg.Hex(),
		Status:     StatusAlert,
	})

	if p.haptic != nil {
		p.hapticDown = p.report(p.haptic.Pulse(), p.hapticDown, "haptic")
	}
	if p.tone != nil {
		p.toneDown = p.report(p.tone.Play(), p.toneDown, "tone")
	}
}

// ShowDisconnected shows the disconnection banner.
func (p *Presenter) ShowDisconnected() {
	p.render(logic.Appearance{
		Background: AlertHue.Hex(),
		Foreground: Contrast.Hex(),
		Status:     StatusDisconnected,
	})
}

// ShowConnectedIdle clears the status and returns to the baseline background.
func (p *Presenter) ShowConnectedIdle() {
	p.render(logic.Appearance{
		Background: Baseline.Hex(),
		Foreground: p.current.Foreground,
	})
}

// Polarity reports which color pair the last alert used (true = red background).
func (p *Presenter) Polarity() bool {
	return p.polarity
}

// Appearance returns what is currently shown.
func (p *Presenter) Appearance() logic.Appearance {
	return p.current
}

func (p *Presenter) render(a logic.Appearance) {
	if a == p.current {
		return
	}
	p.current = a
	for _, d := range p.displays {
		d.Show(a)
	}
}

// report logs the first failure of a device and its recovery, not every tick.
func (p *Presenter) report(err error, down bool, device string) bool {
	switch {
	case err != nil && !down:
		logger.WarnKV(p.ctx, "alert device failed", "device", device, "error", err)
		return true
	case err == nil && down:
		logger.InfoKV(p.ctx, "alert device recovered", "device", device)
		return false
	}
	return down
}
