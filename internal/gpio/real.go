//go:build linux

package gpio

import (
	"fmt"
	"sync"
	"time"

	"github.com/warthog618/go-gpiocdev"
)

// RealMotor drives a motor driver input from a GPIO output line.
type RealMotor struct {
	chip  *gpiocdev.Chip
	line  *gpiocdev.Line
	pulse time.Duration

	mu    sync.Mutex
	timer *time.Timer
}

// NewRealMotor requests pin on chip as an output, initially low.
func NewRealMotor(chipName string, pin int, pulse time.Duration) (*RealMotor, error) {
	if pulse <= 0 {
		pulse = DefaultPulse
	}

	chip, err := gpiocdev.NewChip(chipName)
	if err != nil {
		return nil, fmt.Errorf("open gpio chip %s: %w", chipName, err)
	}

	line, err := chip.RequestLine(pin, gpiocdev.AsOutput(0))
	if err != nil {
		chip.Close()
		return nil, fmt.Errorf("request haptic pin %d: %w", pin, err)
	}

	return &RealMotor{
		chip:  chip,
		line:  line,
		pulse: pulse,
	}, nil
}

// Pulse drives the line high and schedules it low after the pulse length.
func (m *RealMotor) Pulse() error {
	if err := m.line.SetValue(1); err != nil {
		return fmt.Errorf("set haptic pin: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.timer == nil {
		m.timer = time.AfterFunc(m.pulse, m.release)
	} else {
		m.timer.Reset(m.pulse)
	}
	return nil
}

func (m *RealMotor) release() {
	// Nothing to report to; the next Pulse surfaces a broken line.
	_ = m.line.SetValue(0)
}

// Close switches the motor off, returns the pin to an input with pull-down
// (matching Pi boot defaults) and releases the chip.
func (m *RealMotor) Close() error {
	m.mu.Lock()
	if m.timer != nil {
		m.timer.Stop()
	}
	m.mu.Unlock()

	var errs []error
	if m.line != nil {
		if err := m.line.SetValue(0); err != nil {
			errs = append(errs, fmt.Errorf("release haptic pin: %w", err))
		}
		if err := m.line.Reconfigure(gpiocdev.AsInput, gpiocdev.WithPullDown); err != nil {
			errs = append(errs, fmt.Errorf("reconfigure haptic pin: %w", err))
		}
		if err := m.line.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close haptic pin: %w", err))
		}
	}
	if m.chip != nil {
		if err := m.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
