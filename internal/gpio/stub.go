//go:build !linux

package gpio

import (
	"errors"
	"time"
)

// RealMotor is not available on non-Linux platforms.
type RealMotor struct{}

// NewRealMotor returns an error on non-Linux platforms.
func NewRealMotor(chipName string, pin int, pulse time.Duration) (*RealMotor, error) {
	return nil, errors.New("gpio: not supported on this platform (requires Linux)")
}

// Pulse is not implemented on non-Linux platforms.
func (m *RealMotor) Pulse() error {
	return errors.New("gpio: not supported")
}

// Close is not implemented on non-Linux platforms.
func (m *RealMotor) Close() error {
	return nil
}
