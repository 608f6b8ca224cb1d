// Package gpio drives the haptic motor with hardware abstraction.
// The real implementation uses Linux GPIO character device.
// The fake implementation allows testing without hardware.
package gpio

import "time"

// Motor pulses a vibration motor.
type Motor interface {
	// Pulse switches the motor on for the configured pulse length and returns
	// immediately. A pulse while one is running extends it.
	Pulse() error

	// Close switches the motor off and releases GPIO resources.
	Close() error
}

// Defaults (BCM numbering).
const (
	DefaultChip  = "gpiochip0"
	DefaultPin   = 18
	DefaultPulse = 60 * time.Millisecond
)

// NopMotor is used when no haptic hardware is available.
type NopMotor struct{}

func (NopMotor) Pulse() error { return nil }
func (NopMotor) Close() error { return nil }
