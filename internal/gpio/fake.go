package gpio

// FakeMotor is a test double that counts pulses.
type FakeMotor struct {
	// Pulses counts successful Pulse calls.
	Pulses int

	// PulseError, if set, will be returned by Pulse().
	PulseError error

	// Closed tracks if Close was called
	Closed bool
}

// NewFakeMotor creates a FakeMotor.
func NewFakeMotor() *FakeMotor {
	return &FakeMotor{}
}

// Pulse counts a pulse unless PulseError is set.
func (f *FakeMotor) Pulse() error {
	if f.PulseError != nil {
		return f.PulseError
	}
	f.Pulses++
	return nil
}

// Close marks the motor as closed.
func (f *FakeMotor) Close() error {
	f.Closed = true
	return nil
}

// Reset clears the counters.
func (f *FakeMotor) Reset() {
	f.Pulses = 0
	f.Closed = false
	f.PulseError = nil
}
