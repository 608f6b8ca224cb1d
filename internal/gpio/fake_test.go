package gpio

import (
	"errors"
	"testing"
)

func TestFakeMotorPulse(t *testing.T) {
	f := NewFakeMotor()

	for i := 0; i < 3; i++ {
		if err := f.Pulse(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if f.Pulses != 3 {
		t.Errorf("expected 3 pulses, got %d", f.Pulses)
	}
}

func TestFakeMotorError(t *testing.T) {
	f := NewFakeMotor()
	f.PulseError = errors.New("simulated error")

	err := f.Pulse()
	if err == nil {
		t.Fatal("expected error to be returned")
	}
	if err.Error() != "simulated error" {
		t.Errorf("unexpected error: %v", err)
	}
	if f.Pulses != 0 {
		t.Errorf("failed pulse should not be counted, got %d", f.Pulses)
	}
}

func TestFakeMotorClose(t *testing.T) {
	f := NewFakeMotor()

	if f.Closed {
		t.Error("should not be closed initially")
	}
	if err := f.Close(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if !f.Closed {
		t.Error("should be closed after Close()")
	}
}

func TestFakeMotorReset(t *testing.T) {
	f := NewFakeMotor()
	f.Pulse()
	f.Close()
	f.PulseError = errors.New("x")

	f.Reset()

	if f.Pulses != 0 || f.Closed || f.PulseError != nil {
		t.Errorf("reset did not clear state: %+v", f)
	}
}

func TestNopMotor(t *testing.T) {
	var m Motor = NopMotor{}
	if err := m.Pulse(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := m.Close(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestMotorInterfaces(t *testing.T) {
	var _ Motor = (*FakeMotor)(nil)
	var _ Motor = (*RealMotor)(nil)
}
