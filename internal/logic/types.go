// Package logic contains the pure blink-timeout state machine.
// This package has NO external dependencies (no MQTT, GPIO, audio, OS, or time.Sleep).
// Time is always injectable via time.Time parameters; periodic ticks come from an
// injected Ticker.
package logic

import "time"

const (
	// AlertThreshold is the longest tolerated gap between blinks.
	AlertThreshold = 10 * time.Second
	// TickCadence is the scheduler period while connected.
	TickCadence = 100 * time.Millisecond
)

// ConnectionState is the headband link state.
type ConnectionState string

const (
	StateDisconnected ConnectionState = "DISCONNECTED"
	StateConnected    ConnectionState = "CONNECTED"
)

// SignalKind identifies an event delivered by the sensor link.
type SignalKind string

const (
	SignalConnected    SignalKind = "connected"
	SignalDisconnected SignalKind = "disconnected"
	SignalBlink        SignalKind = "blink"
)

// Signal is a single sensor link event. Time is the source's stamp, kept for
// logging only; the Monitor acts on the time it handles the signal.
type Signal struct {
	Kind SignalKind
	Time time.Time
}

// EventType represents a state change to be published.
type EventType string

const (
	EventConnected     EventType = "CONNECTED"
	EventDisconnected  EventType = "DISCONNECTED"
	EventOverflowStart EventType = "OVERFLOW_START"
	EventOverflowEnd   EventType = "OVERFLOW_END"
	EventForeground    EventType = "FOREGROUND"
)

// Event represents a state change to be published.
type Event struct {
	Timestamp time.Time
	Type      EventType
	State     ConnectionState
	Elapsed   time.Duration // time since last blink as of the last tick
}

// Phase classifies a scheduler tick.
type Phase string

const (
	PhaseIdle     Phase = "IDLE"     // no tick has run since connecting
	PhaseInit     Phase = "INIT"     // blink clock was lazily initialized
	PhaseRamp     Phase = "RAMP"     // elapsed <= AlertThreshold
	PhaseOverflow Phase = "OVERFLOW" // elapsed > AlertThreshold
)

// TickResult describes what one scheduler tick did.
type TickResult struct {
	Phase     Phase
	Elapsed   time.Duration
	Intensity float64
}

// Counts tracks occurrences since startup.
type Counts struct {
	Blinks      int
	Alerts      int
	Connects    int
	Disconnects int
	Foregrounds int
}

// HeartbeatData contains information for a heartbeat event.
type HeartbeatData struct {
	Timestamp time.Time
	Uptime    time.Duration
	Counts    Counts
}

// Appearance is what the presenter currently shows: hex colors plus status text.
type Appearance struct {
	Background string
	Foreground string
	Status     string
}

// View is a read-only summary of the monitor for status reporting.
type View struct {
	State       ConnectionState
	Phase       Phase
	Elapsed     time.Duration
	Intensity   float64
	Overflowing bool
	LastBlink   time.Time // zero when unset
	Counts      Counts
}

// Presenter renders the alert state. Implementations must not block.
type Presenter interface {
	ShowRamp(intensity float64)
	FireAlert()
	ShowDisconnected()
	ShowConnectedIdle()
}

// Connector asks the sensor link to (re)initiate pairing. Fire-and-forget:
// the outcome arrives later as a connected or disconnected Signal.
type Connector interface {
	RequestConnect()
}

// Ticker delivers periodic ticks until stopped.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// TickerFunc creates a running Ticker with the given period.
type TickerFunc func(d time.Duration) Ticker
