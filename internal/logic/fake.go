package logic

import "time"

// FakeTicker is a test double whose ticks are sent by the test.
type FakeTicker struct {
	ch      chan time.Time
	Period  time.Duration
	Stopped bool
}

// C returns the tick channel.
func (f *FakeTicker) C() <-chan time.Time {
	return f.ch
}

// Stop marks the ticker stopped.
func (f *FakeTicker) Stop() {
	f.Stopped = true
}

// FakeTickers records every ticker it creates. All tickers share one
// unbuffered channel, so a send on Tick blocks until the owner receives it.
type FakeTickers struct {
	ch      chan time.Time
	Created []*FakeTicker
}

// NewFakeTickers creates a factory with a shared unbuffered tick channel.
func NewFakeTickers() *FakeTickers {
	return &FakeTickers{ch: make(chan time.Time)}
}

// New implements TickerFunc.
func (f *FakeTickers) New(d time.Duration) Ticker {
	t := &FakeTicker{ch: f.ch, Period: d}
	f.Created = append(f.Created, t)
	return t
}

// Tick delivers one tick to whoever is receiving.
func (f *FakeTickers) Tick(t time.Time) {
	f.ch <- t
}

// Active returns the tickers that have not been stopped.
func (f *FakeTickers) Active() []*FakeTicker {
	var active []*FakeTicker
	for _, t := range f.Created {
		if !t.Stopped {
			active = append(active, t)
		}
	}
	return active
}

// PresenterCall names a Presenter method invocation.
type PresenterCall string

const (
	CallRamp          PresenterCall = "ramp"
	CallAlert         PresenterCall = "alert"
	CallDisconnected  PresenterCall = "disconnected"
	CallConnectedIdle PresenterCall = "connected_idle"
)

// RecordingPresenter records presenter calls for assertions.
type RecordingPresenter struct {
	Calls       []PresenterCall
	Intensities []float64
}

func (r *RecordingPresenter) ShowRamp(intensity float64) {
	r.Calls = append(r.Calls, CallRamp)
	r.Intensities = append(r.Intensities, intensity)
}

func (r *RecordingPresenter) FireAlert() {
	r.Calls = append(r.Calls, CallAlert)
}

func (r *RecordingPresenter) ShowDisconnected() {
	r.Calls = append(r.Calls, CallDisconnected)
}

func (r *RecordingPresenter) ShowConnectedIdle() {
	r.Calls = append(r.Calls, CallConnectedIdle)
}

// Count returns how many times call was recorded.
func (r *RecordingPresenter) Count(call PresenterCall) int {
	n := 0
	for _, c := range r.Calls {
		if c == call {
			n++
		}
	}
	return n
}

// Reset clears recorded calls.
func (r *RecordingPresenter) Reset() {
	r.Calls = nil
	r.Intensities = nil
}

// CountingConnector counts RequestConnect calls.
type CountingConnector struct {
	Requests int
}

func (c *CountingConnector) RequestConnect() {
	c.Requests++
}
