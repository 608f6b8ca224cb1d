package logic

import "time"

// Scheduler runs the alert tick loop. It holds at most one Ticker; the owner
// selects on Ticks() and calls OnTick for each tick received.
type Scheduler struct {
	clock     *BlinkClock
	presenter Presenter
	newTicker TickerFunc
	ticker    Ticker
}

// NewScheduler creates a stopped scheduler.
func NewScheduler(clock *BlinkClock, presenter Presenter, newTicker TickerFunc) *Scheduler {
	return &Scheduler{
		clock:     clock,
		presenter: presenter,
		newTicker: newTicker,
	}
}

// Start cancels any running loop and starts a new one at TickCadence.
func (s *Scheduler) Start() {
	s.Stop()
	s.ticker = s.newTicker(TickCadence)
}

// Stop cancels the loop. Safe when not running.
func (s *Scheduler) Stop() {
	if s.ticker == nil {
		return
	}
	s.ticker.Stop()
	s.ticker = nil
}

// Running reports whether a loop is active.
func (s *Scheduler) Running() bool {
	return s.ticker != nil
}

// Ticks returns the active loop's channel, or nil when stopped.
// Receiving from nil blocks forever, so a stopped scheduler never ticks in a select.
func (s *Scheduler) Ticks() <-chan time.Time {
	if s.ticker == nil {
		return nil
	}
	return s.ticker.C()
}

// OnTick evaluates one tick at now and drives the presenter.
// Overflow fires the alert on every tick for as long as it lasts.
func (s *Scheduler) OnTick(now time.Time) TickResult {
	elapsed, initialized := s.clock.ElapsedSinceLastBlink(now)
	if initialized {
		return TickResult{Phase: PhaseInit}
	}

	intensity := Intensity(elapsed)
	if elapsed <= AlertThreshold {
		s.presenter.ShowRamp(intensity)
		return TickResult{Phase: PhaseRamp, Elapsed: elapsed, Intensity: intensity}
	}

	s.presenter.FireAlert()
	return TickResult{Phase: PhaseOverflow, Elapsed: elapsed, Intensity: intensity}
}
