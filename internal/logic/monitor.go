package logic

import "time"

// Monitor is the single owned aggregate of the blink reminder: blink clock,
// scheduler and connection tracker. It is not safe for concurrent use; one
// owner goroutine feeds it signals and ticks.
type Monitor struct {
	clock     *BlinkClock
	scheduler *Scheduler
	tracker   *ConnectionTracker

	startTime     time.Time
	lastHeartbeat time.Time
	counts        Counts
	last          TickResult
	overflowing   bool
}

// NewMonitor creates a disconnected monitor and presents the disconnected banner.
func NewMonitor(presenter Presenter, link Connector, newTicker TickerFunc, startTime time.Time) *Monitor {
	clock := &BlinkClock{}
	scheduler := NewScheduler(clock, presenter, newTicker)
	m := &Monitor{
		clock:         clock,
		scheduler:     scheduler,
		tracker:       NewConnectionTracker(clock, scheduler, presenter, link),
		startTime:     startTime,
		lastHeartbeat: startTime,
		last:          TickResult{Phase: PhaseIdle},
	}
	presenter.ShowDisconnected()
	return m
}

// HandleSignal applies a sensor link signal handled at now and returns any
// events to publish.
func (m *Monitor) HandleSignal(sig Signal, now time.Time) []Event {
	switch sig.Kind {
	case SignalConnected:
		events := m.endOverflow(now)
		m.tracker.OnConnect()
		m.counts.Connects++
		m.last = TickResult{Phase: PhaseIdle}
		return append(events, m.event(EventConnected, now))

	case SignalDisconnected:
		if m.tracker.State() != StateConnected {
			// Already down; repeat the presentation only.
			m.tracker.OnDisconnect()
			return nil
		}
		events := m.endOverflow(now)
		m.tracker.OnDisconnect()
		m.counts.Disconnects++
		return append(events, m.event(EventDisconnected, now))

	case SignalBlink:
		// The source's own stamp may be stale (retained, late or skewed).
		m.clock.RecordBlink(now)
		m.counts.Blinks++
	}
	return nil
}

// Tick runs one scheduler tick at now. Ticks arriving while disconnected are ignored.
func (m *Monitor) Tick(now time.Time) (TickResult, []Event) {
	if m.tracker.State() != StateConnected || !m.scheduler.Running() {
		return TickResult{Phase: PhaseIdle}, nil
	}

	res := m.scheduler.OnTick(now)
	m.last = res

	var events []Event
	switch res.Phase {
	case PhaseOverflow:
		m.counts.Alerts++
		if !m.overflowing {
			m.overflowing = true
			events = append(events, m.event(EventOverflowStart, now))
		}
	case PhaseRamp, PhaseInit:
		events = m.endOverflow(now)
	}
	return res, events
}

// Foreground handles the application regaining focus after a suspension.
func (m *Monitor) Foreground(now time.Time) []Event {
	events := m.endOverflow(now)
	m.tracker.OnForeground()
	m.counts.Foregrounds++
	m.last = TickResult{Phase: PhaseIdle}
	return append(events, m.event(EventForeground, now))
}

// Ticks returns the scheduler's tick channel; nil while stopped.
func (m *Monitor) Ticks() <-chan time.Time {
	return m.scheduler.Ticks()
}

// State returns the connection state.
func (m *Monitor) State() ConnectionState {
	return m.tracker.State()
}

// Counts returns a copy of the counters.
func (m *Monitor) Counts() Counts {
	return m.counts
}

// View summarizes the monitor for status reporting.
func (m *Monitor) View() View {
	last, _ := m.clock.LastBlink()
	return View{
		State:       m.tracker.State(),
		Phase:       m.last.Phase,
		Elapsed:     m.last.Elapsed,
		Intensity:   m.last.Intensity,
		Overflowing: m.overflowing,
		LastBlink:   last,
		Counts:      m.counts,
	}
}

// CheckHeartbeat returns heartbeat data if the interval has elapsed since the
// last heartbeat (or startup). Returns nil if the interval has not elapsed or
// is <= 0 (disabled).
func (m *Monitor) CheckHeartbeat(now time.Time, interval time.Duration) *HeartbeatData {
	if interval <= 0 {
		return nil
	}
	if now.Sub(m.lastHeartbeat) < interval {
		return nil
	}

	m.lastHeartbeat = now
	return &HeartbeatData{
		Timestamp: now,
		Uptime:    now.Sub(m.startTime),
		Counts:    m.counts,
	}
}

func (m *Monitor) endOverflow(now time.Time) []Event {
	if !m.overflowing {
		return nil
	}
	m.overflowing = false
	return []Event{m.event(EventOverflowEnd, now)}
}

func (m *Monitor) event(t EventType, now time.Time) Event {
	return Event{
		Timestamp: now,
		Type:      t,
		State:     m.tracker.State(),
		Elapsed:   m.last.Elapsed,
	}
}
