package logic

// ConnectionTracker owns the connection state and drives the scheduler.
type ConnectionTracker struct {
	state     ConnectionState
	clock     *BlinkClock
	scheduler *Scheduler
	presenter Presenter
	link      Connector
}

// NewConnectionTracker creates a tracker in the disconnected state.
func NewConnectionTracker(clock *BlinkClock, scheduler *Scheduler, presenter Presenter, link Connector) *ConnectionTracker {
	return &ConnectionTracker{
		state:     StateDisconnected,
		clock:     clock,
		scheduler: scheduler,
		presenter: presenter,
		link:      link,
	}
}

// State returns the current connection state.
func (t *ConnectionTracker) State() ConnectionState {
	return t.state
}

// OnConnect restarts the tick loop with a cleared blink clock.
// The first tick afterwards initializes the clock instead of alerting.
func (t *ConnectionTracker) OnConnect() {
	t.state = StateConnected
	t.scheduler.Stop()
	t.clock.Reset()
	t.scheduler.Start()
	t.presenter.ShowConnectedIdle()
}

// OnDisconnect stops the tick loop. Idempotent.
func (t *ConnectionTracker) OnDisconnect() {
	t.state = StateDisconnected
	t.scheduler.Stop()
	t.presenter.ShowDisconnected()
}

// OnForeground forces a disconnect and asks the link to reconnect.
// Stale time accumulated while suspended must not raise an alert, and the
// clock is only reset by the next genuine OnConnect.
func (t *ConnectionTracker) OnForeground() {
	t.OnDisconnect()
	if t.link != nil {
		t.link.RequestConnect()
	}
}
