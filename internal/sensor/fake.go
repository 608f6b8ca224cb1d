package sensor

import (
	"sync"

	"github.com/sweeney/blink-sensor/internal/logic"
)

// FakeLink is a test double. Its signal channel is unbuffered, so Send
// returns only once the owner has received the signal.
type FakeLink struct {
	signals chan logic.Signal

	mu       sync.Mutex
	requests int
	closed   bool
}

// NewFakeLink creates a FakeLink.
func NewFakeLink() *FakeLink {
	return &FakeLink{signals: make(chan logic.Signal)}
}

// Signals implements Link.
func (f *FakeLink) Signals() <-chan logic.Signal {
	return f.signals
}

// Send delivers sig to the owner.
func (f *FakeLink) Send(sig logic.Signal) {
	f.signals <- sig
}

// RequestConnect counts the request.
func (f *FakeLink) RequestConnect() {
	f.mu.Lock()
	f.requests++
	f.mu.Unlock()
}

// Requests returns how many times RequestConnect was called.
func (f *FakeLink) Requests() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests
}

// Close marks the link closed.
func (f *FakeLink) Close() error {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()
	return nil
}

// Closed reports whether Close was called.
func (f *FakeLink) Closed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}
