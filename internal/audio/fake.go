package audio

// FakePlayer counts plays for test assertions.
type FakePlayer struct {
	Plays     int
	PlayError error
	Closed    bool
}

// NewFakePlayer creates a FakePlayer.
func NewFakePlayer() *FakePlayer {
	return &FakePlayer{}
}

// Play counts a tone unless PlayError is set.
func (f *FakePlayer) Play() error {
	if f.PlayError != nil {
		return f.PlayError
	}
	f.Plays++
	return nil
}

// Close marks the player closed.
func (f *FakePlayer) Close() error {
	f.Closed = true
	return nil
}
