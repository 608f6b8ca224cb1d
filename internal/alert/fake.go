package alert

import "github.com/sweeney/blink-sensor/internal/logic"

// FakeDisplay records every appearance shown.
type FakeDisplay struct {
	Shown []logic.Appearance
}

// Show records a.
func (f *FakeDisplay) Show(a logic.Appearance) {
	f.Shown = append(f.Shown, a)
}

// Last returns the most recent appearance, or the zero value.
func (f *FakeDisplay) Last() logic.Appearance {
	if len(f.Shown) == 0 {
		return logic.Appearance{}
	}
	return f.Shown[len(f.Shown)-1]
}
