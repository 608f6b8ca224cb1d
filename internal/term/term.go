// Package term renders the alert appearance as a single colored status line.
package term

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/sweeney/blink-sensor/internal/logic"
)

// DefaultWidth is the status line width in cells.
const DefaultWidth = 40

const idleLabel = "watching"

// Display redraws one line in place on w each time the appearance changes.
type Display struct {
	mu       sync.Mutex
	w        io.Writer
	renderer *lipgloss.Renderer
	width    int
}

// New creates a Display writing to w. The color profile is detected from w.
func New(w io.Writer, width int) *Display {
	if width <= 0 {
		width = DefaultWidth
	}
	return &Display{
		w:        w,
		renderer: lipgloss.NewRenderer(w),
		width:    width,
	}
}

// Show implements alert.Display.
func (d *Display) Show(a logic.Appearance) {
	d.mu.Lock()
	defer d.mu.Unlock()
	fmt.Fprint(d.w, "\r"+d.Render(a))
}

// Render returns the styled status line for a.
func (d *Display) Render(a logic.Appearance) string {
	label := a.Status
	if label == "" {
		label = idleLabel
	}

	style := d.renderer.NewStyle().
		Bold(true).
		Width(d.width).
		Align(lipgloss.Center)
	if a.Background != "" {
		style = style.Background(lipgloss.Color(a.Background))
	}
	if a.Foreground != "" {
		style = style.Foreground(lipgloss.Color(a.Foreground))
	}
	return style.Render(label)
}

// Close ends the status line so following output starts on a fresh line.
func (d *Display) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, err := fmt.Fprintln(d.w)
	return err
}
