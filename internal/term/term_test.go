package term

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/sweeney/blink-sensor/internal/logic"
)

func TestShowRedrawsInPlace(t *testing.T) {
	var buf bytes.Buffer
	d := New(&buf, 30)

	d.Show(logic.Appearance{Background: "#ff0000", Foreground: "#ffffff", Status: "BLINK"})
	d.Show(logic.Appearance{Background: "#000000", Foreground: "#ffffff"})

	out := buf.String()
	if n := strings.Count(out, "\r"); n != 2 {
		t.Errorf("expected 2 carriage returns, got %d", n)
	}
	if strings.Contains(out, "\n") {
		t.Error("redraw must not emit a newline")
	}
	if !strings.Contains(out, "BLINK") || !strings.Contains(out, idleLabel) {
		t.Errorf("missing labels in %q", out)
	}
}

func TestRenderWidth(t *testing.T) {
	d := New(&bytes.Buffer{}, 24)

	line := d.Render(logic.Appearance{Status: "Disconnected from headband"})
	if !strings.Contains(line, "Disconnected") {
		t.Errorf("missing status in %q", line)
	}
	if w := lipgloss.Width(line); w < 24 {
		t.Errorf("width: got %d, want at least 24", w)
	}

	if w := lipgloss.Width(d.Render(logic.Appearance{Status: "BLINK"})); w != 24 {
		t.Errorf("short line width: got %d, want 24", w)
	}
}

func TestDefaultWidth(t *testing.T) {
	d := New(&bytes.Buffer{}, 0)
	if w := lipgloss.Width(d.Render(logic.Appearance{})); w != DefaultWidth {
		t.Errorf("width: got %d, want %d", w, DefaultWidth)
	}
}

func TestClose(t *testing.T) {
	var buf bytes.Buffer
	d := New(&buf, 10)
	if err := d.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if buf.String() != "\n" {
		t.Errorf("got %q, want newline", buf.String())
	}
}
