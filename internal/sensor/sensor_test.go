package sensor

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/sweeney/blink-sensor/internal/logic"
)

var now = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func TestParseStatus(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    logic.SignalKind
	}{
		{"json connected", `{"headband":{"state":"CONNECTED"}}`, logic.SignalConnected},
		{"json disconnected", `{"headband":{"state":"DISCONNECTED"}}`, logic.SignalDisconnected},
		{"bare connected", "CONNECTED", logic.SignalConnected},
		{"bare lowercase", " disconnected\n", logic.SignalDisconnected},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sig, err := ParseStatus([]byte(tt.payload), now)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if sig.Kind != tt.want {
				t.Errorf("kind: got %s, want %s", sig.Kind, tt.want)
			}
			if !sig.Time.Equal(now) {
				t.Errorf("time: got %v, want %v", sig.Time, now)
			}
		})
	}
}

func TestParseStatusRejectsUnknown(t *testing.T) {
	for _, payload := range []string{"", "PAIRING", `{"headband":{}}`, `{"headband":`} {
		if _, err := ParseStatus([]byte(payload), now); err == nil {
			t.Errorf("payload %q: expected error", payload)
		}
	}
}

func TestParseBlink(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    time.Time
	}{
		{"empty body", "", now},
		{"bridge stamp", `{"blink":{"timestamp":"2026-03-01T08:59:59.5Z"}}`, now.Add(-500 * time.Millisecond)},
		{"bad stamp", `{"blink":{"timestamp":"yesterday"}}`, now},
		{"not json", "1", now},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sig := ParseBlink([]byte(tt.payload), now)
			if sig.Kind != logic.SignalBlink {
				t.Errorf("kind: got %s, want %s", sig.Kind, logic.SignalBlink)
			}
			if !sig.Time.Equal(tt.want) {
				t.Errorf("time: got %v, want %v", sig.Time, tt.want)
			}
		})
	}
}

func TestFormatCommand(t *testing.T) {
	var got CommandPayload
	if err := json.Unmarshal(FormatCommand("connect"), &got); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if got.Command != "connect" {
		t.Errorf("command: got %q, want %q", got.Command, "connect")
	}
	if string(FormatCommand("status")) != `{"command":"status"}` {
		t.Errorf("got %s", FormatCommand("status"))
	}
}

func TestFakeLink(t *testing.T) {
	f := NewFakeLink()

	go f.Send(logic.Signal{Kind: logic.SignalBlink, Time: now})
	if sig := <-f.Signals(); sig.Kind != logic.SignalBlink {
		t.Errorf("kind: got %s", sig.Kind)
	}

	f.RequestConnect()
	f.RequestConnect()
	if f.Requests() != 2 {
		t.Errorf("requests: got %d, want 2", f.Requests())
	}

	if err := f.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if !f.Closed() {
		t.Error("expected closed")
	}
}

func TestLinkInterfaces(t *testing.T) {
	var _ Link = (*FakeLink)(nil)
	var _ Link = (*MQTTLink)(nil)
	var _ logic.Connector = (*MQTTLink)(nil)
}
