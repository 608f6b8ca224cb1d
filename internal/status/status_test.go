package status

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/sweeney/blink-sensor/internal/logic"
)

var start = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func TestNewTracker(t *testing.T) {
	cfg := Config{TickMs: 100, ThresholdMs: 10000, Broker: "tcp://localhost:1883", HTTPAddr: ":80"}
	tr := NewTracker(start, cfg)

	snap := tr.Snapshot()
	if !snap.StartTime.Equal(start) {
		t.Errorf("StartTime: got %v, want %v", snap.StartTime, start)
	}
	if snap.Config.TickMs != 100 {
		t.Errorf("Config.TickMs: got %d, want 100", snap.Config.TickMs)
	}
	if snap.Config.HTTPAddr != ":80" {
		t.Errorf("Config.HTTPAddr: got %q, want %q", snap.Config.HTTPAddr, ":80")
	}
	if snap.View.State != logic.StateDisconnected {
		t.Errorf("expected DISCONNECTED initially, got %q", snap.View.State)
	}
	if snap.MQTTConnected {
		t.Error("expected MQTTConnected=false initially")
	}
	if snap.Alerting() {
		t.Error("expected not alerting initially")
	}
}

func TestUpdateAndSnapshot(t *testing.T) {
	tr := NewTracker(time.Now(), Config{})

	tr.Update(logic.View{
		State:       logic.StateConnected,
		Phase:       logic.PhaseOverflow,
		Elapsed:     12 * time.Second,
		Intensity:   1,
		Overflowing: true,
		Counts:      logic.Counts{Blinks: 3, Alerts: 20},
	})

	snap := tr.Snapshot()
	if snap.View.State != logic.StateConnected {
		t.Errorf("State: got %q, want CONNECTED", snap.View.State)
	}
	if !snap.Alerting() {
		t.Error("expected Alerting=true")
	}
	if snap.View.Counts.Alerts != 20 {
		t.Errorf("Counts.Alerts: got %d, want 20", snap.View.Counts.Alerts)
	}
}

func TestAlertingRequiresConnection(t *testing.T) {
	snap := Snapshot{View: logic.View{State: logic.StateDisconnected, Overflowing: true}}
	if snap.Alerting() {
		t.Error("a disconnected monitor never alerts")
	}
}

func TestShowRecordsAppearance(t *testing.T) {
	tr := NewTracker(time.Now(), Config{})

	tr.Show(logic.Appearance{Background: "#ff0000", Foreground: "#ffffff", Status: "BLINK"})

	a := tr.Snapshot().Appearance
	if a.Background != "#ff0000" || a.Foreground != "#ffffff" || a.Status != "BLINK" {
		t.Errorf("unexpected appearance %+v", a)
	}
}

func TestSetMQTTConnected(t *testing.T) {
	tr := NewTracker(time.Now(), Config{})

	tr.SetMQTTConnected(true)
	if !tr.Snapshot().MQTTConnected {
		t.Error("expected MQTTConnected=true")
	}

	tr.SetMQTTConnected(false)
	if tr.Snapshot().MQTTConnected {
		t.Error("expected MQTTConnected=false")
	}
}

func TestSetNetwork(t *testing.T) {
	tr := NewTracker(time.Now(), Config{})

	if tr.Snapshot().Network != nil {
		t.Error("expected nil Network initially")
	}

	tr.SetNetwork(&NetworkInfo{Type: "wifi", IP: "192.168.1.42", Status: "connected"})

	snap := tr.Snapshot()
	if snap.Network == nil {
		t.Fatal("expected non-nil Network")
	}
	if snap.Network.IP != "192.168.1.42" {
		t.Errorf("Network.IP: got %q, want %q", snap.Network.IP, "192.168.1.42")
	}
}

func TestSnapshotUptime(t *testing.T) {
	snap := Snapshot{StartTime: start, Now: start.Add(15 * time.Minute)}

	if snap.Uptime() != 15*time.Minute {
		t.Errorf("Uptime: got %v, want 15m", snap.Uptime())
	}
}

func TestSnapshotNowIsSet(t *testing.T) {
	tr := NewTracker(start, Config{})

	before := time.Now()
	snap := tr.Snapshot()
	after := time.Now()

	if snap.Now.Before(before) || snap.Now.After(after) {
		t.Errorf("Now (%v) not between %v and %v", snap.Now, before, after)
	}
}

func TestSnapshotIsCopy(t *testing.T) {
	tr := NewTracker(time.Now(), Config{})
	tr.Update(logic.View{State: logic.StateConnected, Counts: logic.Counts{Blinks: 1}})

	snap1 := tr.Snapshot()

	tr.Update(logic.View{State: logic.StateDisconnected, Counts: logic.Counts{Blinks: 1, Disconnects: 1}})

	if snap1.View.State != logic.StateConnected {
		t.Error("snapshot should be a copy; State was modified")
	}
	if snap1.View.Counts.Disconnects != 0 {
		t.Error("snapshot should be a copy; Counts were modified")
	}
}

func TestFormatJSON(t *testing.T) {
	lastBlink := start.Add(14*time.Minute + 55*time.Second)
	snap := Snapshot{
		View: logic.View{
			State:     logic.StateConnected,
			Phase:     logic.PhaseRamp,
			Elapsed:   5 * time.Second,
			Intensity: 0.5,
			LastBlink: lastBlink,
			Counts:    logic.Counts{Blinks: 5, Connects: 2, Disconnects: 1},
		},
		Appearance:    logic.Appearance{Background: "#800000", Foreground: "#ffffff"},
		StartTime:     start,
		Now:           start.Add(15 * time.Minute),
		MQTTConnected: true,
		Config:        Config{TickMs: 100, ThresholdMs: 10000, HeartbeatMs: 900000, Broker: "tcp://localhost:1883", HTTPAddr: ":80"},
	}

	data := FormatJSON(snap)

	var parsed StatusJSON
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if parsed.Status.State != "CONNECTED" {
		t.Errorf("State: got %q, want CONNECTED", parsed.Status.State)
	}
	if parsed.Status.Phase != "RAMP" {
		t.Errorf("Phase: got %q, want RAMP", parsed.Status.Phase)
	}
	if parsed.Status.Alerting {
		t.Error("expected Alerting=false while ramping")
	}
	if parsed.Status.ElapsedMs != 5000 {
		t.Errorf("ElapsedMs: got %d, want 5000", parsed.Status.ElapsedMs)
	}
	if parsed.Status.Intensity != 0.5 {
		t.Errorf("Intensity: got %v, want 0.5", parsed.Status.Intensity)
	}
	if parsed.Status.LastBlink != "2026-01-01T00:14:55Z" {
		t.Errorf("LastBlink: got %q", parsed.Status.LastBlink)
	}
	if parsed.Status.Appearance.Background != "#800000" {
		t.Errorf("Appearance.Background: got %q", parsed.Status.Appearance.Background)
	}
	if parsed.Status.UptimeSeconds != 900 {
		t.Errorf("UptimeSeconds: got %d, want 900", parsed.Status.UptimeSeconds)
	}
	if !parsed.Status.MQTT.Connected {
		t.Error("expected MQTT.Connected=true")
	}
	if parsed.Status.Counts.Blinks != 5 || parsed.Status.Counts.Connects != 2 {
		t.Errorf("Counts: got %+v", parsed.Status.Counts)
	}
	if parsed.Status.Config.ThresholdMs != 10000 {
		t.Errorf("Config.ThresholdMs: got %d, want 10000", parsed.Status.Config.ThresholdMs)
	}
	// Event and Reason should be omitted
	if parsed.Status.Event != "" {
		t.Errorf("expected empty Event for web format, got %q", parsed.Status.Event)
	}
	if parsed.Status.Reason != "" {
		t.Errorf("expected empty Reason for web format, got %q", parsed.Status.Reason)
	}
}

func TestFormatJSONIntensityRounded(t *testing.T) {
	snap := Snapshot{View: logic.View{State: logic.StateConnected, Intensity: 0.123456}}

	var parsed StatusJSON
	json.Unmarshal(FormatJSON(snap), &parsed)

	if parsed.Status.Intensity != 0.12 {
		t.Errorf("Intensity: got %v, want 0.12", parsed.Status.Intensity)
	}
}

func TestFormatJSONZeroSnapshot(t *testing.T) {
	snap := Snapshot{StartTime: start, Now: start.Add(time.Second)}

	var raw map[string]interface{}
	if err := json.Unmarshal(FormatJSON(snap), &raw); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	status := raw["status"].(map[string]interface{})

	if status["state"] != "UNKNOWN" {
		t.Errorf("state: got %v, want UNKNOWN", status["state"])
	}
	if status["phase"] != "IDLE" {
		t.Errorf("phase: got %v, want IDLE", status["phase"])
	}
	if _, exists := status["last_blink"]; exists {
		t.Error("last_blink should be omitted before the first blink")
	}
}

func TestFormatStatusEvent(t *testing.T) {
	snap := Snapshot{
		View: logic.View{
			State:       logic.StateConnected,
			Phase:       logic.PhaseOverflow,
			Overflowing: true,
			Counts:      logic.Counts{Alerts: 3},
		},
		StartTime:     start,
		Now:           start.Add(15 * time.Minute),
		MQTTConnected: true,
		Config:        Config{TickMs: 100, Broker: "tcp://localhost:1883"},
	}

	data := FormatStatusEvent(snap, "HEARTBEAT", "")

	var parsed StatusJSON
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if parsed.Status.Event != "HEARTBEAT" {
		t.Errorf("Event: got %q, want HEARTBEAT", parsed.Status.Event)
	}
	if parsed.Status.Reason != "" {
		t.Errorf("Reason: got %q, want empty", parsed.Status.Reason)
	}
	if !parsed.Status.Alerting {
		t.Error("expected Alerting=true")
	}
	if parsed.Status.Counts.Alerts != 3 {
		t.Errorf("Counts.Alerts: got %d, want 3", parsed.Status.Counts.Alerts)
	}
	if parsed.Status.UptimeSeconds != 900 {
		t.Errorf("UptimeSeconds: got %d, want 900", parsed.Status.UptimeSeconds)
	}
}

func TestFormatStatusEventShutdown(t *testing.T) {
	snap := Snapshot{
		StartTime: start,
		Now:       start.Add(30 * time.Minute),
		Config:    Config{Broker: "tcp://localhost:1883"},
	}

	data := FormatStatusEvent(snap, "SHUTDOWN", "SIGTERM")

	var parsed StatusJSON
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if parsed.Status.Event != "SHUTDOWN" {
		t.Errorf("Event: got %q, want SHUTDOWN", parsed.Status.Event)
	}
	if parsed.Status.Reason != "SIGTERM" {
		t.Errorf("Reason: got %q, want SIGTERM", parsed.Status.Reason)
	}
}

func TestFormatStatusEventOmitsReasonWhenEmpty(t *testing.T) {
	snap := Snapshot{StartTime: start, Now: start.Add(time.Second)}

	data := FormatStatusEvent(snap, "STARTUP", "")

	var raw map[string]interface{}
	json.Unmarshal(data, &raw)
	status := raw["status"].(map[string]interface{})
	if _, exists := status["reason"]; exists {
		t.Error("reason should be omitted when empty")
	}
	if status["event"] != "STARTUP" {
		t.Errorf("event: got %v, want STARTUP", status["event"])
	}
}

func TestFormatJSONWithNetwork(t *testing.T) {
	snap := Snapshot{
		StartTime: start,
		Now:       start.Add(time.Minute),
		Network:   &NetworkInfo{Type: "wifi", IP: "192.168.1.42", Status: "connected", SSID: "MyNet"},
		Config:    Config{Broker: "tcp://localhost:1883"},
	}

	var parsed StatusJSON
	json.Unmarshal(FormatJSON(snap), &parsed)

	if parsed.Status.Network == nil {
		t.Fatal("expected Network in JSON")
	}
	if parsed.Status.Network.IP != "192.168.1.42" {
		t.Errorf("Network.IP: got %q, want 192.168.1.42", parsed.Status.Network.IP)
	}
	if parsed.Status.Network.SSID != "MyNet" {
		t.Errorf("Network.SSID: got %q, want MyNet", parsed.Status.Network.SSID)
	}
}

func TestConcurrentAccess(t *testing.T) {
	tr := NewTracker(time.Now(), Config{})
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			tr.Update(logic.View{State: logic.StateConnected, Counts: logic.Counts{Alerts: i}})
			tr.Show(logic.Appearance{Status: "BLINK"})
			tr.SetMQTTConnected(i%2 == 0)
			tr.SetNetwork(&NetworkInfo{IP: "1.2.3.4"})
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			snap := tr.Snapshot()
			_ = snap.Uptime()
			_ = FormatJSON(snap)
		}
	}()

	wg.Wait()
}
