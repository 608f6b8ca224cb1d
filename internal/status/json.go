package status

import (
	"encoding/json"
	"math"
	"time"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Event         string         `json:"event,omitempty"`
	Reason        string         `json:"reason,omitempty"`
	State         string         `json:"state"`
	Phase         string         `json:"phase"`
	Alerting      bool           `json:"alerting"`
	ElapsedMs     int64          `json:"elapsed_ms"`
	Intensity     float64        `json:"intensity"`
	LastBlink     string         `json:"last_blink,omitempty"`
	Appearance    AppearanceJSON `json:"appearance"`
	UptimeSeconds int64          `json:"uptime_seconds"`
	StartTime     string         `json:"start_time"`
	Timestamp     string         `json:"timestamp"`
	MQTT          MQTTStatus     `json:"mqtt"`
	Counts        CountsJSON     `json:"event_counts"`
	Network       *NetworkJSON   `json:"network,omitempty"`
	Config        ConfigJSON     `json:"config"`
}

// AppearanceJSON mirrors what the alert displays are showing.
type AppearanceJSON struct {
	Background string `json:"background"`
	Foreground string `json:"foreground"`
	Status     string `json:"status"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// CountsJSON is the JSON representation of event counts.
type CountsJSON struct {
	Blinks      int `json:"blinks"`
	Alerts      int `json:"alerts"`
	Connects    int `json:"connects"`
	Disconnects int `json:"disconnects"`
	Foregrounds int `json:"foregrounds"`
}

// NetworkJSON is the JSON representation of network info.
type NetworkJSON struct {
	Type       string `json:"type"`
	IP         string `json:"ip"`
	Status     string `json:"status"`
	Gateway    string `json:"gateway"`
	WifiStatus string `json:"wifi_status"`
	SSID       string `json:"ssid"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	TickMs      int64  `json:"tick_ms"`
	ThresholdMs int64  `json:"threshold_ms"`
	HeartbeatMs int64  `json:"heartbeat_ms"`
	Broker      string `json:"broker"`
	HTTPAddr    string `json:"http_addr"`
	WSBroker    string `json:"ws_broker,omitempty"`
}

func buildInner(snap Snapshot) StatusInner {
	state := string(snap.View.State)
	if state == "" {
		state = "UNKNOWN"
	}
	phase := string(snap.View.Phase)
	if phase == "" {
		phase = "IDLE"
	}

	inner := StatusInner{
		State:     state,
		Phase:     phase,
		Alerting:  snap.Alerting(),
		ElapsedMs: snap.View.Elapsed.Milliseconds(),
		// Rounded to two decimals.
		Intensity: math.Round(snap.View.Intensity*100) / 100,
		Appearance: AppearanceJSON{
			Background: snap.Appearance.Background,
			Foreground: snap.Appearance.Foreground,
			Status:     snap.Appearance.Status,
		},
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		MQTT:          MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker},
		Counts: CountsJSON{
			Blinks:      snap.View.Counts.Blinks,
			Alerts:      snap.View.Counts.Alerts,
			Connects:    snap.View.Counts.Connects,
			Disconnects: snap.View.Counts.Disconnects,
			Foregrounds: snap.View.Counts.Foregrounds,
		},
		Config: ConfigJSON{
			TickMs:      snap.Config.TickMs,
			ThresholdMs: snap.Config.ThresholdMs,
			HeartbeatMs: snap.Config.HeartbeatMs,
			Broker:      snap.Config.Broker,
			HTTPAddr:    snap.Config.HTTPAddr,
			WSBroker:    snap.Config.WSBroker,
		},
	}
	if !snap.View.LastBlink.IsZero() {
		inner.LastBlink = snap.View.LastBlink.UTC().Format(time.RFC3339Nano)
	}
	return inner
}

func buildNetwork(snap Snapshot, inner *StatusInner) {
	if snap.Network != nil {
		inner.Network = &NetworkJSON{
			Type:       snap.Network.Type,
			IP:         snap.Network.IP,
			Status:     snap.Network.Status,
			Gateway:    snap.Network.Gateway,
			WifiStatus: snap.Network.WifiStatus,
			SSID:       snap.Network.SSID,
		}
	}
}

// FormatJSON returns the JSON status for the web endpoint (no event/reason).
func FormatJSON(snap Snapshot) []byte {
	inner := buildInner(snap)
	buildNetwork(snap, &inner)

	data, _ := json.MarshalIndent(StatusJSON{Status: inner}, "", "  ")
	return data
}

// FormatStatusEvent returns the JSON status for an MQTT system event.
func FormatStatusEvent(snap Snapshot, event, reason string) []byte {
	inner := buildInner(snap)
	inner.Event = event
	inner.Reason = reason
	buildNetwork(snap, &inner)

	data, _ := json.Marshal(StatusJSON{Status: inner})
	return data
}
