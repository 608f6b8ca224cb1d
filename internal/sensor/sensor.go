// Package sensor connects to the headband. Events are delivered on a channel
// so they can be handled by a single owner goroutine.
package sensor

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sweeney/blink-sensor/internal/logic"
)

// Bridge topics. The headband bridge publishes status and blinks and listens
// for commands.
const (
	TopicStatus  = "health/blink/headband/status"
	TopicBlink   = "health/blink/headband/blink"
	TopicCommand = "health/blink/headband/command"
)

// Link is the headband event source.
type Link interface {
	// Signals delivers connected, disconnected and blink events.
	Signals() <-chan logic.Signal

	// RequestConnect asks the headband to (re)pair. Fire-and-forget.
	RequestConnect()

	// Close stops delivery and releases resources.
	Close() error
}

var errUnknownState = errors.New("unknown headband state")

// StatusPayload is published by the bridge on TopicStatus.
type StatusPayload struct {
	Headband struct {
		State string `json:"state"`
	} `json:"headband"`
}

// BlinkPayload is published by the bridge on TopicBlink. The body may be empty.
type BlinkPayload struct {
	Blink struct {
		Timestamp string `json:"timestamp"`
	} `json:"blink"`
}

// CommandPayload is sent on TopicCommand.
type CommandPayload struct {
	Command string `json:"command"`
}

// ParseStatus converts a status message into a connected/disconnected signal.
// Both the JSON envelope and a bare "CONNECTED"/"DISCONNECTED" are accepted.
func ParseStatus(payload []byte, now time.Time) (logic.Signal, error) {
	state := strings.TrimSpace(string(payload))
	if bytes.HasPrefix(bytes.TrimSpace(payload), []byte("{")) {
		var p StatusPayload
		if err := json.Unmarshal(payload, &p); err != nil {
			return logic.Signal{}, fmt.Errorf("decode status: %w", err)
		}
		state = p.Headband.State
	}

	switch strings.ToUpper(state) {
	case string(logic.StateConnected):
		return logic.Signal{Kind: logic.SignalConnected, Time: now}, nil
	case string(logic.StateDisconnected):
		return logic.Signal{Kind: logic.SignalDisconnected, Time: now}, nil
	default:
		return logic.Signal{}, fmt.Errorf("%w: %q", errUnknownState, state)
	}
}

// ParseBlink converts a blink message into a blink signal. The bridge's
// timestamp is carried when present and parseable, otherwise now. It is
// informational; the monitor records the blink when it handles it.
func ParseBlink(payload []byte, now time.Time) logic.Signal {
	sig := logic.Signal{Kind: logic.SignalBlink, Time: now}

	var p BlinkPayload
	if err := json.Unmarshal(payload, &p); err != nil || p.Blink.Timestamp == "" {
		return sig
	}
	if ts, err := time.Parse(time.RFC3339Nano, p.Blink.Timestamp); err == nil {
		sig.Time = ts
	}
	return sig
}

// FormatCommand creates the JSON payload for a bridge command.
func FormatCommand(command string) []byte {
	data, _ := json.Marshal(CommandPayload{Command: command})
	return data
}
