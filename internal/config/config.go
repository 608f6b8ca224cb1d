package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sweeney/blink-sensor/internal/audio"
	"github.com/sweeney/blink-sensor/internal/gpio"
	"github.com/sweeney/blink-sensor/internal/logger"
)

// Config holds the daemon settings.
type Config struct {
	// Broker is the MQTT broker URL shared by the headband bridge and event publishing.
	Broker string `yaml:"broker"`
	// ClientID prefixes the MQTT client IDs.
	ClientID string `yaml:"client_id"`
	// WSBroker is the websocket URL for the live status page.
	// "=broker" derives it from Broker, "off" disables it.
	WSBroker string `yaml:"ws_broker"`
	// HTTPAddr is the status page listen address. Empty disables the page.
	HTTPAddr string `yaml:"http_addr"`
	// Heartbeat is the interval between HEARTBEAT events. Zero disables them.
	Heartbeat time.Duration `yaml:"heartbeat"`
	Haptic    Haptic        `yaml:"haptic"`
	Tone      Tone          `yaml:"tone"`
	LogLevel  string        `yaml:"log_level"`
	// TUI renders the alert as a colored status line on the terminal.
	TUI bool `yaml:"tui"`
}

// Haptic configures the vibration motor.
type Haptic struct {
	Enabled bool          `yaml:"enabled"`
	Chip    string        `yaml:"chip"`
	Pin     int           `yaml:"pin"`
	Pulse   time.Duration `yaml:"pulse"`
}

// Tone configures the alert tone.
type Tone struct {
	Enabled     bool          `yaml:"enabled"`
	FrequencyHz float64       `yaml:"frequency_hz"`
	Duration    time.Duration `yaml:"duration"`
}

const (
	// DefaultConfigFilename is read when no --config is given. It may be absent.
	DefaultConfigFilename = "blink-sensor.yaml"

	DefaultBroker    = "tcp://192.168.1.200:1883"
	DefaultClientID  = "blink-sensor"
	DefaultWSBroker  = "=broker"
	DefaultHTTPAddr  = ":80"
	DefaultHeartbeat = 15 * time.Minute
	DefaultLogLevel  = "info"

	// DefaultFilePermissions is the default file permission for config files.
	DefaultFilePermissions = 0o600
)

var (
	errConfigIsNotSet   = errors.New("configuration is not set")
	errBrokerRequired   = errors.New("broker must be provided")
	errNegativeInterval = errors.New("heartbeat must not be negative")
	errInvalidPin       = errors.New("haptic pin must not be negative")
	errInvalidLogLevel  = errors.New("unknown log level")
)

// Default returns the settings used when no file is present.
func Default() *Config {
	return &Config{
		Broker:    DefaultBroker,
		ClientID:  DefaultClientID,
		WSBroker:  DefaultWSBroker,
		HTTPAddr:  DefaultHTTPAddr,
		Heartbeat: DefaultHeartbeat,
		Haptic: Haptic{
			Enabled: true,
			Chip:    gpio.DefaultChip,
			Pin:     gpio.DefaultPin,
			Pulse:   gpio.DefaultPulse,
		},
		Tone: Tone{
			Enabled:     true,
			FrequencyHz: audio.DefaultFrequency,
			Duration:    audio.DefaultDuration,
		},
		LogLevel: DefaultLogLevel,
	}
}

// Load reads configuration from path on top of Default and validates it.
// An empty path reads DefaultConfigFilename, which may be missing.
func Load(path string) (*Config, error) {
	optional := path == ""
	if optional {
		path = DefaultConfigFilename
	}

	cfg := Default()

	contents, err := os.ReadFile(filepath.Clean(path))
	switch {
	case err == nil:
		if err := yaml.Unmarshal(contents, cfg); err != nil {
			return nil, fmt.Errorf("unmarshal settings: %w", err)
		}
	case optional && errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("read settings: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes cfg to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := Marshal(cfg)
	if err != nil {
		return err
	}

	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Marshal renders cfg as YAML.
func Marshal(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("marshal settings: %w", err)
	}
	return data, nil
}

// Validate checks required fields and fills defaults for zero values.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if cfg.Broker == "" {
		return errBrokerRequired
	}

	if _, err := url.Parse(cfg.Broker); err != nil {
		return fmt.Errorf("invalid broker: %w", err)
	}

	if cfg.Heartbeat < 0 {
		return errNegativeInterval
	}

	if cfg.Haptic.Pin < 0 {
		return errInvalidPin
	}

	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}

	if _, ok := logger.ParseLogLevel(cfg.LogLevel); !ok {
		return fmt.Errorf("%w: %q", errInvalidLogLevel, cfg.LogLevel)
	}

	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))

	if cfg.ClientID == "" {
		cfg.ClientID = DefaultClientID
	}

	if cfg.Haptic.Chip == "" {
		cfg.Haptic.Chip = gpio.DefaultChip
	}

	if cfg.Haptic.Pulse <= 0 {
		cfg.Haptic.Pulse = gpio.DefaultPulse
	}

	if cfg.Tone.FrequencyHz <= 0 {
		cfg.Tone.FrequencyHz = audio.DefaultFrequency
	}

	if cfg.Tone.Duration <= 0 {
		cfg.Tone.Duration = audio.DefaultDuration
	}

	return nil
}

// ResolveWSBroker converts the ws_broker setting into a concrete URL.
// "=broker" derives ws://host:9001 from the TCP broker address; "off" or
// empty disables the live page.
func ResolveWSBroker(ws, broker string) (string, error) {
	if ws == "off" || ws == "" {
		return "", nil
	}
	if ws != "=broker" {
		return ws, nil
	}
	u, err := url.Parse(broker)
	if err != nil {
		return "", fmt.Errorf("derive websocket broker from %q: %w", broker, err)
	}
	u.Scheme = "ws"
	u.Host = u.Hostname() + ":9001"
	return u.String(), nil
}
