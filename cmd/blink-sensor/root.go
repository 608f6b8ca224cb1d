package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/sweeney/blink-sensor/internal/config"
)

// flags holds command-line overrides. A flag only overrides the config file
// when it was set explicitly.
type flags struct {
	configPath  string
	broker      string
	clientID    string
	httpAddr    string
	wsBroker    string
	heartbeat   time.Duration
	logLevel    string
	tui         bool
	noHaptic    bool
	noTone      bool
	printConfig bool
}

func newRootCmd() *cobra.Command {
	var f flags

	cmd := &cobra.Command{
		Use:   "blink-sensor",
		Short: "Remind the wearer of a blink-sensing headband to blink.",
		Long: `Listens for blink events from a headband bridge over MQTT. While the headband
is connected, the alert color ramps from black to red as the time since the last
blink approaches the threshold. Past it, the display flashes and the haptic motor
and speaker fire on every tick until the next blink.

Settings are read from a YAML file; flags override file values.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, &f)
			if err != nil {
				return err
			}

			if f.printConfig {
				return printConfig(cmd.OutOrStdout(), cfg)
			}

			return run(cmd.Context(), cfg)
		},
	}

	fl := cmd.Flags()
	fl.StringVarP(&f.configPath, "config", "c", "", "path to configuration file (default "+config.DefaultConfigFilename+" if present)")
	fl.StringVar(&f.broker, "broker", config.DefaultBroker, "MQTT broker address")
	fl.StringVar(&f.clientID, "client-id", config.DefaultClientID, "MQTT client ID prefix")
	fl.StringVar(&f.httpAddr, "http", config.DefaultHTTPAddr, "HTTP status address (empty to disable)")
	fl.StringVar(&f.wsBroker, "ws-broker", config.DefaultWSBroker, `MQTT websocket URL for live UI ("=broker" derives from --broker, "off" disables)`)
	fl.DurationVar(&f.heartbeat, "heartbeat", config.DefaultHeartbeat, "Heartbeat interval (0 to disable)")
	fl.StringVar(&f.logLevel, "log-level", config.DefaultLogLevel, "log level (debug, info, warn, error)")
	fl.BoolVar(&f.tui, "tui", false, "render the alert as a colored status line on stdout; logs go to stderr")
	fl.BoolVar(&f.noHaptic, "no-haptic", false, "disable the haptic motor")
	fl.BoolVar(&f.noTone, "no-tone", false, "disable the alert tone")
	fl.BoolVar(&f.printConfig, "print-config", false, "print the effective configuration and exit")

	return cmd
}

// loadConfig reads the config file and applies explicitly set flags on top.
func loadConfig(cmd *cobra.Command, f *flags) (*config.Config, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return nil, err
	}

	fl := cmd.Flags()
	if fl.Changed("broker") {
		cfg.Broker = f.broker
	}
	if fl.Changed("client-id") {
		cfg.ClientID = f.clientID
	}
	if fl.Changed("http") {
		cfg.HTTPAddr = f.httpAddr
	}
	if fl.Changed("ws-broker") {
		cfg.WSBroker = f.wsBroker
	}
	if fl.Changed("heartbeat") {
		cfg.Heartbeat = f.heartbeat
	}
	if fl.Changed("log-level") {
		cfg.LogLevel = f.logLevel
	}
	if fl.Changed("tui") {
		cfg.TUI = f.tui
	}
	if f.noHaptic {
		cfg.Haptic.Enabled = false
	}
	if f.noTone {
		cfg.Tone.Enabled = false
	}

	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Execute runs the blink-sensor CLI and exits with non-zero status on error.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
