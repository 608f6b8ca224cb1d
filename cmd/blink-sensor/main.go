// Command blink-sensor reminds its wearer to blink: it watches blink events from
// a headband, ramps a warning color as the gap grows and fires a repeating alert
// once it passes the threshold. State changes are published to MQTT.
package main

import (
	"context"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sweeney/blink-sensor/internal/alert"
	"github.com/sweeney/blink-sensor/internal/audio"
	"github.com/sweeney/blink-sensor/internal/config"
	"github.com/sweeney/blink-sensor/internal/gpio"
	"github.com/sweeney/blink-sensor/internal/logger"
	"github.com/sweeney/blink-sensor/internal/logic"
	"github.com/sweeney/blink-sensor/internal/mqtt"
	"github.com/sweeney/blink-sensor/internal/sensor"
	"github.com/sweeney/blink-sensor/internal/status"
	"github.com/sweeney/blink-sensor/internal/term"
	"github.com/sweeney/blink-sensor/internal/web"
)

// heartbeatCheck is how often the heartbeat interval is checked.
const heartbeatCheck = time.Second

func main() {
	Execute()
}

func run(ctx context.Context, cfg *config.Config) error {
	if cfg.TUI {
		// The status line owns stdout.
		logger.SetOutput(os.Stderr)
	}
	level, _ := logger.ParseLogLevel(cfg.LogLevel)
	logger.SetLevel(level)
	defer logger.Sync()

	ctx = logger.WithName(ctx, "daemon")
	startTime := time.Now()

	motor := openMotor(ctx, cfg.Haptic)
	defer motor.Close()

	player := openPlayer(ctx, cfg.Tone)
	defer player.Close()

	ws, err := config.ResolveWSBroker(cfg.WSBroker, cfg.Broker)
	if err != nil {
		logger.Warnf(ctx, "live status page disabled: %v", err)
	}

	// Initialize status tracker (before STARTUP so snapshot is available)
	tracker := status.NewTracker(startTime, status.Config{
		TickMs:      logic.TickCadence.Milliseconds(),
		ThresholdMs: logic.AlertThreshold.Milliseconds(),
		HeartbeatMs: cfg.Heartbeat.Milliseconds(),
		Broker:      cfg.Broker,
		HTTPAddr:    cfg.HTTPAddr,
		WSBroker:    ws,
	})
	if net := readNetworkInfo(); net != nil {
		tracker.SetNetwork(net)
	}

	displays := []alert.Display{tracker}
	if cfg.TUI {
		td := term.New(os.Stdout, term.DefaultWidth)
		defer td.Close()
		displays = append(displays, td)
	}
	presenter := alert.New(ctx, motor, player, displays...)

	publisher := mqtt.NewRealPublisher(ctx, cfg.Broker, cfg.ClientID+"-events")
	defer publisher.Close()

	link := sensor.NewMQTTLink(ctx, cfg.Broker, cfg.ClientID+"-link", time.Now)
	defer link.Close()

	// Publish startup event with full status snapshot
	snap := tracker.Snapshot()
	startupEvent := mqtt.SystemEvent{
		Timestamp:  snap.Now,
		Event:      mqtt.SystemStartup,
		Retained:   true,
		RawPayload: status.FormatStatusEvent(snap, mqtt.SystemStartup, ""),
	}
	if err := publisher.PublishSystem(startupEvent); err != nil {
		logger.Warnf(ctx, "failed to publish startup event: %v", err)
	} else {
		logger.Infof(ctx, "published startup event")
	}

	foreground := make(chan struct{}, 1)

	// Start HTTP status server
	if cfg.HTTPAddr != "" {
		srv := web.New(cfg.HTTPAddr, tracker, func() {
			select {
			case foreground <- struct{}{}:
			default:
			}
		})
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Errorf(ctx, "http server error: %v", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		logger.Infof(ctx, "http status server listening on %s", cfg.HTTPAddr)
	}

	logger.InfoKV(ctx, "started",
		"broker", cfg.Broker,
		"threshold", logic.AlertThreshold,
		"tick", logic.TickCadence,
		"heartbeat", cfg.Heartbeat)

	var heartbeatTick <-chan time.Time
	if cfg.Heartbeat > 0 {
		hb := time.NewTicker(heartbeatCheck)
		defer hb.Stop()
		heartbeatTick = hb.C
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGCONT)
	defer signal.Stop(sigCh)

	return runLoop(ctx, loop{
		link:          link,
		presenter:     presenter,
		publisher:     publisher,
		mqttStatus:    publisher,
		tracker:       tracker,
		newTicker:     newRealTicker,
		heartbeat:     cfg.Heartbeat,
		now:           time.Now,
		heartbeatTick: heartbeatTick,
		foreground:    foreground,
		sig:           sigCh,
	})
}

// loop holds runLoop's collaborators. Everything except the tracker is owned
// by the runLoop goroutine.
type loop struct {
	link       sensor.Link
	presenter  logic.Presenter
	publisher  mqtt.Publisher
	mqttStatus mqtt.ConnectionStatus
	tracker    *status.Tracker
	newTicker  logic.TickerFunc
	heartbeat  time.Duration
	now        func() time.Time

	heartbeatTick <-chan time.Time
	foreground    <-chan struct{}
	sig           <-chan os.Signal
}

func runLoop(ctx context.Context, l loop) error {
	monitor := logic.NewMonitor(l.presenter, l.link, l.newTicker, l.now())
	refresh := func() {
		if l.tracker == nil {
			return
		}
		l.tracker.Update(monitor.View())
		if l.mqttStatus != nil {
			l.tracker.SetMQTTConnected(l.mqttStatus.IsConnected())
		}
	}
	refresh()

	for {
		select {
		case s := <-l.sig:
			if s == syscall.SIGCONT {
				logger.Infof(ctx, "resumed, treating as foreground")
				publishEvents(ctx, l.publisher, monitor.Foreground(l.now()))
				refresh()
				continue
			}

			logger.Infof(ctx, "received %v, shutting down", s)
			signalName := "UNKNOWN"
			if s == syscall.SIGINT {
				signalName = "SIGINT"
			} else if s == syscall.SIGTERM {
				signalName = "SIGTERM"
			}
			event := mqtt.SystemEvent{
				Timestamp: l.now(),
				Event:     mqtt.SystemShutdown,
				Reason:    signalName,
				Retained:  true,
			}
			if l.tracker != nil {
				refresh()
				snap := l.tracker.Snapshot()
				event.RawPayload = status.FormatStatusEvent(snap, mqtt.SystemShutdown, signalName)
			}
			if err := l.publisher.PublishSystem(event); err != nil {
				logger.Warnf(ctx, "failed to publish shutdown event: %v", err)
			} else {
				logger.Infof(ctx, "published shutdown event")
			}
			return nil

		case sig := <-l.link.Signals():
			publishEvents(ctx, l.publisher, monitor.HandleSignal(sig, l.now()))
			refresh()

		case <-monitor.Ticks():
			_, events := monitor.Tick(l.now())
			publishEvents(ctx, l.publisher, events)
			refresh()

		case <-l.foreground:
			logger.Infof(ctx, "status page in foreground")
			publishEvents(ctx, l.publisher, monitor.Foreground(l.now()))
			refresh()

		case <-l.heartbeatTick:
			hbData := monitor.CheckHeartbeat(l.now(), l.heartbeat)
			if hbData == nil {
				continue
			}
			logger.InfoKV(ctx, "heartbeat",
				"uptime", hbData.Uptime,
				"blinks", hbData.Counts.Blinks,
				"alerts", hbData.Counts.Alerts,
				"connects", hbData.Counts.Connects,
				"disconnects", hbData.Counts.Disconnects)

			hbEvent := mqtt.SystemEvent{
				Timestamp: hbData.Timestamp,
				Event:     mqtt.SystemHeartbeat,
			}
			if l.tracker != nil {
				// Refresh network info for heartbeat
				if net := readNetworkInfo(); net != nil {
					l.tracker.SetNetwork(net)
				}
				refresh()
				snap := l.tracker.Snapshot()
				hbEvent.RawPayload = status.FormatStatusEvent(snap, mqtt.SystemHeartbeat, "")
			}
			if err := l.publisher.PublishSystem(hbEvent); err != nil {
				logger.Warnf(ctx, "heartbeat publish error: %v", err)
			}
		}
	}
}

func publishEvents(ctx context.Context, publisher mqtt.Publisher, events []logic.Event) {
	for _, event := range events {
		logger.InfoKV(ctx, "event", "type", event.Type, "state", event.State, "elapsed", event.Elapsed)
		if err := publisher.Publish(event); err != nil {
			// Don't crash on publish failure
			logger.Warnf(ctx, "publish error: %v", err)
		}
	}
}

// realTicker adapts time.Ticker to logic.Ticker.
type realTicker struct {
	t *time.Ticker
}

func newRealTicker(d time.Duration) logic.Ticker {
	return realTicker{t: time.NewTicker(d)}
}

func (r realTicker) C() <-chan time.Time { return r.t.C }
func (r realTicker) Stop()               { r.t.Stop() }

func openMotor(ctx context.Context, cfg config.Haptic) gpio.Motor {
	if !cfg.Enabled {
		return gpio.NopMotor{}
	}
	motor, err := gpio.NewRealMotor(cfg.Chip, cfg.Pin, cfg.Pulse)
	if err != nil {
		logger.Warnf(ctx, "haptic motor unavailable, continuing without it: %v", err)
		return gpio.NopMotor{}
	}
	return motor
}

func openPlayer(ctx context.Context, cfg config.Tone) audio.Player {
	if !cfg.Enabled {
		return audio.NopPlayer{}
	}
	player, err := audio.NewSpeakerPlayer(cfg.FrequencyHz, cfg.Duration)
	if err != nil {
		logger.Warnf(ctx, "speaker unavailable, continuing without tone: %v", err)
		return audio.NopPlayer{}
	}
	return player
}

// pi-helper env var names (written to /run/pi-helper.env).
const (
	envNetworkType       = "NETWORK_TYPE"
	envNetworkIP         = "NETWORK_IP"
	envNetworkStatus     = "NETWORK_STATUS"
	envNetworkGateway    = "NETWORK_GATEWAY"
	envNetworkWifiStatus = "NETWORK_WIFI_STATUS"
	envNetworkWifiSSID   = "NETWORK_WIFI_SSID"
)

func readNetworkInfo() *status.NetworkInfo {
	s := os.Getenv(envNetworkStatus)
	if s == "" {
		return nil
	}
	return &status.NetworkInfo{
		Type:       os.Getenv(envNetworkType),
		IP:         os.Getenv(envNetworkIP),
		Status:     s,
		Gateway:    os.Getenv(envNetworkGateway),
		WifiStatus: os.Getenv(envNetworkWifiStatus),
		SSID:       os.Getenv(envNetworkWifiSSID),
	}
}

func printConfig(w io.Writer, cfg *config.Config) error {
	data, err := config.Marshal(cfg)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
