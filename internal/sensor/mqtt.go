package sensor

import (
	"context"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/sweeney/blink-sensor/internal/logger"
	"github.com/sweeney/blink-sensor/internal/logic"
)

const signalBuffer = 64

// MQTTLink receives headband events from the bridge over MQTT. paho
// callbacks run on paho goroutines and only send on the signal channel.
type MQTTLink struct {
	ctx    context.Context
	client paho.Client
	now    func() time.Time

	signals chan logic.Signal
	done    chan struct{}
	once    sync.Once
}

// NewMQTTLink creates a link and starts connecting in the background.
// Losing the broker connection is reported as a headband disconnect.
func NewMQTTLink(ctx context.Context, broker, clientID string, now func() time.Time) *MQTTLink {
	l := &MQTTLink{
		ctx:     logger.WithName(ctx, "sensor"),
		now:     now,
		signals: make(chan logic.Signal, signalBuffer),
		done:    make(chan struct{}),
	}

	opts := paho.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second).
		SetOnConnectHandler(l.onConnect).
		SetConnectionLostHandler(l.onConnectionLost)

	l.client = paho.NewClient(opts)
	l.client.Connect()
	return l
}

// Signals implements Link.
func (l *MQTTLink) Signals() <-chan logic.Signal {
	return l.signals
}

// RequestConnect publishes a connect command without waiting for delivery.
func (l *MQTTLink) RequestConnect() {
	logger.Infof(l.ctx, "requesting headband connect")
	l.client.Publish(TopicCommand, 1, false, FormatCommand("connect"))
}

// Close disconnects from the broker and stops delivering signals.
func (l *MQTTLink) Close() error {
	l.once.Do(func() {
		close(l.done)
		l.client.Disconnect(1000)
	})
	return nil
}

// onConnect (re)subscribes after every connection; paho does not keep
// subscriptions across a clean session.
func (l *MQTTLink) onConnect(c paho.Client) {
	logger.Infof(l.ctx, "connected to bridge broker")
	c.Subscribe(TopicStatus, 1, l.handleStatus)
	c.Subscribe(TopicBlink, 0, l.handleBlink)
	// Ask the bridge to republish its state.
	c.Publish(TopicCommand, 1, false, FormatCommand("status"))
}

func (l *MQTTLink) onConnectionLost(_ paho.Client, err error) {
	logger.Warnf(l.ctx, "bridge connection lost: %v", err)
	l.deliver(logic.Signal{Kind: logic.SignalDisconnected, Time: l.now()})
}

func (l *MQTTLink) handleStatus(_ paho.Client, msg paho.Message) {
	sig, err := ParseStatus(msg.Payload(), l.now())
	if err != nil {
		logger.Warnf(l.ctx, "ignoring status message: %v", err)
		return
	}
	logger.Infof(l.ctx, "headband %s", sig.Kind)
	l.deliver(sig)
}

func (l *MQTTLink) handleBlink(_ paho.Client, msg paho.Message) {
	logger.Debugf(l.ctx, "blink")
	l.deliver(ParseBlink(msg.Payload(), l.now()))
}

// deliver blocks until the owner accepts the signal or the link is closed.
func (l *MQTTLink) deliver(sig logic.Signal) {
	select {
	case l.signals <- sig:
	case <-l.done:
	}
}
