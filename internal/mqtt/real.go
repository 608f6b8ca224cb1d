package mqtt

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/sweeney/blink-sensor/internal/logger"
	"github.com/sweeney/blink-sensor/internal/logic"
)

const publishTimeout = 5 * time.Second

var errPublishTimeout = errors.New("publish timeout")

// RealPublisher publishes to an actual MQTT broker. Messages published while
// the broker is unreachable are buffered and replayed on reconnect.
type RealPublisher struct {
	ctx    context.Context
	client paho.Client

	mu            sync.Mutex
	buf           *ringBuffer
	connectedOnce bool
}

// NewRealPublisher creates a publisher for the given broker. It does not wait
// for the first connection; paho keeps retrying in the background.
func NewRealPublisher(ctx context.Context, broker, clientID string) *RealPublisher {
	ctx = logger.WithName(ctx, "mqtt")
	p := &RealPublisher{
		ctx: ctx,
		buf: newRingBuffer(ctx, DefaultBufferSize),
	}

	opts := paho.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5*time.Second).
		SetWill(TopicSystem, string(WillPayload()), 1, true).
		SetOnConnectHandler(p.onConnect).
		SetConnectionLostHandler(func(_ paho.Client, err error) {
			logger.WarnKV(ctx, "connection lost", "broker", broker, "error", err)
		})

	p.client = paho.NewClient(opts)
	p.client.Connect()
	return p
}

// onConnect runs on a paho goroutine after every successful (re)connection.
func (p *RealPublisher) onConnect(_ paho.Client) {
	p.mu.Lock()
	reconnect := p.connectedOnce
	p.connectedOnce = true
	pending := p.buf.drainAll()
	p.mu.Unlock()

	logger.InfoKV(p.ctx, "connected to broker", "replaying", len(pending))

	for _, msg := range pending {
		token := p.client.Publish(msg.topic, msg.qos, msg.retained, msg.payload)
		if err := waitToken(token); err != nil {
			logger.Warnf(p.ctx, "replay to %s: %v", msg.topic, err)
		}
	}

	if reconnect {
		payload, _ := FormatSystemPayload(SystemEvent{Timestamp: time.Now(), Event: SystemReconnected, Retained: true})
		if err := waitToken(p.client.Publish(TopicSystem, 1, true, payload)); err != nil {
			logger.Warnf(p.ctx, "publish reconnected event: %v", err)
		}
	}
}

// Publish sends an alert event. QoS 0 and not awaited, so the caller's
// loop is never held up by the network.
func (p *RealPublisher) Publish(event logic.Event) error {
	payload, err := FormatPayload(event)
	if err != nil {
		return fmt.Errorf("format payload: %w", err)
	}
	if p.bufferIfOffline(bufferedMsg{topic: Topic, payload: payload}) {
		return nil
	}

	p.client.Publish(Topic, 0, false, payload)
	return nil
}

// PublishSystem sends a system lifecycle event at QoS 1. Only SHUTDOWN waits
// for delivery, since the client disconnects right after it; the rest are
// sent from the owner loop and left to paho.
func (p *RealPublisher) PublishSystem(event SystemEvent) error {
	payload, err := FormatSystemPayload(event)
	if err != nil {
		return fmt.Errorf("format system payload: %w", err)
	}
	if p.bufferIfOffline(bufferedMsg{topic: TopicSystem, payload: payload, qos: 1, retained: event.Retained}) {
		return nil
	}

	token := p.client.Publish(TopicSystem, 1, event.Retained, payload)
	if event.Event != SystemShutdown {
		return nil
	}
	if err := waitToken(token); err != nil {
		return fmt.Errorf("publish system: %w", err)
	}
	return nil
}

// IsConnected reports whether the client currently has an open connection.
func (p *RealPublisher) IsConnected() bool {
	return p.client.IsConnectionOpen()
}

// Close disconnects from the broker.
func (p *RealPublisher) Close() error {
	p.client.Disconnect(1000) // 1 second timeout
	return nil
}

func (p *RealPublisher) bufferIfOffline(msg bufferedMsg) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.client.IsConnectionOpen() {
		return false
	}
	p.buf.push(msg)
	return true
}

func waitToken(token paho.Token) error {
	if !token.WaitTimeout(publishTimeout) {
		return errPublishTimeout
	}
	return token.Error()
}
