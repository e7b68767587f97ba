package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/eclipse/paho.golang/autopaho"
	"github.com/eclipse/paho.golang/paho"

	"github.com/nugget/eventbridge/internal/config"
	"github.com/nugget/eventbridge/internal/event"
)

// Mqtt delivers events by publishing one message per event to a
// configured topic at QoS 1. The connection manager autopaho builds
// owns the background reconnect loop, so no separate goroutine is
// required to drive the client.
type Mqtt struct {
	cm         *autopaho.ConnectionManager
	topic      string
	maxRetries int
}

// NewMqtt parses cfg.Broker as a connection URL and establishes a
// managed MQTT connection. It returns once a connection manager has
// been created; the manager connects and reconnects in the
// background.
func NewMqtt(ctx context.Context, cfg config.MqttConfig) (*Mqtt, error) {
	brokerURL, err := url.Parse(fmt.Sprintf("mqtt://%s:%d", cfg.Broker, cfg.Port))
	if err != nil {
		return nil, fmt.Errorf("mqtt: parse broker address: %w", err)
	}

	clientID := cfg.ClientID
	if clientID == "" {
		clientID = "eventbridge"
	}

	cm, err := autopaho.NewConnection(ctx, autopaho.ClientConfig{
		ServerUrls: []*url.URL{brokerURL},
		KeepAlive:  30,
		ClientConfig: paho.ClientConfig{
			ClientID: clientID,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("mqtt: connect: %w", err)
	}

	return &Mqtt{cm: cm, topic: cfg.Topic, maxRetries: cfg.MaxRetries}, nil
}

// Name implements ChannelAdapter.
func (m *Mqtt) Name() string { return "mqtt" }

// Send implements ChannelAdapter, publishing at QoS 1 ("at least
// once") and retrying per the uniform backoff policy on failure.
func (m *Mqtt) Send(ctx context.Context, ev *event.Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("mqtt: marshal event: %w", err)
	}

	return Retry(ctx, RetryConfig{MaxRetries: m.maxRetries}, func(ctx context.Context) error {
		_, err := m.cm.Publish(ctx, &paho.Publish{
			Topic:   m.topic,
			QoS:     1,
			Payload: payload,
		})
		return err
	})
}

// Close disconnects from the broker.
func (m *Mqtt) Close(ctx context.Context) error {
	return m.cm.Disconnect(ctx)
}
