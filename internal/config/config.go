// Package config holds the typed configuration surface for the event
// notification broker: the store path, the inbound channel capacity,
// and the set of configured channel adapters. Loading a single
// explicit file is in scope; searching a set of default paths the way
// a long-running service config loader would is not — callers pass
// the path they want read.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/nugget/eventbridge/internal/event"
)

// WebhookConfig configures the HTTP webhook adapter.
type WebhookConfig struct {
	Endpoint      string            `yaml:"endpoint"`
	AuthToken     string            `yaml:"auth_token"`
	CustomHeaders map[string]string `yaml:"custom_headers"`
	MaxRetries    int               `yaml:"max_retries"`
	TimeoutSec    int               `yaml:"timeout"`
}

// KafkaConfig configures the Kafka adapter.
type KafkaConfig struct {
	Brokers    []string `yaml:"brokers"`
	Topic      string   `yaml:"topic"`
	MaxRetries int      `yaml:"max_retries"`
}

// MqttConfig configures the MQTT adapter.
type MqttConfig struct {
	Broker     string `yaml:"broker"`
	Port       int    `yaml:"port"`
	ClientID   string `yaml:"client_id"`
	Topic      string `yaml:"topic"`
	MaxRetries int    `yaml:"max_retries"`
}

// AdapterConfig is a tagged union over the three concrete adapter
// configs, matching the "type: webhook|kafka|mqtt" discriminator a
// YAML config file uses to list adapters under one sequence.
type AdapterConfig struct {
	Type    string         `yaml:"type"`
	Webhook *WebhookConfig `yaml:"webhook,omitempty"`
	Kafka   *KafkaConfig   `yaml:"kafka,omitempty"`
	Mqtt    *MqttConfig    `yaml:"mqtt,omitempty"`

	// Filter restricts which event names this adapter receives, in
	// addition to whatever channel name the producer already tagged
	// the event with. An empty Filter means no additional filtering.
	Filter []event.Name `yaml:"filter,omitempty"`
}

// NotificationConfig is the top-level configuration for a
// NotificationSystem.
type NotificationConfig struct {
	StorePath       string          `yaml:"store_path"`
	ChannelCapacity int             `yaml:"channel_capacity"`
	Adapters        []AdapterConfig `yaml:"adapters"`
}

// Load reads and unmarshals a single YAML configuration file. It does
// not search default paths or apply environment overlays.
func Load(path string) (*NotificationConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	cfg := &NotificationConfig{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate %s: %w", path, err)
	}

	return cfg, nil
}

// applyDefaults fills in zero-value fields with sensible defaults.
func (c *NotificationConfig) applyDefaults() {
	if c.ChannelCapacity == 0 {
		c.ChannelCapacity = 100
	}
	for i := range c.Adapters {
		a := &c.Adapters[i]
		switch a.Type {
		case "webhook":
			if a.Webhook != nil && a.Webhook.TimeoutSec == 0 {
				a.Webhook.TimeoutSec = 10
			}
		case "kafka":
			if a.Kafka != nil && a.Kafka.MaxRetries == 0 {
				a.Kafka.MaxRetries = 3
			}
		case "mqtt":
			if a.Mqtt != nil && a.Mqtt.MaxRetries == 0 {
				a.Mqtt.MaxRetries = 3
			}
		}
	}
}

// Validate checks internal consistency: a store path is required, and
// each adapter entry must carry the config matching its declared type.
func (c *NotificationConfig) Validate() error {
	if c.StorePath == "" {
		return fmt.Errorf("config: store_path must not be empty")
	}
	for i, a := range c.Adapters {
		switch a.Type {
		case "webhook":
			if a.Webhook == nil || a.Webhook.Endpoint == "" {
				return fmt.Errorf("config: adapters[%d]: webhook.endpoint must not be empty", i)
			}
		case "kafka":
			if a.Kafka == nil || len(a.Kafka.Brokers) == 0 || a.Kafka.Topic == "" {
				return fmt.Errorf("config: adapters[%d]: kafka requires brokers and topic", i)
			}
		case "mqtt":
			if a.Mqtt == nil || a.Mqtt.Broker == "" || a.Mqtt.Topic == "" {
				return fmt.Errorf("config: adapters[%d]: mqtt requires broker and topic", i)
			}
		default:
			return fmt.Errorf("config: adapters[%d]: unknown adapter type %q", i, a.Type)
		}
	}
	return nil
}
