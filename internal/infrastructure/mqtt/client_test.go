package mqtt

import (
	"errors"
	"strings"
	"testing"

	"github.com/opencell/reactor-core/internal/infrastructure/config"
)

// testConfig returns a valid MQTT configuration for testing.
func testConfig() config.MQTTConfig {
	return config.MQTTConfig{
		Broker: config.MQTTBrokerConfig{
			Host:     "127.0.0.1",
			Port:     1883,
			ClientID: "reactor-test",
			TLS:      false,
		},
		Auth: config.MQTTAuthConfig{
			Username: "",
			Password: "",
		},
		QoS: 1,
		Reconnect: config.MQTTReconnectConfig{
			InitialDelay: 1,
			MaxDelay:     5,
		},
	}
}

// =============================================================================
// Offline Client Tests
// =============================================================================

func TestCloseNil(t *testing.T) {
	client := &Client{}
	err := client.Close()
	if err != nil {
		t.Errorf("Close() on nil client error = %v, want nil", err)
	}
}

func TestIsConnected_InitialState(t *testing.T) {
	client := &Client{client: nil}

	defer func() {
		if r := recover(); r != nil {
			t.Errorf("IsConnected() panicked: %v", r)
		}
	}()

	// connected flag is false, so the underlying client is never consulted
	if client.connected {
		t.Error("new client should not report connected")
	}
}

func TestPublishValidation(t *testing.T) {
	client := newDisconnectedClient()

	tests := []struct {
		name    string
		topic   string
		qos     byte
		payload []byte
		wantErr error
	}{
		{name: "empty topic", topic: "", qos: 1, wantErr: ErrInvalidTopic},
		{name: "invalid qos", topic: "reactor/test", qos: 3, wantErr: ErrInvalidQoS},
		{name: "not connected", topic: "reactor/test", qos: 1, wantErr: ErrNotConnected},
		{
			name:    "oversized payload",
			topic:   "reactor/test",
			qos:     1,
			payload: make([]byte, maxPayloadSize+1),
			wantErr: ErrPublishFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := client.Publish(tt.topic, tt.payload, tt.qos, false)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Publish() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestSubscribeValidation(t *testing.T) {
	client := newDisconnectedClient()
	handler := func(string, []byte) error { return nil }

	if err := client.Subscribe("", 1, handler); !errors.Is(err, ErrInvalidTopic) {
		t.Errorf("Subscribe() empty topic error = %v, want ErrInvalidTopic", err)
	}

	if err := client.Subscribe("reactor/test", 3, handler); !errors.Is(err, ErrInvalidQoS) {
		t.Errorf("Subscribe() bad qos error = %v, want ErrInvalidQoS", err)
	}

	if err := client.Subscribe("reactor/test", 1, nil); !errors.Is(err, ErrSubscribeFailed) {
		t.Errorf("Subscribe() nil handler error = %v, want ErrSubscribeFailed", err)
	}

	if err := client.Subscribe("reactor/test", 1, handler); !errors.Is(err, ErrNotConnected) {
		t.Errorf("Subscribe() disconnected error = %v, want ErrNotConnected", err)
	}
}

func TestUnsubscribeValidation(t *testing.T) {
	client := newDisconnectedClient()

	if err := client.Unsubscribe(""); !errors.Is(err, ErrInvalidTopic) {
		t.Errorf("Unsubscribe() empty topic error = %v, want ErrInvalidTopic", err)
	}

	if err := client.Unsubscribe("reactor/test"); !errors.Is(err, ErrNotConnected) {
		t.Errorf("Unsubscribe() disconnected error = %v, want ErrNotConnected", err)
	}
}

func TestSubscriptionTracking_Empty(t *testing.T) {
	client := newDisconnectedClient()

	if client.SubscriptionCount() != 0 {
		t.Errorf("SubscriptionCount() = %d, want 0", client.SubscriptionCount())
	}

	if client.HasSubscription("nonexistent/topic") {
		t.Error("HasSubscription() should be false for unsubscribed topic")
	}
}

// newDisconnectedClient builds a client that was never connected.
// Validation paths run before any broker interaction.
func newDisconnectedClient() *Client {
	return &Client{
		cfg:           testConfig(),
		topics:        Topics{Rig: "rig-test"},
		subscriptions: make(map[string]subscription),
	}
}

// =============================================================================
// Payload Builder Tests
// =============================================================================

func TestStatusPayloads(t *testing.T) {
	online := buildOnlinePayload("reactor-test")
	if !strings.Contains(online, `"status":"online"`) {
		t.Errorf("online payload missing status: %s", online)
	}
	if !strings.Contains(online, `"client_id":"reactor-test"`) {
		t.Errorf("online payload missing client_id: %s", online)
	}

	offline := buildOfflinePayload("reactor-test")
	if !strings.Contains(offline, `"status":"offline"`) {
		t.Errorf("offline payload missing status: %s", offline)
	}
	if !strings.Contains(offline, `"reason":"graceful_shutdown"`) {
		t.Errorf("offline payload missing reason: %s", offline)
	}
}

// =============================================================================
// Topics Tests
// =============================================================================

func TestTopicBuilders(t *testing.T) {
	topics := Topics{Rig: "rig-001"}

	tests := []struct {
		name     string
		builder  func() string
		expected string
	}{
		{
			name:     "Temperature",
			builder:  topics.Temperature,
			expected: "reactor/rig-001/telemetry/temperature",
		},
		{
			name:     "ActuatorState",
			builder:  topics.ActuatorState,
			expected: "reactor/rig-001/telemetry/actuators",
		},
		{
			name:     "Dispense",
			builder:  topics.Dispense,
			expected: "reactor/rig-001/telemetry/dispense",
		},
		{
			name: "StepEvent",
			builder: func() string {
				return topics.StepEvent("heat", "started")
			},
			expected: "reactor/rig-001/step/heat/started",
		},
		{
			name:     "AllStepEvents",
			builder:  topics.AllStepEvents,
			expected: "reactor/rig-001/step/+/+",
		},
		{
			name:     "SystemStatus",
			builder:  topics.SystemStatus,
			expected: "reactor/rig-001/system/status",
		},
		{
			name:     "SystemHardware",
			builder:  topics.SystemHardware,
			expected: "reactor/rig-001/system/hardware",
		},
		{
			name:     "AllTelemetry",
			builder:  topics.AllTelemetry,
			expected: "reactor/rig-001/telemetry/+",
		},
		{
			name:     "AllTopics",
			builder:  topics.AllTopics,
			expected: "reactor/rig-001/#",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.builder()
			if result != tt.expected {
				t.Errorf("%s() = %q, want %q", tt.name, result, tt.expected)
			}
		})
	}
}
