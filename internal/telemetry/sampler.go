// Package telemetry periodically samples the rig and fans the
// readings out to InfluxDB, MQTT and the WebSocket hub. Sampling is
// read-only: it never commands an actuator and keeps running across
// hardware reloads, skipping ticks while no rig is loaded.
package telemetry

import (
	"context"
	"encoding/json"
	"time"

	"github.com/opencell/reactor-core/internal/reactor"
)

// MetricsWriter receives samples destined for time-series storage.
// influxdb.Client satisfies it.
type MetricsWriter interface {
	WriteTemperature(rig string, celsius, uptime float64)
	WriteActuatorState(rig string, heater, cooler, heaterPump, stirrer bool)
}

// Publisher receives samples destined for the MQTT bus.
type Publisher interface {
	Publish(topic string, payload []byte, qos byte, retained bool) error
}

// Broadcaster receives samples destined for connected WebSocket
// clients. api.Hub satisfies it.
type Broadcaster interface {
	Broadcast(channel string, payload any)
}

// Logger is the minimal logging interface this package needs.
type Logger interface {
	Debug(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(msg string, args ...any) {}
func (noopLogger) Error(msg string, args ...any) {}

// Sample is one telemetry snapshot, serialized for MQTT and
// WebSocket consumers.
type Sample struct {
	Rig         string                `json:"rig"`
	Temperature float64               `json:"temperature"`
	Uptime      float64               `json:"uptime"`
	Actuators   reactor.ActuatorState `json:"actuators"`
	SampledAt   time.Time             `json:"sampled_at"`
}

// Sampler drives the periodic collection loop.
type Sampler struct {
	manager  *reactor.Manager
	rig      string
	interval time.Duration

	metrics   MetricsWriter
	publisher Publisher
	topic     string
	hub       Broadcaster
	logger    Logger
}

// New creates a sampler. Any of metrics, publisher and hub may be
// nil; the corresponding sink is skipped.
func New(manager *reactor.Manager, rig string, interval time.Duration,
	metrics MetricsWriter, publisher Publisher, topic string, hub Broadcaster, logger Logger) *Sampler {
	if logger == nil {
		logger = noopLogger{}
	}
	return &Sampler{
		manager:   manager,
		rig:       rig,
		interval:  interval,
		metrics:   metrics,
		publisher: publisher,
		topic:     topic,
		hub:       hub,
		logger:    logger,
	}
}

// Run samples until ctx is cancelled. Blocking; run on its own
// goroutine.
func (s *Sampler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sample()
		}
	}
}

// sample collects one snapshot and fans it out. Errors are logged,
// never fatal: telemetry must not take the control plane down.
func (s *Sampler) sample() {
	core, err := s.manager.Core()
	if err != nil {
		// No rig loaded right now. Expected during startup failures
		// and mid-reload.
		return
	}

	temp, err := core.Temperature()
	if err != nil {
		s.logger.Error("telemetry temperature read failed", "error", err)
		return
	}

	sample := Sample{
		Rig:         s.rig,
		Temperature: temp,
		Uptime:      core.Uptime(),
		Actuators:   core.Actuators(),
		SampledAt:   time.Now().UTC(),
	}

	if s.metrics != nil {
		s.metrics.WriteTemperature(s.rig, sample.Temperature, sample.Uptime)
		s.metrics.WriteActuatorState(s.rig,
			sample.Actuators.Heater, sample.Actuators.Cooler,
			sample.Actuators.HeaterPump, sample.Actuators.Stirrer)
	}

	if s.publisher != nil {
		payload, err := json.Marshal(sample)
		if err != nil {
			s.logger.Error("telemetry marshal failed", "error", err)
		} else if err := s.publisher.Publish(s.topic, payload, 0, false); err != nil {
			s.logger.Error("telemetry publish failed", "error", err)
		}
	}

	if s.hub != nil {
		s.hub.Broadcast("telemetry", sample)
	}

	s.logger.Debug("telemetry sample",
		"temperature", sample.Temperature,
		"uptime", sample.Uptime,
	)
}
