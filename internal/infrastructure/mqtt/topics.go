package mqtt

import "fmt"

// Topic prefixes for the Reactor Core message bus.
//
// All topics use the flat scheme: reactor/{rig}/{category}/...
// where {rig} is the site.id from config.yaml, so several rigs can
// share one broker without cross-talk.
const (
	// TopicPrefix is the base for all Reactor Core topics.
	TopicPrefix = "reactor"
)

// Topics provides builders for Reactor Core MQTT topics.
// Using these helpers ensures consistent topic naming across the codebase.
//
//	topics := mqtt.Topics{Rig: "rig-001"}
//	tempTopic := topics.Temperature()
//	// Returns: "reactor/rig-001/telemetry/temperature"
type Topics struct {
	// Rig is the site identifier this node publishes under.
	Rig string
}

// =============================================================================
// Telemetry Topics
// =============================================================================

// Temperature returns the topic for periodic reactor temperature samples.
//
// Example: reactor/rig-001/telemetry/temperature
func (t Topics) Temperature() string {
	return fmt.Sprintf("%s/%s/telemetry/temperature", TopicPrefix, t.Rig)
}

// ActuatorState returns the topic for actuator on/off state samples
// (heater, cooler, heater pump, stirrer).
//
// Example: reactor/rig-001/telemetry/actuators
func (t Topics) ActuatorState() string {
	return fmt.Sprintf("%s/%s/telemetry/actuators", TopicPrefix, t.Rig)
}

// Dispense returns the topic for reagent dispense events.
//
// Example: reactor/rig-001/telemetry/dispense
func (t Topics) Dispense() string {
	return fmt.Sprintf("%s/%s/telemetry/dispense", TopicPrefix, t.Rig)
}

// =============================================================================
// Step Topics
// =============================================================================

// StepEvent returns the topic for step lifecycle events
// (started, completed, failed, stopped).
//
// Example: reactor/rig-001/step/heat/started
func (t Topics) StepEvent(kind, event string) string {
	return fmt.Sprintf("%s/%s/step/%s/%s", TopicPrefix, t.Rig, kind, event)
}

// AllStepEvents returns a pattern matching all step lifecycle events.
//
// Pattern: reactor/rig-001/step/+/+
func (t Topics) AllStepEvents() string {
	return fmt.Sprintf("%s/%s/step/+/+", TopicPrefix, t.Rig)
}

// =============================================================================
// System Topics
// =============================================================================

// SystemStatus returns the node status topic. This is also the LWT topic:
// the broker publishes "offline" here when the node dies unannounced.
//
// Example: reactor/rig-001/system/status
func (t Topics) SystemStatus() string {
	return fmt.Sprintf("%s/%s/system/status", TopicPrefix, t.Rig)
}

// SystemHardware returns the topic for hardware lifecycle events
// (loaded, reloaded, failed).
//
// Example: reactor/rig-001/system/hardware
func (t Topics) SystemHardware() string {
	return fmt.Sprintf("%s/%s/system/hardware", TopicPrefix, t.Rig)
}

// =============================================================================
// Wildcard Patterns for Subscriptions
// =============================================================================

// AllTelemetry returns a pattern matching all telemetry topics for this rig.
//
// Pattern: reactor/rig-001/telemetry/+
func (t Topics) AllTelemetry() string {
	return fmt.Sprintf("%s/%s/telemetry/+", TopicPrefix, t.Rig)
}

// AllTopics returns a pattern matching every topic for this rig.
// Use with caution - this receives ALL traffic.
//
// Pattern: reactor/rig-001/#
func (t Topics) AllTopics() string {
	return fmt.Sprintf("%s/%s/#", TopicPrefix, t.Rig)
}
