package influxdb

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// WriteTemperature writes a reactor temperature sample to InfluxDB.
//
// This is the primary method for recording thermometer telemetry.
// The write is non-blocking; data is batched and sent asynchronously.
//
// Parameters:
//   - rig: Site identifier (site.id from config.yaml)
//   - celsius: Measured reactor temperature in degrees Celsius
//   - uptime: Virtual clock seconds since hardware start
//
// Example:
//
//	client.WriteTemperature("rig-001", 42.1, 318.5)
func (c *Client) WriteTemperature(rig string, celsius, uptime float64) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"temperature",
		map[string]string{
			"rig": rig,
		},
		map[string]interface{}{
			"celsius": celsius,
			"uptime":  uptime,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WriteActuatorState writes a snapshot of actuator on/off state.
//
// Used for reconstructing heater/cooler duty cycles and stirrer
// activity alongside the temperature trace.
//
// Parameters:
//   - rig: Site identifier
//   - heater, cooler, heaterPump, stirrer: current on/off state
func (c *Client) WriteActuatorState(rig string, heater, cooler, heaterPump, stirrer bool) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"actuators",
		map[string]string{
			"rig": rig,
		},
		map[string]interface{}{
			"heater":      heater,
			"cooler":      cooler,
			"heater_pump": heaterPump,
			"stirrer":     stirrer,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WriteDispense writes a reagent dispense event.
//
// Parameters:
//   - rig: Site identifier
//   - pump: Pump designator (X, Y, Z)
//   - volumeML: Volume dispensed in millilitres
func (c *Client) WriteDispense(rig, pump string, volumeML float64) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"dispense",
		map[string]string{
			"rig":  rig,
			"pump": pump,
		},
		map[string]interface{}{
			"volume_ml": volumeML,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WritePoint writes a custom point with full control over tags and fields.
//
// Use this for custom measurements that don't fit the helper methods.
//
// Parameters:
//   - measurement: The measurement name (table)
//   - tags: Key-value pairs for indexing (low cardinality)
//   - fields: Key-value pairs for the actual data
//
// Example:
//
//	client.WritePoint("system_stats",
//	    map[string]string{"host": "rig-001"},
//	    map[string]interface{}{"cpu_percent": 45.2, "memory_mb": 512})
func (c *Client) WritePoint(measurement string, tags map[string]string, fields map[string]interface{}) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(measurement, tags, fields, time.Now())
	c.writeAPI.WritePoint(point)
}

// WritePointWithTime writes a custom point with a specific timestamp.
//
// Use this when the timestamp is not "now" (e.g., delayed data).
//
// Parameters:
//   - measurement: The measurement name
//   - tags: Key-value pairs for indexing
//   - fields: Key-value pairs for the data
//   - timestamp: The exact time for this data point
func (c *Client) WritePointWithTime(measurement string, tags map[string]string, fields map[string]interface{}, timestamp time.Time) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(measurement, tags, fields, timestamp)
	c.writeAPI.WritePoint(point)
}
