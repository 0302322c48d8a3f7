// Package thermometer provides thermometer backends.
//
// Implementations:
//   - simulation: an in-memory temperature the simulated temperature
//     controller nudges up and down
//   - w1_therm: DS18B20-style 1-Wire sensors via sysfs
//   - serial: sensors that answer a read request over a serial line
package thermometer
