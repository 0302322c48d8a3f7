// Package stirrer provides stirrer backends.
//
// Implementations:
//   - simulation: records on/off state in memory
//   - gpio_stirrer: switches a motor relay pin through a gpio chip
//     dependency
package stirrer
