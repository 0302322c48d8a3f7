// Package tempcontrol provides temperature controller backends.
//
// A temperature controller owns the jacket actuators (heater element,
// heater-circulation pump, cooler) and delegates temperature readings
// to its thermometer dependency. Heater/cooler mutual exclusion is
// enforced one level up, by the reactor facade; backends switch
// exactly what they are told to switch.
//
// Implementations:
//   - simulation: tracks actuator state in memory and nudges the
//     simulated thermometer on each read to model the jacket
//   - gpio: switches relay pins through a gpio chip dependency
package tempcontrol
