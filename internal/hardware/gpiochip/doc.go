// Package gpiochip provides GPIO chip backends.
//
// A gpio device owns a set of digital output pins addressed by BCM
// number. Pin-switched backends (the gpio temperature controller and
// the gpio stirrer) declare a chip dependency and switch pins through
// it rather than touching the host GPIO registry themselves, so the
// same backends run against real pins or the in-memory simulation.
//
// Implementations:
//   - rpi: Raspberry Pi header pins via periph.io
//   - simulation: in-memory pin states, for development and tests
package gpiochip
