// Package gcode provides grbl motion controller backends. A grbl
// device executes raw g-code commands and is used as a dependency by
// pump dispensers that translate volumes into axis moves.
//
// Implementations:
//   - serial: talks to a grbl board over a serial port
//   - simulation: records commands in memory
package gcode
