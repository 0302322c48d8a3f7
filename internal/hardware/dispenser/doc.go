// Package dispenser provides reagent dispenser backends. A dispenser
// owns one or more named pumps, each with a calibrated speed range,
// and converts requested volumes into pump actions.
//
// Implementations:
//   - simulation: records dispensed volumes in memory
//   - syringepump: drives syringe pumps through a grbl motion
//     controller, one axis per pump
//   - peristalticpump: drives peristaltic pumps through grbl at a
//     fixed feed rate
package dispenser
