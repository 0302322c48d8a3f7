// Package reactor provides the hardware facade for a single reactor
// rig. A Core owns exactly one temperature controller, one stirrer
// and one reagent dispenser, bound by well-known device ids from the
// hardware graph, plus a speed-scaled virtual clock that lets the
// whole stack run faster than real time against simulated hardware.
//
// A Manager owns the current Core and rebuilds it wholesale on
// hardware configuration reload. The facade is never mutated
// device-by-device: reload builds a complete new Core first and only
// then swaps it in, so a failed reload leaves the previous rig
// untouched.
package reactor
