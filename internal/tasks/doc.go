// Package tasks implements the cooperative control library for
// recipe steps. Each task is a lazy, finite sequence of steps pulled
// by a scheduler: every pull performs its hardware effects
// synchronously, then yields either a wait (pause this many virtual
// seconds, then pull again) or done (never pull again).
//
// Tasks never sleep themselves and never touch hardware between
// pulls, so the scheduler's pause is the only suspension point and
// exactly one task is ever active against the facade.
package tasks
