package tasks

import "errors"

var (
	// ErrTaskExhausted is returned when a task is pulled after it
	// yielded done. That is a scheduler bug, not a recoverable
	// condition.
	ErrTaskExhausted = errors.New("tasks: task already finished")

	// ErrInvalidPump is returned on the first pull of a pump task
	// whose channel is not configured on the dispenser.
	ErrInvalidPump = errors.New("tasks: invalid pump")

	// ErrInvalidVolume is returned on the first pull of a pump task
	// asked to dispense zero or negative millilitres.
	ErrInvalidVolume = errors.New("tasks: invalid dispense volume")

	// ErrUnknownKind is returned by New for an unrecognized task kind.
	ErrUnknownKind = errors.New("tasks: unknown task kind")
)
