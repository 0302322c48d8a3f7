package tasks

import (
	"errors"
	"fmt"

	"github.com/opencell/reactor-core/internal/hardware"
)

// volumeEpsilon absorbs float residue when deciding whether any
// volume is left to dispense.
const volumeEpsilon = 1e-9

// Pump dispenses volume millilitres on the named channel. With a
// positive targetTime the delivery is spread so the average rate is
// volume/targetTime; without one the pump runs flat out.
//
// Rates the pump can sustain continuously are dispensed in a single
// call. Rates below the channel's minimum speed are delivered as
// one-second bursts at minimum speed, spaced so the average over
// burst plus idle matches the requested rate.
//
// The request is validated on the first pull, because speed limits
// are read lazily from the facade. An unknown channel fails the task
// with ErrInvalidPump; a non-positive volume with ErrInvalidVolume,
// since it would otherwise put a zero rate under the burst division.
func Pump(hw Facade, pump string, volume, targetTime float64) *Task {
	first := func() (Step, stepFunc, error) {
		limits, err := hw.PumpLimits(pump)
		if err != nil {
			if errors.Is(err, hardware.ErrUnknownPump) {
				return Step{}, nil, fmt.Errorf("%w: %q", ErrInvalidPump, pump)
			}
			return Step{}, nil, err
		}
		if volume <= 0 {
			return Step{}, nil, fmt.Errorf("%w: %v mL on %q", ErrInvalidVolume, volume, pump)
		}

		rate := limits.MaxSpeed
		if targetTime > 0 {
			rate = volume / targetTime
		}

		// Continuous delivery: one dispense call covers the whole
		// volume. Over-range requests run at the pump's natural
		// maximum instead of the unreachable target.
		if rate >= limits.MinSpeed {
			duration := targetTime
			if targetTime <= 0 || rate > limits.MaxSpeed {
				duration = 0
			}
			measured, err := hw.Dispense(pump, volume, duration)
			if err != nil {
				return Step{}, nil, err
			}
			return wait(measured), yieldDone, nil
		}

		// Under-range: pulsed delivery. Each burst runs one second at
		// minimum speed; the idle after it stretches the average down
		// to the requested rate.
		burstVolume := limits.MinSpeed // mL moved by a 1-second burst
		interval := limits.MinSpeed/rate - 1

		remaining := volume
		var burst stepFunc
		burst = func() (Step, stepFunc, error) {
			if remaining >= burstVolume-volumeEpsilon {
				before := hw.Uptime()
				if _, err := hw.Dispense(pump, burstVolume, 1); err != nil {
					return Step{}, nil, err
				}
				execTime := hw.Uptime() - before
				remaining -= burstVolume
				return wait(interval - execTime), burst, nil
			}

			// Final fractional chunk. Yielded even when nothing
			// measurable remains, so the step's shape is uniform:
			// bursts, one fractional wait, done.
			if remaining > volumeEpsilon {
				if _, err := hw.Dispense(pump, remaining, remaining/limits.MinSpeed); err != nil {
					return Step{}, nil, err
				}
			}
			return wait(remaining / rate), yieldDone, nil
		}
		return burst()
	}
	return newTask(first)
}

// yieldDone is the terminal continuation for tasks whose last wait
// has already been yielded.
func yieldDone() (Step, stepFunc, error) {
	return done, nil, nil
}
