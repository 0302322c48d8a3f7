package tasks

import "github.com/opencell/reactor-core/internal/hardware"

// Time-proportioning control period. Each window the PID output is
// mapped to a duty cycle: the heater (positive output) or cooler
// (negative output) runs for |output| * pidWindow seconds, then
// everything rests for the remainder of the window.
const pidWindow = 10.0

// Default gains used when the temperature controller's configuration
// does not provide any.
var defaultPIDConfig = hardware.PIDConfig{P: 1, I: 0.5, D: 5}

// pidState is owned exclusively by one MaintainPID invocation.
type pidState struct {
	gains hardware.PIDConfig

	integral   float64
	prevErr    float64
	prevSample float64
	hasSample  bool
}

// output computes the clamped control output in [-1, 1] for the
// given error sample at the given uptime.
func (s *pidState) output(err, now float64) float64 {
	dt := pidWindow
	if s.hasSample && now > s.prevSample {
		dt = now - s.prevSample
	}

	s.integral += err * dt
	// Anti-windup: keep the integral term alone within the actuator
	// range, so a long saturation does not take minutes to unwind.
	if s.gains.I > 0 {
		limit := 1.0 / s.gains.I
		if s.integral > limit {
			s.integral = limit
		} else if s.integral < -limit {
			s.integral = -limit
		}
	}

	derivative := 0.0
	if s.hasSample {
		derivative = (err - s.prevErr) / dt
	}

	s.prevErr = err
	s.prevSample = now
	s.hasSample = true

	out := s.gains.P*err + s.gains.I*s.integral + s.gains.D*derivative
	if out > 1 {
		out = 1
	} else if out < -1 {
		out = -1
	}
	return out
}

// MaintainPID holds the temperature at target for the given number of
// virtual seconds using a time-proportioning PID controller.
//
// The heater-circulation pump runs for the task's entire active
// lifetime: switched on exactly once on the first pull and off
// exactly once on the pull that yields done. Each control window the
// PID output picks heater or cooler (never both) and the window is
// split into an on phase and an off phase, each yielded as its own
// wait.
func MaintainPID(hw Facade, target, tolerance, duration float64) *Task {
	state := &pidState{gains: defaultPIDConfig}
	if cfg := hw.PIDConfig(); cfg != nil {
		state.gains = *cfg
	}

	started := false
	var start float64

	var windowStart stepFunc

	// finish switches everything off, pump included, and yields done.
	finish := func() (Step, stepFunc, error) {
		if err := hw.HeaterOff(); err != nil {
			return Step{}, nil, err
		}
		if err := hw.CoolerOff(); err != nil {
			return Step{}, nil, err
		}
		if err := hw.HeaterPumpOff(); err != nil {
			return Step{}, nil, err
		}
		return done, nil, nil
	}

	windowStart = func() (Step, stepFunc, error) {
		now := hw.Uptime()
		if !started {
			// First pull: the circulation pump must run continuously
			// while the controller is active.
			if err := hw.HeaterPumpOn(); err != nil {
				return Step{}, nil, err
			}
			start = now
			started = true
		}

		if now-start >= duration {
			return finish()
		}

		temp, err := hw.Temperature()
		if err != nil {
			return Step{}, nil, err
		}

		out := state.output(target-temp, now)

		onTime := out * pidWindow
		var offPhase stepFunc
		switch {
		case out > 0:
			if err := hw.CoolerOff(); err != nil {
				return Step{}, nil, err
			}
			if err := hw.HeaterOn(); err != nil {
				return Step{}, nil, err
			}
			offPhase = restPhase(hw, hw.HeaterOff, pidWindow-onTime, duration, start, finish, &windowStart)
		case out < 0:
			onTime = -onTime
			if err := hw.HeaterOff(); err != nil {
				return Step{}, nil, err
			}
			if err := hw.CoolerOn(); err != nil {
				return Step{}, nil, err
			}
			offPhase = restPhase(hw, hw.CoolerOff, pidWindow-onTime, duration, start, finish, &windowStart)
		default:
			// Output exactly zero: rest for a whole window.
			if err := hw.HeaterOff(); err != nil {
				return Step{}, nil, err
			}
			if err := hw.CoolerOff(); err != nil {
				return Step{}, nil, err
			}
			return wait(pidWindow), windowStart, nil
		}

		return wait(onTime), offPhase, nil
	}

	return newTask(windowStart)
}

// restPhase switches the active actuator off and pauses for the
// remainder of the control window, or finishes early if the duration
// elapsed during the on phase.
func restPhase(hw Facade, off func() error, restTime, duration, start float64, finish stepFunc, windowStart *stepFunc) stepFunc {
	return func() (Step, stepFunc, error) {
		if hw.Uptime()-start >= duration {
			return finish()
		}
		if err := off(); err != nil {
			return Step{}, nil, err
		}
		return wait(restTime), *windowStart, nil
	}
}
