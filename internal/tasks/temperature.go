package tasks

// pollInterval is the pause between temperature checks for the
// simple bang-bang tasks, in virtual seconds.
const pollInterval = 1.0

// Heat turns the heater on until the temperature reaches target.
// Idempotent: if the reactor is already at or above target the first
// pull turns the heater off and finishes immediately.
func Heat(hw Facade, target float64) *Task {
	var step stepFunc
	step = func() (Step, stepFunc, error) {
		temp, err := hw.Temperature()
		if err != nil {
			return Step{}, nil, err
		}
		if temp >= target {
			if err := hw.HeaterOff(); err != nil {
				return Step{}, nil, err
			}
			return done, nil, nil
		}
		if err := hw.HeaterOn(); err != nil {
			return Step{}, nil, err
		}
		return wait(pollInterval), step, nil
	}
	return newTask(step)
}

// Cool mirrors Heat: cooler on until the temperature falls to target.
func Cool(hw Facade, target float64) *Task {
	var step stepFunc
	step = func() (Step, stepFunc, error) {
		temp, err := hw.Temperature()
		if err != nil {
			return Step{}, nil, err
		}
		if temp <= target {
			if err := hw.CoolerOff(); err != nil {
				return Step{}, nil, err
			}
			return done, nil, nil
		}
		if err := hw.CoolerOn(); err != nil {
			return Step{}, nil, err
		}
		return wait(pollInterval), step, nil
	}
	return newTask(step)
}

// MaintainHeat holds the temperature within [target-tolerance,
// target+tolerance] using the heater for the given number of virtual
// seconds, measured from the task's first pull. Once the time is up,
// heater and cooler are both switched off regardless of temperature.
func MaintainHeat(hw Facade, target, tolerance, duration float64) *Task {
	return maintain(hw, duration, func() error {
		temp, err := hw.Temperature()
		if err != nil {
			return err
		}
		if temp < target-tolerance {
			return hw.HeaterOn()
		}
		return hw.HeaterOff()
	})
}

// MaintainCool mirrors MaintainHeat with the cooler: on above the
// band, off inside or below it.
func MaintainCool(hw Facade, target, tolerance, duration float64) *Task {
	return maintain(hw, duration, func() error {
		temp, err := hw.Temperature()
		if err != nil {
			return err
		}
		if temp > target+tolerance {
			return hw.CoolerOn()
		}
		return hw.CoolerOff()
	})
}

// maintain runs adjust once per poll cycle until duration virtual
// seconds have elapsed, then switches heater and cooler off and
// finishes.
func maintain(hw Facade, duration float64, adjust func() error) *Task {
	started := false
	var start float64

	var step stepFunc
	step = func() (Step, stepFunc, error) {
		now := hw.Uptime()
		if !started {
			start = now
			started = true
		}

		if now-start >= duration {
			if err := hw.HeaterOff(); err != nil {
				return Step{}, nil, err
			}
			if err := hw.CoolerOff(); err != nil {
				return Step{}, nil, err
			}
			return done, nil, nil
		}

		if err := adjust(); err != nil {
			return Step{}, nil, err
		}
		return wait(pollInterval), step, nil
	}
	return newTask(step)
}

// Stir runs the stirrer for the given number of virtual seconds,
// measured from the task's first pull.
func Stir(hw Facade, duration float64) *Task {
	started := false
	var start float64

	var step stepFunc
	step = func() (Step, stepFunc, error) {
		now := hw.Uptime()
		if !started {
			start = now
			started = true
		}

		if now-start >= duration {
			if err := hw.StirrerOff(); err != nil {
				return Step{}, nil, err
			}
			return done, nil, nil
		}

		if err := hw.StirrerOn(); err != nil {
			return Step{}, nil, err
		}
		return wait(duration - (now - start)), step, nil
	}
	return newTask(step)
}
