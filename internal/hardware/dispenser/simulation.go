package dispenser

import (
	"fmt"
	"sync"

	"github.com/opencell/reactor-core/internal/hardware"
)

func init() {
	hardware.Register(hardware.TypeReagentDispenser, "simulation", newSimulation)
}

// Simulation records dispensed volumes in memory.
//
// Required params: pumps, a mapping of pump name to
// {minSpeed, maxSpeed} in mL/s.
type Simulation struct {
	mu     sync.Mutex
	pumps  map[string]hardware.PumpLimits
	totals map[string]float64
}

func newSimulation(desc hardware.DeviceDescriptor, deps map[string]hardware.Device) (hardware.Device, error) {
	raw, err := desc.MapParam("pumps")
	if err != nil {
		return nil, err
	}

	pumps := make(map[string]hardware.PumpLimits, len(raw))
	for name, v := range raw {
		settings, ok := v.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: %s: pump %q must be a mapping, got %T", hardware.ErrBadParameter, desc.ID, name, v)
		}
		minSpeed, err := numberSetting(desc, name, settings, "minSpeed")
		if err != nil {
			return nil, err
		}
		maxSpeed, err := numberSetting(desc, name, settings, "maxSpeed")
		if err != nil {
			return nil, err
		}
		if maxSpeed <= 0 || minSpeed < 0 || minSpeed > maxSpeed {
			return nil, fmt.Errorf("%w: %s: pump %q has invalid speed range [%g, %g]", hardware.ErrBadParameter, desc.ID, name, minSpeed, maxSpeed)
		}
		pumps[name] = hardware.PumpLimits{MinSpeed: minSpeed, MaxSpeed: maxSpeed}
	}

	return &Simulation{
		pumps:  pumps,
		totals: make(map[string]float64, len(pumps)),
	}, nil
}

// numberSetting reads one numeric field from a per-pump settings map.
func numberSetting(desc hardware.DeviceDescriptor, pump string, settings map[string]any, key string) (float64, error) {
	v, ok := settings[key]
	if !ok {
		return 0, fmt.Errorf("%w: %s: pump %q requires %q", hardware.ErrBadParameter, desc.ID, pump, key)
	}
	switch n := v.(type) {
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	default:
		return 0, fmt.Errorf("%w: %s: pump %q: %q must be a number, got %T", hardware.ErrBadParameter, desc.ID, pump, key, v)
	}
}

// Dispense records the volume and returns the time the real pump
// would have taken: the requested duration, or volume at maximum
// speed when no duration is given.
func (s *Simulation) Dispense(pump string, volume, duration float64) (float64, error) {
	limits, ok := s.pumps[pump]
	if !ok {
		return 0, fmt.Errorf("%w: %q", hardware.ErrUnknownPump, pump)
	}

	s.mu.Lock()
	s.totals[pump] += volume
	s.mu.Unlock()

	if duration > 0 {
		return duration, nil
	}
	return volume / limits.MaxSpeed, nil
}

func (s *Simulation) PumpLimits(pump string) (hardware.PumpLimits, error) {
	limits, ok := s.pumps[pump]
	if !ok {
		return hardware.PumpLimits{}, fmt.Errorf("%w: %q", hardware.ErrUnknownPump, pump)
	}
	return limits, nil
}

// Dispensed returns the total volume recorded for a pump.
func (s *Simulation) Dispensed(pump string) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totals[pump]
}
