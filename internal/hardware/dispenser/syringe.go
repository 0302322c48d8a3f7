package dispenser

import (
	"fmt"

	"github.com/opencell/reactor-core/internal/hardware"
)

func init() {
	hardware.Register(hardware.TypeReagentDispenser, "syringepump", newSyringe)
}

// syringePump is the calibration for one syringe pump axis.
type syringePump struct {
	axis       string
	mmPerMl    float64
	minMmPerMm float64 // minimum feed, mm/min
	maxMmPerMm float64 // maximum feed, mm/min
}

// Syringe drives syringe pumps through a grbl motion controller. Each
// pump maps to one axis; a dispense is a relative move whose distance
// comes from the pump's mm-per-mL calibration and whose feed rate
// comes from the requested duration.
//
// Required params: pumps, a mapping of pump name to
// {axis, mmPerMl, maxMmPerMin} with optional minMmPerMin.
type Syringe struct {
	gcode hardware.GcodeDevice
	pumps map[string]syringePump
}

func newSyringe(desc hardware.DeviceDescriptor, deps map[string]hardware.Device) (hardware.Device, error) {
	gc, err := gcodeDep(desc, deps)
	if err != nil {
		return nil, err
	}

	raw, err := desc.MapParam("pumps")
	if err != nil {
		return nil, err
	}

	pumps := make(map[string]syringePump, len(raw))
	for name, v := range raw {
		settings, ok := v.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: %s: pump %q must be a mapping, got %T", hardware.ErrBadParameter, desc.ID, name, v)
		}
		axis, err := stringSetting(desc, name, settings, "axis")
		if err != nil {
			return nil, err
		}
		mmPerMl, err := numberSetting(desc, name, settings, "mmPerMl")
		if err != nil {
			return nil, err
		}
		maxFeed, err := numberSetting(desc, name, settings, "maxMmPerMin")
		if err != nil {
			return nil, err
		}
		minFeed := 0.0
		if _, ok := settings["minMmPerMin"]; ok {
			minFeed, err = numberSetting(desc, name, settings, "minMmPerMin")
			if err != nil {
				return nil, err
			}
		}
		if mmPerMl <= 0 || maxFeed <= 0 || minFeed < 0 || minFeed > maxFeed {
			return nil, fmt.Errorf("%w: %s: pump %q has invalid calibration", hardware.ErrBadParameter, desc.ID, name)
		}
		pumps[name] = syringePump{
			axis:       axis,
			mmPerMl:    mmPerMl,
			minMmPerMm: minFeed,
			maxMmPerMm: maxFeed,
		}
	}

	return &Syringe{gcode: gc, pumps: pumps}, nil
}

// gcodeDep finds the grbl controller among a dispenser's resolved
// dependencies. Shared by all grbl-backed dispensers in this package.
func gcodeDep(desc hardware.DeviceDescriptor, deps map[string]hardware.Device) (hardware.GcodeDevice, error) {
	for _, dep := range deps {
		if gc, ok := dep.(hardware.GcodeDevice); ok {
			return gc, nil
		}
	}
	return nil, fmt.Errorf("%w: %s requires a grbl dependency", hardware.ErrBadParameter, desc.ID)
}

// stringSetting reads one string field from a per-pump settings map.
func stringSetting(desc hardware.DeviceDescriptor, pump string, settings map[string]any, key string) (string, error) {
	v, ok := settings[key]
	if !ok {
		return "", fmt.Errorf("%w: %s: pump %q requires %q", hardware.ErrBadParameter, desc.ID, pump, key)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%w: %s: pump %q: %q must be a string, got %T", hardware.ErrBadParameter, desc.ID, pump, key, v)
	}
	return s, nil
}

// Dispense issues a relative move of volume*mmPerMl millimetres. With
// a positive duration the feed rate is chosen to finish in that time,
// clamped to the pump's feed range; without one the pump runs at its
// maximum feed. Returns the move's actual duration in seconds.
func (s *Syringe) Dispense(pump string, volume, duration float64) (float64, error) {
	p, ok := s.pumps[pump]
	if !ok {
		return 0, fmt.Errorf("%w: %q", hardware.ErrUnknownPump, pump)
	}

	mm := volume * p.mmPerMl

	feed := p.maxMmPerMm
	if duration > 0 {
		feed = mm / duration * 60
		if feed > p.maxMmPerMm {
			feed = p.maxMmPerMm
		}
		if feed < p.minMmPerMm {
			feed = p.minMmPerMm
		}
	}

	if err := s.gcode.WriteGcode("G91"); err != nil {
		return 0, err
	}
	if err := s.gcode.WriteGcode(fmt.Sprintf("G1 %s%.3f F%.1f", p.axis, mm, feed)); err != nil {
		return 0, err
	}

	return mm / feed * 60, nil
}

func (s *Syringe) PumpLimits(pump string) (hardware.PumpLimits, error) {
	p, ok := s.pumps[pump]
	if !ok {
		return hardware.PumpLimits{}, fmt.Errorf("%w: %q", hardware.ErrUnknownPump, pump)
	}
	return hardware.PumpLimits{
		MinSpeed: p.minMmPerMm / p.mmPerMl / 60,
		MaxSpeed: p.maxMmPerMm / p.mmPerMl / 60,
	}, nil
}
