package dispenser

import (
	"fmt"

	"github.com/opencell/reactor-core/internal/hardware"
)

func init() {
	hardware.Register(hardware.TypeReagentDispenser, "peristalticpump", newPeristaltic)
}

// peristalticPump is the calibration for one peristaltic pump axis.
type peristalticPump struct {
	axis      string
	mmPerMl   float64
	feedMmMin float64
}

// Peristaltic drives peristaltic pumps through a grbl motion
// controller. Peristaltic heads run reliably only at one calibrated
// feed rate, so every pump has a single speed and requested durations
// are ignored.
//
// Required params: pumps, a mapping of pump name to
// {axis, mmPerMl, feedMmPerMin}.
type Peristaltic struct {
	gcode hardware.GcodeDevice
	pumps map[string]peristalticPump
}

func newPeristaltic(desc hardware.DeviceDescriptor, deps map[string]hardware.Device) (hardware.Device, error) {
	gc, err := gcodeDep(desc, deps)
	if err != nil {
		return nil, err
	}

	raw, err := desc.MapParam("pumps")
	if err != nil {
		return nil, err
	}

	pumps := make(map[string]peristalticPump, len(raw))
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
		feed, err := numberSetting(desc, name, settings, "feedMmPerMin")
		if err != nil {
			return nil, err
		}
		if mmPerMl <= 0 || feed <= 0 {
			return nil, fmt.Errorf("%w: %s: pump %q has invalid calibration", hardware.ErrBadParameter, desc.ID, name)
		}
		pumps[name] = peristalticPump{axis: axis, mmPerMl: mmPerMl, feedMmMin: feed}
	}

	return &Peristaltic{gcode: gc, pumps: pumps}, nil
}

// Dispense issues a relative move at the pump's calibrated feed rate.
// The duration argument is ignored. Returns the move's actual
// duration in seconds.
func (p *Peristaltic) Dispense(pump string, volume, duration float64) (float64, error) {
	cfg, ok := p.pumps[pump]
	if !ok {
		return 0, fmt.Errorf("%w: %q", hardware.ErrUnknownPump, pump)
	}

	mm := volume * cfg.mmPerMl

	if err := p.gcode.WriteGcode("G91"); err != nil {
		return 0, err
	}
	if err := p.gcode.WriteGcode(fmt.Sprintf("G1 %s%.3f F%.1f", cfg.axis, mm, cfg.feedMmMin)); err != nil {
		return 0, err
	}

	return mm / cfg.feedMmMin * 60, nil
}

// PumpLimits reports the single calibrated speed as both bounds.
func (p *Peristaltic) PumpLimits(pump string) (hardware.PumpLimits, error) {
	cfg, ok := p.pumps[pump]
	if !ok {
		return hardware.PumpLimits{}, fmt.Errorf("%w: %q", hardware.ErrUnknownPump, pump)
	}
	rate := cfg.feedMmMin / cfg.mmPerMl / 60
	return hardware.PumpLimits{MinSpeed: rate, MaxSpeed: rate}, nil
}
