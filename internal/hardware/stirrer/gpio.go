package stirrer

import (
	"fmt"

	"github.com/opencell/reactor-core/internal/hardware"
)

func init() {
	hardware.Register(hardware.TypeStirrer, "gpio_stirrer", newGPIO)
}

// GPIO switches a stirrer motor relay through a gpio chip dependency.
//
// Required params: pin.
type GPIO struct {
	chip hardware.GPIOChip
	pin  int
}

func newGPIO(desc hardware.DeviceDescriptor, deps map[string]hardware.Device) (hardware.Device, error) {
	pin, err := desc.IntParam("pin")
	if err != nil {
		return nil, err
	}

	var chip hardware.GPIOChip
	for _, dep := range deps {
		if c, ok := dep.(hardware.GPIOChip); ok {
			chip = c
			break
		}
	}
	if chip == nil {
		return nil, fmt.Errorf("%w: %s requires a gpio dependency", hardware.ErrBadParameter, desc.ID)
	}

	g := &GPIO{chip: chip, pin: pin}
	if err := chip.SetPin(pin, false); err != nil {
		return nil, fmt.Errorf("initialising pin %d: %w", pin, err)
	}
	return g, nil
}

func (g *GPIO) StirrerOn() error  { return g.chip.SetPin(g.pin, true) }
func (g *GPIO) StirrerOff() error { return g.chip.SetPin(g.pin, false) }

// Close stops the motor.
func (g *GPIO) Close() error {
	return g.chip.SetPin(g.pin, false)
}
